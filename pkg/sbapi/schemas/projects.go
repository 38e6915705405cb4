package schemas

import (
	"time"

	"github.com/sitebox/sitebox/pkg/db/models"
)

// ProjectResponse is the API view of a project record.
type ProjectResponse struct {
	ID             string `json:"id" doc:"Project record ID"`
	Name           string `json:"name" doc:"Display name derived from the uploaded filename"`
	Token          string `json:"token" doc:"Preview URL token"`
	PreviewPath    string `json:"preview_path" doc:"Relative preview URL"`
	EntryPoint     string `json:"entry_point" doc:"File served at the bare preview URL"`
	Status         string `json:"status" enum:"active,expired" doc:"Lifecycle status"`
	StorageBackend string `json:"storage_backend" doc:"Backend holding the site files"`
	ExpiresAt      string `json:"expires_at" doc:"RFC3339 expiry timestamp"`
	CreatedAt      string `json:"created_at" doc:"RFC3339 creation timestamp"`
}

// FromProject converts a metadata record to its API shape.
func FromProject(p *models.Project) ProjectResponse {
	return ProjectResponse{
		ID:             p.ID.String(),
		Name:           p.Name,
		Token:          p.Token,
		PreviewPath:    "/api/preview/" + p.Token + "/",
		EntryPoint:     p.EntryPoint,
		Status:         string(p.Status),
		StorageBackend: p.StorageBackend,
		ExpiresAt:      p.ExpiresAt.Format(time.RFC3339),
		CreatedAt:      p.CreatedAt.Format(time.RFC3339),
	}
}

// ErrorResponse is the JSON error body written by the non-huma handlers.
type ErrorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}
