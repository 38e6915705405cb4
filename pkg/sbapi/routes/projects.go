package routes

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/sitebox/sitebox/pkg/sbapi/schemas"
	"github.com/sitebox/sitebox/pkg/sbapi/services"
)

// ListProjectsOutput is the response for listing the caller's projects.
type ListProjectsOutput struct {
	Body struct {
		Projects []schemas.ProjectResponse `json:"projects" doc:"The caller's projects, newest first"`
	}
}

// DeleteProjectInput identifies the project to delete.
type DeleteProjectInput struct {
	ProjectID string `path:"projectId" doc:"Project record ID"`
}

// RegisterProjects registers project management routes.
func RegisterProjects(api huma.API, svcs *services.Services) {
	huma.Register(api, huma.Operation{
		OperationID: "list-projects",
		Method:      http.MethodGet,
		Path:        "/api/projects",
		Summary:     "List projects",
		Description: "List the authenticated user's projects, expired ones included",
		Tags:        []string{"Projects"},
		Security:    BearerAuth,
	}, func(ctx context.Context, input *struct{}) (*ListProjectsOutput, error) {
		principal, ok := svcs.IAM.Principal(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		projects, err := svcs.Site.ListByOwner(ctx, principal.UserID)
		if err != nil {
			return nil, humaError(err)
		}

		resp := &ListProjectsOutput{}
		resp.Body.Projects = make([]schemas.ProjectResponse, len(projects))
		for i := range projects {
			resp.Body.Projects[i] = schemas.FromProject(&projects[i])
		}
		return resp, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-project",
		Method:      http.MethodDelete,
		Path:        "/api/projects/{projectId}",
		Summary:     "Delete a project",
		Description: "Immediately removes the project's storage and record",
		Tags:        []string{"Projects"},
		Security:    BearerAuth,
	}, func(ctx context.Context, input *DeleteProjectInput) (*struct{}, error) {
		principal, ok := svcs.IAM.Principal(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		projectID, err := uuid.Parse(input.ProjectID)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid project id")
		}

		if err := svcs.Site.Delete(ctx, principal.UserID, projectID); err != nil {
			return nil, humaError(err)
		}
		return &struct{}{}, nil
	})
}
