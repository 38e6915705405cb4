package routes

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/sitebox/sitebox/pkg/sbapi/services"
)

// CleanupInput carries the shared secret the external scheduler sends.
type CleanupInput struct {
	CronSecret string `header:"X-Cron-Secret" doc:"Shared secret authorizing the scheduler"`
}

// CleanupOutput reports how many projects the pass transitioned.
type CleanupOutput struct {
	Body struct {
		Reclaimed int `json:"reclaimed" doc:"Projects transitioned to expired"`
	}
}

// RegisterCleanup registers the reclamation trigger. An external
// scheduler calls it on a fixed interval; the pass is idempotent, so
// overlapping invocations are harmless.
func RegisterCleanup(api huma.API, svcs *services.Services) {
	huma.Register(api, huma.Operation{
		OperationID: "cron-cleanup",
		Method:      http.MethodPost,
		Path:        "/api/cron/cleanup",
		Summary:     "Reclaim expired projects",
		Tags:        []string{"System"},
	}, func(ctx context.Context, input *CleanupInput) (*CleanupOutput, error) {
		secret := svcs.Config.CronSecret
		if secret == "" {
			return nil, huma.Error404NotFound("cron endpoint disabled")
		}
		if subtle.ConstantTimeCompare([]byte(input.CronSecret), []byte(secret)) != 1 {
			return nil, huma.Error401Unauthorized("bad cron secret")
		}

		n, err := svcs.Site.Reclaim(ctx)
		if err != nil {
			return nil, humaError(err)
		}

		resp := &CleanupOutput{}
		resp.Body.Reclaimed = n
		return resp, nil
	})
}
