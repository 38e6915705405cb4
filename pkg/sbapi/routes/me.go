package routes

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/sitebox/sitebox/pkg/sbapi/services"
)

type MeOutput struct {
	Body struct {
		UserID  string `json:"user_id" doc:"Local user ID"`
		Subject string `json:"subject" doc:"Identity provider subject"`
		Email   string `json:"email,omitempty" doc:"Email, when the token carries one"`
	}
}

func RegisterMe(api huma.API, svcs *services.Services) {
	huma.Register(api, huma.Operation{
		OperationID: "get-me",
		Method:      http.MethodGet,
		Path:        "/api/me",
		Summary:     "Get current user",
		Tags:        []string{"IAM"},
		Security:    BearerAuth,
	}, func(ctx context.Context, input *struct{}) (*MeOutput, error) {
		principal, ok := svcs.IAM.Principal(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		resp := &MeOutput{}
		resp.Body.UserID = principal.UserID.String()
		resp.Body.Subject = principal.Subject
		resp.Body.Email = principal.Email
		return resp, nil
	})
}
