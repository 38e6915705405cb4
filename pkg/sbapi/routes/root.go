package routes

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sitebox/sitebox/pkg/sbapi/services"
)

// BearerAuth marks operations that require a verified principal.
var BearerAuth = []map[string][]string{{"bearer": {}}}

// RegisterAPI installs the JSON operations on the huma API.
func RegisterAPI(api huma.API, svcs *services.Services) {
	if svcs != nil {
		api.UseMiddleware(svcs.IAM.Middleware())
	}

	RegisterHealth(api)
	RegisterMe(api, svcs)
	RegisterProjects(api, svcs)
	RegisterCleanup(api, svcs)
}

// RegisterWeb installs the raw HTTP handlers (multipart upload, preview
// byte serving) directly on the chi router; huma's JSON envelope does
// not fit either.
func RegisterWeb(router *chi.Mux, svcs *services.Services) {
	router.Post("/api/upload", UploadHandler(svcs))
	router.Get("/api/preview/{token}", PreviewHandler(svcs))
	router.Get("/api/preview/{token}/*", PreviewHandler(svcs))

	if svcs.Config.MetricsEnabled {
		router.Handle("/metrics", promhttp.Handler())
	}
}
