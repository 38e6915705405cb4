package routes

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sitebox/sitebox/pkg/sbapi/services"
	"github.com/sitebox/sitebox/pkg/sberr"
)

// PreviewHandler serves stored site files. The bare token path serves
// the project's entry point; deeper paths resolve against stored keys
// with extension completion. Error bodies stay minimal: status text
// only, no internals.
func PreviewHandler(svcs *services.Services) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "token")

		var segments []string
		if rest := chi.URLParam(r, "*"); rest != "" {
			segments = strings.Split(rest, "/")
		}

		content, err := svcs.Site.Resolve(r.Context(), token, segments)
		if err != nil {
			status := statusFor(err)
			if sberr.CodeOf(err) == sberr.CodeInternal || sberr.CodeOf(err) == sberr.CodeUnknown {
				http.Error(w, "internal server error", status)
				return
			}
			http.Error(w, http.StatusText(status), status)
			return
		}

		w.Header().Set("Content-Type", content.ContentType)
		w.Header().Set("Cache-Control", content.CacheControl)
		_, _ = w.Write(content.Data)
	}
}
