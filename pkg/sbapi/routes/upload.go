package routes

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/sitebox/sitebox/pkg/sbapi/schemas"
	"github.com/sitebox/sitebox/pkg/sbapi/services"
	"github.com/sitebox/sitebox/pkg/sberr"
)

// UploadHandler accepts a multipart form with a "file" field holding the
// zipped site and returns the created project record.
func UploadHandler(svcs *services.Services) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, err := svcs.IAM.FromRequest(r)
		if err != nil {
			writeError(w, err)
			return
		}

		maxBytes := svcs.Site.MaxUploadBytes()
		// Cap the body before multipart parsing; the decompressed-size
		// ceiling inside the pipeline handles the rest.
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+1<<20)

		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, sberr.Newf(sberr.CodeBadRequest, "missing file field: %v", err))
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			writeError(w, sberr.Newf(sberr.CodeBadRequest, "reading upload: %v", err))
			return
		}

		project, err := svcs.Site.Ingest(r.Context(), principal.UserID, header.Filename, data)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{
			"project": schemas.FromProject(project),
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	code := sberr.CodeOf(err)
	msg := err.Error()
	if code == sberr.CodeInternal || code == sberr.CodeUnknown {
		msg = "internal error"
	}
	writeJSON(w, statusFor(err), schemas.ErrorResponse{
		Kind:    string(code),
		Message: msg,
	})
}
