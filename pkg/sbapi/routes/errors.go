package routes

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/sitebox/sitebox/pkg/sberr"
)

// statusFor maps error codes to HTTP statuses. Gone is distinct from
// NotFound so clients can tell "never existed" from "timed out".
func statusFor(err error) int {
	switch sberr.CodeOf(err) {
	case sberr.CodeUnauthorized:
		return http.StatusUnauthorized
	case sberr.CodeBadRequest:
		return http.StatusBadRequest
	case sberr.CodeNotFound:
		return http.StatusNotFound
	case sberr.CodeGone:
		return http.StatusGone
	case sberr.CodeTransient:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// humaError converts a service failure to the API error shape. Internal
// details never reach the caller; the code string does.
func humaError(err error) error {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		return huma.NewError(status, "internal error")
	}
	return huma.NewError(status, err.Error())
}
