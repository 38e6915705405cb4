package iam

import (
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/sitebox/sitebox/pkg/sberr"
)

// Middleware attaches the verified principal to the request context when
// a valid bearer token is present. Routes decide individually whether a
// principal is required.
func (s *Service) Middleware() func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		r, _ := humachi.Unwrap(ctx)

		if p, err := s.FromRequest(r); err == nil {
			ctx = huma.WithValue(ctx, principalKey, p)
		} else if !sberr.IsCode(err, sberr.CodeUnauthorized) {
			s.logger.Warn("principal resolution failed", "error", err)
		}

		next(ctx)
	}
}

// FromRequest extracts and validates the bearer token of a plain HTTP
// request. Used directly by the upload handler, which lives outside huma.
func (s *Service) FromRequest(r *http.Request) (*Principal, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, sberr.Newf(sberr.CodeUnauthorized, "missing bearer token")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, sberr.Newf(sberr.CodeUnauthorized, "malformed authorization header")
	}

	return s.ValidateToken(r.Context(), parts[1])
}
