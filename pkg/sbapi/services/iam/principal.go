package iam

import (
	"context"

	"github.com/google/uuid"
)

// Principal is the verified identity attached to a request.
type Principal struct {
	UserID  uuid.UUID
	Subject string
	Email   string
}

type ctxKey string

const principalKey ctxKey = "sitebox.principal"

func (s *Service) Principal(ctx context.Context) (*Principal, bool) {
	if v := ctx.Value(principalKey); v != nil {
		if p, ok := v.(*Principal); ok {
			return p, true
		}
	}
	return nil, false
}
