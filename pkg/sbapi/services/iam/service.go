// Package iam turns bearer credentials into verified principals. Token
// issuance lives with the external identity provider; this service only
// validates and maps identities to local user rows.
package iam

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sitebox/sitebox/pkg/db"
	"github.com/sitebox/sitebox/pkg/kv"
	"github.com/sitebox/sitebox/pkg/sberr"
	"github.com/sitebox/sitebox/pkg/sblog"
)

// TokenAudience is the expected audience claim for access tokens.
const TokenAudience = "sitebox"

const (
	kvPrefixPrincipal = "iam:sub:"
	principalCacheTTL = 5 * time.Minute
)

type Service struct {
	secret []byte
	users  db.UserStore
	cache  kv.Store
	logger *sblog.Logger
}

func NewService(secret string, users db.UserStore, cache kv.Store, logger *sblog.Logger) *Service {
	if logger == nil {
		logger = sblog.NewDefault()
	}
	return &Service{
		secret: []byte(secret),
		users:  users,
		cache:  cache,
		logger: logger,
	}
}

// ValidateToken verifies an HS256 bearer token and resolves the local
// user row for its subject, upserting on first sight. The sub→user
// mapping is cached briefly so every request does not hit Postgres.
func (s *Service) ValidateToken(ctx context.Context, tokenStr string) (*Principal, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithAudience(TokenAudience), jwt.WithExpirationRequired())
	if err != nil {
		return nil, sberr.New(sberr.CodeUnauthorized, err)
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, sberr.Newf(sberr.CodeUnauthorized, "token has no subject")
	}
	email, _ := claims["email"].(string)

	userID, err := s.resolveUser(ctx, sub, email)
	if err != nil {
		return nil, sberr.New(sberr.CodeInternal, err)
	}

	return &Principal{UserID: userID, Subject: sub, Email: email}, nil
}

func (s *Service) resolveUser(ctx context.Context, sub, email string) (uuid.UUID, error) {
	cacheKey := kvPrefixPrincipal + sub
	if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
		if id, err := uuid.ParseBytes(cached); err == nil {
			return id, nil
		}
	}

	user, err := s.users.UpsertByProviderID(ctx, "external", sub, email)
	if err != nil {
		return uuid.Nil, err
	}

	if err := s.cache.Set(ctx, cacheKey, []byte(user.ID.String()), principalCacheTTL); err != nil {
		s.logger.Warn("principal cache write failed", "error", err)
	}
	return user.ID, nil
}
