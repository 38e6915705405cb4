package iam

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sitebox/sitebox/pkg/db/models"
	"github.com/sitebox/sitebox/pkg/kv"
	"github.com/sitebox/sitebox/pkg/sberr"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// fakeUsers records upserts so the test can observe caching behavior.
type fakeUsers struct {
	upserts atomic.Int64
	id      uuid.UUID
}

func (f *fakeUsers) UpsertByProviderID(ctx context.Context, provider, providerID, email string) (*models.User, error) {
	f.upserts.Add(1)
	if f.id == uuid.Nil {
		f.id = uuid.New()
	}
	return &models.User{ID: f.id, Provider: provider, ProviderID: providerID, Email: email}, nil
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return token
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":   "user-123",
		"email": "u@example.com",
		"aud":   TokenAudience,
		"exp":   time.Now().Add(time.Hour).Unix(),
		"iat":   time.Now().Unix(),
	}
}

func TestValidateToken(t *testing.T) {
	users := &fakeUsers{}
	svc := NewService(testSecret, users, kv.NewMemoryStore(), nil)

	p, err := svc.ValidateToken(context.Background(), signToken(t, validClaims()))
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if p.Subject != "user-123" || p.Email != "u@example.com" {
		t.Errorf("unexpected principal: %+v", p)
	}
	if p.UserID == uuid.Nil {
		t.Error("principal should carry the upserted user id")
	}
}

func TestValidateTokenCachesUserLookup(t *testing.T) {
	users := &fakeUsers{}
	svc := NewService(testSecret, users, kv.NewMemoryStore(), nil)
	ctx := context.Background()

	token := signToken(t, validClaims())
	for range 3 {
		if _, err := svc.ValidateToken(ctx, token); err != nil {
			t.Fatalf("ValidateToken failed: %v", err)
		}
	}

	if got := users.upserts.Load(); got != 1 {
		t.Errorf("expected 1 upsert with cache hits after that, got %d", got)
	}
}

func TestValidateTokenRejections(t *testing.T) {
	svc := NewService(testSecret, &fakeUsers{}, kv.NewMemoryStore(), nil)
	ctx := context.Background()

	expired := validClaims()
	expired["exp"] = time.Now().Add(-time.Hour).Unix()

	wrongAud := validClaims()
	wrongAud["aud"] = "someone-else"

	noSub := validClaims()
	delete(noSub, "sub")

	noExp := validClaims()
	delete(noExp, "exp")

	tests := map[string]string{
		"garbage":        "not.a.jwt",
		"expired":        signToken(t, expired),
		"wrong audience": signToken(t, wrongAud),
		"no subject":     signToken(t, noSub),
		"no expiry":      signToken(t, noExp),
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.ValidateToken(ctx, token); !sberr.IsCode(err, sberr.CodeUnauthorized) {
				t.Errorf("expected unauthorized, got %v", err)
			}
		})
	}
}

func TestValidateTokenRejectsWrongKey(t *testing.T) {
	svc := NewService("a-completely-different-32-byte-key!!", &fakeUsers{}, kv.NewMemoryStore(), nil)

	if _, err := svc.ValidateToken(context.Background(), signToken(t, validClaims())); !sberr.IsCode(err, sberr.CodeUnauthorized) {
		t.Errorf("expected unauthorized for wrong signing key, got %v", err)
	}
}
