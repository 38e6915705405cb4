package db

import (
	"context"
	"time"

	"github.com/sitebox/sitebox/pkg/db/models"
	"github.com/uptrace/bun"
)

// UserStore maps external identities to local user rows.
type UserStore interface {
	// UpsertByProviderID finds or creates the row for an external
	// identity and returns it.
	UpsertByProviderID(ctx context.Context, provider, providerID, email string) (*models.User, error)
}

// BunUserStore implements UserStore on Postgres.
type BunUserStore struct {
	db *bun.DB
}

func NewUserStore(db *bun.DB) *BunUserStore {
	return &BunUserStore{db: db}
}

func (s *BunUserStore) UpsertByProviderID(ctx context.Context, provider, providerID, email string) (*models.User, error) {
	user := &models.User{
		Provider:   provider,
		ProviderID: providerID,
		Email:      email,
		UpdatedAt:  time.Now(),
	}

	_, err := s.db.NewInsert().
		Model(user).
		On("CONFLICT (provider_id) DO UPDATE").
		Set("email = EXCLUDED.email").
		Set("updated_at = EXCLUDED.updated_at").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Ensure BunUserStore implements UserStore.
var _ UserStore = (*BunUserStore)(nil)
