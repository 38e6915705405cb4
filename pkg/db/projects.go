package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sitebox/sitebox/pkg/db/models"
	"github.com/uptrace/bun"
)

// ErrProjectNotFound is returned by lookups that match no row.
var ErrProjectNotFound = errors.New("project not found")

// ProjectStore is the metadata contract the site pipeline consumes.
// Every operation is atomic at single-row granularity; nothing here
// needs a transaction spanning rows.
type ProjectStore interface {
	Create(ctx context.Context, p *models.Project) error
	FindByToken(ctx context.Context, token string) (*models.Project, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Project, error)
	FindExpired(ctx context.Context, now time.Time) ([]models.Project, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.ProjectStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// BunProjectStore implements ProjectStore on Postgres.
type BunProjectStore struct {
	db *bun.DB
}

func NewProjectStore(db *bun.DB) *BunProjectStore {
	return &BunProjectStore{db: db}
}

func (s *BunProjectStore) Create(ctx context.Context, p *models.Project) error {
	_, err := s.db.NewInsert().Model(p).Exec(ctx)
	return err
}

func (s *BunProjectStore) FindByToken(ctx context.Context, token string) (*models.Project, error) {
	p := new(models.Project)
	err := s.db.NewSelect().Model(p).Where("token = ?", token).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *BunProjectStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	p := new(models.Project)
	err := s.db.NewSelect().Model(p).Where("p.id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *BunProjectStore) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Project, error) {
	var projects []models.Project
	err := s.db.NewSelect().
		Model(&projects).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Scan(ctx)
	return projects, err
}

func (s *BunProjectStore) FindExpired(ctx context.Context, now time.Time) ([]models.Project, error) {
	var projects []models.Project
	err := s.db.NewSelect().
		Model(&projects).
		Where("status = ?", models.StatusActive).
		Where("expires_at < ?", now).
		Scan(ctx)
	return projects, err
}

func (s *BunProjectStore) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ProjectStatus) error {
	_, err := s.db.NewUpdate().
		Model((*models.Project)(nil)).
		Set("status = ?", status).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

func (s *BunProjectStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.NewDelete().
		Model((*models.Project)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

// Ensure BunProjectStore implements ProjectStore.
var _ ProjectStore = (*BunProjectStore)(nil)
