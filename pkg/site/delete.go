package site

import (
	"context"

	"github.com/google/uuid"
	"github.com/sitebox/sitebox/pkg/db"
	"github.com/sitebox/sitebox/pkg/db/models"
	"github.com/sitebox/sitebox/pkg/sberr"
)

// Delete removes a project's storage and record immediately, bypassing
// expiry. The lookup is scoped to the owner, so deleting someone else's
// project reports not_found rather than confirming it exists.
func (s *Service) Delete(ctx context.Context, ownerID, projectID uuid.UUID) error {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		if err == db.ErrProjectNotFound {
			return sberr.Newf(sberr.CodeNotFound, "no such project")
		}
		return sberr.New(sberr.CodeInternal, err)
	}
	if project.OwnerID != ownerID {
		return sberr.Newf(sberr.CodeNotFound, "no such project")
	}

	// The record goes away even when a backend is unreachable; otherwise
	// the owner cannot get rid of a project while one backend is down.
	// The surviving objects are caught by a later reclamation of the
	// never-reused prefix, or by operator follow-up from this log line.
	if n, err := s.router.DeletePrefix(ctx, project.StoragePath); err != nil {
		s.logger.Warn("storage delete incomplete",
			"token", project.Token, "prefix", project.StoragePath, "deleted", n, "error", err)
	}

	if err := s.projects.Delete(ctx, projectID); err != nil {
		return sberr.New(sberr.CodeInternal, err)
	}

	s.logger.Info("project deleted", "token", project.Token, "owner", ownerID)
	return nil
}

// ListByOwner returns all of an owner's projects, newest first, expired
// ones included so a dashboard can show both states.
func (s *Service) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Project, error) {
	projects, err := s.projects.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, sberr.New(sberr.CodeInternal, err)
	}
	return projects, nil
}
