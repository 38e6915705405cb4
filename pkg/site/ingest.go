package site

import (
	"context"
	"mime"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/sitebox/sitebox/pkg/db/models"
	"github.com/sitebox/sitebox/pkg/sberr"
	"golang.org/x/sync/errgroup"
)

// Ingest runs the upload pipeline: parse, validate, store every file
// under a fresh "projects/<token>/" prefix, detect the entry point, and
// persist the metadata record. The record is created only after every
// write has settled; any failure before that deletes whatever was
// already written so no orphaned objects survive an aborted ingest.
func (s *Service) Ingest(ctx context.Context, ownerID uuid.UUID, filename string, data []byte) (*models.Project, error) {
	p, err := s.ingest(ctx, ownerID, filename, data)
	if err != nil {
		s.metrics.IncIngest(string(sberr.CodeOf(err)))
		return nil, err
	}
	s.metrics.IncIngest("ok")
	return p, nil
}

func (s *Service) ingest(ctx context.Context, ownerID uuid.UUID, filename string, data []byte) (*models.Project, error) {
	if !strings.HasSuffix(strings.ToLower(filename), ".zip") {
		return nil, sberr.Newf(sberr.CodeBadRequest, "only .zip uploads are accepted")
	}
	if int64(len(data)) > s.maxUploadBytes {
		return nil, sberr.Newf(sberr.CodeBadRequest, "upload is %d bytes, over the %d byte limit", len(data), s.maxUploadBytes)
	}

	entries, err := ParseZip(data, s.maxUploadBytes)
	if err != nil {
		return nil, err
	}
	if err := ValidateEntries(entries); err != nil {
		return nil, err
	}

	token, err := newToken()
	if err != nil {
		return nil, sberr.New(sberr.CodeInternal, err)
	}
	prefix := storagePrefix(token)

	backend, err := s.storeEntries(ctx, prefix, entries)
	if err != nil {
		s.rollback(ctx, prefix)
		return nil, err
	}

	now := s.now()
	project := &models.Project{
		OwnerID:        ownerID,
		Name:           strings.TrimSuffix(filename, path.Ext(filename)),
		Token:          token,
		StoragePath:    prefix,
		StorageBackend: backend,
		EntryPoint:     DetectEntryPoint(fileNames(entries)),
		Status:         models.StatusActive,
		ExpiresAt:      now.Add(s.lifetime),
		CreatedAt:      now,
	}

	if err := s.projects.Create(ctx, project); err != nil {
		s.rollback(ctx, prefix)
		return nil, sberr.New(sberr.CodeInternal, err)
	}

	s.logger.Info("project ingested",
		"token", token, "files", len(fileNames(entries)),
		"entry_point", project.EntryPoint, "backend", backend)
	return project, nil
}

// storeEntries writes every file with bounded parallelism and reports
// which backend holds the project: "local" if any write fell back there,
// else the object store's name. Files carry no ordering dependency, so
// writes only need to settle, not sequence.
func (s *Service) storeEntries(ctx context.Context, prefix string, entries []Entry) (string, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uploadConcurrency)

	backends := make(chan string, len(entries))
	for _, e := range entries {
		if e.IsDir {
			continue
		}
		g.Go(func() error {
			key := prefix + "/" + e.Name
			contentType := mime.TypeByExtension(path.Ext(e.Name))
			backend, err := s.router.Put(gctx, key, e.Data, contentType)
			if err != nil {
				return sberr.New(sberr.CodeInternal, err)
			}
			backends <- backend
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return "", err
	}
	close(backends)

	name := ""
	for b := range backends {
		if name == "" {
			name = b
		}
		if b == "local" {
			name = "local"
		}
	}
	return name, nil
}

// rollback deletes everything written under an aborted ingest's prefix.
// The prefix is fresh and unique, so the delete cannot touch another
// project. Failures here are logged, not propagated: the caller is
// already returning the original error.
func (s *Service) rollback(ctx context.Context, prefix string) {
	if n, err := s.router.DeletePrefix(ctx, prefix); err != nil {
		s.logger.Warn("rollback incomplete, orphaned objects may remain",
			"prefix", prefix, "deleted", n, "error", err)
	}
}
