package site

import (
	"context"
	"sync/atomic"

	"github.com/sitebox/sitebox/pkg/db/models"
	"golang.org/x/sync/errgroup"
)

// Reclaim processes every active project past its expiry: delete its
// storage prefix on all backends, then mark the record expired. The
// status flip happens regardless of the delete outcome — one unreachable
// backend must not wedge reclamation forever; the failure is logged for
// operator follow-up instead.
//
// Returns how many projects transitioned to expired. Idempotent: a
// second pass over the same set finds no active records and reclaims
// zero, which also makes overlapping scheduler invocations safe without
// locking.
func (s *Service) Reclaim(ctx context.Context) (int, error) {
	expired, err := s.projects.FindExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}

	var reclaimed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(reclaimConcurrency)

	for _, p := range expired {
		g.Go(func() error {
			n, err := s.router.DeletePrefix(gctx, p.StoragePath)
			if err != nil {
				s.logger.Warn("storage reclaim incomplete",
					"token", p.Token, "prefix", p.StoragePath, "deleted", n, "error", err)
			}

			if err := s.projects.UpdateStatus(gctx, p.ID, models.StatusExpired); err != nil {
				// Per-item isolation: this project stays active and is
				// retried by the next pass; the batch continues.
				s.logger.Error("failed to mark project expired", "token", p.Token, "error", err)
				return nil
			}

			reclaimed.Add(1)
			s.logger.Info("project reclaimed", "token", p.Token, "objects_deleted", n)
			return nil
		})
	}

	g.Wait()

	s.metrics.AddReclaimed(int(reclaimed.Load()))
	return int(reclaimed.Load()), nil
}
