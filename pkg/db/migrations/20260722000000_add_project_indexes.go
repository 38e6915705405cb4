package migrations

import (
	"context"
	"fmt"

	"github.com/sitebox/sitebox/pkg/db/models"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Print(" [up migration] ")

		// The reclamation pass scans by (status, expires_at); the serve
		// path looks up by token.
		_, err := db.NewCreateIndex().
			Model((*models.Project)(nil)).
			Index("idx_projects_status_expires_at").
			IfNotExists().
			Column("status", "expires_at").
			Exec(ctx)
		if err != nil {
			return err
		}

		_, err = db.NewCreateIndex().
			Model((*models.Project)(nil)).
			Index("idx_projects_owner_id").
			IfNotExists().
			Column("owner_id").
			Exec(ctx)
		return err
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Print(" [down migration] ")

		_, err := db.NewDropIndex().Index("idx_projects_status_expires_at").IfExists().Exec(ctx)
		if err != nil {
			return err
		}
		_, err = db.NewDropIndex().Index("idx_projects_owner_id").IfExists().Exec(ctx)
		return err
	})
}
