package cmd

import (
	"context"
	"log"

	"github.com/sitebox/sitebox/pkg/db"
	"github.com/sitebox/sitebox/pkg/kv"
	"github.com/sitebox/sitebox/pkg/sbapi/config"
	"github.com/sitebox/sitebox/pkg/sbapi/services"
	"github.com/spf13/cobra"
)

// reclaimCmd runs one reclamation pass and exits. Deployments that
// prefer a system scheduler over the HTTP cron endpoint run this from
// crontab; both paths share the same idempotent pass.
var reclaimCmd = &cobra.Command{
	Use:   "reclaim",
	Short: "Reclaim expired projects and exit",
	Run:   reclaim,
}

func init() {
	rootCmd.AddCommand(reclaimCmd)
}

func reclaim(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	cfg, err := config.ValidateEnv()
	if err != nil {
		log.Fatalf("%v\n", err)
	}

	database, err := db.Shared(ctx, db.Config{
		Host:         cfg.DBHost,
		Port:         cfg.DBPort,
		User:         cfg.DBUser,
		Password:     cfg.DBPassword,
		Database:     cfg.DBName,
		SSLMode:      cfg.DBSSLMode,
		ResolverAddr: cfg.DBResolverAddr,
	})
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer database.Close()

	svcs, err := services.NewServices(ctx, cfg, database, kv.NewMemoryStore())
	if err != nil {
		log.Fatalf("failed to initialize services: %v", err)
	}

	n, err := svcs.Site.Reclaim(ctx)
	if err != nil {
		log.Fatalf("reclamation pass failed: %v", err)
	}
	log.Printf("reclaimed %d expired projects\n", n)
}
