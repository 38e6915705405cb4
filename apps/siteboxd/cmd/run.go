package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/sitebox/sitebox/pkg/db"
	"github.com/sitebox/sitebox/pkg/kv"
	"github.com/sitebox/sitebox/pkg/sbapi"
	"github.com/sitebox/sitebox/pkg/sbapi/config"
	"github.com/sitebox/sitebox/pkg/sbapi/routes"
	"github.com/sitebox/sitebox/pkg/sbapi/services"
	"github.com/spf13/cobra"
)

// runCmd starts the HTTP server.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the sitebox server",
	Long: `Starts the HTTP server: upload and project management APIs,
public preview serving, and the cron-triggered reclamation endpoint.`,
	Run: run,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func run(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	cfg, err := config.ValidateEnv()
	if err != nil {
		log.Fatalf("%v\n", err)
	}

	cfg.Print(log.Printf)

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

	kvStore, err := newKV(cfg)
	if err != nil {
		log.Fatalf("failed to initialize kv store: %v", err)
	}
	defer kvStore.Close()

	svcs, err := services.NewServices(ctx, cfg, database, kvStore)
	if err != nil {
		log.Fatalf("failed to initialize services: %v", err)
	}

	api := sbapi.NewApi()
	routes.RegisterAPI(api.Api, svcs)
	routes.RegisterWeb(api.Router, svcs)

	addr := fmt.Sprintf(":%s", cfg.Port)

	log.Printf("sitebox starting on %s\n", addr)
	log.Printf("OpenAPI docs: %s/docs\n", cfg.BaseURL)
	log.Printf("Preview URLs: %s/api/preview/<token>/\n", cfg.BaseURL)

	if err := http.ListenAndServe(addr, api.Router); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func newKV(cfg *config.EnvConfig) (kv.Store, error) {
	if cfg.RedisAddr == "" {
		log.Println("REDIS_ADDR not set, using in-memory kv store")
		return kv.NewMemoryStore(), nil
	}
	return kv.NewRedisStore(kv.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}
