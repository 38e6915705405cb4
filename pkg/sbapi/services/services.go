package services

import (
	"context"
	"time"

	"github.com/sitebox/sitebox/pkg/blob"
	"github.com/sitebox/sitebox/pkg/db"
	"github.com/sitebox/sitebox/pkg/kv"
	"github.com/sitebox/sitebox/pkg/sbapi/config"
	"github.com/sitebox/sitebox/pkg/sbapi/services/iam"
	"github.com/sitebox/sitebox/pkg/sblog"
	"github.com/sitebox/sitebox/pkg/site"
	"github.com/uptrace/bun"
)

type Services struct {
	IAM      *iam.Service
	Site     *site.Service
	Projects db.ProjectStore
	Config   *config.EnvConfig
}

func NewServices(ctx context.Context, cfg *config.EnvConfig, database *bun.DB, kvStore kv.Store) (*Services, error) {
	logger := sblog.NewDefault()

	local, err := blob.NewLocalStore(cfg.StorageDir)
	if err != nil {
		return nil, err
	}

	var primary blob.Store
	if cfg.S3Endpoint != "" {
		s3Store, err := blob.NewS3Store(blob.S3Config{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			UseSSL:    cfg.S3UseSSL,
		})
		if err != nil {
			return nil, err
		}
		if err := s3Store.EnsureBucket(ctx); err != nil {
			logger.Warn("s3 bucket check failed, continuing", "error", err)
		}
		primary = s3Store
	}

	var secondary blob.Store
	if cfg.AWSBucket != "" {
		awsStore, err := blob.NewAWSStore(ctx, blob.AWSConfig{
			Region:    cfg.AWSRegion,
			Bucket:    cfg.AWSBucket,
			AccessKey: cfg.AWSAccessKey,
			SecretKey: cfg.AWSSecretKey,
			Endpoint:  cfg.AWSEndpoint,
		})
		if err != nil {
			return nil, err
		}
		secondary = awsStore
	}

	router := blob.NewRouter(local, primary, secondary, logger)

	projects := db.NewProjectStore(database)
	users := db.NewUserStore(database)

	var metrics site.Metrics = site.NoopMetrics{}
	if cfg.MetricsEnabled {
		metrics = site.NewPromMetrics("sitebox")
	}

	siteSvc := site.NewService(router, projects, site.Options{
		MaxUploadBytes: cfg.MaxUploadMB << 20,
		Lifetime:       time.Duration(cfg.ProjectTTLHours) * time.Hour,
	}, metrics, logger)

	iamSvc := iam.NewService(cfg.AuthSecret, users, kvStore, logger)

	return &Services{
		IAM:      iamSvc,
		Site:     siteSvc,
		Projects: projects,
		Config:   cfg,
	}, nil
}
