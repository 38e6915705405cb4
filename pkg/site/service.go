package site

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/sitebox/sitebox/pkg/blob"
	"github.com/sitebox/sitebox/pkg/db"
	"github.com/sitebox/sitebox/pkg/sblog"
)

const (
	// DefaultMaxUploadBytes caps both the upload and its decompressed
	// contents.
	DefaultMaxUploadBytes = 50 << 20 // 50 MB

	// DefaultLifetime is how long a preview stays servable.
	DefaultLifetime = 24 * time.Hour

	// uploadConcurrency bounds parallel object writes during one ingest.
	uploadConcurrency = 8

	// reclaimConcurrency bounds parallel project deletions per pass.
	reclaimConcurrency = 4
)

// Options tune the pipeline; zero values take the defaults above.
type Options struct {
	MaxUploadBytes int64
	Lifetime       time.Duration
}

// Service owns the artifact lifecycle: ingest, resolve, delete, reclaim.
type Service struct {
	router   *blob.Router
	projects db.ProjectStore

	maxUploadBytes int64
	lifetime       time.Duration

	metrics Metrics
	logger  *sblog.Logger
	now     func() time.Time
}

// NewService wires the pipeline. metrics and logger may be nil.
func NewService(router *blob.Router, projects db.ProjectStore, opts Options, metrics Metrics, logger *sblog.Logger) *Service {
	if opts.MaxUploadBytes == 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if opts.Lifetime == 0 {
		opts.Lifetime = DefaultLifetime
	}
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	if logger == nil {
		logger = sblog.NewDefault()
	}
	return &Service{
		router:         router,
		projects:       projects,
		maxUploadBytes: opts.MaxUploadBytes,
		lifetime:       opts.Lifetime,
		metrics:        metrics,
		logger:         logger,
		now:            time.Now,
	}
}

// MaxUploadBytes exposes the ceiling so the route layer can reject
// oversized bodies before buffering them.
func (s *Service) MaxUploadBytes() int64 {
	return s.maxUploadBytes
}

// newToken returns a fresh preview token: 16 hex chars from crypto/rand.
// The token is the public URL, so it must resist enumeration.
func newToken() (string, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}

// storagePrefix is the backend key prefix holding every file of one
// project.
func storagePrefix(token string) string {
	return "projects/" + token
}
