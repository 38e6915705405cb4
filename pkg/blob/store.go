// Package blob provides the storage backends that hold extracted site
// files, plus the router that multiplexes between them.
//
// Keys are forward-slash relative paths, e.g. "projects/abc123/index.html".
// All files of one project live under a single "projects/<token>/" prefix.
package blob

import (
	"context"
)

// Store is the uniform capability set every backend implements.
type Store interface {
	// Name identifies the backend in logs and artifact records
	// (e.g. "local", "s3", "aws-s3").
	Name() string

	// Put stores data under key with the given content type.
	Put(ctx context.Context, key string, data []byte, contentType string) error

	// Get retrieves the object and its stored content type.
	// Returns an error classified ClassNotFound if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, string, error)

	// Exists reports whether key is present. It never returns an error:
	// transient failures count as "not found" for probing purposes and
	// are the caller's job to log if it cares.
	Exists(ctx context.Context, key string) bool

	// DeletePrefix removes every object whose key starts with prefix and
	// returns how many were deleted. A prefix holding nothing is not an
	// error; the count is simply zero.
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}
