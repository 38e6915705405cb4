package blob

import (
	"bytes"
	"context"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Store implements Store using MinIO/S3-compatible storage. This is the
// primary object-storage backend.
type S3Store struct {
	client *minio.Client
	bucket string
	region string
}

// S3Config holds configuration for S3-compatible storage.
type S3Config struct {
	Endpoint  string // host:port (e.g., "localhost:9000")
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// NewS3Store creates a new S3Store with the given configuration.
func NewS3Store(cfg S3Config) (*S3Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, err
	}

	return &S3Store{
		client: client,
		bucket: cfg.Bucket,
		region: cfg.Region,
	}, nil
}

func (s *S3Store) Name() string { return "s3" }

// EnsureBucket ensures the bucket exists, creating it if necessary.
func (s *S3Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return s.wrap(err)
	}
	if exists {
		return nil
	}

	return s.wrap(s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{
		Region: s.region,
	}))
}

// Put stores data under key.
func (s *S3Store) Put(ctx context.Context, key string, data []byte, contentType string) error {
	opts := minio.PutObjectOptions{ContentType: contentType}

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), opts)
	if err != nil {
		return s.wrap(err)
	}
	return nil
}

// Get retrieves the object and its stored content type.
func (s *S3Store) Get(ctx context.Context, key string) ([]byte, string, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", s.wrap(err)
	}
	defer obj.Close()

	// GetObject is lazy; Stat surfaces NoSuchKey before we read.
	info, err := obj.Stat()
	if err != nil {
		return nil, "", s.wrap(err)
	}

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, "", s.wrap(err)
	}
	return data, info.ContentType, nil
}

// Exists reports whether key is present. Errors count as absent.
func (s *S3Store) Exists(ctx context.Context, key string) bool {
	_, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	return err == nil
}

// DeletePrefix removes every object under prefix. The recursive listing
// flattens nested "folders", so one pass covers the whole subtree.
func (s *S3Store) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	opts := minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}

	deleted := 0
	for obj := range s.client.ListObjects(ctx, s.bucket, opts) {
		if obj.Err != nil {
			return deleted, s.wrap(obj.Err)
		}
		if err := s.client.RemoveObject(ctx, s.bucket, obj.Key, minio.RemoveObjectOptions{}); err != nil {
			return deleted, s.wrap(err)
		}
		deleted++
	}

	return deleted, nil
}

func (s *S3Store) wrap(err error) error {
	if err == nil {
		return nil
	}
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey", "NoSuchBucket":
		return newError(s.Name(), ClassNotFound, err)
	}
	return newError(s.Name(), classifyNetwork(err), err)
}

// Ensure S3Store implements Store.
var _ Store = (*S3Store)(nil)
