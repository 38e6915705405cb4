package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// AWSStore implements Store against AWS S3 proper (or anything speaking its
// API through the official SDK). This is the secondary object-storage
// backend; deployments that migrated off it keep it configured read-only so
// older projects stay servable.
type AWSStore struct {
	client *s3.Client
	bucket string
}

// AWSConfig holds configuration for the AWS S3 backend.
type AWSConfig struct {
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	Endpoint  string // optional override for S3-compatible endpoints
}

// NewAWSStore creates an AWSStore from the given configuration.
func NewAWSStore(ctx context.Context, cfg AWSConfig) (*AWSStore, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &AWSStore{client: client, bucket: cfg.Bucket}, nil
}

func (s *AWSStore) Name() string { return "aws-s3" }

// Put stores data under key.
func (s *AWSStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	return s.wrap(err)
}

// Get retrieves the object and its stored content type.
func (s *AWSStore) Get(ctx context.Context, key string) ([]byte, string, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, "", s.wrap(err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, "", s.wrap(err)
	}

	contentType := ""
	if out.ContentType != nil {
		contentType = *out.ContentType
	}
	return data, contentType, nil
}

// Exists reports whether key is present. Errors count as absent.
func (s *AWSStore) Exists(ctx context.Context, key string) bool {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err == nil
}

// DeletePrefix removes every object under prefix, following list
// pagination so large subtrees are fully covered.
func (s *AWSStore) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	deleted := 0
	var continuation *string

	for {
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: continuation,
		})
		if err != nil {
			return deleted, s.wrap(err)
		}

		for _, obj := range out.Contents {
			_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
				Bucket: aws.String(s.bucket),
				Key:    obj.Key,
			})
			if err != nil {
				return deleted, s.wrap(err)
			}
			deleted++
		}

		if out.IsTruncated == nil || !*out.IsTruncated {
			return deleted, nil
		}
		continuation = out.NextContinuationToken
	}
}

func (s *AWSStore) wrap(err error) error {
	if err == nil {
		return nil
	}
	var noKey *types.NoSuchKey
	var noBucket *types.NoSuchBucket
	var notFound *types.NotFound
	if errors.As(err, &noKey) || errors.As(err, &noBucket) || errors.As(err, &notFound) {
		return newError(s.Name(), ClassNotFound, err)
	}
	return newError(s.Name(), classifyNetwork(err), err)
}

// Ensure AWSStore implements Store.
var _ Store = (*AWSStore)(nil)
