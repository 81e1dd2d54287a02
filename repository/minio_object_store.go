// ABOUTME: MinIO implementation of the ObjectStore interface
// ABOUTME: Persists JSON artifacts to an S3-compatible bucket

package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ErrObjectNotFound is returned by Get when no object exists at a key.
var ErrObjectNotFound = errors.New("object not found")

// MinioObjectStore implements ObjectStore against an S3-compatible bucket.
type MinioObjectStore struct {
	client *minio.Client
	bucket string
	logger *slog.Logger
}

// MinioConfig holds connection settings for the S3-compatible backend.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// NewMinioObjectStore connects to the backend and ensures the bucket exists.
func NewMinioObjectStore(ctx context.Context, cfg MinioConfig, logger *slog.Logger) (*MinioObjectStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
		logger.Info("Created bucket", "bucket", cfg.Bucket)
	}

	return &MinioObjectStore{
		client: client,
		bucket: cfg.Bucket,
		logger: logger,
	}, nil
}

// Put overwrites the object at key with the given bytes.
func (s *MinioObjectStore) Put(ctx context.Context, key string, data []byte) error {
	reader := bytes.NewReader(data)
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, int64(reader.Len()), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", key, err)
	}

	s.logger.Debug("Object written",
		"bucket", s.bucket,
		"key", key,
		"bytes", len(data))

	return nil
}

// Get reads the object at key, returning ErrObjectNotFound when absent.
func (s *MinioObjectStore) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		var respErr minio.ErrorResponse
		if errors.As(err, &respErr) && respErr.Code == "NoSuchKey" {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to read object %s: %w", key, err)
	}

	return data, nil
}

// Delete removes the object at key. Deleting a missing object is not an
// error.
func (s *MinioObjectStore) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}
