package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config holds the connection settings for an S3-compatible backend.
type S3Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UseSSL          bool
}

// S3Store is an S3-backed SourceStore for deployments that want the base
// image tier shared across replicas instead of sitting on each node's disk.
type S3Store struct {
	client *minio.Client
	bucket string
	logger *slog.Logger
}

func NewS3Store(cfg S3Config, logger *slog.Logger) (*S3Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize s3 client: %w", err)
	}
	return &S3Store{client: client, bucket: cfg.Bucket, logger: logger}, nil
}

func (s *S3Store) Read(ctx context.Context, userID int64, resolution int) ([]byte, time.Time, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, objectName(userID, resolution), minio.GetObjectOptions{})
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("get source image: %w", err)
	}
	defer obj.Close()

	info, err := obj.Stat()
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, time.Time{}, ErrNotFound
		}
		return nil, time.Time{}, fmt.Errorf("stat source image: %w", err)
	}

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("read source image: %w", err)
	}
	return data, info.LastModified, nil
}

func (s *S3Store) Write(ctx context.Context, userID int64, resolution int, data []byte) error {
	name := objectName(userID, resolution)
	_, err := s.client.PutObject(ctx, s.bucket, name,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "image/png"})
	if err != nil {
		return fmt.Errorf("put source image: %w", err)
	}
	s.logger.Debug("source image persisted", "bucket", s.bucket, "object", name, "size", len(data))
	return nil
}

func (s *S3Store) Remove(ctx context.Context, userID int64, resolution int) error {
	err := s.client.RemoveObject(ctx, s.bucket, objectName(userID, resolution), minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("remove source image: %w", err)
	}
	return nil
}
