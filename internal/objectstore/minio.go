package objectstore

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/memora-app/memora/internal/errors"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioConfig points at the MinIO deployment holding the photo bucket.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicBaseURL is the externally reachable base for stored objects,
	// e.g. http://localhost:9000. Object URLs are PublicBaseURL/bucket/name.
	PublicBaseURL string
}

// MinioStore stores photos in a MinIO bucket.
type MinioStore struct {
	client *minio.Client
	cfg    MinioConfig
	logger *slog.Logger
}

// NewMinioStore connects to MinIO and creates the bucket when missing.
func NewMinioStore(ctx context.Context, cfg MinioConfig, logger *slog.Logger) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create minio client", slog.String("endpoint", cfg.Endpoint))
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, errors.Wrap(err, "check bucket", slog.String("bucket", cfg.Bucket))
	}
	if !exists {
		if err = client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, errors.Wrap(err, "create bucket", slog.String("bucket", cfg.Bucket))
		}
		logger.LogAttrs(ctx, slog.LevelInfo, "created bucket", slog.String("bucket", cfg.Bucket))
	}

	return &MinioStore{
		client: client,
		cfg:    cfg,
		logger: logger.With("source", "MinioStore"),
	}, nil
}

// Put uploads one object and returns its public URL.
func (s *MinioStore) Put(
	ctx context.Context,
	objectName string,
	reader io.Reader,
	size int64,
	contentType string,
) (string, error) {
	info, err := s.client.PutObject(ctx, s.cfg.Bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", errors.Wrap(err, "put object", slog.String("objectName", objectName))
	}
	s.logger.LogAttrs(ctx, slog.LevelDebug, "stored object",
		slog.String("objectName", info.Key), slog.Int64("size", info.Size))

	return fmt.Sprintf("%s/%s/%s", s.cfg.PublicBaseURL, s.cfg.Bucket, objectName), nil
}
