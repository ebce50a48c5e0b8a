// File: internal/services/storage/minio_provider.go
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioProvider talks to any S3-compatible object store.
type MinioProvider struct {
	client *minio.Client
	config *Config
}

func NewMinioProvider(config *Config) (*MinioProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKey, config.SecretKey, ""),
		Secure: config.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}

	return &MinioProvider{client: client, config: config}, nil
}

func (p *MinioProvider) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (*UploadResult, error) {
	if key == "" {
		return nil, fmt.Errorf("object key is required")
	}

	info, err := p.client.PutObject(ctx, p.config.Bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("uploading object %s: %w", key, err)
	}

	return &UploadResult{
		Key:       key,
		PublicURL: p.publicURL(key),
		Size:      info.Size,
	}, nil
}

func (p *MinioProvider) Remove(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("object key is required")
	}
	if err := p.client.RemoveObject(ctx, p.config.Bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("removing object %s: %w", key, err)
	}
	return nil
}

func (p *MinioProvider) publicURL(key string) string {
	base := p.config.PublicURL
	if base == "" {
		scheme := "http"
		if p.config.UseSSL {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s/%s", scheme, p.config.Endpoint, p.config.Bucket)
	}
	return strings.TrimSuffix(base, "/") + "/" + key
}
