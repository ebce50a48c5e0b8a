// File: internal/services/storage/interface.go
package storage

import (
	"context"
	"fmt"
	"io"
)

// UploadResult describes a stored object.
type UploadResult struct {
	Key       string `json:"key"`
	PublicURL string `json:"url"`
	Size      int64  `json:"size"`
}

// Provider stores uploaded files in an S3-compatible bucket.
type Provider interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (*UploadResult, error)
	Remove(ctx context.Context, key string) error
}

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicURL is the base under which stored objects are served, e.g. a
	// CDN origin. Defaults to the endpoint when empty.
	PublicURL string
}

func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("STORAGE_ENDPOINT is required")
	}
	if c.AccessKey == "" || c.SecretKey == "" {
		return fmt.Errorf("STORAGE_ACCESS_KEY and STORAGE_SECRET_KEY are required")
	}
	if c.Bucket == "" {
		return fmt.Errorf("STORAGE_BUCKET is required")
	}
	return nil
}
