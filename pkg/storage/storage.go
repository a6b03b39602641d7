// Package storage puts uploaded files into an object store and hands back
// the public URL they can be downloaded from.
//
// Two drivers are available:
//   - "s3"    S3-compatible object storage (AWS S3, MinIO, R2)
//   - "local" local filesystem, served by the app under /files/
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"order-upload/pkg/utils"
)

// ObjectStore is the blob store the upload flow writes to.
type ObjectStore interface {
	// Put stores size bytes from body under key and returns its public URL.
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// New builds the driver selected by cfg.Driver.
func New(ctx context.Context, cfg utils.StorageConfig) (ObjectStore, error) {
	switch cfg.Driver {
	case "s3":
		return NewS3(ctx, cfg)
	case "local", "":
		local, err := NewLocal(cfg.LocalRoot, cfg.LocalURL)
		if err != nil {
			return nil, err
		}
		return local, nil
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.Driver)
	}
}

// publicURL joins key onto base, escaping each segment so keys holding
// characters such as '#', '?' or '%' stay fetchable.
func publicURL(base, key string) string {
	segments := strings.Split(strings.TrimLeft(key, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return base + "/" + strings.Join(segments, "/")
}
