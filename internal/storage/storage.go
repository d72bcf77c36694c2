// Package storage holds the file storage backends for uploaded documents.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"pdfshare/internal/config"
)

// ErrObjectNotFound is returned by Get and Delete when the key does not exist in the backend.
var ErrObjectNotFound = errors.New("object not found")

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known, or -1 when unknown.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is the contract every backend fulfils. Implementations are safe for concurrent use.
type Storage interface {
	// Put streams r into the backend under key.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get opens the object for reading. The caller closes the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes the object.
	Delete(ctx context.Context, key string) error
}

// Provider names accepted by New.
const (
	ProviderLocal = "local"
	ProviderMinIO = "minio"
	ProviderB2    = "b2"
)

// New builds the backend selected by cfg.Provider.
func New(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (Storage, error) {
	var (
		s   Storage
		err error
	)
	switch cfg.Provider {
	case ProviderLocal, "":
		s, err = NewLocal(cfg.LocalPath)
	case ProviderMinIO:
		s, err = NewMinIO(ctx, cfg.MinIO)
	case ProviderB2:
		s, err = NewB2(ctx, cfg.B2)
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s storage: %w", cfg.Provider, err)
	}

	log.Info("storage_ready", zap.String("component", "storage"), zap.String("provider", cfg.Provider))
	return s, nil
}

// tracedTransport reports every backend HTTP call as an OpenTelemetry client span.
func tracedTransport(base http.RoundTripper) http.RoundTripper {
	return otelhttp.NewTransport(base)
}
