// Package storage provides read access to scanned letter files, with local
// directory and Azure Blob Storage drivers.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/campusworks/letterflow/pkg/lifecycle"
)

// System manages scan file access and lifecycle coordination. Keys are the
// relative file references stored on letter records by the upstream clerk
// application.
type System interface {
	// Start registers startup hooks with the lifecycle coordinator.
	Start(lc *lifecycle.Coordinator) error
	// Upload streams data to the given key with the specified content type.
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) error
	// Download returns a stream for the file at the given key. The caller
	// must close the reader. Returns ErrNotFound if the file does not exist.
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	// Exists reports whether a file exists at the given key.
	Exists(ctx context.Context, key string) (bool, error)
}

// New creates a storage system for the configured driver.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	switch cfg.Driver {
	case DriverLocal:
		return NewLocal(cfg, logger)
	case DriverAzure:
		return NewAzure(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Driver)
	}
}

func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	if strings.HasPrefix(key, "/") || strings.Contains(key, "..") {
		return fmt.Errorf("%w: %s", ErrInvalidKey, key)
	}
	return nil
}
