package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	cfg "github.com/templui/folio/internal/config"
)

var (
	ErrNotFound    = errors.New("file not found")
	ErrInvalidPath = errors.New("invalid storage path")
)

// Storage defines the interface for file storage operations.
// Paths are slash separated keys relative to the public asset root.
type Storage interface {
	// Save stores a file at the given path, creating parents as needed
	Save(ctx context.Context, path string, file io.Reader) error

	// Open returns the file contents. Missing files yield ErrNotFound.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes a file at the given path. Missing files yield ErrNotFound.
	Delete(ctx context.Context, path string) error

	// DeleteDir removes the directory at path if it is empty
	DeleteDir(ctx context.Context, path string) error

	// URL returns the public URL for accessing the file
	URL(path string) string
}

// New creates the storage backend selected by STORAGE_DRIVER.
func New(c *cfg.Config) (Storage, error) {
	switch c.StorageDriver {
	case "s3":
		slog.Info("initializing S3 storage",
			"bucket", c.S3Bucket,
			"region", c.S3Region,
			"endpoint", c.S3Endpoint,
		)
		return NewS3Storage(S3Config{
			Region:    c.S3Region,
			Bucket:    c.S3Bucket,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
			Endpoint:  c.S3Endpoint,
		})
	case "local", "":
		slog.Info("initializing local storage", "root", c.PublicPath)
		return NewLocalStorage(c.PublicPath)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
}

// CleanKey normalizes a public-relative path ("/artwork/3/a.png") into a storage
// key ("artwork/3/a.png"). Keys that escape the root are rejected.
func CleanKey(p string) (string, error) {
	p = strings.ReplaceAll(strings.TrimSpace(p), `\`, "/")
	if p == "" {
		return "", ErrInvalidPath
	}
	for _, segment := range strings.Split(p, "/") {
		if segment == ".." {
			return "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
		}
	}

	key := strings.TrimPrefix(path.Clean("/"+p), "/")
	if key == "" || key == "." {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	return key, nil
}

// PublicPath is the inverse of CleanKey.
func PublicPath(key string) string {
	return "/" + strings.TrimPrefix(key, "/")
}
