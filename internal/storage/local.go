package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

// LocalStorage keeps files under a root directory on disk.
type LocalStorage struct {
	root string
}

// NewLocalStorage creates the root directory if it does not exist yet.
func NewLocalStorage(root string) (*LocalStorage, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage root: %w", err)
	}
	err = os.MkdirAll(abs, 0o755)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &LocalStorage{root: abs}, nil
}

// Root returns the absolute root directory.
func (s *LocalStorage) Root() string {
	return s.root
}

func (s *LocalStorage) resolve(p string) (string, error) {
	key, err := CleanKey(p)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(key)), nil
}

// Save writes the file atomically, replacing any existing file at path.
func (s *LocalStorage) Save(ctx context.Context, path string, file io.Reader) error {
	abs, err := s.resolve(path)
	if err != nil {
		return err
	}
	err = ctx.Err()
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(abs), 0o755)
	if err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	err = atomic.WriteFile(abs, file)
	if err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func (s *LocalStorage) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	abs, err := s.resolve(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(abs)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, err
	}

	return os.Open(abs)
}

func (s *LocalStorage) Delete(ctx context.Context, path string) error {
	abs, err := s.resolve(path)
	if err != nil {
		return err
	}

	info, err := os.Stat(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrInvalidPath, path)
	}

	return os.Remove(abs)
}

// DeleteDir removes an empty directory. Non-empty directories are left alone.
func (s *LocalStorage) DeleteDir(ctx context.Context, path string) error {
	abs, err := s.resolve(path)
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		return fmt.Errorf("directory %s is not empty", path)
	}

	return os.Remove(abs)
}

func (s *LocalStorage) URL(path string) string {
	key, err := CleanKey(path)
	if err != nil {
		return ""
	}
	return PublicPath(key)
}
