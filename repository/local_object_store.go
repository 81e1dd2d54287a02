// ABOUTME: Local filesystem implementation of the ObjectStore interface
// ABOUTME: Maps hierarchical object keys onto directories under an output root

package repository

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// LocalObjectStore implements ObjectStore on the local filesystem. Object
// keys map directly onto paths below the output root, so the on-disk layout
// mirrors the bucket layout.
type LocalObjectStore struct {
	root   string
	logger *slog.Logger
}

// NewLocalObjectStore creates a store rooted at the given output directory.
func NewLocalObjectStore(root string, logger *slog.Logger) (*LocalObjectStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", root, err)
	}

	return &LocalObjectStore{root: root, logger: logger}, nil
}

// Put writes data to the file at key, creating parent directories as needed.
func (s *LocalObjectStore) Put(_ context.Context, key string, data []byte) error {
	path := filepath.Join(s.root, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directories for %s: %w", key, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	s.logger.Debug("File written", "path", path, "bytes", len(data))
	return nil
}

// Get reads the file at key, returning ErrObjectNotFound when absent.
func (s *LocalObjectStore) Get(_ context.Context, key string) ([]byte, error) {
	path := filepath.Join(s.root, filepath.FromSlash(key))

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

// Delete removes the file at key. A missing file is not an error.
func (s *LocalObjectStore) Delete(_ context.Context, key string) error {
	path := filepath.Join(s.root, filepath.FromSlash(key))

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
