// Package storage provides the file-backed record store adapter.
//
// Each record key maps to one JSON file under the configured data directory.
// Writes go through a temp file followed by an atomic rename, so readers
// never observe a partially written value even if the process dies mid-save.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/litra-app/litra-backend/internal/domain"
)

// keyPattern restricts record keys to names that are safe as file names.
var keyPattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

// FileStore persists record values as individual JSON files on disk.
// It implements ports.RecordStore and ports.HealthChecker.
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore rooted at dir, creating the directory
// if it does not exist.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, domain.NewStorageError("init", "", errors.New("data directory not configured"))
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, domain.NewStorageError("init", dir, err)
	}

	return &FileStore{dir: dir}, nil
}

// Name implements ports.HealthChecker.
func (s *FileStore) Name() string { return "filestore" }

// Check implements ports.HealthChecker by verifying the data directory
// is still present and writable.
func (s *FileStore) Check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("data directory unavailable: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("data path %q is not a directory", s.dir)
	}

	probe, err := os.CreateTemp(s.dir, ".healthcheck-*")
	if err != nil {
		return fmt.Errorf("data directory not writable: %w", err)
	}

	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)

	return nil
}

// Load implements ports.RecordStore.
func (s *FileStore) Load(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewStorageError("load", key, err)
	}

	path, err := s.path(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NewNotFoundError("record", key)
		}

		return nil, domain.NewStorageError("load", key, err)
	}

	return data, nil
}

// Save implements ports.RecordStore. The value lands in a temp file first
// and replaces the target via rename, which is atomic on POSIX filesystems
// when source and target share a directory.
func (s *FileStore) Save(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return domain.NewStorageError("save", key, err)
	}

	path, err := s.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, "."+key+"-*.tmp")
	if err != nil {
		return domain.NewStorageError("save", key, err)
	}

	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)

		return domain.NewStorageError("save", key, err)
	}

	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)

		return domain.NewStorageError("save", key, err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)

		return domain.NewStorageError("save", key, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)

		return domain.NewStorageError("save", key, err)
	}

	return nil
}

func (s *FileStore) path(key string) (string, error) {
	if !keyPattern.MatchString(key) {
		return "", domain.NewStorageError("resolve", key, errors.New("invalid record key"))
	}

	return filepath.Join(s.dir, key+".json"), nil
}
