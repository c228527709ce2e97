// Package repository provides persistence for built catalog snapshots.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"arcana_backend/internal/catalog/transport"
	"arcana_backend/platform/apperr"
)

// FileStore persists the catalog snapshot as a JSON artifact on disk.
// Writes go through a temp file plus rename so readers never observe a
// partially written snapshot.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a snapshot store writing to the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save writes the snapshot, replacing any previous one.
func (s *FileStore) Save(ctx context.Context, snapshot transport.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to encode catalog snapshot", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to create snapshot directory", err)
	}

	tmp, err := os.CreateTemp(dir, "catalog-*.json")
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to create snapshot temp file", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return apperr.Wrap(apperr.KindInternal, "failed to write catalog snapshot", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return apperr.Wrap(apperr.KindInternal, "failed to close snapshot temp file", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return apperr.Wrap(apperr.KindInternal, "failed to replace catalog snapshot", err)
	}

	return nil
}

// LastModified returns the write stamp of the persisted snapshot. Readers
// compare stamps to detect snapshots written by another process.
func (s *FileStore) LastModified(ctx context.Context) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}

	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return time.Time{}, apperr.NotFound("no catalog snapshot available")
		}
		return time.Time{}, apperr.Wrap(apperr.KindInternal, "failed to stat catalog snapshot", err)
	}
	return info.ModTime(), nil
}

// Load reads the last persisted snapshot.
// Returns a NotFound error when no snapshot has been written yet.
func (s *FileStore) Load(ctx context.Context) (transport.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return transport.Snapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return transport.Snapshot{}, apperr.NotFound("no catalog snapshot available")
		}
		return transport.Snapshot{}, apperr.Wrap(apperr.KindInternal, "failed to read catalog snapshot", err)
	}

	var snapshot transport.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return transport.Snapshot{}, apperr.Wrap(apperr.KindInternal, "corrupt catalog snapshot", err)
	}

	return snapshot, nil
}
