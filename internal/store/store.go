package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"giftstock-backend/internal/model"
)

// ErrIO wraps persistence failures so callers can distinguish them from
// domain errors and decide whether to retry.
var ErrIO = errors.New("persistence failure")

// Store owns the dataset document. All mutating operations run through
// Update, which serializes them behind one writer lock and persists the
// whole document atomically (write-to-temp-then-rename). Readers run through
// View and never observe a partially written dataset: Update mutates a deep
// copy and only swaps it in after the copy has reached disk.
type Store struct {
	path string
	mu   sync.RWMutex
	data *model.Dataset
}

// Open loads the dataset document at path. On first run (no backing file) it
// materializes the seed dataset and persists it immediately.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		var ds model.Dataset
		if err := json.Unmarshal(raw, &ds); err != nil {
			return nil, fmt.Errorf("%w: decode %s: %v", ErrIO, path, err)
		}
		s.data = &ds
	case os.IsNotExist(err):
		s.data = seedDataset()
		if err := s.write(s.data); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: read %s: %v", ErrIO, path, err)
	}

	return s, nil
}

// Update runs fn against a deep copy of the dataset under the writer lock.
// If fn returns an error, or the save fails, neither memory nor disk change.
// The copy is swapped in only after the rename has succeeded, so the
// in-memory dataset never diverges from durable state.
func (s *Store) Update(fn func(ds *model.Dataset) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.data.Clone()
	if err := fn(work); err != nil {
		return err
	}
	if err := s.write(work); err != nil {
		return err
	}
	s.data = work
	return nil
}

// View runs fn against the dataset under the reader lock. fn must not mutate.
func (s *Store) View(fn func(ds *model.Dataset) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.data)
}

func (s *Store) write(ds *model.Dataset) error {
	raw, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode dataset: %v", ErrIO, err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: mkdir %s: %v", ErrIO, dir, err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrIO, tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("%w: rename %s: %v", ErrIO, s.path, err)
	}
	return nil
}
