// Package cas implements the persistent build cache as a flat JSON file.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/flo/internal/core/domain"
	"go.trai.ch/flo/internal/core/ports"
	"go.trai.ch/zerr"
)

// Store implements ports.BuildInfoStore using a single JSON file keyed by
// task key. A corrupt or truncated file is treated as an empty cache, not an
// error: the worst outcome is a full rebuild.
type Store struct {
	path  string
	log   ports.Logger
	mu    sync.RWMutex
	cache map[string]domain.CacheEntry
}

var _ ports.BuildInfoStore = &Store{}

// NewStore creates a build cache backed by the file at path.
func NewStore(path string, log ports.Logger) (*Store, error) {
	s := &Store{
		path:  filepath.Clean(path),
		log:   log,
		cache: make(map[string]domain.CacheEntry),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, "reading build cache"), "path", s.path)
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &s.cache); err != nil {
		s.log.Warn("build cache is corrupt, starting empty: " + err.Error())
		s.cache = make(map[string]domain.CacheEntry)
	}
	return nil
}

func (s *Store) save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(s.cache, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "marshaling build cache")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return zerr.Wrap(err, "creating build cache directory")
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return zerr.With(zerr.Wrap(err, "writing build cache"), "path", s.path)
	}
	return nil
}

// Get retrieves the entry for a task key. Absent entries are nil, nil.
func (s *Store) Get(key string) (*domain.CacheEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.cache[key]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

// Put stores the entry and flushes the cache to disk.
func (s *Store) Put(entry domain.CacheEntry) error {
	s.mu.Lock()
	s.cache[entry.TaskKey] = entry
	s.mu.Unlock()

	return s.save()
}

// Clear drops every entry and removes the backing file.
func (s *Store) Clear() error {
	s.mu.Lock()
	s.cache = make(map[string]domain.CacheEntry)
	s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, "removing build cache"), "path", s.path)
	}
	return nil
}
