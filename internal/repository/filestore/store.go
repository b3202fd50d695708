// Package filestore keeps the experience cache in a single gob file,
// loaded at open and written back on Close.
package filestore

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/ExploreNcrack/Comput496/internal/repository"
)

type key struct {
	Size        int
	Fingerprint uint64
}

type entry struct {
	Key   []byte
	Stats repository.Experience
}

type dump struct {
	Entries map[key]entry
}

// Store is an in-memory experience cache persisted to a file.
type Store struct {
	path    string
	mu      sync.RWMutex
	entries map[key]entry
	dirty   bool
}

// Open loads the cache at path. A missing or truncated file yields an empty cache.
func Open(path string) (*Store, error) {
	s := &Store{path: path, entries: make(map[key]entry)}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open experience file: %w", err)
	}
	defer f.Close()

	var d dump
	if err := gob.NewDecoder(f).Decode(&d); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			log.Warn().Str("path", path).Msg("experience file truncated, starting empty")
			return s, nil
		}
		return nil, fmt.Errorf("decode experience file: %w", err)
	}
	if d.Entries != nil {
		s.entries = d.Entries
	}
	log.Debug().Str("path", path).Int("positions", len(s.entries)).Msg("experience file loaded")
	return s, nil
}

// LoadExperience returns a copy of the stats stored for a position.
func (s *Store) LoadExperience(_ context.Context, pos repository.Position) (repository.Experience, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key{pos.Size, pos.Fingerprint}]
	if !ok || !pos.Matches(e.Key) {
		return nil, nil
	}
	return maps.Clone(e.Stats), nil
}

// SaveExperience replaces the stats for a position in memory.
func (s *Store) SaveExperience(_ context.Context, pos repository.Position, exp repository.Experience) error {
	e := entry{Key: slices.Clone(pos.Key), Stats: maps.Clone(exp)}
	s.mu.Lock()
	s.entries[key{pos.Size, pos.Fingerprint}] = e
	s.dirty = true
	s.mu.Unlock()
	return nil
}

// Flush writes the cache to disk if it changed, via a temporary file and rename.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create experience dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".experience-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := gob.NewEncoder(tmp).Encode(dump{Entries: s.entries}); err != nil {
		tmp.Close()
		return fmt.Errorf("encode experience file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace experience file: %w", err)
	}
	s.dirty = false
	return nil
}

// Close flushes the cache.
func (s *Store) Close() error {
	return s.Flush()
}
