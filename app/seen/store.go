package seen

import (
	"fmt"
	"log/slog"
	"sync"
)

// Backend persists the ordered list of seen IDs.
type Backend interface {
	Load() ([]string, error)
	Save(ids []string) error
}

// Store is the at-most-once delivery guard: a set of item identifiers kept in
// insertion order with a soft cap. When the cap is exceeded the oldest
// entries are evicted at the next persist. Save failures are logged, never
// fatal; the in-memory state is kept so the next successful save captures it.
type Store struct {
	backend      Backend
	cap          int
	saveInterval int

	mu         sync.RWMutex
	ids        []string
	index      map[string]struct{}
	insertions int
	loaded     bool
}

func NewStore(backend Backend, cap, saveInterval int) *Store {
	return &Store{
		backend:      backend,
		cap:          cap,
		saveInterval: saveInterval,
		index:        make(map[string]struct{}),
	}
}

// Load reads the persisted IDs. A missing or corrupt source degrades to an
// empty set; only hard backend failures surface, and callers treat those as
// an empty start too.
func (s *Store) Load() error {
	ids, err := s.backend.Load()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = true

	if err != nil {
		return fmt.Errorf("failed to load seen IDs: %w", err)
	}

	s.ids = s.ids[:0]
	s.index = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := s.index[id]; dup {
			continue
		}
		s.index[id] = struct{}{}
		s.ids = append(s.ids, id)
	}
	s.truncateLocked()

	slog.Info("Seen IDs loaded", "count", len(s.ids))

	return nil
}

func (s *Store) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[id]
	return ok
}

// Mark records an identifier as seen. Every saveInterval-th new identifier
// triggers a persist.
func (s *Store) Mark(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[id]; ok {
		return
	}

	s.index[id] = struct{}{}
	s.ids = append(s.ids, id)
	s.insertions++

	if s.insertions%s.saveInterval == 0 {
		if err := s.persistLocked(); err != nil {
			slog.Warn("Failed to persist seen IDs", "error", err)
		}
	}
}

// Flush truncates to the cap and persists unconditionally. Called after
// backfill and at shutdown.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		// Never got as far as loading; saving now would clobber prior state.
		return nil
	}

	return s.persistLocked()
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

func (s *Store) persistLocked() error {
	s.truncateLocked()

	if err := s.backend.Save(s.ids); err != nil {
		return fmt.Errorf("failed to save seen IDs: %w", err)
	}

	return nil
}

// truncateLocked evicts the oldest-inserted entries beyond the cap.
func (s *Store) truncateLocked() {
	if len(s.ids) <= s.cap {
		return
	}

	evicted := s.ids[:len(s.ids)-s.cap]
	for _, id := range evicted {
		delete(s.index, id)
	}
	s.ids = append(s.ids[:0], s.ids[len(s.ids)-s.cap:]...)
}
