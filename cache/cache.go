package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Store is an in-memory TTL cache. Entries are bucketed by the xxHash of
// their key; the full key is kept so a hash collision reads as a miss,
// never as another key's value.
type Store struct {
	mu      sync.RWMutex
	entries map[uint64]entry
	now     func() time.Time
}

type entry struct {
	key     string
	value   any
	expires time.Time
}

func NewStore() *Store {
	return &Store{
		entries: make(map[uint64]entry),
		now:     time.Now,
	}
}

// Key joins parts into a single cache key. Parts are separated by a byte
// that cannot appear in URLs or resource names.
func Key(parts ...string) string {
	return strings.Join(parts, "\x00")
}

func generateHash(key string) uint64 {
	return xxhash.Sum64String(key)
}

// Get returns the value stored under key if it has not expired.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	e, ok := s.entries[generateHash(key)]
	s.mu.RUnlock()

	if !ok || e.key != key || !s.now().Before(e.expires) {
		return nil, false
	}
	return e.value, true
}

func (s *Store) Set(key string, value any, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[generateHash(key)] = entry{
		key:     key,
		value:   value,
		expires: s.now().Add(ttl),
	}
}

func (s *Store) Delete(key string) {
	h := generateHash(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[h]; ok && e.key == key {
		delete(s.entries, h)
	}
}

// Clear drops every entry.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[uint64]entry)
}

// Prune removes expired entries and reports how many were dropped.
func (s *Store) Prune() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for h, e := range s.entries {
		if !now.Before(e.expires) {
			delete(s.entries, h)
			removed++
		}
	}
	return removed
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
