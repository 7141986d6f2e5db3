// Package history keeps the calculation log shown next to the display.
package history

import "sync"

// DefaultLimit is used when a Store is created with a non-positive limit.
const DefaultLimit = 100

// Store is a bounded, in-memory list of history entries. When full, the
// oldest entry is dropped. It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	entries []string
	limit   int
}

func NewStore(limit int) *Store {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Store{limit: limit}
}

// Record appends entry, evicting the oldest entry if the store is full.
func (s *Store) Record(entry string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) == s.limit {
		copy(s.entries, s.entries[1:])
		s.entries = s.entries[:len(s.entries)-1]
	}
	s.entries = append(s.entries, entry)
}

// Entries returns a copy of the entries, oldest first.
func (s *Store) Entries() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) Clear() {
	s.mu.Lock()
	s.entries = nil
	s.mu.Unlock()
}

func (s *Store) Limit() int {
	return s.limit
}
