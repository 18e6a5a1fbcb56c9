// Package saved keeps the in-session list of results the user has saved.
package saved

import (
	"sort"
	"strings"
	"sync"

	"github.com/TinyDragon612/astrophoenix-host/internal/search"
)

// Store is an in-memory saved-results collection keyed by document
// identifier. Toggling the same identifier twice returns the store to its
// prior state.
type Store struct {
	mu    sync.RWMutex
	items map[string]search.Result
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		items: make(map[string]search.Result),
	}
}

// Toggle saves the result if its identifier is absent and removes it if
// present. Returns true when the result is saved after the call.
func (s *Store) Toggle(r search.Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[r.ID]; ok {
		delete(s.items, r.ID)
		return false
	}
	s.items[r.ID] = r
	return true
}

// Contains reports whether the identifier is currently saved.
func (s *Store) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.items[id]
	return ok
}

// List returns the saved results ordered by case-insensitive title.
func (s *Store) List() []search.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]search.Result, 0, len(s.items))
	for _, r := range s.items {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
	})
	return out
}

// Count returns the number of saved results.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
