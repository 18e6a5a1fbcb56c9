package index

import (
	"sync"
)

// InvertedIndex maps normalized tokens to the set of document identifiers
// containing them. Entries only ever grow within a session; nothing is
// removed or edited in place, so readers never observe a torn posting set.
type InvertedIndex struct {
	mu       sync.RWMutex
	postings map[string]map[string]struct{}
}

// NewInvertedIndex creates an empty inverted index.
func NewInvertedIndex() *InvertedIndex {
	return &InvertedIndex{
		postings: make(map[string]map[string]struct{}),
	}
}

// Insert adds docID to the posting set of token. Idempotent, amortized O(1).
func (ix *InvertedIndex) Insert(token, docID string) {
	if token == "" {
		return
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	set, ok := ix.postings[token]
	if !ok {
		set = make(map[string]struct{})
		ix.postings[token] = set
	}
	set[docID] = struct{}{}
}

// Candidates returns the intersection of the posting sets for all given
// tokens. If any token has no postings the result is empty (short-circuit).
// An empty token list also yields an empty set: the caller owns the
// all-documents fallback, the index never returns the full corpus implicitly.
func (ix *InvertedIndex) Candidates(tokens []string) map[string]struct{} {
	result := make(map[string]struct{})
	if len(tokens) == 0 {
		return result
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	first, ok := ix.postings[tokens[0]]
	if !ok {
		return result
	}
	for id := range first {
		result[id] = struct{}{}
	}

	for _, token := range tokens[1:] {
		set, ok := ix.postings[token]
		if !ok {
			return make(map[string]struct{})
		}
		for id := range result {
			if _, in := set[id]; !in {
				delete(result, id)
			}
		}
		if len(result) == 0 {
			return result
		}
	}

	return result
}

// TokenCount returns the number of distinct tokens indexed.
func (ix *InvertedIndex) TokenCount() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.postings)
}

// Postings returns a copy of the posting set for one token.
func (ix *InvertedIndex) Postings(token string) map[string]struct{} {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	out := make(map[string]struct{}, len(ix.postings[token]))
	for id := range ix.postings[token] {
		out[id] = struct{}{}
	}
	return out
}
