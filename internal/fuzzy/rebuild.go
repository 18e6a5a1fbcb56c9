package fuzzy

import (
	"context"
	"sync"

	"github.com/TinyDragon612/astrophoenix-host/internal/corpus"
)

// RebuildRanker is the fallback ranker implementation: instead of inserting
// into a live index, every Add reconstructs the index from the full document
// list. Slower per add, but it cannot drift from its source and it works
// even when incremental insertion is unavailable. Callers see the same
// post-condition as Index: after Add returns, the document is searchable.
type RebuildRanker struct {
	mu   sync.RWMutex
	cfg  Config
	docs []corpus.Document
	idx  *Index
}

// NewRebuildRanker creates an empty rebuild-on-add ranker.
func NewRebuildRanker(cfg Config) (*RebuildRanker, error) {
	idx, err := NewIndex(cfg)
	if err != nil {
		return nil, err
	}
	return &RebuildRanker{
		cfg: cfg,
		idx: idx,
	}, nil
}

// Add records the document and rebuilds the whole index.
func (r *RebuildRanker) Add(doc corpus.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	docs := append(r.docs, doc)
	idx, err := NewScoped(r.cfg, docs)
	if err != nil {
		return err
	}
	r.docs = docs
	r.idx = idx
	return nil
}

// Search delegates to the current index.
func (r *RebuildRanker) Search(ctx context.Context, queryStr string, limit int) ([]Match, error) {
	r.mu.RLock()
	idx := r.idx
	r.mu.RUnlock()
	return idx.Search(ctx, queryStr, limit)
}

// Count returns the number of documents added.
func (r *RebuildRanker) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.docs)
}

// Verify interface implementation.
var _ Ranker = (*RebuildRanker)(nil)
