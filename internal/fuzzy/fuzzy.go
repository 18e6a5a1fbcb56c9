// Package fuzzy provides approximate string ranking over the document
// corpus. Matching is backed by an in-memory Bleve index with title and
// content fields; titles are weighted over body text roughly 7:3.
//
// The ranker is a capability with two implementations selectable at
// construction: Index supports incremental add, RebuildRanker reconstructs
// its index from scratch on every add. The indexer uses the latter shape as
// a deliberate fallback strategy when incremental insertion fails.
package fuzzy

import (
	"context"

	"github.com/TinyDragon612/astrophoenix-host/internal/corpus"
)

// Match is one fuzzy hit: a document and its normalized dissimilarity.
// Dissimilarity is 0 for the best possible match and grows toward 1 as
// relevance degrades; higher is worse.
type Match struct {
	Doc           corpus.Document
	Dissimilarity float64
}

// Ranker is the approximate-matching capability consumed by the indexer
// and the query engine.
type Ranker interface {
	// Add incorporates one document into the fuzzy-searchable corpus.
	Add(doc corpus.Document) error

	// Search returns up to limit matches ranked best-first. Hits more
	// dissimilar than the configured threshold are excluded.
	Search(ctx context.Context, query string, limit int) ([]Match, error)

	// Count returns the number of documents in the ranker.
	Count() int
}

// Weights sets the per-field boosts for fuzzy matching.
type Weights struct {
	Title   float64
	Content float64
}

// DefaultWeights favors title matches over body matches 7:3.
func DefaultWeights() Weights {
	return Weights{Title: 7, Content: 3}
}

// Config configures a ranker.
type Config struct {
	// Weights are the per-field boosts.
	Weights Weights

	// Threshold is the maximum dissimilarity a hit may have before it is
	// dropped (0 = identical, 1 = unrelated).
	Threshold float64
}

// DefaultConfig returns the standard ranker configuration.
func DefaultConfig() Config {
	return Config{
		Weights:   DefaultWeights(),
		Threshold: 0.6,
	}
}
