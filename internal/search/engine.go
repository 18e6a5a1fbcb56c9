// Package search implements the query engine: hybrid exact/fuzzy retrieval
// with a three-tier scoring policy over the live index state.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/TinyDragon612/astrophoenix-host/internal/corpus"
	pherrors "github.com/TinyDragon612/astrophoenix-host/internal/errors"
	"github.com/TinyDragon612/astrophoenix-host/internal/fuzzy"
	"github.com/TinyDragon612/astrophoenix-host/internal/index"
)

// Tier score constants. Lower is better; the fuzzy offset keeps every
// approximate hit ranked below every exact hit.
const (
	scoreTitleMatch   = 0
	scoreContentMatch = 10
	fuzzyScoreOffset  = 50
)

// Result is one ranked search hit, recomputed per query and never persisted.
// Score is lower-is-better; Matches is the exact occurrence count used only
// as a secondary tie-break (always 0 for fuzzy hits).
type Result struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
	Score   int    `json:"score"`
	Matches int    `json:"matches"`
}

// Config configures the query engine.
type Config struct {
	// ScopedCandidateLimit is the candidate-set size at or below which a
	// throwaway fuzzy index is built over just the candidates. Larger sets
	// search the global fuzzy index instead.
	ScopedCandidateLimit int

	// FuzzyLimit caps the hits requested from the fuzzy ranker.
	FuzzyLimit int

	// ExcerptRadius is the half-width of the window around an exact match.
	ExcerptRadius int

	// FallbackExcerptLength is the head length used when the query does not
	// occur verbatim in the content.
	FallbackExcerptLength int

	// CacheSize is the number of query results kept in the LRU cache.
	CacheSize int
}

// DefaultConfig returns the standard query engine configuration.
func DefaultConfig() Config {
	return Config{
		ScopedCandidateLimit:  600,
		FuzzyLimit:            50,
		ExcerptRadius:         110,
		FallbackExcerptLength: 250,
		CacheSize:             128,
	}
}

// Engine answers queries against one index engine. It only reads index
// state, so it is safe to query while indexing is still in flight; results
// cover whatever subset has been indexed at call time.
type Engine struct {
	idx   *index.Engine
	cfg   Config
	cache *lru.Cache[string, []Result]
}

// NewEngine creates a query engine over the given index.
func NewEngine(idx *index.Engine, cfg Config) (*Engine, error) {
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = DefaultConfig().CacheSize
	}

	cache, err := lru.New[string, []Result](cfg.CacheSize)
	if err != nil {
		return nil, pherrors.InternalError("failed to create query cache", err)
	}

	return &Engine{
		idx:   idx,
		cfg:   cfg,
		cache: cache,
	}, nil
}

// Search returns the full ordered result list for a query. Pagination is a
// pure slicing operation owned by the caller.
func (e *Engine) Search(ctx context.Context, queryStr string) ([]Result, error) {
	if queryStr == "" {
		return []Result{}, nil
	}

	// Cache entries are only valid for the corpus size they were computed
	// against; keying on the document count invalidates them as the index
	// grows.
	docCount := e.idx.DocumentCount()
	cacheKey := fmt.Sprintf("%d\x00%s", docCount, queryStr)
	if cached, ok := e.cache.Get(cacheKey); ok {
		return cached, nil
	}

	phrase := parsePhrase(queryStr)
	docs := e.idx.Documents()

	results := make([]Result, 0)
	scored := make(map[string]struct{})

	// Tier 0: exact phrase in title, then tier 1: exact phrase in content.
	// Tiers are mutually exclusive per document.
	if phrase != "" {
		for _, doc := range docs {
			lowerTitle := strings.ToLower(doc.Title)
			if !strings.Contains(lowerTitle, phrase) {
				continue
			}
			scored[doc.ID] = struct{}{}
			results = append(results, Result{
				ID:      doc.ID,
				Title:   doc.Title,
				Excerpt: headExcerpt(doc.Content, e.cfg.FallbackExcerptLength),
				Score:   scoreTitleMatch,
				Matches: strings.Count(lowerTitle, phrase),
			})
		}

		for _, doc := range docs {
			if _, done := scored[doc.ID]; done {
				continue
			}
			lowerContent := strings.ToLower(doc.Content)
			if !strings.Contains(lowerContent, phrase) {
				continue
			}
			scored[doc.ID] = struct{}{}
			results = append(results, Result{
				ID:      doc.ID,
				Title:   doc.Title,
				Excerpt: excerptAround(doc.Content, strings.Index(lowerContent, phrase), len(phrase), e.cfg.ExcerptRadius),
				Score:   scoreContentMatch,
				Matches: strings.Count(lowerContent, phrase),
			})
		}
	}

	// Tier 2: fuzzy ranking over the token-intersection candidates.
	fuzzyResults, err := e.fuzzyTier(ctx, queryStr, docs, scored)
	if err != nil {
		return nil, err
	}
	results = append(results, fuzzyResults...)

	sortResults(results)
	e.cache.Add(cacheKey, results)
	return results, nil
}

// fuzzyTier computes the tier-2 results: inverted-index candidate
// narrowing, then fuzzy ranking over a scoped or global index.
func (e *Engine) fuzzyTier(ctx context.Context, queryStr string, docs []corpus.Document, scored map[string]struct{}) ([]Result, error) {
	tokens := index.Tokenize(queryStr)

	var candidates []corpus.Document
	if len(tokens) == 0 {
		// Nothing to intersect on: every indexed document is a candidate.
		candidates = docs
	} else {
		ids := e.idx.Inverted().Candidates(tokens)
		for _, doc := range docs {
			if _, ok := ids[doc.ID]; ok {
				candidates = append(candidates, doc)
			}
		}
	}

	remaining := candidates[:0:0]
	for _, doc := range candidates {
		if _, done := scored[doc.ID]; !done {
			remaining = append(remaining, doc)
		}
	}
	if len(remaining) == 0 && len(tokens) > 0 {
		return nil, nil
	}

	var ranker fuzzy.Ranker
	if len(remaining) <= e.cfg.ScopedCandidateLimit {
		// A precise token filter already narrowed the space; a throwaway
		// index over just these documents bounds fuzzy latency.
		scoped, err := fuzzy.NewScoped(e.idx.FuzzyConfig(), remaining)
		if err != nil {
			return nil, pherrors.Wrap(pherrors.ErrCodeSearchFailed, err)
		}
		ranker = scoped
	} else {
		// The global index already holds everything. Its hits are not
		// restricted to the candidate set; documents outside the token
		// intersection may surface here.
		slog.Debug("fuzzy_global_fallback",
			slog.Int("candidates", len(remaining)),
			slog.Int("limit", e.cfg.ScopedCandidateLimit))
		ranker = e.idx.Ranker()
	}

	matches, err := ranker.Search(ctx, queryStr, e.cfg.FuzzyLimit)
	if err != nil {
		return nil, pherrors.Wrap(pherrors.ErrCodeSearchFailed, err)
	}

	results := make([]Result, 0, len(matches))
	for _, m := range matches {
		if _, done := scored[m.Doc.ID]; done {
			continue
		}
		scored[m.Doc.ID] = struct{}{}
		results = append(results, Result{
			ID:      m.Doc.ID,
			Title:   m.Doc.Title,
			Excerpt: e.fuzzyExcerpt(m.Doc.Content, queryStr),
			Score:   int(math.Round(m.Dissimilarity*100)) + fuzzyScoreOffset,
			Matches: 0,
		})
	}
	return results, nil
}

// fuzzyExcerpt windows around the first case-insensitive occurrence of the
// raw query, falling back to the head of the content.
func (e *Engine) fuzzyExcerpt(content, queryStr string) string {
	idx := strings.Index(strings.ToLower(content), strings.ToLower(queryStr))
	if idx < 0 {
		return headExcerpt(content, e.cfg.FallbackExcerptLength)
	}
	return excerptAround(content, idx, len(queryStr), e.cfg.ExcerptRadius)
}

// parsePhrase extracts the exact-match phrase from a query: the unquoted
// content when wrapped in double quotes, otherwise the query itself,
// case-folded either way.
func parsePhrase(queryStr string) string {
	phrase := queryStr
	if len(phrase) >= 2 && strings.HasPrefix(phrase, `"`) && strings.HasSuffix(phrase, `"`) {
		phrase = phrase[1 : len(phrase)-1]
	}
	return strings.ToLower(phrase)
}

// sortResults applies the ordering policy: ascending score, then descending
// matches, then case-insensitive title.
func sortResults(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score < results[j].Score
		}
		if results[i].Matches != results[j].Matches {
			return results[i].Matches > results[j].Matches
		}
		return strings.ToLower(results[i].Title) < strings.ToLower(results[j].Title)
	})
}
