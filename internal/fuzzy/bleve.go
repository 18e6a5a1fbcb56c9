package fuzzy

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	tokenizerunicode "github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/TinyDragon612/astrophoenix-host/internal/corpus"
)

// PaperAnalyzerName is the name of the custom analyzer used for both fields.
const PaperAnalyzerName = "paper_analyzer"

// paperFields is the document shape handed to Bleve.
type paperFields struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Index is the incremental ranker: an in-memory Bleve index that documents
// are added to one at a time as the corpus downloads.
type Index struct {
	mu   sync.RWMutex
	idx  bleve.Index
	docs map[string]corpus.Document
	cfg  Config
}

// NewIndex creates an empty incremental ranker.
func NewIndex(cfg Config) (*Index, error) {
	im, err := newIndexMapping()
	if err != nil {
		return nil, err
	}

	idx, err := bleve.NewMemOnly(im)
	if err != nil {
		return nil, fmt.Errorf("failed to create fuzzy index: %w", err)
	}

	return &Index{
		idx:  idx,
		docs: make(map[string]corpus.Document),
		cfg:  cfg,
	}, nil
}

// NewScoped builds a throwaway ranker over just the given documents. The
// query engine uses this to bound fuzzy-search latency when the inverted
// index has already narrowed the space.
func NewScoped(cfg Config, docs []corpus.Document) (*Index, error) {
	ix, err := NewIndex(cfg)
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		if err := ix.Add(doc); err != nil {
			return nil, err
		}
	}
	return ix, nil
}

// newIndexMapping builds the Bleve mapping: one custom analyzer (unicode
// tokenizer + lowercase filter, no stemming or stop words) applied to the
// title and content fields.
func newIndexMapping() (*mapping.IndexMappingImpl, error) {
	im := bleve.NewIndexMapping()

	err := im.AddCustomAnalyzer(PaperAnalyzerName, map[string]interface{}{
		"type":      custom.Name,
		"tokenizer": tokenizerunicode.Name,
		"token_filters": []string{
			lowercase.Name,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add custom analyzer: %w", err)
	}

	titleField := bleve.NewTextFieldMapping()
	titleField.Analyzer = PaperAnalyzerName
	contentField := bleve.NewTextFieldMapping()
	contentField.Analyzer = PaperAnalyzerName

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("title", titleField)
	docMapping.AddFieldMappingsAt("content", contentField)

	im.DefaultMapping = docMapping
	im.DefaultAnalyzer = PaperAnalyzerName
	return im, nil
}

// Add incorporates one document into the index.
func (ix *Index) Add(doc corpus.Document) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if err := ix.idx.Index(doc.ID, paperFields{Title: doc.Title, Content: doc.Content}); err != nil {
		return fmt.Errorf("failed to add document %s: %w", doc.ID, err)
	}
	ix.docs[doc.ID] = doc
	return nil
}

// Search runs a weighted fuzzy query over both fields and returns matches
// ranked best-first. Bleve relevance scores are similarity (higher is
// better) and unbounded, so hits are normalized against the best hit in the
// result set: dissimilarity = 1 - score/maxScore. Hits past the configured
// threshold are dropped.
func (ix *Index) Search(ctx context.Context, queryStr string, limit int) ([]Match, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if limit <= 0 {
		return []Match{}, nil
	}

	q := ix.buildQuery(queryStr)
	if q == nil {
		return []Match{}, nil
	}

	req := bleve.NewSearchRequest(q)
	req.Size = limit

	res, err := ix.idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("fuzzy search failed: %w", err)
	}

	matches := make([]Match, 0, len(res.Hits))
	for _, hit := range res.Hits {
		doc, ok := ix.docs[hit.ID]
		if !ok {
			continue
		}
		dissim := 0.0
		if res.MaxScore > 0 {
			dissim = 1 - hit.Score/res.MaxScore
		}
		if dissim > ix.cfg.Threshold {
			continue
		}
		matches = append(matches, Match{Doc: doc, Dissimilarity: dissim})
	}
	return matches, nil
}

// Count returns the number of documents added.
func (ix *Index) Count() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.docs)
}

// buildQuery turns the raw query into a disjunction of per-token match and
// fuzzy queries against both fields, boosted by the field weights. Returns
// nil when the query contains no searchable terms.
func (ix *Index) buildQuery(queryStr string) query.Query {
	terms := queryTerms(queryStr)
	if len(terms) == 0 {
		return nil
	}

	var parts []query.Query
	for _, term := range terms {
		parts = append(parts,
			fieldMatch(term, "title", ix.cfg.Weights.Title),
			fieldFuzzy(term, "title", ix.cfg.Weights.Title/2),
			fieldMatch(term, "content", ix.cfg.Weights.Content),
			fieldFuzzy(term, "content", ix.cfg.Weights.Content/2),
		)
	}
	return bleve.NewDisjunctionQuery(parts...)
}

// fieldMatch builds an analyzed match query against one field.
func fieldMatch(term, field string, boost float64) query.Query {
	q := bleve.NewMatchQuery(term)
	q.SetField(field)
	q.SetBoost(boost)
	return q
}

// fieldFuzzy builds an edit-distance query against one field. Short terms
// get a tighter distance so they do not match everything.
func fieldFuzzy(term, field string, boost float64) query.Query {
	q := bleve.NewFuzzyQuery(term)
	q.SetField(field)
	q.SetBoost(boost)
	if len(term) < 4 {
		q.SetFuzziness(1)
	} else {
		q.SetFuzziness(2)
	}
	return q
}

// queryTerms lowercases the query and splits it on non-alphanumerics,
// mirroring the analyzer so query and index terms line up.
func queryTerms(queryStr string) []string {
	return strings.FieldsFunc(strings.ToLower(queryStr), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Verify interface implementation.
var _ Ranker = (*Index)(nil)
