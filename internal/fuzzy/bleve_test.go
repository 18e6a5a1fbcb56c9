package fuzzy

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TinyDragon612/astrophoenix-host/internal/corpus"
)

func testDocs() []corpus.Document {
	return []corpus.Document{
		corpus.NewDocument("Mars Soil.txt", "A study of regolith composition on the martian surface."),
		corpus.NewDocument("mars-dust-properties.txt", "Dust storms and particle size distributions."),
		corpus.NewDocument("lunar-ice.txt", "Polar ice deposits on the moon and their volatiles."),
	}
}

func TestIndex_AddAndCount(t *testing.T) {
	// Given: an empty incremental index
	ix, err := NewIndex(DefaultConfig())
	require.NoError(t, err)
	assert.Zero(t, ix.Count())

	// When: adding documents one at a time
	for _, doc := range testDocs() {
		require.NoError(t, ix.Add(doc))
	}

	// Then: all are counted
	assert.Equal(t, 3, ix.Count())
}

func TestIndex_Search_RanksTermMatches(t *testing.T) {
	ix, err := NewScoped(DefaultConfig(), testDocs())
	require.NoError(t, err)

	matches, err := ix.Search(context.Background(), "mars", 10)

	require.NoError(t, err)
	require.NotEmpty(t, matches)
	for _, m := range matches {
		assert.GreaterOrEqual(t, m.Dissimilarity, 0.0)
		assert.LessOrEqual(t, m.Dissimilarity, DefaultConfig().Threshold)
	}
	// Best-first ordering
	for i := 1; i < len(matches); i++ {
		assert.LessOrEqual(t, matches[i-1].Dissimilarity, matches[i].Dissimilarity)
	}
}

func TestIndex_Search_TitleOutweighsContent(t *testing.T) {
	// Given: one doc with the term in its title, one with it in content only
	docs := []corpus.Document{
		corpus.NewDocument("regolith-analysis.txt", "Surface sampling methods."),
		corpus.NewDocument("unrelated-title.txt", "Deep dive into regolith chemistry."),
	}
	ix, err := NewScoped(DefaultConfig(), docs)
	require.NoError(t, err)

	// When: searching the term
	matches, err := ix.Search(context.Background(), "regolith", 10)

	// Then: the title match ranks first
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.Equal(t, "regolith-analysis.txt", matches[0].Doc.ID)
}

func TestIndex_Search_ToleratesMisspelling(t *testing.T) {
	ix, err := NewScoped(DefaultConfig(), testDocs())
	require.NoError(t, err)

	// "regolth" is one edit away from "regolith"
	matches, err := ix.Search(context.Background(), "regolth", 10)

	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.Equal(t, "Mars Soil.txt", matches[0].Doc.ID)
}

func TestIndex_Search_NoTermsReturnsEmpty(t *testing.T) {
	ix, err := NewScoped(DefaultConfig(), testDocs())
	require.NoError(t, err)

	matches, err := ix.Search(context.Background(), "???", 10)

	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestIndex_Search_RespectsLimit(t *testing.T) {
	cfg := DefaultConfig()
	var docs []corpus.Document
	for i := 0; i < 20; i++ {
		docs = append(docs, corpus.NewDocument(
			fmt.Sprintf("mars-%d.txt", i), "mars observations"))
	}
	ix, err := NewScoped(cfg, docs)
	require.NoError(t, err)

	matches, err := ix.Search(context.Background(), "mars", 5)

	require.NoError(t, err)
	assert.LessOrEqual(t, len(matches), 5)

	matches, err = ix.Search(context.Background(), "mars", 0)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestRebuildRanker_SameContractAsIndex(t *testing.T) {
	// Given: the rebuild-on-add implementation
	r, err := NewRebuildRanker(DefaultConfig())
	require.NoError(t, err)

	// When: adding documents one at a time
	for _, doc := range testDocs() {
		require.NoError(t, r.Add(doc))
	}

	// Then: each added document is immediately searchable
	assert.Equal(t, 3, r.Count())
	matches, err := r.Search(context.Background(), "mars", 10)
	require.NoError(t, err)
	assert.NotEmpty(t, matches)
}
