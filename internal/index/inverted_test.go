package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func buildIndex(entries map[string][]string) *InvertedIndex {
	ix := NewInvertedIndex()
	for token, ids := range entries {
		for _, id := range ids {
			ix.Insert(token, id)
		}
	}
	return ix
}

func TestInvertedIndex_InsertIdempotent(t *testing.T) {
	ix := NewInvertedIndex()

	ix.Insert("mars", "a.txt")
	ix.Insert("mars", "a.txt")
	ix.Insert("mars", "a.txt")

	assert.Equal(t, 1, ix.TokenCount())
	assert.Len(t, ix.Postings("mars"), 1)
}

func TestInvertedIndex_InsertIgnoresEmptyToken(t *testing.T) {
	ix := NewInvertedIndex()

	ix.Insert("", "a.txt")

	assert.Zero(t, ix.TokenCount())
}

func TestInvertedIndex_Candidates(t *testing.T) {
	ix := buildIndex(map[string][]string{
		"mars":   {"a.txt", "b.txt", "c.txt"},
		"soil":   {"a.txt", "c.txt"},
		"dust":   {"b.txt"},
		"plasma": {"d.txt"},
	})

	tests := []struct {
		name   string
		tokens []string
		want   []string
	}{
		{
			name:   "single token returns its posting set",
			tokens: []string{"mars"},
			want:   []string{"a.txt", "b.txt", "c.txt"},
		},
		{
			name:   "two tokens intersect",
			tokens: []string{"mars", "soil"},
			want:   []string{"a.txt", "c.txt"},
		},
		{
			name:   "disjoint tokens yield empty",
			tokens: []string{"soil", "plasma"},
			want:   nil,
		},
		{
			name:   "unknown token short-circuits",
			tokens: []string{"mars", "nonexistent", "soil"},
			want:   nil,
		},
		{
			name:   "no tokens yields empty not full corpus",
			tokens: []string{},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ix.Candidates(tt.tokens)

			assert.Len(t, got, len(tt.want))
			for _, id := range tt.want {
				assert.Contains(t, got, id)
			}
		})
	}
}

func TestInvertedIndex_CandidatesDoesNotMutate(t *testing.T) {
	ix := buildIndex(map[string][]string{
		"mars": {"a.txt", "b.txt"},
		"soil": {"a.txt"},
	})

	// Intersection narrows the result, not the index
	_ = ix.Candidates([]string{"mars", "soil"})

	assert.Len(t, ix.Postings("mars"), 2)
}

func TestInvertedIndex_PostingsReturnsCopy(t *testing.T) {
	ix := buildIndex(map[string][]string{"mars": {"a.txt"}})

	postings := ix.Postings("mars")
	postings["injected.txt"] = struct{}{}

	assert.Len(t, ix.Postings("mars"), 1)
}
