package index

import (
	"regexp"
	"strings"
)

// tokenRegex matches runs of lowercase alphanumerics. Input is lowercased
// before matching, so every run of non-alphanumerics acts as a separator.
var tokenRegex = regexp.MustCompile(`[a-z0-9]+`)

// Tokenize turns raw text into a canonical token sequence: lowercased,
// split on any run of non-alphanumeric characters, empties discarded.
// It is pure and deterministic, and it is used identically for indexing
// and for query-token extraction; the inverted index lookup depends on
// both sides normalizing the same way.
func Tokenize(text string) []string {
	tokens := tokenRegex.FindAllString(strings.ToLower(text), -1)
	if tokens == nil {
		return []string{}
	}
	return tokens
}
