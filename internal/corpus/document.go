// Package corpus provides the document model and the remote document store
// client for AstroPhoenix. The corpus is a set of plain-text papers served
// by a static file host and enumerated by a JSON manifest.
package corpus

import (
	"path"
	"strings"
)

// Document is one paper in the corpus. Documents are immutable once indexed:
// the indexer creates exactly one per manifest identifier and nothing mutates
// or deletes them for the lifetime of a session.
type Document struct {
	// ID is the stable identifier: the source filename from the manifest.
	ID string `json:"id"`

	// Title is the identifier with its extension stripped.
	Title string `json:"title"`

	// Content is the full raw text. Empty when the fetch failed.
	Content string `json:"content"`
}

// NewDocument builds a Document from its manifest identifier and raw text.
func NewDocument(id, content string) Document {
	return Document{
		ID:      id,
		Title:   TitleFromID(id),
		Content: content,
	}
}

// TitleFromID derives a display title from a manifest identifier by
// stripping the file extension. "Mars Soil.txt" becomes "Mars Soil".
func TitleFromID(id string) string {
	ext := path.Ext(id)
	return strings.TrimSuffix(id, ext)
}
