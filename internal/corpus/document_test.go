package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTitleFromID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want string
	}{
		{name: "plain extension", id: "Mars Soil.txt", want: "Mars Soil"},
		{name: "hyphenated name", id: "mars-dust-properties.txt", want: "mars-dust-properties"},
		{name: "no extension", id: "README", want: "README"},
		{name: "dotted name keeps inner dots", id: "apollo.11.notes.txt", want: "apollo.11.notes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TitleFromID(tt.id))
		})
	}
}

func TestNewDocument(t *testing.T) {
	doc := NewDocument("Mars Soil.txt", "regolith composition")

	assert.Equal(t, "Mars Soil.txt", doc.ID)
	assert.Equal(t, "Mars Soil", doc.Title)
	assert.Equal(t, "regolith composition", doc.Content)
}
