package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "lowercases and splits on spaces",
			input: "Mars Soil",
			want:  []string{"mars", "soil"},
		},
		{
			name:  "punctuation runs act as one separator",
			input: "zero-gravity... effects!!",
			want:  []string{"zero", "gravity", "effects"},
		},
		{
			name:  "digits are kept",
			input: "Apollo 11 samples",
			want:  []string{"apollo", "11", "samples"},
		},
		{
			name:  "file extension splits off",
			input: "mars-dust-properties.txt",
			want:  []string{"mars", "dust", "properties", "txt"},
		},
		{
			name:  "punctuation only yields no tokens",
			input: "?!... --- ***",
			want:  []string{},
		},
		{
			name:  "empty input",
			input: "",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)

			assert.Equal(t, tt.want, got)
			assert.NotNil(t, got)
		})
	}
}

func TestTokenize_Deterministic(t *testing.T) {
	input := "The Effects of Zero Gravity on Bone Density"

	first := Tokenize(input)
	second := Tokenize(input)

	assert.Equal(t, first, second)
}
