package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJoinFragments(t *testing.T) {
	tests := []struct {
		name     string
		contents []string
		want     string
	}{
		{"empty", nil, ""},
		{"single", []string{"A"}, "A"},
		{"join rule", []string{"A", "B"}, "A\n\nB"},
		{"trims each", []string{"  A\n\n", "\n\tB  "}, "A\n\nB"},
		{"drops blank", []string{"A", "   \n\t", "B"}, "A\n\nB"},
		{"all blank", []string{" ", "\n"}, ""},
		{"keeps inner blank lines", []string{"A\n\n\nA2", "B"}, "A\n\n\nA2\n\nB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, JoinFragments(tt.contents))
		})
	}
}

func TestNewCompositionMetadata(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	md := NewCompositionMetadata("A\n\nB", []string{"a.md", "b.md"}, at)

	assert.Equal(t, at, md.GeneratedAt)
	assert.Equal(t, []string{"a.md", "b.md"}, md.FragmentRefs)
	assert.Equal(t, 3, md.TotalLines)
	assert.Equal(t, 4, md.TotalCharacters)
	assert.Equal(t, Fingerprint("A\n\nB"), md.Fingerprint)
}

func TestNewCompositionMetadata_EmptyContent(t *testing.T) {
	md := NewCompositionMetadata("", nil, time.Time{})

	assert.Equal(t, 1, md.TotalLines, "empty text is one empty segment")
	assert.Equal(t, 0, md.TotalCharacters)
	assert.Equal(t, "6a17bc393a8a72b6", md.Fingerprint)
	assert.NotNil(t, md.FragmentRefs)
	assert.Empty(t, md.FragmentRefs)
}

func TestNewCompositionMetadata_CountsRunes(t *testing.T) {
	md := NewCompositionMetadata("héllo", nil, time.Time{})
	assert.Equal(t, 5, md.TotalCharacters)
}
