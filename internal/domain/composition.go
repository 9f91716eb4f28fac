package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// FragmentSeparator joins trimmed fragment contents.
const FragmentSeparator = "\n\n"

// Composition is the composed artifact of one loadout at one point in time.
// It is never persisted; only its Fingerprint and LoadoutName end up in
// AppState.
type Composition struct {
	LoadoutName   string              `json:"loadout_name"`
	Content       string              `json:"content"`
	FragmentCount int                 `json:"fragment_count"`
	Metadata      CompositionMetadata `json:"metadata"`
}

// CompositionMetadata summarizes a Composition.
type CompositionMetadata struct {
	GeneratedAt     time.Time `json:"generated_at"`
	FragmentRefs    []string  `json:"fragment_refs"`
	TotalLines      int       `json:"total_lines"`
	TotalCharacters int       `json:"total_characters"`
	Fingerprint     string    `json:"fingerprint"`
}

// NewCompositionMetadata computes metadata over content.
//
// TotalLines counts newline-delimited segments, so "" has one line.
// TotalCharacters counts runes. FragmentRefs is informational only and
// never takes part in sync decisions.
func NewCompositionMetadata(content string, refs []string, generatedAt time.Time) CompositionMetadata {
	if refs == nil {
		refs = []string{}
	}
	return CompositionMetadata{
		GeneratedAt:     generatedAt,
		FragmentRefs:    refs,
		TotalLines:      strings.Count(content, "\n") + 1,
		TotalCharacters: utf8.RuneCountInString(content),
		Fingerprint:     Fingerprint(content),
	}
}

// Fingerprint returns the content fingerprint of the composition.
func (c Composition) Fingerprint() string {
	return c.Metadata.Fingerprint
}

// JoinFragments applies the composition rule: trim each content, drop the
// blank ones, join the rest with exactly one blank line.
func JoinFragments(contents []string) string {
	kept := make([]string, 0, len(contents))
	for _, c := range contents {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		kept = append(kept, c)
	}
	return strings.Join(kept, FragmentSeparator)
}

// WriteOutcome reports what the output writer did.
type WriteOutcome string

const (
	// OutcomeOverwritten means every output path was rewritten.
	OutcomeOverwritten WriteOutcome = "overwritten"

	// OutcomeUpToDate means the recorded fingerprint already matched and
	// nothing was written.
	OutcomeUpToDate WriteOutcome = "up_to_date"
)
