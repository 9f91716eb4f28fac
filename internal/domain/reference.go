package domain

import (
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeReference returns the canonical form of a fragment reference.
//
// References are compared as strings for de-duplication, so two spellings
// of the same file must normalize identically:
//   - surrounding whitespace is trimmed
//   - Unicode is NFC normalized (macOS reports decomposed file names)
//   - separators become forward slashes and the path is cleaned
//
// A blank reference normalizes to "".
func NormalizeReference(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	ref = norm.NFC.String(ref)
	return path.Clean(filepath.ToSlash(ref))
}

// NormalizeReferences normalizes refs in order and drops later duplicates.
// Blank references are kept as "" so Validate can report them.
func NormalizeReferences(refs []string) []string {
	out := make([]string, 0, len(refs))
	seen := make(map[string]bool, len(refs))
	for _, r := range refs {
		n := NormalizeReference(r)
		if n != "" && seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// FragmentName derives a display name from a reference: the base name
// without its extension.
func FragmentName(ref string) string {
	base := path.Base(ref)
	return strings.TrimSuffix(base, path.Ext(base))
}
