package domain

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"
)

// DefaultVersion is the version tag stamped on new loadouts.
const DefaultVersion = "1.0.0"

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Loadout is a named, ordered list of fragment references.
//
// Loadout values are treated as immutable: every mutation returns a copy
// with a fresh Fragments slice and a bumped UpdatedAt.
type Loadout struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Fragments   []string        `json:"fragments"`
	Metadata    LoadoutMetadata `json:"metadata"`
}

// LoadoutMetadata holds timestamps and the version tag of a Loadout.
type LoadoutMetadata struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   string    `json:"version"`
	Tags      []string  `json:"tags,omitempty"`
}

// ValidationError represents a validation error with field path and message.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewLoadout builds a Loadout stamped with now. References are normalized
// and de-duplicated; the result is not validated.
func NewLoadout(name, description string, refs []string, now time.Time) Loadout {
	return Loadout{
		Name:        name,
		Description: description,
		Fragments:   NormalizeReferences(refs),
		Metadata: LoadoutMetadata{
			CreatedAt: now,
			UpdatedAt: now,
			Version:   DefaultVersion,
		},
	}
}

// ValidateName checks a loadout name against the naming rule.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return InvalidInput("name", "name cannot be blank")
	}
	if !namePattern.MatchString(name) {
		return InvalidInput("name", "name must contain only alphanumeric characters, underscores, and hyphens")
	}
	return nil
}

// Validate checks the loadout against its invariants.
// Returns all errors (not fail-fast) for better diagnostics.
func (l Loadout) Validate() []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(l.Name) == "" {
		errs = append(errs, ValidationError{Field: "name", Message: "name is required"})
	} else if !namePattern.MatchString(l.Name) {
		errs = append(errs, ValidationError{
			Field:   "name",
			Message: "name must contain only alphanumeric characters, underscores, and hyphens",
		})
	}

	seen := make(map[string]bool, len(l.Fragments))
	var dups []string
	for i, ref := range l.Fragments {
		if strings.TrimSpace(ref) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("fragments[%d]", i),
				Message: "fragment reference cannot be blank",
			})
			continue
		}
		if seen[ref] && !slices.Contains(dups, ref) {
			dups = append(dups, ref)
		}
		seen[ref] = true
	}
	if len(dups) > 0 {
		errs = append(errs, ValidationError{
			Field:   "fragments",
			Message: "duplicate fragments found: " + strings.Join(dups, ", "),
		})
	}

	return errs
}

// Check returns the first validation problem as an InvalidInput failure, or nil.
func (l Loadout) Check() error {
	errs := l.Validate()
	if len(errs) == 0 {
		return nil
	}
	return InvalidInput(errs[0].Field, errs[0].Message)
}

// Contains reports whether ref (after normalization) is part of the loadout.
func (l Loadout) Contains(ref string) bool {
	return slices.Contains(l.Fragments, NormalizeReference(ref))
}

// AddFragment returns a copy with ref inserted directly after the reference
// after. When after is empty or absent, ref is appended. The result keeps the
// first occurrence of every reference.
func (l Loadout) AddFragment(ref, after string, now time.Time) Loadout {
	ref = NormalizeReference(ref)
	after = NormalizeReference(after)

	refs := slices.Clone(l.Fragments)
	idx := -1
	if after != "" {
		idx = slices.Index(refs, after)
	}
	if idx >= 0 {
		refs = slices.Insert(refs, idx+1, ref)
	} else {
		refs = append(refs, ref)
	}

	return l.withFragments(distinct(refs), now)
}

// RemoveFragment returns a copy without any occurrence of ref.
func (l Loadout) RemoveFragment(ref string, now time.Time) Loadout {
	ref = NormalizeReference(ref)
	refs := slices.DeleteFunc(slices.Clone(l.Fragments), func(r string) bool { return r == ref })
	return l.withFragments(refs, now)
}

// MoveFragment returns a copy with ref relocated directly after the
// reference after, or to the end when after is empty or absent.
func (l Loadout) MoveFragment(ref, after string, now time.Time) Loadout {
	return l.RemoveFragment(ref, now).AddFragment(ref, after, now)
}

// Clone returns a deep copy so callers can mutate slices freely.
func (l Loadout) Clone() Loadout {
	c := l
	c.Fragments = slices.Clone(l.Fragments)
	c.Metadata.Tags = slices.Clone(l.Metadata.Tags)
	return c
}

func (l Loadout) withFragments(refs []string, now time.Time) Loadout {
	c := l.Clone()
	if refs == nil {
		refs = []string{}
	}
	c.Fragments = refs
	c.Metadata.UpdatedAt = now
	return c
}

func distinct(refs []string) []string {
	seen := make(map[string]bool, len(refs))
	out := refs[:0]
	for _, r := range refs {
		if seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}
