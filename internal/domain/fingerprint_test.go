package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprintDeterminism(t *testing.T) {
	fp1 := Fingerprint("A\n\nB")
	fp2 := Fingerprint("A\n\nB")

	assert.Equal(t, fp1, fp2, "Fingerprint must be deterministic")
	assert.Len(t, fp1, FingerprintLength)
}

func TestFingerprintKnownValues(t *testing.T) {
	// Pinned values guard against accidental algorithm or domain changes,
	// which would mark every existing project as out of sync.
	tests := []struct {
		text string
		want string
	}{
		{"", "6a17bc393a8a72b6"},
		{"A", "9973b5d924f4e1e7"},
		{"A\n\nB", "87e9386bceeafc49"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Fingerprint(tt.text), "Fingerprint(%q)", tt.text)
	}
}

func TestFingerprintChangesWithContent(t *testing.T) {
	assert.NotEqual(t, Fingerprint("A"), Fingerprint("B"))
	assert.NotEqual(t, Fingerprint("A\n\nB"), Fingerprint("B\n\nA"), "order matters")
	assert.NotEqual(t, Fingerprint("A"), Fingerprint("A\n"), "trailing newline matters")
}
