package domain

import (
	"crypto/sha256"
	"encoding/hex"
)

// DomainContent separates composition fingerprints from any other hash the
// tool may compute. The version suffix enables future algorithm migration.
const DomainContent = "loadout/content/v1"

// FingerprintLength is the number of hex characters kept from the digest.
const FingerprintLength = 16

// Fingerprint computes the content fingerprint of composed text.
// Format: hex(SHA256(domain + 0x00 + text))[:16]
//
// The input is hashed as raw UTF-8 bytes, so the result is independent of
// locale, byte order, and process.
func Fingerprint(text string) string {
	h := sha256.New()
	h.Write([]byte(DomainContent))
	h.Write([]byte{0x00})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))[:FingerprintLength]
}
