// Package schema validates loadout and state records against an embedded
// CUE schema before they are decoded.
//
// The JSON decoder accepts almost anything that type-checks; the schema adds
// the shape rules the records must satisfy (loadout name pattern, non-blank
// references, 16-hex fingerprints, no unknown top-level fields). A record that
// fails validation is reported as a SERIALIZATION failure.
package schema
