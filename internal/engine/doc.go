// Package engine implements the composition-and-synchronization core.
//
// The engine has three parts, each a small struct built from injected
// repository capabilities:
//
// Composer:
// Loads a loadout's fragments in list order and joins them into a
// domain.Composition. Loading fails fast: the first unreadable reference
// aborts the whole composition and no partial artifact is returned.
// Content is re-read on every call, so edits on disk are always seen.
//
// SyncOracle:
// Answers "is the on-disk output still correct?" by comparing the
// fingerprint recorded in application state against a fresh composition of
// the active loadout. It never writes.
//
// OutputWriter:
// Writes rendered content to every output path, but only when the
// composition's fingerprint differs from the recorded one. An unchanged
// fingerprint is a no-op at the I/O layer (AlreadyUpToDate). The writer
// reads application state but never saves it: recording the new fingerprint
// is a separate, explicit step owned by the caller (internal/service).
//
// PARTIAL WRITES:
// Output paths are written in order and writing stops at the first failure.
// Paths already written stay written; there is no rollback.
package engine
