// Package repository defines the capability interfaces the loadout core
// depends on, plus in-memory implementations for tests.
//
// The core never touches the filesystem directly; it reads fragments,
// loadouts, and application state through these interfaces and writes
// output files through FileWriter. Production implementations live in
// internal/filestore.
//
// None of the implementations cache content across calls: every read
// returns the current truth of the backing store.
package repository
