// Package store provides the SQLite-backed activation ledger.
//
// Every time the application state is recorded after an activation or
// sync, one row is appended to the ledger: which loadout, which
// fingerprint, what the writer did, and which output paths were targeted.
// The ledger is history only. Nothing in the sync decision reads it; the
// authoritative state stays in the state file.
//
// # Ordering
//
//   - seq INTEGER is a per-database logical clock assigned on append
//   - List returns newest first: ORDER BY seq DESC, id COLLATE BINARY ASC
//   - recorded_at is informational and never used for ordering
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
