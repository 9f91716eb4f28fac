// Package service orchestrates loadout operations over the repository
// capabilities and the engine.
//
// Activation runs one sequence per call:
//
//	Get loadout -> Compose -> WriteIfChanged -> Record
//
// Record saves {active loadout, fingerprint} to the state store after an
// overwrite, or after an up-to-date write whose active loadout name
// differs from the one recorded. If the files were written but the state
// save fails, the caller receives a *RecordError: the outputs on disk
// are newer than the recorded state until the next successful run. When
// nothing was written and only the switch fails, the store error is
// returned as is.
//
// When a ledger is configured, every recorded transition is appended to
// it. Ledger failures are logged and never fail the operation.
package service
