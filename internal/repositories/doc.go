// Package repositories implements SQLite persistence for run history.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
// Runs support soft deletes via deleted_at timestamps and deleted records are excluded from queries by default.
//
// Key Implementations:
//   - [RunRepository] : One row per indexing run with its counters and outcome
//   - [EventRepository] : Warnings and errors recorded during a run, in the order they were raised
//
// Sequence numbers provide stable, human-readable ordering (run #42) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
