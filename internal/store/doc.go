// Package store keeps topic maps in a SQLite database.
//
// Two tables:
//   - snapshots: named documents stored as canonical JSON with their
//     content hash, indexed by hash
//   - events: an append-only journal of change notifications per map
//
// A snapshot's hash is recomputed on load and a mismatch is an error.
// Ordering uses seq columns, never timestamps, so listings and event
// reads are deterministic.
//
// A Journal is a bus subscriber. It writes each event before the change
// is applied; a failed write aborts and rolls back the mutation, so the
// journal never misses a committed change.
//
// Open stamps user_version with the schema version and refuses databases
// stamped by a newer one.
package store
