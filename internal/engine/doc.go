// Package engine implements the transactional core of the store.
//
// The engine orchestrates:
//   - Immutable snapshots published through an atomic pointer (lock-free reads)
//   - A single writer slot guarded by the resource controller
//   - Per-table persistent state: primary-key map, row array, free-row list
//   - Secondary index fan-out on every Set and Remove
//   - Copy-on-write forking so aborted transactions leave no trace
//   - Parallel index backfill at startup
//
// A write transaction forks a table from the writer-private base snapshot
// the first time it touches it. Forks share every page with their source
// and copy a page the first time they write it. Commit publishes the forks
// with one atomic store; abort drops them.
package engine
