// Package pk provides the persistent primary storage of a table.
//
// A table stores each entity under a dense internal row number. Two
// structures make up primary storage:
//
//   - Index maps a primary key of any comparable type to its row number.
//     It is a B-tree of hash buckets (github.com/google/btree); Clone is
//     O(1) and later writes copy only the touched path.
//   - Rows maps row numbers to entities. It is a two-level chunked array
//     whose directory pages and chunks are copied on first write in an
//     edit session (see package cow).
//
// # Snapshots
//
// Neither structure synchronizes. A published instance is never written
// again; a writer works on a Clone/Fork, which shares all unmodified
// nodes with the original. Readers of the original need no locks.
package pk
