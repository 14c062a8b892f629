// Package index implements the persistent secondary indexes of a table.
//
// Both index kinds map a key projected from an entity to the entity's
// internal row number:
//
//   - Value indexes answer equality lookups. Keys are hashed into B-tree
//     buckets; each distinct key owns a Roaring bitmap of rows.
//   - RangeScan indexes answer closed-interval lookups. They keep one
//     B-tree item per row, ordered by key and then by row.
//
// Indexes never read the table. The table calls Insert, Update and Delete
// with the row and entity versions involved, inside the same edit session
// that changed primary storage, and the index projects the keys itself.
// Projections must be pure.
//
// # Snapshots
//
// Fork returns an editable copy that shares structure with the receiver.
// Posting-list bitmaps are stamped with the cow.Token of the session that
// created them and are cloned on first change in any other session.
package index
