// Package bitmap provides the row-set type used for posting lists.
//
// Bitmap wraps a 32-bit Roaring bitmap. Secondary value indexes keep one
// Bitmap of internal row numbers per distinct key, and tables keep one for
// the free-row list.
//
// # Sharing
//
// A Bitmap reachable from a published snapshot is read-only. Writers call
// Clone before the first change in an edit session and mutate the clone;
// Clone only reads its receiver, so it is safe against concurrent readers.
package bitmap
