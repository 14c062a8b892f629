package bitmap

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
)

// Bitmap is a set of uint32 row numbers.
type Bitmap struct {
	rb *roaring.Bitmap
}

// New creates an empty bitmap.
func New() *Bitmap {
	return &Bitmap{rb: roaring.New()}
}

// Of creates a bitmap holding rows.
func Of(rows ...uint32) *Bitmap {
	return &Bitmap{rb: roaring.BitmapOf(rows...)}
}

// Add inserts row and reports whether it was absent.
func (b *Bitmap) Add(row uint32) bool {
	return b.rb.CheckedAdd(row)
}

// Remove deletes row and reports whether it was present.
func (b *Bitmap) Remove(row uint32) bool {
	return b.rb.CheckedRemove(row)
}

// Contains reports whether row is in the set.
func (b *Bitmap) Contains(row uint32) bool {
	return b.rb.Contains(row)
}

// IsEmpty reports whether the set is empty.
func (b *Bitmap) IsEmpty() bool {
	return b.rb.IsEmpty()
}

// Cardinality returns the number of rows in the set.
func (b *Bitmap) Cardinality() int {
	return int(b.rb.GetCardinality())
}

// Min returns the smallest row. ok is false when the set is empty.
func (b *Bitmap) Min() (row uint32, ok bool) {
	if b.rb.IsEmpty() {
		return 0, false
	}
	return b.rb.Minimum(), true
}

// Clone returns a deep copy.
func (b *Bitmap) Clone() *Bitmap {
	return &Bitmap{rb: b.rb.Clone()}
}

// Rows iterates the set in ascending order.
func (b *Bitmap) Rows() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		it := b.rb.Iterator()
		for it.HasNext() {
			if !yield(it.Next()) {
				return
			}
		}
	}
}
