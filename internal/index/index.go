package index

import (
	"iter"

	"github.com/StereoDB/StereoDB/internal/cow"
)

// Kind names an index implementation.
type Kind string

const (
	KindValue     Kind = "value"
	KindRangeScan Kind = "range_scan"
)

// Index is the persistent state of one secondary index over entities of
// type T. Implementations are not safe for concurrent writes; readers may
// use any instance that is no longer written.
type Index[T any] interface {
	// Name returns the declared index name.
	Name() string
	// Kind returns the index implementation.
	Kind() Kind
	// Len returns the number of indexed rows.
	Len() int
	// Fork returns an editable copy for the session tok. The receiver must
	// not be written afterwards.
	Fork(tok *cow.Token) Index[T]
	// Insert indexes a new row.
	Insert(row uint32, v T)
	// Update re-indexes row after its entity changed from old to v.
	Update(row uint32, old, v T)
	// Delete retracts row, whose current entity is old.
	Delete(row uint32, old T)
}

// Backfill indexes every row produced by rows and returns how many were added.
func Backfill[T any](idx Index[T], rows iter.Seq2[uint32, T]) int {
	n := 0
	for row, v := range rows {
		idx.Insert(row, v)
		n++
	}
	return n
}
