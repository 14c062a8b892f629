package pk

import (
	"iter"
	"slices"

	"github.com/google/btree"

	"github.com/StereoDB/StereoDB/internal/hash"
)

// DefaultDegree is the B-tree degree used when none is configured.
const DefaultDegree = 32

type slot[K comparable] struct {
	key K
	row uint32
}

// bucket holds every key whose hash collides. Buckets reachable from a
// snapshot are shared, so slots is always replaced, never written in place.
type bucket[K comparable] struct {
	hash  uint64
	slots []slot[K]
}

func lessBucket[K comparable](a, b bucket[K]) bool {
	return a.hash < b.hash
}

// Index is a persistent map from primary key to row number.
type Index[K comparable] struct {
	tree   *btree.BTreeG[bucket[K]]
	hasher hash.Hasher[K]
	count  int
}

// NewIndex creates an empty index. degree <= 1 selects DefaultDegree.
func NewIndex[K comparable](degree int) *Index[K] {
	if degree <= 1 {
		degree = DefaultDegree
	}
	return &Index[K]{
		tree:   btree.NewG(degree, lessBucket[K]),
		hasher: hash.New[K](),
	}
}

// Clone returns a lazily copied index. The receiver must not be visible to
// concurrent readers while Clone runs.
func (x *Index[K]) Clone() *Index[K] {
	return &Index[K]{
		tree:   x.tree.Clone(),
		hasher: x.hasher,
		count:  x.count,
	}
}

// Len returns the number of keys.
func (x *Index[K]) Len() int {
	return x.count
}

// Get returns the row stored under key.
func (x *Index[K]) Get(key K) (uint32, bool) {
	b, ok := x.tree.Get(bucket[K]{hash: x.hasher.Sum(key)})
	if !ok {
		return 0, false
	}
	for _, s := range b.slots {
		if hash.Equal(s.key, key) {
			return s.row, true
		}
	}
	return 0, false
}

// Put stores row under key and returns the previous row, if any.
func (x *Index[K]) Put(key K, row uint32) (prev uint32, replaced bool) {
	h := x.hasher.Sum(key)
	b, ok := x.tree.Get(bucket[K]{hash: h})
	if !ok {
		x.tree.ReplaceOrInsert(bucket[K]{hash: h, slots: []slot[K]{{key: key, row: row}}})
		x.count++
		return 0, false
	}

	for i, s := range b.slots {
		if hash.Equal(s.key, key) {
			slots := slices.Clone(b.slots)
			slots[i].row = row
			x.tree.ReplaceOrInsert(bucket[K]{hash: h, slots: slots})
			return s.row, true
		}
	}

	// Clip forces append to reallocate instead of writing into a shared array.
	slots := append(slices.Clip(b.slots), slot[K]{key: key, row: row})
	x.tree.ReplaceOrInsert(bucket[K]{hash: h, slots: slots})
	x.count++
	return 0, false
}

// Delete removes key and returns the row it mapped to.
func (x *Index[K]) Delete(key K) (uint32, bool) {
	h := x.hasher.Sum(key)
	b, ok := x.tree.Get(bucket[K]{hash: h})
	if !ok {
		return 0, false
	}
	for i, s := range b.slots {
		if !hash.Equal(s.key, key) {
			continue
		}
		if len(b.slots) == 1 {
			x.tree.Delete(b)
		} else {
			slots := slices.Delete(slices.Clone(b.slots), i, i+1)
			x.tree.ReplaceOrInsert(bucket[K]{hash: h, slots: slots})
		}
		x.count--
		return s.row, true
	}
	return 0, false
}

// All iterates every key with its row. Order follows key hashes and is
// stable for a given instance.
func (x *Index[K]) All() iter.Seq2[K, uint32] {
	return func(yield func(K, uint32) bool) {
		x.tree.Ascend(func(b bucket[K]) bool {
			for _, s := range b.slots {
				if !yield(s.key, s.row) {
					return false
				}
			}
			return true
		})
	}
}

// Keys iterates every key.
func (x *Index[K]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range x.All() {
			if !yield(k) {
				return
			}
		}
	}
}
