package index

import (
	"cmp"
	"iter"

	"github.com/google/btree"

	"github.com/StereoDB/StereoDB/internal/cow"
)

type rangeItem[K cmp.Ordered] struct {
	key K
	row uint32
}

func lessRangeItem[K cmp.Ordered](a, b rangeItem[K]) bool {
	if c := cmp.Compare(a.key, b.key); c != 0 {
		return c < 0
	}
	return a.row < b.row
}

// RangeScan is an ordered index supporting closed-interval key lookups.
// Equal keys are ordered by row.
type RangeScan[T any, K cmp.Ordered] struct {
	name    string
	project func(T) K
	tree    *btree.BTreeG[rangeItem[K]]
}

// NewRangeScan creates an empty range-scan index. The B-tree tracks node
// ownership itself, so no edit token is needed.
func NewRangeScan[T any, K cmp.Ordered](name string, project func(T) K, degree int) *RangeScan[T, K] {
	if degree <= 1 {
		degree = 32
	}
	return &RangeScan[T, K]{
		name:    name,
		project: project,
		tree:    btree.NewG(degree, lessRangeItem[K]),
	}
}

func (r *RangeScan[T, K]) Name() string { return r.name }
func (r *RangeScan[T, K]) Kind() Kind   { return KindRangeScan }
func (r *RangeScan[T, K]) Len() int     { return r.tree.Len() }

func (r *RangeScan[T, K]) Fork(_ *cow.Token) Index[T] {
	return &RangeScan[T, K]{
		name:    r.name,
		project: r.project,
		tree:    r.tree.Clone(),
	}
}

func (r *RangeScan[T, K]) Insert(row uint32, e T) {
	r.tree.ReplaceOrInsert(rangeItem[K]{key: r.project(e), row: row})
}

func (r *RangeScan[T, K]) Update(row uint32, old, e T) {
	oldKey, newKey := r.project(old), r.project(e)
	if cmp.Compare(oldKey, newKey) == 0 {
		return
	}
	r.tree.Delete(rangeItem[K]{key: oldKey, row: row})
	r.tree.ReplaceOrInsert(rangeItem[K]{key: newKey, row: row})
}

func (r *RangeScan[T, K]) Delete(row uint32, old T) {
	r.tree.Delete(rangeItem[K]{key: r.project(old), row: row})
}

// Range iterates rows whose key k satisfies low <= k <= high, ascending by
// key. It yields nothing when low > high.
func (r *RangeScan[T, K]) Range(low, high K) iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		if cmp.Compare(low, high) > 0 {
			return
		}
		r.tree.AscendGreaterOrEqual(rangeItem[K]{key: low}, func(it rangeItem[K]) bool {
			if cmp.Compare(it.key, high) > 0 {
				return false
			}
			return yield(it.row)
		})
	}
}

// Min returns the row with the smallest key.
func (r *RangeScan[T, K]) Min() (row uint32, key K, ok bool) {
	it, ok := r.tree.Min()
	return it.row, it.key, ok
}

// Max returns the row with the largest key.
func (r *RangeScan[T, K]) Max() (row uint32, key K, ok bool) {
	it, ok := r.tree.Max()
	return it.row, it.key, ok
}
