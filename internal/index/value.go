package index

import (
	"iter"
	"slices"

	"github.com/google/btree"

	"github.com/StereoDB/StereoDB/internal/bitmap"
	"github.com/StereoDB/StereoDB/internal/cow"
	"github.com/StereoDB/StereoDB/internal/hash"
)

type posting[K comparable] struct {
	key   K
	rows  *bitmap.Bitmap
	owner *cow.Token
}

type valueBucket[K comparable] struct {
	hash     uint64
	postings []posting[K]
}

func lessValueBucket[K comparable](a, b valueBucket[K]) bool {
	return a.hash < b.hash
}

// Value is a non-unique equality index from a projected key to rows.
type Value[T any, K comparable] struct {
	name    string
	project func(T) K
	tree    *btree.BTreeG[valueBucket[K]]
	hasher  hash.Hasher[K]
	owner   *cow.Token
	rows    int
	keys    int
}

// NewValue creates an empty value index editable by tok.
func NewValue[T any, K comparable](name string, project func(T) K, degree int, tok *cow.Token) *Value[T, K] {
	if degree <= 1 {
		degree = 32
	}
	return &Value[T, K]{
		name:    name,
		project: project,
		tree:    btree.NewG(degree, lessValueBucket[K]),
		hasher:  hash.New[K](),
		owner:   tok,
	}
}

func (v *Value[T, K]) Name() string { return v.name }
func (v *Value[T, K]) Kind() Kind   { return KindValue }
func (v *Value[T, K]) Len() int     { return v.rows }

// Keys returns the number of distinct keys.
func (v *Value[T, K]) Keys() int { return v.keys }

func (v *Value[T, K]) Fork(tok *cow.Token) Index[T] {
	return &Value[T, K]{
		name:    v.name,
		project: v.project,
		tree:    v.tree.Clone(),
		hasher:  v.hasher,
		owner:   tok,
		rows:    v.rows,
		keys:    v.keys,
	}
}

func (v *Value[T, K]) Insert(row uint32, e T) {
	v.add(v.project(e), row)
}

func (v *Value[T, K]) Update(row uint32, old, e T) {
	oldKey, newKey := v.project(old), v.project(e)
	if hash.Equal(oldKey, newKey) {
		return
	}
	v.remove(oldKey, row)
	v.add(newKey, row)
}

func (v *Value[T, K]) Delete(row uint32, old T) {
	v.remove(v.project(old), row)
}

func (v *Value[T, K]) find(key K) (valueBucket[K], int, bool) {
	b, ok := v.tree.Get(valueBucket[K]{hash: v.hasher.Sum(key)})
	if !ok {
		return b, -1, false
	}
	for i := range b.postings {
		if hash.Equal(b.postings[i].key, key) {
			return b, i, true
		}
	}
	return b, -1, true
}

func (v *Value[T, K]) add(key K, row uint32) {
	b, i, ok := v.find(key)
	switch {
	case !ok:
		v.tree.ReplaceOrInsert(valueBucket[K]{
			hash:     v.hasher.Sum(key),
			postings: []posting[K]{{key: key, rows: bitmap.Of(row), owner: v.owner}},
		})
		v.keys++
	case i < 0:
		p := posting[K]{key: key, rows: bitmap.Of(row), owner: v.owner}
		b.postings = append(slices.Clip(b.postings), p)
		v.tree.ReplaceOrInsert(b)
		v.keys++
	default:
		p := b.postings[i]
		if v.owner.Owns(p.owner) {
			if !p.rows.Add(row) {
				return
			}
			break
		}
		if p.rows.Contains(row) {
			return
		}
		rows := p.rows.Clone()
		rows.Add(row)
		b.postings = slices.Clone(b.postings)
		b.postings[i] = posting[K]{key: key, rows: rows, owner: v.owner}
		v.tree.ReplaceOrInsert(b)
	}
	v.rows++
}

func (v *Value[T, K]) remove(key K, row uint32) {
	b, i, ok := v.find(key)
	if !ok || i < 0 {
		return
	}
	p := b.postings[i]
	if !p.rows.Contains(row) {
		return
	}
	v.rows--

	if p.rows.Cardinality() == 1 {
		v.keys--
		if len(b.postings) == 1 {
			v.tree.Delete(b)
			return
		}
		b.postings = slices.Delete(slices.Clone(b.postings), i, i+1)
		v.tree.ReplaceOrInsert(b)
		return
	}

	if v.owner.Owns(p.owner) {
		p.rows.Remove(row)
		return
	}
	rows := p.rows.Clone()
	rows.Remove(row)
	b.postings = slices.Clone(b.postings)
	b.postings[i] = posting[K]{key: key, rows: rows, owner: v.owner}
	v.tree.ReplaceOrInsert(b)
}

// Rows iterates the rows indexed under key in ascending order.
func (v *Value[T, K]) Rows(key K) iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		b, i, ok := v.find(key)
		if !ok || i < 0 {
			return
		}
		for row := range b.postings[i].rows.Rows() {
			if !yield(row) {
				return
			}
		}
	}
}

// Count returns the number of rows indexed under key.
func (v *Value[T, K]) Count(key K) int {
	b, i, ok := v.find(key)
	if !ok || i < 0 {
		return 0
	}
	return b.postings[i].rows.Cardinality()
}
