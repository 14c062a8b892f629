package engine

import (
	"iter"
	"math"

	"github.com/StereoDB/StereoDB/internal/bitmap"
	"github.com/StereoDB/StereoDB/internal/cow"
	"github.com/StereoDB/StereoDB/internal/index"
	"github.com/StereoDB/StereoDB/internal/pk"
)

// TableState is the type-erased state of one table inside a snapshot.
type TableState interface {
	// Name returns the declared table name.
	Name() string
	// Len returns the number of stored entities.
	Len() int
	// IndexNames returns the attached index names in declaration order.
	IndexNames() []string
	// IndexKinds returns the attached index kinds, parallel to IndexNames.
	IndexKinds() []string
	// Mutations returns the number of Set and Remove calls applied since
	// the state was last published.
	Mutations() int

	fork() TableState
	settle()
	backfillJobs() int
	backfill(i int) (name string, rows int)
	ready()
}

// Table is the persistent state of a table of entities T keyed by K.
//
// Entity rows are dense uint32 numbers. A removed row goes back to the free
// list and is reused by the next insert.
type Table[K comparable, T any] struct {
	name   string
	id     func(T) K
	degree int

	owner *cow.Token

	keys      *pk.Index[K]
	rows      *pk.Rows[T]
	free      *bitmap.Bitmap
	freeOwner *cow.Token
	next      uint32

	indexes []index.Index[T]
	live    int // indexes[:live] are maintained on writes

	mutations int
}

// NewTable creates an empty table. id extracts the primary key of an entity.
func NewTable[K comparable, T any](name string, id func(T) K, degree int) *Table[K, T] {
	tok := cow.NewToken()
	return &Table[K, T]{
		name:      name,
		id:        id,
		degree:    degree,
		owner:     tok,
		keys:      pk.NewIndex[K](degree),
		rows:      pk.NewRows[T](tok),
		free:      bitmap.New(),
		freeOwner: tok,
	}
}

// Attach adds an empty index to the table. Open backfills it from the rows
// present at that point; until then writes do not reach it.
func (t *Table[K, T]) Attach(idx index.Index[T]) {
	t.indexes = append(t.indexes, idx)
}

func (t *Table[K, T]) Name() string { return t.name }
func (t *Table[K, T]) Len() int     { return t.rows.Len() }

func (t *Table[K, T]) IndexNames() []string {
	names := make([]string, len(t.indexes))
	for i, idx := range t.indexes {
		names[i] = idx.Name()
	}
	return names
}

func (t *Table[K, T]) IndexKinds() []string {
	kinds := make([]string, len(t.indexes))
	for i, idx := range t.indexes {
		kinds[i] = string(idx.Kind())
	}
	return kinds
}

func (t *Table[K, T]) Mutations() int { return t.mutations }

// Index returns the i-th attached index.
func (t *Table[K, T]) Index(i int) index.Index[T] {
	return t.indexes[i]
}

// Get returns the entity stored under id.
func (t *Table[K, T]) Get(id K) (T, bool) {
	row, ok := t.keys.Get(id)
	if !ok {
		var zero T
		return zero, false
	}
	return t.rows.Get(row)
}

// Contains reports whether an entity is stored under id.
func (t *Table[K, T]) Contains(id K) bool {
	_, ok := t.keys.Get(id)
	return ok
}

// Entity returns the entity stored at row.
func (t *Table[K, T]) Entity(row uint32) (T, bool) {
	return t.rows.Get(row)
}

// All iterates entities in ascending row order.
func (t *Table[K, T]) All() iter.Seq2[K, T] {
	return func(yield func(K, T) bool) {
		for _, e := range t.rows.All() {
			if !yield(t.id(e), e) {
				return
			}
		}
	}
}

// IDs iterates primary keys in ascending row order.
func (t *Table[K, T]) IDs() iter.Seq[K] {
	return func(yield func(K) bool) {
		for _, e := range t.rows.All() {
			if !yield(t.id(e)) {
				return
			}
		}
	}
}

// Set inserts e or replaces the entity with the same key. It reports
// whether an entity was replaced.
func (t *Table[K, T]) Set(e T) bool {
	id := t.id(e)
	t.mutations++

	if row, ok := t.keys.Get(id); ok {
		old, _ := t.rows.Put(row, e)
		for _, idx := range t.indexes[:t.live] {
			idx.Update(row, old, e)
		}
		return true
	}

	row := t.alloc()
	t.keys.Put(id, row)
	t.rows.Put(row, e)
	for _, idx := range t.indexes[:t.live] {
		idx.Insert(row, e)
	}
	return false
}

// Remove deletes the entity stored under id and reports whether one existed.
func (t *Table[K, T]) Remove(id K) bool {
	row, ok := t.keys.Delete(id)
	if !ok {
		return false
	}
	t.mutations++

	old, _ := t.rows.Clear(row)
	for _, idx := range t.indexes[:t.live] {
		idx.Delete(row, old)
	}
	t.writableFree().Add(row)
	return true
}

func (t *Table[K, T]) alloc() uint32 {
	if row, ok := t.free.Min(); ok {
		t.writableFree().Remove(row)
		return row
	}
	if t.next == math.MaxUint32 {
		panic(ErrTableFull)
	}
	row := t.next
	t.next++
	return row
}

func (t *Table[K, T]) writableFree() *bitmap.Bitmap {
	if !t.owner.Owns(t.freeOwner) {
		t.free = t.free.Clone()
		t.freeOwner = t.owner
	}
	return t.free
}

// fork returns a copy sharing all storage with t under a new edit token.
// t must not be written afterwards.
func (t *Table[K, T]) fork() TableState {
	tok := cow.NewToken()
	indexes := make([]index.Index[T], len(t.indexes))
	for i, idx := range t.indexes {
		indexes[i] = idx.Fork(tok)
	}
	return &Table[K, T]{
		name:      t.name,
		id:        t.id,
		degree:    t.degree,
		owner:     tok,
		keys:      t.keys.Clone(),
		rows:      t.rows.Fork(tok),
		free:      t.free,
		freeOwner: t.freeOwner,
		next:      t.next,
		indexes:   indexes,
		live:      t.live,
		mutations: t.mutations,
	}
}

func (t *Table[K, T]) settle() { t.mutations = 0 }

func (t *Table[K, T]) backfillJobs() int { return len(t.indexes) - t.live }

// backfill fills the i-th pending index. Distinct i may run concurrently.
func (t *Table[K, T]) backfill(i int) (string, int) {
	idx := t.indexes[t.live+i]
	return idx.Name(), index.Backfill(idx, t.rows.All())
}

func (t *Table[K, T]) ready() { t.live = len(t.indexes) }
