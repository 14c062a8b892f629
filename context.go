package stereodb

import (
	"cmp"
	"iter"
	"sync/atomic"

	"github.com/StereoDB/StereoDB/internal/engine"
	"github.com/StereoDB/StereoDB/internal/index"
)

// txState is shared by a transaction context and every view derived from it.
type txState struct {
	owner *Builder
	snap  *engine.Snapshot // read transactions
	txn   *engine.Txn      // write transactions
	done  atomic.Bool
}

func (s *txState) check() {
	if s.done.Load() {
		panic(ErrTxDone)
	}
}

func (s *txState) checkOwner(b *Builder) {
	if b != s.owner {
		panic(ErrForeignHandle)
	}
}

// table returns the current state of a table for point reads.
func (s *txState) table(slot int) engine.TableState {
	s.check()
	if s.txn != nil {
		return s.txn.Table(slot)
	}
	return s.snap.Table(slot)
}

// frozen returns a state of a table that later writes do not change.
func (s *txState) frozen(slot int) engine.TableState {
	s.check()
	if s.txn != nil {
		return s.txn.Freeze(slot)
	}
	return s.snap.Table(slot)
}

func (s *txState) writable(slot int) engine.TableState {
	s.check()
	return s.txn.Writable(slot)
}

func (s *txState) version() uint64 {
	s.check()
	if s.txn != nil {
		return s.txn.Version()
	}
	return s.snap.Version()
}

// ReadContext is satisfied by both transaction kinds and grants read access.
type ReadContext interface {
	readState() *txState
}

// WriteContext is satisfied only by write transactions and grants write
// access.
type WriteContext interface {
	ReadContext
	writeState() *txState
}

// ReadTx is the context of a read transaction. It observes one snapshot for
// its whole lifetime.
type ReadTx[S any] struct {
	st     *txState
	schema S
}

// Schema returns the value the schema definition returned.
func (tx *ReadTx[S]) Schema() S {
	tx.st.check()
	return tx.schema
}

// Version returns the version of the snapshot being read.
func (tx *ReadTx[S]) Version() uint64 { return tx.st.version() }

func (tx *ReadTx[S]) readState() *txState { return tx.st }

// WriteTx is the context of a write transaction. Reads observe the
// transaction's own writes.
type WriteTx[S any] struct {
	st     *txState
	schema S
}

// Schema returns the value the schema definition returned.
func (tx *WriteTx[S]) Schema() S {
	tx.st.check()
	return tx.schema
}

// Version returns the version the transaction started from.
func (tx *WriteTx[S]) Version() uint64 { return tx.st.version() }

func (tx *WriteTx[S]) readState() *txState  { return tx.st }
func (tx *WriteTx[S]) writeState() *txState { return tx.st }

// TableReader is a read view of a table bound to one transaction.
type TableReader[TId comparable, TEntity Entity[TId]] struct {
	st   *txState
	slot int
}

// UseTable binds table to ctx for reading.
func UseTable[TId comparable, TEntity Entity[TId]](ctx ReadContext, table *Table[TId, TEntity]) *TableReader[TId, TEntity] {
	st := ctx.readState()
	st.check()
	st.checkOwner(table.owner)
	return &TableReader[TId, TEntity]{st: st, slot: table.slot}
}

func (r *TableReader[TId, TEntity]) state() *engine.Table[TId, TEntity] {
	return r.st.table(r.slot).(*engine.Table[TId, TEntity])
}

func (r *TableReader[TId, TEntity]) frozen() *engine.Table[TId, TEntity] {
	return r.st.frozen(r.slot).(*engine.Table[TId, TEntity])
}

// TryGet returns the entity stored under id.
func (r *TableReader[TId, TEntity]) TryGet(id TId) (TEntity, bool) {
	return r.state().Get(id)
}

// Contains reports whether an entity is stored under id.
func (r *TableReader[TId, TEntity]) Contains(id TId) bool {
	return r.state().Contains(id)
}

// Len returns the number of entities.
func (r *TableReader[TId, TEntity]) Len() int {
	return r.state().Len()
}

// GetIDs enumerates the identifiers present when it is called. Writes made
// later in the same transaction are not observed by the sequence.
func (r *TableReader[TId, TEntity]) GetIDs() iter.Seq[TId] {
	t := r.frozen()
	return func(yield func(TId) bool) {
		r.st.check()
		for id := range t.IDs() {
			if !yield(id) {
				return
			}
		}
	}
}

// All enumerates the entities present when it is called, like GetIDs.
func (r *TableReader[TId, TEntity]) All() iter.Seq2[TId, TEntity] {
	t := r.frozen()
	return func(yield func(TId, TEntity) bool) {
		r.st.check()
		for id, e := range t.All() {
			if !yield(id, e) {
				return
			}
		}
	}
}

// TableWriter is a read-write view of a table bound to a write transaction.
type TableWriter[TId comparable, TEntity Entity[TId]] struct {
	TableReader[TId, TEntity]
}

// UseMutableTable binds table to ctx for reading and writing.
func UseMutableTable[TId comparable, TEntity Entity[TId]](ctx WriteContext, table *Table[TId, TEntity]) *TableWriter[TId, TEntity] {
	st := ctx.writeState()
	st.check()
	st.checkOwner(table.owner)
	return &TableWriter[TId, TEntity]{TableReader[TId, TEntity]{st: st, slot: table.slot}}
}

func (w *TableWriter[TId, TEntity]) writable() *engine.Table[TId, TEntity] {
	return w.st.writable(w.slot).(*engine.Table[TId, TEntity])
}

// Set inserts e, or replaces the entity with the same identifier, and
// updates every index of the table.
func (w *TableWriter[TId, TEntity]) Set(e TEntity) {
	w.writable().Set(e)
}

// Remove deletes the entity stored under id from the table and its indexes.
// It reports whether an entity was removed.
func (w *TableWriter[TId, TEntity]) Remove(id TId) bool {
	return w.writable().Remove(id)
}

// ValueIndexReader is a view of a value index bound to one transaction.
type ValueIndexReader[TKey comparable, TId comparable, TEntity Entity[TId]] struct {
	st   *txState
	slot int
	pos  int
}

// UseValueIndex binds ix to ctx.
func UseValueIndex[TKey comparable, TId comparable, TEntity Entity[TId]](ctx ReadContext, ix *ValueIndex[TKey, TId, TEntity]) *ValueIndexReader[TKey, TId, TEntity] {
	st := ctx.readState()
	st.check()
	st.checkOwner(ix.table.owner)
	return &ValueIndexReader[TKey, TId, TEntity]{st: st, slot: ix.table.slot, pos: ix.pos}
}

func resolveValue[TKey comparable, TId comparable, TEntity Entity[TId]](s engine.TableState, pos int) (*engine.Table[TId, TEntity], *index.Value[TEntity, TKey]) {
	t := s.(*engine.Table[TId, TEntity])
	return t, t.Index(pos).(*index.Value[TEntity, TKey])
}

// Find enumerates the entities indexed under key in ascending row order.
func (r *ValueIndexReader[TKey, TId, TEntity]) Find(key TKey) iter.Seq[TEntity] {
	t, ix := resolveValue[TKey, TId, TEntity](r.st.frozen(r.slot), r.pos)
	return func(yield func(TEntity) bool) {
		r.st.check()
		for row := range ix.Rows(key) {
			e, _ := t.Entity(row)
			if !yield(e) {
				return
			}
		}
	}
}

// FindIDs enumerates the identifiers of the entities indexed under key.
func (r *ValueIndexReader[TKey, TId, TEntity]) FindIDs(key TKey) iter.Seq[TId] {
	entities := r.Find(key)
	return func(yield func(TId) bool) {
		for e := range entities {
			if !yield(e.ID()) {
				return
			}
		}
	}
}

// Count returns the number of entities indexed under key.
func (r *ValueIndexReader[TKey, TId, TEntity]) Count(key TKey) int {
	_, ix := resolveValue[TKey, TId, TEntity](r.st.table(r.slot), r.pos)
	return ix.Count(key)
}

// RangeScanReader is a view of a range-scan index bound to one transaction.
type RangeScanReader[TKey cmp.Ordered, TId comparable, TEntity Entity[TId]] struct {
	st   *txState
	slot int
	pos  int
}

// UseRangeScanIndex binds ix to ctx.
func UseRangeScanIndex[TKey cmp.Ordered, TId comparable, TEntity Entity[TId]](ctx ReadContext, ix *RangeScanIndex[TKey, TId, TEntity]) *RangeScanReader[TKey, TId, TEntity] {
	st := ctx.readState()
	st.check()
	st.checkOwner(ix.table.owner)
	return &RangeScanReader[TKey, TId, TEntity]{st: st, slot: ix.table.slot, pos: ix.pos}
}

func resolveRange[TKey cmp.Ordered, TId comparable, TEntity Entity[TId]](s engine.TableState, pos int) (*engine.Table[TId, TEntity], *index.RangeScan[TEntity, TKey]) {
	t := s.(*engine.Table[TId, TEntity])
	return t, t.Index(pos).(*index.RangeScan[TEntity, TKey])
}

// SelectRange enumerates entities whose key k satisfies low <= k <= high,
// ascending by key. It is empty when low > high.
func (r *RangeScanReader[TKey, TId, TEntity]) SelectRange(low, high TKey) iter.Seq[TEntity] {
	t, ix := resolveRange[TKey, TId, TEntity](r.st.frozen(r.slot), r.pos)
	return func(yield func(TEntity) bool) {
		r.st.check()
		for row := range ix.Range(low, high) {
			e, _ := t.Entity(row)
			if !yield(e) {
				return
			}
		}
	}
}

// SelectRangeIDs enumerates the identifiers SelectRange would yield.
func (r *RangeScanReader[TKey, TId, TEntity]) SelectRangeIDs(low, high TKey) iter.Seq[TId] {
	entities := r.SelectRange(low, high)
	return func(yield func(TId) bool) {
		for e := range entities {
			if !yield(e.ID()) {
				return
			}
		}
	}
}

// Min returns the entity with the smallest key.
func (r *RangeScanReader[TKey, TId, TEntity]) Min() (TEntity, bool) {
	t, ix := resolveRange[TKey, TId, TEntity](r.st.table(r.slot), r.pos)
	row, _, ok := ix.Min()
	if !ok {
		var zero TEntity
		return zero, false
	}
	return t.Entity(row)
}

// Max returns the entity with the largest key.
func (r *RangeScanReader[TKey, TId, TEntity]) Max() (TEntity, bool) {
	t, ix := resolveRange[TKey, TId, TEntity](r.st.table(r.slot), r.pos)
	row, _, ok := ix.Max()
	if !ok {
		var zero TEntity
		return zero, false
	}
	return t.Entity(row)
}
