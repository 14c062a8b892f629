package stereodb

import (
	"cmp"
	"errors"
	"sync/atomic"

	"github.com/StereoDB/StereoDB/internal/cow"
	"github.com/StereoDB/StereoDB/internal/engine"
	"github.com/StereoDB/StereoDB/internal/index"
)

// Entity is a value stored in a table, keyed by the identifier it returns.
type Entity[TId comparable] interface {
	ID() TId
}

// Builder collects table and index declarations while New runs the schema
// definition. It is sealed once New returns.
type Builder struct {
	sealed atomic.Bool
	tables []tableDecl
}

type tableDecl interface {
	tableName() string
	validate() []error
	indexCount() int
	build(degree int) engine.TableState
}

type indexDecl[TEntity any] interface {
	indexName() string
	hasProjection() bool
	build(degree int) index.Index[TEntity]
}

func (b *Builder) checkOpen() {
	if b == nil {
		panic(&SchemaError{Reason: "nil builder"})
	}
	if b.sealed.Load() {
		panic(ErrSchemaSealed)
	}
}

func (b *Builder) seal() {
	b.sealed.Store(true)
}

func (b *Builder) validate() error {
	var errs []error
	seen := make(map[string]bool, len(b.tables))
	for _, t := range b.tables {
		name := t.tableName()
		switch {
		case name == "":
			errs = append(errs, &SchemaError{Reason: "empty table name"})
		case seen[name]:
			errs = append(errs, &SchemaError{Table: name, Reason: "duplicate table name"})
		}
		seen[name] = true
		errs = append(errs, t.validate()...)
	}
	return errors.Join(errs...)
}

// Table declares a table of entities keyed by TId.
type Table[TId comparable, TEntity Entity[TId]] struct {
	owner   *Builder
	name    string
	slot    int
	indexes []indexDecl[TEntity]
	seed    []TEntity
}

// NewTable declares a table on b. It panics with ErrSchemaSealed if New has
// already returned.
func NewTable[TId comparable, TEntity Entity[TId]](b *Builder, name string) *Table[TId, TEntity] {
	b.checkOpen()
	t := &Table[TId, TEntity]{
		owner: b,
		name:  name,
		slot:  len(b.tables),
	}
	b.tables = append(b.tables, t)
	return t
}

// Name returns the declared table name.
func (t *Table[TId, TEntity]) Name() string { return t.name }

// Seed adds entities the table holds when the database opens. Every index
// declared on the table is backfilled from them before the first
// transaction runs. A later entity replaces an earlier one with the same
// identifier. Seed panics with ErrSchemaSealed if New has already returned.
func (t *Table[TId, TEntity]) Seed(entities ...TEntity) {
	if t == nil {
		panic(&SchemaError{Reason: "rows seeded on a nil table"})
	}
	t.owner.checkOpen()
	t.seed = append(t.seed, entities...)
}

func (t *Table[TId, TEntity]) tableName() string { return t.name }
func (t *Table[TId, TEntity]) indexCount() int   { return len(t.indexes) }

func (t *Table[TId, TEntity]) validate() []error {
	var errs []error
	seen := make(map[string]bool, len(t.indexes))
	for _, ix := range t.indexes {
		name := ix.indexName()
		switch {
		case name == "":
			errs = append(errs, &SchemaError{Table: t.name, Reason: "empty index name"})
		case seen[name]:
			errs = append(errs, &SchemaError{Table: t.name, Index: name, Reason: "duplicate index name"})
		}
		seen[name] = true
		if !ix.hasProjection() {
			errs = append(errs, &SchemaError{Table: t.name, Index: name, Reason: "nil projection"})
		}
	}
	return errs
}

func (t *Table[TId, TEntity]) build(degree int) engine.TableState {
	et := engine.NewTable(t.name, func(e TEntity) TId { return e.ID() }, degree)
	for _, e := range t.seed {
		et.Set(e)
	}
	t.seed = nil
	for _, ix := range t.indexes {
		et.Attach(ix.build(degree))
	}
	return et
}

func (t *Table[TId, TEntity]) addIndex(ix indexDecl[TEntity]) int {
	if t == nil {
		panic(&SchemaError{Reason: "index declared on a nil table"})
	}
	t.owner.checkOpen()
	t.indexes = append(t.indexes, ix)
	return len(t.indexes) - 1
}

// ValueIndex declares a non-unique equality index over a projected key.
type ValueIndex[TKey comparable, TId comparable, TEntity Entity[TId]] struct {
	table   *Table[TId, TEntity]
	name    string
	pos     int
	project func(TEntity) TKey
}

// AddValueIndex declares a value index on table. project must be a pure
// function of the entity.
func AddValueIndex[TKey comparable, TId comparable, TEntity Entity[TId]](table *Table[TId, TEntity], name string, project func(TEntity) TKey) *ValueIndex[TKey, TId, TEntity] {
	ix := &ValueIndex[TKey, TId, TEntity]{table: table, name: name, project: project}
	ix.pos = table.addIndex(ix)
	return ix
}

// Name returns the declared index name.
func (ix *ValueIndex[TKey, TId, TEntity]) Name() string { return ix.name }

// Table returns the table the index is declared on.
func (ix *ValueIndex[TKey, TId, TEntity]) Table() *Table[TId, TEntity] { return ix.table }

func (ix *ValueIndex[TKey, TId, TEntity]) indexName() string   { return ix.name }
func (ix *ValueIndex[TKey, TId, TEntity]) hasProjection() bool { return ix.project != nil }

func (ix *ValueIndex[TKey, TId, TEntity]) build(degree int) index.Index[TEntity] {
	return index.NewValue(ix.name, ix.project, degree, cow.NewToken())
}

// RangeScanIndex declares an ordered index over a projected key that
// supports closed-interval scans.
type RangeScanIndex[TKey cmp.Ordered, TId comparable, TEntity Entity[TId]] struct {
	table   *Table[TId, TEntity]
	name    string
	pos     int
	project func(TEntity) TKey
}

// AddRangeScanIndex declares a range-scan index on table. project must be a
// pure function of the entity.
func AddRangeScanIndex[TKey cmp.Ordered, TId comparable, TEntity Entity[TId]](table *Table[TId, TEntity], name string, project func(TEntity) TKey) *RangeScanIndex[TKey, TId, TEntity] {
	ix := &RangeScanIndex[TKey, TId, TEntity]{table: table, name: name, project: project}
	ix.pos = table.addIndex(ix)
	return ix
}

// Name returns the declared index name.
func (ix *RangeScanIndex[TKey, TId, TEntity]) Name() string { return ix.name }

// Table returns the table the index is declared on.
func (ix *RangeScanIndex[TKey, TId, TEntity]) Table() *Table[TId, TEntity] { return ix.table }

func (ix *RangeScanIndex[TKey, TId, TEntity]) indexName() string   { return ix.name }
func (ix *RangeScanIndex[TKey, TId, TEntity]) hasProjection() bool { return ix.project != nil }

func (ix *RangeScanIndex[TKey, TId, TEntity]) build(degree int) index.Index[TEntity] {
	return index.NewRangeScan(ix.name, ix.project, degree)
}
