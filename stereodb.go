package stereodb

import (
	"context"
	"time"

	"github.com/StereoDB/StereoDB/internal/engine"
	"github.com/StereoDB/StereoDB/internal/resource"
)

// DB is an in-memory transactional store over the schema S.
//
// Any number of read transactions run concurrently with each other and with
// the single active write transaction. DB is safe for concurrent use.
type DB[S any] struct {
	schema  S
	owner   *Builder
	eng     *engine.Engine
	logger  *Logger
	metrics MetricsCollector
}

// New runs define exactly once to declare tables and indexes, seals the
// schema and opens an empty database over it. The value define returns is
// handed to every transaction through Schema().
//
//	type Schema struct {
//	    Books  *stereodb.Table[int, Book]
//	    Orders *stereodb.Table[uuid.UUID, Order]
//	    ByBook *stereodb.ValueIndex[int, uuid.UUID, Order]
//	}
//
//	db, err := stereodb.New(func(b *stereodb.Builder) Schema {
//	    orders := stereodb.NewTable[uuid.UUID, Order](b, "orders")
//	    return Schema{
//	        Books:  stereodb.NewTable[int, Book](b, "books"),
//	        Orders: orders,
//	        ByBook: stereodb.AddValueIndex(orders, "book_id", func(o Order) int { return o.BookID }),
//	    }
//	})
func New[S any](define func(*Builder) S, opts ...Option) (*DB[S], error) {
	o := applyOptions(opts)
	ctx := context.Background()

	if define == nil {
		err := &SchemaError{Reason: "nil schema definition"}
		o.logger.LogOpen(ctx, 0, 0, err)
		return nil, err
	}

	b := &Builder{}
	schema := func() S {
		defer b.seal()
		return define(b)
	}()

	if err := b.validate(); err != nil {
		o.logger.LogOpen(ctx, 0, 0, err)
		return nil, err
	}

	tables := make([]engine.TableState, len(b.tables))
	indexes := 0
	for i, t := range b.tables {
		tables[i] = t.build(o.btreeDegree)
		indexes += t.indexCount()
	}

	rc := resource.NewController(resource.Config{
		WriteRateLimit:       o.writeRateLimit,
		WriteBurst:           o.writeBurst,
		MaxBackgroundWorkers: int64(o.backfillWorkers),
	})

	eng, err := engine.Open(ctx, tables,
		engine.WithLogger(o.logger.Logger),
		engine.WithResourceController(rc),
		engine.WithMetricsObserver(engineObserver{metrics: o.metricsCollector, logger: o.logger}),
	)
	if err != nil {
		o.logger.LogOpen(ctx, 0, 0, err)
		return nil, err
	}

	o.logger.LogOpen(ctx, len(tables), indexes, nil)

	return &DB[S]{
		schema:  schema,
		owner:   b,
		eng:     eng,
		logger:  o.logger,
		metrics: o.metricsCollector,
	}, nil
}

// Schema returns the value the schema definition returned.
func (db *DB[S]) Schema() S {
	return db.schema
}

// ReadTransaction runs fn against the latest committed snapshot. fn sees
// the same state for its whole run, whatever writers commit meanwhile. The
// error fn returns is passed through unchanged.
func (db *DB[S]) ReadTransaction(fn func(tx *ReadTx[S]) error) error {
	if db.eng.Closed() {
		return ErrClosed
	}

	start := time.Now()
	st := &txState{owner: db.owner, snap: db.eng.Snapshot()}
	defer st.done.Store(true)

	err := fn(&ReadTx[S]{st: st, schema: db.schema})
	db.metrics.RecordRead(time.Since(start), err)
	return err
}

// WriteTransaction runs fn as the only active writer. If fn returns nil its
// writes are published atomically; otherwise, or if fn panics, none of them
// are. The error fn returns is passed through unchanged.
func (db *DB[S]) WriteTransaction(fn func(tx *WriteTx[S]) error) error {
	return db.WriteTransactionContext(context.Background(), fn)
}

// WriteTransactionContext is WriteTransaction with a context that bounds
// the wait for write admission. Once fn starts it runs to completion. If ctx
// ends first the returned error wraps both ErrWriteAdmission and ctx.Err().
func (db *DB[S]) WriteTransactionContext(ctx context.Context, fn func(tx *WriteTx[S]) error) error {
	txn, err := db.eng.Begin(ctx)
	if err != nil {
		return translateError(err)
	}

	start := time.Now()
	st := &txState{owner: db.owner, txn: txn}
	finished := false
	defer func() {
		st.done.Store(true)
		if !finished {
			// fn panicked.
			_ = txn.Rollback()
			db.logger.LogRollback(ctx, txn.Version(), ErrWritePanicked)
			db.metrics.RecordWrite(time.Since(start), 0, ErrWritePanicked)
		}
	}()

	if err := fn(&WriteTx[S]{st: st, schema: db.schema}); err != nil {
		finished = true
		st.done.Store(true)
		_ = txn.Rollback()
		db.logger.LogRollback(ctx, txn.Version(), err)
		db.metrics.RecordWrite(time.Since(start), 0, err)
		return err
	}

	finished = true
	st.done.Store(true)
	n, err := txn.Commit()
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	version := txn.Version()
	if n > 0 {
		version++
	}
	db.logger.LogCommit(ctx, version, n, elapsed)
	db.metrics.RecordWrite(elapsed, n, nil)
	return nil
}

// Read runs fn in a read transaction and returns its result.
func Read[S, T any](db *DB[S], fn func(tx *ReadTx[S]) (T, error)) (T, error) {
	var out T
	err := db.ReadTransaction(func(tx *ReadTx[S]) error {
		var err error
		out, err = fn(tx)
		return err
	})
	return out, err
}

// Write runs fn in a write transaction and returns its result. The result
// is returned even when fn fails.
func Write[S, T any](db *DB[S], fn func(tx *WriteTx[S]) (T, error)) (T, error) {
	var out T
	err := db.WriteTransaction(func(tx *WriteTx[S]) error {
		var err error
		out, err = fn(tx)
		return err
	})
	return out, err
}

// Close stops the database from starting new transactions. Transactions
// already running finish normally. Closing twice is a no-op.
func (db *DB[S]) Close() error {
	if err := db.eng.Close(); err != nil {
		return nil
	}
	db.logger.LogClose(context.Background(), db.eng.Snapshot().Version())
	return nil
}

// TableStats describes one table.
type TableStats struct {
	Name    string
	Rows    int
	Indexes []string
	// IndexKinds holds "value" or "range_scan" for each index in Indexes.
	IndexKinds []string
}

// Stats describes the latest committed state.
type Stats struct {
	Version         uint64
	Tables          []TableStats
	CommittedWrites uint64
	AbortedWrites   uint64
	WaitingWrites   int64
}

// Stats returns statistics for the latest committed snapshot.
func (db *DB[S]) Stats() Stats {
	es := db.eng.Stats()
	stats := Stats{
		Version:         es.Version,
		Tables:          make([]TableStats, len(es.Tables)),
		CommittedWrites: es.Committed,
		AbortedWrites:   es.Aborted,
		WaitingWrites:   es.WaitingWriters,
	}
	for i, t := range es.Tables {
		stats.Tables[i] = TableStats(t)
	}
	return stats
}
