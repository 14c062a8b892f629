package engine

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/StereoDB/StereoDB/internal/resource"
)

// Engine publishes snapshots to readers and runs write transactions one at
// a time.
type Engine struct {
	current atomic.Pointer[Snapshot]

	// base holds the writer's private copy of every table. It is never
	// published; only the holder of the writer slot touches it.
	base *Snapshot

	resourceController *resource.Controller
	metrics            MetricsObserver
	logger             *slog.Logger

	committed atomic.Uint64
	aborted   atomic.Uint64
	closed    atomic.Bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for the engine.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithResourceController sets the resource controller for the engine.
func WithResourceController(rc *resource.Controller) Option {
	return func(e *Engine) {
		if rc != nil {
			e.resourceController = rc
		}
	}
}

// WithMetricsObserver sets the metrics observer for the engine.
func WithMetricsObserver(observer MetricsObserver) Option {
	return func(e *Engine) {
		if observer != nil {
			e.metrics = observer
		}
	}
}

// Open builds an engine over tables, backfills every attached index and
// publishes the initial snapshot at version 0. The caller must not use
// tables afterwards.
func Open(ctx context.Context, tables []TableState, opts ...Option) (*Engine, error) {
	e := &Engine{
		resourceController: resource.NewController(resource.Config{}),
		metrics:            NoopMetricsObserver{},
		logger:             slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := e.resourceController.AcquireWriterSlot(ctx); err != nil {
		return nil, err
	}
	defer e.resourceController.ReleaseWriter()

	if err := e.backfill(ctx, tables); err != nil {
		return nil, err
	}

	for _, t := range tables {
		t.ready()
		t.settle()
	}

	initial := newSnapshot(0, tables)
	e.base = initial.fork()
	e.current.Store(initial)
	e.logger.Debug("snapshot published", "version", 0, "tables", len(tables))

	return e, nil
}

func (e *Engine) backfill(ctx context.Context, tables []TableState) error {
	g, gctx := errgroup.WithContext(ctx)

jobs:
	for _, t := range tables {
		for i := range t.backfillJobs() {
			if err := e.resourceController.AcquireBackground(gctx); err != nil {
				break jobs
			}
			g.Go(func() error {
				defer e.resourceController.ReleaseBackground()

				start := time.Now()
				name, rows := t.backfill(i)
				elapsed := time.Since(start)

				e.metrics.OnBackfill(t.Name(), name, rows, elapsed)
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// Snapshot returns the latest published snapshot. It never blocks.
func (e *Engine) Snapshot() *Snapshot {
	return e.current.Load()
}

// Begin waits for the writer slot and starts a write transaction. ctx bounds
// the wait only.
func (e *Engine) Begin(ctx context.Context) (*Txn, error) {
	if e.closed.Load() {
		return nil, ErrClosed
	}

	start := time.Now()
	if err := e.resourceController.AcquireWriter(ctx); err != nil {
		return nil, err
	}
	e.metrics.OnWriteWait(time.Since(start))

	if e.closed.Load() {
		e.resourceController.ReleaseWriter()
		return nil, ErrClosed
	}

	return &Txn{
		eng:     e,
		base:    e.base,
		working: make([]TableState, e.base.Len()),
		frozen:  make([]frozenState, e.base.Len()),
	}, nil
}

// publish installs the touched tables of a finished transaction. The caller
// holds the writer slot.
func (e *Engine) publish(working []TableState) uint64 {
	prev := e.current.Load()
	version := prev.version + 1

	published := make([]TableState, len(prev.tables))
	copy(published, prev.tables)
	nextBase := make([]TableState, len(e.base.tables))
	copy(nextBase, e.base.tables)

	for i, w := range working {
		if w == nil {
			continue
		}
		// Fork before the store so a published state is never cloned.
		next := w.fork()
		next.settle()
		nextBase[i] = next
		published[i] = w
	}

	e.base = newSnapshot(version, nextBase)
	e.current.Store(newSnapshot(version, published))

	e.committed.Add(1)
	e.logger.Debug("snapshot published", "version", version)
	return version
}

// Close marks the engine closed. Transactions already running finish
// normally; later calls to Begin fail with ErrClosed.
func (e *Engine) Close() error {
	if !e.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	return nil
}

// Closed reports whether Close has been called.
func (e *Engine) Closed() bool {
	return e.closed.Load()
}

// TableStats describes one table of a snapshot.
type TableStats struct {
	Name    string
	Rows    int
	Indexes []string
	// IndexKinds holds the kind of each index in Indexes.
	IndexKinds []string
}

// Stats holds engine statistics.
type Stats struct {
	Version   uint64
	Tables    []TableStats
	Committed uint64
	Aborted   uint64

	// WaitingWriters is the number of write transactions waiting for
	// admission.
	WaitingWriters int64
}

// Stats returns statistics for the latest published snapshot.
func (e *Engine) Stats() Stats {
	snap := e.current.Load()

	stats := Stats{
		Version:   snap.version,
		Tables:    make([]TableStats, len(snap.tables)),
		Committed: e.committed.Load(),
		Aborted:   e.aborted.Load(),

		WaitingWriters: e.resourceController.WaitingWriters(),
	}
	for i, t := range snap.tables {
		stats.Tables[i] = TableStats{
			Name:    t.Name(),
			Rows:    t.Len(),
			Indexes: t.IndexNames(),

			IndexKinds: t.IndexKinds(),
		}
	}
	return stats
}
