package stereodb

import (
	"context"
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; the
// observability package provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordRead is called after each read transaction.
	// duration covers the transaction body, err is what the body returned.
	RecordRead(duration time.Duration, err error)

	// RecordWrite is called after each write transaction that was admitted.
	// mutations is the number of Set and Remove calls that were committed
	// (zero when err is not nil).
	RecordWrite(duration time.Duration, mutations int, err error)

	// RecordWriteWait is called once a writer was admitted, with the time it
	// spent waiting for the rate limit and the writer slot.
	RecordWriteWait(duration time.Duration)

	// RecordBackfill is called when an index finished its initial backfill.
	RecordBackfill(table, index string, rows int, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordRead(time.Duration, error)                   {}
func (NoopMetricsCollector) RecordWrite(time.Duration, int, error)             {}
func (NoopMetricsCollector) RecordWriteWait(time.Duration)                     {}
func (NoopMetricsCollector) RecordBackfill(string, string, int, time.Duration) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	ReadCount          atomic.Int64
	ReadErrors         atomic.Int64
	ReadTotalNanos     atomic.Int64
	WriteCount         atomic.Int64
	WriteErrors        atomic.Int64
	WriteTotalNanos    atomic.Int64
	WriteMutations     atomic.Int64
	WriteWaitNanos     atomic.Int64
	BackfillCount      atomic.Int64
	BackfillRows       atomic.Int64
	BackfillTotalNanos atomic.Int64
}

// RecordRead implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRead(duration time.Duration, err error) {
	b.ReadCount.Add(1)
	b.ReadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ReadErrors.Add(1)
	}
}

// RecordWrite implements MetricsCollector.
func (b *BasicMetricsCollector) RecordWrite(duration time.Duration, mutations int, err error) {
	b.WriteCount.Add(1)
	b.WriteTotalNanos.Add(duration.Nanoseconds())
	b.WriteMutations.Add(int64(mutations))
	if err != nil {
		b.WriteErrors.Add(1)
	}
}

// RecordWriteWait implements MetricsCollector.
func (b *BasicMetricsCollector) RecordWriteWait(duration time.Duration) {
	b.WriteWaitNanos.Add(duration.Nanoseconds())
}

// RecordBackfill implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBackfill(_, _ string, rows int, duration time.Duration) {
	b.BackfillCount.Add(1)
	b.BackfillRows.Add(int64(rows))
	b.BackfillTotalNanos.Add(duration.Nanoseconds())
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		ReadCount:      b.ReadCount.Load(),
		ReadErrors:     b.ReadErrors.Load(),
		ReadAvgNanos:   avg(b.ReadTotalNanos.Load(), b.ReadCount.Load()),
		WriteCount:     b.WriteCount.Load(),
		WriteErrors:    b.WriteErrors.Load(),
		WriteAvgNanos:  avg(b.WriteTotalNanos.Load(), b.WriteCount.Load()),
		WriteMutations: b.WriteMutations.Load(),
		WriteWaitNanos: b.WriteWaitNanos.Load(),
		BackfillCount:  b.BackfillCount.Load(),
		BackfillRows:   b.BackfillRows.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	ReadCount      int64
	ReadErrors     int64
	ReadAvgNanos   int64
	WriteCount     int64
	WriteErrors    int64
	WriteAvgNanos  int64
	WriteMutations int64
	WriteWaitNanos int64
	BackfillCount  int64
	BackfillRows   int64
}

// engineObserver forwards engine events to the configured collector and logger.
type engineObserver struct {
	metrics MetricsCollector
	logger  *Logger
}

func (o engineObserver) OnWriteWait(d time.Duration) {
	o.metrics.RecordWriteWait(d)
}

func (o engineObserver) OnBackfill(table, index string, rows int, d time.Duration) {
	o.metrics.RecordBackfill(table, index, rows, d)
	o.logger.LogBackfill(context.Background(), table, index, rows, d)
}
