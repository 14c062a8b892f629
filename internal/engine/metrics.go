package engine

import "time"

// MetricsObserver receives engine events.
type MetricsObserver interface {
	// OnWriteWait is called once a writer holds the writer slot.
	OnWriteWait(duration time.Duration)

	// OnBackfill is called when an index finished its initial backfill.
	OnBackfill(table, index string, rows int, duration time.Duration)
}

// NoopMetricsObserver is a no-op implementation of MetricsObserver.
type NoopMetricsObserver struct{}

func (NoopMetricsObserver) OnWriteWait(time.Duration)                   {}
func (NoopMetricsObserver) OnBackfill(string, string, int, time.Duration) {}
