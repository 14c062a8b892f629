package resource

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// WriteRateLimit is the maximum number of write transactions admitted
	// per second. If 0, unlimited.
	WriteRateLimit float64

	// WriteBurst is the token bucket size for WriteRateLimit.
	// If 0, defaults to 1.
	WriteBurst int

	// MaxBackgroundWorkers is the maximum number of concurrent background jobs.
	// If 0, defaults to 1.
	MaxBackgroundWorkers int64
}

// Controller manages engine-wide admission.
type Controller struct {
	writer  *semaphore.Weighted
	waiting atomic.Int64

	limiter *rate.Limiter // nil if unlimited

	bgSem *semaphore.Weighted
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxBackgroundWorkers <= 0 {
		cfg.MaxBackgroundWorkers = 1
	}
	if cfg.WriteBurst <= 0 {
		cfg.WriteBurst = 1
	}

	c := &Controller{
		writer: semaphore.NewWeighted(1),
		bgSem:  semaphore.NewWeighted(cfg.MaxBackgroundWorkers),
	}

	if cfg.WriteRateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.WriteRateLimit), cfg.WriteBurst)
	}

	return c
}

// AcquireWriter waits for write admission and then for the writer slot.
// It returns ctx.Err() if ctx ends first; the slot is not held in that case.
func (c *Controller) AcquireWriter(ctx context.Context) error {
	c.waiting.Add(1)
	defer c.waiting.Add(-1)

	if err := c.AcquireWriteRate(ctx); err != nil {
		return err
	}
	return c.AcquireWriterSlot(ctx)
}

// AcquireWriterSlot waits for the writer slot without consulting the rate
// limit. Used for internal work such as index backfill.
func (c *Controller) AcquireWriterSlot(ctx context.Context) error {
	return c.writer.Acquire(ctx, 1)
}

// ReleaseWriter releases the writer slot.
func (c *Controller) ReleaseWriter() {
	c.writer.Release(1)
}

// WaitingWriters returns the number of callers blocked in AcquireWriter.
func (c *Controller) WaitingWriters() int64 {
	return c.waiting.Load()
}

// AcquireWriteRate waits until the write rate limit admits one transaction.
// If the wait would outlast the deadline of ctx it fails at once with an
// error wrapping context.DeadlineExceeded.
func (c *Controller) AcquireWriteRate(ctx context.Context) error {
	if c == nil || c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
	}
	return nil
}

// AcquireBackground attempts to reserve a background worker slot.
// Blocks if all slots are busy.
func (c *Controller) AcquireBackground(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.bgSem.Acquire(ctx, 1)
}

// ReleaseBackground releases a background worker slot.
func (c *Controller) ReleaseBackground() {
	if c == nil {
		return
	}
	c.bgSem.Release(1)
}

