package resource

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_WriterExclusive(t *testing.T) {
	c := NewController(Config{})

	require.NoError(t, c.AcquireWriter(t.Context()))

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.AcquireWriterSlot(ctx), context.DeadlineExceeded)

	c.ReleaseWriter()
	require.NoError(t, c.AcquireWriterSlot(t.Context()))
	c.ReleaseWriter()
}

func TestController_WriterCancelledWhileWaiting(t *testing.T) {
	c := NewController(Config{})
	require.NoError(t, c.AcquireWriter(t.Context()))
	defer c.ReleaseWriter()

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()

	err := c.AcquireWriter(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int64(0), c.WaitingWriters())
}

func TestController_WriterSerializes(t *testing.T) {
	c := NewController(Config{})

	var active, maxActive atomic.Int64
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				if !assert.NoError(t, c.AcquireWriter(context.Background())) {
					return
				}
				n := active.Add(1)
				for {
					m := maxActive.Load()
					if n <= m || maxActive.CompareAndSwap(m, n) {
						break
					}
				}
				active.Add(-1)
				c.ReleaseWriter()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), maxActive.Load())
}

func TestController_WriteRateLimit(t *testing.T) {
	c := NewController(Config{WriteRateLimit: 1, WriteBurst: 1})

	require.NoError(t, c.AcquireWriteRate(t.Context()))

	// The next token is a second away, past the deadline, so Wait fails
	// before ctx ends.
	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()
	err := c.AcquireWriteRate(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NoError(t, ctx.Err())

	cancelled, cancelNow := context.WithCancel(t.Context())
	cancelNow()
	assert.ErrorIs(t, c.AcquireWriteRate(cancelled), context.Canceled)
}

func TestController_WriterSlotSkipsRateLimit(t *testing.T) {
	c := NewController(Config{WriteRateLimit: 1, WriteBurst: 1})

	require.NoError(t, c.AcquireWriterSlot(t.Context()))
	c.ReleaseWriter()

	// The burst token is still available.
	require.NoError(t, c.AcquireWriter(t.Context()))
	c.ReleaseWriter()
}

func TestController_UnlimitedRate(t *testing.T) {
	c := NewController(Config{})
	for range 1000 {
		require.NoError(t, c.AcquireWriteRate(t.Context()))
	}
}

func TestController_Background(t *testing.T) {
	c := NewController(Config{MaxBackgroundWorkers: 2})

	require.NoError(t, c.AcquireBackground(t.Context()))
	require.NoError(t, c.AcquireBackground(t.Context()))

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.AcquireBackground(ctx), context.DeadlineExceeded)

	c.ReleaseBackground()
	require.NoError(t, c.AcquireBackground(t.Context()))
}

func TestController_NilBackground(t *testing.T) {
	var c *Controller
	require.NoError(t, c.AcquireBackground(t.Context()))
	c.ReleaseBackground()
	require.NoError(t, c.AcquireWriteRate(t.Context()))
}
