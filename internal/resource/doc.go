// Package resource implements admission control for the transaction engine.
//
// The Controller governs three resources:
//
//   - Writer slot: a weighted semaphore of size one. Holding it is what makes
//     a write transaction the only active writer.
//   - Write admission rate: an optional token bucket applied before the
//     writer slot is requested, so a saturated writer queue does not grow
//     without bound.
//   - Background workers: a semaphore bounding parallel index backfills.
//
// # Usage
//
//	rc := resource.NewController(resource.Config{
//	    WriteRateLimit:       5000, // write transactions per second
//	    WriteBurst:           100,
//	    MaxBackgroundWorkers: 4,
//	})
//
//	if err := rc.AcquireWriter(ctx); err != nil {
//	    return err // ctx cancelled while waiting
//	}
//	defer rc.ReleaseWriter()
//
// # Thread Safety
//
// All Controller methods are safe for concurrent use.
//
// # Nil Safety
//
// Background-worker and rate methods treat a nil Controller as unlimited.
// The writer slot has no nil fallback; the engine always owns a Controller.
package resource
