package stereodb

import (
	"log/slog"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	writeRateLimit   float64
	writeBurst       int
	backfillWorkers  int
	btreeDegree      int
}

// Option configures New.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for transactions and
// index backfill. Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &stereodb.BasicMetricsCollector{}
//	db, _ := stereodb.New(define, stereodb.WithMetricsCollector(metrics))
//	// ... use db ...
//	stats := metrics.GetStats()
//	fmt.Printf("Writes: %d, Avg latency: %dns\n", stats.WriteCount, stats.WriteAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for transactions.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := stereodb.NewJSONLogger(slog.LevelInfo)
//	db, _ := stereodb.New(define, stereodb.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithWriteRateLimit caps how many write transactions are admitted per
// second. Writers over the limit wait; WriteTransactionContext gives up when
// its context ends. perSecond <= 0 disables the limit.
func WithWriteRateLimit(perSecond float64, burst int) Option {
	return func(o *options) {
		o.writeRateLimit = perSecond
		o.writeBurst = burst
	}
}

// WithBackfillWorkers sets how many indexes are backfilled in parallel when
// the database opens. Defaults to 4.
func WithBackfillWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.backfillWorkers = n
		}
	}
}

// WithBTreeDegree sets the degree of the B-trees behind tables and indexes.
// Larger degrees favor scans, smaller ones make copy-on-write cheaper.
// Defaults to 32.
func WithBTreeDegree(n int) Option {
	return func(o *options) {
		if n > 1 {
			o.btreeDegree = n
		}
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		backfillWorkers:  4,
		btreeDegree:      32,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
