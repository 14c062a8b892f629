package stereodb

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with stereodb-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithTable adds a table field to the logger.
func (l *Logger) WithTable(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("table", name),
	}
}

// LogOpen logs database construction.
func (l *Logger) LogOpen(ctx context.Context, tables, indexes int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "open failed",
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "database opened",
			"tables", tables,
			"indexes", indexes,
		)
	}
}

// LogCommit logs a committed write transaction.
func (l *Logger) LogCommit(ctx context.Context, version uint64, mutations int, duration time.Duration) {
	l.DebugContext(ctx, "write committed",
		"version", version,
		"mutations", mutations,
		"duration", duration,
	)
}

// LogRollback logs an aborted write transaction. err is the error returned
// by the transaction body, or ErrWritePanicked. A nil err logs a plain
// rollback at debug level.
func (l *Logger) LogRollback(ctx context.Context, version uint64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "write aborted",
			"version", version,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "write rolled back",
			"version", version,
		)
	}
}

// LogBackfill logs a finished index backfill.
func (l *Logger) LogBackfill(ctx context.Context, table, index string, rows int, duration time.Duration) {
	l.WithTable(table).InfoContext(ctx, "index backfilled",
		"index", index,
		"rows", rows,
		"duration", duration,
	)
}

// LogClose logs database shutdown.
func (l *Logger) LogClose(ctx context.Context, version uint64) {
	l.InfoContext(ctx, "database closed",
		"version", version,
	)
}
