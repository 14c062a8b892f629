package engine

import "errors"

var (
	// ErrClosed is returned when a transaction is started on a closed engine.
	ErrClosed = errors.New("engine closed")

	// ErrTxnDone is returned when a finished transaction is used again.
	ErrTxnDone = errors.New("transaction already finished")

	// ErrTableFull is raised when a table has no row numbers left.
	ErrTableFull = errors.New("table row space exhausted")
)
