package stereodb

import (
	"errors"
	"fmt"

	"github.com/StereoDB/StereoDB/internal/engine"
)

var (
	// ErrClosed is returned when a transaction is started on a closed DB.
	ErrClosed = errors.New("stereodb: database closed")

	// ErrInvalidSchema is wrapped by every SchemaError.
	ErrInvalidSchema = errors.New("stereodb: invalid schema")

	// ErrWriteAdmission wraps the context error when WriteTransactionContext
	// gives up waiting for the writer slot.
	ErrWriteAdmission = errors.New("stereodb: write admission")

	// ErrSchemaSealed is the panic value when a table or index is declared
	// after New returned.
	ErrSchemaSealed = errors.New("stereodb: schema is sealed")

	// ErrForeignHandle is the panic value when a table or index handle is
	// used with a DB that did not declare it.
	ErrForeignHandle = errors.New("stereodb: handle belongs to another database")

	// ErrWritePanicked is reported to the logger and the metrics collector
	// when a write transaction body panics. The panic itself propagates
	// unchanged.
	ErrWritePanicked = errors.New("stereodb: write transaction panicked")

	// ErrTxDone is the panic value when a transaction context, or a view
	// obtained from it, is used after the transaction returned.
	ErrTxDone = errors.New("stereodb: transaction has finished")
)

// SchemaError describes an invalid table or index declaration.
//
// It wraps ErrInvalidSchema, so errors.Is(err, ErrInvalidSchema) holds.
type SchemaError struct {
	Table  string
	Index  string
	Reason string
}

func (e *SchemaError) Error() string {
	switch {
	case e.Index != "":
		return fmt.Sprintf("stereodb: invalid schema: table %q, index %q: %s", e.Table, e.Index, e.Reason)
	case e.Table != "":
		return fmt.Sprintf("stereodb: invalid schema: table %q: %s", e.Table, e.Reason)
	default:
		return "stereodb: invalid schema: " + e.Reason
	}
}

func (e *SchemaError) Unwrap() error { return ErrInvalidSchema }

func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, engine.ErrClosed) {
		return ErrClosed
	}
	return fmt.Errorf("%w: %w", ErrWriteAdmission, err)
}
