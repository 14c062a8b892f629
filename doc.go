// Package stereodb provides an embedded, in-memory transactional store for Go.
//
// A database is a fixed schema of typed tables, each keyed by the identifier
// of its entities, plus secondary indexes projected from those entities. All
// access happens inside read or write transactions.
//
// # Quick Start
//
//	type Book struct {
//	    BookID   int
//	    Title    string
//	    Quantity int
//	}
//
//	func (b Book) ID() int { return b.BookID }
//
//	type Schema struct {
//	    Books      *stereodb.Table[int, Book]
//	    ByQuantity *stereodb.RangeScanIndex[int, int, Book]
//	}
//
//	db, _ := stereodb.New(func(b *stereodb.Builder) Schema {
//	    books := stereodb.NewTable[int, Book](b, "books")
//	    return Schema{
//	        Books:      books,
//	        ByQuantity: stereodb.AddRangeScanIndex(books, "quantity", func(b Book) int { return b.Quantity }),
//	    }
//	})
//
//	_ = db.WriteTransaction(func(tx *stereodb.WriteTx[Schema]) error {
//	    books := stereodb.UseMutableTable(tx, tx.Schema().Books)
//	    books.Set(Book{BookID: 1, Title: "Dune", Quantity: 3})
//	    return nil
//	})
//
//	low, _ := stereodb.Read(db, func(tx *stereodb.ReadTx[Schema]) ([]Book, error) {
//	    ix := stereodb.UseRangeScanIndex(tx, tx.Schema().ByQuantity)
//	    return slices.Collect(ix.SelectRange(0, 5)), nil
//	})
//
// # Initial Rows
//
// Table.Seed, called from the schema definition, loads entities before the
// database opens. Indexes are then backfilled from them in parallel (see
// WithBackfillWorkers) before New returns.
//
// # Concurrency Model
//
// Read transactions never block. Each one reads a single immutable snapshot,
// so it sees every table and index as of one committed write transaction.
//
// Write transactions run one at a time. Their writes are visible to
// themselves immediately and to everyone else only after the callback
// returns nil. Returning an error or panicking discards them.
//
// # Views
//
// UseTable, UseMutableTable, UseValueIndex and UseRangeScanIndex bind a
// schema handle to a transaction. Views, and sequences obtained from them,
// are valid only until the transaction callback returns; later use panics
// with ErrTxDone. Only write transactions can produce a TableWriter.
//
// # Stored Values
//
// Entities are stored as given. Pointer entities must not be mutated after
// Set; replace them with another Set instead.
package stereodb
