package engine

// Snapshot is an immutable, consistent view of every table.
type Snapshot struct {
	version uint64
	tables  []TableState
}

func newSnapshot(version uint64, tables []TableState) *Snapshot {
	return &Snapshot{version: version, tables: tables}
}

// Version returns the number of write transactions committed before this
// snapshot was published.
func (s *Snapshot) Version() uint64 { return s.version }

// Len returns the number of tables.
func (s *Snapshot) Len() int { return len(s.tables) }

// Table returns the state of the table declared at slot.
func (s *Snapshot) Table(slot int) TableState { return s.tables[slot] }

// fork returns a snapshot whose tables share storage with s but may be
// written independently.
func (s *Snapshot) fork() *Snapshot {
	tables := make([]TableState, len(s.tables))
	for i, t := range s.tables {
		tables[i] = t.fork()
	}
	return newSnapshot(s.version, tables)
}
