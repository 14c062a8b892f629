package engine

type frozenState struct {
	state     TableState
	mutations int
}

// Txn is a write transaction. It holds the writer slot until Commit or
// Rollback and must be used from one goroutine.
type Txn struct {
	eng  *Engine
	base *Snapshot

	// working[i] is the editable fork of table i, nil until first written.
	working []TableState
	frozen  []frozenState
	done    bool
}

// Version returns the version of the snapshot the transaction started from.
func (t *Txn) Version() uint64 {
	return t.base.version
}

// Table returns the current state of the table at slot for point reads.
// The result must not be retained across writes.
func (t *Txn) Table(slot int) TableState {
	t.check()
	if w := t.working[slot]; w != nil {
		return w
	}
	return t.base.tables[slot]
}

// Writable returns the editable state of the table at slot, forking it from
// the base snapshot on first use.
func (t *Txn) Writable(slot int) TableState {
	t.check()
	w := t.working[slot]
	if w == nil {
		w = t.base.tables[slot].fork()
		t.working[slot] = w
	}
	return w
}

// Freeze returns a state of the table at slot that later writes in this
// transaction do not affect. Iterators use it to see the table as it was
// when they were created.
func (t *Txn) Freeze(slot int) TableState {
	t.check()
	w := t.working[slot]
	if w == nil {
		return t.base.tables[slot]
	}

	f := t.frozen[slot]
	if f.state != nil && f.mutations == w.Mutations() {
		return f.state
	}

	t.frozen[slot] = frozenState{state: w, mutations: w.Mutations()}
	t.working[slot] = w.fork()
	return w
}

// Mutations returns the number of writes applied so far.
func (t *Txn) Mutations() int {
	n := 0
	for _, w := range t.working {
		if w != nil {
			n += w.Mutations()
		}
	}
	return n
}

// Commit publishes every table the transaction wrote and releases the
// writer slot. A transaction without writes publishes nothing and keeps the
// current version. It returns the number of writes applied.
func (t *Txn) Commit() (int, error) {
	if t.done {
		return 0, ErrTxnDone
	}
	defer t.finish()

	n := t.Mutations()
	if n == 0 {
		t.eng.committed.Add(1)
		return 0, nil
	}

	for i, w := range t.working {
		if w != nil && w.Mutations() == 0 {
			t.working[i] = nil
		}
	}
	t.eng.publish(t.working)
	return n, nil
}

// Rollback discards every write and releases the writer slot.
func (t *Txn) Rollback() error {
	if t.done {
		return ErrTxnDone
	}
	defer t.finish()

	t.eng.aborted.Add(1)
	return nil
}

func (t *Txn) finish() {
	t.done = true
	t.working = nil
	t.frozen = nil
	t.eng.resourceController.ReleaseWriter()
}

func (t *Txn) check() {
	if t.done {
		panic(ErrTxnDone)
	}
}
