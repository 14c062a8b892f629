package pk

import (
	"iter"

	"github.com/StereoDB/StereoDB/internal/cow"
)

const (
	chunkBits = 9
	chunkSize = 1 << chunkBits // 512 rows per chunk
	chunkMask = chunkSize - 1

	dirBits = 9
	dirSize = 1 << dirBits // 512 chunks per directory page
	dirMask = dirSize - 1
)

type cell[T any] struct {
	val T
	ok  bool
}

type chunk[T any] struct {
	owner *cow.Token
	cells [chunkSize]cell[T]
}

type dir[T any] struct {
	owner  *cow.Token
	chunks [dirSize]*chunk[T]
}

// Rows is a persistent array from row number to value.
//
// Layout: dirs[row>>18].chunks[(row>>9)&511].cells[row&511]. Fork shares
// every page; the first write to a page in an edit session copies it, so a
// single Put costs at most one directory-slice, one page and one chunk copy.
type Rows[T any] struct {
	owner     *cow.Token // edit session allowed to write in place
	dirsOwner *cow.Token // session that allocated dirs
	dirs      []*dir[T]
	count     int
}

// NewRows creates an empty array editable by tok.
func NewRows[T any](tok *cow.Token) *Rows[T] {
	return &Rows[T]{owner: tok}
}

// Fork returns an array sharing all storage with r, editable by tok.
// r must not be written after it has been forked.
func (r *Rows[T]) Fork(tok *cow.Token) *Rows[T] {
	return &Rows[T]{
		owner:     tok,
		dirsOwner: r.dirsOwner,
		dirs:      r.dirs,
		count:     r.count,
	}
}

// Len returns the number of occupied rows.
func (r *Rows[T]) Len() int {
	return r.count
}

func split(row uint32) (di, ci, si int) {
	return int(row >> (chunkBits + dirBits)), int(row>>chunkBits) & dirMask, int(row) & chunkMask
}

// Get returns the value at row.
func (r *Rows[T]) Get(row uint32) (T, bool) {
	di, ci, si := split(row)
	if di >= len(r.dirs) {
		var zero T
		return zero, false
	}
	d := r.dirs[di]
	if d == nil {
		var zero T
		return zero, false
	}
	c := d.chunks[ci]
	if c == nil {
		var zero T
		return zero, false
	}
	cl := c.cells[si]
	return cl.val, cl.ok
}

// Put stores v at row and returns the previous value, if any.
func (r *Rows[T]) Put(row uint32, v T) (prev T, existed bool) {
	c, si := r.writableChunk(row)
	cl := &c.cells[si]
	prev, existed = cl.val, cl.ok
	cl.val, cl.ok = v, true
	if !existed {
		r.count++
	}
	return prev, existed
}

// Clear empties row and returns the value it held.
func (r *Rows[T]) Clear(row uint32) (T, bool) {
	if _, ok := r.Get(row); !ok {
		var zero T
		return zero, false
	}
	c, si := r.writableChunk(row)
	cl := &c.cells[si]
	prev := cl.val
	var zero T
	cl.val, cl.ok = zero, false
	r.count--
	return prev, true
}

// writableChunk returns a chunk owned by r.owner covering row, copying the
// directory slice, page and chunk on the path as needed.
func (r *Rows[T]) writableChunk(row uint32) (*chunk[T], int) {
	di, ci, si := split(row)

	if !r.owner.Owns(r.dirsOwner) {
		n := max(len(r.dirs), di+1)
		dirs := make([]*dir[T], n, max(n, 2*len(r.dirs)))
		copy(dirs, r.dirs)
		r.dirs = dirs
		r.dirsOwner = r.owner
	} else if di >= len(r.dirs) {
		r.dirs = append(r.dirs, make([]*dir[T], di+1-len(r.dirs))...)
	}

	d := r.dirs[di]
	switch {
	case d == nil:
		d = &dir[T]{owner: r.owner}
		r.dirs[di] = d
	case !r.owner.Owns(d.owner):
		copied := *d
		copied.owner = r.owner
		d = &copied
		r.dirs[di] = d
	}

	c := d.chunks[ci]
	switch {
	case c == nil:
		c = &chunk[T]{owner: r.owner}
		d.chunks[ci] = c
	case !r.owner.Owns(c.owner):
		copied := *c
		copied.owner = r.owner
		c = &copied
		d.chunks[ci] = c
	}
	return c, si
}

// All iterates occupied rows in ascending order.
func (r *Rows[T]) All() iter.Seq2[uint32, T] {
	return func(yield func(uint32, T) bool) {
		for di, d := range r.dirs {
			if d == nil {
				continue
			}
			for ci, c := range d.chunks {
				if c == nil {
					continue
				}
				base := uint32(di)<<(chunkBits+dirBits) | uint32(ci)<<chunkBits
				for si := range c.cells {
					if !c.cells[si].ok {
						continue
					}
					if !yield(base|uint32(si), c.cells[si].val) {
						return
					}
				}
			}
		}
	}
}
