package engine

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StereoDB/StereoDB/internal/index"
)

type item struct {
	id    int
	group string
	price int
}

func itemID(it item) int { return it.id }

func newItems() *Table[int, item] {
	return NewTable("items", itemID, 0)
}

func withIndexes(t *Table[int, item]) (*index.Value[item, string], *index.RangeScan[item, int]) {
	byGroup := index.NewValue("group", func(it item) string { return it.group }, 0, t.owner)
	byPrice := index.NewRangeScan("price", func(it item) int { return it.price }, 0)
	t.Attach(byGroup)
	t.Attach(byPrice)
	t.ready()
	return byGroup, byPrice
}

func TestTable_SetGetRemove(t *testing.T) {
	tbl := newItems()

	assert.False(t, tbl.Set(item{id: 1, group: "a"}))
	assert.False(t, tbl.Set(item{id: 2, group: "b"}))
	assert.True(t, tbl.Set(item{id: 1, group: "c"}))

	got, ok := tbl.Get(1)
	require.True(t, ok)
	assert.Equal(t, "c", got.group)
	assert.Equal(t, 2, tbl.Len())
	assert.True(t, tbl.Contains(2))

	assert.True(t, tbl.Remove(2))
	assert.False(t, tbl.Remove(2))
	assert.False(t, tbl.Contains(2))
	_, ok = tbl.Get(2)
	assert.False(t, ok)
	assert.Equal(t, 1, tbl.Len())
	assert.Equal(t, 4, tbl.Mutations())
}

func TestTable_IDsInRowOrder(t *testing.T) {
	tbl := newItems()
	for _, id := range []int{30, 10, 20} {
		tbl.Set(item{id: id})
	}
	assert.Equal(t, []int{30, 10, 20}, slices.Collect(tbl.IDs()))

	n := 0
	for id, it := range tbl.All() {
		assert.Equal(t, id, it.id)
		n++
	}
	assert.Equal(t, 3, n)
}

func TestTable_RowReuse(t *testing.T) {
	tbl := newItems()
	tbl.Set(item{id: 1})
	tbl.Set(item{id: 2})
	tbl.Set(item{id: 3})

	require.True(t, tbl.Remove(2))
	tbl.Set(item{id: 4})

	// Row 1 was freed by id 2 and is handed to id 4.
	row, ok := tbl.keys.Get(4)
	require.True(t, ok)
	assert.Equal(t, uint32(1), row)
	assert.Equal(t, uint32(3), tbl.next)
	assert.True(t, tbl.free.IsEmpty())
}

func TestTable_IndexFanOut(t *testing.T) {
	tbl := newItems()
	byGroup, byPrice := withIndexes(tbl)

	tbl.Set(item{id: 1, group: "x", price: 10})
	tbl.Set(item{id: 2, group: "x", price: 20})
	tbl.Set(item{id: 3, group: "y", price: 30})

	assert.Equal(t, 2, byGroup.Count("x"))
	assert.Equal(t, []uint32{1, 2}, slices.Collect(byPrice.Range(15, 30)))

	tbl.Set(item{id: 1, group: "y", price: 25})
	assert.Equal(t, 1, byGroup.Count("x"))
	assert.Equal(t, 2, byGroup.Count("y"))
	assert.Equal(t, []uint32{1, 0}, slices.Collect(byPrice.Range(20, 25)))

	tbl.Remove(3)
	assert.Equal(t, 1, byGroup.Count("y"))
	assert.Equal(t, 2, byPrice.Len())
}

func TestTable_ForkIsolation(t *testing.T) {
	tbl := newItems()
	byGroup, _ := withIndexes(tbl)
	for i := range 2000 {
		tbl.Set(item{id: i, group: "a", price: i})
	}

	forked := tbl.fork().(*Table[int, item])
	for i := range 1000 {
		forked.Remove(i)
	}
	forked.Set(item{id: 5000, group: "b"})
	forked.Set(item{id: 1500, group: "b", price: -1})

	assert.Equal(t, 2000, tbl.Len())
	assert.Equal(t, 2000, byGroup.Count("a"))
	got, ok := tbl.Get(1500)
	require.True(t, ok)
	assert.Equal(t, "a", got.group)
	_, ok = tbl.Get(5000)
	assert.False(t, ok)

	assert.Equal(t, 1001, forked.Len())
	forkedGroup := forked.Index(0).(*index.Value[item, string])
	assert.Equal(t, 999, forkedGroup.Count("a"))
	assert.Equal(t, 2, forkedGroup.Count("b"))
}

func TestTable_BackfillAfterRows(t *testing.T) {
	tbl := newItems()
	for i := range 100 {
		tbl.Set(item{id: i, group: []string{"a", "b"}[i%2], price: i})
	}

	byGroup := index.NewValue("group", func(it item) string { return it.group }, 0, tbl.owner)
	tbl.Attach(byGroup)
	require.Equal(t, 1, tbl.backfillJobs())

	name, rows := tbl.backfill(0)
	tbl.ready()

	assert.Equal(t, "group", name)
	assert.Equal(t, 100, rows)
	assert.Equal(t, 50, byGroup.Count("a"))
	assert.Equal(t, 0, tbl.backfillJobs())
	assert.Equal(t, []string{"group"}, tbl.IndexNames())
}

func TestTable_NaNKeys(t *testing.T) {
	tbl := NewTable("nan", func(v float64) float64 { return v }, 0)
	tbl.Set(math.NaN())
	assert.True(t, tbl.Set(math.NaN()))
	assert.Equal(t, 1, tbl.Len())
	assert.True(t, tbl.Remove(math.NaN()))
	assert.Equal(t, 0, tbl.Len())
}
