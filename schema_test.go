package stereodb_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StereoDB/StereoDB"
)

func TestNew_NilDefine(t *testing.T) {
	_, err := stereodb.New[Schema](nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, stereodb.ErrInvalidSchema)
}

func TestNew_RunsDefineOnce(t *testing.T) {
	calls := 0
	db, err := stereodb.New(func(b *stereodb.Builder) Schema {
		calls++
		return defineSchema(b)
	})
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, 1, calls)
	assert.Equal(t, "books", db.Schema().Books.Table.Name())
	assert.Equal(t, "book_id", db.Schema().Orders.BookIDIndex.Name())
	assert.Same(t, db.Schema().Orders.Table, db.Schema().Orders.QuantityRangeIndex.Table())
}

func TestNew_InvalidSchema(t *testing.T) {
	tests := []struct {
		name   string
		define func(b *stereodb.Builder) struct{}
		want   stereodb.SchemaError
	}{
		{
			name: "empty table name",
			define: func(b *stereodb.Builder) struct{} {
				stereodb.NewTable[int, Book](b, "")
				return struct{}{}
			},
			want: stereodb.SchemaError{Reason: "empty table name"},
		},
		{
			name: "duplicate table name",
			define: func(b *stereodb.Builder) struct{} {
				stereodb.NewTable[int, Book](b, "books")
				stereodb.NewTable[uuid.UUID, Order](b, "books")
				return struct{}{}
			},
			want: stereodb.SchemaError{Table: "books", Reason: "duplicate table name"},
		},
		{
			name: "empty index name",
			define: func(b *stereodb.Builder) struct{} {
				orders := stereodb.NewTable[uuid.UUID, Order](b, "orders")
				stereodb.AddValueIndex(orders, "", func(o Order) int { return o.BookID })
				return struct{}{}
			},
			want: stereodb.SchemaError{Table: "orders", Reason: "empty index name"},
		},
		{
			name: "duplicate index name",
			define: func(b *stereodb.Builder) struct{} {
				orders := stereodb.NewTable[uuid.UUID, Order](b, "orders")
				stereodb.AddValueIndex(orders, "by", func(o Order) int { return o.BookID })
				stereodb.AddRangeScanIndex(orders, "by", func(o Order) int { return o.Quantity })
				return struct{}{}
			},
			want: stereodb.SchemaError{Table: "orders", Index: "by", Reason: "duplicate index name"},
		},
		{
			name: "nil projection",
			define: func(b *stereodb.Builder) struct{} {
				orders := stereodb.NewTable[uuid.UUID, Order](b, "orders")
				stereodb.AddRangeScanIndex[int](orders, "quantity", nil)
				return struct{}{}
			},
			want: stereodb.SchemaError{Table: "orders", Index: "quantity", Reason: "nil projection"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := stereodb.New(tt.define)
			require.Error(t, err)
			assert.ErrorIs(t, err, stereodb.ErrInvalidSchema)

			var se *stereodb.SchemaError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.want, *se)
		})
	}
}

func TestNew_ReportsEveryProblem(t *testing.T) {
	_, err := stereodb.New(func(b *stereodb.Builder) struct{} {
		stereodb.NewTable[int, Book](b, "")
		orders := stereodb.NewTable[uuid.UUID, Order](b, "orders")
		stereodb.AddValueIndex[int](orders, "book_id", nil)
		return struct{}{}
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty table name")
	assert.Contains(t, err.Error(), `table "orders", index "book_id": nil projection`)
}

func TestBuilder_SealedAfterNew(t *testing.T) {
	var captured *stereodb.Builder
	db, err := stereodb.New(func(b *stereodb.Builder) Schema {
		captured = b
		return defineSchema(b)
	})
	require.NoError(t, err)
	defer db.Close()

	assert.PanicsWithValue(t, stereodb.ErrSchemaSealed, func() {
		stereodb.NewTable[int, Book](captured, "late")
	})
	assert.PanicsWithValue(t, stereodb.ErrSchemaSealed, func() {
		stereodb.AddValueIndex(db.Schema().Orders.Table, "late", func(o Order) int { return o.Quantity })
	})
}

func TestNew_EmptySchema(t *testing.T) {
	db, err := stereodb.New(func(*stereodb.Builder) struct{} { return struct{}{} })
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.WriteTransaction(func(tx *stereodb.WriteTx[struct{}]) error { return nil }))
	assert.Equal(t, uint64(0), db.Stats().Version)
	assert.Empty(t, db.Stats().Tables)
}

func TestSchemaError_Message(t *testing.T) {
	assert.Equal(t, "stereodb: invalid schema: nil schema definition",
		(&stereodb.SchemaError{Reason: "nil schema definition"}).Error())
	assert.Equal(t, `stereodb: invalid schema: table "t": duplicate table name`,
		(&stereodb.SchemaError{Table: "t", Reason: "duplicate table name"}).Error())
}
