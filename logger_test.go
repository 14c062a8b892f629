package stereodb_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StereoDB/StereoDB"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	dec := json.NewDecoder(buf)
	for dec.More() {
		var m map[string]any
		require.NoError(t, dec.Decode(&m))
		out = append(out, m)
	}
	return out
}

func TestLogger_TransactionLifecycle(t *testing.T) {
	var buf bytes.Buffer
	logger := stereodb.NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	db, err := stereodb.New(defineSchema, stereodb.WithLogger(logger))
	require.NoError(t, err)

	require.NoError(t, db.WriteTransaction(func(tx *stereodb.WriteTx[Schema]) error {
		stereodb.UseMutableTable(tx, tx.Schema().Books.Table).Set(Book{BookID: 1})
		return nil
	}))
	_ = db.WriteTransaction(func(tx *stereodb.WriteTx[Schema]) error {
		return errors.New("boom")
	})
	require.NoError(t, db.Close())

	msgs := map[string]map[string]any{}
	for _, line := range decodeLines(t, &buf) {
		msgs[line["msg"].(string)] = line
	}

	require.Contains(t, msgs, "database opened")
	assert.Equal(t, 2.0, msgs["database opened"]["tables"])
	assert.Equal(t, 2.0, msgs["database opened"]["indexes"])

	require.Contains(t, msgs, "index backfilled")
	assert.Equal(t, "orders", msgs["index backfilled"]["table"])

	require.Contains(t, msgs, "write committed")
	assert.Equal(t, "DEBUG", msgs["write committed"]["level"])
	assert.Equal(t, 1.0, msgs["write committed"]["version"])
	assert.Equal(t, 1.0, msgs["write committed"]["mutations"])

	require.Contains(t, msgs, "write aborted")
	assert.Equal(t, "ERROR", msgs["write aborted"]["level"])
	assert.Equal(t, "boom", msgs["write aborted"]["error"])

	require.Contains(t, msgs, "database closed")
	assert.Equal(t, 1.0, msgs["database closed"]["version"])
}

func TestLogger_InvalidSchemaLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := stereodb.NewLogger(slog.NewJSONHandler(&buf, nil))

	_, err := stereodb.New(func(b *stereodb.Builder) struct{} {
		stereodb.NewTable[int, Book](b, "")
		return struct{}{}
	}, stereodb.WithLogger(logger))
	require.Error(t, err)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "open failed", lines[0]["msg"])
}

func TestNoopLogger(t *testing.T) {
	l := stereodb.NoopLogger()
	assert.False(t, l.Enabled(t.Context(), slog.LevelError))
	l.WithTable("books").Info("ignored")
}

func TestBasicMetricsCollector(t *testing.T) {
	metrics := &stereodb.BasicMetricsCollector{}
	db, err := stereodb.New(defineSchema, stereodb.WithMetricsCollector(metrics))
	require.NoError(t, err)
	defer db.Close()

	for i := range 3 {
		require.NoError(t, db.WriteTransaction(func(tx *stereodb.WriteTx[Schema]) error {
			stereodb.UseMutableTable(tx, tx.Schema().Books.Table).Set(Book{BookID: i})
			return nil
		}))
	}
	_ = db.WriteTransaction(func(tx *stereodb.WriteTx[Schema]) error { return errors.New("boom") })
	_ = db.ReadTransaction(func(tx *stereodb.ReadTx[Schema]) error { return errors.New("boom") })

	stats := metrics.GetStats()
	assert.Equal(t, int64(4), stats.WriteCount)
	assert.Equal(t, int64(1), stats.WriteErrors)
	assert.Equal(t, int64(3), stats.WriteMutations)
	assert.Equal(t, int64(1), stats.ReadCount)
	assert.Equal(t, int64(1), stats.ReadErrors)
	assert.Equal(t, int64(2), stats.BackfillCount)
	assert.Equal(t, int64(0), stats.BackfillRows)
	assert.GreaterOrEqual(t, stats.WriteAvgNanos, int64(0))
}
