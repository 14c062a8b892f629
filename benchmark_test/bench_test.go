package benchmark_test

import (
	"strconv"
	"testing"

	"github.com/google/uuid"

	"github.com/StereoDB/StereoDB"
	"github.com/StereoDB/StereoDB/testutil"
)

const benchSeed = 4242

var userCounts = []int{10_000, 100_000}

type Schema struct {
	Users   *stereodb.Table[uuid.UUID, testutil.User]
	ByEmail *stereodb.ValueIndex[string, uuid.UUID, testutil.User]
	ByLast  *stereodb.RangeScanIndex[string, uuid.UUID, testutil.User]
}

// OpenBenchDB opens a database seeded with n synthetic users and returns it
// together with the seeded users.
func OpenBenchDB(b *testing.B, n int, opts ...stereodb.Option) (*stereodb.DB[Schema], []testutil.User) {
	b.Helper()

	db, err := stereodb.New(func(bd *stereodb.Builder) Schema {
		t := stereodb.NewTable[uuid.UUID, testutil.User](bd, "users")
		return Schema{
			Users:   t,
			ByEmail: stereodb.AddValueIndex(t, "email", func(u testutil.User) string { return u.Email }),
			ByLast:  stereodb.AddRangeScanIndex(t, "last_name", func(u testutil.User) string { return u.LastName }),
		}
	}, opts...)
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = db.Close() })

	users := testutil.NewRNG(benchSeed).Users(n)
	err = db.WriteTransaction(func(tx *stereodb.WriteTx[Schema]) error {
		t := stereodb.UseMutableTable(tx, tx.Schema().Users)
		for _, u := range users {
			t.Set(u)
		}
		return nil
	})
	if err != nil {
		b.Fatal(err)
	}
	return db, users
}

func usersName(n int) string {
	return "users=" + strconv.Itoa(n)
}
