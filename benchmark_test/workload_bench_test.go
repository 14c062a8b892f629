package benchmark_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/StereoDB/StereoDB"
	"github.com/StereoDB/StereoDB/testutil"
)

// BenchmarkReadWrite runs the mixed workload: readers doing point reads while
// writers upsert random users. One op is one read; writes run until the
// readers are done.
func BenchmarkReadWrite(b *testing.B) {
	const (
		readers = 8
		writers = 2
	)

	db, users := OpenBenchDB(b, userCounts[len(userCounts)-1])

	var (
		wg     sync.WaitGroup
		stop   atomic.Bool
		writes atomic.Int64
		reads  atomic.Int64
	)

	b.ReportAllocs()
	b.ResetTimer()

	for w := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rng := testutil.NewRNG(benchSeed + int64(w))
			for !stop.Load() {
				u := users[rng.Intn(len(users))]
				_ = db.WriteTransaction(func(tx *stereodb.WriteTx[Schema]) error {
					stereodb.UseMutableTable(tx, tx.Schema().Users).Set(u)
					return nil
				})
				writes.Add(1)
			}
		}()
	}

	var rg sync.WaitGroup
	for r := range readers {
		rg.Add(1)
		go func() {
			defer rg.Done()
			rng := testutil.NewRNG(benchSeed + 100 + int64(r))
			for reads.Add(1) <= int64(b.N) {
				id := users[rng.Intn(len(users))].UserID
				_ = db.ReadTransaction(func(tx *stereodb.ReadTx[Schema]) error {
					_, _ = stereodb.UseTable(tx, tx.Schema().Users).TryGet(id)
					return nil
				})
			}
		}()
	}

	rg.Wait()
	stop.Store(true)
	wg.Wait()

	b.StopTimer()
	b.ReportMetric(float64(b.N)/b.Elapsed().Seconds(), "reads/sec")
	b.ReportMetric(float64(writes.Load())/b.Elapsed().Seconds(), "writes/sec")
}
