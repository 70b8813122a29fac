package concurrent

import (
	"sync"
	"testing"
)

func hashU64(k uint64) uint64 { return k }

// Property 9: disjoint key sets across goroutines compose deterministically
// regardless of interleaving.
func TestDisjointKeysDeterministic(t *testing.T) {
	tbl := New[uint64, uint64](Options[uint64, uint64]{Hash: hashU64, NumShards: 8})
	const perWorker = 500
	const workers = 8

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			keys := make([]uint64, perWorker)
			vals := make([]uint64, perWorker)
			for i := 0; i < perWorker; i++ {
				k := uint64(w*perWorker + i)
				keys[i] = k
				vals[i] = k * 3
			}
			tbl.Insert(keys, vals)
		}(w)
	}
	wg.Wait()

	if got := tbl.NumElts(); got != workers*perWorker {
		t.Fatalf("NumElts() = %d, want %d", got, workers*perWorker)
	}
	for w := 0; w < workers; w++ {
		for i := 0; i < perWorker; i++ {
			k := uint64(w*perWorker + i)
			got, ok := tbl.Search(k)
			if !ok || got != k*3 {
				t.Fatalf("Search(%d) = (%d,%v), want (%d,true)", k, got, ok, k*3)
			}
		}
	}
}

// Property 10: overlapping keys with a min reducer converge to the
// minimum inserted value per key, regardless of interleaving.
func TestOverlappingKeysMinReduction(t *testing.T) {
	minRdc := func(dst, src uint64) uint64 {
		if src < dst {
			return src
		}
		return dst
	}
	tbl := New[uint64, uint64](Options[uint64, uint64]{Hash: hashU64, Rdc: minRdc, NumShards: 4})

	const workers = 16
	const keys = 20
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			ks := make([]uint64, keys)
			vs := make([]uint64, keys)
			for i := 0; i < keys; i++ {
				ks[i] = uint64(i)
				vs[i] = uint64(workers - w) // worker 0 contributes the largest value, last worker the smallest
			}
			tbl.Insert(ks, vs)
		}(w)
	}
	wg.Wait()

	for i := 0; i < keys; i++ {
		got, ok := tbl.Search(uint64(i))
		if !ok || got != 1 {
			t.Fatalf("Search(%d) = (%d,%v), want (1,true)", i, got, ok)
		}
	}
}

func TestRemoveThenSearchAbsent(t *testing.T) {
	tbl := New[uint64, uint64](Options[uint64, uint64]{Hash: hashU64})
	tbl.Insert([]uint64{1, 2, 3}, []uint64{10, 20, 30})
	var freed []uint64
	tbl.Remove([]uint64{2}, func(e uint64) { freed = append(freed, e) })

	if _, ok := tbl.Search(2); ok {
		t.Fatal("Search(2) found a removed key")
	}
	if len(freed) != 1 || freed[0] != 20 {
		t.Fatalf("freed = %v, want [20]", freed)
	}
	if got, ok := tbl.Search(1); !ok || got != 10 {
		t.Fatalf("Search(1) = (%d,%v), want (10,true)", got, ok)
	}
}

func TestGrowAcrossManyBatches(t *testing.T) {
	tbl := New[uint64, uint64](Options[uint64, uint64]{Hash: hashU64, Alpha: 0.5, NumShards: 4, GrowWorkers: 2})
	const n = 5000
	batch := make([]uint64, 0, 50)
	vals := make([]uint64, 0, 50)
	for i := uint64(0); i < n; i++ {
		batch = append(batch, i)
		vals = append(vals, i*2)
		if len(batch) == 50 {
			tbl.Insert(batch, vals)
			batch = batch[:0]
			vals = vals[:0]
		}
	}
	if len(batch) > 0 {
		tbl.Insert(batch, vals)
	}
	if tbl.NumElts() != n {
		t.Fatalf("NumElts() = %d, want %d", tbl.NumElts(), n)
	}
	for i := uint64(0); i < n; i++ {
		if got, ok := tbl.Search(i); !ok || got != i*2 {
			t.Fatalf("Search(%d) = (%d,%v), want (%d,true)", i, got, ok, i*2)
		}
	}
}
