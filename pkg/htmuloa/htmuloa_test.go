package htmuloa

import (
	"math/rand/v2"
	"testing"

	"github.com/oisee/graphkernel/pkg/bitutil"
)

func reduceU64(k uint64) uint64 { return k }

// reduceWideKey reduces a key wider than one machine word — here a string —
// to the std key HT-MULOA multiplies by its two odd constants, via the
// wrap-around word sum rather than the identity function used above.
func reduceWideKey(k string) uint64 { return bitutil.SumWords([]byte(k)) }

func TestWideKeyReducedBySumWords(t *testing.T) {
	tbl := New[string, int](Options[string, int]{Reduce: reduceWideKey})
	keys := []string{
		"",
		"a",
		"short",
		"exactly8",
		"more than eight bytes long",
		"a second string that also exceeds one machine word in length",
	}
	for i, k := range keys {
		tbl.Insert(k, i)
	}
	for i, k := range keys {
		got, ok := tbl.Search(k)
		if !ok || got != i {
			t.Fatalf("Search(%q) = (%d,%v), want (%d,true)", k, got, ok, i)
		}
	}
	if _, ok := tbl.Search("never inserted, but still over a word wide"); ok {
		t.Fatal("Search found a key that was never inserted")
	}
	if !tbl.Delete(keys[len(keys)-1]) {
		t.Fatal("Delete on a wide key = false, want true")
	}
	if _, ok := tbl.Search(keys[len(keys)-1]); ok {
		t.Fatal("Search found a wide key after Delete")
	}
}

func TestRoundTrip(t *testing.T) {
	tbl := New[uint64, uint64](Options[uint64, uint64]{Reduce: reduceU64})
	const n = 1 << 10
	for i := uint64(0); i < n; i++ {
		tbl.Insert(i, i*7+1)
	}
	for i := uint64(0); i < n; i++ {
		got, ok := tbl.Search(i)
		if !ok || got != i*7+1 {
			t.Fatalf("Search(%d) = (%d,%v), want (%d,true)", i, got, ok, i*7+1)
		}
	}
	for i := uint64(n); i < n+100; i++ {
		if _, ok := tbl.Search(i); ok {
			t.Fatalf("Search(%d): found but never inserted", i)
		}
	}
}

func TestDeleteThenCleanCompacts(t *testing.T) {
	tbl := New[uint64, uint64](Options[uint64, uint64]{Reduce: reduceU64, Alpha: 0.25, MinLogCount: 6})
	const n = 500
	for i := uint64(0); i < n; i++ {
		tbl.Insert(i, i)
	}
	before := tbl.NumElts()
	// Delete three keys of every four, leaving more placeholders than live
	// entries; later inserts should trigger a clean (compacting
	// placeholders) rather than an unbounded grow.
	for i := uint64(0); i < n; i++ {
		if i%4 == 3 {
			continue
		}
		if !tbl.Delete(i) {
			t.Fatalf("Delete(%d) = false, want true", i)
		}
	}
	if tbl.NumElts() != before/4 {
		t.Fatalf("NumElts() = %d, want %d", tbl.NumElts(), before/4)
	}
	for i := uint64(0); i < n; i++ {
		if i%4 == 3 {
			continue
		}
		if _, ok := tbl.Search(i); ok {
			t.Fatalf("Search(%d) found a deleted key", i)
		}
	}
	for i := uint64(3); i < n; i += 4 {
		if got, ok := tbl.Search(i); !ok || got != i {
			t.Fatalf("Search(%d) = (%d,%v), want (%d,true)", i, got, ok, i)
		}
	}
	// More inserts after heavy deletion should still round-trip correctly
	// (exercises the clean-vs-grow branch).
	for i := uint64(n); i < n+n/2; i++ {
		tbl.Insert(i, i)
	}
	for i := uint64(n); i < n+n/2; i++ {
		if got, ok := tbl.Search(i); !ok || got != i {
			t.Fatalf("Search(%d) = (%d,%v), want (%d,true)", i, got, ok, i)
		}
	}
}

func TestScenarioFAnalogue(t *testing.T) {
	const n = 1 << 12
	tbl := New[uint64, uint64](Options[uint64, uint64]{Reduce: reduceU64, Alpha: 0.4})
	rng := rand.New(rand.NewPCG(5, 6))
	seen := make(map[uint64]bool, n)
	keys := make([]uint64, n)
	for i := range keys {
		var k uint64
		for {
			k = rng.Uint64()
			if !seen[k] {
				seen[k] = true
				break
			}
		}
		keys[i] = k
		tbl.Insert(k, k^0xABCD1234)
	}
	for _, k := range keys {
		got, ok := tbl.Search(k)
		if !ok || got != k^0xABCD1234 {
			t.Fatalf("Search(%d) = (%d,%v), want (%d,true)", k, got, ok, k^0xABCD1234)
		}
	}
}

func TestScenarioGAnalogue(t *testing.T) {
	tbl := New[uint64, uint64](Options[uint64, uint64]{Reduce: reduceU64})
	const n = 1 << 12
	for i := uint64(0); i < n; i++ {
		tbl.Insert(7, i)
	}
	if tbl.NumElts() != 1 {
		t.Fatalf("NumElts() = %d, want 1", tbl.NumElts())
	}
	got, ok := tbl.Search(7)
	if !ok || got != n-1 {
		t.Fatalf("Search(7) = (%d,%v), want (%d,true)", got, ok, n-1)
	}
}

func TestFreeEltCalledOnReplaceAndDelete(t *testing.T) {
	var freed []int
	tbl := New[uint64, int](Options[uint64, int]{
		Reduce:  reduceU64,
		FreeElt: func(e int) { freed = append(freed, e) },
	})
	tbl.Insert(1, 100)
	tbl.Insert(1, 200)
	tbl.Delete(1)

	want := []int{100, 200}
	if len(freed) != len(want) {
		t.Fatalf("freed = %v, want %v", freed, want)
	}
	for i := range want {
		if freed[i] != want[i] {
			t.Fatalf("freed = %v, want %v", freed, want)
		}
	}
}
