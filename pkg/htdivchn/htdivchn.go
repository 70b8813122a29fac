// Package htdivchn implements HT-DIVCHN: a division-hashing hash table with
// chained buckets. Each bucket is a doubly linked list of arena nodes
// (see pkg/container.Arena); insert of a present key replaces the element
// via the caller's FreeElt destructor (if any); grow advances through a
// fixed table of primes and rehashes every entry.
package htdivchn

import "github.com/oisee/graphkernel/pkg/container"

// HashKey reduces a key to the single machine word the division hash is
// taken modulo the bucket count. For keys that already fit one word this is
// typically the identity; for keys wider than one word it should be a
// wrap-around sum of the key's words (see bitutil.SumWords), per the
// spec's "read the key as a word, extending by zero" / "64-bit wrap-around
// sum" rule.
type HashKey[K comparable] func(key K) uint64

// Table is HT-DIVCHN: key_size/elt_size are implicit in the Go type
// parameters K, E rather than carried as byte counts, per the generics
// substitution the design notes call for.
type Table[K comparable, E any] struct {
	hash    HashKey[K]
	freeElt func(E) // nil for in-band elements that need no destructor

	alpha    float64
	primeIx  int
	count    uint64
	numElts  uint64
	buckets  []int32
	arena    *container.Arena[K, E]
}

// Options configures a new Table.
type Options[K comparable, E any] struct {
	Hash HashKey[K] // required
	// FreeElt, if non-nil, is invoked on the old element whenever Insert or
	// Delete discards one — the "out-of-band element" destructor case.
	FreeElt func(E)
	// Alpha bounds num_elts/count before a grow is triggered. Zero defaults
	// to 0.75.
	Alpha float64
	// MinNum, if nonzero, pre-advances past primes smaller than
	// ceil(MinNum/Alpha), avoiding early rehashes for a known workload size.
	MinNum uint64
}

// New creates an empty HT-DIVCHN table.
func New[K comparable, E any](opts Options[K, E]) *Table[K, E] {
	if opts.Hash == nil {
		panic("htdivchn: Options.Hash is required")
	}
	alpha := opts.Alpha
	if alpha <= 0 {
		alpha = 0.75
	}
	primeIx := 0
	if opts.MinNum > 0 {
		need := uint64(float64(opts.MinNum)/alpha) + 1
		primeIx = primeAtLeast(need)
	}
	count := growPrimes[primeIx]
	buckets := make([]int32, count)
	for i := range buckets {
		buckets[i] = container.Nil
	}
	return &Table[K, E]{
		hash:    opts.Hash,
		freeElt: opts.FreeElt,
		alpha:   alpha,
		primeIx: primeIx,
		count:   count,
		buckets: buckets,
		arena:   container.NewArena[K, E](int(count)),
	}
}

func (t *Table[K, E]) bucketOf(k K) uint64 {
	return t.hash(k) % t.count
}

// Insert adds (key, elt), or replaces the element of an already-present
// key. On replace, the old element is passed to FreeElt if one was
// configured.
func (t *Table[K, E]) Insert(key K, elt E) {
	b := t.bucketOf(key)
	for idx := t.buckets[b]; idx != container.Nil; idx = t.arena.Next(idx) {
		if t.arena.Key(idx) == key {
			if t.freeElt != nil {
				t.freeElt(t.arena.Elt(idx))
			}
			t.arena.SetElt(idx, elt)
			return
		}
	}
	t.arena.PushFront(&t.buckets[b], key, elt)
	t.numElts++
	if t.primeIx < len(growPrimes)-1 && float64(t.numElts)/float64(t.count) > t.alpha {
		t.grow()
	}
}

// Search returns the element stored for key, and whether key was present.
func (t *Table[K, E]) Search(key K) (E, bool) {
	b := t.bucketOf(key)
	for idx := t.buckets[b]; idx != container.Nil; idx = t.arena.Next(idx) {
		if t.arena.Key(idx) == key {
			return t.arena.Elt(idx), true
		}
	}
	var zero E
	return zero, false
}

// Remove deletes key if present and returns its element, transferring
// ownership to the caller — FreeElt is NOT invoked. Returns false if key
// was absent.
func (t *Table[K, E]) Remove(key K) (E, bool) {
	b := t.bucketOf(key)
	for idx := t.buckets[b]; idx != container.Nil; idx = t.arena.Next(idx) {
		if t.arena.Key(idx) == key {
			elt := t.arena.Elt(idx)
			t.arena.Unlink(&t.buckets[b], idx)
			t.numElts--
			return elt, true
		}
	}
	var zero E
	return zero, false
}

// Delete removes key if present, invoking FreeElt on its element if one was
// configured. Returns whether key was present.
func (t *Table[K, E]) Delete(key K) bool {
	elt, ok := t.Remove(key)
	if ok && t.freeElt != nil {
		t.freeElt(elt)
	}
	return ok
}

// NumElts returns the number of keys currently stored.
func (t *Table[K, E]) NumElts() uint64 {
	return t.numElts
}

// Count returns the current bucket-array size.
func (t *Table[K, E]) Count() uint64 {
	return t.count
}

// LoadFactor returns NumElts()/Count().
func (t *Table[K, E]) LoadFactor() float64 {
	return float64(t.numElts) / float64(t.count)
}

// Saturated reports whether the table has reached the last prime in the
// grow sequence — further inserts succeed but alpha is no longer
// bounded (spec's PrecisionSaturation).
func (t *Table[K, E]) Saturated() bool {
	return t.primeIx == len(growPrimes)-1
}

// Stats is a snapshot of a table's size and load for reporting.
type Stats struct {
	Count      uint64
	NumElts    uint64
	LoadFactor float64
	Saturated  bool
}

// Stats returns a snapshot of the table's current size and load.
func (t *Table[K, E]) Stats() Stats {
	return Stats{
		Count:      t.count,
		NumElts:    t.numElts,
		LoadFactor: t.LoadFactor(),
		Saturated:  t.Saturated(),
	}
}

// grow advances to the next prime and rehashes every live entry into a
// fresh bucket array and arena.
func (t *Table[K, E]) grow() {
	t.primeIx++
	newCount := growPrimes[t.primeIx]
	newBuckets := make([]int32, newCount)
	for i := range newBuckets {
		newBuckets[i] = container.Nil
	}
	newArena := container.NewArena[K, E](int(newCount))

	for b := range t.buckets {
		for idx := t.buckets[b]; idx != container.Nil; idx = t.arena.Next(idx) {
			k := t.arena.Key(idx)
			nb := t.hash(k) % newCount
			newArena.PushFront(&newBuckets[nb], k, t.arena.Elt(idx))
		}
	}

	t.count = newCount
	t.buckets = newBuckets
	t.arena = newArena
}
