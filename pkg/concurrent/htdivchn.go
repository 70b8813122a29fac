// Package concurrent implements a pthread-style concurrent variant of
// HT-DIVCHN: batched inserts from multiple goroutines proceed against a
// per-bucket-shard mutex while a "gate" stays open, and a grow phase
// closes the gate, drains in-flight inserters, cooperatively rehashes the
// table across a small worker pool, then reopens the gate. The pattern is
// the same gate/condition-variable discipline as a reader-writer barrier:
// many workers run concurrently in the "open" phase, and a single
// exclusive phase runs between batches, using a WaitGroup/goroutine
// fan-out to run the rehash tasks to completion before reopening.
package concurrent

import (
	"sync"
	"sync/atomic"

	"github.com/oisee/graphkernel/pkg/container"
	"github.com/oisee/graphkernel/pkg/htdivchn"
)

// ReduceElt combines the element already stored for a key (dst) with an
// incoming element for the same key (src) into the value that should be
// stored. Supplying one lets overlapping-key batches compose as a
// commutative monoid (e.g. min, max, sum) instead of "last writer wins".
type ReduceElt[E any] func(dst, src E) E

// Table is the concurrent HT-DIVCHN. Each bucket is owned by exactly one
// shard, and each shard has its own Arena — a key's shard lock is the
// only synchronization insertOne/removeOne need, since no other shard's
// goroutine ever touches that shard's arena or buckets.
type Table[K comparable, E any] struct {
	hash   htdivchn.HashKey[K]
	rdcElt ReduceElt[E] // nil: overlapping keys resolve last-writer-wins

	alpha float64

	gateMu       sync.Mutex
	gateOpenCond *sync.Cond
	gateOpen     bool
	numInThreads int

	primeIx int
	count   uint64
	numElts atomic.Uint64
	buckets []int32
	arenas  []*container.Arena[K, E] // len(arenas) == len(keyLocks); shard i owns arenas[i]

	keyLocks    []sync.Mutex
	keyLockMask uint64

	growWorkers int
}

// Options configures a new Table.
type Options[K comparable, E any] struct {
	Hash  htdivchn.HashKey[K] // required
	Rdc   ReduceElt[E]
	Alpha float64
	// NumShards sets the key-lock shard count, rounded up to a power of
	// two. Zero defaults to 64.
	NumShards int
	// GrowWorkers sets the number of goroutines that cooperatively
	// rehash on grow. Zero defaults to 4.
	GrowWorkers int
}

var growPrimes = [...]uint64{
	53, 97, 193, 389, 769, 1543, 3079, 6151, 12289, 24593,
	49157, 98317, 196613, 393241, 786433, 1572869, 3145739, 6291469,
	12582917, 25165843, 50331653, 100663319, 201326611, 402653189,
	805306457, 1610612741, 3221225473, 4294967291,
}

func nextPow2(n int) uint64 {
	p := uint64(1)
	for p < uint64(n) {
		p <<= 1
	}
	return p
}

// New creates an empty, gate-open concurrent table.
func New[K comparable, E any](opts Options[K, E]) *Table[K, E] {
	if opts.Hash == nil {
		panic("concurrent: Options.Hash is required")
	}
	alpha := opts.Alpha
	if alpha <= 0 {
		alpha = 0.75
	}
	shards := opts.NumShards
	if shards <= 0 {
		shards = 64
	}
	nshards := nextPow2(shards)
	growWorkers := opts.GrowWorkers
	if growWorkers <= 0 {
		growWorkers = 4
	}

	count := growPrimes[0]
	buckets := make([]int32, count)
	for i := range buckets {
		buckets[i] = container.Nil
	}
	arenas := make([]*container.Arena[K, E], nshards)
	for i := range arenas {
		arenas[i] = container.NewArena[K, E](int(count) / int(nshards))
	}

	t := &Table[K, E]{
		hash:        opts.Hash,
		rdcElt:      opts.Rdc,
		alpha:       alpha,
		gateOpen:    true,
		count:       count,
		buckets:     buckets,
		arenas:      arenas,
		keyLocks:    make([]sync.Mutex, nshards),
		keyLockMask: nshards - 1,
		growWorkers: growWorkers,
	}
	t.gateOpenCond = sync.NewCond(&t.gateMu)
	return t
}

func (t *Table[K, E]) bucketOf(k K) uint64 {
	return t.hash(k) % t.count
}

func (t *Table[K, E]) shardIx(bucket uint64) uint64 {
	return bucket & t.keyLockMask
}

func (t *Table[K, E]) shardOf(bucket uint64) *sync.Mutex {
	return &t.keyLocks[t.shardIx(bucket)]
}

func (t *Table[K, E]) arenaOf(bucket uint64) *container.Arena[K, E] {
	return t.arenas[t.shardIx(bucket)]
}

// enterGate waits for the gate to be open, then registers this goroutine
// as "in" — step 1 of the batched insert protocol.
func (t *Table[K, E]) enterGate() {
	t.gateMu.Lock()
	for !t.gateOpen {
		t.gateOpenCond.Wait()
	}
	t.numInThreads++
	t.gateMu.Unlock()
}

// exitGate deregisters this goroutine and, if it is the last one out and
// the load factor threshold has been crossed, closes the gate and grows
// the table before reopening it — steps 3-4 of the protocol.
func (t *Table[K, E]) exitGate() {
	t.gateMu.Lock()
	t.numInThreads--
	needsGrow := t.numInThreads == 0 &&
		t.primeIx < len(growPrimes)-1 &&
		float64(t.numElts.Load()) > t.alpha*float64(t.count)
	if needsGrow {
		t.gateOpen = false
	}
	t.gateMu.Unlock()

	if needsGrow {
		t.grow()
		t.gateMu.Lock()
		t.gateOpen = true
		t.gateMu.Unlock()
		t.gateOpenCond.Broadcast()
	}
}

// Insert performs a batched insert: every (key, elt) pair is applied
// under its bucket's shard lock while the gate is held open — the shard
// lock alone is sufficient because each shard owns its own Arena, so no
// goroutine working a different shard can ever observe a torn node pool.
// Then the departing goroutine triggers a grow if warranted.
func (t *Table[K, E]) Insert(keys []K, elts []E) {
	t.enterGate()
	for i := range keys {
		b := t.bucketOf(keys[i])
		lk := t.shardOf(b)
		lk.Lock()
		t.insertOne(b, keys[i], elts[i])
		lk.Unlock()
	}
	t.exitGate()
}

func (t *Table[K, E]) insertOne(b uint64, key K, elt E) {
	arena := t.arenaOf(b)
	for idx := t.buckets[b]; idx != container.Nil; idx = arena.Next(idx) {
		if arena.Key(idx) == key {
			if t.rdcElt != nil {
				elt = t.rdcElt(arena.Elt(idx), elt)
			}
			arena.SetElt(idx, elt)
			return
		}
	}
	arena.PushFront(&t.buckets[b], key, elt)
	t.numElts.Add(1)
}

// Remove batched-deletes every key present, invoking freeElt (if non-nil)
// on each removed element.
func (t *Table[K, E]) Remove(keys []K, freeElt func(E)) {
	t.enterGate()
	for _, k := range keys {
		b := t.bucketOf(k)
		lk := t.shardOf(b)
		lk.Lock()
		t.removeOne(b, k, freeElt)
		lk.Unlock()
	}
	t.exitGate()
}

func (t *Table[K, E]) removeOne(b uint64, key K, freeElt func(E)) {
	arena := t.arenaOf(b)
	for idx := t.buckets[b]; idx != container.Nil; idx = arena.Next(idx) {
		if arena.Key(idx) == key {
			elt := arena.Elt(idx)
			arena.Unlink(&t.buckets[b], idx)
			t.numElts.Add(^uint64(0)) // -1
			if freeElt != nil {
				freeElt(elt)
			}
			return
		}
	}
}

// Search is a lock-free read over the current buckets/arenas. It is only
// well-defined during the quiescent phase after all batches have
// completed; behaviour racing with an in-flight batch is undefined.
func (t *Table[K, E]) Search(key K) (E, bool) {
	b := t.bucketOf(key)
	arena := t.arenaOf(b)
	for idx := t.buckets[b]; idx != container.Nil; idx = arena.Next(idx) {
		if arena.Key(idx) == key {
			return arena.Elt(idx), true
		}
	}
	var zero E
	return zero, false
}

// NumElts returns the number of keys currently stored. Like Search, only
// meaningful during a quiescent phase.
func (t *Table[K, E]) NumElts() uint64 { return t.numElts.Load() }

// grow rehashes every live entry into a freshly sized table, splitting
// the old buckets across growWorkers goroutines (a WaitGroup fan-out).
// Called with the gate already
// closed, so no inserter can observe a torn table. Each new shard gets a
// fresh Arena; since a rehash worker may land an entry in any new shard
// regardless of which old bucket range it is draining, the new shards'
// mutation is still serialized — but only for the duration of this one
// grow, via keyLocks, the same locks Insert/Remove use once the gate
// reopens.
func (t *Table[K, E]) grow() {
	oldBuckets := t.buckets
	oldArenas := t.arenas
	t.primeIx++
	newCount := growPrimes[t.primeIx]
	newBuckets := make([]int32, newCount)
	for i := range newBuckets {
		newBuckets[i] = container.Nil
	}
	nshards := len(t.keyLocks)
	newArenas := make([]*container.Arena[K, E], nshards)
	for i := range newArenas {
		newArenas[i] = container.NewArena[K, E](int(newCount) / nshards)
	}

	workers := t.growWorkers
	if workers > len(oldBuckets) {
		workers = len(oldBuckets)
	}
	if workers < 1 {
		workers = 1
	}
	chunk := (len(oldBuckets) + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > len(oldBuckets) {
			hi = len(oldBuckets)
		}
		if lo >= hi {
			continue
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for b := lo; b < hi; b++ {
				oldArena := oldArenas[uint64(b)&t.keyLockMask]
				for idx := oldBuckets[b]; idx != container.Nil; idx = oldArena.Next(idx) {
					k := oldArena.Key(idx)
					e := oldArena.Elt(idx)
					nb := t.hash(k) % newCount
					ns := nb & t.keyLockMask
					lk := &t.keyLocks[ns]
					lk.Lock()
					newArenas[ns].PushFront(&newBuckets[nb], k, e)
					lk.Unlock()
				}
			}
		}(lo, hi)
	}
	wg.Wait()

	t.count = newCount
	t.buckets = newBuckets
	t.arenas = newArenas
}
