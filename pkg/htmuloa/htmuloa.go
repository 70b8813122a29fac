// Package htmuloa implements HT-MULOA: a multiplicative-hashing, open
// addressing hash table with double-hash probing and placeholder
// tombstones. Each slot stores the key's two precomputed hash values
// alongside the key/element, so a grow only has to shift those hashes by
// the new index width rather than re-hash from scratch.
package htmuloa

import "github.com/oisee/graphkernel/pkg/bitutil"

// Two large odd 64-bit multiplicative constants standing in for
// "first_prime"/"second_prime". Neither is prime, and neither lies just
// below 2^64 (they are about 0.62 and 0.76 of it); Knuth-style
// multiplicative hashing only requires an odd constant with good
// bit-mixing, and these are the golden-ratio and murmur-style constants
// used throughout the ecosystem for exactly that.
const (
	firstPrime  uint64 = 0x9E3779B97F4A7C15
	secondPrime uint64 = 0xC2B2AE3D27D4EB4F
)

// ReduceKey hashes a key wider than one machine word down to the "std key"
// used for multiplicative hashing. For keys that already fit one word this
// is typically the identity.
type ReduceKey[K comparable] func(key K) uint64

type slotState uint8

const (
	slotEmpty slotState = iota
	slotFull
	slotPlaceholder
)

type slot[K comparable, E any] struct {
	state  slotState
	key    K
	elt    E
	h1, h2 uint64 // precomputed first/second hash of the std key
}

// Table is HT-MULOA.
type Table[K comparable, E any] struct {
	reduce  ReduceKey[K]
	freeElt func(E)

	alpha           float64
	logCount        int
	maxLogCount     int
	numElts         uint64
	numPlaceholders uint64
	maxNumProbes    int

	slots []slot[K, E]
}

// Options configures a new Table.
type Options[K comparable, E any] struct {
	Reduce  ReduceKey[K] // required
	FreeElt func(E)
	// Alpha bounds (num_elts+num_placeholders)/count. Zero defaults to 0.4,
	// the conventional bound for open addressing with double hashing.
	Alpha float64
	// MinLogCount sets the initial log2(count); zero defaults to 4 (count=16).
	MinLogCount int
}

// New creates an empty HT-MULOA table.
func New[K comparable, E any](opts Options[K, E]) *Table[K, E] {
	if opts.Reduce == nil {
		panic("htmuloa: Options.Reduce is required")
	}
	alpha := opts.Alpha
	if alpha <= 0 {
		alpha = 0.4
	}
	logCount := opts.MinLogCount
	if logCount <= 0 {
		logCount = 4
	}
	t := &Table[K, E]{
		reduce:      opts.Reduce,
		freeElt:     opts.FreeElt,
		alpha:       alpha,
		logCount:    logCount,
		maxLogCount: bitutil.WordBits - 1,
		slots:       make([]slot[K, E], 1<<uint(logCount)),
	}
	return t
}

func (t *Table[K, E]) count() uint64 { return uint64(1) << uint(t.logCount) }

// indexAndStep derives the initial probe index and odd step from a
// precomputed pair of hashes at the table's current logCount, per the
// spec's "recompute indices with only a bit shift" grow rule.
func (t *Table[K, E]) indexAndStep(h1, h2 uint64) (idx uint64, step uint64) {
	shift := uint(bitutil.WordBits - t.logCount)
	idx = h1 >> shift
	step = (h2 >> shift) | 1
	return idx, step
}

func (t *Table[K, E]) hashesOf(key K) (h1, h2 uint64) {
	std := t.reduce(key)
	return firstPrime * std, secondPrime * std
}

// Insert adds (key, elt), or replaces the element of an already-present
// key, invoking FreeElt on the discarded old element if one was configured.
func (t *Table[K, E]) Insert(key K, elt E) {
	h1, h2 := t.hashesOf(key)
	t.insertHashed(key, elt, h1, h2)
	if float64(t.numElts+t.numPlaceholders)/float64(t.count()) > t.alpha {
		if t.numElts < t.numPlaceholders {
			t.clean()
		} else if t.logCount < t.maxLogCount {
			t.grow()
		}
	}
}

func (t *Table[K, E]) insertHashed(key K, elt E, h1, h2 uint64) {
	idx, step := t.indexAndStep(h1, h2)
	count := t.count()
	firstPlaceholder := int64(-1)
	for probes := uint64(0); probes < count; probes++ {
		s := &t.slots[idx]
		switch s.state {
		case slotEmpty:
			target := idx
			if firstPlaceholder >= 0 {
				target = uint64(firstPlaceholder)
				t.numPlaceholders--
			}
			t.slots[target] = slot[K, E]{state: slotFull, key: key, elt: elt, h1: h1, h2: h2}
			t.numElts++
			if int(probes)+1 > t.maxNumProbes {
				t.maxNumProbes = int(probes) + 1
			}
			return
		case slotFull:
			if s.key == key {
				if t.freeElt != nil {
					t.freeElt(s.elt)
				}
				s.elt = elt
				return
			}
		case slotPlaceholder:
			if firstPlaceholder < 0 {
				firstPlaceholder = int64(idx)
			}
		}
		idx = (idx + step) % count
	}
	// Every slot visited (table saturated with placeholders/entries and no
	// empty slot found within one full cycle): fall back to the first
	// placeholder we passed, if any.
	if firstPlaceholder >= 0 {
		t.slots[firstPlaceholder] = slot[K, E]{state: slotFull, key: key, elt: elt, h1: h1, h2: h2}
		t.numPlaceholders--
		t.numElts++
		return
	}
	panic("htmuloa: insert found no empty slot or placeholder within one full probe cycle")
}

// Search returns the element stored for key, and whether key was present.
func (t *Table[K, E]) Search(key K) (E, bool) {
	h1, h2 := t.hashesOf(key)
	idx, step := t.indexAndStep(h1, h2)
	count := t.count()
	bound := uint64(t.maxNumProbes)
	if bound > count {
		bound = count
	}
	for probes := uint64(0); probes < bound; probes++ {
		s := &t.slots[idx]
		if s.state == slotEmpty {
			break
		}
		if s.state == slotFull && s.key == key {
			return s.elt, true
		}
		idx = (idx + step) % count
	}
	var zero E
	return zero, false
}

// Remove deletes key if present and returns its element, transferring
// ownership to the caller — FreeElt is NOT invoked.
func (t *Table[K, E]) Remove(key K) (E, bool) {
	h1, h2 := t.hashesOf(key)
	idx, step := t.indexAndStep(h1, h2)
	count := t.count()
	bound := uint64(t.maxNumProbes)
	if bound > count {
		bound = count
	}
	for probes := uint64(0); probes < bound; probes++ {
		s := &t.slots[idx]
		if s.state == slotEmpty {
			break
		}
		if s.state == slotFull && s.key == key {
			elt := s.elt
			var zero E
			s.elt = zero
			s.state = slotPlaceholder
			t.numElts--
			t.numPlaceholders++
			return elt, true
		}
		idx = (idx + step) % count
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

// NumElts returns the number of live keys currently stored.
func (t *Table[K, E]) NumElts() uint64 { return t.numElts }

// Count returns the current slot-array size.
func (t *Table[K, E]) Count() uint64 { return t.count() }

// LoadFactor returns (NumElts()+placeholders)/Count().
func (t *Table[K, E]) LoadFactor() float64 {
	return float64(t.numElts+t.numPlaceholders) / float64(t.count())
}

// Stats is a snapshot of a table's size and load for reporting.
type Stats struct {
	Count           uint64
	NumElts         uint64
	NumPlaceholders uint64
	LoadFactor      float64
}

// Stats returns a snapshot of the table's current size and load.
func (t *Table[K, E]) Stats() Stats {
	return Stats{
		Count:           t.count(),
		NumElts:         t.numElts,
		NumPlaceholders: t.numPlaceholders,
		LoadFactor:      t.LoadFactor(),
	}
}

// grow doubles the table and rehashes every live entry using only a shift
// of its precomputed hashes (no re-multiplication).
func (t *Table[K, E]) grow() {
	t.rebuild(t.logCount + 1)
}

// clean rehashes at the same size, compacting placeholders out. Used
// instead of grow when num_elts < num_placeholders.
func (t *Table[K, E]) clean() {
	t.rebuild(t.logCount)
}

func (t *Table[K, E]) rebuild(newLogCount int) {
	old := t.slots
	t.logCount = newLogCount
	t.slots = make([]slot[K, E], uint64(1)<<uint(newLogCount))
	t.numElts = 0
	t.numPlaceholders = 0
	t.maxNumProbes = 0
	for i := range old {
		if old[i].state != slotFull {
			continue
		}
		t.insertHashed(old[i].key, old[i].elt, old[i].h1, old[i].h2)
	}
}
