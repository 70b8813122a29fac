// Package tsp implements the Held-Karp dynamic program for the minimum
// Hamiltonian cycle starting and ending at a chosen vertex, over a
// pkg/graph adjacency list.
package tsp

import (
	"errors"

	"github.com/oisee/graphkernel/pkg/graph"
)

// ErrSubsetTooWide is returned when the graph has more vertices than fit
// in the single machine word used to encode a visited-set bitmask. The
// general case (subsets that do not fit one word) calls for a pluggable,
// wider subset representation — a state table keyed by a multi-word mask
// hashed through htdivchn/htmuloa instead of a single uint64 — which is
// out of scope for the default table.
var ErrSubsetTooWide = errors.New("tsp: graph has more vertices than fit in a single subset word")

// ErrNoTourExists is returned when no Hamiltonian cycle through start
// exists in g.
var ErrNoTourExists = errors.New("tsp: no Hamiltonian cycle exists")

type state struct {
	mask uint64
	last int
}

// Run finds the minimum-cost Hamiltonian cycle starting and ending at
// start. cmp orders two weights like strings.Compare; add combines a
// running cost with an edge weight. Returns ErrSubsetTooWide if g has
// more than 64 vertices, or ErrNoTourExists if no cycle exists.
func Run[WT any](g *graph.Graph[WT], start int, zeroWt WT, cmp func(a, b WT) int, add func(a, b WT) WT) (WT, error) {
	var zero WT
	n := g.NumVertices()
	if n > 64 {
		return zero, ErrSubsetTooWide
	}
	if n == 0 {
		return zero, ErrNoTourExists
	}

	var fullMask uint64
	if n == 64 {
		fullMask = ^uint64(0)
	} else {
		fullMask = (uint64(1) << uint(n)) - 1
	}

	dp := map[state]WT{{mask: uint64(1) << uint(start), last: start}: zeroWt}
	for it := 1; it < n; it++ {
		next := make(map[state]WT, len(dp)*2)
		for s, cost := range dp {
			for _, e := range g.OutEdges(s.last) {
				v := e.To
				bit := uint64(1) << uint(v)
				if s.mask&bit != 0 {
					continue
				}
				ns := state{mask: s.mask | bit, last: v}
				nc := add(cost, e.Weight)
				if existing, ok := next[ns]; !ok || cmp(nc, existing) < 0 {
					next[ns] = nc
				}
			}
		}
		dp = next
		if len(dp) == 0 {
			break
		}
	}

	best := zero
	found := false
	for s, cost := range dp {
		if s.mask != fullMask {
			continue
		}
		for _, e := range g.OutEdges(s.last) {
			if e.To != start {
				continue
			}
			total := add(cost, e.Weight)
			if !found || cmp(total, best) < 0 {
				best = total
				found = true
			}
		}
	}
	if !found {
		return zero, ErrNoTourExists
	}
	return best, nil
}
