// Package dijkstra implements single-source shortest paths over a
// pkg/graph adjacency list with non-negative weights, using pkg/heap for
// the priority queue.
package dijkstra

import (
	"github.com/oisee/graphkernel/pkg/graph"
	"github.com/oisee/graphkernel/pkg/heap"
)

// Result holds the per-vertex outputs of a single run. Unreached (= N,
// the vertex count) marks a vertex the search never reached; for those,
// Dist is left at the zero value of WT, and Prev is authoritative.
type Result[WT any] struct {
	Dist      []WT
	Prev      []int
	Unreached int
}

// Run finds shortest paths from start over non-negative weights. cmp
// orders two weights like strings.Compare; add combines a running
// distance with an edge weight. Behaviour on negative weights is
// undefined, per the heap's monotonicity assumption.
func Run[WT any](g *graph.Graph[WT], start int, zeroWt WT, cmp func(a, b WT) int, add func(a, b WT) WT) Result[WT] {
	n := g.NumVertices()
	dist := make([]WT, n)
	prev := make([]int, n)
	for i := range prev {
		prev[i] = n
	}
	dist[start] = zeroWt
	prev[start] = start

	h := heap.New[WT, int](cmp, heap.NewDenseIndex[int](n, func(v int) int { return v }))
	h.Push(zeroWt, start)

	for h.Len() > 0 {
		du, u, _ := h.Pop()
		for _, e := range g.OutEdges(u) {
			v := e.To
			sum := add(du, e.Weight)
			if prev[v] == n {
				dist[v] = sum
				prev[v] = u
				h.Push(sum, v)
				continue
			}
			if _, ok := h.Search(v); ok && cmp(dist[v], sum) > 0 {
				dist[v] = sum
				prev[v] = u
				h.Update(sum, v)
			}
		}
	}
	return Result[WT]{Dist: dist, Prev: prev, Unreached: n}
}
