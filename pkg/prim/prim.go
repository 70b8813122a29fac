// Package prim implements minimum spanning tree construction over a
// pkg/graph adjacency list, sharing pkg/dijkstra's heap-based structure
// but relaxing on raw edge weight instead of accumulated path distance.
package prim

import (
	"github.com/oisee/graphkernel/pkg/graph"
	"github.com/oisee/graphkernel/pkg/heap"
)

// Result holds the per-vertex outputs of a single run. Dist[v] is the
// weight of the MST edge connecting v to its parent Prev[v]; both are
// meaningless for v == start and left at Unreached / the zero value for
// vertices outside start's connected component.
type Result[WT any] struct {
	Dist      []WT
	Prev      []int
	Unreached int
}

// Run builds a minimum spanning tree of start's connected component.
// cmp orders two weights like strings.Compare.
func Run[WT any](g *graph.Graph[WT], start int, cmp func(a, b WT) int) Result[WT] {
	n := g.NumVertices()
	dist := make([]WT, n)
	prev := make([]int, n)
	for i := range prev {
		prev[i] = n
	}
	prev[start] = start

	var zero WT
	h := heap.New[WT, int](cmp, heap.NewDenseIndex[int](n, func(v int) int { return v }))
	h.Push(zero, start)

	for h.Len() > 0 {
		_, u, _ := h.Pop()
		for _, e := range g.OutEdges(u) {
			v := e.To
			w := e.Weight
			if prev[v] == n {
				dist[v] = w
				prev[v] = u
				h.Push(w, v)
				continue
			}
			if _, ok := h.Search(v); ok && cmp(dist[v], w) > 0 {
				dist[v] = w
				prev[v] = u
				h.Update(w, v)
			}
		}
	}
	return Result[WT]{Dist: dist, Prev: prev, Unreached: n}
}
