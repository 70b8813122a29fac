// Package bfs implements unweighted breadth-first traversal over a
// pkg/graph adjacency list, producing per-vertex distance and predecessor
// arrays.
package bfs

import (
	"github.com/oisee/graphkernel/pkg/container"
	"github.com/oisee/graphkernel/pkg/graph"
)

// Result holds the per-vertex outputs of a single BFS run. Unreached
// marks a vertex BFS never visited — it equals N, the vertex count, per
// the "prev[*] = N" sentinel convention (N also never appears as a valid
// vertex id, since vertices are 0..N-1).
type Result struct {
	Dist     []int
	Prev     []int
	Unreached int
}

// Run traverses g from start, ignoring edge weights. dist[v] is the
// minimum number of edges from start to v; prev[v] is the predecessor of
// v along a shortest path. Both are Result.Unreached for vertices BFS
// never visits; dist[start] = 0 and prev[start] = start.
func Run[WT any](g *graph.Graph[WT], start int) Result {
	n := g.NumVertices()
	dist := make([]int, n)
	prev := make([]int, n)
	for i := range prev {
		prev[i] = n
		dist[i] = n
	}
	dist[start] = 0
	prev[start] = start

	q := container.NewQueue[int](n)
	q.Enqueue(start)
	for !q.Empty() {
		u := q.Dequeue()
		for _, e := range g.OutEdges(u) {
			v := e.To
			if prev[v] == n {
				dist[v] = dist[u] + 1
				prev[v] = u
				q.Enqueue(v)
			}
		}
	}
	return Result{Dist: dist, Prev: prev, Unreached: n}
}
