package dijkstra

import (
	"reflect"
	"testing"

	"github.com/oisee/graphkernel/pkg/bfs"
	"github.com/oisee/graphkernel/pkg/graph"
)

func cmpInt(a, b int) int { return a - b }
func addInt(a, b int) int { return a + b }

func scenarioCGraph() *graph.Graph[int] {
	u := []int{0, 0, 0, 1}
	v := []int{1, 2, 3, 3}
	wts := []int{4, 3, 2, 1}
	return graph.UndirBuild(5, u, v, wts)
}

// The optimal shortest-path tree from 0 takes the 0->3->1 detour (cost 3)
// over the direct 0->1 edge (cost 4), per the optimality property.
func TestScenarioCOptimalDistances(t *testing.T) {
	g := scenarioCGraph()
	res := Run(g, 0, 0, cmpInt, addInt)

	wantDist := []int{0, 3, 3, 2, 0}
	if !reflect.DeepEqual(res.Dist, wantDist) {
		t.Fatalf("Dist = %v, want %v", res.Dist, wantDist)
	}
	wantPrev := []int{0, 3, 0, 0, 5}
	if !reflect.DeepEqual(res.Prev, wantPrev) {
		t.Fatalf("Prev = %v, want %v", res.Prev, wantPrev)
	}
	if res.Unreached != 5 {
		t.Fatalf("Unreached = %d, want 5", res.Unreached)
	}
}

// Property 5: Dijkstra with all weights equal to a constant c, dist/c,
// must equal BFS's distance array.
func TestEqualWeightsMatchBFS(t *testing.T) {
	u := []int{0, 0, 0, 1, 2}
	v := []int{1, 2, 3, 3, 4}
	const c = 5
	wts := make([]int, len(u))
	for i := range wts {
		wts[i] = c
	}
	wg := graug(u, v, wts)
	bg := graug(u, v, onesLike(u))

	dres := Run(wg, 0, 0, cmpInt, addInt)
	bres := bfs.Run(bg, 0)

	for v := range dres.Dist {
		got := dres.Dist[v] / c
		if dres.Prev[v] == dres.Unreached {
			got = bres.Unreached
		}
		if got != bres.Dist[v] {
			t.Fatalf("vertex %d: dist/c = %d, BFS dist = %d", v, got, bres.Dist[v])
		}
	}
}

func graug(u, v, wts []int) *graph.Graph[int] {
	n := 0
	for _, x := range append(append([]int{}, u...), v...) {
		if x+1 > n {
			n = x + 1
		}
	}
	return graph.UndirBuild(n, u, v, wts)
}

func onesLike(xs []int) []int {
	ones := make([]int, len(xs))
	for i := range ones {
		ones[i] = 1
	}
	return ones
}
