package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/oisee/graphkernel/pkg/bfs"
	"github.com/oisee/graphkernel/pkg/dijkstra"
	"github.com/oisee/graphkernel/pkg/graph"
	"github.com/oisee/graphkernel/pkg/htdivchn"
	"github.com/oisee/graphkernel/pkg/htmuloa"
	"github.com/oisee/graphkernel/pkg/prim"
	"github.com/oisee/graphkernel/pkg/sortutil"
	"github.com/oisee/graphkernel/pkg/tsp"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "graphkernel",
		Short: "Graph and hash-table kernels — BFS, Dijkstra, Prim, TSP, mergesort",
	}

	var (
		edgesStr string
		numVts   int
		start    int
		undir    bool
	)
	addGraphFlags := func(cmd *cobra.Command) {
		cmd.Flags().StringVar(&edgesStr, "edges", "", `edge list, e.g. "0-1:4,0-2:3,0-3:2,1-3:1" (":weight" optional, default 1)`)
		cmd.Flags().IntVar(&numVts, "n", 0, "vertex count (0 = infer from edge list)")
		cmd.Flags().IntVar(&start, "start", 0, "start vertex")
		cmd.Flags().BoolVar(&undir, "undirected", false, "build both directions per edge")
	}

	bfsCmd := &cobra.Command{
		Use:   "bfs",
		Short: "Unweighted breadth-first shortest paths from --start",
		RunE: func(cmd *cobra.Command, args []string) error {
			u, v, _, n, err := parseEdges(edgesStr, numVts)
			if err != nil {
				return err
			}
			g := buildGraph(n, u, v, onesInt(len(u)), undir)
			res := bfs.Run(g, start)
			printDistPrev(res.Dist, res.Prev, res.Unreached)
			return nil
		},
	}
	addGraphFlags(bfsCmd)

	dijkstraCmd := &cobra.Command{
		Use:   "dijkstra",
		Short: "Non-negative-weight shortest paths from --start",
		RunE: func(cmd *cobra.Command, args []string) error {
			u, v, wts, n, err := parseEdges(edgesStr, numVts)
			if err != nil {
				return err
			}
			g := buildGraph(n, u, v, wts, undir)
			res := dijkstra.Run(g, start, 0, cmpInt, addInt)
			printDistPrev(res.Dist, res.Prev, res.Unreached)
			return nil
		},
	}
	addGraphFlags(dijkstraCmd)

	primCmd := &cobra.Command{
		Use:   "prim",
		Short: "Minimum spanning tree of --start's connected component",
		RunE: func(cmd *cobra.Command, args []string) error {
			u, v, wts, n, err := parseEdges(edgesStr, numVts)
			if err != nil {
				return err
			}
			g := buildGraph(n, u, v, wts, true) // MST is inherently undirected
			res := prim.Run(g, start, cmpInt)
			total := 0
			for vv := range res.Prev {
				if vv == start || res.Prev[vv] == res.Unreached {
					continue
				}
				total += res.Dist[vv]
			}
			printDistPrev(res.Dist, res.Prev, res.Unreached)
			fmt.Printf("total weight: %d\n", total)
			return nil
		},
	}
	addGraphFlags(primCmd)

	tspCmd := &cobra.Command{
		Use:   "tsp",
		Short: "Held-Karp minimum Hamiltonian cycle through --start",
		RunE: func(cmd *cobra.Command, args []string) error {
			u, v, wts, n, err := parseEdges(edgesStr, numVts)
			if err != nil {
				return err
			}
			g := buildGraph(n, u, v, wts, undir)
			cost, err := tsp.Run(g, start, 0, cmpInt, addInt)
			if err != nil {
				return err
			}
			fmt.Printf("tour cost: %d\n", cost)
			return nil
		},
	}
	addGraphFlags(tspCmd)

	var (
		sortN     int
		sbase     int
		mbase     int
		seedHigh  uint64
		seedLow   uint64
		sortDesc  bool
	)
	mergesortCmd := &cobra.Command{
		Use:   "mergesort",
		Short: "Parallel mergesort a random []int of size --n",
		RunE: func(cmd *cobra.Command, args []string) error {
			vals := randInts(sortN, seedHigh, seedLow)
			less := func(a, b int) bool { return a < b }
			if sortDesc {
				less = func(a, b int) bool { return a > b }
			}
			sortutil.MergesortPthread(vals, less, sortutil.Options{SbaseCount: sbase, MbaseCount: mbase})
			fmt.Printf("sorted %d values, first=%d last=%d\n", len(vals), firstOr(vals, 0), firstOr(vals, len(vals)-1))
			return nil
		},
	}
	mergesortCmd.Flags().IntVar(&sortN, "n", 1000, "number of random values to sort")
	mergesortCmd.Flags().IntVar(&sbase, "sbase", 0, "serial insertion-sort base case size (0 = default)")
	mergesortCmd.Flags().IntVar(&mbase, "mbase", 0, "serial merge base case size (0 = default)")
	mergesortCmd.Flags().Uint64Var(&seedHigh, "seed-hi", 1, "PCG seed high word")
	mergesortCmd.Flags().Uint64Var(&seedLow, "seed-lo", 2, "PCG seed low word")
	mergesortCmd.Flags().BoolVar(&sortDesc, "desc", false, "sort descending")

	var (
		httableN     int
		httableKind  string
		httableSeed1 uint64
		httableSeed2 uint64
	)
	httableCmd := &cobra.Command{
		Use:   "httable",
		Short: "Insert --n random u64 keys into HT-DIVCHN or HT-MULOA and report stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			rng := rand.New(rand.NewPCG(httableSeed1, httableSeed2))
			switch httableKind {
			case "divchn":
				tbl := htdivchn.New[uint64, uint64](htdivchn.Options[uint64, uint64]{
					Hash: func(k uint64) uint64 { return k },
				})
				for i := 0; i < httableN; i++ {
					k := rng.Uint64()
					tbl.Insert(k, k)
				}
				s := tbl.Stats()
				fmt.Printf("HT-DIVCHN: count=%d numElts=%d loadFactor=%.3f saturated=%v\n",
					s.Count, s.NumElts, s.LoadFactor, s.Saturated)
			case "muloa":
				tbl := htmuloa.New[uint64, uint64](htmuloa.Options[uint64, uint64]{
					Reduce: func(k uint64) uint64 { return k },
				})
				for i := 0; i < httableN; i++ {
					k := rng.Uint64()
					tbl.Insert(k, k)
				}
				s := tbl.Stats()
				fmt.Printf("HT-MULOA: count=%d numElts=%d numPlaceholders=%d loadFactor=%.3f\n",
					s.Count, s.NumElts, s.NumPlaceholders, s.LoadFactor)
			default:
				return fmt.Errorf("unknown --kind %q, want \"divchn\" or \"muloa\"", httableKind)
			}
			return nil
		},
	}
	httableCmd.Flags().IntVar(&httableN, "n", 10000, "number of random keys to insert")
	httableCmd.Flags().StringVar(&httableKind, "kind", "divchn", `table kind: "divchn" or "muloa"`)
	httableCmd.Flags().Uint64Var(&httableSeed1, "seed-hi", 1, "PCG seed high word")
	httableCmd.Flags().Uint64Var(&httableSeed2, "seed-lo", 2, "PCG seed low word")

	rootCmd.AddCommand(bfsCmd, dijkstraCmd, primCmd, tspCmd, httableCmd, mergesortCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func cmpInt(a, b int) int { return a - b }
func addInt(a, b int) int { return a + b }

func onesInt(n int) []int {
	ones := make([]int, n)
	for i := range ones {
		ones[i] = 1
	}
	return ones
}

func randInts(n int, seedHi, seedLo uint64) []int {
	rng := rand.New(rand.NewPCG(seedHi, seedLo))
	vals := make([]int, n)
	for i := range vals {
		vals[i] = rng.IntN(1_000_000)
	}
	return vals
}

func firstOr(s []int, i int) int {
	if i < 0 || i >= len(s) {
		return 0
	}
	return s[i]
}

// parseEdges parses "u-v", "u-v:w" pairs separated by commas. numVts, if
// nonzero, overrides the inferred vertex count (useful for trailing
// isolated vertices).
func parseEdges(s string, numVts int) (u, v, wts []int, n int, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil, nil, numVts, nil
	}
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		w := 1
		if i := strings.Index(tok, ":"); i >= 0 {
			w, err = strconv.Atoi(tok[i+1:])
			if err != nil {
				return nil, nil, nil, 0, fmt.Errorf("parsing weight in %q: %w", tok, err)
			}
			tok = tok[:i]
		}
		parts := strings.SplitN(tok, "-", 2)
		if len(parts) != 2 {
			return nil, nil, nil, 0, fmt.Errorf("malformed edge %q, want \"u-v\" or \"u-v:w\"", tok)
		}
		a, err1 := strconv.Atoi(parts[0])
		b, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil {
			return nil, nil, nil, 0, fmt.Errorf("malformed edge %q", tok)
		}
		u = append(u, a)
		v = append(v, b)
		wts = append(wts, w)
		if a+1 > n {
			n = a + 1
		}
		if b+1 > n {
			n = b + 1
		}
	}
	if numVts > n {
		n = numVts
	}
	return u, v, wts, n, nil
}

func buildGraph(n int, u, v, wts []int, undirected bool) *graph.Graph[int] {
	if undirected {
		return graph.UndirBuild(n, u, v, wts)
	}
	return graph.DirBuild(n, u, v, wts)
}

func printDistPrev(dist, prev []int, unreached int) {
	fmt.Printf("unreached sentinel: %d\n", unreached)
	for i := range dist {
		fmt.Printf("  v=%d dist=%d prev=%d\n", i, dist[i], prev[i])
	}
}
