package matching_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/katalvlaran/matchcycle/core"
	"github.com/katalvlaran/matchcycle/matching"
)

// buildRandomGraph returns an undirected graph on v vertices where each pair
// is an edge with probability p and weight in [1, maxWeight].
func buildRandomGraph(v int, p float64, maxWeight int64, seed int64) *core.Graph {
	r := rand.New(rand.NewSource(seed))
	g := core.NewGraph(core.WithCapacity(v))
	for i := 0; i < v; i++ {
		_ = g.AddVertex(fmt.Sprintf("v%04d", i))
	}
	for i := 0; i < v; i++ {
		for j := i + 1; j < v; j++ {
			if r.Float64() < p {
				_, _ = g.AddEdge(fmt.Sprintf("v%04d", i), fmt.Sprintf("v%04d", j), 1+r.Int63n(maxWeight))
			}
		}
	}
	return g
}

// BenchmarkMaxWeight covers pool sizes typical of an organisation-wide round.
func BenchmarkMaxWeight(b *testing.B) {
	cases := []struct {
		name     string
		vertices int
		edgeProb float64
	}{
		{"Team_40_Dense", 40, 0.9},
		{"Org_200_Dense", 200, 0.9},
		{"Org_200_Sparse", 200, 0.1},
	}
	for _, tc := range cases {
		g := buildRandomGraph(tc.vertices, tc.edgeProb, 1_000_000, 42)
		b.Run(tc.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := matching.MaxWeight(g, matching.DefaultOptions()); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
