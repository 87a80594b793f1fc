package matching_test

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/matchcycle/core"
	"github.com/katalvlaran/matchcycle/matching"
)

// e is a compact fixture edge.
type e struct {
	i, j int
	w    int64
}

func vertexCount(es []e) int {
	n := 0
	for _, x := range es {
		if x.i+1 > n {
			n = x.i + 1
		}
		if x.j+1 > n {
			n = x.j + 1
		}
	}
	return n
}

func indexed(es []e) []matching.IndexedEdge {
	out := make([]matching.IndexedEdge, len(es))
	for k, x := range es {
		out[k] = matching.IndexedEdge{I: x.i, J: x.j, W: x.w}
	}
	return out
}

// score is (cardinality, weight) of a mate vector over es.
func score(t *testing.T, es []e, mate []int) (int, int64) {
	t.Helper()
	w := make(map[[2]int]int64, len(es))
	for _, x := range es {
		w[[2]int{x.i, x.j}] = x.w
		w[[2]int{x.j, x.i}] = x.w
	}
	var (
		card  int
		total int64
	)
	for v, u := range mate {
		if u < 0 {
			continue
		}
		require.Equal(t, v, mate[u], "mate must be symmetric")
		ew, ok := w[[2]int{v, u}]
		require.True(t, ok, "matched pair %d-%d is not an edge", v, u)
		if v < u {
			card++
			total += ew
		}
	}
	return card, total
}

// bruteForce enumerates every matching and returns the best score, where
// "best" is max weight, or (max cardinality, then max weight) when maxCard.
func bruteForce(n int, es []e, maxCard bool) (int, int64) {
	adj := make([][]e, n)
	for _, x := range es {
		adj[x.i] = append(adj[x.i], x)
		adj[x.j] = append(adj[x.j], e{x.j, x.i, x.w})
	}
	used := make([]bool, n)
	bestC, bestW := 0, int64(0)
	better := func(c int, w int64) bool {
		if maxCard {
			return c > bestC || (c == bestC && w > bestW)
		}
		return w > bestW
	}
	var rec func(v, c int, w int64)
	rec = func(v, c int, w int64) {
		for v < n && used[v] {
			v++
		}
		if v >= n {
			if better(c, w) {
				bestC, bestW = c, w
			}
			return
		}
		used[v] = true
		rec(v+1, c, w) // leave v single
		for _, x := range adj[v] {
			if !used[x.j] {
				used[x.j] = true
				rec(v+1, c+1, w+x.w)
				used[x.j] = false
			}
		}
		used[v] = false
	}
	rec(0, 0, 0)
	return bestC, bestW
}

// blossomFixtures are small graphs that force S-blossoms, T-blossoms,
// nested blossoms, relabelling and expansion during a stage.
var blossomFixtures = map[string][]e{
	"single":          {{0, 1, 1}},
	"path2":           {{1, 2, 10}, {2, 3, 11}},
	"path3":           {{1, 2, 5}, {2, 3, 11}, {3, 4, 5}},
	"s_blossom":       {{1, 2, 8}, {1, 3, 9}, {2, 3, 10}, {3, 4, 7}},
	"s_blossom_aug":   {{1, 2, 8}, {1, 3, 9}, {2, 3, 10}, {3, 4, 7}, {1, 6, 5}, {4, 5, 6}},
	"t_blossom_a":     {{1, 2, 9}, {1, 3, 8}, {2, 3, 10}, {1, 4, 5}, {4, 5, 4}, {1, 6, 3}},
	"t_blossom_b":     {{1, 2, 9}, {1, 3, 8}, {2, 3, 10}, {1, 4, 5}, {4, 5, 3}, {1, 6, 4}},
	"t_blossom_c":     {{1, 2, 9}, {1, 3, 8}, {2, 3, 10}, {1, 4, 5}, {4, 5, 3}, {3, 6, 4}},
	"s_nest":          {{1, 2, 9}, {1, 3, 9}, {2, 3, 10}, {2, 4, 8}, {3, 5, 8}, {4, 5, 10}, {5, 6, 6}},
	"s_relabel_nest":  {{1, 2, 10}, {1, 7, 10}, {2, 3, 12}, {3, 4, 20}, {3, 5, 20}, {4, 5, 25}, {5, 6, 10}, {6, 7, 10}, {7, 8, 8}},
	"s_nest_expand":   {{1, 2, 8}, {1, 3, 8}, {2, 3, 10}, {2, 4, 12}, {3, 5, 12}, {4, 5, 14}, {4, 6, 12}, {5, 7, 12}, {6, 7, 14}, {7, 8, 12}},
	"s_t_expand":      {{1, 2, 23}, {1, 5, 22}, {1, 6, 15}, {2, 3, 25}, {3, 4, 22}, {4, 5, 25}, {4, 8, 14}, {5, 7, 13}},
	"s_nest_t_expand": {{1, 2, 19}, {1, 3, 20}, {1, 8, 8}, {2, 3, 25}, {2, 4, 18}, {3, 5, 18}, {4, 5, 13}, {4, 7, 7}, {5, 6, 7}},
	"tnasty_expand":   {{1, 2, 45}, {1, 5, 45}, {2, 3, 50}, {3, 4, 45}, {4, 5, 50}, {1, 6, 30}, {3, 9, 35}, {4, 8, 35}, {5, 7, 26}, {9, 10, 5}},
	"tnasty2_expand":  {{1, 2, 45}, {1, 5, 45}, {2, 3, 50}, {3, 4, 45}, {4, 5, 50}, {1, 6, 30}, {3, 9, 35}, {4, 8, 26}, {5, 7, 40}, {9, 10, 5}},
	"t_leastslack":    {{1, 2, 45}, {1, 5, 45}, {2, 3, 50}, {3, 4, 45}, {4, 5, 50}, {1, 6, 30}, {3, 9, 35}, {4, 8, 28}, {5, 7, 26}, {9, 10, 5}},
	"nest_tnasty":     {{1, 2, 45}, {1, 7, 45}, {2, 3, 50}, {3, 4, 45}, {4, 5, 95}, {4, 6, 94}, {5, 6, 94}, {6, 7, 50}, {1, 8, 30}, {3, 11, 35}, {5, 9, 36}, {7, 10, 26}, {11, 12, 5}},
	"nest_relabel":    {{1, 2, 40}, {1, 3, 40}, {2, 3, 60}, {2, 4, 55}, {3, 5, 55}, {4, 5, 50}, {1, 8, 15}, {5, 7, 30}, {7, 6, 10}, {8, 10, 10}, {4, 9, 30}},
}

// SolverSuite checks the indexed solver against exhaustive enumeration.
type SolverSuite struct {
	suite.Suite
}

// TestFixtures_MatchBruteForce compares every fixture in both modes.
func (s *SolverSuite) TestFixtures_MatchBruteForce() {
	for name, es := range blossomFixtures {
		n := vertexCount(es)
		for _, maxCard := range []bool{false, true} {
			opts := matching.Options{MaxCardinality: maxCard}
			mate, err := matching.MaxWeightIndexed(n, indexed(es), opts)
			require.NoError(s.T(), err, name)
			gotC, gotW := score(s.T(), es, mate)
			wantC, wantW := bruteForce(n, es, maxCard)
			require.Equal(s.T(), wantW, gotW, "%s maxCard=%v weight", name, maxCard)
			if maxCard {
				require.Equal(s.T(), wantC, gotC, "%s cardinality", name)
			}
		}
	}
}

// TestKnownMates pins results whose optimum is unique.
func (s *SolverSuite) TestKnownMates() {
	cases := []struct {
		es      []e
		maxCard bool
		want    []int
	}{
		{blossomFixtures["path2"], false, []int{-1, -1, 3, 2}},
		{blossomFixtures["path3"], false, []int{-1, -1, 3, 2, -1}},
		{blossomFixtures["path3"], true, []int{-1, 2, 1, 4, 3}},
		{blossomFixtures["s_blossom"], false, []int{-1, 2, 1, 4, 3}},
		{blossomFixtures["s_blossom_aug"], false, []int{-1, 6, 3, 2, 5, 4, 1}},
	}
	for i, tc := range cases {
		mate, err := matching.MaxWeightIndexed(vertexCount(tc.es), indexed(tc.es), matching.Options{MaxCardinality: tc.maxCard})
		require.NoError(s.T(), err)
		require.Equal(s.T(), tc.want, mate, "case %d", i)
	}
}

// TestRandomGraphs_MatchBruteForce sweeps seeded random graphs with many
// equal weights, where ties and blossoms are frequent.
func (s *SolverSuite) TestRandomGraphs_MatchBruteForce() {
	rng := rand.New(rand.NewSource(20240611))
	for round := 0; round < 300; round++ {
		n := 1 + rng.Intn(10)
		p := 0.2 + 0.7*rng.Float64()
		var es []e
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if rng.Float64() < p {
					es = append(es, e{i, j, int64(1 + rng.Intn(6))})
				}
			}
		}
		for _, maxCard := range []bool{false, true} {
			mate, err := matching.MaxWeightIndexed(n, indexed(es), matching.Options{MaxCardinality: maxCard})
			require.NoError(s.T(), err)
			require.Len(s.T(), mate, n)
			gotC, gotW := score(s.T(), es, mate)
			wantC, wantW := bruteForce(n, es, maxCard)
			require.Equal(s.T(), wantW, gotW, "round %d n=%d maxCard=%v edges=%v", round, n, maxCard, es)
			if maxCard {
				require.Equal(s.T(), wantC, gotC, "round %d cardinality", round)
			}
		}
	}
}

// TestBadInput covers the indexed preconditions.
func (s *SolverSuite) TestBadInput() {
	_, err := matching.MaxWeightIndexed(2, []matching.IndexedEdge{{I: 0, J: 0, W: 1}}, matching.DefaultOptions())
	require.ErrorIs(s.T(), err, matching.ErrBadEdge)
	_, err = matching.MaxWeightIndexed(2, []matching.IndexedEdge{{I: 0, J: 2, W: 1}}, matching.DefaultOptions())
	require.ErrorIs(s.T(), err, matching.ErrBadEdge)
	_, err = matching.MaxWeightIndexed(2, []matching.IndexedEdge{{I: 0, J: 1, W: -1}}, matching.DefaultOptions())
	require.ErrorIs(s.T(), err, matching.ErrNegativeWeight)

	mate, err := matching.MaxWeightIndexed(0, nil, matching.DefaultOptions())
	require.NoError(s.T(), err)
	require.Empty(s.T(), mate)
}

func TestSolverSuite(t *testing.T) {
	suite.Run(t, new(SolverSuite))
}

func graphOf(es []e) *core.Graph {
	g := core.NewGraph()
	for _, x := range es {
		_, _ = g.AddEdge(fmt.Sprintf("p%02d", x.i), fmt.Sprintf("p%02d", x.j), x.w)
	}
	return g
}

func TestMaxWeight_Graph(t *testing.T) {
	g := graphOf(blossomFixtures["s_nest_expand"])
	m, err := matching.MaxWeight(g, matching.DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, m.Validate())

	var sum int64
	for _, p := range m.Pairs {
		require.Less(t, p.A, p.B)
		w, ok := g.Weight(p.A, p.B)
		require.True(t, ok)
		require.Equal(t, w, p.Weight)
		require.Equal(t, p.B, m.Mate[p.A])
		require.Equal(t, p.A, m.Mate[p.B])
		sum += w
	}
	require.Equal(t, sum, m.Weight)
	_, want := bruteForce(9, blossomFixtures["s_nest_expand"], true)
	require.Equal(t, want, m.Weight)
	require.Len(t, m.Pairs, 4)
	require.Empty(t, m.Uncovered(g.Vertices()))
}

func TestMaxWeight_EmptyAndDisconnected(t *testing.T) {
	m, err := matching.MaxWeight(core.NewGraph(), matching.DefaultOptions())
	require.NoError(t, err)
	require.Empty(t, m.Pairs)

	g := core.NewGraph()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, g.AddVertex(id))
	}
	m, err = matching.MaxWeight(g, matching.DefaultOptions())
	require.NoError(t, err)
	require.Empty(t, m.Pairs)
	require.Equal(t, []string{"a", "b", "c"}, m.Uncovered(g.Vertices()))

	// two components
	_, _ = g.AddEdge("a", "b", 3)
	_, _ = g.AddEdge("x", "y", 4)
	m, err = matching.MaxWeight(g, matching.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, m.Pairs, 2)
	require.Equal(t, []string{"c"}, m.Uncovered(g.Vertices()))

	_, err = matching.MaxWeight(nil, matching.DefaultOptions())
	require.ErrorIs(t, err, matching.ErrNilGraph)
}

func TestMaxWeight_Deterministic(t *testing.T) {
	// K6 with all-equal weights: many optimal matchings, one answer.
	g := core.NewGraph()
	ids := []string{"f", "e", "d", "c", "b", "a"}
	for i := range ids {
		for j := i + 1; j < len(ids); j++ {
			_, _ = g.AddEdge(ids[i], ids[j], 7)
		}
	}
	first, err := matching.MaxWeight(g, matching.DefaultOptions())
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := matching.MaxWeight(g, matching.DefaultOptions())
		require.NoError(t, err)
		require.Equal(t, first.Pairs, again.Pairs)
	}
	require.Len(t, first.Pairs, 3)
}

func TestMaxWeight_MaxCardinalityTradeoff(t *testing.T) {
	// a-b-c-d path where the middle edge outweighs both ends together.
	g := core.NewGraph()
	_, _ = g.AddEdge("a", "b", 1)
	_, _ = g.AddEdge("b", "c", 10)
	_, _ = g.AddEdge("c", "d", 1)

	m, err := matching.MaxWeight(g, matching.Options{MaxCardinality: false})
	require.NoError(t, err)
	require.Equal(t, []matching.Pair{{A: "b", B: "c", Weight: 10}}, m.Pairs)

	m, err = matching.MaxWeight(g, matching.Options{MaxCardinality: true})
	require.NoError(t, err)
	require.Len(t, m.Pairs, 2)
	require.Equal(t, int64(2), m.Weight)
}

func TestMaxWeight_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := matching.MaxWeight(graphOf(blossomFixtures["s_blossom"]), matching.Options{Ctx: ctx})
	require.ErrorIs(t, err, context.Canceled)
}

func TestMatching_Validate(t *testing.T) {
	m := &matching.Matching{Pairs: []matching.Pair{{A: "a", B: "b"}, {A: "b", B: "c"}}}
	require.ErrorIs(t, m.Validate(), matching.ErrNotAMatching)
}
