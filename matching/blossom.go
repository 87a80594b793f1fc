// File: blossom.go
// Role: Edmonds' blossom algorithm for maximum-weight matching on general
//       graphs, primal-dual form with O(n) stages of O(n²) work each.
// Representation:
//   - Vertices 0..n-1; blossoms n..2n-1 (allocated from a free list).
//   - Edge k has endpoints 2k (edges[k].I) and 2k+1 (edges[k].J);
//     endpoint p belongs to vertex endpoint[p], p^1 is the opposite end.
//   - mate[v] is the remote endpoint of v's matched edge, or -1.
//   - label: 0 free, 1 S (outer), 2 T (inner); 4|1 marks visits in scanBlossom.
// Arithmetic:
//   - Vertex duals start at the max weight and slack is d_i + d_j - 2w, so
//     with integer weights every dual stays integral and S-S slacks are
//     even, which makes δ3 (half a slack) exact in int64.
// Determinism:
//   - No maps and no randomness: the result depends only on the vertex and
//     edge order supplied by the caller.

package matching

import "context"

type solver struct {
	n         int
	edges     []IndexedEdge
	endpoint  []int
	neighbend [][]int

	mate     []int
	label    []int
	labelend []int

	inblossom        []int
	blossomparent    []int
	blossomchilds    [][]int
	blossombase      []int
	blossomendps     [][]int
	bestedge         []int
	blossombestedges [][]int // nil = unknown, non-nil (possibly empty) = cached list
	unusedblossoms   []int

	dualvar   []int64
	allowedge []bool
	queue     []int
}

func newSolver(n int, edges []IndexedEdge) *solver {
	s := &solver{n: n, edges: make([]IndexedEdge, len(edges))}

	var (
		k         int
		maxweight int64
	)
	for k = range edges {
		s.edges[k] = edges[k]
		if s.edges[k].W > maxweight {
			maxweight = s.edges[k].W
		}
	}

	s.endpoint = make([]int, 2*len(edges))
	s.neighbend = make([][]int, n)
	for k = range s.edges {
		s.endpoint[2*k] = s.edges[k].I
		s.endpoint[2*k+1] = s.edges[k].J
		s.neighbend[s.edges[k].I] = append(s.neighbend[s.edges[k].I], 2*k+1)
		s.neighbend[s.edges[k].J] = append(s.neighbend[s.edges[k].J], 2*k)
	}

	s.mate = filled(n, -1)
	s.label = make([]int, 2*n)
	s.labelend = filled(2*n, -1)
	s.inblossom = make([]int, n)
	s.blossomparent = filled(2*n, -1)
	s.blossomchilds = make([][]int, 2*n)
	s.blossombase = filled(2*n, -1)
	s.blossomendps = make([][]int, 2*n)
	s.bestedge = filled(2*n, -1)
	s.blossombestedges = make([][]int, 2*n)
	s.unusedblossoms = make([]int, 0, n)
	s.dualvar = make([]int64, 2*n)
	s.allowedge = make([]bool, len(edges))

	var v int
	for v = 0; v < n; v++ {
		s.inblossom[v] = v
		s.blossombase[v] = v
		s.dualvar[v] = maxweight
		s.unusedblossoms = append(s.unusedblossoms, n+v)
	}

	return s
}

func filled(n, val int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = val
	}

	return out
}

// slack returns the reduced cost of edge k; non-negative for feasible duals.
func (s *solver) slack(k int) int64 {
	e := s.edges[k]

	return s.dualvar[e.I] + s.dualvar[e.J] - 2*e.W
}

// leaves appends every vertex contained in (sub)blossom b to out.
func (s *solver) leaves(b int, out []int) []int {
	if b < s.n {
		return append(out, b)
	}
	for _, t := range s.blossomchilds[b] {
		if t < s.n {
			out = append(out, t)
		} else {
			out = s.leaves(t, out)
		}
	}

	return out
}

// assignLabel labels w's top-level blossom with t, reached via endpoint p.
// A T-blossom immediately labels its mate's blossom S.
func (s *solver) assignLabel(w, t, p int) {
	b := s.inblossom[w]
	s.label[w], s.label[b] = t, t
	s.labelend[w], s.labelend[b] = p, p
	s.bestedge[w], s.bestedge[b] = -1, -1
	switch t {
	case 1:
		s.queue = s.leaves(b, s.queue)
	case 2:
		base := s.blossombase[b]
		s.assignLabel(s.endpoint[s.mate[base]], 1, s.mate[base]^1)
	}
}

// scanBlossom walks back from v and w towards their tree roots. It returns
// the base of the new blossom if both paths meet, or -1 if they reach two
// different roots (an augmenting path).
func (s *solver) scanBlossom(v, w int) int {
	var (
		path []int
		base = -1
		b    int
	)
	for v != -1 || w != -1 {
		b = s.inblossom[v]
		if s.label[b]&4 != 0 {
			base = s.blossombase[b]
			break
		}
		path = append(path, b)
		s.label[b] = 5
		if s.labelend[b] == -1 {
			v = -1 // reached a root
		} else {
			v = s.endpoint[s.labelend[b]]
			b = s.inblossom[v]
			v = s.endpoint[s.labelend[b]]
		}
		if w != -1 {
			v, w = w, v
		}
	}
	for _, b = range path {
		s.label[b] = 1
	}

	return base
}

// addBlossom contracts the odd cycle closed by edge k into a new S-blossom
// with the given base.
func (s *solver) addBlossom(base, k int) {
	v, w := s.edges[k].I, s.edges[k].J
	bb := s.inblossom[base]
	bv := s.inblossom[v]
	bw := s.inblossom[w]

	b := s.unusedblossoms[len(s.unusedblossoms)-1]
	s.unusedblossoms = s.unusedblossoms[:len(s.unusedblossoms)-1]
	s.blossombase[b] = base
	s.blossomparent[b] = -1
	s.blossomparent[bb] = b

	// Trace back from v to the base.
	var path, endps []int
	for bv != bb {
		s.blossomparent[bv] = b
		path = append(path, bv)
		endps = append(endps, s.labelend[bv])
		v = s.endpoint[s.labelend[bv]]
		bv = s.inblossom[v]
	}
	path = append(path, bb)
	reverseInts(path)
	reverseInts(endps)
	endps = append(endps, 2*k)
	// Trace back from w to the base.
	for bw != bb {
		s.blossomparent[bw] = b
		path = append(path, bw)
		endps = append(endps, s.labelend[bw]^1)
		w = s.endpoint[s.labelend[bw]]
		bw = s.inblossom[w]
	}
	s.blossomchilds[b] = path
	s.blossomendps[b] = endps

	s.label[b] = 1
	s.labelend[b] = s.labelend[bb]
	s.dualvar[b] = 0
	for _, lv := range s.leaves(b, nil) {
		if s.label[s.inblossom[lv]] == 2 {
			// former T-vertices become S-vertices and must be scanned
			s.queue = append(s.queue, lv)
		}
		s.inblossom[lv] = b
	}

	// Least-slack edges from the new blossom to every neighbouring S-blossom.
	bestedgeto := filled(2*s.n, -1)
	for _, cb := range path {
		var nblists [][]int
		if s.blossombestedges[cb] == nil {
			for _, lv := range s.leaves(cb, nil) {
				lst := make([]int, len(s.neighbend[lv]))
				for i, p := range s.neighbend[lv] {
					lst[i] = p / 2
				}
				nblists = append(nblists, lst)
			}
		} else {
			nblists = [][]int{s.blossombestedges[cb]}
		}
		for _, nblist := range nblists {
			for _, k2 := range nblist {
				j := s.edges[k2].J
				if s.inblossom[j] == b {
					j = s.edges[k2].I
				}
				bj := s.inblossom[j]
				if bj != b && s.label[bj] == 1 &&
					(bestedgeto[bj] == -1 || s.slack(k2) < s.slack(bestedgeto[bj])) {
					bestedgeto[bj] = k2
				}
			}
		}
		s.blossombestedges[cb] = nil
		s.bestedge[cb] = -1
	}

	best := make([]int, 0, len(bestedgeto))
	for _, k2 := range bestedgeto {
		if k2 != -1 {
			best = append(best, k2)
		}
	}
	s.blossombestedges[b] = best
	s.bestedge[b] = -1
	for _, k2 := range best {
		if s.bestedge[b] == -1 || s.slack(k2) < s.slack(s.bestedge[b]) {
			s.bestedge[b] = k2
		}
	}
}

// expandBlossom dissolves top-level blossom b. Mid-stage (endstage=false) a
// T-blossom's children are relabelled so the alternating tree stays valid.
func (s *solver) expandBlossom(b int, endstage bool) {
	for _, sb := range s.blossomchilds[b] {
		s.blossomparent[sb] = -1
		switch {
		case sb < s.n:
			s.inblossom[sb] = sb
		case endstage && s.dualvar[sb] == 0:
			s.expandBlossom(sb, endstage)
		default:
			for _, lv := range s.leaves(sb, nil) {
				s.inblossom[lv] = sb
			}
		}
	}

	if !endstage && s.label[b] == 2 {
		childs := s.blossomchilds[b]
		endps := s.blossomendps[b]
		at := cyclic(len(childs))

		// Walk from the entry child to the base along the even-length side.
		entrychild := s.inblossom[s.endpoint[s.labelend[b]^1]]
		j := indexOf(childs, entrychild)
		jstep, endptrick := -1, 1
		if j&1 != 0 {
			j -= len(childs)
			jstep, endptrick = 1, 0
		}
		p := s.labelend[b]
		for j != 0 {
			s.label[s.endpoint[p^1]] = 0
			s.label[s.endpoint[endps[at(j-endptrick)]^endptrick^1]] = 0
			s.assignLabel(s.endpoint[p^1], 2, p)
			s.allowedge[endps[at(j-endptrick)]/2] = true
			j += jstep
			p = endps[at(j-endptrick)] ^ endptrick
			s.allowedge[p/2] = true
			j += jstep
		}
		// The base child becomes a T-blossom without relabelling its mate.
		bv := childs[at(j)]
		s.label[s.endpoint[p^1]], s.label[bv] = 2, 2
		s.labelend[s.endpoint[p^1]], s.labelend[bv] = p, p
		s.bestedge[bv] = -1
		j += jstep
		// Children on the odd-length side that are reachable get T labels.
		for childs[at(j)] != entrychild {
			bv = childs[at(j)]
			if s.label[bv] == 1 {
				j += jstep
				continue
			}
			v := -1
			for _, lv := range s.leaves(bv, nil) {
				if s.label[lv] != 0 {
					v = lv
					break
				}
			}
			if v != -1 {
				s.label[v] = 0
				s.label[s.endpoint[s.mate[s.blossombase[bv]]]] = 0
				s.assignLabel(v, 2, s.labelend[v])
			}
			j += jstep
		}
	}

	s.label[b], s.labelend[b] = -1, -1
	s.blossomchilds[b], s.blossomendps[b] = nil, nil
	s.blossombase[b] = -1
	s.blossombestedges[b] = nil
	s.bestedge[b] = -1
	s.unusedblossoms = append(s.unusedblossoms, b)
}

// augmentBlossom flips the matched/unmatched edges inside blossom b so that
// vertex v becomes its new base.
func (s *solver) augmentBlossom(b, v int) {
	t := v
	for s.blossomparent[t] != b {
		t = s.blossomparent[t]
	}
	if t >= s.n {
		s.augmentBlossom(t, v)
	}

	childs := s.blossomchilds[b]
	endps := s.blossomendps[b]
	at := cyclic(len(childs))
	i := indexOf(childs, t)
	j := i
	jstep, endptrick := -1, 1
	if i&1 != 0 {
		j -= len(childs)
		jstep, endptrick = 1, 0
	}
	for j != 0 {
		j += jstep
		t = childs[at(j)]
		p := endps[at(j-endptrick)] ^ endptrick
		if t >= s.n {
			s.augmentBlossom(t, s.endpoint[p])
		}
		j += jstep
		t = childs[at(j)]
		if t >= s.n {
			s.augmentBlossom(t, s.endpoint[p^1])
		}
		s.mate[s.endpoint[p]] = p ^ 1
		s.mate[s.endpoint[p^1]] = p
	}

	// Rotate so the new base child comes first.
	s.blossomchilds[b] = rotate(childs, i)
	s.blossomendps[b] = rotate(endps, i)
	s.blossombase[b] = s.blossombase[s.blossomchilds[b][0]]
}

// augmentMatching flips the augmenting path through edge k.
func (s *solver) augmentMatching(k int) {
	v, w := s.edges[k].I, s.edges[k].J
	for _, start := range [2][2]int{{v, 2*k + 1}, {w, 2 * k}} {
		sv, p := start[0], start[1]
		for {
			bs := s.inblossom[sv]
			if bs >= s.n {
				s.augmentBlossom(bs, sv)
			}
			s.mate[sv] = p
			if s.labelend[bs] == -1 {
				break // reached the root
			}
			t := s.endpoint[s.labelend[bs]]
			bt := s.inblossom[t]
			sv = s.endpoint[s.labelend[bt]]
			j := s.endpoint[s.labelend[bt]^1]
			if bt >= s.n {
				s.augmentBlossom(bt, j)
			}
			s.mate[j] = s.labelend[bt]
			p = s.labelend[bt] ^ 1
		}
	}
}

// run executes up to n stages; each stage either augments once or proves
// that no further improvement exists.
func (s *solver) run(ctx context.Context, maxCardinality bool) error {
	var (
		n    = s.n
		v, b int
	)
	for stage := 0; stage < n; stage++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		// Reset per-stage state.
		for b = 0; b < 2*n; b++ {
			s.label[b] = 0
			s.bestedge[b] = -1
		}
		for b = n; b < 2*n; b++ {
			s.blossombestedges[b] = nil
		}
		for k := range s.allowedge {
			s.allowedge[k] = false
		}
		s.queue = s.queue[:0]

		// Every exposed vertex roots a tree.
		for v = 0; v < n; v++ {
			if s.mate[v] == -1 && s.label[s.inblossom[v]] == 0 {
				s.assignLabel(v, 1, -1)
			}
		}

		augmented := false
		for {
			s.grow(&augmented)
			if augmented {
				break
			}

			deltatype, delta, deltaedge, deltablossom := s.delta(maxCardinality)

			// Update duals.
			for v = 0; v < n; v++ {
				switch s.label[s.inblossom[v]] {
				case 1:
					s.dualvar[v] -= delta
				case 2:
					s.dualvar[v] += delta
				}
			}
			for b = n; b < 2*n; b++ {
				if s.blossombase[b] >= 0 && s.blossomparent[b] == -1 {
					switch s.label[b] {
					case 1:
						s.dualvar[b] += delta
					case 2:
						s.dualvar[b] -= delta
					}
				}
			}

			if deltatype == 1 {
				break // optimum reached
			}
			switch deltatype {
			case 2:
				s.allowedge[deltaedge] = true
				i, j := s.edges[deltaedge].I, s.edges[deltaedge].J
				if s.label[s.inblossom[i]] == 0 {
					i = j
				}
				s.queue = append(s.queue, i)
			case 3:
				s.allowedge[deltaedge] = true
				s.queue = append(s.queue, s.edges[deltaedge].I)
			case 4:
				s.expandBlossom(deltablossom, false)
			}
		}

		if !augmented {
			break
		}

		// End of stage: expand S-blossoms whose dual dropped to zero.
		for b = n; b < 2*n; b++ {
			if s.blossomparent[b] == -1 && s.blossombase[b] >= 0 && s.label[b] == 1 && s.dualvar[b] == 0 {
				s.expandBlossom(b, true)
			}
		}
	}

	return nil
}

// grow scans queued S-vertices along tight edges until the queue drains or
// an augmenting path is applied.
func (s *solver) grow(augmented *bool) {
	for len(s.queue) > 0 && !*augmented {
		v := s.queue[len(s.queue)-1]
		s.queue = s.queue[:len(s.queue)-1]

		for _, p := range s.neighbend[v] {
			k := p / 2
			w := s.endpoint[p]
			if s.inblossom[v] == s.inblossom[w] {
				continue // internal edge
			}
			var kslack int64
			if !s.allowedge[k] {
				kslack = s.slack(k)
				if kslack <= 0 {
					s.allowedge[k] = true
				}
			}
			switch {
			case s.allowedge[k]:
				switch {
				case s.label[s.inblossom[w]] == 0:
					// w is free: grow the tree
					s.assignLabel(w, 2, p^1)
				case s.label[s.inblossom[w]] == 1:
					// S-S edge: blossom or augmenting path
					if base := s.scanBlossom(v, w); base >= 0 {
						s.addBlossom(base, k)
					} else {
						s.augmentMatching(k)
						*augmented = true
						return
					}
				case s.label[w] == 0:
					// w inside a T-blossom but not yet reached
					s.label[w] = 2
					s.labelend[w] = p ^ 1
				}
			case s.label[s.inblossom[w]] == 1:
				b := s.inblossom[v]
				if s.bestedge[b] == -1 || kslack < s.slack(s.bestedge[b]) {
					s.bestedge[b] = k
				}
			case s.label[w] == 0:
				if s.bestedge[w] == -1 || kslack < s.slack(s.bestedge[w]) {
					s.bestedge[w] = k
				}
			}
		}
	}
}

// delta picks the smallest dual adjustment:
//
//	1: min vertex dual (stops the stage; only without MaxCardinality)
//	2: least-slack edge from an S-vertex to a free vertex
//	3: half the least slack of an S-S edge between distinct blossoms
//	4: min dual of a top-level T-blossom (expands it)
func (s *solver) delta(maxCardinality bool) (deltatype int, delta int64, deltaedge, deltablossom int) {
	n := s.n
	deltatype, deltaedge, deltablossom = -1, -1, -1

	var (
		v, b int
		d    int64
	)
	if !maxCardinality {
		deltatype = 1
		delta = minDual(s.dualvar[:n])
	}
	for v = 0; v < n; v++ {
		if s.label[s.inblossom[v]] == 0 && s.bestedge[v] != -1 {
			d = s.slack(s.bestedge[v])
			if deltatype == -1 || d < delta {
				delta, deltatype, deltaedge = d, 2, s.bestedge[v]
			}
		}
	}
	for b = 0; b < 2*n; b++ {
		if s.blossomparent[b] == -1 && s.label[b] == 1 && s.bestedge[b] != -1 {
			d = s.slack(s.bestedge[b]) / 2
			if deltatype == -1 || d < delta {
				delta, deltatype, deltaedge = d, 3, s.bestedge[b]
			}
		}
	}
	for b = n; b < 2*n; b++ {
		if s.blossombase[b] >= 0 && s.blossomparent[b] == -1 && s.label[b] == 2 &&
			(deltatype == -1 || s.dualvar[b] < delta) {
			delta, deltatype, deltablossom = s.dualvar[b], 4, b
		}
	}
	if deltatype == -1 {
		// No further improvement possible with MaxCardinality; finish the stage.
		deltatype = 1
		delta = minDual(s.dualvar[:n])
		if delta < 0 {
			delta = 0
		}
	}

	return deltatype, delta, deltaedge, deltablossom
}

// mates converts remote endpoints into vertex indices.
func (s *solver) mates() []int {
	out := make([]int, s.n)
	for v := 0; v < s.n; v++ {
		out[v] = -1
		if s.mate[v] >= 0 {
			out[v] = s.endpoint[s.mate[v]]
		}
	}

	return out
}

func minDual(ds []int64) int64 {
	if len(ds) == 0 {
		return 0
	}
	m := ds[0]
	for _, d := range ds[1:] {
		if d < m {
			m = d
		}
	}

	return m
}

// cyclic returns an index normaliser for a slice of length l, mirroring
// negative indexing from the end.
func cyclic(l int) func(int) int {
	return func(j int) int { return ((j % l) + l) % l }
}

func indexOf(xs []int, x int) int {
	for i, y := range xs {
		if y == x {
			return i
		}
	}

	return -1
}

func reverseInts(xs []int) {
	for i, j := 0, len(xs)-1; i < j; i, j = i+1, j-1 {
		xs[i], xs[j] = xs[j], xs[i]
	}
}

func rotate(xs []int, i int) []int {
	out := make([]int, 0, len(xs))
	out = append(out, xs[i:]...)

	return append(out, xs[:i]...)
}
