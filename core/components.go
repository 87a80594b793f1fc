package core

import "sort"

// Components returns the connected components of g, each as sorted vertex
// IDs, ordered by their smallest ID.
//
// A breadth-first walk is started from every unvisited vertex in sorted order
// and follows NeighborIDs, so the visit order is reproducible.
// An odd-sized component always leaves at least one of its vertices
// unmatched, which is what the pairing report uses it for.
func (g *Graph) Components() [][]string {
	ids := g.Vertices()
	visited := make(map[string]bool, len(ids))

	var out [][]string
	queue := make([]string, 0, len(ids))
	for _, root := range ids {
		if visited[root] {
			continue
		}
		visited[root] = true
		queue = append(queue[:0], root)
		comp := []string{}
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			comp = append(comp, id)
			nbs, err := g.NeighborIDs(id)
			if err != nil {
				continue // vertex vanished under a concurrent writer
			}
			for _, nb := range nbs {
				if !visited[nb] {
					visited[nb] = true
					queue = append(queue, nb)
				}
			}
		}
		sort.Strings(comp)
		out = append(out, comp)
	}

	return out
}
