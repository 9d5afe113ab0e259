// SPDX-License-Identifier: MIT

package weights

// Components returns the connected components of the neighbor graph, treating
// every relation as undirected. Components are ordered by their smallest matrix
// row and list unit IDs in BFS order from that row. Islands form singleton
// components.
//
// Time:   O(N + E).
// Memory: O(N + E) for the symmetric adjacency and visited flags.
func (w *W) Components() [][]string {
	n := len(w.ids)
	adj := make([][]int, n)
	for i, nbs := range w.neighbors {
		for _, j := range nbs {
			adj[i] = append(adj[i], j)
			adj[j] = append(adj[j], i) // duplicates are harmless: seen guards them
		}
	}

	seen := make([]bool, n)
	var comps [][]string
	for start := 0; start < n; start++ {
		if seen[start] {
			continue
		}
		queue := []int{start}
		seen[start] = true
		var comp []string
		for qi := 0; qi < len(queue); qi++ {
			u := queue[qi]
			comp = append(comp, w.ids[u])
			for _, v := range adj[u] {
				if !seen[v] {
					seen[v] = true
					queue = append(queue, v)
				}
			}
		}
		comps = append(comps, comp)
	}

	return comps
}
