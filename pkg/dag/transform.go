package dag

// BreakCycles removes back-edges found by a depth-first search from the
// graph's sources and returns how many were removed. Package metadata
// sometimes declares mutual dependencies; renderers that need a DAG call this
// first.
//
// The choice of edge per cycle is deterministic (insertion order) but not
// minimal.
func BreakCycles(g *DAG) int {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int)
	var back [][2]string

	var visit func(id string)
	visit = func(id string) {
		color[id] = gray
		for _, child := range g.Children(id) {
			switch color[child] {
			case white:
				visit(child)
			case gray:
				back = append(back, [2]string{id, child})
			}
		}
		color[id] = black
	}

	for _, n := range g.Sources() {
		if color[n.ID] == white {
			visit(n.ID)
		}
	}
	// nodes only reachable through a cycle
	for _, n := range g.Nodes() {
		if color[n.ID] == white {
			visit(n.ID)
		}
	}

	for _, e := range back {
		g.RemoveEdge(e[0], e[1])
	}
	return len(back)
}

// TransitiveReduction removes every edge u -> v for which v is also
// reachable from u through another child. A module declaring both okhttp and
// okio, where okhttp already depends on okio, keeps only module -> okhttp.
//
// Run BreakCycles first: on a cyclic graph every edge of a cycle is
// redundant. Reachability is O(V²) in memory.
func TransitiveReduction(g *DAG) {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return
	}

	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		index[n.ID] = i
	}
	adjacency := make([][]int, len(nodes))
	for _, e := range g.Edges() {
		adjacency[index[e.From]] = append(adjacency[index[e.From]], index[e.To])
	}
	reach := reachability(adjacency)

	for _, e := range g.Edges() {
		src, dst := index[e.From], index[e.To]
		for _, mid := range adjacency[src] {
			if mid != dst && reach[mid][dst] {
				g.RemoveEdge(e.From, e.To)
				break
			}
		}
	}
}

// reachability[i][j] is true when j is reachable from i (including i == j).
func reachability(adjacency [][]int) [][]bool {
	reach := make([][]bool, len(adjacency))
	for i := range reach {
		reach[i] = make([]bool, len(adjacency))
	}

	var visit func(src, cur int)
	visit = func(src, cur int) {
		if reach[src][cur] {
			return
		}
		reach[src][cur] = true
		for _, next := range adjacency[cur] {
			visit(src, next)
		}
	}
	for i := range reach {
		visit(i, i)
	}
	return reach
}
