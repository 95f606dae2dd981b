package graphutil

// UndirectedEdge is a weighted edge with no inherent direction, used by
// the clock-domain multiway cut: weight is the width of
// data that would have to cross clock domains if its endpoints end up
// on different sides.
type UndirectedEdge struct {
	A, B   int
	Weight int
}

// flowNet is a mutable residual network for Edmonds-Karp max-flow,
// built fresh for each s-t min-cut computation the multiway-cut
// isolation heuristic needs.
type flowNet struct {
	n   int
	adj [][]*resEdge
}

type resEdge struct {
	to       int
	cap      int
	rev      *resEdge
}

func newFlowNet(n int) *flowNet {
	return &flowNet{n: n, adj: make([][]*resEdge, n)}
}

func (f *flowNet) addEdge(u, v, cap int) {
	e1 := &resEdge{to: v, cap: cap}
	e2 := &resEdge{to: u, cap: cap} // undirected: equal capacity both ways
	e1.rev = e2
	e2.rev = e1
	f.adj[u] = append(f.adj[u], e1)
	f.adj[v] = append(f.adj[v], e2)
}

// maxFlowMinCut runs Edmonds-Karp from s to t and returns the flow value
// along with the set of vertices reachable from s in the final residual
// graph (the s-side of the min cut). BFS always scans adjacency in
// insertion order and dequeues vertices in the order it discovers them,
// keeping the result deterministic.
func (f *flowNet) maxFlowMinCut(s, t int) (int, []bool) {
	total := 0
	for {
		parent := make([]*resEdge, f.n)
		parentVia := make([]int, f.n)
		for i := range parentVia {
			parentVia[i] = -1
		}
		visited := make([]bool, f.n)
		visited[s] = true
		queue := []int{s}
		for len(queue) > 0 && !visited[t] {
			v := queue[0]
			queue = queue[1:]
			for _, e := range f.adj[v] {
				if e.cap > 0 && !visited[e.to] {
					visited[e.to] = true
					parent[e.to] = e
					parentVia[e.to] = v
					queue = append(queue, e.to)
				}
			}
		}
		if !visited[t] {
			return total, visited
		}
		// bottleneck along the augmenting path
		bottleneck := int(^uint(0) >> 1)
		for v := t; v != s; v = parentVia[v] {
			e := parent[v]
			if e.cap < bottleneck {
				bottleneck = e.cap
			}
		}
		for v := t; v != s; v = parentVia[v] {
			e := parent[v]
			e.cap -= bottleneck
			e.rev.cap += bottleneck
		}
		total += bottleneck
	}
}

// MultiwayCut assigns every active vertex in [0,numVertices) to one of
// `terminals` (each a distinct vertex id already representing one merged
// clock source), by repeatedly isolating the cheapest-to-cut remaining
// terminal and removing its partition from consideration — the
// isolation-heuristic approximation for multiway cut. Vertices in a
// connected component containing no terminal at all are returned in
// `unassigned` instead of being forced onto one.
func MultiwayCut(numVertices int, edges []UndirectedEdge, terminals []int) (assignment []int, unassigned []int) {
	assignment = make([]int, numVertices)
	for i := range assignment {
		assignment[i] = -1
	}
	isTerminal := make([]bool, numVertices)
	termIndex := make([]int, numVertices)
	for i, t := range terminals {
		isTerminal[t] = true
		termIndex[t] = i
		assignment[t] = i
	}

	active := make([]bool, numVertices)
	for v := range active {
		active[v] = true
	}

	// Vertices unreachable (via any path) from every terminal can never
	// be assigned; detect and exclude them up front so the flow network
	// below only has to deal with vertices that have at least a chance.
	reach := reachableFromAny(numVertices, edges, terminals)
	for v := 0; v < numVertices; v++ {
		if !reach[v] {
			active[v] = false
			unassigned = append(unassigned, v)
		}
	}

	remaining := append([]int(nil), terminals...)
	for len(remaining) > 1 {
		type cutResult struct {
			termPos int // index into remaining
			value   int
			side    []bool
		}
		var best *cutResult
		for pos, t := range remaining {
			value, side := isolatingCut(numVertices, edges, active, t, remaining, pos)
			if best == nil || value < best.value {
				best = &cutResult{termPos: pos, value: value, side: side}
			}
		}
		t := remaining[best.termPos]
		for v := 0; v < numVertices; v++ {
			if active[v] && best.side[v] {
				assignment[v] = termIndex[t]
				active[v] = false
			}
		}
		remaining = append(append([]int(nil), remaining[:best.termPos]...), remaining[best.termPos+1:]...)
	}
	if len(remaining) == 1 {
		last := termIndex[remaining[0]]
		for v := 0; v < numVertices; v++ {
			if active[v] {
				assignment[v] = last
			}
		}
	}
	return assignment, unassigned
}

// isolatingCut computes the min cut between terminal t and a synthetic
// super-sink merging every other terminal still in `remaining`,
// restricted to currently-active vertices.
func isolatingCut(numVertices int, edges []UndirectedEdge, active []bool, t int, remaining []int, tPos int) (int, []bool) {
	superSink := numVertices // one extra synthetic vertex
	net := newFlowNet(numVertices + 1)
	otherTerm := make([]bool, numVertices)
	for i, rt := range remaining {
		if i != tPos {
			otherTerm[rt] = true
		}
	}
	for _, e := range edges {
		if !active[e.A] || !active[e.B] || e.A == e.B {
			continue
		}
		a, b := e.A, e.B
		if otherTerm[a] {
			a = superSink
		}
		if otherTerm[b] {
			b = superSink
		}
		if a == b {
			continue
		}
		net.addEdge(a, b, e.Weight)
	}
	value, reachable := net.maxFlowMinCut(t, superSink)
	side := make([]bool, numVertices)
	for v := 0; v < numVertices; v++ {
		side[v] = reachable[v]
	}
	return value, side
}

func reachableFromAny(numVertices int, edges []UndirectedEdge, terminals []int) []bool {
	adj := make([][]int, numVertices)
	for _, e := range edges {
		adj[e.A] = append(adj[e.A], e.B)
		adj[e.B] = append(adj[e.B], e.A)
	}
	visited := make([]bool, numVertices)
	var queue []int
	for _, t := range terminals {
		if !visited[t] {
			visited[t] = true
			queue = append(queue, t)
		}
	}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, n := range adj[v] {
			if !visited[n] {
				visited[n] = true
				queue = append(queue, n)
			}
		}
	}
	return visited
}
