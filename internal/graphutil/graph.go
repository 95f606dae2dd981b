// Package graphutil holds the netlist's shared graph services: a small
// typed-id graph, an s-t min-cut (via max-flow), the multiway-cut
// isolation heuristic used by the clock assigner, and Dijkstra's
// algorithm, used by the query pass to confirm every flow's sinks are
// still reachable from its source before any latency is reported. The
// only contract across all of them is determinism: ties are always
// broken by ascending vertex/edge id, never by map iteration order, so
// that two runs of the compiler on the same input produce byte-identical
// output.
package graphutil

// VertexID and EdgeID are opaque small integers indexing into a Graph's
// internal slices.
type VertexID int
type EdgeID int

// Edge is a directed, weighted edge between two vertices.
type Edge struct {
	From, To VertexID
	Weight   int
}

// Graph is an adjacency-list directed graph with deterministic
// iteration: adjacency lists are walked in edge-insertion order, which
// is also ascending EdgeID order.
type Graph struct {
	numVertices int
	edges       []Edge
	out         [][]EdgeID // out[v] = edge ids leaving v, in insertion order
}

func New(numVertices int) *Graph {
	return &Graph{numVertices: numVertices, out: make([][]EdgeID, numVertices)}
}

func (g *Graph) NumVertices() int { return g.numVertices }

// AddEdge appends a new directed edge and returns its id.
func (g *Graph) AddEdge(from, to VertexID, weight int) EdgeID {
	id := EdgeID(len(g.edges))
	g.edges = append(g.edges, Edge{From: from, To: to, Weight: weight})
	g.out[from] = append(g.out[from], id)
	return id
}

func (g *Graph) Edge(id EdgeID) Edge { return g.edges[id] }

// Out returns the ids of edges leaving v, in insertion order.
func (g *Graph) Out(v VertexID) []EdgeID { return g.out[v] }

func (g *Graph) Edges() []Edge { return g.edges }
