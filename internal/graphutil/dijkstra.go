package graphutil

import "container/heap"

// Unreached is the distance Dijkstra leaves in place for any vertex it
// never settles — a vertex with no path from src.
const Unreached = int(^uint(0) >> 1)

// Dijkstra computes shortest-path distances from src to every reachable
// vertex, using non-negative edge weights. Ties in the priority queue
// are broken by ascending vertex id, keeping the result deterministic
// regardless of insertion order of equal-weight edges.
func Dijkstra(g *Graph, src VertexID) (dist []int, prev []EdgeID) {
	n := g.NumVertices()
	dist = make([]int, n)
	prev = make([]EdgeID, n)
	visited := make([]bool, n)
	for i := range dist {
		dist[i] = Unreached
		prev[i] = -1
	}
	dist[src] = 0

	pq := &vertexHeap{{vertex: src, dist: 0}}
	heap.Init(pq)
	for pq.Len() > 0 {
		top := heap.Pop(pq).(vertexDist)
		v := top.vertex
		if visited[v] {
			continue
		}
		visited[v] = true
		for _, eid := range g.Out(v) {
			e := g.Edge(eid)
			nd := dist[v] + e.Weight
			if nd < dist[e.To] || (nd == dist[e.To] && v < e.To) {
				dist[e.To] = nd
				prev[e.To] = eid
				heap.Push(pq, vertexDist{vertex: e.To, dist: nd})
			}
		}
	}
	return dist, prev
}

type vertexDist struct {
	vertex VertexID
	dist   int
}

type vertexHeap []vertexDist

func (h vertexHeap) Len() int { return len(h) }
func (h vertexHeap) Less(i, j int) bool {
	if h[i].dist != h[j].dist {
		return h[i].dist < h[j].dist
	}
	return h[i].vertex < h[j].vertex
}
func (h vertexHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *vertexHeap) Push(x any)   { *h = append(*h, x.(vertexDist)) }
func (h *vertexHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
