package seqgraph

import (
	"fmt"
	"io"
)

// Graph is a directed adjacency-list graph over a fixed set of row-index
// nodes. The pipeline uses it only as the linear chain 0→1→…→N−1 encoding
// day-to-day adjacency.
type Graph struct {
	adj   [][]int
	edges int
}

// New creates a graph with n nodes and no edges.
func New(n int) *Graph {
	if n < 0 {
		n = 0
	}
	return &Graph{adj: make([][]int, n)}
}

// AddEdge appends to to from's out-edge list. Ranges are not validated;
// callers are expected to pass indices in [0, n).
func (g *Graph) AddEdge(from, to int) {
	g.adj[from] = append(g.adj[from], to)
	g.edges++
}

// BuildChain wires the path 0→1→…→N−1, exactly N−1 edges.
func (g *Graph) BuildChain() {
	for i := 1; i < len(g.adj); i++ {
		g.AddEdge(i-1, i)
	}
}

// Nodes returns the fixed node count.
func (g *Graph) Nodes() int { return len(g.adj) }

// EdgeCount returns the number of edges added so far.
func (g *Graph) EdgeCount() int { return g.edges }

// OutEdges returns node's out-edge list in insertion order.
func (g *Graph) OutEdges(node int) []int { return g.adj[node] }

// Display writes nodes 0..N−1 with their out-edge lists in insertion order.
func (g *Graph) Display(w io.Writer) {
	for i, out := range g.adj {
		fmt.Fprintf(w, "node %d -> %v\n", i, out)
	}
}
