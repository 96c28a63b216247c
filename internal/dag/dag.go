// Package dag provides the lineage graph: tables and models as nodes, and
// one labeled edge per ordered (source, model) pair.
// Nodes and edges keep their first-reference order so rendering is stable.
package dag

import (
	"sort"

	"github.com/leapstack-labs/leapgraph/internal/catalog"
)

// Column is one entry of an edge label.
type Column struct {
	Name string           `json:"name"`
	Type catalog.DataType `json:"type"`
}

// Node represents a node in the graph.
type Node struct {
	// Index is the position in insertion order
	Index int
	// Name is the display name and the node identity
	Name string
}

// Edge is a directed edge from a source table to a model.
type Edge struct {
	From    string
	To      string
	Columns []Column
}

type edgeKey struct {
	from, to string
}

// Graph is a directed graph collapsed to at most one edge per ordered pair.
// It does not reject self-loops or cycles.
type Graph struct {
	nodes    []*Node
	byName   map[string]*Node
	edges    []*Edge
	byPair   map[edgeKey]*Edge
	parents  map[string][]string // child -> parents (sources)
	children map[string][]string // parent -> children (dependents)
}

// NewGraph creates a new empty graph.
func NewGraph() *Graph {
	return &Graph{
		byName:   make(map[string]*Node),
		byPair:   make(map[edgeKey]*Edge),
		parents:  make(map[string][]string),
		children: make(map[string][]string),
	}
}

// AddNode adds a node if it does not exist and returns it.
func (g *Graph) AddNode(name string) *Node {
	if n, exists := g.byName[name]; exists {
		return n
	}
	n := &Node{Index: len(g.nodes), Name: name}
	g.nodes = append(g.nodes, n)
	g.byName[name] = n
	return n
}

// SetEdge adds the edge from -> to, creating missing nodes. If the pair
// already exists its label is replaced.
func (g *Graph) SetEdge(from, to string, columns []Column) *Edge {
	g.AddNode(from)
	g.AddNode(to)

	key := edgeKey{from: from, to: to}
	if e, exists := g.byPair[key]; exists {
		e.Columns = columns
		return e
	}

	e := &Edge{From: from, To: to, Columns: columns}
	g.edges = append(g.edges, e)
	g.byPair[key] = e
	g.children[from] = append(g.children[from], to)
	g.parents[to] = append(g.parents[to], from)
	return e
}

// Node returns a node by name.
func (g *Graph) Node(name string) (*Node, bool) {
	n, ok := g.byName[name]
	return n, ok
}

// Edge returns the edge for an ordered pair.
func (g *Graph) Edge(from, to string) (*Edge, bool) {
	e, ok := g.byPair[edgeKey{from: from, to: to}]
	return e, ok
}

// Nodes returns nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	return g.nodes
}

// Edges returns edges in first-occurrence order.
func (g *Graph) Edges() []*Edge {
	return g.edges
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Parents returns the sources feeding a node.
func (g *Graph) Parents(name string) []string {
	return g.parents[name]
}

// Children returns the models reading from a node.
func (g *Graph) Children(name string) []string {
	return g.children[name]
}

// Roots returns nodes with no parents, sorted.
func (g *Graph) Roots() []string {
	var roots []string
	for _, n := range g.nodes {
		if len(g.Parents(n.Name)) == 0 {
			roots = append(roots, n.Name)
		}
	}
	sort.Strings(roots)
	return roots
}

// Leaves returns nodes with no children, sorted.
func (g *Graph) Leaves() []string {
	var leaves []string
	for _, n := range g.nodes {
		if len(g.Children(n.Name)) == 0 {
			leaves = append(leaves, n.Name)
		}
	}
	sort.Strings(leaves)
	return leaves
}

// HasCycle returns true if the graph contains a cycle, along with the cycle path.
func (g *Graph) HasCycle() (bool, []string) {
	visited := make(map[string]bool)
	recStack := make(map[string]bool)
	path := make(map[string]string)

	var cyclePath []string

	var dfs func(name string) bool
	dfs = func(name string) bool {
		visited[name] = true
		recStack[name] = true

		for _, child := range g.Children(name) {
			if !visited[child] {
				path[child] = name
				if dfs(child) {
					return true
				}
			} else if recStack[child] {
				cyclePath = []string{child}
				for curr := name; curr != child; curr = path[curr] {
					cyclePath = append([]string{curr}, cyclePath...)
				}
				cyclePath = append([]string{child}, cyclePath...)
				return true
			}
		}

		recStack[name] = false
		return false
	}

	for _, n := range g.nodes {
		if !visited[n.Name] {
			if dfs(n.Name) {
				return true, cyclePath
			}
		}
	}

	return false, nil
}
