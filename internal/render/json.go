package render

import (
	"encoding/json"
	"io"

	"github.com/leapstack-labs/leapgraph/internal/dag"
)

// GraphOutput is the JSON form of a lineage graph.
type GraphOutput struct {
	Nodes  []NodeOutput `json:"nodes"`
	Edges  []EdgeOutput `json:"edges"`
	Roots  []string     `json:"roots"`
	Leaves []string     `json:"leaves"`
}

// NodeOutput is one node with its direct neighbours.
type NodeOutput struct {
	Index      int      `json:"index"`
	Name       string   `json:"name"`
	Sources    []string `json:"sources"`
	Dependents []string `json:"dependents"`
}

// EdgeOutput is one edge with its columns and the rendered label.
type EdgeOutput struct {
	From    string       `json:"from"`
	To      string       `json:"to"`
	Columns []dag.Column `json:"columns"`
	Label   string       `json:"label"`
}

// NewGraphOutput converts g to its JSON form.
func NewGraphOutput(g *dag.Graph) GraphOutput {
	out := GraphOutput{
		Nodes: make([]NodeOutput, 0, g.NodeCount()),
		Edges: make([]EdgeOutput, 0, g.EdgeCount()),
		Roots:  nonNil(g.Roots()),
		Leaves: nonNil(g.Leaves()),
	}
	for _, n := range g.Nodes() {
		out.Nodes = append(out.Nodes, NodeOutput{
			Index:      n.Index,
			Name:       n.Name,
			Sources:    nonNil(g.Parents(n.Name)),
			Dependents: nonNil(g.Children(n.Name)),
		})
	}
	for _, e := range g.Edges() {
		columns := e.Columns
		if columns == nil {
			columns = []dag.Column{}
		}
		out.Edges = append(out.Edges, EdgeOutput{
			From:    e.From,
			To:      e.To,
			Columns: columns,
			Label:   Label(e, "\n"),
		})
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// WriteJSON writes g as indented JSON.
func WriteJSON(w io.Writer, g *dag.Graph) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewGraphOutput(g))
}
