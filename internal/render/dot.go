package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/leapstack-labs/leapgraph/internal/dag"
)

// dotEscaper escapes a string for a double-quoted DOT ID. Line breaks
// become the "\n" escape, which Graphviz renders as a centered line break.
var dotEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\r\n", `\n`,
	"\n", `\n`,
)

func quoteDOT(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}

// WriteDOT writes g as a Graphviz digraph. Nodes are numbered in insertion
// order and carry their name as label.
//
//	digraph {
//	    0 [ label = "users" ]
//	    1 [ label = "active_users" ]
//	    0 -> 1 [ label = "user_id - String" ]
//	}
func WriteDOT(w io.Writer, g *dag.Graph) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "digraph {")
	for _, n := range g.Nodes() {
		fmt.Fprintf(bw, "    %d [ label = %s ]\n", n.Index, quoteDOT(n.Name))
	}
	for _, e := range g.Edges() {
		from, _ := g.Node(e.From)
		to, _ := g.Node(e.To)
		fmt.Fprintf(bw, "    %d -> %d [ label = %s ]\n", from.Index, to.Index, quoteDOT(Label(e, "\n")))
	}
	fmt.Fprintln(bw, "}")

	return bw.Flush()
}
