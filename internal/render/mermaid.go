package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/leapstack-labs/leapgraph/internal/dag"
)

// mermaidEscaper replaces characters that would end a quoted Mermaid label.
var mermaidEscaper = strings.NewReplacer(`"`, "#quot;")

// WriteMermaid writes g as a left-to-right Mermaid flowchart.
func WriteMermaid(w io.Writer, g *dag.Graph) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "flowchart LR")
	for _, n := range g.Nodes() {
		fmt.Fprintf(bw, "    %s[\"%s\"]\n", mermaidID(n), mermaidEscaper.Replace(n.Name))
	}
	for _, e := range g.Edges() {
		from, _ := g.Node(e.From)
		to, _ := g.Node(e.To)
		if len(e.Columns) == 0 {
			fmt.Fprintf(bw, "    %s --> %s\n", mermaidID(from), mermaidID(to))
			continue
		}
		label := mermaidEscaper.Replace(Label(e, "<br/>"))
		fmt.Fprintf(bw, "    %s -->|\"%s\"| %s\n", mermaidID(from), label, mermaidID(to))
	}

	return bw.Flush()
}

// mermaidID returns a Mermaid-safe node ID. Node names may contain dots or
// spaces, so IDs are positional.
func mermaidID(n *dag.Node) string {
	return fmt.Sprintf("n%d", n.Index)
}
