// Package render encodes a lineage graph as DOT, Mermaid or JSON.
//
// Edge labels are kept as column lists in the graph and only turned into
// text here: one "<column> - <type>" line per column.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/leapstack-labs/leapgraph/internal/dag"
)

// Format selects an encoder.
type Format string

// Supported formats.
const (
	FormatDOT     Format = "dot"
	FormatMermaid Format = "mermaid"
	FormatJSON    Format = "json"
)

// DefaultOutput is the file written when no output path is configured.
const DefaultOutput = "graph.dot"

// ErrUnknownFormat is returned for unsupported format names.
var ErrUnknownFormat = errors.New("unknown output format")

// Formats lists the supported format names.
func Formats() []string {
	return []string{string(FormatDOT), string(FormatMermaid), string(FormatJSON)}
}

// ParseFormat validates a format name. The empty string selects DOT.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "":
		return FormatDOT, nil
	case FormatDOT, FormatMermaid, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q (want one of %s)", ErrUnknownFormat, s, strings.Join(Formats(), ", "))
}

// LabelLines returns the text lines of an edge label.
func LabelLines(e *dag.Edge) []string {
	lines := make([]string, len(e.Columns))
	for i, c := range e.Columns {
		lines[i] = fmt.Sprintf("%s - %s", c.Name, c.Type)
	}
	return lines
}

// Label returns the edge label with lines joined by sep.
func Label(e *dag.Edge, sep string) string {
	return strings.Join(LabelLines(e), sep)
}

// Render writes g to w in the given format.
func Render(w io.Writer, g *dag.Graph, f Format) error {
	switch f {
	case FormatDOT, "":
		return WriteDOT(w, g)
	case FormatMermaid:
		return WriteMermaid(w, g)
	case FormatJSON:
		return WriteJSON(w, g)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// WriteFile renders g in memory and then writes it to path, so a failed
// render leaves no partial file behind.
func WriteFile(path string, g *dag.Graph, f Format) error {
	var buf bytes.Buffer
	if err := Render(&buf, g, f); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil { //nolint:gosec // output is meant to be readable
		return fmt.Errorf("failed to write graph: %w", err)
	}
	return nil
}
