package render

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/leapgraph/internal/catalog"
	"github.com/leapstack-labs/leapgraph/internal/dag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGraph() *dag.Graph {
	g := dag.NewGraph()
	g.SetEdge("users", "active_users", []dag.Column{{Name: "user_id", Type: catalog.String}})
	g.SetEdge("active_users", "reports", []dag.Column{
		{Name: "id", Type: catalog.String},
		{Name: "seen", Type: catalog.DateTime},
	})
	g.SetEdge("orders", "reports", nil)
	return g
}

func TestWriteDOT(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDOT(&buf, sampleGraph()))

	want := `digraph {
    0 [ label = "users" ]
    1 [ label = "active_users" ]
    2 [ label = "reports" ]
    3 [ label = "orders" ]
    0 -> 1 [ label = "user_id - String" ]
    1 -> 2 [ label = "id - String\nseen - DateTime" ]
    3 -> 2 [ label = "" ]
}
`
	assert.Equal(t, want, buf.String())
}

func TestWriteDOT_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDOT(&buf, dag.NewGraph()))
	assert.Equal(t, "digraph {\n}\n", buf.String())
}

func TestWriteDOT_Escaping(t *testing.T) {
	g := dag.NewGraph()
	g.SetEdge(`we"ird`, `back\slash`, nil)

	var buf bytes.Buffer
	require.NoError(t, WriteDOT(&buf, g))
	assert.Contains(t, buf.String(), `0 [ label = "we\"ird" ]`)
	assert.Contains(t, buf.String(), `1 [ label = "back\\slash" ]`)
}

func TestWriteMermaid(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMermaid(&buf, sampleGraph()))

	want := `flowchart LR
    n0["users"]
    n1["active_users"]
    n2["reports"]
    n3["orders"]
    n0 -->|"user_id - String"| n1
    n1 -->|"id - String<br/>seen - DateTime"| n2
    n3 --> n2
`
	assert.Equal(t, want, buf.String())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleGraph()))

	var out struct {
		Nodes []NodeOutput `json:"nodes"`
		Edges []struct {
			From    string `json:"from"`
			To      string `json:"to"`
			Columns []struct {
				Name string `json:"name"`
				Type string `json:"type"`
			} `json:"columns"`
			Label string `json:"label"`
		} `json:"edges"`
		Roots  []string `json:"roots"`
		Leaves []string `json:"leaves"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	require.Len(t, out.Nodes, 4)
	assert.Equal(t, NodeOutput{
		Index:      1,
		Name:       "active_users",
		Sources:    []string{"users"},
		Dependents: []string{"reports"},
	}, out.Nodes[1])
	assert.Equal(t, []string{}, out.Nodes[0].Sources)
	assert.Equal(t, []string{"active_users", "orders"}, out.Nodes[2].Sources)
	require.Len(t, out.Edges, 3)
	assert.Equal(t, "active_users", out.Edges[1].From)
	assert.Equal(t, "DateTime", out.Edges[1].Columns[1].Type)
	assert.Equal(t, "id - String\nseen - DateTime", out.Edges[1].Label)
	assert.NotNil(t, out.Edges[2].Columns)
	assert.Empty(t, out.Edges[2].Columns)
	assert.Equal(t, []string{"orders", "users"}, out.Roots)
	assert.Equal(t, []string{"reports"}, out.Leaves)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatDOT},
		{in: "dot", want: FormatDOT},
		{in: "MERMAID", want: FormatMermaid},
		{in: "json", want: FormatJSON},
		{in: "svg", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRender_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, sampleGraph(), Format("svg"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
	assert.Zero(t, buf.Len())
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.dot")

	require.NoError(t, WriteFile(path, sampleGraph(), FormatDOT))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "digraph {")

	bad := filepath.Join(dir, "bad.dot")
	require.Error(t, WriteFile(bad, sampleGraph(), Format("svg")))
	assert.NoFileExists(t, bad)

	err = WriteFile(filepath.Join(dir, "missing", "graph.dot"), sampleGraph(), FormatDOT)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
