package lineage

import (
	"context"
	"log/slog"

	"github.com/leapstack-labs/leapgraph/internal/catalog"
	"github.com/leapstack-labs/leapgraph/internal/dag"
	"github.com/leapstack-labs/leapgraph/internal/ident"
	"github.com/leapstack-labs/leapgraph/internal/model"
)

// ModelSet is every model of one run plus the catalog they were typed against.
type ModelSet struct {
	catalog     *catalog.Catalog
	models      []*model.Model
	diagnostics []model.Diagnostic
}

// New assigns types to models and returns the set. Models are mutated in
// place; sibling lookups read from a snapshot taken before any assignment,
// so the result does not depend on the order models are visited.
func New(cat *catalog.Catalog, models []*model.Model, logger *slog.Logger) *ModelSet {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cat == nil {
		cat, _ = catalog.New(nil)
	}

	set := &ModelSet{catalog: cat, models: models}
	snapshot := model.NewSnapshot(models)
	for _, m := range models {
		diags := m.AssignDataTypes(cat, snapshot)
		for _, d := range diags {
			level := slog.LevelDebug
			if d.Kind == model.DiagAmbiguous {
				level = slog.LevelWarn
			}
			logger.Log(context.Background(), level, d.Message, "model", d.Model, "column", d.Column, "kind", string(d.Kind))
		}
		set.diagnostics = append(set.diagnostics, diags...)
	}
	return set
}

// Catalog returns the catalog the set was typed against.
func (s *ModelSet) Catalog() *catalog.Catalog {
	return s.catalog
}

// Models returns the models in load order.
func (s *ModelSet) Models() []*model.Model {
	return s.models
}

// Model returns the model named name.
func (s *ModelSet) Model(name string) (*model.Model, bool) {
	for _, m := range s.models {
		if ident.Equal(m.Name, name) {
			return m, true
		}
	}
	return nil, false
}

// Diagnostics returns every non-fatal resolution outcome, in model order.
func (s *ModelSet) Diagnostics() []model.Diagnostic {
	return s.diagnostics
}

// Graph builds the lineage graph. For each model and each of its source
// tables, in order, an edge runs from the table's display name to the
// model, labeled with the columns drawn from that table. A source that names
// a model in the set uses the model's own spelling, so case differences
// between SQL and file names do not split a node.
func (s *ModelSet) Graph() *dag.Graph {
	g := dag.NewGraph()
	for _, m := range s.models {
		for _, src := range m.Tables {
			items := m.ItemsFrom(src)
			columns := make([]dag.Column, 0, len(items))
			for _, it := range items {
				columns = append(columns, dag.Column{Name: it.DisplayName(), Type: it.DataType})
			}
			g.SetEdge(s.nodeName(src), m.Name, columns)
		}
	}
	return g
}

func (s *ModelSet) nodeName(src model.SourceTable) string {
	name := src.DisplayName()
	if m, ok := s.Model(name); ok {
		return m.Name
	}
	return name
}
