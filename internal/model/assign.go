package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapgraph/internal/catalog"
	"github.com/leapstack-labs/leapgraph/internal/ident"
)

// TypeLookup finds the declared type of a column in a qualified table.
// *catalog.Catalog implements it.
type TypeLookup interface {
	Lookup(path []string, column string) (catalog.DataType, bool)
}

// Snapshot is a frozen copy of every model taken before type assignment.
// Sibling lookups read from it while individual models are mutated.
type Snapshot struct {
	models []*Model
}

// NewSnapshot deep-copies models.
func NewSnapshot(models []*Model) Snapshot {
	s := Snapshot{models: make([]*Model, len(models))}
	for i, m := range models {
		s.models[i] = m.Clone()
	}
	return s
}

// Len returns the number of models in the snapshot.
func (s Snapshot) Len() int {
	return len(s.models)
}

// Lookup returns a copy of the first model named name.
func (s Snapshot) Lookup(name string) (*Model, bool) {
	for _, m := range s.models {
		if ident.Equal(m.Name, name) {
			return m.Clone(), true
		}
	}
	return nil, false
}

// siblingType resolves column one hop through the sibling model named by the
// last segment of path.
func (s Snapshot) siblingType(lookup TypeLookup, path []string, column string) (catalog.DataType, bool) {
	if len(path) == 0 {
		return catalog.Unknown, false
	}
	name := path[len(path)-1]
	for _, sibling := range s.models {
		if !ident.Equal(sibling.Name, name) {
			continue
		}
		item, ok := Find(sibling.Items, column)
		if !ok {
			return catalog.Unknown, false
		}
		origin, err := item.ResolvePath(sibling.Tables)
		if err != nil {
			return catalog.Unknown, false
		}
		return lookup.Lookup(origin, item.Name)
	}
	return catalog.Unknown, false
}

// DiagnosticKind classifies a non-fatal resolution outcome.
type DiagnosticKind string

// Diagnostic kinds.
const (
	DiagAmbiguous  DiagnosticKind = "ambiguous"
	DiagUnresolved DiagnosticKind = "unresolved"
	DiagUntyped    DiagnosticKind = "untyped"
)

// Diagnostic reports a column whose source or type could not be determined.
type Diagnostic struct {
	Model   string
	Column  string
	Kind    DiagnosticKind
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s.%s: %s: %s", d.Model, d.Column, d.Kind, d.Message)
}

// AssignDataTypes sets the type of every item, trying the catalog first and
// then one hop through a sibling model in siblings. Items whose type cannot
// be found stay Unknown. A type is only ever upgraded from Unknown.
func (m *Model) AssignDataTypes(lookup TypeLookup, siblings Snapshot) []Diagnostic {
	var diags []Diagnostic
	for idx := range m.Items {
		item := &m.Items[idx]

		origin, err := item.ResolvePath(m.Tables)
		if err != nil {
			var re *ResolutionError
			msg := err.Error()
			if errors.As(err, &re) {
				msg = fmt.Sprintf("unqualified column with %d source tables", re.Sources)
			}
			diags = append(diags, Diagnostic{Model: m.Name, Column: item.DisplayName(), Kind: DiagAmbiguous, Message: msg})
			continue
		}
		if len(origin) == 0 {
			diags = append(diags, Diagnostic{
				Model:   m.Name,
				Column:  item.DisplayName(),
				Kind:    DiagUnresolved,
				Message: fmt.Sprintf("qualifier %q matches no table alias", strings.Join(item.Path, ".")),
			})
			continue
		}

		if item.DataType.IsKnown() {
			continue
		}
		if dt, ok := lookup.Lookup(origin, item.Name); ok {
			item.DataType = dt
			continue
		}
		if dt, ok := siblings.siblingType(lookup, origin, item.Name); ok {
			item.DataType = dt
			continue
		}

		diags = append(diags, Diagnostic{
			Model:   m.Name,
			Column:  item.DisplayName(),
			Kind:    DiagUntyped,
			Message: fmt.Sprintf("no type for %s.%s in catalog or sibling models", strings.Join(origin, "."), item.Name),
		})
	}
	return diags
}
