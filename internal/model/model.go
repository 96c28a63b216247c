// Package model holds one lineage-tracked SQL model and the rules that
// resolve its output columns to source tables and coarse types.
package model

import (
	"strings"

	"github.com/leapstack-labs/leapgraph/internal/catalog"
)

// SourceTable is a table referenced in a FROM or JOIN clause.
type SourceTable struct {
	Origin []string // qualified path as written
	Alias  string   // empty when the reference has no alias
}

// DisplayName is the last segment of the origin path.
func (s SourceTable) DisplayName() string {
	if len(s.Origin) == 0 {
		return ""
	}
	return s.Origin[len(s.Origin)-1]
}

// HasAlias reports whether the reference was aliased.
func (s SourceTable) HasAlias() bool {
	return s.Alias != ""
}

// String returns the origin in dotted form, with its alias if any.
func (s SourceTable) String() string {
	origin := strings.Join(s.Origin, ".")
	if s.HasAlias() {
		return origin + " " + s.Alias
	}
	return origin
}

func (s SourceTable) clone() SourceTable {
	s.Origin = append([]string(nil), s.Origin...)
	return s
}

// Item is one projected column of a model's query.
type Item struct {
	Name     string   // underlying column identifier
	Path     []string // qualifier segments before Name
	Alias    string   // set only for "expr AS alias"
	DataType catalog.DataType
}

// DisplayName is the identity used for matching and display:
// the alias when set, the column name otherwise.
func (i Item) DisplayName() string {
	if i.Alias != "" {
		return i.Alias
	}
	return i.Name
}

// IsQualified reports whether the item carries a qualifier.
func (i Item) IsQualified() bool {
	return len(i.Path) > 0
}

func (i Item) clone() Item {
	i.Path = append([]string(nil), i.Path...)
	return i
}

// Model is one SQL file: its source tables and output items.
type Model struct {
	Name   string
	Tables []SourceTable
	Items  []Item
}

// New creates a model from extracted tables and items.
func New(name string, tables []SourceTable, items []Item) *Model {
	return &Model{Name: name, Tables: tables, Items: items}
}

// Clone returns a deep copy of m.
func (m *Model) Clone() *Model {
	c := &Model{
		Name:   m.Name,
		Tables: make([]SourceTable, len(m.Tables)),
		Items:  make([]Item, len(m.Items)),
	}
	for i, t := range m.Tables {
		c.Tables[i] = t.clone()
	}
	for i, it := range m.Items {
		c.Items[i] = it.clone()
	}
	return c
}

// ItemsFrom returns the items whose edge label belongs to src.
// See FilterBySource.
func (m *Model) ItemsFrom(src SourceTable) []Item {
	return FilterBySource(m.Items, src, m.Tables)
}
