package model

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/leapgraph/internal/ident"
)

// ErrAmbiguousColumn is returned when an unqualified column cannot be tied
// to a single source table.
var ErrAmbiguousColumn = errors.New("ambiguous column reference")

// ResolutionError describes an unqualified column in a model with zero or
// several source tables.
type ResolutionError struct {
	Column  string
	Sources int
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("%v %q: model has %d source tables", ErrAmbiguousColumn, e.Column, e.Sources)
}

func (e *ResolutionError) Unwrap() error {
	return ErrAmbiguousColumn
}

// ResolvePath returns the qualified origin path the item reads from.
//
//   - An unqualified item resolves to the only source table. With zero or
//     several tables it returns a *ResolutionError.
//   - A qualifier of two or more segments is returned as written.
//   - A single-segment qualifier is an alias. It resolves to the origin of
//     the first table with that alias, or to an empty path if none match.
func (i Item) ResolvePath(tables []SourceTable) ([]string, error) {
	switch len(i.Path) {
	case 0:
		if len(tables) != 1 {
			return nil, &ResolutionError{Column: i.DisplayName(), Sources: len(tables)}
		}
		return tables[0].Origin, nil
	case 1:
		for _, t := range tables {
			if t.HasAlias() && ident.Equal(t.Alias, i.Path[0]) {
				return t.Origin, nil
			}
		}
		return []string{}, nil
	default:
		return i.Path, nil
	}
}

// Find returns the first item whose alias equals name or, failing that, the
// first item whose column name equals name. Aliases are checked across the
// whole list before names.
func Find(items []Item, name string) (Item, bool) {
	for _, it := range items {
		if it.Alias != "" && ident.Equal(it.Alias, name) {
			return it, true
		}
	}
	for _, it := range items {
		if ident.Equal(it.Name, name) {
			return it, true
		}
	}
	return Item{}, false
}

// FilterBySource keeps the items printed on the edge from src.
// An item is kept when
//
//   - src has an alias equal to the item's first qualifier segment,
//   - the item's qualifier equals src's origin path, or
//   - the item is unqualified and src is the model's only table.
//
// This is label construction only; ResolvePath decides which table an item
// belongs to for typing, and the two may disagree.
func FilterBySource(items []Item, src SourceTable, tables []SourceTable) []Item {
	soleSource := len(tables) == 1
	var kept []Item
	for _, it := range items {
		switch {
		case !it.IsQualified():
			if soleSource {
				kept = append(kept, it)
			}
		case src.HasAlias() && ident.Equal(src.Alias, it.Path[0]):
			kept = append(kept, it)
		case ident.EqualPath(src.Origin, it.Path):
			kept = append(kept, it)
		}
	}
	return kept
}
