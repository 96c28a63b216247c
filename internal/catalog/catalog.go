// Package catalog indexes the declared schema catalog.
//
// A catalog document is a YAML sequence of table declarations:
//
//	# sources.yml
//	- name: users
//	  namespace: [public]
//	  description: Registered users
//	  datafields:
//	    - name: id
//	      datatype:
//	        type: string
//
// A table's qualified identity is its namespace followed by its name.
// Identities are unique; a catalog that declares the same identity twice is
// rejected at load time.
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/leapstack-labs/leapgraph/internal/ident"
	"gopkg.in/yaml.v3"
)

// Column is a declared column with its coarse type.
type Column struct {
	Name string
	Type DataType
}

// Table is one catalog entry.
type Table struct {
	Name        string
	Namespace   []string
	Description string
	Columns     []Column

	columns map[string]DataType
}

// Path returns the qualified identity: namespace segments followed by name.
func (t *Table) Path() []string {
	path := make([]string, 0, len(t.Namespace)+1)
	path = append(path, t.Namespace...)
	return append(path, t.Name)
}

// QualifiedName returns the dotted form of Path.
func (t *Table) QualifiedName() string {
	return strings.Join(t.Path(), ".")
}

// clone copies the exported slices. The column index is never written after
// New and is shared.
func (t *Table) clone() Table {
	out := *t
	out.Namespace = append([]string(nil), t.Namespace...)
	out.Columns = append([]Column(nil), t.Columns...)
	return out
}

// Column returns the declared type of a column.
func (t *Table) Column(name string) (DataType, bool) {
	dt, ok := t.columns[ident.Fold(name)]
	return dt, ok
}

// Catalog is an immutable index over declared tables.
type Catalog struct {
	tables []*Table
	byPath map[string]*Table
}

// New builds a catalog from tables, validating identity uniqueness.
func New(tables []Table) (*Catalog, error) {
	c := &Catalog{
		tables: make([]*Table, 0, len(tables)),
		byPath: make(map[string]*Table, len(tables)),
	}
	for i := range tables {
		t := tables[i]
		if t.Name == "" {
			return nil, &FormatError{Table: fmt.Sprintf("#%d", i+1), Err: ErrMissingName}
		}

		key := ident.Key(t.Path())
		if _, exists := c.byPath[key]; exists {
			return nil, &FormatError{Table: t.QualifiedName(), Err: ErrDuplicateTable}
		}

		t.columns = make(map[string]DataType, len(t.Columns))
		for _, col := range t.Columns {
			// First declaration of a column wins.
			folded := ident.Fold(col.Name)
			if _, seen := t.columns[folded]; !seen {
				t.columns[folded] = col.Type
			}
		}

		c.byPath[key] = &t
		c.tables = append(c.tables, &t)
	}
	return c, nil
}

// Load reads and parses the catalog document at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the operator
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}
	return c, nil
}

// document mirrors the on-disk shape.
type document []struct {
	Name        string   `yaml:"name"`
	Namespace   []string `yaml:"namespace"`
	Description string   `yaml:"description"`
	Datafields  []struct {
		Name     string `yaml:"name"`
		Datatype struct {
			Type string `yaml:"type"`
		} `yaml:"datatype"`
	} `yaml:"datafields"`
}

// Parse decodes a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	tables := make([]Table, 0, len(doc))
	for _, decl := range doc {
		t := Table{
			Name:        decl.Name,
			Namespace:   decl.Namespace,
			Description: decl.Description,
			Columns:     make([]Column, 0, len(decl.Datafields)),
		}
		for _, f := range decl.Datafields {
			dt, err := ParseDataType(f.Datatype.Type)
			if err != nil {
				return nil, &FormatError{Table: t.QualifiedName(), Column: f.Name, Err: err}
			}
			t.Columns = append(t.Columns, Column{Name: f.Name, Type: dt})
		}
		tables = append(tables, t)
	}
	return New(tables)
}

// Tables returns copies of the declared tables in document order.
func (c *Catalog) Tables() []Table {
	out := make([]Table, len(c.tables))
	for i, t := range c.tables {
		out[i] = t.clone()
	}
	return out
}

// Len returns the number of declared tables.
func (c *Catalog) Len() int {
	return len(c.tables)
}

// Table returns a copy of the table at a qualified path.
func (c *Catalog) Table(path []string) (Table, bool) {
	t, ok := c.table(path)
	if !ok {
		return Table{}, false
	}
	return t.clone(), true
}

func (c *Catalog) table(path []string) (*Table, bool) {
	if c == nil || len(path) == 0 {
		return nil, false
	}
	t, ok := c.byPath[ident.Key(path)]
	return t, ok
}

// Lookup returns the declared type of column in the table at path.
// It reports false unless both the table and the column are declared.
func (c *Catalog) Lookup(path []string, column string) (DataType, bool) {
	t, ok := c.table(path)
	if !ok {
		return Unknown, false
	}
	return t.Column(column)
}
