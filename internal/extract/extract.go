// Package extract pulls source tables and output columns out of a parsed
// SQL statement.
//
// Parsing is done by pg_query (the PostgreSQL parser). Only a plain
// top-level SELECT is understood. Set operations, non-SELECT statements,
// subqueries in FROM, wildcards and computed projections are skipped
// without error.
package extract

import (
	"fmt"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/leapstack-labs/leapgraph/internal/model"
)

// Result holds what one statement contributes to a model.
type Result struct {
	Tables []model.SourceTable
	Items  []model.Item
}

// Empty reports whether nothing was extracted.
func (r Result) Empty() bool {
	return len(r.Tables) == 0 && len(r.Items) == 0
}

// Parse parses sql and extracts from its first SELECT-shaped statement.
// Later statements are ignored. A file with no SELECT yields an empty Result.
func Parse(sql string) (Result, error) {
	tree, err := pg_query.Parse(sql)
	if err != nil {
		return Result{}, fmt.Errorf("parse SQL: %w", err)
	}
	for _, raw := range tree.GetStmts() {
		if sel := selectOf(raw.GetStmt()); sel != nil {
			return fromSelect(sel), nil
		}
	}
	return Result{}, nil
}

// Statement extracts tables and items from one parsed statement.
// Anything other than a plain SELECT yields an empty Result.
func Statement(stmt *pg_query.Node) Result {
	sel := selectOf(stmt)
	if sel == nil {
		return Result{}
	}
	return fromSelect(sel)
}

func fromSelect(sel *pg_query.SelectStmt) Result {
	var r Result
	for _, target := range sel.GetTargetList() {
		if item, ok := projection(target.GetResTarget()); ok {
			r.Items = append(r.Items, item)
		}
	}
	for _, from := range sel.GetFromClause() {
		r.Tables = appendTables(r.Tables, from)
	}
	return r
}

// selectOf returns the SELECT of stmt when it is a plain SELECT query.
func selectOf(stmt *pg_query.Node) *pg_query.SelectStmt {
	sel := stmt.GetSelectStmt()
	if sel == nil || sel.GetOp() != pg_query.SetOperation_SETOP_NONE {
		return nil
	}
	// VALUES lists parse as a SelectStmt without a target list.
	if len(sel.GetValuesLists()) > 0 {
		return nil
	}
	return sel
}

// appendTables appends the simple table references in a FROM item, walking
// joins left to right.
func appendTables(tables []model.SourceTable, node *pg_query.Node) []model.SourceTable {
	switch n := node.GetNode().(type) {
	case *pg_query.Node_RangeVar:
		return append(tables, sourceTable(n.RangeVar))
	case *pg_query.Node_JoinExpr:
		tables = appendTables(tables, n.JoinExpr.GetLarg())
		return appendTables(tables, n.JoinExpr.GetRarg())
	}
	return tables
}

func sourceTable(rv *pg_query.RangeVar) model.SourceTable {
	var origin []string
	for _, part := range []string{rv.GetCatalogname(), rv.GetSchemaname(), rv.GetRelname()} {
		if part != "" {
			origin = append(origin, part)
		}
	}
	return model.SourceTable{
		Origin: origin,
		Alias:  rv.GetAlias().GetAliasname(),
	}
}

// projection converts one SELECT list entry into an item.
func projection(target *pg_query.ResTarget) (model.Item, bool) {
	if target == nil {
		return model.Item{}, false
	}
	alias := target.GetName()
	val := target.GetVal()

	if alias != "" {
		if nt := val.GetNullTest(); nt != nil && nt.GetNulltesttype() == pg_query.NullTestType_IS_NOT_NULL {
			val = nt.GetArg()
		}
	}

	segments, ok := identifier(val.GetColumnRef())
	if !ok {
		return model.Item{}, false
	}
	last := len(segments) - 1
	item := model.Item{
		Name:  segments[last],
		Path:  segments[:last:last],
		Alias: alias,
	}
	if len(item.Path) == 0 {
		item.Path = nil
	}
	return item, true
}

// identifier returns the segments of a column reference made only of names.
// References containing "*" are wildcards and are rejected.
func identifier(ref *pg_query.ColumnRef) ([]string, bool) {
	fields := ref.GetFields()
	if len(fields) == 0 {
		return nil, false
	}
	segments := make([]string, 0, len(fields))
	for _, f := range fields {
		s := f.GetString_()
		if s == nil {
			return nil, false
		}
		segments = append(segments, s.GetSval())
	}
	return segments, true
}
