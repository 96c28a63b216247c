// Package lineage loads a directory of SQL models against a schema catalog
// and builds the column-labeled dependency graph.
//
// A run has three phases:
//
//  1. Every *.sql file directly inside the directory is parsed and
//     extracted into a model. Files are parsed concurrently.
//  2. A frozen snapshot of all models is taken. Each model then assigns its
//     column types from the catalog, or one hop through a sibling model
//     read from the snapshot.
//  3. The graph is built with one edge per (source table, model) pair.
//
// # Basic Usage
//
//	cat, err := catalog.Load("sources.yml")
//	if err != nil {
//	    return err
//	}
//	set, err := lineage.Load(ctx, "models", cat, lineage.Options{})
//	if err != nil {
//	    return err
//	}
//	g := set.Graph()
package lineage
