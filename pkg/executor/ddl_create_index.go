package executor

import (
	"fmt"

	"relcore/pkg/ast"
	"relcore/pkg/logging"
	"relcore/pkg/storage/memindex"
	"relcore/pkg/types"
)

// CreateIndex implements spec.md §4.4: verify every named column exists on
// the table, insert one _indices row per column with seq_in_index
// 1..k, then obtain the index via the catalog and build it over the
// table's existing rows. Any failure compensates by deleting every
// _indices row already inserted for this index before re-raising the
// original error.
func (e *Executor) CreateIndex(stmt ast.CreateIndexStmt) (*Result, error) {
	log := logging.WithIndex(stmt.Index)

	rel, err := e.resolveTable(stmt.Table, "CreateIndex")
	if err != nil {
		return nil, err
	}
	schema := rel.Schema()
	for _, col := range stmt.Columns {
		if schema.IndexOf(col) < 0 {
			return nil, New(ErrUnknownColumn, fmt.Sprintf("column %s not found on table %s", col, stmt.Table))
		}
	}

	indicesRel, err := e.catalog.Indices()
	if err != nil {
		return nil, Wrap(err, "CreateIndex", "catalog")
	}

	existing, err := indicesRel.Select(types.Row{
		"table_name": types.Text(stmt.Table),
		"index_name": types.Text(stmt.Index),
	})
	if err != nil {
		return nil, Wrap(err, "CreateIndex", "_indices")
	}
	if len(existing) > 0 {
		return nil, New(ErrIndexExists, fmt.Sprintf("index %s already exists on table %s", stmt.Index, stmt.Table))
	}

	unique := stmt.IndexType == string(memindex.BTree)

	rb := newRollback()
	defer rb.run()

	for i, col := range stmt.Columns {
		h, err := indicesRel.Insert(types.Row{
			"table_name":   types.Text(stmt.Table),
			"index_name":   types.Text(stmt.Index),
			"seq_in_index": types.Int(int32(i + 1)),
			"column_name":  types.Text(col),
			"index_type":   types.Text(stmt.IndexType),
			"is_unique":    types.Bool(unique),
		})
		if err != nil {
			return nil, Wrap(err, "CreateIndex", "_indices")
		}
		rb.add(func() error { return indicesRel.Delete(h) })
	}

	idx, err := e.catalog.GetIndex(stmt.Table, stmt.Index)
	if err != nil {
		return nil, Wrap(err, "CreateIndex", "catalog")
	}
	if err := idx.Create(); err != nil {
		e.catalog.InvalidateIndex(stmt.Table, stmt.Index)
		return nil, Wrap(err, "CreateIndex", "storage")
	}

	rb.disarm()
	log.Info("index created", "table", stmt.Table, "columns", stmt.Columns, "unique", unique)
	return message("created index %s on %s", stmt.Index, stmt.Table), nil
}
