package executor

import (
	"fmt"

	"relcore/pkg/ast"
	"relcore/pkg/catalog"
	"relcore/pkg/types"
)

// Show implements spec.md §4.9, reusing the Result shape SELECT uses so
// callers have a single tabular output format for both.
func (e *Executor) Show(stmt ast.ShowStmt) (*Result, error) {
	switch stmt.Kind {
	case ast.ShowTables:
		return e.showTables()
	case ast.ShowColumns:
		return e.showColumns(stmt.Table)
	case ast.ShowIndex:
		return e.showIndex(stmt.Table)
	default:
		return nil, New(ErrUnsupportedInsert, fmt.Sprintf("unrecognized SHOW kind %d", stmt.Kind))
	}
}

// showTables lists every user table registered in _tables, excluding the
// three system relations.
func (e *Executor) showTables() (*Result, error) {
	tablesRel, err := e.catalog.Tables()
	if err != nil {
		return nil, Wrap(err, "Show", "catalog")
	}
	handles, err := tablesRel.Select(nil)
	if err != nil {
		return nil, Wrap(err, "Show", "_tables")
	}

	var rows []types.Row
	for _, h := range handles {
		row, err := tablesRel.Project(h, []string{"table_name"})
		if err != nil {
			return nil, Wrap(err, "Show", "_tables")
		}
		if catalog.IsMetaTable(row["table_name"].S) {
			continue
		}
		rows = append(rows, row)
	}

	return &Result{
		ColumnNames:      []string{"table_name"},
		ColumnAttributes: []types.Kind{types.TextKind},
		Rows:             rows,
		Message:          fmt.Sprintf("%d tables", len(rows)),
	}, nil
}

// showColumns lists every column registered for table in _columns, in
// declaration order.
func (e *Executor) showColumns(table string) (*Result, error) {
	if _, err := e.resolveTable(table, "Show"); err != nil {
		return nil, err
	}
	columnsRel, err := e.catalog.Columns()
	if err != nil {
		return nil, Wrap(err, "Show", "catalog")
	}
	handles, err := columnsRel.Select(types.Row{"table_name": types.Text(table)})
	if err != nil {
		return nil, Wrap(err, "Show", "_columns")
	}

	cols := []string{"table_name", "column_name", "data_type"}
	rows := make([]types.Row, len(handles))
	for i, h := range handles {
		row, err := columnsRel.Project(h, cols)
		if err != nil {
			return nil, Wrap(err, "Show", "_columns")
		}
		rows[i] = row
	}

	return &Result{
		ColumnNames:      cols,
		ColumnAttributes: []types.Kind{types.TextKind, types.TextKind, types.TextKind},
		Rows:             rows,
		Message:          fmt.Sprintf("%d columns", len(rows)),
	}, nil
}

// showIndex lists every (table, index, column) triple registered for table
// in _indices.
func (e *Executor) showIndex(table string) (*Result, error) {
	if _, err := e.resolveTable(table, "Show"); err != nil {
		return nil, err
	}
	indicesRel, err := e.catalog.Indices()
	if err != nil {
		return nil, Wrap(err, "Show", "catalog")
	}
	handles, err := indicesRel.Select(types.Row{"table_name": types.Text(table)})
	if err != nil {
		return nil, Wrap(err, "Show", "_indices")
	}

	cols := []string{"table_name", "index_name", "seq_in_index", "column_name", "index_type", "is_unique"}
	rows := make([]types.Row, len(handles))
	for i, h := range handles {
		row, err := indicesRel.Project(h, cols)
		if err != nil {
			return nil, Wrap(err, "Show", "_indices")
		}
		rows[i] = row
	}

	return &Result{
		ColumnNames: cols,
		ColumnAttributes: []types.Kind{
			types.TextKind, types.TextKind, types.IntKind, types.TextKind, types.TextKind, types.BoolKind,
		},
		Rows:    rows,
		Message: fmt.Sprintf("%d index entries", len(rows)),
	}, nil
}
