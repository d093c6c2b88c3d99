package executor

import (
	"fmt"

	"relcore/pkg/ast"
	"relcore/pkg/logging"
	"relcore/pkg/types"
)

// CreateTable implements spec.md §4.3: insert a _tables row, insert one
// _columns row per declared column, then instantiate and physically
// create the relation. A failure after the _tables write compensates by
// deleting every row already inserted, in reverse order, before
// re-raising the original error.
func (e *Executor) CreateTable(stmt ast.CreateTableStmt) (*Result, error) {
	log := logging.WithTable(stmt.Table)

	tablesRel, err := e.catalog.Tables()
	if err != nil {
		return nil, Wrap(err, "CreateTable", "catalog")
	}
	columnsRel, err := e.catalog.Columns()
	if err != nil {
		return nil, Wrap(err, "CreateTable", "catalog")
	}

	existing, err := tablesRel.Select(types.Row{"table_name": types.Text(stmt.Table)})
	if err != nil {
		return nil, Wrap(err, "CreateTable", "_tables")
	}
	if len(existing) > 0 {
		if stmt.IfNotExists {
			return message("table %s already exists", stmt.Table), nil
		}
		return nil, New(ErrTableExists, fmt.Sprintf("table %s already exists", stmt.Table))
	}

	attrs := make([]types.Kind, len(stmt.Columns))
	for i, col := range stmt.Columns {
		attr, ok := types.ParseColumnAttribute(col.Type)
		if !ok {
			return nil, New(ErrUnsupportedType, fmt.Sprintf("column %s has unsupported type %s", col.Name, col.Type))
		}
		attrs[i] = attr
	}

	rb := newRollback()
	defer rb.run()

	tHandle, err := tablesRel.Insert(types.Row{"table_name": types.Text(stmt.Table)})
	if err != nil {
		return nil, Wrap(err, "CreateTable", "_tables")
	}
	rb.add(func() error { return tablesRel.Delete(tHandle) })

	for i, col := range stmt.Columns {
		cHandle, err := columnsRel.Insert(types.Row{
			"table_name":  types.Text(stmt.Table),
			"column_name": types.Text(col.Name),
			"data_type":   types.Text(attrs[i].String()),
		})
		if err != nil {
			return nil, Wrap(err, "CreateTable", "_columns")
		}
		rb.add(func() error { return columnsRel.Delete(cHandle) })
	}

	rel, err := e.catalog.GetTable(stmt.Table)
	if err != nil {
		return nil, Wrap(err, "CreateTable", "catalog")
	}

	if stmt.IfNotExists {
		err = rel.CreateIfNotExists()
	} else {
		err = rel.Create()
	}
	if err != nil {
		e.catalog.InvalidateTable(stmt.Table)
		return nil, Wrap(err, "CreateTable", "storage")
	}

	rb.disarm()
	log.Info("table created", "columns", len(stmt.Columns))
	return message("created %s", stmt.Table), nil
}
