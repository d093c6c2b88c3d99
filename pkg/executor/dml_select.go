package executor

import (
	"fmt"

	"relcore/pkg/ast"
	"relcore/pkg/evalplan"
	"relcore/pkg/logging"
	"relcore/pkg/types"
)

// Select implements spec.md §4.8: TableScan -> [Select] -> Project, with
// an empty column list expanding to the full schema in declaration order.
func (e *Executor) Select(stmt ast.SelectStmt) (*Result, error) {
	log := logging.WithTable(stmt.Table)

	rel, err := e.resolveTable(stmt.Table, "Select")
	if err != nil {
		return nil, err
	}
	schema := rel.Schema()

	columns := stmt.Columns
	if len(columns) == 0 {
		columns = schema.ColumnNames
	}
	attrs := make([]types.Kind, len(columns))
	for i, col := range columns {
		attr, ok := schema.AttributeOf(col)
		if !ok {
			return nil, New(ErrUnknownColumn, "column "+col+" not found on table "+stmt.Table)
		}
		attrs[i] = attr
	}

	plan, err := e.buildFilterPlan(rel, stmt.Table, stmt.Where)
	if err != nil {
		return nil, err
	}
	plan = evalplan.Project(columns, plan)

	rows, err := plan.Evaluate()
	if err != nil {
		return nil, Wrap(err, "Select", "storage")
	}

	log.Debug("select completed", "rows", len(rows))
	return &Result{
		ColumnNames:      columns,
		ColumnAttributes: attrs,
		Rows:             rows,
		Message:          fmt.Sprintf("%d rows", len(rows)),
	}, nil
}
