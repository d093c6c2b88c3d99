package executor

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"relcore/pkg/ast"
	"relcore/pkg/logging"
	"relcore/pkg/types"
)

// Insert implements spec.md §4.6: match the statement's column list (or the
// full schema, in order, if none was given) against its value list, convert
// each literal under the target column's declared type, insert the row,
// then maintain every index on the table concurrently via an errgroup.
func (e *Executor) Insert(stmt ast.InsertStmt) (*Result, error) {
	log := logging.WithTable(stmt.Table)

	rel, err := e.resolveTable(stmt.Table, "Insert")
	if err != nil {
		return nil, err
	}
	schema := rel.Schema()

	columns := stmt.Columns
	if len(columns) == 0 {
		columns = schema.ColumnNames
	}
	if len(columns) != len(stmt.Values) {
		return nil, New(ErrUnsupportedInsert, fmt.Sprintf(
			"column count %d does not match value count %d", len(columns), len(stmt.Values)))
	}
	if !coversEverySchemaColumn(columns, schema.ColumnNames) {
		return nil, New(ErrUnsupportedInsert, fmt.Sprintf(
			"INSERT into %s must list every declared column; partial column lists are not supported", stmt.Table))
	}

	row := types.Row{}
	for i, col := range columns {
		attr, ok := schema.AttributeOf(col)
		if !ok {
			return nil, New(ErrUnknownColumn, fmt.Sprintf("column %s not found on table %s", col, stmt.Table))
		}
		val, err := coerceLiteral(stmt.Values[i], attr)
		if err != nil {
			return nil, New(ErrTypeMismatch, fmt.Sprintf("column %s: %s", col, err))
		}
		row[col] = val
	}

	handle, err := rel.Insert(row)
	if err != nil {
		return nil, Wrap(err, "Insert", "storage")
	}

	indexNames, err := e.catalog.GetIndexNames(stmt.Table)
	if err != nil {
		return nil, Wrap(err, "Insert", "catalog")
	}

	var g errgroup.Group
	for _, name := range indexNames {
		name := name
		g.Go(func() error {
			idx, err := e.catalog.GetIndex(stmt.Table, name)
			if err != nil {
				return err
			}
			return idx.Insert(handle)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Wrap(err, "Insert", "storage")
	}

	log.Debug("row inserted", "indices", len(indexNames))
	return message("inserted 1 row into %s (%d indices updated)", stmt.Table, len(indexNames)), nil
}

// coversEverySchemaColumn reports whether columns names exactly the set of
// schemaColumns, in any order. INSERT has no notion of a column default or
// NULL (spec.md §1 Non-goals), so a column list naming fewer than every
// declared column has no value to leave the rest with; rejecting it outright
// is the chosen resolution of spec.md §9's partial-column-list question
// (see DESIGN.md).
func coversEverySchemaColumn(columns, schemaColumns []string) bool {
	if len(columns) != len(schemaColumns) {
		return false
	}
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		seen[c] = true
	}
	for _, c := range schemaColumns {
		if !seen[c] {
			return false
		}
	}
	return true
}

// coerceLiteral converts an AST literal into the types.Value the target
// column's attribute requires, rejecting a type mismatch outright rather
// than attempting an implicit conversion (spec.md §4.6, §9).
func coerceLiteral(lit ast.Literal, attr types.Kind) (types.Value, error) {
	switch attr {
	case types.TextKind:
		if !lit.IsString {
			return types.Value{}, fmt.Errorf("expected TEXT literal, got integer %d", lit.Int)
		}
		return types.Text(lit.Str), nil
	case types.IntKind:
		if lit.IsString {
			return types.Value{}, fmt.Errorf("expected INT literal, got string %q", lit.Str)
		}
		return types.Int(lit.Int), nil
	case types.BoolKind:
		return types.Value{}, fmt.Errorf("BOOLEAN columns cannot be populated from INSERT literals")
	default:
		return types.Value{}, fmt.Errorf("unsupported column attribute %v", attr)
	}
}
