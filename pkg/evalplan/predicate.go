package evalplan

import (
	"fmt"

	"relcore/pkg/ast"
	"relcore/pkg/catalog"
	"relcore/pkg/storage"
	"relcore/pkg/types"
)

// ExtractPredicate reduces a WHERE tree to a flat column->literal mapping
// by recursively unioning the children of AND nodes and collecting leaves
// that are column = literal. Every referenced column must exist in schema,
// else ErrUnknownColumn. Any other operator, or equality against a
// non-literal, fails with ErrUnsupportedPredicate. A nil where yields a
// nil (always-true) predicate.
func ExtractPredicate(where ast.WhereExpr, schema storage.Schema) (types.Row, error) {
	if where == nil {
		return nil, nil
	}
	out := types.Row{}
	if err := extractInto(where, schema, out); err != nil {
		return nil, err
	}
	return out, nil
}

func extractInto(expr ast.WhereExpr, schema storage.Schema, out types.Row) error {
	switch e := expr.(type) {
	case ast.AndExpr:
		if err := extractInto(e.Left, schema, out); err != nil {
			return err
		}
		return extractInto(e.Right, schema, out)
	case ast.EqualsExpr:
		if schema.IndexOf(e.Column) < 0 {
			return fmt.Errorf("%w: %s", catalog.ErrUnknownColumn, e.Column)
		}
		out[e.Column] = literalToValue(e.Literal)
		return nil
	default:
		return fmt.Errorf("%w: expression of type %T", ErrUnsupportedPredicate, expr)
	}
}

func literalToValue(lit ast.Literal) types.Value {
	if lit.IsString {
		return types.Text(lit.Str)
	}
	return types.Int(lit.Int)
}
