// Package evalplan implements the relational-algebra tree the executor
// builds from a parsed AST: TableScan -> Select -> Project. The tree is a
// tagged variant rather than a class hierarchy with virtual dispatch, so
// rewrites in Optimize are straightforward pattern matches (see DESIGN.md).
package evalplan

import (
	"errors"
	"fmt"

	"relcore/pkg/storage"
	"relcore/pkg/types"
)

// ErrUnsupportedPredicate is returned when a WHERE clause contains
// anything other than an AND-chain of column = literal equalities.
var ErrUnsupportedPredicate = errors.New("unsupported predicate")

// Kind tags which of the three node shapes a Plan is.
type Kind int

const (
	TableScanKind Kind = iota
	SelectKind
	ProjectKind
)

// Plan is a node in the evaluation-plan tree. Exactly the fields relevant
// to Kind are meaningful:
//
//	TableScanKind: Relation, and (post-Optimize) Predicate/Index/IndexKey
//	SelectKind:    Predicate, Child
//	ProjectKind:   Columns, Child
type Plan struct {
	Kind Kind

	Relation  storage.Relation
	Predicate types.Row

	// Index/IndexKey are populated only by Optimize, when a single-column
	// index covers one of the predicate's columns.
	Index    storage.Index
	IndexKey types.Row

	Columns []string
	Child   *Plan
}

// TableScan builds a terminal node whose output is every handle in rel.
func TableScan(rel storage.Relation) *Plan {
	return &Plan{Kind: TableScanKind, Relation: rel}
}

// Select filters the child's handles by an equality-conjunction predicate;
// every column in pred must match for a handle to survive.
func Select(pred types.Row, child *Plan) *Plan {
	if len(pred) == 0 {
		return child
	}
	return &Plan{Kind: SelectKind, Predicate: pred, Child: child}
}

// Project consumes handles from child and projects cols from each into a
// row. An empty cols means every column, in schema order.
func Project(cols []string, child *Plan) *Plan {
	return &Plan{Kind: ProjectKind, Columns: cols, Child: child}
}

// Pipeline returns the base relation and the handle set the plan selects,
// without materializing projected rows. Required by DELETE so that indices
// and the base row can both be removed by handle.
func (p *Plan) Pipeline() (storage.Relation, []storage.Handle, error) {
	switch p.Kind {
	case TableScanKind:
		return p.scanPipeline()
	case SelectKind:
		return p.selectPipeline()
	case ProjectKind:
		return nil, nil, fmt.Errorf("evalplan: Project does not support Pipeline; use Evaluate")
	default:
		return nil, nil, fmt.Errorf("evalplan: unknown node kind %d", p.Kind)
	}
}

func (p *Plan) scanPipeline() (storage.Relation, []storage.Handle, error) {
	if p.Index != nil {
		handles, err := p.Index.Lookup(p.IndexKey)
		if err != nil {
			return nil, nil, fmt.Errorf("evalplan: index probe on %s: %w", p.Index.Name(), err)
		}
		if remaining := withoutKeys(p.Predicate, p.IndexKey); len(remaining) > 0 {
			filtered, err := filterByProjection(p.Relation, handles, remaining)
			if err != nil {
				return nil, nil, err
			}
			return p.Relation, filtered, nil
		}
		return p.Relation, handles, nil
	}
	handles, err := p.Relation.Select(p.Predicate)
	if err != nil {
		return nil, nil, fmt.Errorf("evalplan: scanning %s: %w", p.Relation.Name(), err)
	}
	return p.Relation, handles, nil
}

func (p *Plan) selectPipeline() (storage.Relation, []storage.Handle, error) {
	rel, handles, err := p.Child.Pipeline()
	if err != nil {
		return nil, nil, err
	}
	filtered, err := filterByProjection(rel, handles, p.Predicate)
	if err != nil {
		return nil, nil, err
	}
	return rel, filtered, nil
}

func filterByProjection(rel storage.Relation, handles []storage.Handle, pred types.Row) ([]storage.Handle, error) {
	if len(pred) == 0 {
		return handles, nil
	}
	cols := make([]string, 0, len(pred))
	for c := range pred {
		cols = append(cols, c)
	}
	out := make([]storage.Handle, 0, len(handles))
	for _, h := range handles {
		row, err := rel.Project(h, cols)
		if err != nil {
			return nil, fmt.Errorf("evalplan: projecting %s for filter: %w", rel.Name(), err)
		}
		if rowMatches(row, pred) {
			out = append(out, h)
		}
	}
	return out, nil
}

func rowMatches(row, pred types.Row) bool {
	for col, want := range pred {
		got, ok := row[col]
		if !ok || !got.Equal(want) {
			return false
		}
	}
	return true
}

func withoutKeys(row, exclude types.Row) types.Row {
	if len(exclude) == 0 {
		return row
	}
	out := make(types.Row, len(row))
	for k, v := range row {
		if _, skip := exclude[k]; !skip {
			out[k] = v
		}
	}
	return out
}

// Evaluate fully materializes the projected rows the plan produces.
// Required by SELECT.
func (p *Plan) Evaluate() ([]types.Row, error) {
	switch p.Kind {
	case ProjectKind:
		rel, handles, err := p.Child.Pipeline()
		if err != nil {
			return nil, err
		}
		rows := make([]types.Row, len(handles))
		for i, h := range handles {
			row, err := rel.Project(h, p.Columns)
			if err != nil {
				return nil, fmt.Errorf("evalplan: projecting %s: %w", rel.Name(), err)
			}
			rows[i] = row
		}
		return rows, nil
	default:
		rel, handles, err := p.Pipeline()
		if err != nil {
			return nil, err
		}
		rows := make([]types.Row, len(handles))
		for i, h := range handles {
			row, err := rel.Project(h, nil)
			if err != nil {
				return nil, fmt.Errorf("evalplan: projecting %s: %w", rel.Name(), err)
			}
			rows[i] = row
		}
		return rows, nil
	}
}
