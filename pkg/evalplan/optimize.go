package evalplan

import (
	"relcore/pkg/storage"
	"relcore/pkg/types"
)

// IndexResolver looks up a single-column index over column on the table
// being scanned, if one exists. The executor supplies this from the
// catalog, scoped to the one table the plan touches.
type IndexResolver func(column string) (storage.Index, bool)

// Optimize pushes each equality predicate down as close to its TableScan
// as possible and, where a matching single-column index exists, rewrites
// Select(pred, TableScan) into an index-probe scan. Optimize never changes
// what the plan returns: Optimize(p, resolve).Evaluate() yields the same
// rows as p.Evaluate() on the same data, only by (possibly) a cheaper path.
func Optimize(p *Plan, resolve IndexResolver) *Plan {
	if p == nil {
		return nil
	}
	switch p.Kind {
	case ProjectKind:
		return Project(p.Columns, Optimize(p.Child, resolve))
	case SelectKind:
		if p.Child != nil && p.Child.Kind == TableScanKind {
			return pushDown(p.Predicate, p.Child.Relation, resolve)
		}
		return &Plan{Kind: SelectKind, Predicate: p.Predicate, Child: Optimize(p.Child, resolve)}
	case TableScanKind:
		return p
	default:
		return p
	}
}

// pushDown folds a Select directly over a TableScan into a single
// TableScanKind node carrying the predicate, and, if resolve finds a
// single-column index over one of the predicate's columns, an index probe.
func pushDown(pred types.Row, rel storage.Relation, resolve IndexResolver) *Plan {
	scan := &Plan{Kind: TableScanKind, Relation: rel, Predicate: pred}
	if resolve == nil {
		return scan
	}
	for col, val := range pred {
		idx, ok := resolve(col)
		if !ok || len(idx.Columns()) != 1 || idx.Columns()[0] != col {
			continue
		}
		scan.Index = idx
		scan.IndexKey = types.Row{col: val}
		break
	}
	return scan
}
