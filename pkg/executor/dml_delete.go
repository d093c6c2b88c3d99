package executor

import (
	"errors"

	"golang.org/x/sync/errgroup"

	"relcore/pkg/ast"
	"relcore/pkg/catalog"
	"relcore/pkg/evalplan"
	"relcore/pkg/logging"
	"relcore/pkg/storage"
)

// Delete implements spec.md §4.7: build TableScan -> [Select] over the
// table, optimize it against the table's indices, run the pipeline to get
// the surviving handles, then for each handle remove it from every index
// before removing it from the base relation.
func (e *Executor) Delete(stmt ast.DeleteStmt) (*Result, error) {
	log := logging.WithTable(stmt.Table)

	rel, err := e.resolveTable(stmt.Table, "Delete")
	if err != nil {
		return nil, err
	}

	plan, err := e.buildFilterPlan(rel, stmt.Table, stmt.Where)
	if err != nil {
		return nil, err
	}

	_, handles, err := plan.Pipeline()
	if err != nil {
		return nil, Wrap(err, "Delete", "storage")
	}

	indexNames, err := e.catalog.GetIndexNames(stmt.Table)
	if err != nil {
		return nil, Wrap(err, "Delete", "catalog")
	}

	for _, h := range handles {
		var g errgroup.Group
		for _, name := range indexNames {
			name, h := name, h
			g.Go(func() error {
				idx, err := e.catalog.GetIndex(stmt.Table, name)
				if err != nil {
					return err
				}
				return idx.Delete(h)
			})
		}
		if err := g.Wait(); err != nil {
			return nil, Wrap(err, "Delete", "storage")
		}
		if err := rel.Delete(h); err != nil {
			return nil, Wrap(err, "Delete", "storage")
		}
	}

	log.Debug("rows deleted", "count", len(handles), "indices", len(indexNames))
	return message("deleted %d rows from %s (%d indices updated)", len(handles), stmt.Table, len(indexNames)), nil
}

// buildFilterPlan builds TableScan(rel) -> [Select(pred)] for where and
// optimizes it against rel's indices via the catalog. Shared by Delete and
// Select.
func (e *Executor) buildFilterPlan(rel storage.Relation, table string, where ast.WhereExpr) (*evalplan.Plan, error) {
	pred, err := evalplan.ExtractPredicate(where, rel.Schema())
	if err != nil {
		return nil, translatePredicateError(err)
	}

	plan := evalplan.Select(pred, evalplan.TableScan(rel))
	resolve := func(column string) (storage.Index, bool) {
		names, err := e.catalog.GetIndexNames(table)
		if err != nil {
			return nil, false
		}
		for _, name := range names {
			idx, err := e.catalog.GetIndex(table, name)
			if err != nil {
				continue
			}
			if len(idx.Columns()) == 1 && idx.Columns()[0] == column {
				return idx, true
			}
		}
		return nil, false
	}
	return evalplan.Optimize(plan, resolve), nil
}

func translatePredicateError(err error) error {
	if errors.Is(err, catalog.ErrUnknownColumn) {
		return New(ErrUnknownColumn, err.Error())
	}
	if errors.Is(err, evalplan.ErrUnsupportedPredicate) {
		return New(ErrUnsupportedPredicate, err.Error())
	}
	return Wrap(err, "ExtractPredicate", "evalplan")
}
