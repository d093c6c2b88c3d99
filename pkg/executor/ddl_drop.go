package executor

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"relcore/pkg/ast"
	"relcore/pkg/catalog"
	"relcore/pkg/logging"
	"relcore/pkg/types"
)

// DropTable implements spec.md §4.5: dropping a meta-table is forbidden.
// Otherwise every index on the table is dropped first (concurrently, via
// an errgroup, since each index drop is independent of the others), then
// every _columns row, then the physical relation, then the _tables row,
// and finally the table is evicted from the catalog cache.
func (e *Executor) DropTable(stmt ast.DropTableStmt) (*Result, error) {
	log := logging.WithTable(stmt.Table)

	if catalog.IsMetaTable(stmt.Table) {
		return nil, New(ErrSchemaProtected, fmt.Sprintf("table %s is a system table and cannot be dropped", stmt.Table))
	}

	rel, err := e.resolveTable(stmt.Table, "DropTable")
	if err != nil {
		return nil, err
	}

	indexNames, err := e.catalog.GetIndexNames(stmt.Table)
	if err != nil {
		return nil, Wrap(err, "DropTable", "catalog")
	}

	var g errgroup.Group
	for _, name := range indexNames {
		name := name
		g.Go(func() error { return e.dropIndexPhysical(stmt.Table, name) })
	}
	if err := g.Wait(); err != nil {
		return nil, Wrap(err, "DropTable", "storage")
	}

	columnsRel, err := e.catalog.Columns()
	if err != nil {
		return nil, Wrap(err, "DropTable", "catalog")
	}
	if err := deleteAllMatching(columnsRel, types.Row{"table_name": types.Text(stmt.Table)}); err != nil {
		return nil, Wrap(err, "DropTable", "_columns")
	}

	if err := rel.Drop(); err != nil {
		return nil, Wrap(err, "DropTable", "storage")
	}

	tablesRel, err := e.catalog.Tables()
	if err != nil {
		return nil, Wrap(err, "DropTable", "catalog")
	}
	if err := deleteAllMatching(tablesRel, types.Row{"table_name": types.Text(stmt.Table)}); err != nil {
		return nil, Wrap(err, "DropTable", "_tables")
	}

	e.catalog.InvalidateTable(stmt.Table)
	log.Info("table dropped", "indices", len(indexNames))
	return message("dropped %s", stmt.Table), nil
}

// DropIndex implements spec.md §4.5: drop the physical index, remove its
// _indices rows, and evict it from the catalog cache.
func (e *Executor) DropIndex(stmt ast.DropIndexStmt) (*Result, error) {
	log := logging.WithIndex(stmt.Index)

	if _, err := e.catalog.GetIndex(stmt.Table, stmt.Index); err != nil {
		if isUnknownIndex(err) {
			return nil, New(ErrUnknownIndex, fmt.Sprintf("index %s does not exist on table %s", stmt.Index, stmt.Table))
		}
		return nil, Wrap(err, "DropIndex", "catalog")
	}

	if err := e.dropIndexPhysical(stmt.Table, stmt.Index); err != nil {
		return nil, Wrap(err, "DropIndex", "storage")
	}

	log.Info("index dropped", "table", stmt.Table)
	return message("dropped index %s", stmt.Index), nil
}

// dropIndexPhysical drops the physical index structure and removes its
// _indices bookkeeping rows, then evicts it from the catalog cache. Shared
// by DropTable's per-index fan-out and DropIndex itself.
func (e *Executor) dropIndexPhysical(table, indexName string) error {
	idx, err := e.catalog.GetIndex(table, indexName)
	if err != nil {
		return fmt.Errorf("resolving index %s.%s: %w", table, indexName, err)
	}
	if err := idx.Drop(); err != nil {
		return fmt.Errorf("dropping index %s.%s: %w", table, indexName, err)
	}

	indicesRel, err := e.catalog.Indices()
	if err != nil {
		return err
	}
	if err := deleteAllMatching(indicesRel, types.Row{
		"table_name": types.Text(table),
		"index_name": types.Text(indexName),
	}); err != nil {
		return fmt.Errorf("clearing _indices rows for %s.%s: %w", table, indexName, err)
	}

	e.catalog.InvalidateIndex(table, indexName)
	return nil
}
