// Package executor dispatches parsed AST statements against a
// catalog.Catalog, either editing the catalog directly (DDL) or building
// an evalplan.Plan (DML/SHOW) and running it through the storage layer.
package executor

import (
	"errors"
	"fmt"

	"relcore/pkg/ast"
	"relcore/pkg/catalog"
	"relcore/pkg/logging"
	"relcore/pkg/storage"
)

// Executor runs statements against a single Catalog. It holds no
// per-call state: each Execute call runs to completion synchronously
// before the next begins (see spec.md §5).
type Executor struct {
	catalog *catalog.Catalog
}

// NewExecutor builds an Executor over cat. Physical indices are instantiated by
// the IndexFactory cat was itself built with (catalog.New); CreateIndex
// reaches them through e.catalog.GetIndex, never directly.
func NewExecutor(cat *catalog.Catalog) *Executor {
	return &Executor{catalog: cat}
}

// Execute dispatches stmt by its concrete AST type. Unrecognized
// statement kinds return a NotImplemented message rather than an error,
// per spec.md §7.
func (e *Executor) Execute(stmt any) (*Result, error) {
	switch s := stmt.(type) {
	case ast.CreateTableStmt:
		return e.CreateTable(s)
	case ast.CreateIndexStmt:
		return e.CreateIndex(s)
	case ast.DropTableStmt:
		return e.DropTable(s)
	case ast.DropIndexStmt:
		return e.DropIndex(s)
	case ast.ShowStmt:
		return e.Show(s)
	case ast.InsertStmt:
		return e.Insert(s)
	case ast.DeleteStmt:
		return e.Delete(s)
	case ast.SelectStmt:
		return e.Select(s)
	default:
		logging.GetLogger().Warn("unrecognized statement kind", "type", fmt.Sprintf("%T", stmt))
		return message("not implemented: %T", stmt), nil
	}
}

// resolveTable wraps catalog.GetTable, translating catalog.ErrUnknownTable
// into the executor's error family.
func (e *Executor) resolveTable(name, operation string) (storage.Relation, error) {
	rel, err := e.catalog.GetTable(name)
	if err != nil {
		if errors.Is(err, catalog.ErrUnknownTable) {
			return nil, New(ErrUnknownTable, "table "+name+" does not exist")
		}
		return nil, Wrap(err, operation, "catalog")
	}
	return rel, nil
}
