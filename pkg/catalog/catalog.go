// Package catalog implements the self-describing schema catalog:
// _tables, _columns and _indices, three ordinary relations that record
// every user table, its columns, and its indices. The catalog resolves
// table/index names to live storage.Relation/storage.Index objects and
// keeps the three meta-relations consistent with those objects.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"relcore/pkg/logging"
	"relcore/pkg/storage"
	"relcore/pkg/types"
)

// Name-resolution failures raised by the catalog. The executor maps these
// to its own semantic error kinds (ErrUnknownTable, etc); this package
// stays storage-shaped and does not know about executor error codes.
// ErrSchemaProtected is declared alongside them but no catalog method
// returns it; DropTable checks IsMetaTable and raises its own code.
var (
	ErrUnknownTable    = errors.New("unknown table")
	ErrUnknownColumn   = errors.New("unknown column")
	ErrUnknownIndex    = errors.New("unknown index")
	ErrSchemaProtected = errors.New("schema protected")
)

// Meta-table names. These three relations are bootstrapped on first use
// and are non-droppable.
const (
	TablesTable  = "_tables"
	ColumnsTable = "_columns"
	IndicesTable = "_indices"
)

// IsMetaTable reports whether name is one of the three non-droppable
// system relations.
func IsMetaTable(name string) bool {
	return name == TablesTable || name == ColumnsTable || name == IndicesTable
}

var tablesSchema = storage.Schema{
	ColumnNames:      []string{"table_name"},
	ColumnAttributes: []types.Kind{types.TextKind},
}

var columnsSchema = storage.Schema{
	ColumnNames:      []string{"table_name", "column_name", "data_type"},
	ColumnAttributes: []types.Kind{types.TextKind, types.TextKind, types.TextKind},
}

var indicesSchema = storage.Schema{
	ColumnNames: []string{"table_name", "index_name", "seq_in_index", "column_name", "index_type", "is_unique"},
	ColumnAttributes: []types.Kind{
		types.TextKind, types.TextKind, types.IntKind, types.TextKind, types.TextKind, types.BoolKind,
	},
}

// Catalog is the process-wide schema catalog, threaded explicitly into the
// executor rather than kept as package-level mutable state (see DESIGN.md).
type Catalog struct {
	relFactory storage.RelationFactory
	idxFactory storage.IndexFactory

	mu          sync.Mutex
	bootstrapped bool

	tablesRel  storage.Relation
	columnsRel storage.Relation
	indicesRel storage.Relation

	tableCache map[string]storage.Relation
	indexCache map[string]map[string]storage.Index
}

// New constructs a Catalog over the given storage factories. Bootstrap is
// lazy: the physical meta-relations are not touched until the first call
// that needs them.
func New(relFactory storage.RelationFactory, idxFactory storage.IndexFactory) *Catalog {
	return &Catalog{
		relFactory: relFactory,
		idxFactory: idxFactory,
		tableCache: make(map[string]storage.Relation),
		indexCache: make(map[string]map[string]storage.Index),
	}
}

// Tables returns the _tables meta-relation, bootstrapping if necessary.
func (c *Catalog) Tables() (storage.Relation, error) {
	if err := c.ensureBootstrap(); err != nil {
		return nil, err
	}
	return c.tablesRel, nil
}

// Columns returns the _columns meta-relation, bootstrapping if necessary.
func (c *Catalog) Columns() (storage.Relation, error) {
	if err := c.ensureBootstrap(); err != nil {
		return nil, err
	}
	return c.columnsRel, nil
}

// Indices returns the _indices meta-relation, bootstrapping if necessary.
func (c *Catalog) Indices() (storage.Relation, error) {
	if err := c.ensureBootstrap(); err != nil {
		return nil, err
	}
	return c.indicesRel, nil
}

// ensureBootstrap creates the physical meta-relations if absent and
// self-registers their own rows in _tables/_columns. Idempotent.
func (c *Catalog) ensureBootstrap() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bootstrapped {
		return nil
	}

	c.tablesRel = c.relFactory.Relation(TablesTable, tablesSchema)
	c.columnsRel = c.relFactory.Relation(ColumnsTable, columnsSchema)
	c.indicesRel = c.relFactory.Relation(IndicesTable, indicesSchema)

	for _, rel := range []storage.Relation{c.tablesRel, c.columnsRel, c.indicesRel} {
		if err := rel.CreateIfNotExists(); err != nil {
			return fmt.Errorf("bootstrap: creating %s: %w", rel.Name(), err)
		}
	}

	for _, meta := range []struct {
		name string
		cols []struct{ name, typ string }
	}{
		{TablesTable, []struct{ name, typ string }{{"table_name", "TEXT"}}},
		{ColumnsTable, []struct{ name, typ string }{
			{"table_name", "TEXT"}, {"column_name", "TEXT"}, {"data_type", "TEXT"},
		}},
		{IndicesTable, []struct{ name, typ string }{
			{"table_name", "TEXT"}, {"index_name", "TEXT"}, {"seq_in_index", "INT"},
			{"column_name", "TEXT"}, {"index_type", "TEXT"}, {"is_unique", "BOOLEAN"},
		}},
	} {
		if err := c.selfRegister(meta.name, meta.cols); err != nil {
			return err
		}
	}

	c.tableCache[TablesTable] = c.tablesRel
	c.tableCache[ColumnsTable] = c.columnsRel
	c.tableCache[IndicesTable] = c.indicesRel

	c.bootstrapped = true
	logging.WithComponent("catalog").Debug("catalog bootstrapped")
	return nil
}

func (c *Catalog) selfRegister(name string, cols []struct{ name, typ string }) error {
	existing, err := c.tablesRel.Select(types.Row{"table_name": types.Text(name)})
	if err != nil {
		return fmt.Errorf("bootstrap: checking %s: %w", name, err)
	}
	if len(existing) > 0 {
		return nil
	}
	if _, err := c.tablesRel.Insert(types.Row{"table_name": types.Text(name)}); err != nil {
		return fmt.Errorf("bootstrap: registering %s: %w", name, err)
	}
	for _, col := range cols {
		row := types.Row{
			"table_name":  types.Text(name),
			"column_name": types.Text(col.name),
			"data_type":   types.Text(col.typ),
		}
		if _, err := c.columnsRel.Insert(row); err != nil {
			return fmt.Errorf("bootstrap: registering column %s.%s: %w", name, col.name, err)
		}
	}
	return nil
}

// GetTable resolves name to a live storage.Relation, instantiating it on
// first access by reading its schema from _columns. Fails with
// ErrUnknownTable if name is absent from _tables.
func (c *Catalog) GetTable(name string) (storage.Relation, error) {
	if err := c.ensureBootstrap(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	if rel, ok := c.tableCache[name]; ok {
		c.mu.Unlock()
		return rel, nil
	}
	c.mu.Unlock()

	found, err := c.tablesRel.Select(types.Row{"table_name": types.Text(name)})
	if err != nil {
		return nil, fmt.Errorf("resolving table %s: %w", name, err)
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}

	colRows, err := c.orderedColumnRows(name)
	if err != nil {
		return nil, err
	}
	if len(colRows) == 0 {
		return nil, fmt.Errorf("%w: table %s has no columns registered", ErrUnknownColumn, name)
	}

	schema := storage.Schema{
		ColumnNames:      make([]string, len(colRows)),
		ColumnAttributes: make([]types.Kind, len(colRows)),
	}
	for i, row := range colRows {
		schema.ColumnNames[i] = row["column_name"].S
		attr, ok := types.ParseColumnAttribute(row["data_type"].S)
		if !ok {
			return nil, fmt.Errorf("catalog corruption: table %s column %s has unrecognized data_type %q",
				name, row["column_name"].S, row["data_type"].S)
		}
		schema.ColumnAttributes[i] = attr
	}

	rel := c.relFactory.Relation(name, schema)

	c.mu.Lock()
	c.tableCache[name] = rel
	c.mu.Unlock()
	return rel, nil
}

// orderedColumnRows returns the _columns rows for table, in the order they
// were inserted (which defines the table's column ordering).
func (c *Catalog) orderedColumnRows(table string) ([]types.Row, error) {
	handles, err := c.columnsRel.Select(types.Row{"table_name": types.Text(table)})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", ColumnsTable, err)
	}
	rows := make([]types.Row, len(handles))
	for i, h := range handles {
		row, err := c.columnsRel.Project(h, nil)
		if err != nil {
			return nil, fmt.Errorf("projecting %s row: %w", ColumnsTable, err)
		}
		rows[i] = row
	}
	return rows, nil
}

// GetIndex resolves (table, indexName) to a live storage.Index,
// instantiating it on first access by reading _indices (ordered by
// seq_in_index) to recover the indexed column list and index type.
func (c *Catalog) GetIndex(table, indexName string) (storage.Index, error) {
	if _, err := c.GetTable(table); err != nil {
		return nil, err
	}

	c.mu.Lock()
	if byName, ok := c.indexCache[table]; ok {
		if idx, ok := byName[indexName]; ok {
			c.mu.Unlock()
			return idx, nil
		}
	}
	c.mu.Unlock()

	handles, err := c.indicesRel.Select(types.Row{
		"table_name": types.Text(table),
		"index_name": types.Text(indexName),
	})
	if err != nil {
		return nil, fmt.Errorf("resolving index %s.%s: %w", table, indexName, err)
	}
	if len(handles) == 0 {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownIndex, table, indexName)
	}

	rows := make([]types.Row, len(handles))
	for i, h := range handles {
		row, err := c.indicesRel.Project(h, nil)
		if err != nil {
			return nil, fmt.Errorf("projecting %s row: %w", IndicesTable, err)
		}
		rows[i] = row
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i]["seq_in_index"].I < rows[j]["seq_in_index"].I })

	columns := make([]string, len(rows))
	for i, row := range rows {
		columns[i] = row["column_name"].S
	}
	unique := rows[0]["is_unique"].B

	tableRel, err := c.GetTable(table)
	if err != nil {
		return nil, err
	}
	idx := c.idxFactory.Index(tableRel, indexName, columns, unique)

	c.mu.Lock()
	if c.indexCache[table] == nil {
		c.indexCache[table] = make(map[string]storage.Index)
	}
	c.indexCache[table][indexName] = idx
	c.mu.Unlock()
	return idx, nil
}

// GetIndexNames returns the distinct index names appearing in _indices for
// table, in first-seen order.
func (c *Catalog) GetIndexNames(table string) ([]string, error) {
	if err := c.ensureBootstrap(); err != nil {
		return nil, err
	}
	handles, err := c.indicesRel.Select(types.Row{"table_name": types.Text(table)})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", IndicesTable, err)
	}
	seen := make(map[string]bool)
	var names []string
	for _, h := range handles {
		row, err := c.indicesRel.Project(h, []string{"index_name"})
		if err != nil {
			return nil, fmt.Errorf("projecting %s row: %w", IndicesTable, err)
		}
		name := row["index_name"].S
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names, nil
}

// InvalidateTable drops name from the resolved-relation cache, forcing the
// next GetTable to re-read _columns. Called after DROP TABLE.
func (c *Catalog) InvalidateTable(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.tableCache, name)
	delete(c.indexCache, name)
}

// InvalidateIndex drops (table, indexName) from the resolved-index cache.
// Called after DROP INDEX.
func (c *Catalog) InvalidateIndex(table, indexName string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if byName, ok := c.indexCache[table]; ok {
		delete(byName, indexName)
	}
}
