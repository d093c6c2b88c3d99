// Package memindex is an in-memory reference implementation of the
// storage.Index contract. It stands in for the B-tree/hash index files a
// full storage layer would provide; this module only needs something that
// honors the Insert/Delete/Lookup contract and the unique/non-unique
// distinction between BTREE and HASH index types.
package memindex

import (
	"fmt"
	"sync"

	"relcore/pkg/storage"
	"relcore/pkg/types"
)

// IndexType names the two index kinds spec.md §4.4 allows in CREATE INDEX.
// BTREE indices are unique; HASH indices are not (see spec.md §9).
type IndexType string

const (
	BTree IndexType = "BTREE"
	Hash  IndexType = "HASH"
)

// Index is the in-memory secondary structure: a key (the concatenation of
// the indexed columns' values) mapped to the set of handles carrying it.
type Index struct {
	mu      sync.Mutex
	name    string
	table   storage.Relation
	columns []string
	unique  bool
	exists  bool
	byKey   map[string][]storage.Handle
}

// New constructs an unmaterialized index; Create must be called before use.
func New(table storage.Relation, name string, columns []string, unique bool) *Index {
	return &Index{
		name:    name,
		table:   table,
		columns: columns,
		unique:  unique,
		byKey:   make(map[string][]storage.Handle),
	}
}

func (ix *Index) Name() string      { return ix.name }
func (ix *Index) Columns() []string { return ix.columns }
func (ix *Index) IsUnique() bool    { return ix.unique }

// Create builds the index over every row currently in the base table.
func (ix *Index) Create() error {
	ix.mu.Lock()
	if ix.exists {
		ix.mu.Unlock()
		return fmt.Errorf("index %s already exists", ix.name)
	}
	ix.exists = true
	ix.mu.Unlock()

	handles, err := ix.table.Select(nil)
	if err != nil {
		return fmt.Errorf("index %s: scanning base table: %w", ix.name, err)
	}
	for _, h := range handles {
		if err := ix.Insert(h); err != nil {
			return fmt.Errorf("index %s: populating from existing rows: %w", ix.name, err)
		}
	}
	return nil
}

func (ix *Index) Drop() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if !ix.exists {
		return fmt.Errorf("index %s does not exist", ix.name)
	}
	ix.exists = false
	ix.byKey = make(map[string][]storage.Handle)
	return nil
}

func (ix *Index) keyFor(h storage.Handle) (string, error) {
	row, err := ix.table.Project(h, ix.columns)
	if err != nil {
		return "", err
	}
	return encodeKey(row, ix.columns), nil
}

func encodeKey(row types.Row, columns []string) string {
	key := ""
	for _, c := range columns {
		key += row[c].String() + "\x00"
	}
	return key
}

func (ix *Index) Insert(h storage.Handle) error {
	key, err := ix.keyFor(h)
	if err != nil {
		return fmt.Errorf("index %s: insert: %w", ix.name, err)
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.unique {
		if existing := ix.byKey[key]; len(existing) > 0 {
			return fmt.Errorf("index %s: unique constraint violated for key %q", ix.name, key)
		}
	}
	ix.byKey[key] = append(ix.byKey[key], h)
	return nil
}

func (ix *Index) Delete(h storage.Handle) error {
	key, err := ix.keyFor(h)
	if err != nil {
		return fmt.Errorf("index %s: delete: %w", ix.name, err)
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	handles := ix.byKey[key]
	for i, candidate := range handles {
		if candidate.Equal(h) {
			ix.byKey[key] = append(handles[:i], handles[i+1:]...)
			if len(ix.byKey[key]) == 0 {
				delete(ix.byKey, key)
			}
			return nil
		}
	}
	return fmt.Errorf("index %s: handle %v not found", ix.name, h)
}

func (ix *Index) Lookup(key types.Row) ([]storage.Handle, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	encoded := encodeKey(key, ix.columns)
	out := make([]storage.Handle, len(ix.byKey[encoded]))
	copy(out, ix.byKey[encoded])
	return out, nil
}

func (ix *Index) Handles() ([]storage.Handle, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	var out []storage.Handle
	for _, handles := range ix.byKey {
		out = append(out, handles...)
	}
	return out, nil
}

// Factory adapts New to the storage.IndexFactory contract.
type Factory struct{}

// NewFactory constructs an index factory producing memindex.Index values.
func NewFactory() Factory { return Factory{} }

func (Factory) Index(table storage.Relation, name string, columns []string, unique bool) storage.Index {
	return New(table, name, columns, unique)
}
