// Package storage declares the abstract contract the executor programs
// against: Relation (a heap of rows) and Index (a secondary structure over
// one or more columns of a Relation). Concrete heap files, slotted pages,
// B-tree/hash structures and the transaction buffer that would back these
// contracts in a full database are out of scope for this module; callers
// supply factories that produce implementations of these interfaces.
package storage

import (
	"fmt"

	"relcore/pkg/types"
)

// Handle is an opaque, storage-layer-assigned identifier for a persisted
// row. It must remain stable for the row's lifetime and is invalidated by
// delete. Never assume internal structure; only compare for equality.
type Handle interface {
	fmt.Stringer
	Equal(other Handle) bool
}

// Schema is a relation's fixed, ordered column list and their attributes.
type Schema struct {
	ColumnNames      []string
	ColumnAttributes []Kind
}

// IndexOf returns the position of name in the schema, or -1.
func (s Schema) IndexOf(name string) int {
	for i, c := range s.ColumnNames {
		if c == name {
			return i
		}
	}
	return -1
}

// AttributeOf returns the ColumnAttribute declared for name.
func (s Schema) AttributeOf(name string) (Kind, bool) {
	i := s.IndexOf(name)
	if i < 0 {
		return 0, false
	}
	return s.ColumnAttributes[i], true
}

// Relation is a named container of rows with a fixed ordered schema.
type Relation interface {
	Name() string
	Schema() Schema

	// Create physically instantiates the relation. Errors if it already
	// exists.
	Create() error
	// CreateIfNotExists is a no-op if the relation already exists.
	CreateIfNotExists() error
	// Drop physically destroys the relation.
	Drop() error

	Insert(row Row) (Handle, error)
	Delete(h Handle) error
	// Select returns the handles of every row matching where (an
	// equality-conjunction predicate); a nil/empty where matches every row.
	Select(where Row) ([]Handle, error)
	// Project returns the row for h, restricted to cols (nil/empty means
	// every column, in schema order).
	Project(h Handle, cols []string) (Row, error)
}

// Index is a named secondary structure on a relation over an ordered list
// of columns.
type Index interface {
	Name() string
	Columns() []string
	IsUnique() bool

	Create() error
	Drop() error

	Insert(h Handle) error
	Delete(h Handle) error
	// Lookup returns the handles whose indexed columns equal key (a row
	// restricted to the index's columns).
	Lookup(key Row) ([]Handle, error)
	// Handles returns every handle currently carried by the index, used to
	// verify the index-equals-base-relation invariant in tests.
	Handles() ([]Handle, error)
}

// RelationFactory instantiates a Relation for a given name/schema, or opens
// the existing physical relation of that name.
type RelationFactory interface {
	Relation(name string, schema Schema) Relation
}

// IndexFactory instantiates an Index given its definition.
type IndexFactory interface {
	Index(table Relation, name string, columns []string, unique bool) Index
}

// Row and Kind alias pkg/types so every layer shares one Value/Row
// definition.
type (
	Row = types.Row
	Kind = types.Kind
)
