// Package memrel is an in-memory reference implementation of the
// storage.Relation contract, grounded in the same mutex-guarded map shape
// as a simple heap-free storage engine. It exists so the catalog and
// executor can be exercised without a real heap file / slotted page
// implementation, which this module treats as an external collaborator.
package memrel

import (
	"fmt"
	"sync"

	"relcore/pkg/storage"
	"relcore/pkg/types"
)

// handle is the concrete Handle this package hands out: a monotonically
// increasing row id, analogous to a storage layer's (file_id, record_id).
type handle struct {
	name string
	id   uint64
}

func (h handle) String() string { return fmt.Sprintf("%s#%d", h.name, h.id) }

func (h handle) Equal(other storage.Handle) bool {
	o, ok := other.(handle)
	return ok && o == h
}

// Relation is the in-memory relation: a set of live rows keyed by handle.
type Relation struct {
	mu      sync.Mutex
	name    string
	schema  storage.Schema
	exists  bool
	nextID  uint64
	rows    map[handle]types.Row
	order   []handle // insertion order, for deterministic scans
}

// New constructs an unmaterialized relation; Create/CreateIfNotExists must
// be called before Insert/Select/Project will succeed.
func New(name string, schema storage.Schema) *Relation {
	return &Relation{
		name:   name,
		schema: schema,
		rows:   make(map[handle]types.Row),
	}
}

func (r *Relation) Name() string          { return r.name }
func (r *Relation) Schema() storage.Schema { return r.schema }

func (r *Relation) Create() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.exists {
		return fmt.Errorf("relation %s already exists", r.name)
	}
	r.exists = true
	return nil
}

func (r *Relation) CreateIfNotExists() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exists = true
	return nil
}

func (r *Relation) Drop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.exists {
		return fmt.Errorf("relation %s does not exist", r.name)
	}
	r.exists = false
	r.rows = make(map[handle]types.Row)
	r.order = nil
	return nil
}

func (r *Relation) Insert(row types.Row) (storage.Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.exists {
		return nil, fmt.Errorf("relation %s does not exist", r.name)
	}
	r.nextID++
	h := handle{name: r.name, id: r.nextID}
	r.rows[h] = row.Clone()
	r.order = append(r.order, h)
	return h, nil
}

func (r *Relation) Delete(h storage.Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	mh, ok := h.(handle)
	if !ok {
		return fmt.Errorf("delete: handle %v not owned by relation %s", h, r.name)
	}
	if _, ok := r.rows[mh]; !ok {
		return fmt.Errorf("delete: handle %v not found in relation %s", h, r.name)
	}
	delete(r.rows, mh)
	for i, o := range r.order {
		if o == mh {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *Relation) Select(where types.Row) ([]storage.Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.exists {
		return nil, fmt.Errorf("relation %s does not exist", r.name)
	}
	out := make([]storage.Handle, 0, len(r.order))
	for _, h := range r.order {
		row := r.rows[h]
		if matches(row, where) {
			out = append(out, h)
		}
	}
	return out, nil
}

func matches(row, where types.Row) bool {
	for col, want := range where {
		got, ok := row[col]
		if !ok || !got.Equal(want) {
			return false
		}
	}
	return true
}

func (r *Relation) Project(h storage.Handle, cols []string) (types.Row, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	mh, ok := h.(handle)
	if !ok {
		return nil, fmt.Errorf("project: handle %v not owned by relation %s", h, r.name)
	}
	row, ok := r.rows[mh]
	if !ok {
		return nil, fmt.Errorf("project: handle %v not found in relation %s", h, r.name)
	}
	if len(cols) == 0 {
		cols = r.schema.ColumnNames
	}
	out := make(types.Row, len(cols))
	for _, c := range cols {
		out[c] = row[c]
	}
	return out, nil
}

// Factory adapts New to the storage.RelationFactory contract, caching one
// *Relation per name so repeated lookups (as the catalog does) share state.
// A cached relation that is not materialized (never created, or dropped)
// takes on the schema of the latest lookup, so a table re-created under
// the same name gets its new columns.
type Factory struct {
	mu    sync.Mutex
	byName map[string]*Relation
}

// NewFactory constructs an empty relation factory.
func NewFactory() *Factory {
	return &Factory{byName: make(map[string]*Relation)}
}

func (f *Factory) Relation(name string, schema storage.Schema) storage.Relation {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rel, ok := f.byName[name]; ok {
		rel.mu.Lock()
		if !rel.exists {
			rel.schema = schema
		}
		rel.mu.Unlock()
		return rel
	}
	rel := New(name, schema)
	f.byName[name] = rel
	return rel
}
