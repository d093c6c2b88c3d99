package memrel

import (
	"testing"

	"relcore/pkg/storage"
	"relcore/pkg/types"
)

func testSchema() storage.Schema {
	return storage.Schema{
		ColumnNames:      []string{"id", "name"},
		ColumnAttributes: []types.Kind{types.IntKind, types.TextKind},
	}
}

func TestInsertSelectProject(t *testing.T) {
	rel := New("people", testSchema())
	if err := rel.Create(); err != nil {
		t.Fatalf("Create: %v", err)
	}

	h1, err := rel.Insert(types.Row{"id": types.Int(1), "name": types.Text("a")})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if _, err := rel.Insert(types.Row{"id": types.Int(2), "name": types.Text("b")}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	handles, err := rel.Select(types.Row{"id": types.Int(1)})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(handles) != 1 || !handles[0].Equal(h1) {
		t.Fatalf("Select(id=1) = %v, want [%v]", handles, h1)
	}

	row, err := rel.Project(h1, nil)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if !row["name"].Equal(types.Text("a")) {
		t.Errorf("Project full schema: got name=%v", row["name"])
	}

	partial, err := rel.Project(h1, []string{"name"})
	if err != nil {
		t.Fatalf("Project partial: %v", err)
	}
	if _, ok := partial["id"]; ok {
		t.Error("Project with explicit cols should not include unlisted columns")
	}
}

func TestDeleteRemovesFromSelect(t *testing.T) {
	rel := New("people", testSchema())
	_ = rel.Create()
	h, _ := rel.Insert(types.Row{"id": types.Int(1), "name": types.Text("a")})

	if err := rel.Delete(h); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	handles, err := rel.Select(nil)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(handles) != 0 {
		t.Errorf("Select after Delete = %v, want empty", handles)
	}
}

func TestCreateTwiceFails(t *testing.T) {
	rel := New("people", testSchema())
	if err := rel.Create(); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if err := rel.Create(); err == nil {
		t.Error("second Create should fail")
	}
}

func TestCreateIfNotExistsIdempotent(t *testing.T) {
	rel := New("people", testSchema())
	if err := rel.CreateIfNotExists(); err != nil {
		t.Fatalf("first CreateIfNotExists: %v", err)
	}
	if err := rel.CreateIfNotExists(); err != nil {
		t.Fatalf("second CreateIfNotExists: %v", err)
	}
}

func TestFactoryCachesByName(t *testing.T) {
	f := NewFactory()
	a := f.Relation("people", testSchema())
	b := f.Relation("people", testSchema())
	if a != b {
		t.Error("Factory.Relation should return the same instance for the same name")
	}
}

func TestScanOrderIsInsertionOrder(t *testing.T) {
	rel := New("people", testSchema())
	_ = rel.Create()
	for i := int32(1); i <= 3; i++ {
		if _, err := rel.Insert(types.Row{"id": types.Int(i), "name": types.Text("x")}); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
	handles, err := rel.Select(nil)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(handles) != 3 {
		t.Fatalf("got %d handles, want 3", len(handles))
	}
	for i, h := range handles {
		row, err := rel.Project(h, []string{"id"})
		if err != nil {
			t.Fatalf("Project: %v", err)
		}
		if row["id"].I != int32(i+1) {
			t.Errorf("handle %d: id = %d, want %d", i, row["id"].I, i+1)
		}
	}
}
