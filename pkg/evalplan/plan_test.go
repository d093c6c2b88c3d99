package evalplan

import (
	"testing"

	"relcore/pkg/storage"
	"relcore/pkg/storage/memrel"
	"relcore/pkg/types"
)

func newPeople(t *testing.T) storage.Relation {
	t.Helper()
	schema := storage.Schema{
		ColumnNames:      []string{"id", "name"},
		ColumnAttributes: []types.Kind{types.IntKind, types.TextKind},
	}
	rel := memrel.New("people", schema)
	if err := rel.Create(); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, _ = rel.Insert(types.Row{"id": types.Int(1), "name": types.Text("a")})
	_, _ = rel.Insert(types.Row{"id": types.Int(2), "name": types.Text("b")})
	_, _ = rel.Insert(types.Row{"id": types.Int(3), "name": types.Text("a")})
	return rel
}

func TestTableScanPipelineReturnsEveryHandle(t *testing.T) {
	rel := newPeople(t)
	_, handles, err := TableScan(rel).Pipeline()
	if err != nil {
		t.Fatalf("Pipeline: %v", err)
	}
	if len(handles) != 3 {
		t.Errorf("got %d handles, want 3", len(handles))
	}
}

func TestSelectFiltersByPredicate(t *testing.T) {
	rel := newPeople(t)
	plan := Select(types.Row{"name": types.Text("a")}, TableScan(rel))
	_, handles, err := plan.Pipeline()
	if err != nil {
		t.Fatalf("Pipeline: %v", err)
	}
	if len(handles) != 2 {
		t.Errorf("got %d handles, want 2", len(handles))
	}
}

func TestSelectWithEmptyPredicateIsIdentity(t *testing.T) {
	rel := newPeople(t)
	plan := Select(nil, TableScan(rel))
	if plan.Kind != TableScanKind {
		t.Errorf("Select(nil, scan).Kind = %v, want TableScanKind (empty predicate should be elided)", plan.Kind)
	}
}

func TestProjectRestrictsColumns(t *testing.T) {
	rel := newPeople(t)
	plan := Project([]string{"name"}, TableScan(rel))
	rows, err := plan.Evaluate()
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	for _, row := range rows {
		if len(row) != 1 {
			t.Errorf("row %v has %d columns, want 1", row, len(row))
		}
		if _, ok := row["name"]; !ok {
			t.Errorf("row %v missing projected column name", row)
		}
	}
}

func TestEvaluateFullPipeline(t *testing.T) {
	rel := newPeople(t)
	plan := Project(nil, Select(types.Row{"id": types.Int(2)}, TableScan(rel)))
	rows, err := plan.Evaluate()
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(rows) != 1 || !rows[0]["name"].Equal(types.Text("b")) {
		t.Errorf("rows = %v, want one row with name=b", rows)
	}
}

func TestPipelineRejectsProject(t *testing.T) {
	rel := newPeople(t)
	plan := Project(nil, TableScan(rel))
	if _, _, err := plan.Pipeline(); err == nil {
		t.Error("Project.Pipeline() should fail; use Evaluate for projections")
	}
}
