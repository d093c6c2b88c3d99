package evalplan

import (
	"testing"

	"relcore/pkg/storage"
	"relcore/pkg/storage/memindex"
	"relcore/pkg/types"
)

func newIndexedPeople(t *testing.T) (storage.Relation, storage.Index) {
	t.Helper()
	rel := newPeople(t)
	idx := memindex.New(rel, "ix_id", []string{"id"}, true)
	if err := idx.Create(); err != nil {
		t.Fatalf("index Create: %v", err)
	}
	return rel, idx
}

func TestOptimizeRewritesToIndexProbe(t *testing.T) {
	rel, idx := newIndexedPeople(t)
	resolve := func(column string) (storage.Index, bool) {
		if column == "id" {
			return idx, true
		}
		return nil, false
	}

	plan := Select(types.Row{"id": types.Int(2)}, TableScan(rel))
	optimized := Optimize(plan, resolve)

	if optimized.Kind != TableScanKind || optimized.Index == nil {
		t.Fatalf("Optimize did not rewrite to an index probe: %+v", optimized)
	}
}

func TestOptimizePreservesEvaluateResult(t *testing.T) {
	rel, idx := newIndexedPeople(t)
	resolve := func(column string) (storage.Index, bool) {
		if column == "id" {
			return idx, true
		}
		return nil, false
	}

	before := Project(nil, Select(types.Row{"id": types.Int(2)}, TableScan(rel)))
	rowsBefore, err := before.Evaluate()
	if err != nil {
		t.Fatalf("Evaluate before optimize: %v", err)
	}

	after := Project(nil, Select(types.Row{"id": types.Int(2)}, TableScan(rel)))
	optimized := Optimize(after, resolve)
	rowsAfter, err := optimized.Evaluate()
	if err != nil {
		t.Fatalf("Evaluate after optimize: %v", err)
	}

	if len(rowsBefore) != len(rowsAfter) {
		t.Fatalf("row count differs: before=%d after=%d", len(rowsBefore), len(rowsAfter))
	}
	if !rowsBefore[0]["name"].Equal(rowsAfter[0]["name"]) {
		t.Errorf("optimize changed the result: before=%v after=%v", rowsBefore[0], rowsAfter[0])
	}
}

func TestOptimizeLeavesMultiColumnPredicateFiltered(t *testing.T) {
	rel, idx := newIndexedPeople(t)
	resolve := func(column string) (storage.Index, bool) {
		if column == "id" {
			return idx, true
		}
		return nil, false
	}

	plan := Select(types.Row{"id": types.Int(1), "name": types.Text("a")}, TableScan(rel))
	optimized := Optimize(plan, resolve)

	_, handles, err := optimized.Pipeline()
	if err != nil {
		t.Fatalf("Pipeline: %v", err)
	}
	if len(handles) != 1 {
		t.Errorf("got %d handles, want 1 (id=1 and name=a both satisfied)", len(handles))
	}
}

func TestOptimizeWithNoMatchingIndexFallsBackToScan(t *testing.T) {
	rel, _ := newIndexedPeople(t)
	resolve := func(column string) (storage.Index, bool) { return nil, false }

	plan := Select(types.Row{"name": types.Text("a")}, TableScan(rel))
	optimized := Optimize(plan, resolve)

	if optimized.Index != nil {
		t.Error("Optimize should not attach an index when resolve finds none")
	}
	_, handles, err := optimized.Pipeline()
	if err != nil {
		t.Fatalf("Pipeline: %v", err)
	}
	if len(handles) != 2 {
		t.Errorf("got %d handles, want 2", len(handles))
	}
}
