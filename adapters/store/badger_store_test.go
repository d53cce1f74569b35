package store

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"wrangle/domain/core"
	"wrangle/domain/table"
	"wrangle/internal/errors"
	"wrangle/internal/testkit"
)

func newTestStore(t *testing.T, cacheEnabled bool) *BadgerStore {
	t.Helper()
	s := NewBadgerStore(TestBadgerDB(), cacheEnabled)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBadgerStore_SaveAndLoadRoundTrip(t *testing.T) {
	s := newTestStore(t, false)
	ctx := context.Background()
	tbl := testkit.ScenarioTable()

	if err := s.Save(ctx, "people", tbl); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := s.Load(ctx, "people")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !got.Equal(tbl) {
		t.Errorf("loaded table differs from saved:\n%s", cmp.Diff(tbl, got))
	}

	// Missing markers survive the round trip.
	if got.MissingCellCount() != 2 {
		t.Errorf("MissingCellCount = %d, want 2", got.MissingCellCount())
	}
	if testkit.Col(got, "age").Kind != testkit.Col(tbl, "age").Kind {
		t.Error("column kind lost in round trip")
	}
}

func TestBadgerStore_LoadUnknownRelation(t *testing.T) {
	s := newTestStore(t, false)

	_, err := s.Load(context.Background(), "nope")
	if err == nil {
		t.Fatal("expected error for unknown relation")
	}
	if !errors.HasCode(err, errors.CodeNotFound) {
		t.Errorf("error code = %s, want %s", errors.GetCode(err), errors.CodeNotFound)
	}
}

func TestBadgerStore_SaveOverwrites(t *testing.T) {
	s := newTestStore(t, false)
	ctx := context.Background()

	first := testkit.MustTable(testkit.NumericColumn("v", 1, 2))
	second := testkit.MustTable(testkit.NumericColumn("v", 9))

	if err := s.Save(ctx, "data", first); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}
	if err := s.Save(ctx, "data", second); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	got, err := s.Load(ctx, "data")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !got.Equal(second) {
		t.Errorf("overwrite not visible:\n%s", cmp.Diff(second, got))
	}
}

func TestBadgerStore_DeleteThenLoad(t *testing.T) {
	s := newTestStore(t, false)
	ctx := context.Background()

	if err := s.Save(ctx, "gone", testkit.ScenarioTable()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := s.Delete(ctx, "gone"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := s.Load(ctx, "gone"); !errors.HasCode(err, errors.CodeNotFound) {
		t.Errorf("Load after Delete: error = %v, want NOT_FOUND", err)
	}

	// Deleting an unknown name is a no-op.
	if err := s.Delete(ctx, "never_existed"); err != nil {
		t.Errorf("Delete of unknown relation should not fail: %v", err)
	}
}

func TestBadgerStore_List(t *testing.T) {
	s := newTestStore(t, false)
	ctx := context.Background()

	names, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("fresh store lists %v, want none", names)
	}

	tbl := testkit.ScenarioTable()
	for _, name := range []core.RelationName{"alpha", "beta"} {
		if err := s.Save(ctx, name, tbl); err != nil {
			t.Fatalf("Save(%s) failed: %v", name, err)
		}
	}

	names, err = s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("List = %v, want 2 names", names)
	}
	seen := map[core.RelationName]bool{}
	for _, n := range names {
		seen[n] = true
	}
	if !seen["alpha"] || !seen["beta"] {
		t.Errorf("List = %v, want alpha and beta", names)
	}
}

// TestBadgerStore_LoadsAreIndependentInstances: loads must not alias one
// shared table, so mutating one caller's copy cannot leak into another's.
func TestBadgerStore_LoadsAreIndependentInstances(t *testing.T) {
	s := newTestStore(t, true)
	ctx := context.Background()
	tbl := testkit.ScenarioTable()

	if err := s.Save(ctx, "data", tbl); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	first, err := s.Load(ctx, "data")
	if err != nil {
		t.Fatalf("first Load failed: %v", err)
	}
	second, err := s.Load(ctx, "data")
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}

	if first == second {
		t.Fatal("loads returned the same instance")
	}

	first.Columns[0].Cells[0] = table.NewMissingCell()
	if second.Columns[0].Cells[0].IsMissing {
		t.Error("mutating one loaded table leaked into another load")
	}

	third, err := s.Load(ctx, "data")
	if err != nil {
		t.Fatalf("third Load failed: %v", err)
	}
	if !third.Equal(tbl) {
		t.Error("later loads should still match the saved relation")
	}
}

func TestBadgerStore_CachedLoadsAgree(t *testing.T) {
	s := newTestStore(t, true)
	ctx := context.Background()
	tbl := testkit.ScenarioTable()

	if err := s.Save(ctx, "data", tbl); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Repeated loads return the same relation whether served from the
	// cache or the backing store.
	for i := 0; i < 3; i++ {
		got, err := s.Load(ctx, "data")
		if err != nil {
			t.Fatalf("Load %d failed: %v", i, err)
		}
		if !got.Equal(tbl) {
			t.Fatalf("Load %d differs from saved:\n%s", i, cmp.Diff(tbl, got))
		}
	}
}
