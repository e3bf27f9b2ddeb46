//go:build sqlite

package storage

import (
	"context"
	"path/filepath"
	"testing"

	"tactile/internal/model"
)

func TestSQLiteStoreRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "tactile.db")

	store := NewSQLiteStore(dbPath)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	older := model.RunRecord{ID: "r1", Name: "peg", CreatedAtUTC: "2026-01-01T00:00:00Z", Status: model.RunPlanned}
	newer := model.RunRecord{ID: "r2", Name: "peg_b", CreatedAtUTC: "2026-01-02T00:00:00Z", Status: model.RunPlanned}
	for _, r := range []model.RunRecord{older, newer} {
		if err := store.SaveRun(ctx, r); err != nil {
			t.Fatalf("save run %s: %v", r.ID, err)
		}
	}
	older.Status = model.RunFinished
	if err := store.SaveRun(ctx, older); err != nil {
		t.Fatalf("update run: %v", err)
	}

	got, ok, err := store.GetRun(ctx, "r1")
	if err != nil || !ok {
		t.Fatalf("get run: ok=%t err=%v", ok, err)
	}
	if got.Status != model.RunFinished {
		t.Fatalf("unexpected status: %s", got.Status)
	}

	runs, err := store.ListRuns(ctx)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "r2" || runs[1].ID != "r1" {
		t.Fatalf("unexpected runs: %+v", runs)
	}
}
