package kpi

import (
	"bytes"
	"context"
	"reflect"
	"strings"
	"testing"

	"kpitrack/internal/core"
	"kpitrack/internal/notify"
	"kpitrack/internal/storage/memory"
)

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSession(t, memory.New())

	if err := s.UpdateValue(ctx, core.Daily, core.EmailsSent, 42); err != nil {
		t.Fatalf("UpdateValue: %v", err)
	}
	if err := s.UpdateTarget(ctx, core.Monthly, core.ClosedDeals, 3, 8); err != nil {
		t.Fatalf("UpdateTarget: %v", err)
	}
	s.AddHistoryEntry("2024-01-16", map[string]float64{"emailsSent": 50})

	var buf bytes.Buffer
	if err := s.Export(&buf); err != nil {
		t.Fatalf("Export: %v", err)
	}

	// Import into a fresh session; state must reproduce exactly.
	other, _ := newTestSession(t, memory.New())
	if err := other.Import(ctx, &buf); err != nil {
		t.Fatalf("Import: %v", err)
	}

	if got, want := other.Data(), s.Data(); !reflect.DeepEqual(got, want) {
		t.Errorf("round trip diverged:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestImportInvalidJSON(t *testing.T) {
	rec := &notify.Recorder{}
	store := &countingStore{Store: memory.New()}
	s := NewSession("user-1", store, WithNotifier(rec), WithClock(fixedClock))
	before := s.Data()

	err := s.Import(context.Background(), strings.NewReader("{not json"))
	if err == nil {
		t.Fatal("Import should fail on invalid JSON")
	}

	if got := s.Data(); !reflect.DeepEqual(got, before) {
		t.Error("failed import must not change session state")
	}
	if store.inserts != 0 || store.updates != 0 {
		t.Error("failed import must not write to the store")
	}
	errs := rec.Errors()
	if len(errs) != 1 || errs[0].Title != "Import failed" {
		t.Errorf("notifications = %+v, want one blocking import alert", errs)
	}
}

func TestImportPersistsToStore(t *testing.T) {
	ctx := context.Background()

	// Build a document on one session...
	src, _ := newTestSession(t, memory.New())
	if err := src.UpdateValue(ctx, core.Weekly, core.PipelineGenerated, 60000); err != nil {
		t.Fatalf("UpdateValue: %v", err)
	}
	var buf bytes.Buffer
	if err := src.Export(&buf); err != nil {
		t.Fatalf("Export: %v", err)
	}

	// ...and import it against an empty store.
	store := memory.New()
	s, _ := newTestSession(t, store)
	if err := s.Import(ctx, &buf); err != nil {
		t.Fatalf("Import: %v", err)
	}

	entry, err := store.FindEntry(ctx, "user-1", core.Weekly, core.PipelineGenerated, testToday)
	if err != nil {
		t.Fatalf("FindEntry after import: %v", err)
	}
	if entry.Value != 60000 {
		t.Errorf("persisted value = %v, want 60000", entry.Value)
	}

	overrides, _ := store.ListGoalOverrides(ctx, "user-1")
	if len(overrides) != 13 {
		t.Errorf("persisted %d overrides, want 13 (every catalog slot)", len(overrides))
	}
}

func TestExportFilename(t *testing.T) {
	if ExportFilename != "sales-kpi-data.json" {
		t.Errorf("ExportFilename = %q", ExportFilename)
	}
}
