package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"kpitrack/internal/core"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestGoalOverrideUpsert(t *testing.T) {
	s := New()
	ctx := context.Background()

	err := s.UpsertGoalOverride(ctx, core.GoalOverride{
		UserID: "u1", TimeFrame: core.Daily, Category: core.EmailsSent,
		MinTarget: 10, MaxTarget: 20,
	})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	// Second upsert on the same logical key replaces, never duplicates.
	err = s.UpsertGoalOverride(ctx, core.GoalOverride{
		UserID: "u1", TimeFrame: core.Daily, Category: core.EmailsSent,
		MinTarget: 40, MaxTarget: 80,
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	overrides, err := s.ListGoalOverrides(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(overrides) != 1 {
		t.Fatalf("got %d overrides, want 1", len(overrides))
	}
	if overrides[0].MinTarget != 40 || overrides[0].MaxTarget != 80 {
		t.Errorf("override = %+v, want 40..80", overrides[0])
	}
}

func TestListGoalOverridesScopedByUser(t *testing.T) {
	s := New()
	ctx := context.Background()

	s.UpsertGoalOverride(ctx, core.GoalOverride{UserID: "u1", TimeFrame: core.Daily, Category: core.EmailsSent, MinTarget: 1, MaxTarget: 2})
	s.UpsertGoalOverride(ctx, core.GoalOverride{UserID: "u2", TimeFrame: core.Daily, Category: core.EmailsSent, MinTarget: 3, MaxTarget: 4})

	overrides, _ := s.ListGoalOverrides(ctx, "u1")
	if len(overrides) != 1 || overrides[0].UserID != "u1" {
		t.Errorf("expected only u1's override, got %+v", overrides)
	}
}

func TestFindEntryNotFound(t *testing.T) {
	s := New()
	_, err := s.FindEntry(context.Background(), "u1", core.Daily, core.EmailsSent, date(2024, 1, 15))
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("err = %v, want core.ErrNotFound", err)
	}
}

func TestInsertThenUpdateEntry(t *testing.T) {
	s := New()
	ctx := context.Background()
	day := date(2024, 1, 15)

	e := core.Entry{UserID: "u1", TimeFrame: core.Daily, Category: core.EmailsSent, Value: 10, EntryDate: day}
	if err := s.InsertEntry(ctx, e); err != nil {
		t.Fatalf("insert: %v", err)
	}

	e.Value = 25
	if err := s.UpdateEntryValue(ctx, e); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := s.FindEntry(ctx, "u1", core.Daily, core.EmailsSent, day)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Value != 25 {
		t.Errorf("value = %v, want 25", got.Value)
	}
	if s.EntryCount() != 1 {
		t.Errorf("entry count = %d, want 1", s.EntryCount())
	}
}

func TestListEntriesInRange(t *testing.T) {
	s := New()
	ctx := context.Background()

	for d := 10; d <= 20; d++ {
		s.InsertEntry(ctx, core.Entry{
			UserID: "u1", TimeFrame: core.Weekly, Category: core.PipelineGenerated,
			Value: float64(d), EntryDate: date(2024, 1, d),
		})
	}
	// Noise in another time frame and another user.
	s.InsertEntry(ctx, core.Entry{UserID: "u1", TimeFrame: core.Daily, Category: core.EmailsSent, Value: 1, EntryDate: date(2024, 1, 15)})
	s.InsertEntry(ctx, core.Entry{UserID: "u2", TimeFrame: core.Weekly, Category: core.PipelineGenerated, Value: 1, EntryDate: date(2024, 1, 15)})

	entries, err := s.ListEntriesInRange(ctx, "u1", core.Weekly, date(2024, 1, 12), date(2024, 1, 14))
	if err != nil {
		t.Fatalf("list range: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3 (range is inclusive on both ends)", len(entries))
	}
	for i, e := range entries {
		want := date(2024, 1, 12+i)
		if !e.EntryDate.Equal(want) {
			t.Errorf("entries[%d].EntryDate = %v, want %v (ordered oldest first)", i, e.EntryDate, want)
		}
	}
}

func TestDeleteEntriesByDate(t *testing.T) {
	s := New()
	ctx := context.Background()
	day := date(2024, 1, 15)

	s.InsertEntry(ctx, core.Entry{UserID: "u1", TimeFrame: core.Weekly, Category: core.MeetingsBooked, Value: 2, EntryDate: day})
	s.InsertEntry(ctx, core.Entry{UserID: "u1", TimeFrame: core.Weekly, Category: core.PipelineGenerated, Value: 5000, EntryDate: day})
	s.InsertEntry(ctx, core.Entry{UserID: "u1", TimeFrame: core.Daily, Category: core.EmailsSent, Value: 10, EntryDate: day})

	if err := s.DeleteEntriesByDate(ctx, "u1", core.Weekly, day); err != nil {
		t.Fatalf("delete: %v", err)
	}

	remaining, _ := s.ListEntriesByDate(ctx, "u1", day)
	if len(remaining) != 1 {
		t.Fatalf("got %d entries after delete, want 1", len(remaining))
	}
	if remaining[0].TimeFrame != core.Daily {
		t.Errorf("surviving entry is %s, want the daily one", remaining[0].TimeFrame)
	}
}
