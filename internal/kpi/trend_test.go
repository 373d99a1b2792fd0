package kpi

import (
	"context"
	"testing"
	"time"

	"kpitrack/internal/core"
	"kpitrack/internal/storage/memory"
)

func TestBuildWeeklyActivityTrend(t *testing.T) {
	entries := []core.Entry{
		{TimeFrame: core.Daily, Category: core.EmailsSent, Value: 65, EntryDate: testToday.AddDate(0, 0, -2)},
		{TimeFrame: core.Daily, Category: core.ColdCallsMade, Value: 28, EntryDate: testToday.AddDate(0, 0, -2)},
		{TimeFrame: core.Daily, Category: core.NewLeadsProspected, Value: 7, EntryDate: testToday},
		{TimeFrame: core.Daily, Category: core.LinkedinConnections, Value: 4, EntryDate: testToday.AddDate(0, 0, -6)},
		{TimeFrame: core.Daily, Category: core.MeetingsBooked, Value: 2, EntryDate: testToday.AddDate(0, 0, -3)},
		// Out of window: dropped.
		{TimeFrame: core.Daily, Category: core.EmailsSent, Value: 999, EntryDate: testToday.AddDate(0, 0, -7)},
	}

	points := buildWeeklyActivityTrend(entries, testToday)
	if len(points) != 7 {
		t.Fatalf("got %d points, want 7", len(points))
	}

	// testToday is Wednesday, so the window runs Thu .. Wed.
	wantLabels := []string{"Thu", "Fri", "Sat", "Sun", "Mon", "Tue", "Wed"}
	for i, p := range points {
		if p.Date != wantLabels[i] {
			t.Errorf("points[%d].Date = %q, want %q", i, p.Date, wantLabels[i])
		}
	}

	if points[0].DMs != 4 {
		t.Errorf("oldest day DMs = %v, want 4", points[0].DMs)
	}
	if points[4].Emails != 65 || points[4].FollowUps != 28 {
		t.Errorf("Monday point = %+v, want Emails 65 FollowUps 28", points[4])
	}
	if points[3].Meetings != 2 {
		t.Errorf("Sunday Meetings = %v, want 2", points[3].Meetings)
	}
	if points[6].Leads != 7 {
		t.Errorf("today Leads = %v, want 7", points[6].Leads)
	}
	for i, p := range points {
		if i != 4 && p.Emails != 0 {
			t.Errorf("points[%d].Emails = %v, want 0 (out-of-window entry must be dropped)", i, p.Emails)
		}
	}
}

func TestBuildPipelineTrend(t *testing.T) {
	// Week of testToday starts Mon 2024-01-15; the four buckets start
	// 2023-12-25, 2024-01-01, 2024-01-08, 2024-01-15.
	entries := []core.Entry{
		{TimeFrame: core.Weekly, Category: core.PipelineGenerated, Value: 45000, EntryDate: time.Date(2023, 12, 27, 0, 0, 0, 0, time.UTC)},
		{TimeFrame: core.Weekly, Category: core.PipelineGenerated, Value: 30000, EntryDate: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)},
		{TimeFrame: core.Weekly, Category: core.PipelineGenerated, Value: 33000, EntryDate: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		{TimeFrame: core.Weekly, Category: core.PipelineGenerated, Value: 58000, EntryDate: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)},
		{TimeFrame: core.Weekly, Category: core.PipelineGenerated, Value: 87000, EntryDate: testToday},
		// Other weekly categories never count toward pipeline.
		{TimeFrame: core.Weekly, Category: core.MeetingsBooked, Value: 5, EntryDate: testToday},
	}

	points := buildPipelineTrend(entries, testToday)
	if len(points) != 4 {
		t.Fatalf("got %d points, want 4", len(points))
	}

	wantNames := []string{"Week 1", "Week 2", "Week 3", "Week 4"}
	wantValues := []float64{45000, 63000, 58000, 87000}
	for i, p := range points {
		if p.Name != wantNames[i] {
			t.Errorf("points[%d].Name = %q, want %q", i, p.Name, wantNames[i])
		}
		if p.Value != wantValues[i] {
			t.Errorf("points[%d].Value = %v, want %v", i, p.Value, wantValues[i])
		}
	}
}

func TestBuildPipelineTrendWeekBoundary(t *testing.T) {
	// An entry dated exactly on a Monday bucket boundary belongs to the
	// week starting that Monday, not the one ending there.
	boundary := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC) // Monday, start of bucket 3
	entries := []core.Entry{
		{TimeFrame: core.Weekly, Category: core.PipelineGenerated, Value: 10000, EntryDate: boundary},
	}

	points := buildPipelineTrend(entries, testToday)
	if points[1].Value != 0 {
		t.Errorf("Week 2 picked up the boundary entry: %v", points[1].Value)
	}
	if points[2].Value != 10000 {
		t.Errorf("Week 3 = %v, want 10000 (half-open interval, boundary falls in the later bucket)", points[2].Value)
	}
}

func TestLoadDerivesTrendsFromStore(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	store.InsertEntry(ctx, core.Entry{
		UserID: "user-1", TimeFrame: core.Daily, Category: core.EmailsSent,
		Value: 80, EntryDate: testToday.AddDate(0, 0, -1),
	})
	store.InsertEntry(ctx, core.Entry{
		UserID: "user-1", TimeFrame: core.Weekly, Category: core.PipelineGenerated,
		Value: 25000, EntryDate: core.WeekStart(testToday).AddDate(0, 0, -7), // previous week's Monday
	})

	s, _ := newTestSession(t, store)
	if err := s.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}

	weekly := s.WeeklyActivityTrend()
	if got := weekly[5].Emails; got != 80 {
		t.Errorf("yesterday's Emails = %v, want 80", got)
	}

	pipeline := s.PipelineTrend()
	if got := pipeline[2].Value; got != 25000 {
		t.Errorf("Week 3 value = %v, want 25000", got)
	}
	if got := pipeline[3].Value; got != 0 {
		t.Errorf("Week 4 value = %v, want 0", got)
	}
}
