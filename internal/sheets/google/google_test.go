package google

import (
	"context"
	"testing"
	"time"

	"kpitrack/internal/core"
)

func TestSnapshotRows(t *testing.T) {
	data := core.Catalog()
	data.Daily.EmailsSent.CurrentValue = 42
	data.Weekly.PipelineGenerated.CurrentValue = 25000

	at := time.Date(2024, 1, 17, 9, 30, 0, 0, time.UTC)
	rows := SnapshotRows("user-1", &data, at)

	if len(rows) != 13 {
		t.Fatalf("rows = %d, want 13 (one per goal)", len(rows))
	}

	first := rows[0]
	if len(first) != 7 {
		t.Fatalf("row width = %d, want 7", len(first))
	}
	if first[0] != "2024-01-17T09:30:00Z" {
		t.Errorf("timestamp = %v", first[0])
	}
	if first[1] != "user-1" {
		t.Errorf("user = %v", first[1])
	}
	if first[2] != "daily" || first[3] != "emailsSent" {
		t.Errorf("first row slot = %v/%v, want daily/emailsSent", first[2], first[3])
	}
	if first[4] != 42.0 {
		t.Errorf("current value = %v, want 42", first[4])
	}
	if first[5] != 50.0 || first[6] != 100.0 {
		t.Errorf("targets = %v..%v, want 50..100", first[5], first[6])
	}
}

func TestSnapshotRows_FrameOrder(t *testing.T) {
	data := core.Catalog()
	rows := SnapshotRows("u", &data, time.Now())

	var frames []string
	for _, row := range rows {
		tf := row[2].(string)
		if len(frames) == 0 || frames[len(frames)-1] != tf {
			frames = append(frames, tf)
		}
	}

	want := []string{"daily", "weekly", "monthly"}
	if len(frames) != len(want) {
		t.Fatalf("frame runs = %v, want %v", frames, want)
	}
	for i := range want {
		if frames[i] != want[i] {
			t.Errorf("frame[%d] = %s, want %s", i, frames[i], want[i])
		}
	}
}

func TestAppendSnapshot_NotInitialized(t *testing.T) {
	c := &Client{}
	data := core.Catalog()
	if _, err := c.AppendSnapshot(context.Background(), "u", &data); err == nil {
		t.Fatal("expected error when service is not initialized")
	}
}
