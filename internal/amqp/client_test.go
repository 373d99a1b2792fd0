package amqp

import (
	"context"
	"testing"
	"time"

	"kpitrack/internal/core"
)

func TestNewKpiChangeMessage(t *testing.T) {
	msg := NewKpiChangeMessage("user-1", core.Daily, core.EmailsSent, ChangeValue)

	if msg.UserID != "user-1" {
		t.Errorf("UserID = %v, want user-1", msg.UserID)
	}
	if msg.TimeFrame != core.Daily || msg.Category != core.EmailsSent {
		t.Errorf("key = %v/%v, want daily/emailsSent", msg.TimeFrame, msg.Category)
	}
	if msg.Kind != ChangeValue {
		t.Errorf("Kind = %v, want %v", msg.Kind, ChangeValue)
	}
	if msg.Timestamp.IsZero() {
		t.Error("Timestamp should not be zero")
	}
	if time.Since(msg.Timestamp) > time.Second {
		t.Error("Timestamp should be recent")
	}
}

func TestKpiChangeMessage_JSON(t *testing.T) {
	timestamp := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	msg := &KpiChangeMessage{
		UserID:    "user-1",
		TimeFrame: core.Weekly,
		Category:  core.PipelineGenerated,
		Kind:      ChangeTarget,
		Timestamp: timestamp,
	}

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsed, err := KpiChangeMessageFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("KpiChangeMessageFromJSON() error = %v", err)
	}

	if parsed.UserID != msg.UserID || parsed.TimeFrame != msg.TimeFrame ||
		parsed.Category != msg.Category || parsed.Kind != msg.Kind {
		t.Errorf("parsed = %+v, want %+v", parsed, msg)
	}
	if !parsed.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("parsed Timestamp = %v, want %v", parsed.Timestamp, msg.Timestamp)
	}
}

func TestKpiChangeMessage_ResetOmitsCategory(t *testing.T) {
	msg := NewKpiChangeMessage("user-1", core.Weekly, "", ChangeReset)

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	if got := string(jsonBytes); contains(got, "category") {
		t.Errorf("reset message should omit empty category, got %s", got)
	}
}

func TestKpiChangeMessage_InvalidJSON(t *testing.T) {
	invalidJSON := []byte(`{"user_id": 42}`)

	if _, err := KpiChangeMessageFromJSON(invalidJSON); err == nil {
		t.Error("KpiChangeMessageFromJSON() should fail with invalid JSON")
	}
}

func TestNewClient_EmptyURLDisablesMessaging(t *testing.T) {
	c, err := NewClient("", "kpitrack", "kpi_changes")
	if err != nil {
		t.Fatalf("NewClient with empty URL should not error, got %v", err)
	}
	if c != nil {
		t.Fatal("NewClient with empty URL should return a nil client")
	}
}

func TestNilClientPublishIsNoop(t *testing.T) {
	var c *Client

	err := c.PublishKpiChange(context.Background(),
		NewKpiChangeMessage("user-1", core.Daily, core.EmailsSent, ChangeValue))
	if err != nil {
		t.Errorf("nil client publish should be a no-op, got %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("nil client close should be a no-op, got %v", err)
	}
}

func contains(s, substr string) bool {
	return len(s) >= len(substr) && (s == substr || func() bool {
		for i := 0; i <= len(s)-len(substr); i++ {
			if s[i:i+len(substr)] == substr {
				return true
			}
		}
		return false
	}())
}
