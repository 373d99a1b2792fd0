package core

import (
	"encoding/json"
	"testing"
)

func TestCatalogDefaults(t *testing.T) {
	data := Catalog()

	if got := data.Daily.EmailsSent.Target; got.Min != 50 || got.Max != 100 {
		t.Errorf("emailsSent default target = %+v, want 50..100", got)
	}
	if got := data.Weekly.PipelineGenerated; got.Unit != "$" || got.Target.Min != 25000 {
		t.Errorf("pipelineGenerated defaults wrong: %+v", got)
	}
	if got := data.Monthly.ClosedDeals.Target; got.Min != 2 || got.Max != 5 {
		t.Errorf("closedDeals default target = %+v, want 2..5", got)
	}

	for _, tf := range []TimeFrame{Daily, Weekly, Monthly} {
		data.ForEachGoal(tf, func(cat Category, g *KpiGoal) {
			if g.CurrentValue != 0 {
				t.Errorf("%s/%s: catalog current value = %v, want 0", tf, cat, g.CurrentValue)
			}
			if g.Name == "" || g.ID == "" {
				t.Errorf("%s/%s: catalog slot missing name or id", tf, cat)
			}
		})
	}
}

func TestCatalogReturnsFreshCopy(t *testing.T) {
	a := Catalog()
	a.Daily.EmailsSent.CurrentValue = 42
	a.Daily.EmailsSent.Target.Max = 999

	b := Catalog()
	if b.Daily.EmailsSent.CurrentValue != 0 || b.Daily.EmailsSent.Target.Max != 100 {
		t.Error("mutating one catalog copy leaked into another")
	}
}

func TestGoalLookup(t *testing.T) {
	data := Catalog()

	tests := []struct {
		name  string
		tf    TimeFrame
		cat   Category
		found bool
	}{
		{"daily known", Daily, EmailsSent, true},
		{"weekly known", Weekly, PipelineGenerated, true},
		{"monthly known", Monthly, ClosedDeals, true},
		{"shared category in both frames", Weekly, MeetingsBooked, true},
		{"category from another frame", Daily, PipelineGenerated, false},
		{"unknown category", Daily, Category("velocityIndex"), false},
		{"unknown time frame", TimeFrame("quarterly"), EmailsSent, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := data.Goal(tt.tf, tt.cat)
			if (g != nil) != tt.found {
				t.Errorf("Goal(%s, %s) found=%v, want %v", tt.tf, tt.cat, g != nil, tt.found)
			}
		})
	}
}

func TestGoalLookupWritesThrough(t *testing.T) {
	data := Catalog()
	data.Goal(Weekly, MeetingsBooked).CurrentValue = 7

	if data.Weekly.MeetingsBooked.CurrentValue != 7 {
		t.Error("Goal should return a pointer into the struct, not a copy")
	}
	if data.Daily.MeetingsBooked.CurrentValue != 0 {
		t.Error("weekly update must not touch the daily slot of the same category")
	}
}

func TestParseTimeFrame(t *testing.T) {
	for _, valid := range []string{"daily", "weekly", "monthly"} {
		if _, err := ParseTimeFrame(valid); err != nil {
			t.Errorf("ParseTimeFrame(%q) unexpected error: %v", valid, err)
		}
	}
	if _, err := ParseTimeFrame("yearly"); err == nil {
		t.Error("ParseTimeFrame(\"yearly\") should fail")
	}
}

func TestKpiDataJSONShape(t *testing.T) {
	// The wire shape is the dashboard's historical export document:
	// keyed objects per time frame, camelCase categories.
	raw, err := json.Marshal(Catalog())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	for _, key := range []string{"daily", "weekly", "monthly", "history"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("export document missing %q", key)
		}
	}

	var daily map[string]KpiGoal
	if err := json.Unmarshal(doc["daily"], &daily); err != nil {
		t.Fatalf("unmarshal daily: %v", err)
	}
	if len(daily) != 5 {
		t.Errorf("daily has %d categories, want 5", len(daily))
	}
	if _, ok := daily["emailsSent"]; !ok {
		t.Error("daily.emailsSent missing from document")
	}
}
