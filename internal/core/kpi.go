package core

import (
	"errors"
	"time"
)

const (
	Daily   TimeFrame = "daily"
	Weekly  TimeFrame = "weekly"
	Monthly TimeFrame = "monthly"
)

// Daily categories.
const (
	EmailsSent          Category = "emailsSent"
	ColdCallsMade       Category = "coldCallsMade"
	LinkedinConnections Category = "linkedinConnections"
	NewLeadsProspected  Category = "newLeadsProspected"
	MeetingsBooked      Category = "meetingsBooked"
)

// Weekly categories. MeetingsBooked appears in both daily and weekly.
const (
	PipelineGenerated      Category = "pipelineGenerated"
	NewAccountsTouched     Category = "newAccountsTouched"
	PersonalizedLoomVideos Category = "personalizedLoomVideos"
)

// Monthly categories.
const (
	SqlsCreated          Category = "sqlsCreated"
	OpportunitiesCreated Category = "opportunitiesCreated"
	PipelineValueCreated Category = "pipelineValueCreated"
	ClosedDeals          Category = "closedDeals"
)

type (
	// TimeFrame is the granularity bucket a metric belongs to.
	TimeFrame string

	// Category identifies one metric within a time frame.
	Category string

	// Target is the goal range for a metric.
	Target struct {
		Min float64 `json:"min"`
		Max float64 `json:"max"`
	}

	// KpiGoal is one tracked metric: its target range and the current
	// observed value.
	KpiGoal struct {
		ID           string  `json:"id"`
		Name         string  `json:"name"`
		Target       Target  `json:"target"`
		Unit         string  `json:"unit"`
		CurrentValue float64 `json:"currentValue"`
	}

	// DailyGoals holds the five daily metrics as named fields. The key set
	// is closed, so category handling is checked at compile time.
	DailyGoals struct {
		EmailsSent          KpiGoal `json:"emailsSent"`
		ColdCallsMade       KpiGoal `json:"coldCallsMade"`
		LinkedinConnections KpiGoal `json:"linkedinConnections"`
		NewLeadsProspected  KpiGoal `json:"newLeadsProspected"`
		MeetingsBooked      KpiGoal `json:"meetingsBooked"`
	}

	WeeklyGoals struct {
		MeetingsBooked         KpiGoal `json:"meetingsBooked"`
		PipelineGenerated      KpiGoal `json:"pipelineGenerated"`
		NewAccountsTouched     KpiGoal `json:"newAccountsTouched"`
		PersonalizedLoomVideos KpiGoal `json:"personalizedLoomVideos"`
	}

	MonthlyGoals struct {
		SqlsCreated          KpiGoal `json:"sqlsCreated"`
		OpportunitiesCreated KpiGoal `json:"opportunitiesCreated"`
		PipelineValueCreated KpiGoal `json:"pipelineValueCreated"`
		ClosedDeals          KpiGoal `json:"closedDeals"`
	}

	// HistoryEntry is one recorded day of metric values.
	HistoryEntry struct {
		Date    string             `json:"date"`
		Metrics map[string]float64 `json:"metrics"`
	}

	// KpiData is the full in-memory KPI state for one user session. The
	// JSON shape matches the export document produced by earlier versions
	// of the dashboard, so old export files import cleanly.
	KpiData struct {
		Daily   DailyGoals     `json:"daily"`
		Weekly  WeeklyGoals    `json:"weekly"`
		Monthly MonthlyGoals   `json:"monthly"`
		History []HistoryEntry `json:"history"`
	}

	// GoalOverride is a stored, user-customized target range for one
	// (time frame, category) slot.
	GoalOverride struct {
		UserID    string
		TimeFrame TimeFrame
		Category  Category
		MinTarget float64
		MaxTarget float64
		UpdatedAt time.Time
	}

	// Entry is one observed value for a (time frame, category, date).
	Entry struct {
		UserID    string
		TimeFrame TimeFrame
		Category  Category
		Value     float64
		EntryDate time.Time
	}
)

var (
	ErrUnknownTimeFrame = errors.New("unknown time frame")
	ErrUnknownCategory  = errors.New("unknown category")

	// ErrNotFound is returned by store gateways on single-record lookups
	// that match nothing. During upserts it selects the insert branch and
	// is not reported as a failure.
	ErrNotFound = errors.New("record not found")
)

// ParseTimeFrame validates a raw time frame string.
func ParseTimeFrame(s string) (TimeFrame, error) {
	switch TimeFrame(s) {
	case Daily, Weekly, Monthly:
		return TimeFrame(s), nil
	default:
		return "", ErrUnknownTimeFrame
	}
}

// TimeFrames lists all frames in catalog order.
func TimeFrames() []TimeFrame {
	return []TimeFrame{Daily, Weekly, Monthly}
}

// Categories returns the closed category set of a time frame, in catalog
// order.
func (tf TimeFrame) Categories() []Category {
	switch tf {
	case Daily:
		return []Category{EmailsSent, ColdCallsMade, LinkedinConnections, NewLeadsProspected, MeetingsBooked}
	case Weekly:
		return []Category{MeetingsBooked, PipelineGenerated, NewAccountsTouched, PersonalizedLoomVideos}
	case Monthly:
		return []Category{SqlsCreated, OpportunitiesCreated, PipelineValueCreated, ClosedDeals}
	default:
		return nil
	}
}

// Goal returns a pointer to the slot for (tf, cat), or nil when the
// category does not exist in that time frame. Unknown slots are not an
// error at this level; callers decide whether to skip or reject.
func (d *KpiData) Goal(tf TimeFrame, cat Category) *KpiGoal {
	switch tf {
	case Daily:
		return d.Daily.goal(cat)
	case Weekly:
		return d.Weekly.goal(cat)
	case Monthly:
		return d.Monthly.goal(cat)
	default:
		return nil
	}
}

// ForEachGoal visits every slot of one time frame in catalog order.
func (d *KpiData) ForEachGoal(tf TimeFrame, fn func(cat Category, g *KpiGoal)) {
	for _, cat := range tf.Categories() {
		if g := d.Goal(tf, cat); g != nil {
			fn(cat, g)
		}
	}
}

func (g *DailyGoals) goal(cat Category) *KpiGoal {
	switch cat {
	case EmailsSent:
		return &g.EmailsSent
	case ColdCallsMade:
		return &g.ColdCallsMade
	case LinkedinConnections:
		return &g.LinkedinConnections
	case NewLeadsProspected:
		return &g.NewLeadsProspected
	case MeetingsBooked:
		return &g.MeetingsBooked
	default:
		return nil
	}
}

func (g *WeeklyGoals) goal(cat Category) *KpiGoal {
	switch cat {
	case MeetingsBooked:
		return &g.MeetingsBooked
	case PipelineGenerated:
		return &g.PipelineGenerated
	case NewAccountsTouched:
		return &g.NewAccountsTouched
	case PersonalizedLoomVideos:
		return &g.PersonalizedLoomVideos
	default:
		return nil
	}
}

func (g *MonthlyGoals) goal(cat Category) *KpiGoal {
	switch cat {
	case SqlsCreated:
		return &g.SqlsCreated
	case OpportunitiesCreated:
		return &g.OpportunitiesCreated
	case PipelineValueCreated:
		return &g.PipelineValueCreated
	case ClosedDeals:
		return &g.ClosedDeals
	default:
		return nil
	}
}
