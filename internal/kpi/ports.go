package kpi

import (
	"context"
	"time"

	"kpitrack/internal/core"
)

// Store is the aggregator's port onto the remote store gateway. Both the
// SQLite repository and the in-memory store satisfy it.
type Store interface {
	// Goal override records: one logical record per
	// (user, time frame, category), upsert semantics.
	ListGoalOverrides(ctx context.Context, userID string) ([]core.GoalOverride, error)
	UpsertGoalOverride(ctx context.Context, o core.GoalOverride) error

	// Entry records: one logical record per
	// (user, time frame, category, entry date).
	ListEntriesByDate(ctx context.Context, userID string, date time.Time) ([]core.Entry, error)
	ListEntriesInRange(ctx context.Context, userID string, tf core.TimeFrame, from, to time.Time) ([]core.Entry, error)
	FindEntry(ctx context.Context, userID string, tf core.TimeFrame, cat core.Category, date time.Time) (core.Entry, error)
	InsertEntry(ctx context.Context, e core.Entry) error
	UpdateEntryValue(ctx context.Context, e core.Entry) error
	DeleteEntriesByDate(ctx context.Context, userID string, tf core.TimeFrame, date time.Time) error
}
