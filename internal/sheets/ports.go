package sheets

import (
	"context"

	"kpitrack/internal/core"
)

// Ports for outbound adapters.
type (
	// SnapshotWriter appends a point-in-time snapshot of a user's KPI goals
	// to an external sheet, one row per goal.
	SnapshotWriter interface {
		AppendSnapshot(ctx context.Context, userID string, data *core.KpiData) (rowRef string, err error)
	}
)
