package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"kpitrack/internal/amqp"
	"kpitrack/internal/kpi"
	"kpitrack/internal/sheets"
)

// SnapshotWorker reacts to KPI change messages by appending a fresh
// snapshot of the user's goals to the configured sheet. Changes arrive
// in bursts while someone fills in their numbers, so snapshots are
// debounced per user.
type SnapshotWorker struct {
	store    kpi.Store
	writer   sheets.SnapshotWriter
	debounce time.Duration
	now      func() time.Time

	mu   sync.Mutex
	last map[string]time.Time
}

func NewSnapshotWorker(store kpi.Store, writer sheets.SnapshotWriter, debounce time.Duration) *SnapshotWorker {
	return &SnapshotWorker{
		store:    store,
		writer:   writer,
		debounce: debounce,
		now:      time.Now,
		last:     make(map[string]time.Time),
	}
}

// HandleChange processes one KPI change message. A message inside the
// debounce window is acknowledged without a snapshot; the next one past
// the window picks up all accumulated changes because the snapshot is
// rebuilt from the store.
func (w *SnapshotWorker) HandleChange(ctx context.Context, msg *amqp.KpiChangeMessage) error {
	if msg.UserID == "" {
		slog.WarnContext(ctx, "Change message without user, skipping", "kind", msg.Kind)
		return nil
	}

	if !w.due(msg.UserID) {
		slog.DebugContext(ctx, "Snapshot debounced",
			"user_id", msg.UserID,
			"kind", msg.Kind)
		return nil
	}

	return w.Snapshot(ctx, msg.UserID)
}

// Snapshot rebuilds the user's KPI document from the store and appends
// it to the sheet.
func (w *SnapshotWorker) Snapshot(ctx context.Context, userID string) error {
	session := kpi.NewSession(userID, w.store)
	if err := session.Load(ctx); err != nil {
		return fmt.Errorf("load KPI data for %s: %w", userID, err)
	}

	data := session.Data()
	ref, err := w.writer.AppendSnapshot(ctx, userID, &data)
	if err != nil {
		return fmt.Errorf("append snapshot for %s: %w", userID, err)
	}

	slog.InfoContext(ctx, "Snapshot appended",
		"user_id", userID,
		"sheets_ref", ref)
	return nil
}

// due marks the user as snapshotted now and reports whether enough time
// passed since the previous snapshot.
func (w *SnapshotWorker) due(userID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	if prev, ok := w.last[userID]; ok && now.Sub(prev) < w.debounce {
		return false
	}
	w.last[userID] = now
	return true
}
