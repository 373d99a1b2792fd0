package kpi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"kpitrack/internal/core"
	"kpitrack/internal/notify"
)

// ExportFilename is the fixed download name for export documents.
const ExportFilename = "sales-kpi-data.json"

// ErrInvalidImport marks an import document that failed to parse.
var ErrInvalidImport = errors.New("invalid import document")

// Export writes the session's full KPI state as an indented JSON
// document, the same shape the dashboard has always produced.
func (s *Session) Export(w io.Writer) error {
	data := s.Data()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	return nil
}

// Import replaces the session state with a previously exported document
// and writes the imported targets and values back to the store so the
// two converge. An unauthenticated session is left untouched. The only
// validation is that the document parses; a parse
// failure is surfaced as a blocking alert and nothing changes.
//
// Re-persistence follows the usual no-rollback posture: an error stops
// the write-back and is reported, but the in-memory state keeps the
// imported document.
func (s *Session) Import(ctx context.Context, r io.Reader) error {
	if s.userID == "" {
		return nil
	}

	var data core.KpiData
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		s.notifier.Notify(ctx, notify.SeverityError, "Import failed",
			"Invalid data format. Please upload a valid JSON file.")
		return fmt.Errorf("decode import: %w", ErrInvalidImport)
	}
	if data.History == nil {
		data.History = []core.HistoryEntry{}
	}

	s.mu.Lock()
	s.data = data
	s.mu.Unlock()

	if err := s.persistImported(ctx, data); err != nil {
		s.notifyError(ctx, "Failed to save imported KPI data", err)
		return fmt.Errorf("persist import: %w", err)
	}
	return nil
}

func (s *Session) persistImported(ctx context.Context, data core.KpiData) error {
	today := core.DateOf(s.now())

	for _, tf := range core.TimeFrames() {
		for _, cat := range tf.Categories() {
			g := data.Goal(tf, cat)

			err := s.store.UpsertGoalOverride(ctx, core.GoalOverride{
				UserID:    s.userID,
				TimeFrame: tf,
				Category:  cat,
				MinTarget: g.Target.Min,
				MaxTarget: g.Target.Max,
				UpdatedAt: s.now().UTC(),
			})
			if err != nil {
				return fmt.Errorf("%s/%s target: %w", tf, cat, err)
			}

			if g.CurrentValue == 0 {
				continue
			}
			err = s.persistEntry(ctx, core.Entry{
				UserID:    s.userID,
				TimeFrame: tf,
				Category:  cat,
				Value:     g.CurrentValue,
				EntryDate: today,
			})
			if err != nil {
				return fmt.Errorf("%s/%s value: %w", tf, cat, err)
			}
		}
	}
	return nil
}
