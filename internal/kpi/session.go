// Package kpi implements the KPI aggregator: per-user sessions that load
// goal overrides and entries from the store, merge them onto the static
// catalog, derive the chart trend series, and keep in-memory state and
// the store in sync on every edit.
package kpi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"kpitrack/internal/amqp"
	"kpitrack/internal/core"
	"kpitrack/internal/notify"
)

// Session is one user's KPI state. It is created on login, torn down on
// logout, and passed explicitly to consumers; there is no ambient shared
// instance.
//
// Mutations update in-memory state first and then persist, so the caller
// sees the new value immediately. A persistence failure is reported
// through the notifier but never rolls the in-memory change back.
type Session struct {
	userID   string
	store    Store
	events   *amqp.Client
	notifier notify.Notifier
	now      func() time.Time

	mu            sync.Mutex
	data          core.KpiData
	weeklyTrend   []core.WeeklyActivityPoint
	pipelineTrend []core.PipelinePoint
}

type Option func(*Session)

// WithNotifier routes user-visible notifications to n instead of the log.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Session) { s.notifier = n }
}

// WithEvents publishes a change event after every successful persistence.
// A nil client disables publishing.
func WithEvents(c *amqp.Client) Option {
	return func(s *Session) { s.events = c }
}

// WithClock overrides the session clock. Tests pin "today" with this.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// NewSession creates a session seeded with the static catalog. Call Load
// to merge the user's stored overrides and entries.
func NewSession(userID string, store Store, opts ...Option) *Session {
	s := &Session{
		userID:   userID,
		store:    store,
		notifier: notify.LogNotifier{},
		now:      time.Now,
		data:     core.Catalog(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UserID returns the owning user, empty for an unauthenticated session.
func (s *Session) UserID() string { return s.userID }

// Data returns a copy of the current KPI state.
func (s *Session) Data() core.KpiData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyData(s.data)
}

// WeeklyActivityTrend returns the trailing 7-day activity series, oldest
// day first. Empty until a successful Load.
func (s *Session) WeeklyActivityTrend() []core.WeeklyActivityPoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.WeeklyActivityPoint(nil), s.weeklyTrend...)
}

// PipelineTrend returns the trailing 4-week pipeline series, oldest week
// first. Empty until a successful Load.
func (s *Session) PipelineTrend() []core.PipelinePoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.PipelinePoint(nil), s.pipelineTrend...)
}

// Load rebuilds the session state from the store: a fresh catalog copy,
// the user's goal overrides, today's entry values, and both trend series.
//
// A fetch error aborts the sequence, is surfaced as a notification, and
// leaves the trend series empty; merge steps that already ran are kept
// (no rollback).
func (s *Session) Load(ctx context.Context) error {
	if s.userID == "" {
		return nil
	}

	data := core.Catalog()
	today := core.DateOf(s.now())

	overrides, err := s.store.ListGoalOverrides(ctx, s.userID)
	if err != nil {
		s.commit(data, nil, nil)
		s.notifyError(ctx, "Failed to load KPI goals", err)
		return fmt.Errorf("load goal overrides: %w", err)
	}
	for _, o := range overrides {
		slot := data.Goal(o.TimeFrame, o.Category)
		if slot == nil {
			// Unknown slots are skipped so old clients survive new
			// categories appearing in the store.
			slog.DebugContext(ctx, "Skipping unknown goal override",
				"time_frame", o.TimeFrame, "category", o.Category)
			continue
		}
		slot.Target = core.Target{Min: o.MinTarget, Max: o.MaxTarget}
	}

	entries, err := s.store.ListEntriesByDate(ctx, s.userID, today)
	if err != nil {
		s.commit(data, nil, nil)
		s.notifyError(ctx, "Failed to load KPI entries", err)
		return fmt.Errorf("load today's entries: %w", err)
	}
	for _, e := range entries {
		slot := data.Goal(e.TimeFrame, e.Category)
		if slot == nil {
			slog.DebugContext(ctx, "Skipping unknown entry",
				"time_frame", e.TimeFrame, "category", e.Category)
			continue
		}
		slot.CurrentValue = e.Value
	}

	weekly, pipeline, err := s.loadTrends(ctx, today)
	if err != nil {
		s.commit(data, nil, nil)
		s.notifyError(ctx, "Failed to load KPI trends", err)
		return fmt.Errorf("load trends: %w", err)
	}

	s.commit(data, weekly, pipeline)

	slog.InfoContext(ctx, "KPI data loaded",
		"user_id", s.userID,
		"overrides", len(overrides),
		"entries_today", len(entries))

	return nil
}

// UpdateValue records an observed value for (tf, cat) today. The
// in-memory slot changes immediately; the entry record is then inserted
// or updated depending on whether one already exists for today.
func (s *Session) UpdateValue(ctx context.Context, tf core.TimeFrame, cat core.Category, value float64) error {
	if s.userID == "" {
		return nil
	}

	s.mu.Lock()
	slot := s.data.Goal(tf, cat)
	if slot == nil {
		s.mu.Unlock()
		return fmt.Errorf("update value %s/%s: %w", tf, cat, core.ErrUnknownCategory)
	}
	slot.CurrentValue = value
	s.mu.Unlock()

	entry := core.Entry{
		UserID:    s.userID,
		TimeFrame: tf,
		Category:  cat,
		Value:     value,
		EntryDate: core.DateOf(s.now()),
	}
	if err := s.persistEntry(ctx, entry); err != nil {
		s.notifyError(ctx, "Failed to save KPI value", err)
		return fmt.Errorf("persist value %s/%s: %w", tf, cat, err)
	}

	s.publish(ctx, tf, cat, amqp.ChangeValue)
	return nil
}

// persistEntry is the look-up-then-branch upsert: a missing record means
// insert, an existing one means update. The two steps are not atomic;
// with a single-user session that cannot race with itself, the unique
// index on the entry key is the only guard needed.
func (s *Session) persistEntry(ctx context.Context, e core.Entry) error {
	_, err := s.store.FindEntry(ctx, e.UserID, e.TimeFrame, e.Category, e.EntryDate)
	switch {
	case err == nil:
		return s.store.UpdateEntryValue(ctx, e)
	case errors.Is(err, core.ErrNotFound):
		return s.store.InsertEntry(ctx, e)
	default:
		return err
	}
}

// UpdateTarget overrides the goal range for (tf, cat). Same optimistic
// pattern as UpdateValue, against the override record with no date
// dimension. Range sanity (min <= max) is the caller's concern.
func (s *Session) UpdateTarget(ctx context.Context, tf core.TimeFrame, cat core.Category, min, max float64) error {
	if s.userID == "" {
		return nil
	}

	s.mu.Lock()
	slot := s.data.Goal(tf, cat)
	if slot == nil {
		s.mu.Unlock()
		return fmt.Errorf("update target %s/%s: %w", tf, cat, core.ErrUnknownCategory)
	}
	slot.Target = core.Target{Min: min, Max: max}
	s.mu.Unlock()

	override := core.GoalOverride{
		UserID:    s.userID,
		TimeFrame: tf,
		Category:  cat,
		MinTarget: min,
		MaxTarget: max,
		UpdatedAt: s.now().UTC(),
	}
	if err := s.store.UpsertGoalOverride(ctx, override); err != nil {
		s.notifyError(ctx, "Failed to save KPI target", err)
		return fmt.Errorf("persist target %s/%s: %w", tf, cat, err)
	}

	s.publish(ctx, tf, cat, amqp.ChangeTarget)
	return nil
}

// ResetValues deletes today's entries for one time frame and zeroes every
// category of that frame in memory. The delete runs first: if it fails
// the in-memory values are left untouched, so store and memory stay
// consistent.
func (s *Session) ResetValues(ctx context.Context, tf core.TimeFrame) error {
	if s.userID == "" {
		return nil
	}

	today := core.DateOf(s.now())
	if err := s.store.DeleteEntriesByDate(ctx, s.userID, tf, today); err != nil {
		s.notifyError(ctx, "Failed to reset KPI values", err)
		return fmt.Errorf("reset %s values: %w", tf, err)
	}

	s.mu.Lock()
	s.data.ForEachGoal(tf, func(_ core.Category, g *core.KpiGoal) {
		g.CurrentValue = 0
	})
	s.mu.Unlock()

	s.publish(ctx, tf, "", amqp.ChangeReset)
	return nil
}

// AddHistoryEntry appends one day of metric values to the in-memory
// history. History is part of the export document but is not persisted
// to the store.
func (s *Session) AddHistoryEntry(date string, metrics map[string]float64) {
	if s.userID == "" {
		return
	}

	copied := make(map[string]float64, len(metrics))
	for k, v := range metrics {
		copied[k] = v
	}

	s.mu.Lock()
	s.data.History = append(s.data.History, core.HistoryEntry{Date: date, Metrics: copied})
	s.mu.Unlock()
}

func (s *Session) commit(data core.KpiData, weekly []core.WeeklyActivityPoint, pipeline []core.PipelinePoint) {
	s.mu.Lock()
	s.data = data
	s.weeklyTrend = weekly
	s.pipelineTrend = pipeline
	s.mu.Unlock()
}

func (s *Session) publish(ctx context.Context, tf core.TimeFrame, cat core.Category, kind string) {
	msg := amqp.NewKpiChangeMessage(s.userID, tf, cat, kind)
	if err := s.events.PublishKpiChange(ctx, msg); err != nil {
		// Messaging is best effort; the write already succeeded.
		slog.ErrorContext(ctx, "Failed to publish KPI change",
			"user_id", s.userID, "kind", kind, "error", err)
	}
}

func (s *Session) notifyError(ctx context.Context, title string, err error) {
	s.notifier.Notify(ctx, notify.SeverityError, title, err.Error())
}

func copyData(d core.KpiData) core.KpiData {
	out := d
	out.History = make([]core.HistoryEntry, len(d.History))
	for i, h := range d.History {
		metrics := make(map[string]float64, len(h.Metrics))
		for k, v := range h.Metrics {
			metrics[k] = v
		}
		out.History[i] = core.HistoryEntry{Date: h.Date, Metrics: metrics}
	}
	return out
}
