package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"kpitrack/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the remote store gateway over the kpi_goals and
// kpi_entries tables.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ListGoalOverrides returns every stored target override for the user.
func (r *SQLiteRepository) ListGoalOverrides(ctx context.Context, userID string) ([]core.GoalOverride, error) {
	overrides, err := r.queries.ListGoalOverrides(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list goal overrides: %w", err)
	}
	return overrides, nil
}

// UpsertGoalOverride writes the single logical override record for
// (user, time frame, category).
func (r *SQLiteRepository) UpsertGoalOverride(ctx context.Context, o core.GoalOverride) error {
	if err := r.queries.UpsertGoalOverride(ctx, o); err != nil {
		return fmt.Errorf("upsert goal override: %w", err)
	}

	slog.InfoContext(ctx, "Goal override saved",
		"user_id", o.UserID,
		"time_frame", o.TimeFrame,
		"category", o.Category,
		"min_target", o.MinTarget,
		"max_target", o.MaxTarget)

	return nil
}

// ListEntriesByDate returns all entries for the user on one calendar date,
// across every time frame.
func (r *SQLiteRepository) ListEntriesByDate(ctx context.Context, userID string, date time.Time) ([]core.Entry, error) {
	entries, err := r.queries.ListEntriesByDate(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("list entries by date: %w", err)
	}
	return entries, nil
}

// ListEntriesInRange returns entries for one time frame with entry_date in
// [from, to], both inclusive.
func (r *SQLiteRepository) ListEntriesInRange(ctx context.Context, userID string, tf core.TimeFrame, from, to time.Time) ([]core.Entry, error) {
	entries, err := r.queries.ListEntriesInRange(ctx, userID, tf, from, to)
	if err != nil {
		return nil, fmt.Errorf("list entries in range: %w", err)
	}
	return entries, nil
}

// FindEntry looks up the single entry for (user, time frame, category,
// date). Returns core.ErrNotFound when no such entry exists.
func (r *SQLiteRepository) FindEntry(ctx context.Context, userID string, tf core.TimeFrame, cat core.Category, date time.Time) (core.Entry, error) {
	entry, err := r.queries.FindEntry(ctx, userID, tf, cat, date)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Entry{}, core.ErrNotFound
	}
	if err != nil {
		return core.Entry{}, fmt.Errorf("find entry: %w", err)
	}
	return entry, nil
}

// InsertEntry creates a new entry record.
func (r *SQLiteRepository) InsertEntry(ctx context.Context, e core.Entry) error {
	if err := r.queries.InsertEntry(ctx, e); err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}

	slog.InfoContext(ctx, "Entry saved",
		"user_id", e.UserID,
		"time_frame", e.TimeFrame,
		"category", e.Category,
		"value", e.Value,
		"entry_date", e.EntryDate.Format(dateLayout))

	return nil
}

// UpdateEntryValue overwrites the value of an existing entry record.
func (r *SQLiteRepository) UpdateEntryValue(ctx context.Context, e core.Entry) error {
	if err := r.queries.UpdateEntryValue(ctx, e); err != nil {
		return fmt.Errorf("update entry value: %w", err)
	}

	slog.InfoContext(ctx, "Entry value updated",
		"user_id", e.UserID,
		"time_frame", e.TimeFrame,
		"category", e.Category,
		"value", e.Value,
		"entry_date", e.EntryDate.Format(dateLayout))

	return nil
}

// DeleteEntriesByDate removes every entry of one time frame on one date.
func (r *SQLiteRepository) DeleteEntriesByDate(ctx context.Context, userID string, tf core.TimeFrame, date time.Time) error {
	deleted, err := r.queries.DeleteEntriesByDate(ctx, userID, tf, date)
	if err != nil {
		return fmt.Errorf("delete entries by date: %w", err)
	}

	slog.InfoContext(ctx, "Entries deleted",
		"user_id", userID,
		"time_frame", tf,
		"entry_date", date.Format(dateLayout),
		"deleted", deleted)

	return nil
}
