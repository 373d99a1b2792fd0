package storage

import (
	"context"
	"database/sql"
	"time"

	"kpitrack/internal/core"
)

// DBTX is the subset of database/sql used by Queries, so the same query
// layer runs against a *sql.DB or a *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

const dateLayout = "2006-01-02"

const listGoalOverrides = `
SELECT user_id, time_frame, category, min_target, max_target, updated_at
FROM kpi_goals
WHERE user_id = ?
ORDER BY time_frame, category
`

func (q *Queries) ListGoalOverrides(ctx context.Context, userID string) ([]core.GoalOverride, error) {
	rows, err := q.db.QueryContext(ctx, listGoalOverrides, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var overrides []core.GoalOverride
	for rows.Next() {
		var o core.GoalOverride
		if err := rows.Scan(&o.UserID, &o.TimeFrame, &o.Category, &o.MinTarget, &o.MaxTarget, &o.UpdatedAt); err != nil {
			return nil, err
		}
		overrides = append(overrides, o)
	}
	return overrides, rows.Err()
}

const upsertGoalOverride = `
INSERT INTO kpi_goals (user_id, time_frame, category, min_target, max_target, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (user_id, time_frame, category)
DO UPDATE SET min_target = excluded.min_target,
              max_target = excluded.max_target,
              updated_at = excluded.updated_at
`

func (q *Queries) UpsertGoalOverride(ctx context.Context, o core.GoalOverride) error {
	updatedAt := o.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	_, err := q.db.ExecContext(ctx, upsertGoalOverride,
		o.UserID, o.TimeFrame, o.Category, o.MinTarget, o.MaxTarget, updatedAt)
	return err
}

const listEntriesByDate = `
SELECT user_id, time_frame, category, value, entry_date
FROM kpi_entries
WHERE user_id = ? AND entry_date = ?
ORDER BY time_frame, category
`

func (q *Queries) ListEntriesByDate(ctx context.Context, userID string, date time.Time) ([]core.Entry, error) {
	rows, err := q.db.QueryContext(ctx, listEntriesByDate, userID, date.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

const listEntriesInRange = `
SELECT user_id, time_frame, category, value, entry_date
FROM kpi_entries
WHERE user_id = ? AND time_frame = ? AND entry_date >= ? AND entry_date <= ?
ORDER BY entry_date, category
`

func (q *Queries) ListEntriesInRange(ctx context.Context, userID string, tf core.TimeFrame, from, to time.Time) ([]core.Entry, error) {
	rows, err := q.db.QueryContext(ctx, listEntriesInRange,
		userID, tf, from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

const findEntry = `
SELECT user_id, time_frame, category, value, entry_date
FROM kpi_entries
WHERE user_id = ? AND time_frame = ? AND category = ? AND entry_date = ?
`

func (q *Queries) FindEntry(ctx context.Context, userID string, tf core.TimeFrame, cat core.Category, date time.Time) (core.Entry, error) {
	row := q.db.QueryRowContext(ctx, findEntry, userID, tf, cat, date.Format(dateLayout))
	return scanEntryRow(row)
}

const insertEntry = `
INSERT INTO kpi_entries (user_id, time_frame, category, value, entry_date)
VALUES (?, ?, ?, ?, ?)
`

func (q *Queries) InsertEntry(ctx context.Context, e core.Entry) error {
	_, err := q.db.ExecContext(ctx, insertEntry,
		e.UserID, e.TimeFrame, e.Category, e.Value, e.EntryDate.Format(dateLayout))
	return err
}

const updateEntryValue = `
UPDATE kpi_entries
SET value = ?
WHERE user_id = ? AND time_frame = ? AND category = ? AND entry_date = ?
`

func (q *Queries) UpdateEntryValue(ctx context.Context, e core.Entry) error {
	_, err := q.db.ExecContext(ctx, updateEntryValue,
		e.Value, e.UserID, e.TimeFrame, e.Category, e.EntryDate.Format(dateLayout))
	return err
}

const deleteEntriesByDate = `
DELETE FROM kpi_entries
WHERE user_id = ? AND time_frame = ? AND entry_date = ?
`

func (q *Queries) DeleteEntriesByDate(ctx context.Context, userID string, tf core.TimeFrame, date time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteEntriesByDate, userID, tf, date.Format(dateLayout))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanEntries(rows *sql.Rows) ([]core.Entry, error) {
	var entries []core.Entry
	for rows.Next() {
		var e core.Entry
		var date string
		if err := rows.Scan(&e.UserID, &e.TimeFrame, &e.Category, &e.Value, &date); err != nil {
			return nil, err
		}
		parsed, err := time.ParseInLocation(dateLayout, date, time.UTC)
		if err != nil {
			return nil, err
		}
		e.EntryDate = parsed
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func scanEntryRow(row *sql.Row) (core.Entry, error) {
	var e core.Entry
	var date string
	if err := row.Scan(&e.UserID, &e.TimeFrame, &e.Category, &e.Value, &date); err != nil {
		return core.Entry{}, err
	}
	parsed, err := time.ParseInLocation(dateLayout, date, time.UTC)
	if err != nil {
		return core.Entry{}, err
	}
	e.EntryDate = parsed
	return e, nil
}
