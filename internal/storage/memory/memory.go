// Package memory provides an in-memory store gateway with the same
// semantics as the SQLite repository. It backs the memory data backend
// and the aggregator tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"kpitrack/internal/core"
)

type goalKey struct {
	userID    string
	timeFrame core.TimeFrame
	category  core.Category
}

type entryKey struct {
	userID    string
	timeFrame core.TimeFrame
	category  core.Category
	date      string // YYYY-MM-DD
}

type Store struct {
	mu      sync.Mutex
	goals   map[goalKey]core.GoalOverride
	entries map[entryKey]core.Entry
}

func New() *Store {
	return &Store{
		goals:   make(map[goalKey]core.GoalOverride),
		entries: make(map[entryKey]core.Entry),
	}
}

const dateLayout = "2006-01-02"

func (s *Store) ListGoalOverrides(_ context.Context, userID string) ([]core.GoalOverride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.GoalOverride
	for k, o := range s.goals {
		if k.userID == userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TimeFrame != out[j].TimeFrame {
			return out[i].TimeFrame < out[j].TimeFrame
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

func (s *Store) UpsertGoalOverride(_ context.Context, o core.GoalOverride) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if o.UpdatedAt.IsZero() {
		o.UpdatedAt = time.Now().UTC()
	}
	s.goals[goalKey{o.UserID, o.TimeFrame, o.Category}] = o
	return nil
}

func (s *Store) ListEntriesByDate(_ context.Context, userID string, date time.Time) ([]core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	day := date.Format(dateLayout)
	var out []core.Entry
	for k, e := range s.entries {
		if k.userID == userID && k.date == day {
			out = append(out, e)
		}
	}
	sortEntries(out)
	return out, nil
}

func (s *Store) ListEntriesInRange(_ context.Context, userID string, tf core.TimeFrame, from, to time.Time) ([]core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lo, hi := from.Format(dateLayout), to.Format(dateLayout)
	var out []core.Entry
	for k, e := range s.entries {
		if k.userID != userID || k.timeFrame != tf {
			continue
		}
		if k.date >= lo && k.date <= hi {
			out = append(out, e)
		}
	}
	sortEntries(out)
	return out, nil
}

func (s *Store) FindEntry(_ context.Context, userID string, tf core.TimeFrame, cat core.Category, date time.Time) (core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[entryKey{userID, tf, cat, date.Format(dateLayout)}]
	if !ok {
		return core.Entry{}, core.ErrNotFound
	}
	return e, nil
}

func (s *Store) InsertEntry(_ context.Context, e core.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.EntryDate = core.DateOf(e.EntryDate)
	s.entries[entryKey{e.UserID, e.TimeFrame, e.Category, e.EntryDate.Format(dateLayout)}] = e
	return nil
}

func (s *Store) UpdateEntryValue(_ context.Context, e core.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := entryKey{e.UserID, e.TimeFrame, e.Category, core.DateOf(e.EntryDate).Format(dateLayout)}
	existing, ok := s.entries[k]
	if !ok {
		// Same posture as SQL UPDATE: zero rows touched is not an error.
		return nil
	}
	existing.Value = e.Value
	s.entries[k] = existing
	return nil
}

func (s *Store) DeleteEntriesByDate(_ context.Context, userID string, tf core.TimeFrame, date time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	day := date.Format(dateLayout)
	for k := range s.entries {
		if k.userID == userID && k.timeFrame == tf && k.date == day {
			delete(s.entries, k)
		}
	}
	return nil
}

// EntryCount reports the number of stored entries, for tests.
func (s *Store) EntryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func sortEntries(entries []core.Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].EntryDate.Equal(entries[j].EntryDate) {
			return entries[i].EntryDate.Before(entries[j].EntryDate)
		}
		return entries[i].Category < entries[j].Category
	})
}
