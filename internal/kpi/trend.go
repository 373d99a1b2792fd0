package kpi

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"kpitrack/internal/core"
)

// loadTrends fetches the raw entries behind both chart series. The two
// queries are independent and run concurrently; bucketing stays in this
// goroutine.
func (s *Session) loadTrends(ctx context.Context, today time.Time) ([]core.WeeklyActivityPoint, []core.PipelinePoint, error) {
	var (
		dailyEntries  []core.Entry
		weeklyEntries []core.Entry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		dailyEntries, err = s.store.ListEntriesInRange(gctx, s.userID, core.Daily, today.AddDate(0, 0, -6), today)
		if err != nil {
			return fmt.Errorf("daily activity entries: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		from := core.WeekStart(today).AddDate(0, 0, -7*(pipelineWeeks-1))
		weeklyEntries, err = s.store.ListEntriesInRange(gctx, s.userID, core.Weekly, from, today)
		if err != nil {
			return fmt.Errorf("pipeline entries: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return buildWeeklyActivityTrend(dailyEntries, today), buildPipelineTrend(weeklyEntries, today), nil
}

const pipelineWeeks = 4

// buildWeeklyActivityTrend buckets daily entries into a fixed 7-slot
// window ending today, seeded with zeros and labeled by short weekday
// name, oldest day first. Entries outside the window or for categories
// that do not chart are dropped.
func buildWeeklyActivityTrend(entries []core.Entry, today time.Time) []core.WeeklyActivityPoint {
	points := make([]core.WeeklyActivityPoint, 7)
	index := make(map[string]int, 7)
	for i := range points {
		day := today.AddDate(0, 0, i-6)
		key := day.Format("2006-01-02")
		points[i] = core.WeeklyActivityPoint{Date: day.Weekday().String()[:3]}
		index[key] = i
	}

	for _, e := range entries {
		i, ok := index[core.DateOf(e.EntryDate).Format("2006-01-02")]
		if !ok {
			continue
		}
		if series := points[i].ActivitySeries(e.Category); series != nil {
			*series = e.Value
		}
	}

	return points
}

// buildPipelineTrend sums weekly pipelineGenerated entries into the four
// trailing Monday-aligned week buckets, the most recent being the week
// containing today. Buckets are the half-open intervals
// [weekStart, weekStart+7d): an entry dated exactly on a Monday boundary
// belongs to the week that starts there. Labels run "Week 1" (oldest)
// through "Week 4".
func buildPipelineTrend(entries []core.Entry, today time.Time) []core.PipelinePoint {
	latest := core.WeekStart(today)
	starts := make([]time.Time, pipelineWeeks)
	points := make([]core.PipelinePoint, pipelineWeeks)
	for i := range points {
		starts[i] = latest.AddDate(0, 0, -7*(pipelineWeeks-1-i))
		points[i] = core.PipelinePoint{Name: fmt.Sprintf("Week %d", i+1)}
	}

	for _, e := range entries {
		if e.Category != core.PipelineGenerated {
			continue
		}
		d := core.DateOf(e.EntryDate)
		for i, start := range starts {
			if !d.Before(start) && d.Before(start.AddDate(0, 0, 7)) {
				points[i].Value += e.Value
				break
			}
		}
	}

	return points
}
