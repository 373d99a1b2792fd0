// Package core holds the KPI domain model: the goal catalog, record types
// shared with the store gateway, and the pure presentation helpers.
package core

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Progress color labels, from worst to best.
const (
	ColorDanger  = "danger"
	ColorWarning = "warning"
	ColorInfo    = "info"
	ColorSuccess = "success"
)

// CalculateProgress maps an observed value onto a 0-100 completion scale,
// linearly between the target min and max. Values at or below min are 0,
// values at or above max are 100. The degenerate min == max range is
// treated as a single threshold: 100 once the value reaches it, else 0.
//
// Earlier dashboard revisions disagreed on the formula (min..max linear
// vs. fraction of max alone); the min..max interpolation is the one that
// survived and the only one implemented here.
func CalculateProgress(current, min, max float64) float64 {
	if max == min {
		if current >= min {
			return 100
		}
		return 0
	}
	if current <= min {
		return 0
	}
	if current >= max {
		return 100
	}
	return (current - min) / (max - min) * 100
}

// ProgressColor buckets a 0-100 progress value into a severity label:
// below 25 danger, below 50 warning, below 75 info, otherwise success.
func ProgressColor(progress float64) string {
	switch {
	case progress < 25:
		return ColorDanger
	case progress < 50:
		return ColorWarning
	case progress < 75:
		return ColorInfo
	default:
		return ColorSuccess
	}
}

// FormatCurrency renders a dollar amount with thousands grouping and no
// decimal places, e.g. 1234567.8 -> "$1,234,568".
func FormatCurrency(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := "$" + groupThousands(int64(math.Round(v)))
	if neg {
		return "-" + s
	}
	return s
}

// FormatNumber renders a number with thousands grouping in en-US style.
// Fractional parts are kept as-is with up to three digits, matching the
// default Intl formatting the dashboard used.
func FormatNumber(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	// Round to the displayed precision first so a fraction that rounds
	// to 1 carries into the whole part instead of vanishing.
	v = math.Round(v*1000) / 1000
	whole := math.Floor(v)
	s := groupThousands(int64(whole))
	if frac := v - whole; frac > 0 {
		fs := strconv.FormatFloat(frac, 'f', 3, 64)
		fs = strings.TrimRight(fs[1:], "0") // drop leading "0" and trailing zeros
		if fs != "." {
			s += fs
		}
	}
	if neg {
		return "-" + s
	}
	return s
}

func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// DaysInMonth returns the number of days in a month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DateOf truncates a time to its calendar date at midnight UTC. Entry
// dates are compared at day granularity everywhere.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekStart returns the Monday 00:00 UTC of the week containing t.
// Pipeline trend buckets are aligned to these instants.
func WeekStart(t time.Time) time.Time {
	d := DateOf(t)
	offset := (int(d.Weekday()) + 6) % 7 // Monday=0 .. Sunday=6
	return d.AddDate(0, 0, -offset)
}
