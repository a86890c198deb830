// Package streak computes consecutive-day dream logging streaks.
package streak

import (
	"sort"
	"time"
)

// DateLayout is the calendar date format used for dream dates.
const DateLayout = "2006-01-02"

// Freeze describes the streak-freeze history of a user.
type Freeze struct {
	LastUsed string // Date the last freeze was activated, empty if never
	Used     int    // Number of freezes consumed so far
}

// Recorded reports whether a freeze has ever been activated.
func (f Freeze) Recorded() bool {
	return f.Used > 0 || f.LastUsed != ""
}

// Result holds the computed streak values.
type Result struct {
	Current int `json:"current_streak"`
	Longest int `json:"longest_streak"`
}

// Calculate returns the current and longest streak for the given dream dates
// evaluated at now (UTC calendar days).
//
// The current streak is active when the newest date is today or yesterday, or when a
// freeze was activated yesterday. While walking back from the newest date a gap of one
// day always continues the streak and a gap of two days continues it as long as any
// freeze was ever recorded, regardless of where that freeze falls.
func Calculate(dates []string, freeze Freeze, now time.Time) Result {
	days := uniqueDescending(dates)
	if len(days) == 0 {
		return Result{}
	}

	today := truncate(now)
	yesterday := today.AddDate(0, 0, -1)

	current := 0
	if active(days[0], freeze, today, yesterday) {
		current = 1
		checkpoint := days[0]
		for _, d := range days[1:] {
			gap := daysBetween(checkpoint, d)
			if gap == 1 || (gap == 2 && freeze.Recorded()) {
				current++
				checkpoint = d
				continue
			}
			break
		}
	}

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if daysBetween(days[i-1], days[i]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	if current > longest {
		longest = current
	}

	return Result{Current: current, Longest: longest}
}

func active(newest time.Time, freeze Freeze, today, yesterday time.Time) bool {
	if newest.Equal(today) || newest.Equal(yesterday) {
		return true
	}
	if freeze.LastUsed == "" {
		return false
	}
	last, err := time.Parse(DateLayout, freeze.LastUsed)
	if err != nil {
		return false
	}
	return last.Equal(yesterday)
}

// uniqueDescending parses, deduplicates and sorts dates newest first.
// Unparseable values are skipped.
func uniqueDescending(dates []string) []time.Time {
	seen := make(map[string]struct{}, len(dates))
	days := make([]time.Time, 0, len(dates))
	for _, s := range dates {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		d, err := time.Parse(DateLayout, s)
		if err != nil {
			continue
		}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })
	return days
}

func truncate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(later, earlier time.Time) int {
	return int(later.Sub(earlier).Hours() / 24)
}
