package analytics

import (
	"sort"
	"time"

	"github.com/julianstephens/habitkit/internal/models"
)

// dayOrdinal returns the number of calendar days between the Unix epoch and
// t's wall-clock date, ignoring time of day. Adjacent calendar dates always
// differ by exactly 1.
func dayOrdinal(t time.Time) int {
	y, m, d := t.Date()
	return floorDiv(int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix()), 86400)
}

// weekOrdinal returns a continuous index for t's ISO calendar week, computed
// from the Monday that starts the week. Unlike naive (year, week) arithmetic
// this stays correct across year boundaries and 53-week ISO years.
func weekOrdinal(t time.Time) int {
	daysPastMonday := (int(t.Weekday()) + 6) % 7
	return floorDiv(dayOrdinal(t.AddDate(0, 0, -daysPastMonday)), 7)
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// LongestStreak computes the length, in periods, of the longest run of
// consecutive periods containing at least one check-off. A period is a
// calendar date for daily habits and an ISO week for weekly habits.
// Multiple check-offs within the same period count once; the input may be
// unsorted. An empty history yields 0.
func LongestStreak(periodicity models.Periodicity, completedDates []time.Time) int {
	if len(completedDates) == 0 {
		return 0
	}

	ordinal := dayOrdinal
	if periodicity == models.PeriodicityWeekly {
		ordinal = weekOrdinal
	}

	seen := make(map[int]struct{}, len(completedDates))
	for _, d := range completedDates {
		seen[ordinal(d)] = struct{}{}
	}

	periods := make([]int, 0, len(seen))
	for p := range seen {
		periods = append(periods, p)
	}
	sort.Ints(periods)

	streak := 1
	maxStreak := 1
	for i := 1; i < len(periods); i++ {
		if periods[i]-periods[i-1] == 1 {
			streak++
		} else {
			streak = 1
		}
		if streak > maxStreak {
			maxStreak = streak
		}
	}

	return maxStreak
}
