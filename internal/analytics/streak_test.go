package analytics

import (
	"testing"
	"time"

	"github.com/julianstephens/habitkit/internal/models"
)

func day(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.Local)
}

// dailyRun returns n consecutive daily check-offs starting at start.
func dailyRun(start time.Time, n int) []time.Time {
	dates := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		dates = append(dates, start.AddDate(0, 0, i))
	}
	return dates
}

func TestLongestStreakDaily(t *testing.T) {
	monday := day(2025, time.January, 6, 8) // Monday, 6 Jan 2025

	tests := []struct {
		name  string
		dates []time.Time
		want  int
	}{
		{
			name:  "empty history",
			dates: []time.Time{},
			want:  0,
		},
		{
			name:  "nil history",
			dates: nil,
			want:  0,
		},
		{
			name:  "single check-off",
			dates: []time.Time{monday},
			want:  1,
		},
		{
			name:  "28 consecutive days",
			dates: dailyRun(monday, 28),
			want:  28,
		},
		{
			name: "one missing day between runs of 5 and 3",
			dates: append(
				dailyRun(monday, 5),
				dailyRun(monday.AddDate(0, 0, 6), 3)...,
			),
			want: 5,
		},
		{
			name: "duplicates within a day never inflate the count",
			dates: []time.Time{
				day(2025, time.January, 6, 8),
				day(2025, time.January, 6, 20),
				day(2025, time.January, 7, 9),
			},
			want: 2,
		},
		{
			name: "unsorted input",
			dates: []time.Time{
				day(2025, time.January, 8, 8),
				day(2025, time.January, 6, 8),
				day(2025, time.January, 7, 8),
			},
			want: 3,
		},
		{
			name: "streak across a month boundary",
			dates: []time.Time{
				day(2025, time.January, 31, 8),
				day(2025, time.February, 1, 8),
				day(2025, time.February, 2, 8),
			},
			want: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LongestStreak(models.PeriodicityDaily, tt.dates)
			if got != tt.want {
				t.Errorf("LongestStreak(daily) = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLongestStreakWeekly(t *testing.T) {
	monday := day(2025, time.January, 6, 10) // Monday of 2025-W02

	tests := []struct {
		name  string
		dates []time.Time
		want  int
	}{
		{
			name:  "empty history",
			dates: []time.Time{},
			want:  0,
		},
		{
			name: "4 consecutive weeks",
			dates: []time.Time{
				monday,
				monday.AddDate(0, 0, 7),
				monday.AddDate(0, 0, 14),
				monday.AddDate(0, 0, 21),
			},
			want: 4,
		},
		{
			name: "week 3 missing",
			dates: []time.Time{
				monday,
				monday.AddDate(0, 0, 7),
				monday.AddDate(0, 0, 21),
			},
			want: 2,
		},
		{
			name: "two check-offs in the same ISO week",
			dates: []time.Time{
				day(2025, time.January, 6, 10),  // Monday
				day(2025, time.January, 12, 10), // Sunday, same ISO week
			},
			want: 1,
		},
		{
			name: "consecutive across an ISO year boundary",
			dates: []time.Time{
				day(2024, time.December, 23, 10), // 2024-W52
				day(2024, time.December, 30, 10), // 2025-W01
			},
			want: 2,
		},
		{
			name: "consecutive through a 53-week ISO year",
			dates: []time.Time{
				day(2020, time.December, 21, 10), // 2020-W52
				day(2020, time.December, 28, 10), // 2020-W53
				day(2021, time.January, 4, 10),   // 2021-W01
			},
			want: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LongestStreak(models.PeriodicityWeekly, tt.dates)
			if got != tt.want {
				t.Errorf("LongestStreak(weekly) = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWeekOrdinalMatchesISOWeek(t *testing.T) {
	// Every day within one ISO week maps to the same ordinal; the next
	// Monday maps to the following ordinal.
	monday := day(2025, time.January, 6, 0)
	base := weekOrdinal(monday)
	for i := 1; i < 7; i++ {
		if got := weekOrdinal(monday.AddDate(0, 0, i)); got != base {
			t.Errorf("weekOrdinal(%s) = %d, want %d", monday.AddDate(0, 0, i).Format("2006-01-02"), got, base)
		}
	}
	if got := weekOrdinal(monday.AddDate(0, 0, 7)); got != base+1 {
		t.Errorf("weekOrdinal(next Monday) = %d, want %d", got, base+1)
	}
}
