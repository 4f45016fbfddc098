package analytics

import (
	"errors"

	"github.com/julianstephens/habitkit/internal/models"
)

// ErrEmptyCollection is returned when an aggregation requires at least one habit.
var ErrEmptyCollection = errors.New("no habits to analyze")

// StreakResult pairs a habit name with its longest streak.
type StreakResult struct {
	Name   string
	Streak int
}

// Names returns each habit's name in input order, without deduplication.
func Names(habits []models.Habit) []string {
	names := make([]string, 0, len(habits))
	for _, h := range habits {
		names = append(names, h.Name)
	}
	return names
}

// FilterByPeriodicity returns the habits whose periodicity exactly matches p,
// preserving input order. An unrecognized periodicity yields an empty slice.
func FilterByPeriodicity(habits []models.Habit, p models.Periodicity) []models.Habit {
	filtered := make([]models.Habit, 0, len(habits))
	for _, h := range habits {
		if h.Periodicity == p {
			filtered = append(filtered, h)
		}
	}
	return filtered
}

// BestStreakHabit returns the habit with the longest streak. When several
// habits share the maximum, the first one in input order wins. An empty
// collection returns ErrEmptyCollection.
func BestStreakHabit(habits []models.Habit) (StreakResult, error) {
	if len(habits) == 0 {
		return StreakResult{}, ErrEmptyCollection
	}

	best := StreakResult{
		Name:   habits[0].Name,
		Streak: LongestStreak(habits[0].Periodicity, habits[0].CompletedDates),
	}
	for _, h := range habits[1:] {
		if s := LongestStreak(h.Periodicity, h.CompletedDates); s > best.Streak {
			best = StreakResult{Name: h.Name, Streak: s}
		}
	}

	return best, nil
}
