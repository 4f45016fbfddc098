package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/julianstephens/habitkit/internal/logger"
	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/storage"
)

type definition struct {
	name        string
	periodicity models.Periodicity
}

// definitions are the predefined habits loaded on first run.
var definitions = []definition{
	{"Code Commits", models.PeriodicityWeekly},
	{"Job Application Sprint", models.PeriodicityWeekly},
	{"Scent of the Day", models.PeriodicityDaily},
	{"Anime/Gaming Break", models.PeriodicityDaily},
	{"Chewing Gum", models.PeriodicityDaily},
}

// SampleHabits builds the predefined habits with 4 weeks of sample check-off
// history ending at now: weekly habits get one check-off per week, daily
// habits get a realistic ~80% completion rate.
func SampleHabits(now time.Time) []models.Habit {
	start := now.AddDate(0, 0, -28)
	habits := make([]models.Habit, 0, len(definitions))

	for _, def := range definitions {
		h := models.Habit{
			Name:           def.name,
			Periodicity:    def.periodicity,
			CreationDate:   start,
			CompletedDates: []time.Time{},
		}

		if def.periodicity == models.PeriodicityDaily {
			for i := 0; i < 28; i++ {
				if rand.Float64() > 0.2 {
					h.CheckOff(start.AddDate(0, 0, i))
				}
			}
		} else {
			for i := 0; i < 4; i++ {
				h.CheckOff(start.AddDate(0, 0, i*7))
			}
		}

		habits = append(habits, h)
	}

	return habits
}

// Bootstrap populates an empty store with the sample habits and returns them.
func Bootstrap(store storage.Provider) ([]models.Habit, error) {
	logger.Info("First run detected, loading sample data")
	fmt.Println("First run detected: loading 4 weeks of sample data...")

	habits := SampleHabits(time.Now())
	for _, h := range habits {
		if err := store.AddHabit(h); err != nil {
			return nil, fmt.Errorf("failed to seed habit %q: %w", h.Name, err)
		}
	}
	return habits, nil
}
