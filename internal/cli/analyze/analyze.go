package analyze

import (
	"errors"
	"fmt"

	"github.com/julianstephens/habitkit/internal/analytics"
	"github.com/julianstephens/habitkit/internal/cli"
	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/storage"
)

type AnalyzeCmd struct {
	Names  NamesCmd  `cmd:"" help:"List the names of all tracked habits."`
	Filter FilterCmd `cmd:"" help:"List habits with a given periodicity."`
	Streak StreakCmd `cmd:"" help:"Show the longest streak for a single habit."`
	Best   BestCmd   `cmd:"" help:"Show the habit with the longest streak overall."`
}

type NamesCmd struct{}

func (c *NamesCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habits, err := ctx.Store.GetAllHabits()
	if err != nil {
		return err
	}

	names := analytics.Names(habits)
	if len(names) == 0 {
		fmt.Println("No habits found.")
		return nil
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

type FilterCmd struct {
	Periodicity string `arg:"" help:"Periodicity to filter on (daily or weekly)."`
}

func (c *FilterCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habits, err := ctx.Store.GetAllHabits()
	if err != nil {
		return err
	}

	filtered := analytics.FilterByPeriodicity(habits, models.Periodicity(c.Periodicity))
	if len(filtered) == 0 {
		fmt.Printf("No %s habits found.\n", c.Periodicity)
		return nil
	}
	for _, h := range filtered {
		fmt.Println(h.Name)
	}
	return nil
}

type StreakCmd struct {
	Name string `arg:"" help:"Habit name."`
}

func (c *StreakCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habit, err := ctx.Store.GetHabitByName(c.Name)
	if err != nil {
		if errors.Is(err, storage.ErrHabitNotFound) {
			return fmt.Errorf("habit %q not found", c.Name)
		}
		return err
	}

	streak := analytics.LongestStreak(habit.Periodicity, habit.CompletedDates)
	fmt.Printf("Longest streak for %q: %d %s\n", habit.Name, streak, periodUnit(habit.Periodicity, streak))
	return nil
}

type BestCmd struct{}

func (c *BestCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habits, err := ctx.Store.GetAllHabits()
	if err != nil {
		return err
	}

	best, err := analytics.BestStreakHabit(habits)
	if err != nil {
		if errors.Is(err, analytics.ErrEmptyCollection) {
			return fmt.Errorf("no habits to analyze yet, create one first")
		}
		return err
	}

	fmt.Printf("The best habit is %q with a streak of %d!\n", best.Name, best.Streak)
	return nil
}

func periodUnit(p models.Periodicity, n int) string {
	unit := "day"
	if p == models.PeriodicityWeekly {
		unit = "week"
	}
	if n != 1 {
		unit += "s"
	}
	return unit
}
