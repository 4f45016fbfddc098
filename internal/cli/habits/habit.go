package habits

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitkit/internal/analytics"
	"github.com/julianstephens/habitkit/internal/cli"
	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/storage"
)

type HabitCmd struct {
	Add      HabitAddCmd      `cmd:"" help:"Add a new habit."`
	Checkoff HabitCheckoffCmd `cmd:"" help:"Record a completion for a habit."`
	Edit     HabitEditCmd     `cmd:"" help:"Edit a habit's name or periodicity."`
	Delete   HabitDeleteCmd   `cmd:"" help:"Delete a habit."`
	List     HabitListCmd     `cmd:"" help:"List habits."`
}

type HabitAddCmd struct {
	Name        string `arg:"" help:"Habit name."`
	Periodicity string `help:"Tracking cadence: daily or weekly." default:"daily"`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	// Duplicate names are a UI convention, not a storage constraint, so the
	// check lives here.
	if _, err := ctx.Store.GetHabitByName(c.Name); err == nil {
		return fmt.Errorf("habit with name %q already exists", c.Name)
	}

	periodicity, err := models.ParsePeriodicity(c.Periodicity)
	if err != nil {
		return err
	}

	habit, err := models.NewHabit(c.Name, periodicity)
	if err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Store.AddHabit(habit); err != nil {
		return err
	}

	fmt.Printf("Added habit: %s (%s)\n", habit.Name, habit.Periodicity)
	return nil
}

type HabitCheckoffCmd struct {
	Name string `arg:"" help:"Habit name."`
}

func (c *HabitCheckoffCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	if _, err := ctx.Store.GetHabitByName(c.Name); err != nil {
		if errors.Is(err, storage.ErrHabitNotFound) {
			return fmt.Errorf("habit %q not found", c.Name)
		}
		return err
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Store.CheckOff(c.Name, time.Now()); err != nil {
		return err
	}

	fmt.Printf("Checked off %q\n", c.Name)
	return nil
}

type HabitEditCmd struct {
	Name        string `arg:"" help:"Habit name."`
	NewName     string `help:"New habit name."`
	Periodicity string `help:"New periodicity: daily or weekly."`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	if c.NewName == "" && c.Periodicity == "" {
		return fmt.Errorf("nothing to edit: provide --new-name and/or --periodicity")
	}

	habit, err := ctx.Store.GetHabitByName(c.Name)
	if err != nil {
		if errors.Is(err, storage.ErrHabitNotFound) {
			return fmt.Errorf("habit %q not found", c.Name)
		}
		return err
	}

	if err := habit.Edit(c.NewName, c.Periodicity); err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Store.UpdateHabit(c.Name, habit); err != nil {
		return err
	}

	fmt.Printf("Updated habit: %s (%s)\n", habit.Name, habit.Periodicity)
	return nil
}

type HabitDeleteCmd struct {
	Name string `arg:"" help:"Habit name to delete."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	if _, err := ctx.Store.GetHabitByName(c.Name); err != nil {
		if errors.Is(err, storage.ErrHabitNotFound) {
			return fmt.Errorf("habit %q not found", c.Name)
		}
		return err
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Store.DeleteHabit(c.Name); err != nil {
		return err
	}

	fmt.Printf("Deleted habit: %s\n", c.Name)
	return nil
}

type HabitListCmd struct {
	Periodicity string `help:"Only show habits with this periodicity."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habits, err := ctx.Store.GetAllHabits()
	if err != nil {
		return err
	}

	if c.Periodicity != "" {
		habits = analytics.FilterByPeriodicity(habits, models.Periodicity(c.Periodicity))
	}

	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	for _, habit := range habits {
		fmt.Printf("%s (%s, %d check-offs)\n", habit.Name, habit.Periodicity, len(habit.CompletedDates))
	}
	return nil
}
