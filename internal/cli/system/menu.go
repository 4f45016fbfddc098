package system

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitkit/internal/analytics"
	"github.com/julianstephens/habitkit/internal/cli"
	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/seed"
)

// MenuCmd runs the interactive menu loop. Every mutating action persists
// immediately, so quitting at any point never loses a recorded check-off.
type MenuCmd struct{}

func (c *MenuCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	habits, err := ctx.Store.GetAllHabits()
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		if _, err := seed.Bootstrap(ctx.Store); err != nil {
			return err
		}
		habits, err = ctx.Store.GetAllHabits()
		if err != nil {
			return err
		}
	}

	fmt.Printf("Welcome! Loaded %d habits.\n", len(habits))

	for {
		var choice string
		form := huh.NewForm(huh.NewGroup(
			huh.NewSelect[string]().
				Title("What would you like to do?").
				Options(
					huh.NewOption("Check-off a habit", "checkoff"),
					huh.NewOption("Analyze habits", "analyze"),
					huh.NewOption("Create a new habit", "create"),
					huh.NewOption("Edit a habit", "edit"),
					huh.NewOption("Delete a habit", "delete"),
					huh.NewOption("Exit", "exit"),
				).
				Value(&choice),
		))
		if err := form.Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}

		var actionErr error
		switch choice {
		case "checkoff":
			actionErr = c.checkoff(ctx)
		case "analyze":
			actionErr = c.analyze(ctx)
		case "create":
			actionErr = c.create(ctx)
		case "edit":
			actionErr = c.edit(ctx)
		case "delete":
			actionErr = c.delete(ctx)
		case "exit":
			fmt.Println("Goodbye!")
			return nil
		}

		if actionErr != nil {
			if errors.Is(actionErr, huh.ErrUserAborted) {
				continue
			}
			// Report and keep the loop alive; invalid input is not fatal.
			fmt.Println("Error:", actionErr)
		}
	}
}

// selectHabit prompts for one of the current habit names.
func (c *MenuCmd) selectHabit(ctx *cli.Context, title string) (string, error) {
	habits, err := ctx.Store.GetAllHabits()
	if err != nil {
		return "", err
	}
	if len(habits) == 0 {
		return "", errors.New("no habits found, create one first")
	}

	names := analytics.Names(habits)
	options := make([]huh.Option[string], 0, len(names))
	for _, name := range names {
		options = append(options, huh.NewOption(name, name))
	}

	var name string
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().Title(title).Options(options...).Value(&name),
	))
	if err := form.Run(); err != nil {
		return "", err
	}
	return name, nil
}

func periodicitySelect(title string, value *models.Periodicity) *huh.Select[models.Periodicity] {
	return huh.NewSelect[models.Periodicity]().
		Title(title).
		Options(
			huh.NewOption("Daily", models.PeriodicityDaily),
			huh.NewOption("Weekly", models.PeriodicityWeekly),
		).
		Value(value)
}

func (c *MenuCmd) checkoff(ctx *cli.Context) error {
	name, err := c.selectHabit(ctx, "Which habit did you complete?")
	if err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Store.CheckOff(name, time.Now()); err != nil {
		return err
	}
	fmt.Printf("Checked off %q\n", name)
	return nil
}

func (c *MenuCmd) analyze(ctx *cli.Context) error {
	var choice string
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("What would you like to know?").
			Options(
				huh.NewOption("List all habits", "names"),
				huh.NewOption("Filter by periodicity", "filter"),
				huh.NewOption("Longest streak for one habit", "streak"),
				huh.NewOption("Best habit overall", "best"),
			).
			Value(&choice),
	))
	if err := form.Run(); err != nil {
		return err
	}

	habits, err := ctx.Store.GetAllHabits()
	if err != nil {
		return err
	}

	switch choice {
	case "names":
		names := analytics.Names(habits)
		if len(names) == 0 {
			fmt.Println("No habits found.")
			return nil
		}
		fmt.Println("Your habits:")
		for _, name := range names {
			fmt.Println(" -", name)
		}

	case "filter":
		var p models.Periodicity
		form := huh.NewForm(huh.NewGroup(periodicitySelect("Which periodicity?", &p)))
		if err := form.Run(); err != nil {
			return err
		}
		filtered := analytics.FilterByPeriodicity(habits, p)
		if len(filtered) == 0 {
			fmt.Printf("No %s habits found.\n", p)
			return nil
		}
		fmt.Printf("Your %s habits:\n", p)
		for _, h := range filtered {
			fmt.Println(" -", h.Name)
		}

	case "streak":
		name, err := c.selectHabit(ctx, "Which habit?")
		if err != nil {
			return err
		}
		habit, err := ctx.Store.GetHabitByName(name)
		if err != nil {
			return err
		}
		streak := analytics.LongestStreak(habit.Periodicity, habit.CompletedDates)
		fmt.Printf("Longest streak for %q: %d\n", habit.Name, streak)

	case "best":
		best, err := analytics.BestStreakHabit(habits)
		if err != nil {
			if errors.Is(err, analytics.ErrEmptyCollection) {
				fmt.Println("No habits to analyze yet, create one first.")
				return nil
			}
			return err
		}
		fmt.Printf("The best habit is %q with a streak of %d!\n", best.Name, best.Streak)
	}

	return nil
}

func (c *MenuCmd) create(ctx *cli.Context) error {
	var name string
	var periodicity models.Periodicity

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Habit name").
			Value(&name).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("name cannot be empty")
				}
				if _, err := ctx.Store.GetHabitByName(s); err == nil {
					return fmt.Errorf("habit %q already exists", s)
				}
				return nil
			}),
		periodicitySelect("How often?", &periodicity),
	))
	if err := form.Run(); err != nil {
		return err
	}

	habit, err := models.NewHabit(name, periodicity)
	if err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Store.AddHabit(habit); err != nil {
		return err
	}
	fmt.Printf("Created habit %q (%s)\n", habit.Name, habit.Periodicity)
	return nil
}

func (c *MenuCmd) edit(ctx *cli.Context) error {
	name, err := c.selectHabit(ctx, "Which habit do you want to edit?")
	if err != nil {
		return err
	}

	habit, err := ctx.Store.GetHabitByName(name)
	if err != nil {
		return err
	}

	newName := habit.Name
	periodicity := habit.Periodicity
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Name").
			Value(&newName).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("name cannot be empty")
				}
				return nil
			}),
		periodicitySelect("Periodicity", &periodicity),
	))
	if err := form.Run(); err != nil {
		return err
	}

	if err := habit.Edit(newName, string(periodicity)); err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Store.UpdateHabit(name, habit); err != nil {
		return err
	}
	fmt.Printf("Updated habit %q (%s)\n", habit.Name, habit.Periodicity)
	return nil
}

func (c *MenuCmd) delete(ctx *cli.Context) error {
	name, err := c.selectHabit(ctx, "Which habit do you want to delete?")
	if err != nil {
		return err
	}

	var confirmed bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Delete %q and its entire history?", name)).
			Value(&confirmed),
	))
	if err := form.Run(); err != nil {
		return err
	}
	if !confirmed {
		fmt.Println("Cancelled.")
		return nil
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Store.DeleteHabit(name); err != nil {
		return err
	}
	fmt.Printf("Deleted habit %q\n", name)
	return nil
}
