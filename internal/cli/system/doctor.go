package system

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/habitkit/internal/backup"
	"github.com/julianstephens/habitkit/internal/cli"
	"github.com/julianstephens/habitkit/internal/storage"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	storeReachable := false

	// Check 1: store reachable
	if err := ctx.Store.Load(); err != nil {
		fmt.Printf("❌ Store reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Store reachable: OK\n")
		storeReachable = true
	}

	// Check 2: habit data decodes cleanly (only if the store is reachable)
	if storeReachable {
		if err := checkHabitData(ctx); err != nil {
			fmt.Printf("❌ Habit data valid: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Habit data valid: OK\n")
		}
	} else {
		fmt.Printf("⊘ Habit data valid: SKIPPED (store not reachable)\n")
	}

	// Check 3: backups present (warning only)
	if err := checkBackupsPresent(ctx); err != nil {
		fmt.Printf("⚠ Backups present: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Backups present: OK\n")
	}

	// Check 4: no concurrent habitkit process (warning only)
	if err := checkSingleProcess(); err != nil {
		fmt.Printf("⚠ Single process: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Single process: OK\n")
	}

	// Check 5: clock sanity
	if err := checkClock(); err != nil {
		fmt.Printf("❌ Clock sanity: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Clock sanity: OK\n")
	}

	fmt.Println()
	if hasError {
		return fmt.Errorf("diagnostics found problems")
	}
	fmt.Println("All checks passed.")
	return nil
}

func checkHabitData(ctx *cli.Context) error {
	habits, err := ctx.Store.GetAllHabits()
	if err != nil {
		return err
	}
	for _, h := range habits {
		if strings.TrimSpace(h.Name) == "" {
			return fmt.Errorf("habit with empty name found")
		}
		if !h.Periodicity.Valid() {
			return fmt.Errorf("habit %q has invalid periodicity %q", h.Name, h.Periodicity)
		}
		if h.CompletedDates == nil {
			return fmt.Errorf("habit %q has a nil completion history", h.Name)
		}
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if storage.IsPostgresConnString(ctx.Store.GetConfigPath()) {
		return nil
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found, run 'habitkit backup create'")
	}
	return nil
}

// checkSingleProcess warns when another habitkit process is running, since
// the store performs whole-file rewrites without cross-process locking.
func checkSingleProcess() error {
	processes, err := ps.Processes()
	if err != nil {
		return fmt.Errorf("failed to list processes: %w", err)
	}

	self := os.Getpid()
	name := filepath.Base(os.Args[0])
	for _, p := range processes {
		if p.Pid() != self && p.Executable() == name {
			return fmt.Errorf("another %s process is running (pid %d); concurrent access is not supported", name, p.Pid())
		}
	}
	return nil
}

func checkClock() error {
	now := time.Now()
	if now.Year() < 2020 {
		return fmt.Errorf("system clock reports %s, which is in the past", now.Format(time.RFC3339))
	}
	return nil
}
