package system

import (
	"path/filepath"
	"testing"

	"github.com/julianstephens/habitkit/internal/backup"
	"github.com/julianstephens/habitkit/internal/cli"
	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/storage"
)

func setupTestDoctorDB(t *testing.T) (*cli.Context, func()) {
	dbPath := filepath.Join(t.TempDir(), "habits.db")

	store := storage.NewSQLiteStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}

	ctx := &cli.Context{
		Store: store,
	}

	cleanup := func() {
		store.Close()
	}

	return ctx, cleanup
}

func TestDoctorCmd_HealthyStore(t *testing.T) {
	ctx, cleanup := setupTestDoctorDB(t)
	defer cleanup()

	cmd := &DoctorCmd{}
	if err := cmd.Run(ctx); err != nil {
		t.Errorf("doctor command failed on healthy store: %v", err)
	}
}

func TestDoctorCmd_MissingBackups(t *testing.T) {
	ctx, cleanup := setupTestDoctorDB(t)
	defer cleanup()

	// Missing backups is a warning, not a failure
	cmd := &DoctorCmd{}
	if err := cmd.Run(ctx); err != nil {
		t.Errorf("doctor command should not fail on missing backups: %v", err)
	}
}

func TestDoctorCmd_WithBackups(t *testing.T) {
	ctx, cleanup := setupTestDoctorDB(t)
	defer cleanup()

	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		t.Fatalf("failed to create backup: %v", err)
	}

	cmd := &DoctorCmd{}
	if err := cmd.Run(ctx); err != nil {
		t.Errorf("doctor command failed with backups present: %v", err)
	}
}

func TestCheckHabitData(t *testing.T) {
	ctx, cleanup := setupTestDoctorDB(t)
	defer cleanup()

	habit, err := models.NewHabit("Reading", models.PeriodicityDaily)
	if err != nil {
		t.Fatalf("NewHabit() error = %v", err)
	}
	if err := ctx.Store.AddHabit(habit); err != nil {
		t.Fatalf("AddHabit() error = %v", err)
	}

	if err := checkHabitData(ctx); err != nil {
		t.Errorf("checkHabitData() error = %v, want nil", err)
	}
}

func TestCheckClock(t *testing.T) {
	if err := checkClock(); err != nil {
		t.Errorf("clock check failed: %v", err)
	}
}
