package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/habitkit/internal/models"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "habits.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStoreLoadUninitialized(t *testing.T) {
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "habits.db"))
	if err := store.Load(); err == nil {
		t.Error("Load() error = nil, want error for uninitialized store")
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store := newTestSQLiteStore(t)

	habit := testHabit(t, "Morning Jog", models.PeriodicityWeekly)
	habit.CheckOff(time.Date(2025, 1, 6, 8, 0, 0, 0, time.Local))
	habit.CheckOff(time.Date(2025, 1, 13, 9, 30, 0, 0, time.Local))

	if err := store.AddHabit(habit); err != nil {
		t.Fatalf("AddHabit() error = %v", err)
	}

	got, err := store.GetHabitByName("Morning Jog")
	if err != nil {
		t.Fatalf("GetHabitByName() error = %v", err)
	}

	if got.Name != habit.Name || got.Periodicity != habit.Periodicity {
		t.Errorf("got %q/%q, want %q/%q", got.Name, got.Periodicity, habit.Name, habit.Periodicity)
	}
	if !got.CreationDate.Equal(habit.CreationDate) {
		t.Errorf("CreationDate = %v, want %v", got.CreationDate, habit.CreationDate)
	}
	if len(got.CompletedDates) != 2 {
		t.Fatalf("CompletedDates length = %d, want 2", len(got.CompletedDates))
	}
	for i := range habit.CompletedDates {
		if !got.CompletedDates[i].Equal(habit.CompletedDates[i]) {
			t.Errorf("CompletedDates[%d] = %v, want %v", i, got.CompletedDates[i], habit.CompletedDates[i])
		}
	}
}

func TestSQLiteStoreOrderPreserved(t *testing.T) {
	store := newTestSQLiteStore(t)

	names := []string{"Charlie", "Alpha", "Bravo"}
	for _, name := range names {
		if err := store.AddHabit(testHabit(t, name, models.PeriodicityDaily)); err != nil {
			t.Fatalf("AddHabit(%q) error = %v", name, err)
		}
	}

	habits, err := store.GetAllHabits()
	if err != nil {
		t.Fatalf("GetAllHabits() error = %v", err)
	}
	if len(habits) != len(names) {
		t.Fatalf("GetAllHabits() length = %d, want %d", len(habits), len(names))
	}
	for i, name := range names {
		if habits[i].Name != name {
			t.Errorf("habits[%d].Name = %q, want %q", i, habits[i].Name, name)
		}
	}
}

func TestSQLiteStoreCheckOffOrder(t *testing.T) {
	store := newTestSQLiteStore(t)
	if err := store.AddHabit(testHabit(t, "Reading", models.PeriodicityDaily)); err != nil {
		t.Fatalf("AddHabit() error = %v", err)
	}

	stamps := []time.Time{
		time.Date(2025, 2, 3, 9, 0, 0, 0, time.Local),
		time.Date(2025, 2, 1, 19, 0, 0, 0, time.Local),
		time.Date(2025, 2, 2, 7, 0, 0, 0, time.Local),
	}
	for _, at := range stamps {
		if err := store.CheckOff("Reading", at); err != nil {
			t.Fatalf("CheckOff() error = %v", err)
		}
	}

	got, err := store.GetHabitByName("Reading")
	if err != nil {
		t.Fatalf("GetHabitByName() error = %v", err)
	}
	if len(got.CompletedDates) != len(stamps) {
		t.Fatalf("CompletedDates length = %d, want %d", len(got.CompletedDates), len(stamps))
	}
	for i := range stamps {
		if !got.CompletedDates[i].Equal(stamps[i]) {
			t.Errorf("CompletedDates[%d] = %v, want %v", i, got.CompletedDates[i], stamps[i])
		}
	}
}

func TestSQLiteStoreUpdateReplacesHistory(t *testing.T) {
	store := newTestSQLiteStore(t)

	habit := testHabit(t, "Reading", models.PeriodicityDaily)
	habit.CheckOff(time.Date(2025, 1, 6, 8, 0, 0, 0, time.Local))
	if err := store.AddHabit(habit); err != nil {
		t.Fatalf("AddHabit() error = %v", err)
	}

	if err := habit.Edit("Evening Reading", "weekly"); err != nil {
		t.Fatalf("Edit() error = %v", err)
	}
	if err := store.UpdateHabit("Reading", habit); err != nil {
		t.Fatalf("UpdateHabit() error = %v", err)
	}

	if _, err := store.GetHabitByName("Reading"); !errors.Is(err, ErrHabitNotFound) {
		t.Errorf("old name lookup error = %v, want ErrHabitNotFound", err)
	}

	got, err := store.GetHabitByName("Evening Reading")
	if err != nil {
		t.Fatalf("GetHabitByName() error = %v", err)
	}
	if got.Periodicity != models.PeriodicityWeekly {
		t.Errorf("Periodicity = %q, want weekly", got.Periodicity)
	}
	if len(got.CompletedDates) != 1 {
		t.Errorf("CompletedDates length = %d, want 1", len(got.CompletedDates))
	}
}

func TestSQLiteStoreDeleteHabit(t *testing.T) {
	store := newTestSQLiteStore(t)
	for _, name := range []string{"One", "Two"} {
		if err := store.AddHabit(testHabit(t, name, models.PeriodicityDaily)); err != nil {
			t.Fatalf("AddHabit(%q) error = %v", name, err)
		}
	}

	if err := store.DeleteHabit("One"); err != nil {
		t.Fatalf("DeleteHabit() error = %v", err)
	}

	habits, err := store.GetAllHabits()
	if err != nil {
		t.Fatalf("GetAllHabits() error = %v", err)
	}
	if len(habits) != 1 || habits[0].Name != "Two" {
		t.Errorf("habits after delete = %v", habits)
	}

	if err := store.DeleteHabit("One"); !errors.Is(err, ErrHabitNotFound) {
		t.Errorf("DeleteHabit() of missing habit error = %v, want ErrHabitNotFound", err)
	}
}

func TestSQLiteStoreFailedUpdateLeavesStoreUntouched(t *testing.T) {
	store := newTestSQLiteStore(t)

	habit := testHabit(t, "Reading", models.PeriodicityDaily)
	habit.CheckOff(time.Date(2025, 1, 6, 8, 0, 0, 0, time.Local))
	habit.CheckOff(time.Date(2025, 1, 7, 8, 0, 0, 0, time.Local))
	if err := store.AddHabit(habit); err != nil {
		t.Fatalf("AddHabit() error = %v", err)
	}

	// Violates the periodicity CHECK constraint mid-update; the whole
	// mutation must roll back, not leave a renamed habit or a clipped
	// history behind.
	bad := habit
	bad.Name = "Evening Reading"
	bad.Periodicity = models.Periodicity("monthly")
	if err := store.UpdateHabit("Reading", bad); err == nil {
		t.Fatal("UpdateHabit() error = nil, want constraint violation")
	}

	got, err := store.GetHabitByName("Reading")
	if err != nil {
		t.Fatalf("GetHabitByName() after failed update error = %v", err)
	}
	if got.Periodicity != models.PeriodicityDaily {
		t.Errorf("Periodicity = %q, want daily", got.Periodicity)
	}
	if len(got.CompletedDates) != 2 {
		t.Errorf("CompletedDates length = %d, want 2", len(got.CompletedDates))
	}
}

func TestSQLiteStoreDuplicateNamesResolveToFirst(t *testing.T) {
	store := newTestSQLiteStore(t)

	first := testHabit(t, "Reading", models.PeriodicityDaily)
	first.CheckOff(time.Date(2025, 1, 6, 8, 0, 0, 0, time.Local))
	second := testHabit(t, "Reading", models.PeriodicityWeekly)

	if err := store.AddHabit(first); err != nil {
		t.Fatalf("AddHabit() error = %v", err)
	}
	if err := store.AddHabit(second); err != nil {
		t.Fatalf("AddHabit() error = %v", err)
	}

	got, err := store.GetHabitByName("Reading")
	if err != nil {
		t.Fatalf("GetHabitByName() error = %v", err)
	}
	if got.Periodicity != models.PeriodicityDaily || len(got.CompletedDates) != 1 {
		t.Errorf("lookup resolved to %q with %d check-offs, want the first inserted habit", got.Periodicity, len(got.CompletedDates))
	}
}
