package storage

import (
	"errors"
	"time"

	"github.com/julianstephens/habitkit/internal/models"
)

// ErrMalformedTimestamp is returned when a stored completion timestamp cannot
// be parsed as an instant. File-level corruption is recovered silently, but a
// bad timestamp inside otherwise-valid data is surfaced rather than dropped.
var ErrMalformedTimestamp = errors.New("malformed completion timestamp")

// ErrHabitNotFound is returned when no habit with the requested name exists.
var ErrHabitNotFound = errors.New("habit not found")

// Provider is the storage contract for habit records. Habits are kept in
// insertion order; name lookups return the first match, since names are a
// UI-layer convention rather than a storage key.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Habits
	AddHabit(models.Habit) error
	GetHabitByName(name string) (models.Habit, error)
	GetAllHabits() ([]models.Habit, error)
	UpdateHabit(name string, habit models.Habit) error
	DeleteHabit(name string) error
	CheckOff(name string, at time.Time) error

	// Utils
	GetConfigPath() string
}
