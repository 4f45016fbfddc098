package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Periodicity is the cadence a habit is tracked on.
type Periodicity string

const (
	PeriodicityDaily  Periodicity = "daily"
	PeriodicityWeekly Periodicity = "weekly"
)

// ErrInvalidPeriodicity is returned when a periodicity outside {daily, weekly}
// is used to construct or edit a habit.
var ErrInvalidPeriodicity = errors.New("periodicity must be 'daily' or 'weekly'")

// Valid reports whether p is one of the two supported periodicities.
func (p Periodicity) Valid() bool {
	return p == PeriodicityDaily || p == PeriodicityWeekly
}

// ParsePeriodicity converts a user-supplied string into a Periodicity.
func ParsePeriodicity(s string) (Periodicity, error) {
	p := Periodicity(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w, got %q", ErrInvalidPeriodicity, s)
	}
	return p, nil
}

// Habit represents a single trackable habit. CompletedDates holds one
// timestamp per check-off in insertion order; it may contain several
// check-offs within the same day or week and is never nil.
type Habit struct {
	Name           string      `json:"name"`
	Periodicity    Periodicity `json:"periodicity"`
	CreationDate   time.Time   `json:"creation_date"`
	CompletedDates []time.Time `json:"completed_dates"`
}

// NewHabit creates a habit with an empty completion history.
func NewHabit(name string, periodicity Periodicity) (Habit, error) {
	if strings.TrimSpace(name) == "" {
		return Habit{}, errors.New("habit name cannot be empty")
	}
	if !periodicity.Valid() {
		return Habit{}, fmt.Errorf("%w, got %q", ErrInvalidPeriodicity, string(periodicity))
	}
	return Habit{
		Name:           name,
		Periodicity:    periodicity,
		CreationDate:   time.Now(),
		CompletedDates: []time.Time{},
	}, nil
}

// CheckOff records a completion at the given instant.
func (h *Habit) CheckOff(at time.Time) {
	h.CompletedDates = append(h.CompletedDates, at)
}

// Edit updates the habit's name and/or periodicity in place. An empty
// argument leaves the corresponding field unchanged. The periodicity is
// validated before either field is applied, so a failed edit never
// partially mutates the habit. The completion history is always preserved.
func (h *Habit) Edit(newName, newPeriodicity string) error {
	var p Periodicity
	if newPeriodicity != "" {
		parsed, err := ParsePeriodicity(newPeriodicity)
		if err != nil {
			return err
		}
		p = parsed
	}

	if newName != "" {
		h.Name = newName
	}
	if p != "" {
		h.Periodicity = p
	}
	return nil
}
