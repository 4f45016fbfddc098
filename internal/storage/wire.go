package storage

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitkit/internal/models"
)

// habitRecord is the persisted form of a habit: one object per habit, all
// instants as ISO-8601 strings.
type habitRecord struct {
	Name           string   `json:"name"`
	Periodicity    string   `json:"periodicity"`
	CreationDate   string   `json:"creation_date"`
	CompletedDates []string `json:"completed_dates"`
}

// timestampLayouts are tried in order when parsing stored instants. The
// second layout accepts zone-less ISO-8601 strings, which older data files
// may contain.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
}

func formatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func encodeHabit(h models.Habit) habitRecord {
	completed := make([]string, 0, len(h.CompletedDates))
	for _, d := range h.CompletedDates {
		completed = append(completed, formatTimestamp(d))
	}
	return habitRecord{
		Name:           h.Name,
		Periodicity:    string(h.Periodicity),
		CreationDate:   formatTimestamp(h.CreationDate),
		CompletedDates: completed,
	}
}

func decodeHabit(r habitRecord) (models.Habit, error) {
	periodicity := models.Periodicity(r.Periodicity)
	if !periodicity.Valid() {
		return models.Habit{}, fmt.Errorf("habit %q: %w", r.Name, models.ErrInvalidPeriodicity)
	}

	created, err := parseTimestamp(r.CreationDate)
	if err != nil {
		return models.Habit{}, fmt.Errorf("habit %q creation date: %w", r.Name, err)
	}

	completed := make([]time.Time, 0, len(r.CompletedDates))
	for _, s := range r.CompletedDates {
		t, err := parseTimestamp(s)
		if err != nil {
			return models.Habit{}, fmt.Errorf("habit %q: %w", r.Name, err)
		}
		completed = append(completed, t)
	}

	return models.Habit{
		Name:           r.Name,
		Periodicity:    periodicity,
		CreationDate:   created,
		CompletedDates: completed,
	}, nil
}
