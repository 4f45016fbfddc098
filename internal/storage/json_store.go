package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/julianstephens/habitkit/internal/logger"
	"github.com/julianstephens/habitkit/internal/models"
)

// JSONStore keeps all habits in a single JSON array file. Every mutation
// rewrites the whole file.
type JSONStore struct {
	path   string
	habits []models.Habit
	loaded bool
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.habits = []models.Habit{}
	s.loaded = true
	return s.save()
}

// Load reads the habit file into memory. A missing file and a corrupt file
// both yield an empty collection; corruption is logged so the fallback is
// visible, but it never brings the application down. A malformed timestamp
// inside otherwise-valid JSON is an error, not something to drop silently.
func (s *JSONStore) Load() error {
	s.habits = []models.Habit{}
	s.loaded = true

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	var records []habitRecord
	if err := json.Unmarshal(data, &records); err != nil {
		logger.Warn("Habit file is not valid JSON, starting with an empty collection", "path", s.path, "error", err)
		return nil
	}

	habits := make([]models.Habit, 0, len(records))
	for _, r := range records {
		h, err := decodeHabit(r)
		if err != nil {
			return err
		}
		habits = append(habits, h)
	}

	s.habits = habits
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save() error {
	records := make([]habitRecord, 0, len(s.habits))
	for _, h := range s.habits {
		records = append(records, encodeHabit(h))
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}

	return nil
}

func (s *JSONStore) indexOf(name string) int {
	for i, h := range s.habits {
		if h.Name == name {
			return i
		}
	}
	return -1
}

func (s *JSONStore) AddHabit(habit models.Habit) error {
	if !s.loaded {
		return fmt.Errorf("storage not loaded")
	}

	s.habits = append(s.habits, habit)
	return s.save()
}

func (s *JSONStore) GetHabitByName(name string) (models.Habit, error) {
	if !s.loaded {
		return models.Habit{}, fmt.Errorf("storage not loaded")
	}

	i := s.indexOf(name)
	if i < 0 {
		return models.Habit{}, fmt.Errorf("%w: %s", ErrHabitNotFound, name)
	}
	return s.habits[i], nil
}

func (s *JSONStore) GetAllHabits() ([]models.Habit, error) {
	if !s.loaded {
		return nil, fmt.Errorf("storage not loaded")
	}

	habits := make([]models.Habit, len(s.habits))
	copy(habits, s.habits)
	return habits, nil
}

func (s *JSONStore) UpdateHabit(name string, habit models.Habit) error {
	if !s.loaded {
		return fmt.Errorf("storage not loaded")
	}

	i := s.indexOf(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrHabitNotFound, name)
	}

	s.habits[i] = habit
	return s.save()
}

func (s *JSONStore) DeleteHabit(name string) error {
	if !s.loaded {
		return fmt.Errorf("storage not loaded")
	}

	i := s.indexOf(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrHabitNotFound, name)
	}

	s.habits = append(s.habits[:i], s.habits[i+1:]...)
	return s.save()
}

func (s *JSONStore) CheckOff(name string, at time.Time) error {
	if !s.loaded {
		return fmt.Errorf("storage not loaded")
	}

	i := s.indexOf(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrHabitNotFound, name)
	}

	s.habits[i].CheckOff(at)
	return s.save()
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
