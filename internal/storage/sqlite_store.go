package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitkit/internal/models"
)

type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{
		path: path,
	}
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS habits (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	periodicity TEXT NOT NULL CHECK (periodicity IN ('daily', 'weekly')),
	creation_date TEXT NOT NULL,
	position INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS checkoffs (
	id TEXT PRIMARY KEY,
	habit_id TEXT NOT NULL REFERENCES habits(id),
	completed_at TEXT NOT NULL,
	position INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_checkoffs_habit ON checkoffs(habit_id);
`

func (s *SQLiteStore) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if _, err := s.db.Exec(sqliteSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'habitkit init' first")
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if _, err := s.db.Exec(sqliteSchema); err != nil {
		return fmt.Errorf("failed to validate schema: %w", err)
	}

	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// firstIDByName returns the id of the first habit (in insertion order) with
// the given name. Names are not unique at the storage level.
func (s *SQLiteStore) firstIDByName(name string) (string, error) {
	var id string
	row := s.db.QueryRow(`SELECT id FROM habits WHERE name = ? ORDER BY position LIMIT 1`, name)
	if err := row.Scan(&id); err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("%w: %s", ErrHabitNotFound, name)
		}
		return "", err
	}
	return id, nil
}

func (s *SQLiteStore) nextPosition(table string) (int, error) {
	var pos sql.NullInt64
	row := s.db.QueryRow(fmt.Sprintf(`SELECT MAX(position) FROM %s`, table))
	if err := row.Scan(&pos); err != nil {
		return 0, err
	}
	return int(pos.Int64) + 1, nil
}

func (s *SQLiteStore) AddHabit(habit models.Habit) error {
	pos, err := s.nextPosition("habits")
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	id := uuid.New().String()
	_, err = tx.Exec(`
		INSERT INTO habits (id, name, periodicity, creation_date, position)
		VALUES (?, ?, ?, ?, ?)`,
		id, habit.Name, string(habit.Periodicity), formatTimestamp(habit.CreationDate), pos)
	if err != nil {
		return fmt.Errorf("failed to insert habit: %w", err)
	}

	if err := s.insertCheckoffs(tx, id, habit.CompletedDates); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) insertCheckoffs(tx *sql.Tx, habitID string, dates []time.Time) error {
	for i, d := range dates {
		_, err := tx.Exec(`
			INSERT INTO checkoffs (id, habit_id, completed_at, position)
			VALUES (?, ?, ?, ?)`,
			uuid.New().String(), habitID, formatTimestamp(d), i)
		if err != nil {
			return fmt.Errorf("failed to insert check-off: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) completedDates(habitID string) ([]time.Time, error) {
	rows, err := s.db.Query(`
		SELECT completed_at FROM checkoffs
		WHERE habit_id = ? ORDER BY position`, habitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dates := []time.Time{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		t, err := parseTimestamp(raw)
		if err != nil {
			return nil, err
		}
		dates = append(dates, t)
	}
	return dates, rows.Err()
}

func (s *SQLiteStore) scanHabit(id, name, periodicity, createdAt string) (models.Habit, error) {
	h, err := decodeHabit(habitRecord{
		Name:         name,
		Periodicity:  periodicity,
		CreationDate: createdAt,
	})
	if err != nil {
		return models.Habit{}, err
	}

	h.CompletedDates, err = s.completedDates(id)
	if err != nil {
		return models.Habit{}, err
	}
	return h, nil
}

func (s *SQLiteStore) GetHabitByName(name string) (models.Habit, error) {
	row := s.db.QueryRow(`
		SELECT id, name, periodicity, creation_date
		FROM habits WHERE name = ? ORDER BY position LIMIT 1`, name)

	var id, habitName, periodicity, createdAt string
	if err := row.Scan(&id, &habitName, &periodicity, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return models.Habit{}, fmt.Errorf("%w: %s", ErrHabitNotFound, name)
		}
		return models.Habit{}, err
	}

	return s.scanHabit(id, habitName, periodicity, createdAt)
}

func (s *SQLiteStore) GetAllHabits() ([]models.Habit, error) {
	rows, err := s.db.Query(`
		SELECT id, name, periodicity, creation_date
		FROM habits ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type habitRow struct {
		id, name, periodicity, createdAt string
	}
	var habitRows []habitRow
	for rows.Next() {
		var r habitRow
		if err := rows.Scan(&r.id, &r.name, &r.periodicity, &r.createdAt); err != nil {
			return nil, err
		}
		habitRows = append(habitRows, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	habits := make([]models.Habit, 0, len(habitRows))
	for _, r := range habitRows {
		h, err := s.scanHabit(r.id, r.name, r.periodicity, r.createdAt)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}

	return habits, nil
}

func (s *SQLiteStore) UpdateHabit(name string, habit models.Habit) error {
	id, err := s.firstIDByName(name)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		UPDATE habits SET name = ?, periodicity = ?, creation_date = ?
		WHERE id = ?`,
		habit.Name, string(habit.Periodicity), formatTimestamp(habit.CreationDate), id)
	if err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}

	// Replace the completion history wholesale to stay consistent with the
	// JSON store's whole-record rewrite.
	if _, err := tx.Exec(`DELETE FROM checkoffs WHERE habit_id = ?`, id); err != nil {
		return fmt.Errorf("failed to clear check-offs: %w", err)
	}
	if err := s.insertCheckoffs(tx, id, habit.CompletedDates); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) DeleteHabit(name string) error {
	id, err := s.firstIDByName(name)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM checkoffs WHERE habit_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete check-offs: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM habits WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}

	return tx.Commit()
}

func (s *SQLiteStore) CheckOff(name string, at time.Time) error {
	id, err := s.firstIDByName(name)
	if err != nil {
		return err
	}

	var pos sql.NullInt64
	row := s.db.QueryRow(`SELECT MAX(position) FROM checkoffs WHERE habit_id = ?`, id)
	if err := row.Scan(&pos); err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO checkoffs (id, habit_id, completed_at, position)
		VALUES (?, ?, ?, ?)`,
		uuid.New().String(), id, formatTimestamp(at), int(pos.Int64)+1)
	if err != nil {
		return fmt.Errorf("failed to insert check-off: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}
