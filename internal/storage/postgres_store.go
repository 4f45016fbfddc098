package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/julianstephens/habitkit/internal/models"
)

type PostgresStore struct {
	connStr string
	db      *sql.DB
}

func NewPostgresStore(connStr string) *PostgresStore {
	return &PostgresStore{
		connStr: connStr,
	}
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS habits (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	periodicity TEXT NOT NULL CHECK (periodicity IN ('daily', 'weekly')),
	creation_date TEXT NOT NULL,
	position BIGINT NOT NULL
);
CREATE TABLE IF NOT EXISTS checkoffs (
	id TEXT PRIMARY KEY,
	habit_id TEXT NOT NULL REFERENCES habits(id),
	completed_at TEXT NOT NULL,
	position BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_checkoffs_habit ON checkoffs(habit_id);
`

func (s *PostgresStore) open() error {
	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = db
	return nil
}

func (s *PostgresStore) Init() error {
	if err := s.open(); err != nil {
		return err
	}

	if _, err := s.db.Exec(postgresSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load() error {
	if s.db != nil {
		return nil
	}

	if err := s.open(); err != nil {
		return err
	}

	var exists bool
	row := s.db.QueryRow(`SELECT EXISTS (
		SELECT 1 FROM information_schema.tables WHERE table_name = 'habits'
	)`)
	if err := row.Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("storage not initialized, run 'habitkit init' first")
	}

	return nil
}

func (s *PostgresStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *PostgresStore) firstIDByName(name string) (string, error) {
	var id string
	row := s.db.QueryRow(`SELECT id FROM habits WHERE name = $1 ORDER BY position LIMIT 1`, name)
	if err := row.Scan(&id); err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("%w: %s", ErrHabitNotFound, name)
		}
		return "", err
	}
	return id, nil
}

func (s *PostgresStore) AddHabit(habit models.Habit) error {
	var pos sql.NullInt64
	row := s.db.QueryRow(`SELECT MAX(position) FROM habits`)
	if err := row.Scan(&pos); err != nil {
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
		VALUES ($1, $2, $3, $4, $5)`,
		id, habit.Name, string(habit.Periodicity), formatTimestamp(habit.CreationDate), pos.Int64+1)
	if err != nil {
		return fmt.Errorf("failed to insert habit: %w", err)
	}

	if err := s.insertCheckoffs(tx, id, habit.CompletedDates); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *PostgresStore) insertCheckoffs(tx *sql.Tx, habitID string, dates []time.Time) error {
	for i, d := range dates {
		_, err := tx.Exec(`
			INSERT INTO checkoffs (id, habit_id, completed_at, position)
			VALUES ($1, $2, $3, $4)`,
			uuid.New().String(), habitID, formatTimestamp(d), i)
		if err != nil {
			return fmt.Errorf("failed to insert check-off: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) completedDates(habitID string) ([]time.Time, error) {
	rows, err := s.db.Query(`
		SELECT completed_at FROM checkoffs
		WHERE habit_id = $1 ORDER BY position`, habitID)
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

func (s *PostgresStore) scanHabit(id, name, periodicity, createdAt string) (models.Habit, error) {
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

func (s *PostgresStore) GetHabitByName(name string) (models.Habit, error) {
	row := s.db.QueryRow(`
		SELECT id, name, periodicity, creation_date
		FROM habits WHERE name = $1 ORDER BY position LIMIT 1`, name)

	var id, habitName, periodicity, createdAt string
	if err := row.Scan(&id, &habitName, &periodicity, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return models.Habit{}, fmt.Errorf("%w: %s", ErrHabitNotFound, name)
		}
		return models.Habit{}, err
	}

	return s.scanHabit(id, habitName, periodicity, createdAt)
}

func (s *PostgresStore) GetAllHabits() ([]models.Habit, error) {
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

func (s *PostgresStore) UpdateHabit(name string, habit models.Habit) error {
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
		UPDATE habits SET name = $1, periodicity = $2, creation_date = $3
		WHERE id = $4`,
		habit.Name, string(habit.Periodicity), formatTimestamp(habit.CreationDate), id)
	if err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM checkoffs WHERE habit_id = $1`, id); err != nil {
		return fmt.Errorf("failed to clear check-offs: %w", err)
	}
	if err := s.insertCheckoffs(tx, id, habit.CompletedDates); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *PostgresStore) DeleteHabit(name string) error {
	id, err := s.firstIDByName(name)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM checkoffs WHERE habit_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete check-offs: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM habits WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}

	return tx.Commit()
}

func (s *PostgresStore) CheckOff(name string, at time.Time) error {
	id, err := s.firstIDByName(name)
	if err != nil {
		return err
	}

	var pos sql.NullInt64
	row := s.db.QueryRow(`SELECT MAX(position) FROM checkoffs WHERE habit_id = $1`, id)
	if err := row.Scan(&pos); err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO checkoffs (id, habit_id, completed_at, position)
		VALUES ($1, $2, $3, $4)`,
		uuid.New().String(), id, formatTimestamp(at), pos.Int64+1)
	if err != nil {
		return fmt.Errorf("failed to insert check-off: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetConfigPath() string {
	return s.connStr
}
