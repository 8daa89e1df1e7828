// Package storage persists habits in a SQLite database.
//
// One row per habit, keyed by a unique name. Completions are kept as a JSON
// array of RFC 3339 timestamps in a single text column so their order and
// sub-second precision survive a round trip unchanged.
//
// A Store holds an exclusive lock file next to the database for as long as it
// is open. Callers must Close it on every exit path:
//
//	store, err := storage.Open("habits.db")
//	if err != nil {
//		return err
//	}
//	defer store.Close()
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MiraMatiuchova/OOFPP-Habit-Tracker/internal/filelock"
	"github.com/MiraMatiuchova/OOFPP-Habit-Tracker/internal/models"
	"github.com/mattn/go-sqlite3"
)

// MemoryPath opens a private in-memory database
const MemoryPath = ":memory:"

// TimeLayout is the text format of created_at and of every completion
const TimeLayout = time.RFC3339Nano

// legacyTimeLayout matches offset-less ISO timestamps, interpreted as local time
const legacyTimeLayout = "2006-01-02T15:04:05.999999999"

var (
	// ErrStoreLocked is returned by Open when another process has the store open
	ErrStoreLocked = errors.New("habit store is in use by another process")

	// ErrConstraint wraps a schema constraint violation such as a duplicate name
	ErrConstraint = errors.New("storage constraint violation")

	// ErrMalformedRecord is returned by Load when a stored row cannot be decoded
	ErrMalformedRecord = errors.New("malformed habit record")
)

// Store manages the SQLite database holding all habits
type Store struct {
	db     *sql.DB
	dbPath string
	lock   *filelock.FileLock
}

// Open creates the database if needed, takes the store lock and applies
// pending migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath == MemoryPath {
		return openAndInitStore(dbPath, nil)
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	lock, err := filelock.Acquire(dbPath + ".lock")
	if err != nil {
		if errors.Is(err, filelock.ErrLocked) {
			return nil, fmt.Errorf("%w: %s", ErrStoreLocked, dbPath)
		}
		return nil, fmt.Errorf("lock database: %w", err)
	}

	store, err := openAndInitStore(dbPath, lock)
	if err != nil {
		lock.Unlock()
		return nil, err
	}
	return store, nil
}

// openAndInitStore opens the database connection and initializes schema
func openAndInitStore(dbPath string, lock *filelock.FileLock) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Single connection: access is sequential, and an in-memory database
	// only exists on the connection that created it.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout=5000", // Must be first
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}

	for _, pragma := range pragmas {
		if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	store := &Store{
		db:     db,
		dbPath: dbPath,
		lock:   lock,
	}

	if err := store.ApplyMigrations(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return store, nil
}

// execWithRetry executes a statement with exponential backoff on lock errors.
func execWithRetry(db *sql.DB, stmt string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := db.Exec(stmt)
		if err == nil {
			return nil
		}

		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}

		lastErr = err
		time.Sleep(baseDelay * time.Duration(1<<attempt))
	}
	return lastErr
}

// Path returns the database file path
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database and releases the store lock.
// Calling Close more than once is safe.
func (s *Store) Close() error {
	var errs []error
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
		s.db = nil
	}
	if s.lock != nil {
		if err := s.lock.Unlock(); err != nil {
			errs = append(errs, err)
		}
		s.lock = nil
	}
	return errors.Join(errs...)
}

// Load returns every stored habit in insertion order.
// Completions keep the exact order they were stored in.
func (s *Store) Load(ctx context.Context) ([]*models.Habit, error) {
	query := `SELECT name, periodicity, created_at, completions FROM habits ORDER BY id ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query habits: %w", err)
	}
	defer rows.Close()

	habits := []*models.Habit{}
	for rows.Next() {
		var name, periodicity, createdAt, completionsJSON string
		if err := rows.Scan(&name, &periodicity, &createdAt, &completionsJSON); err != nil {
			return nil, fmt.Errorf("scan habit row: %w", err)
		}

		habit, err := decodeHabit(name, periodicity, createdAt, completionsJSON)
		if err != nil {
			return nil, err
		}
		habits = append(habits, habit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate habits: %w", err)
	}

	return habits, nil
}

// Save upserts every habit by name in a single transaction.
//
// An existing row gets its created_at and completions overwritten; its
// periodicity is left as stored. A new name is inserted with all fields.
// Rows for habits missing from habits are not removed; see Delete.
// Any failure rolls back the whole call.
func (s *Store) Save(ctx context.Context, habits []*models.Habit) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback() // no-op if committed

	for _, habit := range habits {
		createdAt, completionsJSON, err := encodeHabit(habit)
		if err != nil {
			return err
		}

		var id int64
		err = tx.QueryRowContext(ctx, `SELECT id FROM habits WHERE name = ?`, habit.Name).Scan(&id)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			if err := insertHabit(ctx, tx, habit, createdAt, completionsJSON); err != nil {
				return err
			}
		case err != nil:
			return fmt.Errorf("look up habit %q: %w", habit.Name, err)
		default:
			_, err := tx.ExecContext(ctx,
				`UPDATE habits SET completions = ?, created_at = ? WHERE id = ?`,
				completionsJSON, createdAt, id)
			if err != nil {
				return fmt.Errorf("update habit %q: %w", habit.Name, classify(err))
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// Insert stores new habits without the upsert check, all or nothing. A name
// that is already stored fails the whole call with ErrConstraint.
func (s *Store) Insert(ctx context.Context, habits ...*models.Habit) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}
	defer tx.Rollback()

	for _, habit := range habits {
		createdAt, completionsJSON, err := encodeHabit(habit)
		if err != nil {
			return err
		}
		if err := insertHabit(ctx, tx, habit, createdAt, completionsJSON); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert: %w", err)
	}
	return nil
}

// Delete removes the stored habits with the given names and returns the
// number of rows removed. Unknown names are ignored.
func (s *Store) Delete(ctx context.Context, names ...string) (int64, error) {
	if len(names) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	var deleted int64
	for _, name := range names {
		result, err := tx.ExecContext(ctx, `DELETE FROM habits WHERE name = ?`, name)
		if err != nil {
			return 0, fmt.Errorf("delete habit %q: %w", name, err)
		}
		n, _ := result.RowsAffected()
		deleted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit delete: %w", err)
	}
	return deleted, nil
}

// Count returns the number of stored habits
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM habits`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count habits: %w", err)
	}
	return count, nil
}

func insertHabit(ctx context.Context, tx *sql.Tx, habit *models.Habit, createdAt, completionsJSON string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO habits (name, periodicity, created_at, completions) VALUES (?, ?, ?, ?)`,
		habit.Name, string(habit.Periodicity), createdAt, completionsJSON)
	if err != nil {
		return fmt.Errorf("insert habit %q: %w", habit.Name, classify(err))
	}
	return nil
}

// classify tags SQLite constraint failures with ErrConstraint.
func classify(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("%w: %w", ErrConstraint, err)
	}
	return err
}

func encodeHabit(habit *models.Habit) (string, string, error) {
	completions := make([]string, 0, len(habit.Completions))
	for _, c := range habit.Completions {
		completions = append(completions, FormatTime(c))
	}

	data, err := json.Marshal(completions)
	if err != nil {
		return "", "", fmt.Errorf("marshal completions for %q: %w", habit.Name, err)
	}
	return FormatTime(habit.CreatedAt), string(data), nil
}

func decodeHabit(name, periodicity, createdAt, completionsJSON string) (*models.Habit, error) {
	created, err := ParseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w %q: created_at: %w", ErrMalformedRecord, name, err)
	}

	var raw []string
	if err := json.Unmarshal([]byte(completionsJSON), &raw); err != nil {
		return nil, fmt.Errorf("%w %q: completions: %w", ErrMalformedRecord, name, err)
	}

	completions := make([]time.Time, 0, len(raw))
	for i, ts := range raw {
		t, err := ParseTime(ts)
		if err != nil {
			return nil, fmt.Errorf("%w %q: completion %d: %w", ErrMalformedRecord, name, i, err)
		}
		completions = append(completions, t)
	}

	return &models.Habit{
		Name:        name,
		Periodicity: models.Periodicity(periodicity),
		CreatedAt:   created,
		Completions: completions,
	}, nil
}

// FormatTime renders t in the stored text format
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// ParseTime accepts RFC 3339 timestamps and offset-less ISO timestamps in
// local time, as written by earlier versions of the tracker.
func ParseTime(s string) (time.Time, error) {
	if t, err := time.Parse(TimeLayout, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation(legacyTimeLayout, s, time.Local)
}
