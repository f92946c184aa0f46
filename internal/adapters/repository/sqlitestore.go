package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/okian/extrack/internal/domain/model"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
    seq      INTEGER PRIMARY KEY AUTOINCREMENT,
    id       TEXT NOT NULL UNIQUE,
    username TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS exercises (
    seq         INTEGER PRIMARY KEY AUTOINCREMENT,
    id          TEXT NOT NULL UNIQUE,
    user_id     TEXT NOT NULL REFERENCES users(id),
    description TEXT NOT NULL,
    duration    INTEGER NOT NULL,
    date        TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_exercises_user_date ON exercises(user_id, date);
`

// SQLiteStore is a Store backed by a single SQLite database file.
// Dates are stored as YYYY-MM-DD text so range filters compare lexically.
type SQLiteStore struct {
	db   *sql.DB
	opts storeOptions
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (creating if needed) the database at path and
// applies the schema.
func NewSQLiteStore(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db, opts: applyOptions(opts)}, nil
}

func (s *SQLiteStore) Driver() string { return "sqlite" }

func (s *SQLiteStore) InsertUser(ctx context.Context, username string) (model.User, error) {
	u := model.User{ID: s.opts.newID(), Username: username}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username) VALUES (?, ?)`, u.ID, u.Username)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

func (s *SQLiteStore) GetUser(ctx context.Context, id string) (model.User, error) {
	var u model.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username FROM users WHERE id = ?`, id).Scan(&u.ID, &u.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (s *SQLiteStore) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, username FROM users ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *SQLiteStore) InsertExercise(ctx context.Context, e model.Exercise) (model.Exercise, error) {
	e.ID = s.opts.newID()
	e.Date = model.Day(e.Date)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO exercises (id, user_id, description, duration, date)
		VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.Description, e.Duration, e.Date.Format(time.DateOnly))
	if err != nil {
		return model.Exercise{}, fmt.Errorf("failed to add exercise: %w", err)
	}
	return e, nil
}

func (s *SQLiteStore) ListExercises(ctx context.Context, userID string, f model.LogFilter) ([]model.Exercise, error) {
	if f.Limit < 0 {
		return nil, ErrInvalidLimit
	}

	var b strings.Builder
	b.WriteString(`SELECT id, user_id, description, duration, date FROM exercises WHERE user_id = ?`)
	args := []any{userID}
	if f.From != nil {
		b.WriteString(` AND date >= ?`)
		args = append(args, model.Day(*f.From).Format(time.DateOnly))
	}
	if f.To != nil {
		b.WriteString(` AND date <= ?`)
		args = append(args, model.Day(*f.To).Format(time.DateOnly))
	}
	b.WriteString(` ORDER BY seq`)
	if f.Limit > 0 {
		b.WriteString(` LIMIT ?`)
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}
	defer rows.Close()

	out := []model.Exercise{}
	for rows.Next() {
		var (
			e    model.Exercise
			date string
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.Description, &e.Duration, &date); err != nil {
			return nil, fmt.Errorf("failed to scan exercise: %w", err)
		}
		if e.Date, err = time.Parse(time.DateOnly, date); err != nil {
			return nil, fmt.Errorf("failed to parse exercise date %q: %w", date, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Counts(ctx context.Context) (int64, int64, error) {
	var users, exercises int64
	err := s.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM users), (SELECT COUNT(*) FROM exercises)`).Scan(&users, &exercises)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count records: %w", err)
	}
	return users, exercises, nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close(_ context.Context) error {
	return s.db.Close()
}
