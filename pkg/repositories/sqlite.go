package repositories

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mwhitt/runsync/pkg/repositories/models"
)

type SQLiteRepository struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	game TEXT NOT NULL,
	started_at INTEGER NOT NULL,
	game_time_ms INTEGER NOT NULL DEFAULT 0,
	splits INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS events (
	event_id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT,
	game TEXT NOT NULL,
	type TEXT NOT NULL,
	timestamp INTEGER NOT NULL,
	game_time_ms INTEGER NOT NULL DEFAULT 0,
	stage INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS settings (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

func NewSQLiteRepository(ctx context.Context, path string) (Repository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return nil, fmt.Errorf("failed to create schema: %v", err)
	}

	return &SQLiteRepository{
		db: db,
	}, nil
}

func (r *SQLiteRepository) Close(ctx context.Context) error {
	return r.db.Close()
}

func (r *SQLiteRepository) SaveRun(ctx context.Context, run *models.Run) error {
	q := `
	INSERT OR REPLACE INTO runs (run_id, game, started_at, game_time_ms, splits)
	VALUES (?, ?, ?, ?, ?);
	`
	_, err := r.db.ExecContext(ctx, q, run.ID, run.Game, run.StartedAt, run.GameTimeMillis, run.Splits)
	if err != nil {
		return fmt.Errorf("failed to insert run: %v", err)
	}

	return nil
}

func (r *SQLiteRepository) LoadRun(ctx context.Context, runID string) (*models.Run, error) {
	q := `
	SELECT run_id, game, started_at, game_time_ms, splits FROM runs WHERE run_id = ?;
	`
	run := &models.Run{}
	if err := r.db.QueryRowContext(ctx, q, runID).Scan(&run.ID, &run.Game, &run.StartedAt, &run.GameTimeMillis, &run.Splits); err != nil {
		if err == sql.ErrNoRows {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan run: %v", err)
	}

	return run, nil
}

func (r *SQLiteRepository) ListRuns(ctx context.Context, limit int) ([]*models.Run, error) {
	q := `
	SELECT run_id, game, started_at, game_time_ms, splits FROM runs
	ORDER BY started_at DESC LIMIT ?;
	`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %v", err)
	}
	defer rows.Close()

	var runs []*models.Run
	for rows.Next() {
		run := &models.Run{}
		if err := rows.Scan(&run.ID, &run.Game, &run.StartedAt, &run.GameTimeMillis, &run.Splits); err != nil {
			return nil, fmt.Errorf("failed to scan run: %v", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

func (r *SQLiteRepository) SaveEvent(ctx context.Context, event *models.Event) error {
	q := `
	INSERT INTO events (run_id, game, type, timestamp, game_time_ms, stage)
	VALUES (?, ?, ?, ?, ?, ?);
	`
	_, err := r.db.ExecContext(ctx, q, event.RunID, event.Game, event.Type, event.Timestamp, event.GameTimeMillis, event.Stage)
	if err != nil {
		return fmt.Errorf("failed to insert event: %v", err)
	}

	return nil
}

func (r *SQLiteRepository) ListEvents(ctx context.Context, runID string) ([]*models.Event, error) {
	q := `
	SELECT event_id, run_id, game, type, timestamp, game_time_ms, stage FROM events
	`
	args := []interface{}{}
	if runID != "" {
		q += ` WHERE run_id = ?`
		args = append(args, runID)
	}
	q += ` ORDER BY event_id ASC;`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %v", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event := &models.Event{}
		if err := rows.Scan(&event.ID, &event.RunID, &event.Game, &event.Type, &event.Timestamp, &event.GameTimeMillis, &event.Stage); err != nil {
			return nil, fmt.Errorf("failed to scan event: %v", err)
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

func (r *SQLiteRepository) SaveSetting(ctx context.Context, key, value string) error {
	q := `
	INSERT OR REPLACE INTO settings (key, value)
	VALUES (?, ?);
	`
	_, err := r.db.ExecContext(ctx, q, key, value)
	if err != nil {
		return fmt.Errorf("failed to insert setting: %v", err)
	}

	return nil
}

func (r *SQLiteRepository) LoadSetting(ctx context.Context, key string) (string, error) {
	q := `
	SELECT value FROM settings WHERE key = ?;
	`
	var value string
	if err := r.db.QueryRowContext(ctx, q, key).Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return "", &ErrNotFound{}
		}
		return "", fmt.Errorf("failed to scan setting: %v", err)
	}

	return value, nil
}
