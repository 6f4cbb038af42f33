package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/mwhitt/runsync/pkg/repositories/models"
)

type PostgresRepository struct {
	conn *pgx.Conn
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	game TEXT NOT NULL,
	started_at BIGINT NOT NULL,
	game_time_ms BIGINT NOT NULL DEFAULT 0,
	splits INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS events (
	event_id BIGSERIAL PRIMARY KEY,
	run_id TEXT,
	game TEXT NOT NULL,
	type TEXT NOT NULL,
	timestamp BIGINT NOT NULL,
	game_time_ms BIGINT NOT NULL DEFAULT 0,
	stage SMALLINT NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS settings (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// NewPostgresRepository connects to the database given by connStr and
// ensures the schema exists. The caller is responsible for calling
// Close() on the repository.
func NewPostgresRepository(ctx context.Context, connStr string) (Repository, error) {
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}

	if _, err := conn.Exec(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("failed to create schema: %v", err)
	}

	return &PostgresRepository{
		conn: conn,
	}, nil
}

func (r *PostgresRepository) Close(ctx context.Context) error {
	return r.conn.Close(ctx)
}

func (r *PostgresRepository) SaveRun(ctx context.Context, run *models.Run) error {
	q := `
	INSERT INTO runs (run_id, game, started_at, game_time_ms, splits)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (run_id) DO UPDATE SET game_time_ms = $4, splits = $5;
	`
	_, err := r.conn.Exec(ctx, q, run.ID, run.Game, run.StartedAt, run.GameTimeMillis, run.Splits)
	if err != nil {
		return fmt.Errorf("failed to insert run: %v", err)
	}

	return nil
}

func (r *PostgresRepository) LoadRun(ctx context.Context, runID string) (*models.Run, error) {
	q := `
	SELECT run_id, game, started_at, game_time_ms, splits FROM runs WHERE run_id = $1;
	`
	run := &models.Run{}
	if err := r.conn.QueryRow(ctx, q, runID).Scan(&run.ID, &run.Game, &run.StartedAt, &run.GameTimeMillis, &run.Splits); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan run: %v", err)
	}

	return run, nil
}

func (r *PostgresRepository) ListRuns(ctx context.Context, limit int) ([]*models.Run, error) {
	q := `
	SELECT run_id, game, started_at, game_time_ms, splits FROM runs
	ORDER BY started_at DESC LIMIT $1;
	`
	rows, err := r.conn.Query(ctx, q, limit)
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

func (r *PostgresRepository) SaveEvent(ctx context.Context, event *models.Event) error {
	q := `
	INSERT INTO events (run_id, game, type, timestamp, game_time_ms, stage)
	VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.conn.Exec(ctx, q, event.RunID, event.Game, event.Type, event.Timestamp, event.GameTimeMillis, event.Stage)
	if err != nil {
		return fmt.Errorf("failed to insert event: %v", err)
	}

	return nil
}

func (r *PostgresRepository) ListEvents(ctx context.Context, runID string) ([]*models.Event, error) {
	q := `
	SELECT event_id, run_id, game, type, timestamp, game_time_ms, stage FROM events
	`
	args := []interface{}{}
	if runID != "" {
		q += ` WHERE run_id = $1`
		args = append(args, runID)
	}
	q += ` ORDER BY event_id ASC;`

	rows, err := r.conn.Query(ctx, q, args...)
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

func (r *PostgresRepository) SaveSetting(ctx context.Context, key, value string) error {
	q := `
	INSERT INTO settings (key, value) VALUES ($1, $2)
	ON CONFLICT (key) DO UPDATE SET value = $2;
	`
	_, err := r.conn.Exec(ctx, q, key, value)
	if err != nil {
		return fmt.Errorf("failed to insert setting: %v", err)
	}

	return nil
}

func (r *PostgresRepository) LoadSetting(ctx context.Context, key string) (string, error) {
	q := `
	SELECT value FROM settings WHERE key = $1;
	`
	var value string
	if err := r.conn.QueryRow(ctx, q, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", &ErrNotFound{}
		}
		return "", fmt.Errorf("failed to scan setting: %v", err)
	}

	return value, nil
}
