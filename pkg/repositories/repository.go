package repositories

import (
	"context"

	"github.com/mwhitt/runsync/pkg/repositories/models"
)

type Repository interface {
	Close(ctx context.Context) error

	// SaveRun inserts or updates a run row.
	SaveRun(ctx context.Context, run *models.Run) error
	// LoadRun returns a run by ID, or *ErrNotFound.
	LoadRun(ctx context.Context, runID string) (*models.Run, error)
	// ListRuns returns the most recent runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]*models.Run, error)

	// SaveEvent appends a timer event row.
	SaveEvent(ctx context.Context, event *models.Event) error
	// ListEvents returns all events, oldest first, optionally filtered
	// by run ID when runID is non-empty.
	ListEvents(ctx context.Context, runID string) ([]*models.Event, error)

	// SaveSetting upserts a setting.
	SaveSetting(ctx context.Context, key, value string) error
	// LoadSetting returns a setting value, or *ErrNotFound.
	LoadSetting(ctx context.Context, key string) (string, error)
}
