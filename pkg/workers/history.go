package workers

import (
	"context"

	"github.com/mwhitt/runsync/pkg/log"
	"github.com/mwhitt/runsync/pkg/messages"
	"github.com/mwhitt/runsync/pkg/repositories"
	"github.com/mwhitt/runsync/pkg/repositories/models"
)

type RunHistoryWorker struct {
	repository repositories.Repository
	eventChan  <-chan messages.TimerEvent
	currentRun *models.Run
}

type NewRunHistoryWorkerOptions struct {
	Repository repositories.Repository
	EventChan  <-chan messages.TimerEvent
}

// NewRunHistoryWorker creates a new RunHistoryWorker.
// The worker persists timer events from the runner and maintains a
// summary row per run.
func NewRunHistoryWorker(opts NewRunHistoryWorkerOptions) *RunHistoryWorker {
	return &RunHistoryWorker{
		repository: opts.Repository,
		eventChan:  opts.EventChan,
	}
}

func (w *RunHistoryWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-w.eventChan:
			w.handleEvent(ctx, event)
		}
	}
}

func (w *RunHistoryWorker) handleEvent(ctx context.Context, event messages.TimerEvent) {
	if err := w.repository.SaveEvent(ctx, &models.Event{
		RunID:          event.RunID,
		Game:           event.Game,
		Type:           string(event.Type),
		Timestamp:      event.Timestamp,
		GameTimeMillis: event.GameTimeMillis,
		Stage:          event.Stage,
	}); err != nil {
		log.Error("Failed to save timer event: %v", err)
		return
	}

	switch event.Type {
	case messages.EventTypeStart:
		w.currentRun = &models.Run{
			ID:        event.RunID,
			Game:      event.Game,
			StartedAt: event.Timestamp,
		}
		w.saveCurrentRun(ctx)
	case messages.EventTypeSplit:
		if w.currentRun == nil || w.currentRun.ID != event.RunID {
			log.Warn("Split event for unknown run %s", event.RunID)
			return
		}
		w.currentRun.Splits++
		w.currentRun.GameTimeMillis = event.GameTimeMillis
		w.saveCurrentRun(ctx)
	case messages.EventTypeReset:
		if w.currentRun != nil && w.currentRun.ID == event.RunID {
			w.currentRun.GameTimeMillis = event.GameTimeMillis
			w.saveCurrentRun(ctx)
		}
		w.currentRun = nil
	}
}

func (w *RunHistoryWorker) saveCurrentRun(ctx context.Context) {
	if err := w.repository.SaveRun(ctx, w.currentRun); err != nil {
		log.Error("Failed to save run %s: %v", w.currentRun.ID, err)
	}
}
