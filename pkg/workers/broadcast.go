package workers

import (
	"context"
	"time"

	"github.com/mwhitt/runsync/pkg/log"
	"github.com/mwhitt/runsync/pkg/messages"
	"github.com/mwhitt/runsync/pkg/overlay"
	"github.com/mwhitt/runsync/pkg/queue"
)

type StatusBroadcastWorker struct {
	statusQueue queue.Queue
	hub         *overlay.Hub
	interval    time.Duration
}

type NewStatusBroadcastWorkerOptions struct {
	StatusQueue queue.Queue
	Hub         *overlay.Hub
	Interval    time.Duration
}

// NewStatusBroadcastWorker creates a new StatusBroadcastWorker.
// The worker drains status snapshots queued by the runner and pushes
// the newest one to connected overlay clients. The runner ticks much
// faster than any overlay needs to render, so intermediate snapshots
// are dropped.
func NewStatusBroadcastWorker(opts NewStatusBroadcastWorkerOptions) *StatusBroadcastWorker {
	return &StatusBroadcastWorker{
		statusQueue: opts.StatusQueue,
		hub:         opts.Hub,
		interval:    opts.Interval,
	}
}

func (w *StatusBroadcastWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.broadcastLatest(ctx)
		}
	}
}

func (w *StatusBroadcastWorker) broadcastLatest(ctx context.Context) {
	pending, err := w.statusQueue.ReadAllMessages()
	if err != nil {
		log.Error("Failed to read status queue: %v", err)
		return
	}
	if len(pending) == 0 {
		return
	}

	status, ok := pending[len(pending)-1].(*messages.Status)
	if !ok {
		log.Error("Unexpected item in status queue: %T", pending[len(pending)-1])
		return
	}

	w.hub.Broadcast(ctx, status)
}
