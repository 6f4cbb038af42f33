package autosplit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mwhitt/runsync/pkg/game"
	"github.com/mwhitt/runsync/pkg/log"
	"github.com/mwhitt/runsync/pkg/memory"
	"github.com/mwhitt/runsync/pkg/messages"
	"github.com/mwhitt/runsync/pkg/process"
	"github.com/mwhitt/runsync/pkg/queue"
	"github.com/mwhitt/runsync/pkg/settings"
	"github.com/mwhitt/runsync/pkg/state"
	"github.com/mwhitt/runsync/pkg/timer"
)

// DefaultTickRate is the fixed polling cadence, 120 Hz.
const DefaultTickRate = time.Second / 120

// SettingsSource serves the settings snapshot the tick evaluates
// against, refreshed once per tick before the decision phase.
type SettingsSource interface {
	Snapshot() settings.Snapshot
}

type Runner struct {
	profile      *game.Profile
	timer        timer.Control
	settings     SettingsSource
	stateManager state.Manager
	statusQueue  queue.Queue
	eventChan    chan<- messages.TimerEvent
	tickRate     time.Duration
}

type NewRunnerOptions struct {
	Profile      *game.Profile
	Timer        timer.Control
	Settings     SettingsSource
	StateManager state.Manager
	StatusQueue  queue.Queue
	EventChan    chan<- messages.TimerEvent
	TickRate     time.Duration
}

// NewRunner creates a new Runner. The runner owns the whole attach /
// probe / tick cycle for one game profile.
func NewRunner(opts NewRunnerOptions) *Runner {
	tickRate := opts.TickRate
	if tickRate == 0 {
		tickRate = DefaultTickRate
	}
	return &Runner{
		profile:      opts.Profile,
		timer:        opts.Timer,
		settings:     opts.Settings,
		stateManager: opts.StateManager,
		statusQueue:  opts.StatusQueue,
		eventChan:    opts.EventChan,
		tickRate:     tickRate,
	}
}

// session is the per-attachment bookkeeping that is not watcher state.
type session struct {
	processName string
	runID       string
}

// Start runs the attach cycle until ctx is cancelled: wait for the
// target process, discover the memory anchor, poll until the process
// dies, then start over with fresh state.
func (r *Runner) Start(ctx context.Context) {
	for {
		proc, err := r.awaitProcess(ctx)
		if err != nil {
			return
		}

		probe, err := memory.Init(ctx, proc, r.tickRate)
		if err != nil {
			proc.Close()
			if ctx.Err() != nil {
				return
			}
			log.Info("Target process exited before anchor discovery, waiting for it to come back")
			continue
		}

		sess := &session{processName: proc.Name()}
		r.emitEvent(messages.TimerEvent{
			Game:      r.profile.Name,
			Type:      messages.EventTypeAttach,
			Timestamp: time.Now().UnixMilli(),
		})

		r.track(ctx, proc, probe, sess)

		proc.Close()
		r.emitEvent(messages.TimerEvent{
			RunID:     sess.runID,
			Game:      r.profile.Name,
			Type:      messages.EventTypeDetach,
			Timestamp: time.Now().UnixMilli(),
		})
		r.publishStatus(nil, sess, false, r.timer.State())

		if ctx.Err() != nil {
			return
		}
	}
}

// awaitProcess retries attaching by the profile's candidate names at
// the tick cadence until one succeeds or ctx is cancelled.
func (r *Runner) awaitProcess(ctx context.Context) (*process.Process, error) {
	ticker := time.NewTicker(r.tickRate)
	defer ticker.Stop()

	for {
		proc, err := process.Attach(r.profile.ProcessNames...)
		if err == nil {
			log.Info("Hooked to process %s (pid %d)", proc.Name(), proc.Pid())
			return proc, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// track polls the attached process until it exits or ctx is cancelled.
// All per-attachment state lives here and dies here.
func (r *Runner) track(ctx context.Context, proc *process.Process, probe *memory.Probe, sess *session) {
	watchers := &Watchers{}

	ticker := time.NewTicker(r.tickRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !proc.Alive() {
				log.Info("Process %s exited", sess.processName)
				return
			}
			r.tick(ctx, proc, probe.BaseClientPtr, watchers, sess)
		}
	}
}

// tick is one iteration of the splitting logic, adapted from the
// original LiveSplit ordering: update the watchers first; while the
// timer runs, handle load removal, game time and reset-else-split;
// while it is not running, handle start.
func (r *Runner) tick(ctx context.Context, mem memory.Reader, base uint64, w *Watchers, sess *session) {
	settingsSnap := r.settings.Snapshot()

	updateWatchers(mem, base, r.profile, w)

	timerState := r.timer.State()

	if timerState == timer.StateRunning || timerState == timer.StatePaused {
		if loading, ok := isLoading(w, settingsSnap); ok {
			if loading {
				r.timer.PauseGameTime()
			} else {
				r.timer.ResumeGameTime()
			}
		}

		if gt, ok := gameTime(w, settingsSnap); ok {
			r.timer.SetGameTime(gt)
		}

		if shouldReset(w, r.profile) {
			r.timer.Reset()
			r.emitEvent(r.runEvent(messages.EventTypeReset, w, sess))
			sess.runID = ""
		} else if shouldSplit(w, r.profile) {
			r.timer.Split()
			r.emitEvent(r.runEvent(messages.EventTypeSplit, w, sess))
		}
	}

	if timerState == timer.StateNotRunning {
		w.IGTBuffer = 0

		if shouldStart(w, r.profile) {
			sess.runID = uuid.NewString()
			r.timer.Start()
			r.emitEvent(r.runEvent(messages.EventTypeStart, w, sess))

			// Prime the paused/running game time state together with
			// the run start.
			r.timer.PauseGameTime()
			if loading, ok := isLoading(w, settingsSnap); ok {
				if loading {
					r.timer.PauseGameTime()
				} else {
					r.timer.ResumeGameTime()
				}
			}
		}
	}

	r.publishStatus(w, sess, true, timerState)
}

func (r *Runner) runEvent(eventType messages.EventType, w *Watchers, sess *session) messages.TimerEvent {
	current, _ := w.IGT.Current()
	stage, _ := w.Stage.Current()

	return messages.TimerEvent{
		RunID:          sess.runID,
		Game:           r.profile.Name,
		Type:           eventType,
		Timestamp:      time.Now().UnixMilli(),
		GameTimeMillis: (current + w.IGTBuffer).Milliseconds(),
		Stage:          stage,
	}
}

// emitEvent hands an event to the history worker without ever blocking
// the tick loop.
func (r *Runner) emitEvent(event messages.TimerEvent) {
	if r.eventChan == nil {
		return
	}
	select {
	case r.eventChan <- event:
	default:
		log.Warn("Event channel full, dropping %s event", event.Type)
	}
}

// publishStatus installs the latest snapshot for the API and queues it
// for the overlay feed. w is nil when publishing a detached status.
// The timer state is passed in rather than re-queried: with a remote
// timer every State call is a protocol round trip, and the tick loop
// has already read it.
func (r *Runner) publishStatus(w *Watchers, sess *session, attached bool, timerState timer.State) {
	status := &messages.Status{
		Timestamp:   time.Now().UnixMilli(),
		Attached:    attached,
		Game:        r.profile.Name,
		TimerState:  timerState.String(),
		ProcessName: sess.processName,
	}

	if w != nil {
		status.Loading, status.Observed = w.IsLoading.Current()
		status.Stage, _ = w.Stage.Current()
		current, _ := w.IGT.Current()
		status.GameTimeMillis = (current + w.IGTBuffer).Milliseconds()
	}

	if r.stateManager != nil {
		r.stateManager.Set(status)
	}

	if r.statusQueue != nil {
		if err := r.statusQueue.Enqueue(status); err != nil {
			log.Trace("Failed to queue status: %v", err)
		}
	}
}
