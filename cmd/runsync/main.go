package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mwhitt/runsync/pkg/api"
	"github.com/mwhitt/runsync/pkg/autosplit"
	"github.com/mwhitt/runsync/pkg/game"
	"github.com/mwhitt/runsync/pkg/log"
	"github.com/mwhitt/runsync/pkg/messages"
	"github.com/mwhitt/runsync/pkg/overlay"
	"github.com/mwhitt/runsync/pkg/queue"
	"github.com/mwhitt/runsync/pkg/repositories"
	"github.com/mwhitt/runsync/pkg/settings"
	"github.com/mwhitt/runsync/pkg/state"
	"github.com/mwhitt/runsync/pkg/timer"
	"github.com/mwhitt/runsync/pkg/version"
	"github.com/mwhitt/runsync/pkg/workers"
)

func main() {
	gameName := flag.String("game", "unleashed-recomp", "Game profile to track")
	dbPath := flag.String("db", "runsync.db", "Path to the SQLite database (ignored when DATABASE_URL is set)")
	apiPort := flag.Int("api-port", 8070, "Port for the HTTP API")
	overlayPort := flag.Int("overlay-port", 8071, "Port for the overlay websocket feed")
	timerAddr := flag.String("timer-addr", "", "Address of a LiveSplit Server to drive (empty for the built-in timer)")
	logLevel := flag.String("log-level", "info", "Log level")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	log.Info("Starting runsync version %s", version.Get())
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	profile, err := game.Lookup(*gameName)
	if err != nil {
		panic(fmt.Sprintf("Failed to load game profile: %v", err))
	}

	var repository repositories.Repository
	if connStr := os.Getenv("DATABASE_URL"); connStr != "" {
		repository, err = repositories.NewPostgresRepository(ctx, connStr)
	} else {
		repository, err = repositories.NewSQLiteRepository(ctx, *dbPath)
	}
	if err != nil {
		panic(fmt.Sprintf("Failed to open repository: %v", err))
	}
	defer repository.Close(ctx)

	settingsStore, err := settings.NewStore(ctx, repository)
	if err != nil {
		panic(fmt.Sprintf("Failed to load settings: %v", err))
	}

	var timerControl timer.Control
	if *timerAddr != "" {
		timerControl = timer.NewRemoteTimer(*timerAddr)
	} else {
		timerControl = timer.NewLocalTimer()
	}

	stateManager := state.NewInMemoryManager()
	statusQueue := queue.NewMemoryQueue(1024)
	eventChan := make(chan messages.TimerEvent, 100)

	historyWorker := workers.NewRunHistoryWorker(workers.NewRunHistoryWorkerOptions{
		Repository: repository,
		EventChan:  eventChan,
	})
	go historyWorker.Start(ctx)

	hub := overlay.NewHub()
	go func() {
		if err := hub.Serve(ctx, *overlayPort); err != nil {
			log.Error("Overlay feed failed: %v", err)
		}
	}()

	broadcastWorker := workers.NewStatusBroadcastWorker(workers.NewStatusBroadcastWorkerOptions{
		StatusQueue: statusQueue,
		Hub:         hub,
		Interval:    50 * time.Millisecond,
	})
	go broadcastWorker.Start(ctx)

	apiServer := api.NewAPIServer(api.NewAPIServerOptions{
		Port:         *apiPort,
		StateManager: stateManager,
		Settings:     settingsStore,
		Repository:   repository,
	})
	go func() {
		if err := apiServer.Start(ctx); err != nil {
			log.Error("API server failed: %v", err)
		}
	}()

	runner := autosplit.NewRunner(autosplit.NewRunnerOptions{
		Profile:      profile,
		Timer:        timerControl,
		Settings:     settingsStore,
		StateManager: stateManager,
		StatusQueue:  statusQueue,
		EventChan:    eventChan,
	})

	log.Info("Starting autosplit runner for %s", profile.Name)
	runner.Start(ctx)
}
