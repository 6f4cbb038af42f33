// Package api serves the HTTP control surface: runtime status, the
// settings toggle and run history.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/mwhitt/runsync/pkg/log"
	"github.com/mwhitt/runsync/pkg/repositories"
	"github.com/mwhitt/runsync/pkg/settings"
	"github.com/mwhitt/runsync/pkg/state"
)

type APIServer struct {
	server *http.Server
}

type NewAPIServerOptions struct {
	Port         int
	StateManager state.Manager
	Settings     *settings.Store
	Repository   repositories.Repository
}

// NewAPIServer creates a new http.Server for handling API requests.
func NewAPIServer(opts NewAPIServerOptions) *APIServer {
	h := &handlers{
		stateManager: opts.StateManager,
		settings:     opts.Settings,
		repository:   opts.Repository,
	}

	router := mux.NewRouter()
	router.HandleFunc("/api/status", h.handleGetStatus).Methods(http.MethodGet)
	router.HandleFunc("/api/settings", h.handleGetSettings).Methods(http.MethodGet)
	router.HandleFunc("/api/settings", h.handlePutSettings).Methods(http.MethodPut)
	router.HandleFunc("/api/runs", h.handleListRuns).Methods(http.MethodGet)
	router.HandleFunc("/api/runs/{runID}", h.handleGetRun).Methods(http.MethodGet)
	router.HandleFunc("/api/runs/{runID}/events", h.handleListEvents).Methods(http.MethodGet)
	router.HandleFunc("/api/export", h.handleExport).Methods(http.MethodGet)

	return &APIServer{
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", opts.Port),
			Handler: router,
		},
	}
}

// Start starts the API server and blocks until ctx is cancelled.
func (s *APIServer) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.server.Shutdown(context.Background())
	}()

	log.Info("API server listening on %s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("API server closed")
			return nil
		}
		return fmt.Errorf("API server error: %v", err)
	}

	return nil
}
