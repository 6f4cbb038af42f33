package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/mwhitt/runsync/pkg/log"
	"github.com/mwhitt/runsync/pkg/repositories"
	"github.com/mwhitt/runsync/pkg/settings"
	"github.com/mwhitt/runsync/pkg/state"
)

const defaultRunListLimit = 50

type handlers struct {
	stateManager state.Manager
	settings     *settings.Store
	repository   repositories.Repository
}

type settingsBody struct {
	IGT bool `json:"igt"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response: %v", err)
	}
}

func (h *handlers) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	status := h.stateManager.Get()
	if status == nil {
		http.Error(w, "no status yet", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *handlers) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, settingsBody{IGT: h.settings.IGT()})
}

func (h *handlers) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	body := settingsBody{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	if err := h.settings.SetIGT(r.Context(), body.IGT); err != nil {
		log.Error("Failed to save settings: %v", err)
		http.Error(w, "failed to save settings", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, body)
}

func (h *handlers) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunListLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		parsed, err := strconv.Atoi(s)
		if err != nil || parsed < 1 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	runs, err := h.repository.ListRuns(r.Context(), limit)
	if err != nil {
		log.Error("Failed to list runs: %v", err)
		http.Error(w, "failed to list runs", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, runs)
}

func (h *handlers) handleGetRun(w http.ResponseWriter, r *http.Request) {
	runID := mux.Vars(r)["runID"]

	run, err := h.repository.LoadRun(r.Context(), runID)
	if err != nil {
		if repositories.IsNotFound(err) {
			http.Error(w, "run not found", http.StatusNotFound)
			return
		}
		log.Error("Failed to load run %s: %v", runID, err)
		http.Error(w, "failed to load run", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, run)
}

func (h *handlers) handleListEvents(w http.ResponseWriter, r *http.Request) {
	runID := mux.Vars(r)["runID"]

	events, err := h.repository.ListEvents(r.Context(), runID)
	if err != nil {
		log.Error("Failed to list events for run %s: %v", runID, err)
		http.Error(w, "failed to list events", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, events)
}

func (h *handlers) handleExport(w http.ResponseWriter, r *http.Request) {
	runID := r.URL.Query().Get("run")

	w.Header().Set("Content-Type", "application/zstd")
	w.Header().Set("Content-Disposition", `attachment; filename="events.jsonl.zst"`)
	if err := repositories.ExportEvents(r.Context(), h.repository, runID, w); err != nil {
		log.Error("Failed to export events: %v", err)
	}
}
