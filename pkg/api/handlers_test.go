package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mwhitt/runsync/pkg/messages"
	"github.com/mwhitt/runsync/pkg/repositories"
	"github.com/mwhitt/runsync/pkg/repositories/models"
	"github.com/mwhitt/runsync/pkg/settings"
	"github.com/mwhitt/runsync/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*APIServer, state.Manager, *settings.Store, repositories.Repository) {
	t.Helper()

	ctx := context.Background()
	repo, err := repositories.NewSQLiteRepository(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close(ctx) })

	store, err := settings.NewStore(ctx, repo)
	require.NoError(t, err)

	stateManager := state.NewInMemoryManager()

	server := NewAPIServer(NewAPIServerOptions{
		StateManager: stateManager,
		Settings:     store,
		Repository:   repo,
	})
	return server, stateManager, store, repo
}

func doRequest(server *APIServer, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	server.server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleGetStatus(t *testing.T) {
	server, stateManager, _, _ := newTestServer(t)

	rec := doRequest(server, http.MethodGet, "/api/status", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	stateManager.Set(&messages.Status{
		Attached:       true,
		Game:           "unleashed-recomp",
		TimerState:     "Running",
		GameTimeMillis: 1250,
	})

	rec = doRequest(server, http.MethodGet, "/api/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	status := &messages.Status{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), status))
	assert.True(t, status.Attached)
	assert.Equal(t, int64(1250), status.GameTimeMillis)
}

func TestHandleSettings(t *testing.T) {
	server, _, store, _ := newTestServer(t)

	rec := doRequest(server, http.MethodGet, "/api/settings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"igt": false}`, rec.Body.String())

	rec = doRequest(server, http.MethodPut, "/api/settings", []byte(`{"igt": true}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, store.IGT())

	rec = doRequest(server, http.MethodPut, "/api/settings", []byte(`not json`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleRuns(t *testing.T) {
	server, _, _, repo := newTestServer(t)
	ctx := context.Background()

	run := &models.Run{
		ID:        "3f5a0a40-15a7-4f2e-9e55-1f6d8d9a2a01",
		Game:      "unleashed-recomp",
		StartedAt: 1000,
		Splits:    2,
	}
	require.NoError(t, repo.SaveRun(ctx, run))
	require.NoError(t, repo.SaveEvent(ctx, &models.Event{
		RunID: run.ID, Game: run.Game, Type: "start", Timestamp: 1000,
	}))

	rec := doRequest(server, http.MethodGet, "/api/runs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var runs []*models.Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)

	rec = doRequest(server, http.MethodGet, "/api/runs/"+run.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(server, http.MethodGet, "/api/runs/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(server, http.MethodGet, "/api/runs/"+run.ID+"/events", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var events []*models.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	assert.Len(t, events, 1)

	rec = doRequest(server, http.MethodGet, "/api/runs?limit=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleExport(t *testing.T) {
	server, _, _, repo := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveEvent(ctx, &models.Event{
		RunID: "run-1", Game: "unleashed-recomp", Type: "start", Timestamp: 1000,
	}))

	rec := doRequest(server, http.MethodGet, "/api/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/zstd", rec.Header().Get("Content-Type"))

	dest, err := repositories.NewSQLiteRepository(ctx, ":memory:")
	require.NoError(t, err)
	defer dest.Close(ctx)

	count, err := repositories.ImportEvents(ctx, dest, rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
