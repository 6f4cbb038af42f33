package overlay

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mwhitt/runsync/pkg/messages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"
)

func TestHubBroadcast(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	hub := NewHub()
	server := httptest.NewServer(hub.Handler(ctx))
	defer server.Close()

	conn, _, err := websocket.Dial(ctx, "ws"+server.URL[len("http"):], nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	require.Eventually(t, func() bool {
		return hub.ClientCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	status := &messages.Status{
		Attached:       true,
		Game:           "unleashed-recomp",
		TimerState:     "Running",
		GameTimeMillis: 1250,
	}
	hub.Broadcast(ctx, status)

	msgType, b, err := conn.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, websocket.MessageText, msgType)

	got, err := messages.DeserializeStatus(b)
	require.NoError(t, err)
	assert.Equal(t, status.GameTimeMillis, got.GameTimeMillis)
	assert.Equal(t, status.Game, got.Game)
}

func TestHubDropsClosedClients(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	hub := NewHub()
	server := httptest.NewServer(hub.Handler(ctx))
	defer server.Close()

	conn, _, err := websocket.Dial(ctx, "ws"+server.URL[len("http"):], nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return hub.ClientCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	conn.Close(websocket.StatusNormalClosure, "")

	require.Eventually(t, func() bool {
		return hub.ClientCount() == 0
	}, 2*time.Second, 10*time.Millisecond)
}
