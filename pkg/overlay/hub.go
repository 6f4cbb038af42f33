// Package overlay serves a websocket feed of the runtime status for
// timer overlay UIs.
package overlay

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/mwhitt/runsync/pkg/log"
	"github.com/mwhitt/runsync/pkg/messages"
	"nhooyr.io/websocket"
)

const writeTimeout = 5 * time.Second

// Hub manages connected overlay clients and broadcasts status
// snapshots to them.
type Hub struct {
	lock    sync.RWMutex
	clients map[uint32]*client
	nextID  uint32
}

type client struct {
	id   uint32
	conn *websocket.Conn
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[uint32]*client),
		nextID:  1,
	}
}

func (h *Hub) addClient(conn *websocket.Conn) *client {
	h.lock.Lock()
	defer h.lock.Unlock()

	c := &client{id: h.nextID, conn: conn}
	h.nextID++
	h.clients[c.id] = c
	return c
}

func (h *Hub) removeClient(id uint32) {
	h.lock.Lock()
	defer h.lock.Unlock()
	delete(h.clients, id)
}

// ClientCount returns the number of connected overlay clients.
func (h *Hub) ClientCount() int {
	h.lock.RLock()
	defer h.lock.RUnlock()
	return len(h.clients)
}

// Broadcast sends a status snapshot to every connected client.
// Clients whose write fails are dropped.
func (h *Hub) Broadcast(ctx context.Context, status *messages.Status) {
	b, err := messages.SerializeStatus(status)
	if err != nil {
		log.Error("Failed to serialize status: %v", err)
		return
	}

	h.lock.RLock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.lock.RUnlock()

	for _, c := range clients {
		writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
		err := c.conn.Write(writeCtx, websocket.MessageText, b)
		cancel()
		if err != nil {
			log.Debug("Dropping overlay client %d: %v", c.id, err)
			c.conn.Close(websocket.StatusNormalClosure, "write failed")
			h.removeClient(c.id)
		}
	}
}

// Handler returns the websocket accept handler for the overlay feed.
func (h *Hub) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			log.Error("Failed to accept websocket connection: %v", err)
			return
		}

		c := h.addClient(conn)
		log.Debug("Overlay client %d connected from %s", c.id, r.RemoteAddr)

		// The feed is write-only; CloseRead watches for the client
		// going away.
		readCtx := conn.CloseRead(ctx)
		go func() {
			<-readCtx.Done()
			h.removeClient(c.id)
			conn.Close(websocket.StatusNormalClosure, "")
			log.Debug("Overlay client %d disconnected", c.id)
		}()
	})

	return mux
}

// Serve accepts overlay websocket connections on the given port until
// ctx is cancelled.
func (h *Hub) Serve(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	server := &http.Server{Addr: addr, Handler: h.Handler(ctx)}

	go func() {
		<-ctx.Done()
		server.Shutdown(context.Background())
	}()

	log.Info("Overlay feed listening on %s", addr)
	if err := server.ListenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("Overlay feed closed")
			return nil
		}
		return fmt.Errorf("overlay feed error: %v", err)
	}

	return nil
}
