// Package monitor streams joystick snapshots to websocket clients, for input
// overlays and debugging.
//
// Messages are JSON text frames {type, ts, data}. A client receives the most
// recent snapshot as "state_init" on connect, then "state" for every change
// and "action" for every dispatched aux action. Clients that cannot keep up
// are disconnected.
package monitor

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/Alia5/joykey/joystick"
	"github.com/gorilla/websocket"
)

type envelope struct {
	Type string    `json:"type"`
	Ts   time.Time `json:"ts"`
	Data any       `json:"data"`
}

// Hub fans snapshots out to the connected clients.
type Hub struct {
	logger *slog.Logger

	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	done       chan struct{}

	mu      sync.Mutex
	clients map[*client]struct{}
	last    []byte

	sendBuf int
}

// NewHub returns a hub with per-client queues of sendBuf messages. Call Run to
// start it.
func NewHub(logger *slog.Logger, sendBuf int) *Hub {
	if sendBuf <= 0 {
		sendBuf = 32
	}
	return &Hub{
		logger:     logger,
		broadcast:  make(chan []byte, 128),
		register:   make(chan *client),
		unregister: make(chan *client, 16),
		done:       make(chan struct{}),
		clients:    make(map[*client]struct{}),
		sendBuf:    sendBuf,
	}
}

// Publish queues snap for every client. It never blocks; when the queue is
// full the snapshot is dropped.
func (h *Hub) Publish(snap joystick.Snapshot) {
	typ := "state"
	if snap.Action != joystick.ActionNone {
		typ = "action"
	}
	msg, err := json.Marshal(envelope{Type: typ, Ts: time.Now().UTC(), Data: snap})
	if err != nil {
		h.logger.Warn("monitor marshal failed", "error", err)
		return
	}

	h.mu.Lock()
	h.last = msg
	h.mu.Unlock()

	select {
	case h.broadcast <- msg:
	default:
		h.logger.Debug("monitor queue full, dropping snapshot")
	}
}

// Run serves hub events until ctx is done, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				h.drop(c)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			if init := h.initMessage(); init != nil {
				c.send <- init
			}
			n := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("monitor client connected", "remote_addr", c.remoteAddr, "clients", n)

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				h.drop(c)
				h.logger.Info("monitor client disconnected", "remote_addr", c.remoteAddr, "clients", len(h.clients))
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					h.drop(c)
					h.logger.Info("monitor client too slow", "remote_addr", c.remoteAddr)
				}
			}
			h.mu.Unlock()
		}
	}
}

// initMessage rewrites the last snapshot as state_init. Callers hold mu.
func (h *Hub) initMessage() []byte {
	if h.last == nil {
		return nil
	}
	var env struct {
		Ts   time.Time       `json:"ts"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(h.last, &env); err != nil {
		return nil
	}
	msg, err := json.Marshal(envelope{Type: "state_init", Ts: env.Ts, Data: env.Data})
	if err != nil {
		return nil
	}
	return msg
}

// drop removes c. Callers hold mu.
func (h *Hub) drop(c *client) {
	delete(h.clients, c)
	if c.conn != nil {
		_ = c.conn.Close()
	}
	close(c.send)
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

type client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	remoteAddr string
}
