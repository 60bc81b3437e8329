package console

import (
	"context"

	"github.com/dmitrijs2005/netkeeper/internal/logging"
	"github.com/dmitrijs2005/netkeeper/internal/metrics"
)

// Hub fans snapshot messages out to connected websocket clients.
type Hub struct {
	clients    map[*Client]struct{}
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	// initial renders the message a client receives right after registering.
	initial func() []byte
	log     logging.Logger
}

// NewHub creates a hub. initial may be nil.
func NewHub(initial func() []byte, log logging.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		initial:    initial,
		log:        log,
	}
}

// Run starts the hub's main loop and returns when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) error {
	defer h.shutdown()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case c := <-h.register:
			h.clients[c] = struct{}{}
			metrics.WebSocketClients.Inc()
			h.log.Debug(ctx, "websocket client registered", "remote", c.remote)
			if h.initial != nil {
				h.deliver(c, h.initial())
			}

		case c := <-h.unregister:
			h.remove(c)

		case msg := <-h.broadcast:
			for c := range h.clients {
				h.deliver(c, msg)
			}
		}
	}
}

// deliver queues msg for c, dropping the client if its buffer is full.
func (h *Hub) deliver(c *Client, msg []byte) {
	select {
	case c.send <- msg:
	default:
		h.remove(c)
	}
}

func (h *Hub) remove(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	metrics.WebSocketClients.Dec()
}

func (h *Hub) shutdown() {
	close(h.done)
	for c := range h.clients {
		h.remove(c)
	}
}

// Broadcast sends msg to every client. It never blocks after shutdown.
func (h *Hub) Broadcast(msg []byte) {
	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
}

// Register adds c to the hub.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes c from the hub.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}
