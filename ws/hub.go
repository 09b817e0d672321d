// server/ws/hub.go
package ws

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ViniZap4/lumi-notes/domain"
)

const (
	NoteCreated = "note_created"
	NoteUpdated = "note_updated"
	NoteDeleted = "note_deleted"
)

// writeWait bounds a single broadcast write, so one stalled client cannot
// hold up the others for longer than that.
const writeWait = 5 * time.Second

type Message struct {
	Type string       `json:"type"`
	Note *domain.Note `json:"note,omitempty"`
}

// Client is the part of a websocket connection the hub needs.
type Client interface {
	WriteJSON(v any) error
	ReadJSON(v any) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

type unregisterRequest struct {
	client Client
	done   chan struct{}
}

type Hub struct {
	clients    map[Client]bool
	broadcast  chan Message
	register   chan Client
	unregister chan unregisterRequest
	done       chan struct{}
	mu         sync.RWMutex
	onChange   func(clients int)
}

type Option func(*Hub)

// WithClientGauge calls fn with the client count after every (un)registration.
func WithClientGauge(fn func(clients int)) Option {
	return func(h *Hub) { h.onChange = fn }
}

func NewHub(opts ...Option) *Hub {
	h := &Hub{
		clients:    make(map[Client]bool),
		broadcast:  make(chan Message, 256),
		register:   make(chan Client),
		unregister: make(chan unregisterRequest),
		done:       make(chan struct{}),
		onChange:   func(int) {},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run owns the client set until ctx is done, then closes every client.
// Only Run mutates the set; the mutex exists for Count.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				_ = c.Close()
				delete(h.clients, c)
			}
			h.mu.Unlock()
			h.onChange(0)
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			n := len(h.clients)
			h.mu.Unlock()
			h.onChange(n)

		case req := <-h.unregister:
			h.drop(req.client)
			close(req.done)

		case msg := <-h.broadcast:
			var failed []Client
			for c := range h.clients {
				if err := h.write(c, msg); err != nil {
					log.Warn().Err(err).Str("type", msg.Type).Msg("websocket write failed, dropping client")
					failed = append(failed, c)
				}
			}
			for _, c := range failed {
				h.drop(c)
			}
		}
	}
}

func (h *Hub) write(c Client, msg Message) error {
	if err := c.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.WriteJSON(msg)
}

func (h *Hub) drop(c Client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		_ = c.Close()
	}
	n := len(h.clients)
	h.mu.Unlock()
	if ok {
		h.onChange(n)
	}
}

// Publish queues a note event for every client. When the queue is full the
// event is dropped rather than stalling the HTTP handler.
func (h *Hub) Publish(msgType string, note domain.Note) {
	select {
	case h.broadcast <- Message{Type: msgType, Note: &note}:
	default:
		log.Warn().Str("type", msgType).Str("id", note.ID).Msg("change feed queue full, event dropped")
	}
}

// Register adds c to the broadcast set. Once Run has returned, c is closed instead.
func (h *Hub) Register(c Client) {
	select {
	case h.register <- c:
	case <-h.done:
		_ = c.Close()
	}
}

// Unregister removes and closes c, and returns only once the hub is done
// with it. Connections are pooled by the websocket handler after it returns,
// so the hub must never touch c afterwards.
func (h *Hub) Unregister(c Client) {
	req := unregisterRequest{client: c, done: make(chan struct{})}
	select {
	case h.unregister <- req:
	case <-h.done:
		return
	}
	select {
	case <-req.done:
	case <-h.done:
	}
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleConnection blocks reading from c until it fails, then unregisters it.
// Clients only ever send "subscribe"; anything else is ignored.
func (h *Hub) HandleConnection(c Client) {
	defer h.Unregister(c)

	for {
		var msg map[string]any
		if err := c.ReadJSON(&msg); err != nil {
			return
		}
		if msgType, ok := msg["type"].(string); ok && msgType == "subscribe" {
			log.Debug().Msg("change feed client subscribed")
		}
	}
}
