package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"gridimport/domain/imports"
	"gridimport/internal"
	"gridimport/ports"
)

var _ ports.ImportEventPublisher = (*SSEHub)(nil)

const pingInterval = 30 * time.Second

// SSEHub fans import events out to Server-Sent Events clients. Clients
// subscribe to one import id or, with an empty id, to every import.
type SSEHub struct {
	clients   map[string]map[chan imports.Event]bool
	clientsMu sync.RWMutex
	broadcast chan imports.Event
	done      chan struct{}
	closeOnce sync.Once
	stopped   chan struct{}
	logger    *internal.Logger
}

// NewSSEHub creates a hub and starts its dispatch loop; Close stops it
func NewSSEHub(logger *internal.Logger) *SSEHub {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	hub := &SSEHub{
		clients:   make(map[string]map[chan imports.Event]bool),
		broadcast: make(chan imports.Event, 100),
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
		logger:    logger,
	}

	go hub.run()
	return hub
}

func (h *SSEHub) run() {
	defer close(h.stopped)
	for {
		select {
		case <-h.done:
			h.clientsMu.Lock()
			for key, clients := range h.clients {
				for ch := range clients {
					close(ch)
				}
				delete(h.clients, key)
			}
			h.clientsMu.Unlock()
			return

		case event := <-h.broadcast:
			h.clientsMu.RLock()
			h.deliver(h.clients[""], event)
			h.deliver(h.clients[event.ImportID.String()], event)
			h.clientsMu.RUnlock()
		}
	}
}

func (h *SSEHub) deliver(clients map[chan imports.Event]bool, event imports.Event) {
	for ch := range clients {
		select {
		case ch <- event:
		default:
			h.logger.Warn("[SSE] client channel full, skipping %s for %s", event.Type, event.ImportID)
		}
	}
}

// Publish queues an event without blocking; events are dropped when the queue is full
func (h *SSEHub) Publish(event imports.Event) {
	select {
	case <-h.done:
	case h.broadcast <- event:
	default:
		h.logger.Warn("[SSE] broadcast channel full, dropping event: %s", event.Type)
	}
}

// Subscribe registers a client for importID ("" for all imports). The
// returned channel is closed by cancel or when the hub closes.
func (h *SSEHub) Subscribe(importID string) (<-chan imports.Event, func()) {
	ch := make(chan imports.Event, 10)

	h.clientsMu.Lock()
	select {
	case <-h.done:
		h.clientsMu.Unlock()
		close(ch)
		return ch, func() {}
	default:
	}
	if h.clients[importID] == nil {
		h.clients[importID] = make(map[chan imports.Event]bool)
	}
	h.clients[importID][ch] = true
	h.logger.Debug("[SSE] client registered for %q (total clients: %d)", importID, len(h.clients[importID]))
	h.clientsMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.clientsMu.Lock()
			defer h.clientsMu.Unlock()
			if clients, ok := h.clients[importID]; ok && clients[ch] {
				delete(clients, ch)
				close(ch)
				if len(clients) == 0 {
					delete(h.clients, importID)
				}
			}
		})
	}
	return ch, cancel
}

// ClientCount returns the number of clients subscribed to importID
func (h *SSEHub) ClientCount(importID string) int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients[importID])
}

// Close stops the dispatch loop and disconnects every client
func (h *SSEHub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
	<-h.stopped
}

// HandleSSE streams events; ?import_id= narrows the stream to one import
func (h *SSEHub) HandleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "streaming unsupported")
		return
	}

	events, cancel := h.Subscribe(r.URL.Query().Get("import_id"))
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			payload, err := json.Marshal(event)
			if err != nil {
				h.logger.Error("[SSE] failed to marshal event: %v", err)
				continue
			}
			fmt.Fprintf(w, "event: import\ndata: %s\n\n", payload)
			flusher.Flush()

		case <-ticker.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%q}\n\n", time.Now().UTC().Format(time.RFC3339))
			flusher.Flush()

		case <-ctx.Done():
			return
		}
	}
}
