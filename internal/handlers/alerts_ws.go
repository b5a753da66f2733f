package handlers

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/leaseguard/leaseguard/internal/database"
)

// AlertFeedHandler pushes newly created alerts to connected dashboard
// clients over WebSocket. It implements services.AlertNotifier, so the scan
// pipeline hands it each created alert.
type AlertFeedHandler struct {
	upgrader websocket.Upgrader
	mu       sync.Mutex
	clients  map[*websocket.Conn]bool
}

// NewAlertFeedHandler creates a new alert feed handler
func NewAlertFeedHandler() *AlertFeedHandler {
	return &AlertFeedHandler{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Dashboard may be served from a different origin
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		clients: make(map[*websocket.Conn]bool),
	}
}

// SetupRoutes configures WebSocket routes
func (h *AlertFeedHandler) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws/alerts", h.HandleWebSocket)
}

// HandleWebSocket upgrades the connection and keeps it registered until the
// client goes away. The feed is one-directional; client messages are drained
// and discarded.
func (h *AlertFeedHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade alert feed WebSocket: %v", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
	log.Printf("Alert feed client connected from %s", r.RemoteAddr)

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		conn.Close()
		log.Printf("Alert feed client disconnected")
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Alert feed read error: %v", err)
			}
			return
		}
	}
}

// AlertCreated broadcasts a created alert to all connected clients.
// A client that fails to accept the write is dropped.
func (h *AlertFeedHandler) AlertCreated(alert database.Alert) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		if err := conn.WriteJSON(alert); err != nil {
			log.Printf("Failed to push alert to feed client: %v", err)
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// ClientCount returns the number of connected feed clients.
func (h *AlertFeedHandler) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
