// Package ws mantiene las conexiones websocket abiertas y les empuja las notificaciones.
//
// El cliente se conecta a /api/ws ya autenticado (header Authorization o ?token=),
// así que no hay handshake propio: el usuario sale del actor del request.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"vetcare-api/internal/domain/notifications"
	"vetcare-api/internal/middleware"
	"vetcare-api/internal/platform/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	pingInterval   = 30 * time.Second
	pongWait       = 60 * time.Second
	writeWait      = 10 * time.Second
	maxMessageSize = 4096
	sendBuffer     = 64
)

type client struct {
	id     string
	userID string
	conn   *websocket.Conn
	send   chan []byte
}

type Hub struct {
	log      logger.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[string]*client

	register   chan *client
	unregister chan *client
	// done se cierra cuando Run termina; después nadie lee register/unregister.
	done chan struct{}
}

// NewHub: allowedOrigins vacío acepta cualquier origen.
func NewHub(log logger.Logger, allowedOrigins []string) *Hub {
	if log == nil {
		log = logger.Nop()
	}
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &Hub{
		log: log.With(map[string]any{"component": "ws_hub"}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || origin == "" || allowed[origin]
			},
		},
		clients:    make(map[string]*client),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
	}
}

// Run procesa altas y bajas hasta que se cancela ctx.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for id, c := range h.clients {
				close(c.send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			h.log.Info("websocket hub stopped", nil)
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.id] = c
			h.mu.Unlock()
			h.log.Debug("client registered", map[string]any{"client_id": c.id, "user_id": c.userID})

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c.id]; ok {
				delete(h.clients, c.id)
				close(c.send)
			}
			h.mu.Unlock()
			h.log.Debug("client unregistered", map[string]any{"client_id": c.id})
		}
	}
}

func (h *Hub) Name() string { return "websocket" }

// Deliver empuja el mensaje a todas las conexiones del usuario.
// Que el usuario no esté conectado no es un error: la notificación queda persistida.
func (h *Hub) Deliver(_ context.Context, m notifications.Message) error {
	payload, err := json.Marshal(struct {
		Type string                `json:"type"`
		Data notifications.Message `json:"data"`
	}{Type: "notification", Data: m})
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		if c.userID != m.UserID {
			continue
		}
		select {
		case c.send <- payload:
		default:
			h.log.Warn("client send buffer full", map[string]any{"client_id": c.id, "user_id": c.userID})
		}
	}
	return nil
}

// Connected informa cuántas conexiones tiene abiertas el usuario.
func (h *Hub) Connected(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, c := range h.clients {
		if c.userID == userID {
			n++
		}
	}
	return n
}

// ServeWS va detrás de RequireAuth.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	actor := middleware.Actor(r.Context())

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade ya respondió con el error HTTP
		h.log.Warn("websocket upgrade failed", map[string]any{"error": err.Error()})
		return
	}

	c := &client{
		id:     uuid.NewString(),
		userID: actor.ID,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
	}
	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}

	go h.writePump(c)
	go h.readPump(c)
}

// readPump solo descarta lo que manda el cliente; sirve para detectar el cierre y los pong.
func (h *Hub) readPump(c *client) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Warn("websocket read error", map[string]any{"client_id": c.id, "error": err.Error()})
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
