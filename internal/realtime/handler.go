package realtime

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
	"github.com/aryan0dhankhar/hrportal/internal/security/auth"
)

const (
	pingInterval = 15 * time.Second
	pongWait     = 2 * pingInterval
	writeWait    = 5 * time.Second
	sendBuffer   = 16
	maxInbound   = 4096
)

// Identifier authenticates the upgrade request the same way as any other
// authenticated route.
type Identifier interface {
	Identify(r *http.Request, cookies ...string) (auth.Identity, error)
}

// Handler serves the authenticated and the public websocket endpoints.
type Handler struct {
	hub            *Hub
	ident          Identifier
	allowedOrigins []string
	publicEnabled  bool
	logger         *slog.Logger
}

func NewHandler(hub *Hub, ident Identifier, allowedOrigins []string, publicEnabled bool, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		hub:            hub,
		ident:          ident,
		allowedOrigins: allowedOrigins,
		publicEnabled:  publicEnabled,
		logger:         logger.With(slog.String("component", "realtime")),
	}
}

type client struct {
	conn     *websocket.Conn
	send     chan []byte
	rooms    []string
	identity *auth.Identity
}

// upgrader is initialized per-request to use instance's allowed origins
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				// Allow requests with no origin (e.g., non-browser clients)
				return true
			}
			for _, allowed := range h.allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			h.logger.Warn("websocket origin rejected", slog.String("origin", origin))
			return false
		},
	}
}

// ServeHTTP handles GET /ws. The connection joins its organization room and
// its own user room.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := h.ident.Identify(r, auth.HRCookie, auth.EmployeeCookie)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "Unauthorized access, please log in",
			"gologin": true,
		})
		return
	}
	h.serve(w, r, &id, OrgRoom(id.TenantID), UserRoom(id.SubjectID))
}

// ServePublic handles GET /ws/public for anonymous clients.
func (h *Handler) ServePublic(w http.ResponseWriter, r *http.Request) {
	if !h.publicEnabled {
		http.NotFound(w, r)
		return
	}
	h.serve(w, r, nil, PublicRoom)
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, id *auth.Identity, rooms ...string) {
	upgrader := h.getUpgrader()
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	c := &client{conn: ws, send: make(chan []byte, sendBuffer), rooms: rooms, identity: id}
	h.hub.join(c)
	h.logger.Debug("websocket connected", slog.Any("rooms", rooms))

	done := make(chan struct{})
	go h.writePump(c, done)
	h.readPump(r, c)

	h.hub.leave(c)
	close(done)
	_ = ws.Close()
}

// readPump consumes client frames until the connection closes. The only
// message acted on is an HR dashboard asking its organization to refresh.
func (h *Handler) readPump(r *http.Request, c *client) {
	c.conn.SetReadLimit(maxInbound)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket closed", slog.String("error", err.Error()))
			}
			return
		}
		var msg inbound
		if json.Unmarshal(data, &msg) != nil {
			continue
		}
		if msg.Event == inboundDashboardRefresh && c.identity != nil && c.identity.Role == domain.RoleHRAdmin {
			h.hub.Notify(r.Context(), OrgRoom(c.identity.TenantID), EventDashboardRefresh, nil)
		}
	}
}

func (h *Handler) writePump(c *client, done <-chan struct{}) {
	// Heartbeat ping to keep connection alive
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				_ = c.conn.Close()
				return
			}
		case <-ticker.C:
			_ = c.conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(writeWait))
		case <-done:
			return
		}
	}
}
