package v1

import (
	"net/http"

	"github.com/clinicapp/clinic-backend/internal/realtime"
	"github.com/clinicapp/clinic-backend/pkg/auth"
	"github.com/clinicapp/clinic-backend/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins; tighten in production.
	},
}

// WSHandler upgrades authenticated connections and binds them to the
// caller's live notification channel. The token is validated once at
// handshake time; messages pushed afterwards trust that identity.
type WSHandler struct {
	hub     *realtime.Hub
	jwtMgr  *auth.JWTManager
	metrics *metrics.Collector
	log     *zap.Logger
}

func NewWSHandler(hub *realtime.Hub, jwtMgr *auth.JWTManager, m *metrics.Collector, log *zap.Logger) *WSHandler {
	return &WSHandler{hub: hub, jwtMgr: jwtMgr, metrics: m, log: log}
}

// Connect handles GET /ws?token=<access token>. Browsers cannot set headers
// on websocket handshakes, so the bearer token arrives as a query parameter.
func (h *WSHandler) Connect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		respondError(c, http.StatusUnauthorized, "missing token")
		return
	}

	claims, err := h.jwtMgr.ValidateAccessToken(token)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &realtime.Client{
		Key:  claims.Email,
		Send: make(chan []byte, 256),
	}

	h.hub.Register(client)
	h.metrics.WebsocketConnections.Inc()

	go h.writePump(client, ws)
	go h.readPump(client, ws)
}

// readPump drains inbound frames; the live channel is push-only, so client
// messages are discarded. Its real job is noticing the close.
func (h *WSHandler) readPump(client *realtime.Client, ws *websocket.Conn) {
	defer func() {
		h.hub.Unregister(client)
		h.metrics.WebsocketConnections.Dec()
		ws.Close()
	}()

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *WSHandler) writePump(client *realtime.Client, ws *websocket.Conn) {
	defer ws.Close()

	for message := range client.Send {
		if err := ws.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}
