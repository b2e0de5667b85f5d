package websocket

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Handler upgrades requests to live feed subscriptions
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewHandler creates a new WebSocket handler. allowedOrigin is the site's
// base URL; browsers on other origins are refused. Empty allows any origin.
func NewHandler(hub *Hub, allowedOrigin string, logger zerolog.Logger) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigin),
		},
		logger: logger,
	}
}

func originChecker(allowed string) func(r *http.Request) bool {
	if allowed == "" {
		return func(*http.Request) bool { return true }
	}
	want, err := url.Parse(allowed)
	if err != nil {
		return func(*http.Request) bool { return false }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		got, err := url.Parse(origin)
		return err == nil && got.Scheme == want.Scheme && got.Host == want.Host
	}
}

// HandleConnection godoc
// @Summary Subscribe to live notices
// @Description Upgrades to a WebSocket that receives a notice.created event whenever a notice is posted
// @Tags notices, websocket
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Failure 400 {string} string "Not a WebSocket handshake"
// @Router /notices/live [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		h.logger.Debug().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := newClient(h.hub, conn, h.logger)
	select {
	case h.hub.register <- client:
	case <-h.hub.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
