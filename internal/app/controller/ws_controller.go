package controller

import (
	"net/http"

	"github.com/adeliap/rotiku-backend/internal/errors"
	"github.com/adeliap/rotiku-backend/internal/middleware"
	ws "github.com/adeliap/rotiku-backend/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WSController upgrades kasir and admin sessions onto the order feed.
type WSController struct {
	hub            *ws.Hub
	allowedOrigins map[string]bool
	upgrader       websocket.Upgrader
}

func NewWSController(hub *ws.Hub, allowedOrigins []string) *WSController {
	ctrl := &WSController{
		hub:            hub,
		allowedOrigins: make(map[string]bool, len(allowedOrigins)),
	}
	for _, origin := range allowedOrigins {
		ctrl.allowedOrigins[origin] = true
	}

	ctrl.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				// Non-browser clients (kitchen display boards) send no Origin.
				return true
			}
			return ctrl.allowedOrigins[origin]
		},
	}

	return ctrl
}

// Connect upgrades the request and streams order events to the session.
// The token arrives as a query parameter but is never logged.
// GET /api/v1/kasir/ws
func (ctrl *WSController) Connect(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		errors.Unauthorized(c, "Silakan login terlebih dahulu")
		return
	}

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade to WebSocket", err, nil)
		return
	}

	client := &ws.Client{
		Hub:    ctrl.hub,
		Conn:   &ws.Conn{Conn: conn},
		UserID: userID,
		Send:   make(chan []byte, 256),
	}

	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Info("Back-office feed connected", map[string]interface{}{
		"user_id": userID,
	})
}
