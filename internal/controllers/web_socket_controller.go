package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"anopog_wbs/internal/realtime"
)

// upgrader configures the WebSocket connection.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all for development (restrict in production!)
	},
}

// WSController attaches dashboard clients to the realtime hub.
type WSController struct {
	hub *realtime.Hub
}

func NewWSController(hub *realtime.Hub) *WSController {
	return &WSController{hub: hub}
}

// HandleNotificationsWebSocket upgrades the connection and keeps it
// subscribed until the client disconnects. Subscribers only receive; any
// message they send is ignored.
func (wc *WSController) HandleNotificationsWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Error("Failed to upgrade WebSocket connection.")
		return
	}
	defer conn.Close()

	wc.hub.Subscribe(conn)
	defer wc.hub.Unsubscribe(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.Info("Dashboard WebSocket closed.")
			} else {
				logrus.WithError(err).Warn("Error reading from dashboard WebSocket.")
			}
			return
		}
	}
}
