package handlers

import (
	"net/http"
	"sync"
	"time"

	"country-converter/internal/middleware"
	"country-converter/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

// wsClient implements realtime.Client by wrapping a websocket connection.
// Send may be called by concurrent publishers; gorilla allows one writer.
type wsClient struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsClient) Send(message []byte) bool {
	if c == nil || c.conn == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, message) == nil
}

func (c *wsClient) Close() {
	if c != nil && c.conn != nil {
		_ = c.conn.Close()
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// keepAlive pings the peer until done is closed or a ping fails.
func (c *wsClient) keepAlive(done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)) != nil {
				return
			}
		}
	}
}

// drain discards inbound frames until the peer goes away or stops answering
// pings.
func (c *wsClient) drain() {
	c.conn.SetReadLimit(1024)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.NextReader(); err != nil {
			return
		}
	}
}

// RatesFeed upgrades the connection and subscribes it to rate changes until
// the client disconnects.
// GET /api/ws/rates
func (h *Handler) RatesFeed(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WithField("error", err).Warn("websocket upgrade failed")
		return
	}

	client := &wsClient{conn: conn}
	log := h.logger.WithFields(logrus.Fields{"user_id": userID, "topic": realtime.TopicRates})
	h.hub.Register(realtime.TopicRates, client)
	log.Info("rates feed subscriber connected")

	done := make(chan struct{})
	go client.keepAlive(done)

	client.drain()

	close(done)
	h.hub.Unregister(realtime.TopicRates, client)
	client.Close()
	log.Info("rates feed subscriber disconnected")
}
