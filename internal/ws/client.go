package ws

import (
	"encoding/json"
	"time"

	"chiblets_lite/internal/logger"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 30 * time.Second
	pingPeriod     = 25 * time.Second
	maxMessageSize = 4096
	sendBuffer     = 64
)

type Client struct {
	UserID int64
	Conn   *websocket.Conn
	Send   chan []byte

	hub *Hub
}

func NewClient(userID int64, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, sendBuffer),
		hub:    hub,
	}
}

// Run registers the client and blocks until the connection closes.
func (c *Client) Run() {
	c.hub.register(c)
	go c.writePump()

	if msg, err := encode(MsgReady, nil); err == nil {
		c.Send <- msg
	}
	c.readPump()
}

// readPump handles client frames until the connection drops.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("ws read error", "user_id", c.UserID, "error", err)
			}
			return
		}
		_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))

		var in Message
		if err := json.Unmarshal(raw, &in); err != nil {
			c.reply(MsgError, map[string]string{"message": "invalid message"})
			continue
		}
		switch in.Type {
		case MsgPing:
			c.reply(MsgPong, nil)
		default:
			c.reply(MsgError, map[string]string{"message": "unknown message type"})
		}
	}
}

func (c *Client) reply(typ string, data any) {
	msg, err := encode(typ, data)
	if err != nil {
		return
	}
	select {
	case c.Send <- msg:
	default:
	}
}

// writePump owns every write to the connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Warn("ws write error", "user_id", c.UserID, "error", err)
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
