package websocket

import (
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 * 1024
)

// TurnFunc answers one inbound text message of the principal.
type TurnFunc func(principalID uuid.UUID, payload []byte) Frame

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	Hub         *Hub
	Conn        *websocket.Conn
	PrincipalID uuid.UUID

	// Buffered channel of outbound messages.
	Send chan []byte

	turn TurnFunc
}

// readPump runs one turn per inbound message. Turns of a connection are
// sequential.
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		msgType, payload, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("WS", "Unexpected close", map[string]interface{}{
					"provider_id": c.PrincipalID.String(),
					"error":       err.Error(),
				})
			}
			return
		}
		if msgType != websocket.TextMessage || c.turn == nil {
			continue
		}

		frame := c.turn(c.PrincipalID, payload)
		data, err := marshalFrame(frame)
		if err != nil {
			continue
		}
		c.Send <- data
		// the reply may have arrived while the turn was running
		_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
