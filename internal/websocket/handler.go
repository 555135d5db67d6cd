package websocket

import (
	"encoding/json"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs registers the connection and blocks until the peer goes away.
func ServeWs(hub *Hub, c *websocket.Conn, principalID uuid.UUID, turn TurnFunc) {
	client := &Client{Hub: hub, Conn: c, PrincipalID: principalID, Send: make(chan []byte, 256), turn: turn}
	client.Hub.register <- client

	go client.writePump()
	client.readPump()
}

func marshalFrame(f Frame) ([]byte, error) {
	return json.Marshal(f)
}
