package websocket

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs streams notifications for userID until the peer disconnects.
func ServeWs(hub *Hub, c *websocket.Conn, userID uuid.UUID) {
	serve(NewClient(hub, c, userID, "", false))
}

// ServeRoom subscribes the connection to one group room.
func ServeRoom(hub *Hub, c *websocket.Conn, userID uuid.UUID, room string, muted bool) {
	serve(NewClient(hub, c, userID, room, muted))
}

func serve(client *Client) {
	client.Hub.Register(client)

	go client.writePump()
	client.readPump()
}
