package realtime

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// JWT middleware already gated this route; the origin check adds
		// nothing for a same-site back office.
		return true
	},
}

// HandleWebSocket upgrades the request and attaches the client to the
// event feed until the peer goes away.
func HandleWebSocket(c echo.Context, hub *Hub) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := NewClient(conn)
	hub.register <- client

	conn.WriteJSON(Event{
		Type:    "connected",
		Message: "Event feed connected",
	})

	go func() {
		defer func() {
			hub.unregister <- client
		}()

		// The feed is one-way; reads only detect disconnects.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()

	return nil
}
