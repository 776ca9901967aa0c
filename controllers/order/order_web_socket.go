// order_web_socket.go
package orderControllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/MoNRaSpGit/KioscoPiloto-Back/realtime"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// OrderWebSocketHandler upgrades the connection and parks it in the hub.
// Clients only listen; inbound frames are discarded until the connection
// drops.
func OrderWebSocketHandler(hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		id := hub.Register(conn)
		defer hub.Unregister(conn)
		log.Printf("🔌 Realtime client %s connected", id)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
		log.Printf("🔌 Realtime client %s disconnected", id)
	}
}
