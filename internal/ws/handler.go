package ws

import (
	"net/http"

	"chiblets_lite/internal/http/middleware"
	"chiblets_lite/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// HandleWS upgrades an authenticated request to the event feed. It must be
// mounted behind middleware.JWT. An empty allowedOrigin accepts any origin.
func HandleWS(hub *Hub, allowedOrigin string) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "" {
				return true
			}
			return r.Header.Get("Origin") == allowedOrigin
		},
	}

	return func(c *gin.Context) {
		userID := c.GetInt64(middleware.UserIDKey)
		if userID == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("ws upgrade error", "user_id", userID, "error", err)
			return
		}

		go NewClient(userID, conn, hub).Run()
	}
}
