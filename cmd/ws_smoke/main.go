package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"chiblets_lite/internal/logger"
	"chiblets_lite/internal/service"
	"chiblets_lite/internal/ws"

	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
)

// ws_smoke connects to a running server as an existing player, spins the
// wheel over HTTP and waits for the matching event on the socket.
func main() {
	userID := flag.Int64("user", 0, "player id to sign a token for")
	addr := flag.String("addr", "127.0.0.1:8080", "server host:port")
	flag.Parse()

	_ = godotenv.Load()
	logger.Setup(logger.Options{Level: "debug"})

	secret := os.Getenv("JWT_SECRET")
	if secret == "" || *userID == 0 {
		logger.Fatal("JWT_SECRET and -user are required")
	}
	token, err := service.NewTokenIssuer(secret, time.Hour).Issue(*userID)
	if err != nil {
		logger.Fatal("sign token", "error", err)
	}

	// use 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	conn, _, err := websocket.DefaultDialer.Dial(fmt.Sprintf("ws://%s/ws?token=%s", *addr, token), nil)
	if err != nil {
		logger.Fatal("dial", "error", err)
	}
	defer conn.Close()

	expect(conn, ws.MsgReady)

	if err := conn.WriteJSON(ws.Message{Type: ws.MsgPing}); err != nil {
		logger.Fatal("write ping", "error", err)
	}
	expect(conn, ws.MsgPong)

	req, _ := http.NewRequest(http.MethodPost, fmt.Sprintf("http://%s/api/v1/spin", *addr), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		logger.Fatal("spin request", "error", err)
	}
	resp.Body.Close()
	logger.Info("spin response", "status", resp.StatusCode)
	if resp.StatusCode != http.StatusOK {
		logger.Warn("spin rejected, no event expected")
		return
	}

	msg := expect(conn, service.EventSpin)
	logger.Info("smoke test finished", "event", msg.Type, "data", string(msg.Data))
}

func expect(conn *websocket.Conn, typ string) ws.Message {
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		_ = conn.SetReadDeadline(deadline)
		var msg ws.Message
		if err := conn.ReadJSON(&msg); err != nil {
			logger.Fatal("read", "want", typ, "error", err)
		}
		logger.Debug("received", "type", msg.Type)
		if msg.Type == typ {
			return msg
		}
	}
	logger.Fatal("timed out", "want", typ)
	return ws.Message{}
}
