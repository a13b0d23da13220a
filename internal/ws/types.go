package ws

import (
	"encoding/json"
	"time"
)

const (
	// client - server
	MsgPing = "ping"

	// server - client
	MsgReady = "ready"
	MsgPong  = "pong"
	MsgError = "error"
)

// Message is the envelope for every frame in both directions. Game events
// use the event name as Type.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
	At   time.Time       `json:"at"`
}

func encode(typ string, data any) ([]byte, error) {
	msg := Message{Type: typ, At: time.Now().UTC()}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		msg.Data = raw
	}
	return json.Marshal(msg)
}
