package websocket

import "encoding/json"

const (
	actionMove       = "move"
	actionBoardState = "boardState"
	actionReset      = "reset"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}
