package websocket

import "encoding/json"

// Control message types exchanged with clients. Job change events reuse the
// event name as the message type ("new-job", "job-changed", "job-removed").
const (
	MessageTypeJoinUser = "join-user"
	MessageTypeJoined   = "joined"
	MessageTypeError    = "error"
)

// Message is the wire envelope for the realtime channel.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func NewMessage(msgType string, payload interface{}) (*Message, error) {
	if payload == nil {
		return &Message{Type: msgType}, nil
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{Type: msgType, Payload: payloadBytes}, nil
}

type JoinUserPayload struct {
	UserID string `json:"userId"`
}

type JoinedPayload struct {
	UserID string `json:"userId"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
