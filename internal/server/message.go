package server

import (
	"encoding/json"
	"time"

	"github.com/lox/tarotshuffle/internal/deckstack"
	"github.com/lox/tarotshuffle/tarot"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a message stamped with at
func NewMessage(at time.Time, messageType MessageType, data any) (*Message, error) {
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		raw = b
	}
	return &Message{
		Type:      messageType,
		Data:      raw,
		Timestamp: at,
	}, nil
}

// Client → Server Messages

type PointerData struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type HoverData struct {
	Ms int64 `json:"ms"`
}

type ActionData struct {
	Action     Action   `json:"action"`
	Pile       string   `json:"pile,omitempty"`
	InstanceID string   `json:"instanceId,omitempty"`
	X          *float64 `json:"x,omitempty"`
	Y          *float64 `json:"y,omitempty"`
	Rotation   float64  `json:"rotation,omitempty"`
}

// Server → Client Messages

type WelcomeData struct {
	SessionID string `json:"sessionId"`
}

type StateData struct {
	Table      deckstack.Snapshot    `json:"table"`
	SessionLog []deckstack.DrawnCard `json:"sessionLog"`
}

type TickData struct {
	Deck    tarot.Sequence `json:"deck"`
	Running bool           `json:"running"`
}

// NoticeData carries the shuffle notification. An empty message clears it.
type NoticeData struct {
	Message string `json:"message"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
