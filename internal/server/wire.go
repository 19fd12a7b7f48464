package server

import (
	"encoding/json"
	"fmt"

	"github.com/AnahoretN/NexusGameTable-sub000/internal/table"
)

// Wire message types. ACTION flows both ways; everything else is
// server to client only.
const (
	MsgAction       = "ACTION"
	MsgState        = "STATE"
	MsgPlayerJoined = "PLAYER_JOINED"
	MsgPlayerLeft   = "PLAYER_LEFT"
	MsgError        = "ERROR"
)

// Envelope is the WebSocket frame: a type tag, the room it belongs to,
// and a type-specific JSON payload. ACTION payloads are table.Action
// records; STATE payloads are full snapshots.
type Envelope struct {
	Type    string          `json:"type"`
	RoomID  string          `json:"roomId,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// presencePayload announces a peer joining or leaving a room.
type presencePayload struct {
	PlayerID string   `json:"playerId"`
	Name     string   `json:"name,omitempty"`
	Players  []string `json:"players"`
}

// errorPayload carries a human-readable rejection back to the sender.
type errorPayload struct {
	Error string `json:"error"`
}

// encodeEnvelope marshals a payload into a ready-to-send frame.
func encodeEnvelope(msgType, roomID string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", msgType, err)
	}
	data, err := json.Marshal(Envelope{Type: msgType, RoomID: roomID, Payload: raw})
	if err != nil {
		return nil, fmt.Errorf("encode %s envelope: %w", msgType, err)
	}
	return data, nil
}

// decodeAction parses an ACTION envelope's payload.
func decodeAction(env Envelope) (table.Action, error) {
	var a table.Action
	if len(env.Payload) == 0 {
		return a, fmt.Errorf("action envelope without payload")
	}
	if err := json.Unmarshal(env.Payload, &a); err != nil {
		return a, fmt.Errorf("decode action: %w", err)
	}
	if a.Type == "" {
		return a, fmt.Errorf("action without type")
	}
	return a, nil
}
