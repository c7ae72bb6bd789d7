package model

import (
	"encoding/json"
	"time"
)

// Event is a persisted audit record of a mutation, mirroring what is
// published to NATS.
type Event struct {
	ID        int64           `json:"id"`
	Topic     string          `json:"topic"`
	NoteID    int64           `json:"note_id,omitempty"`
	UserID    int64           `json:"user_id"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}
