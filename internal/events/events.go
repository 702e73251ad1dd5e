// Package events fans pipeline progress out to SSE subscribers on the
// trigger surface.
package events

import (
	"encoding/json"
	"time"
)

type Event struct {
	Type      string          `json:"type"`
	At        time.Time       `json:"at"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// New builds an event envelope stamped with the current UTC time.
func New(reqID, typ string, data any) Event {
	var raw json.RawMessage
	if data != nil {
		raw, _ = json.Marshal(data)
	}
	return Event{
		Type:      typ,
		At:        time.Now().UTC(),
		RequestID: reqID,
		Data:      raw,
	}
}

// Encode renders the event as an SSE data payload.
func (e Event) Encode() string {
	b, _ := json.Marshal(e)
	return string(b)
}
