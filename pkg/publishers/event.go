package publishers

import (
	"encoding/json"
	"time"
)

// Event types.
const (
	EventItemSaved           = "item_saved"
	EventGenerationCompleted = "generation_completed"
	EventGenerationFailed    = "generation_failed"
)

// Event represents the payload published downstream.
type Event struct {
	Type       string          `json:"type"`
	Operation  string          `json:"operation"`
	JobID      string          `json:"job_id,omitempty"`
	ItemType   string          `json:"item_type,omitempty"`
	Request    json.RawMessage `json:"request,omitempty"`
	Response   json.RawMessage `json:"response,omitempty"`
	StatusCode int             `json:"status_code,omitempty"`
	Error      string          `json:"error,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// NewEvent constructs an Event stamped with the current time.
func NewEvent(typ, operation string) Event {
	return Event{
		Type:       typ,
		Operation:  operation,
		OccurredAt: time.Now().UTC(),
	}
}

// Attributes are the routing attributes attached to queue/topic messages.
func (e Event) Attributes() map[string]string {
	attrs := map[string]string{
		"event_type": e.Type,
		"operation":  e.Operation,
	}
	if e.ItemType != "" {
		attrs["item_type"] = e.ItemType
	}
	if e.JobID != "" {
		attrs["job_id"] = e.JobID
	}
	return attrs
}
