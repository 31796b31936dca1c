package domain

import (
	"encoding/json"
	"time"
)

// HistoryEntry records one completed backend call.
type HistoryEntry struct {
	ID         string          `json:"id"`
	Operation  string          `json:"operation"`
	JobID      string          `json:"job_id,omitempty"`
	Request    json.RawMessage `json:"request,omitempty"`
	Response   json.RawMessage `json:"response,omitempty"`
	StatusCode int             `json:"status_code"`
	Error      string          `json:"error,omitempty"`
	RecordedAt time.Time       `json:"recorded_at"`
}

// Failed reports whether the call ended in an error.
func (e HistoryEntry) Failed() bool {
	return e.Error != ""
}
