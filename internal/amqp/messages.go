package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// RecordSyncMessage asks the worker to refresh the snapshot for one vessel.
// Only identifiers travel on the wire, the worker re-reads the backend.
type RecordSyncMessage struct {
	ID        string    `json:"id"`
	Vessel    string    `json:"vessel"`
	RecordID  string    `json:"recordId"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRecordSyncMessage creates a sync message for a vessel and the record
// that changed. RecordID may be empty for a full refresh.
func NewRecordSyncMessage(vessel, recordID string) *RecordSyncMessage {
	return &RecordSyncMessage{
		ID:        uuid.NewString(),
		Vessel:    vessel,
		RecordID:  recordID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *RecordSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FromJSON creates a message from JSON bytes
func RecordSyncMessageFromJSON(data []byte) (*RecordSyncMessage, error) {
	var msg RecordSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
