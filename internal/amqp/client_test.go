package amqp

import (
	"testing"
	"time"
)

func TestNewRecordSyncMessage(t *testing.T) {
	msg := NewRecordSyncMessage("MV Rhine Star", "1042")

	if msg.ID == "" {
		t.Error("NewRecordSyncMessage() ID should not be empty")
	}
	if msg.Vessel != "MV Rhine Star" {
		t.Errorf("NewRecordSyncMessage() Vessel = %v, want MV Rhine Star", msg.Vessel)
	}
	if msg.RecordID != "1042" {
		t.Errorf("NewRecordSyncMessage() RecordID = %v, want 1042", msg.RecordID)
	}
	if msg.Timestamp.IsZero() {
		t.Error("NewRecordSyncMessage() Timestamp should not be zero")
	}
	if time.Since(msg.Timestamp) > time.Second {
		t.Error("NewRecordSyncMessage() Timestamp should be recent")
	}
}

func TestNewRecordSyncMessageUniqueIDs(t *testing.T) {
	a := NewRecordSyncMessage("MV Rhine Star", "")
	b := NewRecordSyncMessage("MV Rhine Star", "")
	if a.ID == b.ID {
		t.Errorf("message IDs should be unique, both were %q", a.ID)
	}
}

func TestRecordSyncMessage_JSON(t *testing.T) {
	timestamp := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	msg := &RecordSyncMessage{
		ID:        "af2c1c3e-0000-4000-8000-000000000001",
		Vessel:    "MV Rhine Star",
		RecordID:  "1042",
		Timestamp: timestamp,
	}

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsedMsg, err := RecordSyncMessageFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("RecordSyncMessageFromJSON() error = %v", err)
	}

	if parsedMsg.ID != msg.ID {
		t.Errorf("Parsed ID = %v, want %v", parsedMsg.ID, msg.ID)
	}
	if parsedMsg.Vessel != msg.Vessel {
		t.Errorf("Parsed Vessel = %v, want %v", parsedMsg.Vessel, msg.Vessel)
	}
	if parsedMsg.RecordID != msg.RecordID {
		t.Errorf("Parsed RecordID = %v, want %v", parsedMsg.RecordID, msg.RecordID)
	}
	if !parsedMsg.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("Parsed Timestamp = %v, want %v", parsedMsg.Timestamp, msg.Timestamp)
	}
}

func TestRecordSyncMessage_InvalidJSON(t *testing.T) {
	invalidJSON := []byte(`{"vessel": 42}`)

	_, err := RecordSyncMessageFromJSON(invalidJSON)
	if err == nil {
		t.Error("RecordSyncMessageFromJSON() should fail with invalid JSON")
	}
}
