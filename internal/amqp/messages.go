package amqp

import (
	"encoding/json"
	"time"

	"finlite/internal/core"
)

// LedgerSyncMessage asks the sync worker to mirror one record to the ledger
// sheet. It carries only the record's kind and id; the worker fetches the
// full row from the database.
type LedgerSyncMessage struct {
	Kind      core.EntryType `json:"kind"`
	ID        int64          `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
}

// NewLedgerSyncMessage creates a sync message for one record.
func NewLedgerSyncMessage(kind core.EntryType, id int64) *LedgerSyncMessage {
	return &LedgerSyncMessage{
		Kind:      kind,
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerSyncMessageFromJSON creates a message from JSON bytes
func LedgerSyncMessageFromJSON(data []byte) (*LedgerSyncMessage, error) {
	var msg LedgerSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if err := msg.Kind.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}
