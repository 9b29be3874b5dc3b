package amqp

import (
	"encoding/json"
	"time"
)

// InvoiceSyncMessage is a lightweight notification that a locally saved
// invoice needs mirroring to the spreadsheet. Only the row ID travels on
// the wire; the worker fetches the full invoice from the database.
type InvoiceSyncMessage struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewInvoiceSyncMessage(id int64) *InvoiceSyncMessage {
	return &InvoiceSyncMessage{
		ID:        id,
		Timestamp: time.Now(),
	}
}

func (m *InvoiceSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func InvoiceSyncMessageFromJSON(data []byte) (*InvoiceSyncMessage, error) {
	var msg InvoiceSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
