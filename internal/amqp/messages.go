package amqp

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"budget/internal/core"
)

// TransactionRecordedMessage announces a stored transaction. It carries the
// full record so consumers need no read access to storage.
type TransactionRecordedMessage struct {
	ID        int64               `json:"id"`
	Type      string              `json:"type"`
	Category  *string             `json:"category"`
	Amount    decimal.NullDecimal `json:"amount"`
	Date      core.Date           `json:"date"`
	Timestamp time.Time           `json:"timestamp"`
}

// NewTransactionRecordedMessage builds the event for t, stamped now.
func NewTransactionRecordedMessage(t core.Transaction) *TransactionRecordedMessage {
	return &TransactionRecordedMessage{
		ID:        t.ID,
		Type:      t.Type,
		Category:  t.Category,
		Amount:    t.Amount,
		Date:      t.Date,
		Timestamp: time.Now(),
	}
}

// Transaction returns the event as a transaction. Description is not carried.
func (m *TransactionRecordedMessage) Transaction() core.Transaction {
	return core.Transaction{
		ID:       m.ID,
		Type:     m.Type,
		Category: m.Category,
		Amount:   m.Amount,
		Date:     m.Date,
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionRecordedMessageFromJSON decodes a message from JSON bytes.
func TransactionRecordedMessageFromJSON(data []byte) (*TransactionRecordedMessage, error) {
	var msg TransactionRecordedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
