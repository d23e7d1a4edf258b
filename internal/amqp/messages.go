package amqp

import (
	"encoding/json"
	"time"
)

// MonthlySummaryMessage carries one owner's closed-month figures to
// downstream consumers (mailers, exporters). Amounts are cents.
type MonthlySummaryMessage struct {
	Owner        string    `json:"owner"`
	Year         int       `json:"year"`
	Month        int       `json:"month"`
	IncomeCents  int64     `json:"incomeCents"`
	ExpenseCents int64     `json:"expenseCents"`
	BalanceCents int64     `json:"balanceCents"`
	OverLimit    bool      `json:"overLimit"`
	OverageCents int64     `json:"overageCents"`
	TopCategory  string    `json:"topCategory,omitempty"`
	GeneratedAt  time.Time `json:"generatedAt"`
}

// ToJSON converts the message to JSON bytes
func (m *MonthlySummaryMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// MonthlySummaryMessageFromJSON creates a message from JSON bytes
func MonthlySummaryMessageFromJSON(data []byte) (*MonthlySummaryMessage, error) {
	var msg MonthlySummaryMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
