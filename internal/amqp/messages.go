package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// BudgetAlertMessage notifies a consumer that spending on a budget
// reached its alert threshold. Amounts are in cents.
type BudgetAlertMessage struct {
	UserID     uuid.UUID `json:"user_id"`
	BudgetID   uuid.UUID `json:"budget_id"`
	CategoryID uuid.UUID `json:"category_id"`
	SpentCents int64     `json:"spent_cents"`
	LimitCents int64     `json:"limit_cents"`
	Percentage float64   `json:"percentage"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewBudgetAlertMessage(userID, budgetID, categoryID uuid.UUID, spentCents, limitCents int64, percentage float64) *BudgetAlertMessage {
	return &BudgetAlertMessage{
		UserID:     userID,
		BudgetID:   budgetID,
		CategoryID: categoryID,
		SpentCents: spentCents,
		LimitCents: limitCents,
		Percentage: percentage,
		Timestamp:  time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *BudgetAlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// BudgetAlertMessageFromJSON creates a message from JSON bytes
func BudgetAlertMessageFromJSON(data []byte) (*BudgetAlertMessage, error) {
	var msg BudgetAlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
