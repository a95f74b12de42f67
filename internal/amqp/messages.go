package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"budgetbot/internal/core"
)

type EventType string

const (
	EventBudgetSet    EventType = "budget_set"
	EventExpenseAdded EventType = "expense_added"
)

// LedgerEvent is published after every successful budget or expense write.
// Amounts travel as fixed two-decimal strings.
type LedgerEvent struct {
	Type      EventType `json:"type"`
	UserID    int64     `json:"uid"`
	Username  string    `json:"username"`
	Month     string    `json:"month"`
	Amount    string    `json:"amount"`
	Name      string    `json:"name,omitempty"`
	Category  string    `json:"category,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewBudgetSetEvent(b core.Budget) *LedgerEvent {
	return &LedgerEvent{
		Type:      EventBudgetSet,
		UserID:    b.UserID,
		Username:  b.Username,
		Month:     b.Month.String(),
		Amount:    core.FormatAmount(b.Amount),
		Timestamp: b.CreatedAt,
	}
}

func NewExpenseAddedEvent(e core.Expense) *LedgerEvent {
	return &LedgerEvent{
		Type:      EventExpenseAdded,
		UserID:    e.UserID,
		Username:  e.Username,
		Month:     core.MonthOf(e.Timestamp).String(),
		Amount:    core.FormatAmount(e.Amount),
		Name:      e.Name,
		Category:  e.Category,
		Timestamp: e.Timestamp,
	}
}

// ToJSON converts the event to JSON bytes
func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// LedgerEventFromJSON decodes an event and rejects unknown event types.
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var e LedgerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	switch e.Type {
	case EventBudgetSet, EventExpenseAdded:
		return &e, nil
	default:
		return nil, fmt.Errorf("unknown event type %q", e.Type)
	}
}
