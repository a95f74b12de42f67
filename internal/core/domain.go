package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type (
	// User is the per-chat-user record. Budget and Expenses are a
	// denormalized copy of the authoritative Budget and Expense records.
	User struct {
		UserID   int64
		Username string
		Budget   *Budget // nil until the first /setbudget
		Expenses []ExpenseSummary
	}

	// Budget is the spending limit for one user and calendar month.
	Budget struct {
		UserID    int64
		Username  string
		Month     Month
		Amount    decimal.Decimal
		CreatedAt time.Time
	}

	// Expense is one spending event. ID is the store identifier and is
	// never exported.
	Expense struct {
		ID        string
		UserID    int64
		Username  string
		Amount    decimal.Decimal
		Name      string
		Category  string
		Timestamp time.Time
	}

	// ExpenseSummary is the entry appended to User.Expenses.
	ExpenseSummary struct {
		Amount    decimal.Decimal
		Name      string
		Category  string
		Timestamp time.Time
	}
)

// DisplayName returns username, or "user_<id>" when the transport has none.
func DisplayName(userID int64, username string) string {
	if name := strings.TrimSpace(username); name != "" {
		return name
	}
	return fmt.Sprintf("user_%d", userID)
}

// NewUser returns a freshly registered user with an empty budget placeholder.
func NewUser(userID int64, username string) User {
	return User{
		UserID:   userID,
		Username: DisplayName(userID, username),
		Expenses: []ExpenseSummary{},
	}
}

// Summary returns the denormalized form of e stored on the user record.
func (e Expense) Summary() ExpenseSummary {
	return ExpenseSummary{
		Amount:    e.Amount,
		Name:      e.Name,
		Category:  e.Category,
		Timestamp: e.Timestamp,
	}
}

// Timestamp truncates t to the precision kept by the document store.
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
