// Package store declares the persistence ports used by the ledger service.
// Adapters live in the mongo, sqlite and memory subpackages.
package store

import (
	"context"
	"errors"

	"budgetbot/internal/core"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned by lookups that match no record.
var ErrNotFound = errors.New("not found")

// Ports for outbound adapters.
type (
	UserRegistry interface {
		// FindUser returns ErrNotFound for an unknown user id.
		FindUser(ctx context.Context, userID int64) (core.User, error)
		CreateUser(ctx context.Context, u core.User) error
		// SetUserBudget overwrites the denormalized budget snapshot.
		SetUserBudget(ctx context.Context, userID int64, b core.Budget) error
		// AppendUserExpense pushes onto the denormalized expense list.
		AppendUserExpense(ctx context.Context, userID int64, s core.ExpenseSummary) error
	}

	BudgetLedger interface {
		// UpsertBudget inserts or replaces the budget keyed by (UserID, Month).
		UpsertBudget(ctx context.Context, b core.Budget) error
		// FindBudget returns ErrNotFound when no budget is set for the month.
		FindBudget(ctx context.Context, userID int64, month core.Month) (core.Budget, error)
	}

	ExpenseLog interface {
		InsertExpense(ctx context.Context, e core.Expense) (id string, err error)
		// SumExpenses totals the user's expenses in [month.Start, month.End).
		SumExpenses(ctx context.Context, userID int64, month core.Month) (decimal.Decimal, error)
		// ListExpenses returns the user's expenses in the month in store-natural order.
		ListExpenses(ctx context.Context, userID int64, month core.Month) ([]core.Expense, error)
	}

	// Pinger checks connectivity to the backing store.
	Pinger interface {
		Ping(ctx context.Context) error
	}

	// Store is the full set of operations a backend provides.
	Store interface {
		UserRegistry
		BudgetLedger
		ExpenseLog
		Pinger
	}
)
