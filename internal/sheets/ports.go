// Package sheets declares the spreadsheet mirror ports. The Google adapter
// lives in sheets/google, an in-memory one in sheets/memory.
package sheets

import (
	"context"
	"time"
)

type (
	// ExpenseRow is one line of the expenses sheet:
	// Date | UID | User | Amount | Name | Category.
	ExpenseRow struct {
		Date     time.Time
		UserID   int64
		Username string
		Amount   string
		Name     string
		Category string
	}

	// BudgetRow is one line of the budgets sheet:
	// Month | UID | User | Budget | Set at.
	BudgetRow struct {
		Month    string
		UserID   int64
		Username string
		Amount   string
		SetAt    time.Time
	}
)

// LedgerWriter appends mirrored ledger rows. rowRef identifies the written
// range for logging.
type LedgerWriter interface {
	AppendExpense(ctx context.Context, row ExpenseRow) (rowRef string, err error)
	AppendBudget(ctx context.Context, row BudgetRow) (rowRef string, err error)
}
