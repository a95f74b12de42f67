package worker

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"budgetbot/internal/amqp"
	"budgetbot/internal/core"
	"budgetbot/internal/log"
	"budgetbot/internal/sheets"
	"budgetbot/internal/sheets/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (failingWriter) AppendExpense(context.Context, sheets.ExpenseRow) (string, error) {
	return "", errors.New("quota exceeded")
}

func (failingWriter) AppendBudget(context.Context, sheets.BudgetRow) (string, error) {
	return "", errors.New("quota exceeded")
}

func quietLogger() *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Output = &bytes.Buffer{}
	return log.New(cfg)
}

func TestHandleLedgerEvent(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	w := NewMirrorWorker(mem, quietLogger())
	at := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)

	budget := amqp.NewBudgetSetEvent(core.Budget{
		UserID: 42, Username: "alice", Month: core.NewMonth(2024, 5),
		Amount: decimal.NewFromInt(500), CreatedAt: at,
	})
	expense := amqp.NewExpenseAddedEvent(core.Expense{
		UserID: 42, Username: "alice", Amount: decimal.RequireFromString("12.5"),
		Name: "Lunch", Category: "Food", Timestamp: at,
	})

	require.NoError(t, w.HandleLedgerEvent(ctx, budget))
	require.NoError(t, w.HandleLedgerEvent(ctx, expense))

	require.Len(t, mem.Budgets(), 1)
	assert.Equal(t, sheets.BudgetRow{Month: "2024-05", UserID: 42, Username: "alice", Amount: "500.00", SetAt: at}, mem.Budgets()[0])

	require.Len(t, mem.Expenses(), 1)
	assert.Equal(t, sheets.ExpenseRow{Date: at, UserID: 42, Username: "alice", Amount: "12.50", Name: "Lunch", Category: "Food"}, mem.Expenses()[0])
}

func TestHandleLedgerEvent_UnknownTypeIsDropped(t *testing.T) {
	mem := memory.New()
	w := NewMirrorWorker(mem, quietLogger())

	err := w.HandleLedgerEvent(context.Background(), &amqp.LedgerEvent{Type: "budget_deleted"})
	require.NoError(t, err)
	assert.Empty(t, mem.Budgets())
	assert.Empty(t, mem.Expenses())
}

func TestHandleLedgerEvent_WriterErrorRequeues(t *testing.T) {
	w := NewMirrorWorker(failingWriter{}, quietLogger())

	err := w.HandleLedgerEvent(context.Background(), &amqp.LedgerEvent{Type: amqp.EventExpenseAdded, UserID: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mirror expense_added")
	assert.Contains(t, err.Error(), "quota exceeded")
}
