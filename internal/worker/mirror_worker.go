// Package worker mirrors ledger events into the spreadsheet.
package worker

import (
	"context"
	"fmt"

	"budgetbot/internal/amqp"
	"budgetbot/internal/log"
	"budgetbot/internal/sheets"
)

// MirrorWorker appends one spreadsheet row per ledger event.
type MirrorWorker struct {
	sheets sheets.LedgerWriter
	logger *log.Logger
}

func NewMirrorWorker(writer sheets.LedgerWriter, logger *log.Logger) *MirrorWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &MirrorWorker{
		sheets: writer,
		logger: logger.WithComponent(log.ComponentWorker),
	}
}

// HandleLedgerEvent is passed to amqp.Client.ConsumeLedgerEvents. A returned
// error makes the consumer requeue the message.
func (w *MirrorWorker) HandleLedgerEvent(ctx context.Context, ev *amqp.LedgerEvent) error {
	logger := w.logger.With(
		log.FieldEventType, string(ev.Type),
		log.FieldUserID, ev.UserID,
		log.FieldMonth, ev.Month,
	)

	var (
		ref string
		err error
	)
	switch ev.Type {
	case amqp.EventExpenseAdded:
		ref, err = w.sheets.AppendExpense(ctx, ExpenseRow(ev))
	case amqp.EventBudgetSet:
		ref, err = w.sheets.AppendBudget(ctx, BudgetRow(ev))
	default:
		logger.Warn("Skipping unknown ledger event")
		return nil
	}
	if err != nil {
		logger.Error("Failed to mirror ledger event", log.FieldError, err)
		return fmt.Errorf("mirror %s: %w", ev.Type, err)
	}

	logger.Info("Mirrored ledger event", "sheets_ref", ref, log.FieldAmount, ev.Amount)
	return nil
}

func ExpenseRow(ev *amqp.LedgerEvent) sheets.ExpenseRow {
	return sheets.ExpenseRow{
		Date:     ev.Timestamp,
		UserID:   ev.UserID,
		Username: ev.Username,
		Amount:   ev.Amount,
		Name:     ev.Name,
		Category: ev.Category,
	}
}

func BudgetRow(ev *amqp.LedgerEvent) sheets.BudgetRow {
	return sheets.BudgetRow{
		Month:    ev.Month,
		UserID:   ev.UserID,
		Username: ev.Username,
		Amount:   ev.Amount,
		SetAt:    ev.Timestamp,
	}
}
