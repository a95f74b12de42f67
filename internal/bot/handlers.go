package bot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"budgetbot/internal/core"
	"budgetbot/internal/log"
	"budgetbot/internal/report"
	"budgetbot/internal/services"
)

func (r *Router) start(ctx context.Context, req Request) error {
	_, created, err := r.ledger.Register(ctx, req.UserID, req.Username)
	if err != nil {
		return err
	}
	// greet with the current transport name, which may differ from the stored one
	return r.reply(ctx, req.ChatID, welcomeMessage(core.DisplayName(req.UserID, req.Username), created))
}

func (r *Router) setBudget(ctx context.Context, req Request) error {
	arg, err := core.FirstArg(req.Args)
	if err != nil {
		return usage(usageSetBudget, err)
	}
	amount, err := core.ParseAmount(arg)
	if err != nil {
		return usage(usageSetBudget, err)
	}

	b, err := r.ledger.SetBudget(ctx, req.UserID, req.Username, amount)
	if err != nil {
		return err
	}
	return r.reply(ctx, req.ChatID, budgetSetMessage(b))
}

func (r *Router) addExpense(ctx context.Context, req Request) error {
	args, err := core.ParseExpenseArgs(req.Args)
	if err != nil {
		return usage(usageAdd, err)
	}

	e, err := r.ledger.AddExpense(ctx, req.UserID, req.Username, args)
	if err != nil {
		return err
	}
	log.FromContext(ctx).InfoContext(ctx, "Expense added",
		log.FieldExpenseID, e.ID,
		log.FieldAmount, core.FormatAmount(e.Amount))
	return r.reply(ctx, req.ChatID, expenseAddedMessage(e))
}

func (r *Router) balance(ctx context.Context, req Request) error {
	b, err := r.ledger.Balance(ctx, req.UserID, r.ledger.CurrentMonth())
	if errors.Is(err, services.ErrNoBudget) {
		return r.reply(ctx, req.ChatID, msgNoBudget)
	}
	if err != nil {
		return err
	}
	return r.reply(ctx, req.ChatID, balanceMessage(b))
}

func parseMonthArg(args, usageText string) (core.Month, error) {
	arg, err := core.FirstArg(args)
	if err != nil {
		return core.Month{}, usage(usageText, err)
	}
	month, err := core.ParseMonth(arg)
	if err != nil {
		return core.Month{}, usage(usageText, err)
	}
	return month, nil
}

func (r *Router) view(ctx context.Context, req Request) error {
	month, err := parseMonthArg(req.Args, usageView)
	if err != nil {
		return err
	}

	list, err := r.ledger.MonthExpenses(ctx, req.UserID, month)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return r.reply(ctx, req.ChatID, noExpensesMessage(month))
	}
	return r.reply(ctx, req.ChatID, listingMessage(month, list))
}

// export writes the month's expenses to a CSV file inside a private
// temporary directory, sends it and removes the directory.
func (r *Router) export(ctx context.Context, req Request) error {
	month, err := parseMonthArg(req.Args, usageExport)
	if err != nil {
		return err
	}

	list, err := r.ledger.MonthExpenses(ctx, req.UserID, month)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return r.reply(ctx, req.ChatID, nothingToExportMessage(month))
	}

	dir, err := os.MkdirTemp(r.exportDir, "export-*")
	if err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			log.FromContext(ctx).WarnContext(ctx, "Failed to remove export dir", "dir", dir, log.FieldError, err)
		}
	}()

	path := filepath.Join(dir, report.FileName(req.UserID, month))
	if err := writeExport(path, list); err != nil {
		return err
	}

	if err := r.sender.SendDocument(ctx, req.ChatID, path); err != nil {
		return &sendError{err: err}
	}
	return nil
}

func writeExport(path string, list []core.Expense) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := report.WriteCSV(f, list); err != nil {
		f.Close()
		return fmt.Errorf("write export: %w", err)
	}
	return f.Close()
}

func (r *Router) help(ctx context.Context, req Request) error {
	return r.reply(ctx, req.ChatID, helpMessage())
}

func (r *Router) unknown(ctx context.Context, req Request) error {
	return r.reply(ctx, req.ChatID, unknownMessage())
}
