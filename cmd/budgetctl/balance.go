package main

import (
	"errors"
	"fmt"
	"io"

	"budgetbot/internal/core"
	"budgetbot/internal/services"

	"github.com/spf13/cobra"
)

func balanceCmd() *cobra.Command {
	var (
		userID int64
		month  string
	)

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Print a user's budget, spending and balance",
		Long:  `Print the budget, total spent and remaining balance of a user for a month (default: current month).`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close(cmd.Context())

			m, err := monthOrCurrent(month, e.ledger)
			if err != nil {
				return err
			}
			b, err := e.ledger.Balance(cmd.Context(), userID, m)
			if errors.Is(err, services.ErrNoBudget) {
				return fmt.Errorf("user %d has no budget for %s", userID, m)
			}
			if err != nil {
				return err
			}
			writeBalance(cmd.OutOrStdout(), userID, b)
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "Telegram user id (required)")
	cmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM (default: current month)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func monthOrCurrent(s string, ledger *services.Ledger) (core.Month, error) {
	if s == "" {
		return ledger.CurrentMonth(), nil
	}
	m, err := core.ParseMonth(s)
	if err != nil {
		return core.Month{}, fmt.Errorf("invalid --month %q: %w", s, err)
	}
	return m, nil
}

func writeBalance(w io.Writer, userID int64, b core.Balance) {
	fmt.Fprintf(w, "user:    %d\n", userID)
	fmt.Fprintf(w, "month:   %s\n", b.Month)
	fmt.Fprintf(w, "budget:  %s\n", core.FormatAmount(b.Budget))
	fmt.Fprintf(w, "spent:   %s\n", core.FormatAmount(b.Spent))
	fmt.Fprintf(w, "balance: %s\n", core.FormatAmount(b.Remaining()))
}
