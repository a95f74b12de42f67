package main

import (
	"fmt"
	"os"

	"budgetbot/internal/report"

	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	var (
		userID int64
		month  string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a user's monthly expenses as CSV",
		Long: `Write the same CSV the bot's /export command sends. Without --out the
CSV goes to expenses_<uid>_<month>.csv in the working directory; use --out - for stdout.`,
		Args: cobra.NoArgs,
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
			expenses, err := e.ledger.MonthExpenses(cmd.Context(), userID, m)
			if err != nil {
				return err
			}

			if out == "-" {
				return report.WriteCSV(cmd.OutOrStdout(), expenses)
			}
			if out == "" {
				out = report.FileName(userID, m)
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			if err := report.WriteCSV(f, expenses); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %s: %w", out, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d expenses to %s\n", len(expenses), out)
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "Telegram user id (required)")
	cmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM (default: current month)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, - for stdout")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
