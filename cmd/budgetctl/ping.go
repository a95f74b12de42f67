package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func pingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Probe store connectivity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv(cmd)
			if err != nil {
				return err
			}
			defer e.Close(cmd.Context())

			ctx, cancel := context.WithTimeout(cmd.Context(), e.cfg.MongoTimeout)
			defer cancel()
			if err := e.ledger.Ping(ctx); err != nil {
				return fmt.Errorf("%s backend unreachable: %w", e.cfg.DataBackend, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s backend ok\n", e.cfg.DataBackend)
			return nil
		},
	}
}
