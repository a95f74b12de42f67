package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"budgetbot/internal/backend"
	"budgetbot/internal/cli"
	"budgetbot/internal/config"
	"budgetbot/internal/log"
	"budgetbot/internal/services"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "budgetctl",
		Short: "Administer the budget bot's ledger",
		Long: `budgetctl inspects the ledger the budget bot writes: probe the store,
print balances, export monthly expenses and apply SQLite migrations.

Configuration is read from the same environment variables as the bot.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().String("backend", "", "data backend override (mongo, sqlite, memory)")

	root.AddCommand(pingCmd())
	root.AddCommand(balanceCmd())
	root.AddCommand(exportCmd())
	root.AddCommand(migrateCmd())
	return root
}

func main() {
	cli.LoadEnvFile()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env is the configured store and ledger for one command run.
type env struct {
	cfg     *config.Config
	logger  *log.Logger
	ledger  *services.Ledger
	cleanup backend.CleanupFunc
}

func loadConfig(cmd *cobra.Command) (*config.Config, *log.Logger, error) {
	cfg := config.Load()
	if b, _ := cmd.Flags().GetString("backend"); b != "" {
		cfg.DataBackend = b
	}
	logger := cli.SetupLogger(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func openEnv(cmd *cobra.Command) (*env, error) {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(cmd.Context(), bcfg)
	if err != nil {
		return nil, err
	}
	return &env{
		cfg:     cfg,
		logger:  logger,
		ledger:  services.NewLedger(res.Store, services.WithLogger(logger)),
		cleanup: res.Cleanup,
	}, nil
}

func (e *env) Close(ctx context.Context) {
	if err := e.cleanup(context.WithoutCancel(ctx)); err != nil {
		e.logger.Warn("Failed to close store", log.FieldError, err)
	}
}
