package main

import (
	"context"
	"errors"
	"os"
	"time"

	"budgetbot/internal/amqp"
	"budgetbot/internal/cli"
	"budgetbot/internal/config"
	"budgetbot/internal/log"
	gsheet "budgetbot/internal/sheets/google"
	"budgetbot/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg, logger := cli.LoadAndValidateConfig((*config.Config).ValidateWorker)

	logger.Info("Starting budgetbot-worker",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue)

	sheetsClient, err := gsheet.New(context.Background(), cfg.GoogleSpreadsheetID, cfg.GoogleSheetName, cfg.GoogleBudgetSheetName)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}

	mirror := worker.NewMirrorWorker(sheetsClient, logger)

	stopped := make(chan struct{})
	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		select {
		case <-stopped:
		case <-ctx.Done():
		}
		if err := amqpClient.Close(); err != nil {
			logger.Warn("Failed to close AMQP client", log.FieldError, err)
		}
	})

	err = amqpClient.ConsumeLedgerEvents(ctx, mirror.HandleLedgerEvent)
	close(stopped)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", log.FieldError, err)
		os.Exit(1)
	}
	<-done
}
