package main

import (
	"context"
	"os"
	"time"

	"budgetbot/internal/amqp"
	"budgetbot/internal/backend"
	"budgetbot/internal/bot"
	"budgetbot/internal/cli"
	"budgetbot/internal/config"
	apphttp "budgetbot/internal/http"
	"budgetbot/internal/log"
	"budgetbot/internal/metrics"
	"budgetbot/internal/ratelimit"
	"budgetbot/internal/services"
	"budgetbot/internal/telegram"

	"golang.org/x/sync/errgroup"
)

func main() {
	cli.LoadEnvFile()
	cfg, logger := cli.LoadAndValidateConfig((*config.Config).ValidateBot)

	logger.Info("Starting budgetbot",
		log.FieldBackend, cfg.DataBackend,
		"workers", cfg.Workers,
		"ops_addr", cfg.OpsAddr)

	m, err := metrics.New()
	if err != nil {
		logger.Error("Failed to register metrics", log.FieldError, err)
		os.Exit(1)
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	res, err := backend.NewFactory(logger).CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to create backend", log.FieldError, err)
		os.Exit(1)
	}

	probeCtx, cancelProbe := context.WithTimeout(context.Background(), cfg.MongoTimeout)
	if err := res.Store.Ping(probeCtx); err != nil {
		logger.Warn("Store connectivity probe failed, continuing", log.FieldError, err)
	} else {
		logger.Info("Store connectivity probe succeeded")
	}
	cancelProbe()

	opts := []services.Option{services.WithMetrics(m), services.WithLogger(logger)}
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without ledger events", log.FieldError, err)
		} else {
			logger.Info("Initialized AMQP client", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
			opts = append(opts, services.WithEvents(amqpClient))
		}
	}
	ledger := services.NewLedger(res.Store, opts...)

	limiter := ratelimit.NewLimiter(ratelimit.Config{CommandsPerMinute: cfg.RateLimit})

	api, err := telegram.Dial(cfg.TelegramToken, logger)
	if err != nil {
		logger.Error("Failed to connect to Telegram", log.FieldError, err)
		os.Exit(1)
	}

	transport := telegram.NewTransport(api, cfg.PollTimeout, cfg.Workers, logger)
	router := bot.NewRouter(bot.Config{
		Ledger:    ledger,
		Sender:    transport,
		Limiter:   limiter,
		Metrics:   m,
		Logger:    logger,
		ExportDir: cfg.ExportDir,
	})

	// resources close only after in-flight commands have replied
	stopped := make(chan struct{})
	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		select {
		case <-stopped:
		case <-ctx.Done():
			return
		}
		limiter.Stop()
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Warn("Failed to close AMQP client", log.FieldError, err)
			}
		}
		if err := res.Cleanup(ctx); err != nil {
			logger.Warn("Failed to close store", log.FieldError, err)
		}
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return transport.Run(gctx, router.Dispatch)
	})
	if cfg.OpsAddr != "" {
		srv := apphttp.NewServer(cfg.OpsAddr, ledger, m.Handler(), logger)
		g.Go(func() error {
			logger.Info("Ops server listening", "addr", cfg.OpsAddr)
			return srv.Run(gctx)
		})
	}

	runErr := g.Wait()
	close(stopped)
	if ctx.Err() == nil {
		logger.Error("Bot stopped unexpectedly", log.FieldError, runErr)
		os.Exit(1)
	}
	<-done
}
