// Package telegram connects the command router to the Telegram Bot API using
// long polling.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"budgetbot/internal/bot"
	"budgetbot/internal/log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/errgroup"
)

// API is the subset of *tgbotapi.BotAPI used by the transport.
type API interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Transport receives updates and sends replies. It implements bot.Sender.
type Transport struct {
	api         API
	pollTimeout time.Duration
	workers     int
	logger      *log.Logger
}

var _ bot.Sender = (*Transport)(nil)

// Dial authenticates against the Bot API and routes the library's own logging
// through logger at debug level.
func Dial(token string, logger *log.Logger) (*tgbotapi.BotAPI, error) {
	tg := logger.WithComponent(log.ComponentTelegram)
	if err := tgbotapi.SetLogger(tg.Printer(slog.LevelDebug)); err != nil {
		return nil, fmt.Errorf("set telegram logger: %w", err)
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connect to telegram: %w", err)
	}
	tg.Info("Authorized on Telegram", "account", api.Self.UserName)
	return api, nil
}

func NewTransport(api API, pollTimeout time.Duration, workers int, logger *log.Logger) *Transport {
	if workers < 1 {
		workers = 1
	}
	return &Transport{
		api:         api,
		pollTimeout: pollTimeout,
		workers:     workers,
		logger:      logger.WithComponent(log.ComponentTelegram),
	}
}

// Run polls for updates and hands every command to dispatch, at most
// workers at a time. It returns after ctx is cancelled and in-flight
// commands have finished.
func (t *Transport) Run(ctx context.Context, dispatch func(context.Context, bot.Request)) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = int(t.pollTimeout / time.Second)
	updates := t.api.GetUpdatesChan(u)

	var g errgroup.Group
	g.SetLimit(t.workers)

	// in-flight commands finish and reply after shutdown begins
	work := context.WithoutCancel(ctx)

	t.logger.Info("Polling for updates", "workers", t.workers, "poll_timeout", t.pollTimeout)

loop:
	for {
		select {
		case <-ctx.Done():
			t.api.StopReceivingUpdates()
			break loop
		case update, ok := <-updates:
			if !ok {
				break loop
			}
			req, ok := toRequest(update)
			if !ok {
				continue
			}
			g.Go(func() error {
				dispatch(work, req)
				return nil
			})
		}
	}

	t.logger.Info("Waiting for in-flight commands")
	return g.Wait()
}

// toRequest converts a command message; anything else is ignored.
func toRequest(update tgbotapi.Update) (bot.Request, bool) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat == nil || !msg.IsCommand() {
		return bot.Request{}, false
	}
	return bot.Request{
		UserID:   msg.From.ID,
		Username: msg.From.UserName,
		ChatID:   msg.Chat.ID,
		Command:  strings.ToLower(msg.Command()),
		Args:     strings.TrimSpace(msg.CommandArguments()),
	}, true
}

func (t *Transport) SendText(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := t.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

func (t *Transport) SendDocument(ctx context.Context, chatID int64, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := t.api.Send(tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))); err != nil {
		return fmt.Errorf("send document: %w", err)
	}
	return nil
}
