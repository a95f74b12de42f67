// Package bot maps chat commands onto ledger operations and formats the
// replies. It is independent of the chat transport.
package bot

import (
	"context"
	"errors"
	"runtime/debug"
	"time"

	"budgetbot/internal/log"
	"budgetbot/internal/metrics"
	"budgetbot/internal/ratelimit"
	"budgetbot/internal/services"

	"github.com/google/uuid"
)

// Request is one inbound chat command.
type Request struct {
	UserID   int64
	Username string
	ChatID   int64
	Command  string // without the leading slash or @botname suffix
	Args     string // raw text after the command token
}

// Sender delivers replies to a chat.
type Sender interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendDocument(ctx context.Context, chatID int64, path string) error
}

type handlerFunc func(ctx context.Context, req Request) error

// Router dispatches each Request to exactly one handler. Every dispatch
// produces exactly one reply.
type Router struct {
	ledger    *services.Ledger
	sender    Sender
	limiter   *ratelimit.Limiter
	metrics   *metrics.Metrics
	logger    *log.Logger
	exportDir string

	handlers map[string]handlerFunc
}

type Config struct {
	Ledger    *services.Ledger
	Sender    Sender
	Limiter   *ratelimit.Limiter // nil disables rate limiting
	Metrics   *metrics.Metrics
	Logger    *log.Logger
	ExportDir string // parent of temporary export directories, "" for os.TempDir
}

func NewRouter(cfg Config) *Router {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}

	r := &Router{
		ledger:    cfg.Ledger,
		sender:    cfg.Sender,
		limiter:   cfg.Limiter,
		metrics:   cfg.Metrics,
		logger:    logger.WithComponent(log.ComponentBot),
		exportDir: cfg.ExportDir,
	}
	r.handlers = map[string]handlerFunc{
		"start":     r.start,
		"setbudget": r.setBudget,
		"add":       r.addExpense,
		"balance":   r.balance,
		"view":      r.view,
		"export":    r.export,
		"help":      r.help,
	}
	return r
}

// usageReply is returned by handlers for malformed arguments.
type usageReply struct {
	text string
	err  error
}

func (u *usageReply) Error() string { return u.err.Error() }

func (u *usageReply) Unwrap() error { return u.err }

func usage(text string, err error) error {
	return &usageReply{text: text, err: err}
}

// sendError marks a failed reply so the router does not try to answer again.
type sendError struct{ err error }

func (s *sendError) Error() string { return "send reply: " + s.err.Error() }

func (s *sendError) Unwrap() error { return s.err }

func (r *Router) reply(ctx context.Context, chatID int64, text string) error {
	if err := r.sender.SendText(ctx, chatID, text); err != nil {
		return &sendError{err: err}
	}
	return nil
}

// Dispatch runs the handler registered for req.Command, or the fallback.
func (r *Router) Dispatch(ctx context.Context, req Request) {
	start := time.Now()
	command, handler := r.lookup(req.Command)

	logger := r.logger.With(
		log.FieldRequestID, uuid.NewString(),
		log.FieldCommand, command,
		log.FieldUserID, req.UserID,
		log.FieldChatID, req.ChatID,
	)
	ctx = log.IntoContext(ctx, logger)

	if !r.limiter.Allow(req.UserID) {
		logger.InfoContext(ctx, "Command rate limited")
		if err := r.reply(ctx, req.ChatID, msgRateLimited); err != nil {
			logger.ErrorContext(ctx, "Failed to send reply", log.FieldError, err)
		}
		r.metrics.ObserveCommand(command, metrics.OutcomeLimited, time.Since(start))
		return
	}

	outcome := r.run(ctx, logger, req, handler)
	r.metrics.ObserveCommand(command, outcome, time.Since(start))
	logger.DebugContext(ctx, "Command handled",
		log.FieldOutcome, outcome,
		log.FieldDuration, time.Since(start).Milliseconds())
}

func (r *Router) lookup(command string) (string, handlerFunc) {
	if h, ok := r.handlers[command]; ok {
		return command, h
	}
	return "unknown", r.unknown
}

func (r *Router) run(ctx context.Context, logger *log.Logger, req Request, handler handlerFunc) (outcome string) {
	defer func() {
		if p := recover(); p != nil {
			logger.ErrorContext(ctx, "Command panicked", "panic", p, "stack", string(debug.Stack()))
			if err := r.reply(ctx, req.ChatID, msgFailure); err != nil {
				logger.ErrorContext(ctx, "Failed to send reply", log.FieldError, err)
			}
			outcome = metrics.OutcomeError
		}
	}()

	err := handler(ctx, req)
	if err == nil {
		return metrics.OutcomeOK
	}

	var se *sendError
	if errors.As(err, &se) {
		logger.ErrorContext(ctx, "Failed to send reply", log.FieldError, err)
		return metrics.OutcomeError
	}

	var ur *usageReply
	if errors.As(err, &ur) {
		logger.DebugContext(ctx, "Invalid command arguments", log.FieldError, ur.err, "args", req.Args)
		if err := r.reply(ctx, req.ChatID, ur.text); err != nil {
			logger.ErrorContext(ctx, "Failed to send reply", log.FieldError, err)
		}
		return metrics.OutcomeUsage
	}

	logger.ErrorContext(ctx, "Command failed", log.FieldError, err)
	if err := r.reply(ctx, req.ChatID, msgFailure); err != nil {
		logger.ErrorContext(ctx, "Failed to send reply", log.FieldError, err)
	}
	return metrics.OutcomeError
}
