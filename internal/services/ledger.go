// Package services holds the ledger use cases shared by the chat bot and the
// admin CLI.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"budgetbot/internal/amqp"
	"budgetbot/internal/core"
	"budgetbot/internal/log"
	"budgetbot/internal/metrics"
	"budgetbot/internal/store"

	"github.com/shopspring/decimal"
)

// ErrNoBudget is returned by Balance when no budget is set for the month.
var ErrNoBudget = errors.New("no budget set for month")

// EventPublisher delivers ledger events to downstream consumers.
type EventPublisher interface {
	PublishLedgerEvent(ctx context.Context, e *amqp.LedgerEvent) error
}

// Ledger orchestrates user, budget and expense writes. The authoritative
// record is written first and the denormalized copy on the user second;
// there is no transaction spanning the two.
type Ledger struct {
	store   store.Store
	events  EventPublisher
	metrics *metrics.Metrics
	logger  *log.Logger
	now     func() time.Time
}

type Option func(*Ledger)

// WithEvents publishes a LedgerEvent after every successful write.
func WithEvents(p EventPublisher) Option {
	return func(l *Ledger) { l.events = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Ledger) { l.metrics = m }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func WithLogger(logger *log.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

func NewLedger(st store.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:  st,
		now:    time.Now,
		logger: log.New(log.DefaultConfig()),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.WithComponent(log.ComponentLedger)
	return l
}

// CurrentMonth is the UTC calendar month of the ledger clock.
func (l *Ledger) CurrentMonth() core.Month {
	return core.MonthOf(l.now())
}

// Register returns the user record for userID, creating it on first contact.
// created reports whether a new record was written.
func (l *Ledger) Register(ctx context.Context, userID int64, username string) (u core.User, created bool, err error) {
	u, err = l.store.FindUser(ctx, userID)
	if err == nil {
		return u, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return core.User{}, false, fmt.Errorf("find user: %w", err)
	}

	u = core.NewUser(userID, username)
	if err := l.store.CreateUser(ctx, u); err != nil {
		// a concurrent /start may have won the unique index
		if existing, ferr := l.store.FindUser(ctx, userID); ferr == nil {
			return existing, false, nil
		}
		return core.User{}, false, fmt.Errorf("create user: %w", err)
	}

	l.logger.InfoContext(ctx, "User registered", log.FieldUserID, userID, log.FieldUsername, u.Username)
	return u, true, nil
}

// SetBudget upserts the budget of the current month and mirrors it onto the
// user record.
func (l *Ledger) SetBudget(ctx context.Context, userID int64, username string, amount decimal.Decimal) (core.Budget, error) {
	now := l.now()
	b := core.Budget{
		UserID:    userID,
		Username:  core.DisplayName(userID, username),
		Month:     core.MonthOf(now),
		Amount:    amount,
		CreatedAt: core.Timestamp(now),
	}

	if err := l.store.UpsertBudget(ctx, b); err != nil {
		return core.Budget{}, fmt.Errorf("upsert budget: %w", err)
	}
	if err := l.store.SetUserBudget(ctx, userID, b); err != nil {
		return core.Budget{}, fmt.Errorf("update user budget: %w", err)
	}

	l.publish(ctx, amqp.NewBudgetSetEvent(b))
	return b, nil
}

// AddExpense records an expense timestamped with the ledger clock and appends
// its summary to the user record.
func (l *Ledger) AddExpense(ctx context.Context, userID int64, username string, args core.ExpenseArgs) (core.Expense, error) {
	e := core.Expense{
		UserID:    userID,
		Username:  core.DisplayName(userID, username),
		Amount:    args.Amount,
		Name:      args.Name,
		Category:  args.Category,
		Timestamp: core.Timestamp(l.now()),
	}

	id, err := l.store.InsertExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}
	e.ID = id
	l.metrics.ExpenseAdded()

	if err := l.store.AppendUserExpense(ctx, userID, e.Summary()); err != nil {
		return core.Expense{}, fmt.Errorf("append user expense: %w", err)
	}

	l.publish(ctx, amqp.NewExpenseAddedEvent(e))
	return e, nil
}

// Balance returns the budget position for month. ErrNoBudget when unset.
func (l *Ledger) Balance(ctx context.Context, userID int64, month core.Month) (core.Balance, error) {
	b, err := l.store.FindBudget(ctx, userID, month)
	if errors.Is(err, store.ErrNotFound) {
		return core.Balance{}, ErrNoBudget
	}
	if err != nil {
		return core.Balance{}, fmt.Errorf("find budget: %w", err)
	}

	spent, err := l.store.SumExpenses(ctx, userID, month)
	if err != nil {
		return core.Balance{}, fmt.Errorf("sum expenses: %w", err)
	}

	return core.Balance{Month: month, Budget: b.Amount, Spent: spent}, nil
}

// MonthExpenses lists the user's expenses in month in store order.
func (l *Ledger) MonthExpenses(ctx context.Context, userID int64, month core.Month) ([]core.Expense, error) {
	list, err := l.store.ListExpenses(ctx, userID, month)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return list, nil
}

// Ping probes the backing store.
func (l *Ledger) Ping(ctx context.Context) error {
	return l.store.Ping(ctx)
}

// publish never fails the caller: the write it reports already succeeded.
func (l *Ledger) publish(ctx context.Context, e *amqp.LedgerEvent) {
	if l.events == nil {
		return
	}
	if err := l.events.PublishLedgerEvent(ctx, e); err != nil {
		l.metrics.PublishFailed()
		l.logger.WarnContext(ctx, "Failed to publish ledger event",
			log.FieldEventType, e.Type,
			log.FieldUserID, e.UserID,
			log.FieldError, err)
	}
}
