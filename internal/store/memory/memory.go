package memory

import (
	"context"
	"strconv"
	"sync"

	"budgetbot/internal/core"
	"budgetbot/internal/store"

	"github.com/shopspring/decimal"
)

// Store keeps every record in process memory. It is safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	users    map[int64]*core.User
	budgets  map[budgetKey]core.Budget
	expenses []core.Expense
	nextID   int
}

type budgetKey struct {
	userID int64
	month  string
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		users:   make(map[int64]*core.User),
		budgets: make(map[budgetKey]core.Budget),
	}
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) FindUser(_ context.Context, userID int64) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return core.User{}, store.ErrNotFound
	}
	return cloneUser(*u), nil
}

func (s *Store) CreateUser(_ context.Context, u core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.UserID]; ok {
		return nil
	}
	c := cloneUser(u)
	s.users[u.UserID] = &c
	return nil
}

// SetUserBudget is a no-op for unknown users, like an update matching nothing.
func (s *Store) SetUserBudget(_ context.Context, userID int64, b core.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[userID]; ok {
		u.Budget = &b
	}
	return nil
}

func (s *Store) AppendUserExpense(_ context.Context, userID int64, sum core.ExpenseSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[userID]; ok {
		u.Expenses = append(u.Expenses, sum)
	}
	return nil
}

func (s *Store) UpsertBudget(_ context.Context, b core.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budgets[budgetKey{b.UserID, b.Month.String()}] = b
	return nil
}

func (s *Store) FindBudget(_ context.Context, userID int64, month core.Month) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.budgets[budgetKey{userID, month.String()}]
	if !ok {
		return core.Budget{}, store.ErrNotFound
	}
	return b, nil
}

// BudgetCount returns the number of stored budget records.
func (s *Store) BudgetCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.budgets)
}

func (s *Store) InsertExpense(_ context.Context, e core.Expense) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	e.ID = "mem:" + strconv.Itoa(s.nextID)
	s.expenses = append(s.expenses, e)
	return e.ID, nil
}

func (s *Store) SumExpenses(ctx context.Context, userID int64, month core.Month) (decimal.Decimal, error) {
	list, err := s.ListExpenses(ctx, userID, month)
	if err != nil {
		return decimal.Zero, err
	}
	return core.SumAmounts(list), nil
}

// ListExpenses returns matches in insertion order.
func (s *Store) ListExpenses(_ context.Context, userID int64, month core.Month) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Expense
	for _, e := range s.expenses {
		if e.UserID == userID && month.Contains(e.Timestamp) {
			out = append(out, e)
		}
	}
	return out, nil
}

// ExpenseCount returns the number of stored expense records.
func (s *Store) ExpenseCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.expenses)
}

func cloneUser(u core.User) core.User {
	out := u
	if u.Budget != nil {
		b := *u.Budget
		out.Budget = &b
	}
	out.Expenses = append([]core.ExpenseSummary{}, u.Expenses...)
	return out
}
