// Package memory is an in-process LedgerWriter that keeps appended rows for
// inspection.
package memory

import (
	"context"
	"fmt"
	"sync"

	"budgetbot/internal/sheets"
)

type Store struct {
	mu       sync.Mutex
	expenses []sheets.ExpenseRow
	budgets  []sheets.BudgetRow
}

var _ sheets.LedgerWriter = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// AppendExpense stores the row and returns a synthetic row reference.
func (s *Store) AppendExpense(_ context.Context, row sheets.ExpenseRow) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = append(s.expenses, row)
	return fmt.Sprintf("mem:expenses:%d", len(s.expenses)), nil
}

func (s *Store) AppendBudget(_ context.Context, row sheets.BudgetRow) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budgets = append(s.budgets, row)
	return fmt.Sprintf("mem:budgets:%d", len(s.budgets)), nil
}

// Expenses returns a copy of the appended expense rows.
func (s *Store) Expenses() []sheets.ExpenseRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sheets.ExpenseRow(nil), s.expenses...)
}

// Budgets returns a copy of the appended budget rows.
func (s *Store) Budgets() []sheets.BudgetRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sheets.BudgetRow(nil), s.budgets...)
}
