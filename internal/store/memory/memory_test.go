package memory

import (
	"context"
	"testing"
	"time"

	"budgetbot/internal/core"
	"budgetbot/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.FindUser(ctx, 7)
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.CreateUser(ctx, core.NewUser(7, "bob")))
	u, err := s.FindUser(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "bob", u.Username)
	assert.Nil(t, u.Budget)

	b := core.Budget{UserID: 7, Month: core.NewMonth(2024, 5), Amount: decimal.NewFromInt(100)}
	require.NoError(t, s.SetUserBudget(ctx, 7, b))
	require.NoError(t, s.AppendUserExpense(ctx, 7, core.ExpenseSummary{Name: "a"}))
	require.NoError(t, s.AppendUserExpense(ctx, 7, core.ExpenseSummary{Name: "b"}))

	u, err = s.FindUser(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, u.Budget)
	assert.True(t, u.Budget.Amount.Equal(decimal.NewFromInt(100)))
	require.Len(t, u.Expenses, 2)
	assert.Equal(t, "a", u.Expenses[0].Name)
	assert.Equal(t, "b", u.Expenses[1].Name)

	// returned users are copies
	u.Expenses[0].Name = "mutated"
	again, _ := s.FindUser(ctx, 7)
	assert.Equal(t, "a", again.Expenses[0].Name)
}

func TestUpsertBudgetKeepsOneRecordPerMonth(t *testing.T) {
	ctx := context.Background()
	s := New()
	may := core.NewMonth(2024, 5)

	require.NoError(t, s.UpsertBudget(ctx, core.Budget{UserID: 1, Month: may, Amount: decimal.NewFromInt(100)}))
	require.NoError(t, s.UpsertBudget(ctx, core.Budget{UserID: 1, Month: may, Amount: decimal.NewFromInt(250)}))
	require.NoError(t, s.UpsertBudget(ctx, core.Budget{UserID: 1, Month: core.NewMonth(2024, 6), Amount: decimal.NewFromInt(1)}))

	assert.Equal(t, 2, s.BudgetCount())
	b, err := s.FindBudget(ctx, 1, may)
	require.NoError(t, err)
	assert.Equal(t, "250.00", core.FormatAmount(b.Amount))

	_, err = s.FindBudget(ctx, 2, may)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestExpensesRangeAndOrder(t *testing.T) {
	ctx := context.Background()
	s := New()
	at := func(m time.Month, d int) time.Time { return time.Date(2024, m, d, 12, 0, 0, 0, time.UTC) }

	add := func(uid int64, amount string, ts time.Time, name string) {
		t.Helper()
		id, err := s.InsertExpense(ctx, core.Expense{UserID: uid, Amount: decimal.RequireFromString(amount), Name: name, Timestamp: ts})
		require.NoError(t, err)
		assert.NotEmpty(t, id)
	}
	add(1, "10", at(5, 20), "second-day-first")
	add(1, "5.5", at(5, 1), "first-day")
	add(1, "99", at(6, 1), "june")
	add(2, "7", at(5, 3), "other-user")
	add(1, "1", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), "june-boundary")

	list, err := s.ListExpenses(ctx, 1, core.NewMonth(2024, 5))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second-day-first", list[0].Name)
	assert.Equal(t, "first-day", list[1].Name)

	sum, err := s.SumExpenses(ctx, 1, core.NewMonth(2024, 5))
	require.NoError(t, err)
	assert.Equal(t, "15.50", core.FormatAmount(sum))

	sum, err = s.SumExpenses(ctx, 1, core.NewMonth(2024, 7))
	require.NoError(t, err)
	assert.True(t, sum.IsZero())
	assert.Equal(t, 5, s.ExpenseCount())
}
