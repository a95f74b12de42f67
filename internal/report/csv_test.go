package report

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"budgetbot/internal/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	local := time.FixedZone("CEST", 2*3600)
	expenses := []core.Expense{
		{ID: "665f", UserID: 42, Username: "alice", Amount: decimal.RequireFromString("50"), Name: "Groceries", Category: "Food", Timestamp: time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)},
		{ID: "6660", UserID: 42, Username: "alice", Amount: decimal.RequireFromString("3.2"), Name: "Coffee, large", Category: "Food", Timestamp: time.Date(2024, 5, 11, 10, 0, 0, 0, local)},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, expenses))

	out := buf.String()
	assert.NotContains(t, out, "665f")

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Header, rows[0])
	assert.Equal(t, []string{"42", "alice", "50", "Groceries", "Food", "2024-05-10T09:00:00Z"}, rows[1])
	assert.Equal(t, []string{"42", "alice", "3.2", "Coffee, large", "Food", "2024-05-11T08:00:00Z"}, rows[2])
}

func TestWriteCSVKeepsFullPrecision(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []core.Expense{
		{UserID: 1, Amount: decimal.RequireFromString("12.345"), Timestamp: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
	}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "12.345", rows[1][2])
}

func TestWriteCSVHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "uid,username,amount,name,category,timestamp\n", buf.String())
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "expenses_42_2024-05.csv", FileName(42, core.NewMonth(2024, 5)))
}
