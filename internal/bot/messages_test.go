package bot

import (
	"strings"
	"testing"
	"time"

	"budgetbot/internal/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestWelcomeMessage(t *testing.T) {
	created := welcomeMessage("bob", true)
	back := welcomeMessage("bob", false)

	assert.True(t, strings.HasPrefix(created, "👋 Welcome, bob! Your account has been created.\n\nCommands:\n"))
	assert.True(t, strings.HasPrefix(back, "👋 Welcome back, bob!\n\nCommands:\n"))
	assert.Equal(t, len(commandList), strings.Count(created, "\n/"))
}

func TestBalanceMessageNegative(t *testing.T) {
	msg := balanceMessage(core.Balance{
		Month:  core.NewMonth(2024, 5),
		Budget: decimal.NewFromInt(10),
		Spent:  decimal.RequireFromString("12.345"),
	})
	assert.Contains(t, msg, "📉 Spent: 12.35")
	assert.True(t, strings.HasSuffix(msg, "✅ Balance: -2.35"), msg)
}

func TestListingMessageUsesUTCDate(t *testing.T) {
	tz := time.FixedZone("UTC-5", -5*3600)
	msg := listingMessage(core.NewMonth(2024, 5), []core.Expense{
		{Amount: decimal.NewFromInt(1), Name: "late", Category: "c", Timestamp: time.Date(2024, 5, 31, 20, 0, 0, 0, tz)},
	})
	assert.Contains(t, msg, "- 2024-06-01: 1.00 [late] (c)")
}
