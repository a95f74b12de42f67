package core

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1.00", true},
		{"12.5", "12.50", true},
		{" 2.50 ", "2.50", true},
		{"0", "0.00", true},
		{"-3.25", "-3.25", true},
		{"1e2", "100.00", true},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"12,50", "", false},
		{"", "", false},
		{"   ", "", false},
		{"999999999999999", "999999999999999.00", true},
		{"0.000000000000001", "0.00", true},
		{"1e14", "100000000000000.00", true},
		{"1e15", "", false},
		{"1000000000000000", "", false},
		{"0.0000000000000001", "", false},
		{"1e400", "", false},
		{"-1e400", "", false},
		{"1e3000000", "", false},
		{"1e-3000000", "", false},
		{"1" + strings.Repeat("0", 100), "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if !tc.ok {
			assert.ErrorIs(t, err, ErrInvalidAmount, "input %q", tc.in)
			assert.True(t, IsUsage(err), "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.out, FormatAmount(got), "input %q", tc.in)
	}
}

func TestFormatAmountRoundsToTwoPlaces(t *testing.T) {
	assert.Equal(t, "500.00", FormatAmount(decimal.NewFromInt(500)))
	assert.Equal(t, "0.13", FormatAmount(decimal.RequireFromString("0.125")))
	assert.Equal(t, "12.35", FormatAmount(decimal.RequireFromString("12.349")))
}

func TestSumAmounts(t *testing.T) {
	assert.True(t, SumAmounts(nil).IsZero())

	expenses := []Expense{
		{Amount: decimal.RequireFromString("0.1")},
		{Amount: decimal.RequireFromString("0.2")},
		{Amount: decimal.RequireFromString("-0.05")},
	}
	assert.Equal(t, "0.25", SumAmounts(expenses).String())
}

func TestBalanceRemaining(t *testing.T) {
	b := Balance{Budget: decimal.NewFromInt(500), Spent: decimal.NewFromInt(50)}
	assert.Equal(t, "450.00", FormatAmount(b.Remaining()))
}
