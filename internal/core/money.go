// Package core provides the budget and expense domain types.
//
// This file contains parsing and formatting of monetary amounts. Amounts are
// decimals with no sign constraint; display precision is two places.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Amounts are stored as float64 by the document store, so they are limited to
// what a double holds exactly: at most maxAmountDigits integer digits and
// maxAmountScale fractional digits.
const (
	maxAmountInput  = 64
	maxAmountDigits = 15
	maxAmountScale  = 15
)

// ParseAmount parses a user supplied amount such as "12.50", "-3" or "1e2".
//
// Surrounding whitespace is ignored. Anything that is not a decimal number
// within the stored range returns ErrInvalidAmount.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxAmountInput {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if !inRange(d) {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// inRange checks magnitude from the coefficient and exponent without
// rescaling, which is unbounded work for exponents like 1e3000000.
func inRange(d decimal.Decimal) bool {
	exp := int64(d.Exponent())
	if exp > maxAmountDigits || exp < -maxAmountScale {
		return false
	}
	coef := d.Coefficient()
	if coef.Sign() == 0 {
		return true
	}
	digits := int64(len(coef.Abs(coef).String()))
	return digits+exp <= maxAmountDigits
}

// FormatAmount renders d with exactly two decimal places.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// SumAmounts adds up the amounts of the given expenses.
func SumAmounts(expenses []Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}
