package core

import "github.com/shopspring/decimal"

// Balance is the budget position of one user for one month.
type Balance struct {
	Month  Month
	Budget decimal.Decimal
	Spent  decimal.Decimal
}

// Remaining is Budget minus Spent.
func (b Balance) Remaining() decimal.Decimal {
	return b.Budget.Sub(b.Spent)
}
