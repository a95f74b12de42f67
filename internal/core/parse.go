package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrUsage is the parent of every malformed-argument error. Handlers
// recover from it with a usage hint.
var ErrUsage = errors.New("usage error")

var (
	ErrInvalidAmount    = usageError("invalid amount")
	ErrInvalidMonth     = usageError("invalid month")
	ErrMalformedExpense = usageError("expected <amount>, <name>, <category>")
	ErrMissingArgument  = usageError("missing argument")
)

type usage struct{ msg string }

func usageError(msg string) error { return &usage{msg: msg} }

func (u *usage) Error() string { return u.msg }

func (u *usage) Is(target error) bool { return target == ErrUsage }

// IsUsage reports whether err is a malformed-argument error.
func IsUsage(err error) bool {
	return errors.Is(err, ErrUsage)
}

// ExpenseArgs is the parsed form of "/add <amount>, <name>, <category>".
type ExpenseArgs struct {
	Amount   decimal.Decimal
	Name     string
	Category string
}

// ParseExpenseArgs splits text on the first two commas. The category is
// everything after the second comma, so it may itself contain commas.
func ParseExpenseArgs(text string) (ExpenseArgs, error) {
	parts := strings.SplitN(strings.TrimSpace(text), ",", 3)
	if len(parts) < 3 {
		return ExpenseArgs{}, ErrMalformedExpense
	}
	amount, err := ParseAmount(parts[0])
	if err != nil {
		return ExpenseArgs{}, err
	}
	return ExpenseArgs{
		Amount:   amount,
		Name:     strings.TrimSpace(parts[1]),
		Category: strings.TrimSpace(parts[2]),
	}, nil
}

// FirstArg returns the first whitespace separated token of args.
func FirstArg(args string) (string, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return "", ErrMissingArgument
	}
	return fields[0], nil
}
