package mongodb

import (
	"time"

	"budgetbot/internal/core"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Document shapes. Amounts are doubles so that documents stay readable by
// other tools working on the same collections.
type (
	userDoc struct {
		ID       bson.ObjectID `bson:"_id,omitempty"`
		UID      int64         `bson:"uid"`
		Username string        `bson:"username"`
		Budget   *budgetDoc    `bson:"budget"`
		Expenses []summaryDoc  `bson:"expenses"`
	}

	budgetDoc struct {
		UID       int64     `bson:"uid,omitempty"`
		Username  string    `bson:"username,omitempty"`
		Month     string    `bson:"month,omitempty"`
		Budget    float64   `bson:"budget"`
		CreatedAt time.Time `bson:"created_at"`
	}

	expenseDoc struct {
		ID        bson.ObjectID `bson:"_id,omitempty"`
		UID       int64         `bson:"uid"`
		Username  string        `bson:"username"`
		Amount    float64       `bson:"amount"`
		Name      string        `bson:"name"`
		Category  string        `bson:"category"`
		Timestamp time.Time     `bson:"timestamp"`
	}

	summaryDoc struct {
		Amount    float64   `bson:"amount"`
		Name      string    `bson:"name"`
		Category  string    `bson:"category"`
		Timestamp time.Time `bson:"timestamp"`
	}
)

func newBudgetDoc(b core.Budget) budgetDoc {
	return budgetDoc{
		UID:       b.UserID,
		Username:  b.Username,
		Month:     b.Month.String(),
		Budget:    b.Amount.InexactFloat64(),
		CreatedAt: b.CreatedAt,
	}
}

func (d budgetDoc) toCore() (core.Budget, error) {
	month, err := core.ParseMonth(d.Month)
	if err != nil {
		return core.Budget{}, err
	}
	return core.Budget{
		UserID:    d.UID,
		Username:  d.Username,
		Month:     month,
		Amount:    decimal.NewFromFloat(d.Budget),
		CreatedAt: d.CreatedAt.UTC(),
	}, nil
}

func newExpenseDoc(e core.Expense) expenseDoc {
	return expenseDoc{
		UID:       e.UserID,
		Username:  e.Username,
		Amount:    e.Amount.InexactFloat64(),
		Name:      e.Name,
		Category:  e.Category,
		Timestamp: e.Timestamp,
	}
}

func (d expenseDoc) toCore() core.Expense {
	return core.Expense{
		ID:        d.ID.Hex(),
		UserID:    d.UID,
		Username:  d.Username,
		Amount:    decimal.NewFromFloat(d.Amount),
		Name:      d.Name,
		Category:  d.Category,
		Timestamp: d.Timestamp.UTC(),
	}
}

func newSummaryDoc(s core.ExpenseSummary) summaryDoc {
	return summaryDoc{
		Amount:    s.Amount.InexactFloat64(),
		Name:      s.Name,
		Category:  s.Category,
		Timestamp: s.Timestamp,
	}
}

func (d userDoc) toCore() core.User {
	u := core.User{
		UserID:   d.UID,
		Username: d.Username,
		Expenses: make([]core.ExpenseSummary, 0, len(d.Expenses)),
	}
	// An empty placeholder document decodes with no month.
	if d.Budget != nil && d.Budget.Month != "" {
		if b, err := d.Budget.toCore(); err == nil {
			u.Budget = &b
		}
	}
	for _, s := range d.Expenses {
		u.Expenses = append(u.Expenses, core.ExpenseSummary{
			Amount:    decimal.NewFromFloat(s.Amount),
			Name:      s.Name,
			Category:  s.Category,
			Timestamp: s.Timestamp.UTC(),
		})
	}
	return u
}

func monthFilter(userID int64, month core.Month) bson.D {
	return bson.D{
		{Key: "uid", Value: userID},
		{Key: "timestamp", Value: bson.D{
			{Key: "$gte", Value: month.Start()},
			{Key: "$lt", Value: month.End()},
		}},
	}
}

func sumPipeline(userID int64, month core.Month) bson.A {
	return bson.A{
		bson.D{{Key: "$match", Value: monthFilter(userID, month)}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
		}}},
	}
}
