// Package mongodb implements the store ports on MongoDB.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"budgetbot/internal/core"
	"budgetbot/internal/store"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const (
	usersCollection    = "users"
	budgetsCollection  = "budgets"
	expensesCollection = "expenses"
)

type Store struct {
	client   *mongo.Client
	users    *mongo.Collection
	budgets  *mongo.Collection
	expenses *mongo.Collection
}

var _ store.Store = (*Store)(nil)

// New creates the long-lived client. The driver connects lazily, so an
// unreachable server does not fail here; use Ping to probe.
func New(uri, database string, timeout time.Duration) (*Store, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	db := client.Database(database)
	return &Store{
		client:   client,
		users:    db.Collection(usersCollection),
		budgets:  db.Collection(budgetsCollection),
		expenses: db.Collection(expensesCollection),
	}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("ping mongodb: %w", err)
	}
	return nil
}

// EnsureIndexes creates the unique keys the upserts rely on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	if _, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "uid", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("users index: %w", err)
	}
	if _, err := s.budgets.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "uid", Value: 1}, {Key: "month", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("budgets index: %w", err)
	}
	if _, err := s.expenses.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "uid", Value: 1}, {Key: "timestamp", Value: 1}},
	}); err != nil {
		return fmt.Errorf("expenses index: %w", err)
	}
	return nil
}

func (s *Store) FindUser(ctx context.Context, userID int64) (core.User, error) {
	var doc userDoc
	err := s.users.FindOne(ctx, bson.D{{Key: "uid", Value: userID}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return core.User{}, store.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("find user %d: %w", userID, err)
	}
	return doc.toCore(), nil
}

// CreateUser inserts the user with an empty budget document and expense array.
func (s *Store) CreateUser(ctx context.Context, u core.User) error {
	doc := bson.D{
		{Key: "uid", Value: u.UserID},
		{Key: "username", Value: u.Username},
		{Key: "budget", Value: bson.D{}},
		{Key: "expenses", Value: bson.A{}},
	}
	if _, err := s.users.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert user %d: %w", u.UserID, err)
	}
	slog.InfoContext(ctx, "User created", "uid", u.UserID, "username", u.Username)
	return nil
}

func (s *Store) SetUserBudget(ctx context.Context, userID int64, b core.Budget) error {
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "budget", Value: newBudgetDoc(b)}}}}
	if _, err := s.users.UpdateOne(ctx, bson.D{{Key: "uid", Value: userID}}, update); err != nil {
		return fmt.Errorf("set user budget %d: %w", userID, err)
	}
	return nil
}

func (s *Store) AppendUserExpense(ctx context.Context, userID int64, sum core.ExpenseSummary) error {
	update := bson.D{{Key: "$push", Value: bson.D{{Key: "expenses", Value: newSummaryDoc(sum)}}}}
	if _, err := s.users.UpdateOne(ctx, bson.D{{Key: "uid", Value: userID}}, update); err != nil {
		return fmt.Errorf("push user expense %d: %w", userID, err)
	}
	return nil
}

// UpsertBudget is a single conditional write keyed by (uid, month).
func (s *Store) UpsertBudget(ctx context.Context, b core.Budget) error {
	filter := bson.D{{Key: "uid", Value: b.UserID}, {Key: "month", Value: b.Month.String()}}
	update := bson.D{{Key: "$set", Value: newBudgetDoc(b)}}
	if _, err := s.budgets.UpdateOne(ctx, filter, update, options.UpdateOne().SetUpsert(true)); err != nil {
		return fmt.Errorf("upsert budget %d/%s: %w", b.UserID, b.Month, err)
	}
	return nil
}

func (s *Store) FindBudget(ctx context.Context, userID int64, month core.Month) (core.Budget, error) {
	var doc budgetDoc
	filter := bson.D{{Key: "uid", Value: userID}, {Key: "month", Value: month.String()}}
	err := s.budgets.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return core.Budget{}, store.ErrNotFound
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("find budget %d/%s: %w", userID, month, err)
	}
	return doc.toCore()
}

func (s *Store) InsertExpense(ctx context.Context, e core.Expense) (string, error) {
	res, err := s.expenses.InsertOne(ctx, newExpenseDoc(e))
	if err != nil {
		return "", fmt.Errorf("insert expense: %w", err)
	}
	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		return id.Hex(), nil
	}
	return fmt.Sprint(res.InsertedID), nil
}

func (s *Store) SumExpenses(ctx context.Context, userID int64, month core.Month) (decimal.Decimal, error) {
	cur, err := s.expenses.Aggregate(ctx, sumPipeline(userID, month))
	if err != nil {
		return decimal.Zero, fmt.Errorf("aggregate expenses: %w", err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return decimal.Zero, fmt.Errorf("decode expense total: %w", err)
	}
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(decimal.NewFromFloat(r.Total))
	}
	return total, nil
}

// ListExpenses applies no sort; results come back in natural order.
func (s *Store) ListExpenses(ctx context.Context, userID int64, month core.Month) ([]core.Expense, error) {
	cur, err := s.expenses.Find(ctx, monthFilter(userID, month))
	if err != nil {
		return nil, fmt.Errorf("find expenses: %w", err)
	}
	defer cur.Close(ctx)

	var docs []expenseDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode expenses: %w", err)
	}
	out := make([]core.Expense, len(docs))
	for i, d := range docs {
		out[i] = d.toCore()
	}
	return out, nil
}
