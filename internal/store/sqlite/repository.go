// Package sqlite implements the store ports on an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"budgetbot/internal/core"
	"budgetbot/internal/store"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

type Repository struct {
	db *sql.DB
}

var _ store.Store = (*Repository)(nil)

// NewRepository opens dbPath, creating its directory, and applies migrations.
func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repository) FindUser(ctx context.Context, userID int64) (core.User, error) {
	var (
		u         core.User
		month     sql.NullString
		amount    sql.NullString
		createdAt sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT uid, username, budget_month, budget_amount, budget_created_at FROM users WHERE uid = ?`,
		userID).Scan(&u.UserID, &u.Username, &month, &amount, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, store.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("find user %d: %w", userID, err)
	}

	if month.Valid && amount.Valid {
		b, err := scanBudget(userID, u.Username, month.String, amount.String, createdAt.Int64)
		if err != nil {
			return core.User{}, err
		}
		u.Budget = &b
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT amount, name, category, timestamp FROM user_expenses WHERE uid = ? ORDER BY seq`, userID)
	if err != nil {
		return core.User{}, fmt.Errorf("list user expenses %d: %w", userID, err)
	}
	defer rows.Close()

	u.Expenses = []core.ExpenseSummary{}
	for rows.Next() {
		var (
			s      core.ExpenseSummary
			amount string
			ts     int64
		)
		if err := rows.Scan(&amount, &s.Name, &s.Category, &ts); err != nil {
			return core.User{}, fmt.Errorf("scan user expense: %w", err)
		}
		if s.Amount, err = decimal.NewFromString(amount); err != nil {
			return core.User{}, fmt.Errorf("parse user expense amount %q: %w", amount, err)
		}
		s.Timestamp = fromUnixNano(ts)
		u.Expenses = append(u.Expenses, s)
	}
	return u, rows.Err()
}

func (r *Repository) CreateUser(ctx context.Context, u core.User) error {
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO users (uid, username) VALUES (?, ?)`, u.UserID, u.Username); err != nil {
		return fmt.Errorf("insert user %d: %w", u.UserID, err)
	}
	slog.InfoContext(ctx, "User created", "uid", u.UserID, "username", u.Username)
	return nil
}

func (r *Repository) SetUserBudget(ctx context.Context, userID int64, b core.Budget) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE users SET budget_month = ?, budget_amount = ?, budget_created_at = ? WHERE uid = ?`,
		b.Month.String(), b.Amount.String(), b.CreatedAt.UnixNano(), userID); err != nil {
		return fmt.Errorf("set user budget %d: %w", userID, err)
	}
	return nil
}

// AppendUserExpense only appends for a registered user.
func (r *Repository) AppendUserExpense(ctx context.Context, userID int64, s core.ExpenseSummary) error {
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO user_expenses (uid, amount, name, category, timestamp)
		 SELECT uid, ?, ?, ?, ? FROM users WHERE uid = ?`,
		s.Amount.String(), s.Name, s.Category, s.Timestamp.UnixNano(), userID); err != nil {
		return fmt.Errorf("push user expense %d: %w", userID, err)
	}
	return nil
}

func (r *Repository) UpsertBudget(ctx context.Context, b core.Budget) error {
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (uid, username, month, amount, created_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (uid, month) DO UPDATE SET
		   username = excluded.username,
		   amount = excluded.amount,
		   created_at = excluded.created_at`,
		b.UserID, b.Username, b.Month.String(), b.Amount.String(), b.CreatedAt.UnixNano()); err != nil {
		return fmt.Errorf("upsert budget %d/%s: %w", b.UserID, b.Month, err)
	}
	return nil
}

func (r *Repository) FindBudget(ctx context.Context, userID int64, month core.Month) (core.Budget, error) {
	var (
		username  string
		amount    string
		createdAt int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT username, amount, created_at FROM budgets WHERE uid = ? AND month = ?`,
		userID, month.String()).Scan(&username, &amount, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, store.ErrNotFound
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("find budget %d/%s: %w", userID, month, err)
	}
	return scanBudget(userID, username, month.String(), amount, createdAt)
}

// BudgetCount returns how many budget rows exist for the user.
func (r *Repository) BudgetCount(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM budgets WHERE uid = ?`, userID).Scan(&n)
	return n, err
}

func (r *Repository) InsertExpense(ctx context.Context, e core.Expense) (string, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (uid, username, amount, name, category, timestamp) VALUES (?, ?, ?, ?, ?, ?)`,
		e.UserID, e.Username, e.Amount.String(), e.Name, e.Category, e.Timestamp.UnixNano())
	if err != nil {
		return "", fmt.Errorf("insert expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("expense id: %w", err)
	}

	slog.DebugContext(ctx, "Expense saved to SQLite", "id", id, "uid", e.UserID, "amount", e.Amount.String())
	return strconv.FormatInt(id, 10), nil
}

// SumExpenses adds amounts in Go so decimal text is summed exactly.
func (r *Repository) SumExpenses(ctx context.Context, userID int64, month core.Month) (decimal.Decimal, error) {
	list, err := r.ListExpenses(ctx, userID, month)
	if err != nil {
		return decimal.Zero, err
	}
	return core.SumAmounts(list), nil
}

func (r *Repository) ListExpenses(ctx context.Context, userID int64, month core.Month) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, uid, username, amount, name, category, timestamp FROM expenses
		 WHERE uid = ? AND timestamp >= ? AND timestamp < ? ORDER BY id`,
		userID, month.Start().UnixNano(), month.End().UnixNano())
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		var (
			e      core.Expense
			id     int64
			amount string
			ts     int64
		)
		if err := rows.Scan(&id, &e.UserID, &e.Username, &amount, &e.Name, &e.Category, &ts); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		if e.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parse expense amount %q: %w", amount, err)
		}
		e.ID = strconv.FormatInt(id, 10)
		e.Timestamp = fromUnixNano(ts)
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanBudget(userID int64, username, month, amount string, createdAt int64) (core.Budget, error) {
	m, err := core.ParseMonth(month)
	if err != nil {
		return core.Budget{}, fmt.Errorf("parse budget month %q: %w", month, err)
	}
	a, err := decimal.NewFromString(amount)
	if err != nil {
		return core.Budget{}, fmt.Errorf("parse budget amount %q: %w", amount, err)
	}
	return core.Budget{
		UserID:    userID,
		Username:  username,
		Month:     m,
		Amount:    a,
		CreatedAt: fromUnixNano(createdAt),
	}, nil
}

func fromUnixNano(ns int64) time.Time {
	return time.Unix(0, ns).UTC()
}
