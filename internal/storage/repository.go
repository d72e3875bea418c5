package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"budget/internal/core"
)

const (
	goalColumns        = "id, name, target_amount, current_amount, version"
	transactionColumns = "id, description, amount, type, category, date"
)

// SQLRepository stores goals and transactions in SQLite or PostgreSQL.
type SQLRepository struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQLiteRepository opens (creating if needed) the SQLite database at dbPath
// and migrates it.
func NewSQLiteRepository(dbPath string) (*SQLRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	return Open(SQLite, dbPath+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate")
}

// NewPostgresRepository connects to the PostgreSQL database at url and migrates it.
func NewPostgresRepository(url string) (*SQLRepository, error) {
	return Open(Postgres, url)
}

// Open connects with the given dialect, pings, and runs migrations.
func Open(d Dialect, dsn string) (*SQLRepository, error) {
	db, err := sql.Open(d.DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", d.Name, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(d, dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLRepository{db: db, dialect: d}, nil
}

func (r *SQLRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping verifies the database is reachable.
func (r *SQLRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLRepository) q(query string) string {
	return r.dialect.Rebind(query)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGoal(s scanner) (core.Goal, error) {
	var g core.Goal
	err := s.Scan(&g.ID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &g.Version)
	return g, err
}

func scanTransaction(s scanner) (core.Transaction, error) {
	var t core.Transaction
	err := s.Scan(&t.ID, &t.Description, &t.Amount, &t.Type, &t.Category, &t.Date)
	return t, err
}

// ListGoals returns every goal in id order.
func (r *SQLRepository) ListGoals(ctx context.Context) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+goalColumns+" FROM goals ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	goals := []core.Goal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return goals, nil
}

// GetGoal retrieves a single goal by ID
func (r *SQLRepository) GetGoal(ctx context.Context, id int64) (core.Goal, error) {
	row := r.db.QueryRowContext(ctx, r.q("SELECT "+goalColumns+" FROM goals WHERE id = ?"), id)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, fmt.Errorf("goal %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Goal{}, fmt.Errorf("get goal by id: %w", err)
	}
	return g, nil
}

// CreateGoal inserts g; the stored version starts at 1.
func (r *SQLRepository) CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	err := r.db.QueryRowContext(ctx,
		r.q("INSERT INTO goals (name, target_amount, current_amount) VALUES (?, ?, ?) RETURNING id, version"),
		g.Name, g.TargetAmount, g.CurrentAmount,
	).Scan(&g.ID, &g.Version)
	if err != nil {
		return core.Goal{}, fmt.Errorf("create goal: %w", err)
	}

	slog.InfoContext(ctx, "Goal saved", "id", g.ID, "name", g.Name, "backend", r.dialect.Name)
	return g, nil
}

// ApplyContribution updates the goal balance and records the expense in one
// database transaction.
func (r *SQLRepository) ApplyContribution(ctx context.Context, c core.Contribution) (core.Goal, core.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Goal{}, core.Transaction{}, fmt.Errorf("begin contribution: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		r.q("UPDATE goals SET current_amount = ?, version = version + 1 WHERE id = ? AND version = ?"),
		c.Goal.CurrentAmount, c.Goal.ID, c.Goal.Version,
	)
	if err != nil {
		return core.Goal{}, core.Transaction{}, fmt.Errorf("update goal balance: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return core.Goal{}, core.Transaction{}, fmt.Errorf("update goal balance: %w", err)
	}
	if n == 0 {
		return core.Goal{}, core.Transaction{}, r.missingOrStale(ctx, tx, c.Goal)
	}

	expense, err := insertTransaction(ctx, tx, r.dialect, c.Expense)
	if err != nil {
		return core.Goal{}, core.Transaction{}, err
	}

	if err := tx.Commit(); err != nil {
		return core.Goal{}, core.Transaction{}, fmt.Errorf("commit contribution: %w", err)
	}

	goal := c.Goal
	goal.Version++
	slog.InfoContext(ctx, "Contribution applied",
		"goal_id", goal.ID,
		"current_amount", goal.CurrentAmount.String(),
		"transaction_id", expense.ID)
	return goal, expense, nil
}

func (r *SQLRepository) missingOrStale(ctx context.Context, tx *sql.Tx, g core.Goal) error {
	var one int
	err := tx.QueryRowContext(ctx, r.q("SELECT 1 FROM goals WHERE id = ?"), g.ID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("goal %d: %w", g.ID, core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("check goal: %w", err)
	}
	return fmt.Errorf("goal %d at version %d: %w", g.ID, g.Version, core.ErrConflict)
}

// ListTransactions returns every transaction in id order.
func (r *SQLRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	return r.queryTransactions(ctx, "SELECT "+transactionColumns+" FROM transactions ORDER BY id")
}

// RecentTransactions returns the newest limit transactions by date; undated ones last.
func (r *SQLRepository) RecentTransactions(ctx context.Context, limit int) ([]core.Transaction, error) {
	return r.queryTransactions(ctx,
		r.q("SELECT "+transactionColumns+" FROM transactions ORDER BY date DESC NULLS LAST, id LIMIT ?"),
		limit)
}

func (r *SQLRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	txs := []core.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	return txs, nil
}

// CreateTransaction inserts t as given.
func (r *SQLRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	saved, err := insertTransaction(ctx, r.db, r.dialect, t)
	if err != nil {
		return core.Transaction{}, err
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", saved.ID,
		"type", saved.Type,
		"amount", saved.Amount.Decimal.String(),
		"date", saved.Date.String(),
		"backend", r.dialect.Name)
	return saved, nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insertTransaction(ctx context.Context, db queryRower, d Dialect, t core.Transaction) (core.Transaction, error) {
	err := db.QueryRowContext(ctx,
		d.Rebind("INSERT INTO transactions (description, amount, type, category, date) VALUES (?, ?, ?, ?, ?) RETURNING id"),
		t.Description, t.Amount, t.Type, t.Category, t.Date,
	).Scan(&t.ID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	return t, nil
}
