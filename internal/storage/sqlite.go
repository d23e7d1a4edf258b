package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/akashreddykandula/spendWise/internal/core"
)

// SQLiteRepository persists transactions and budgets in a local SQLite
// database. Dates are stored as unix seconds in UTC.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) Find(ctx context.Context, q Query) ([]core.Transaction, error) {
	query := `SELECT id, owner, amount_cents, type, category, payment_mode, date
		FROM transactions WHERE owner = ?`
	args := []any{q.Owner}

	if !q.From.IsZero() {
		query += " AND date >= ?"
		args = append(args, q.From.UTC().Unix())
	}
	if !q.To.IsZero() {
		query += " AND date <= ?"
		args = append(args, q.To.UTC().Unix())
	}
	query += " ORDER BY date ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		var tx core.Transaction
		var dateUnix int64
		if err := rows.Scan(&tx.ID, &tx.Owner, &tx.Amount.Cents, &tx.Type, &tx.Category, &tx.PaymentMode, &dateUnix); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.Date = time.Unix(dateUnix, 0).UTC()
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	return txs, nil
}

func (r *SQLiteRepository) ListOwners(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT DISTINCT owner FROM transactions ORDER BY owner")
	if err != nil {
		return nil, fmt.Errorf("query owners: %w", err)
	}
	defer rows.Close()

	var owners []string
	for rows.Next() {
		var owner string
		if err := rows.Scan(&owner); err != nil {
			return nil, fmt.Errorf("scan owner: %w", err)
		}
		owners = append(owners, owner)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate owners: %w", err)
	}

	return owners, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}

	id := tx.ID
	if id == "" {
		id = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, owner, amount_cents, type, category, payment_mode, date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, tx.Owner, tx.Amount.Cents, string(tx.Type), tx.Category, tx.PaymentMode, tx.Date.UTC().Unix())
	if err != nil {
		return "", fmt.Errorf("insert transaction: %w", err)
	}

	return id, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, owner, id string) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM transactions WHERE owner = ? AND id = ?", owner, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrTransactionNotFound
	}

	return nil
}

func (r *SQLiteRepository) GetBudget(ctx context.Context, owner string) (core.Budget, error) {
	b := core.Budget{Owner: owner}

	err := r.db.QueryRowContext(ctx,
		"SELECT monthly_cents FROM budgets WHERE owner = ?", owner).Scan(&b.Monthly.Cents)
	if err == sql.ErrNoRows {
		return core.Budget{}, ErrBudgetNotFound
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("query budget: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT category, limit_cents FROM category_budgets WHERE owner = ?", owner)
	if err != nil {
		return core.Budget{}, fmt.Errorf("query category budgets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var category string
		var limit core.Money
		if err := rows.Scan(&category, &limit.Cents); err != nil {
			return core.Budget{}, fmt.Errorf("scan category budget: %w", err)
		}
		if b.Categories == nil {
			b.Categories = make(map[string]core.Money)
		}
		b.Categories[category] = limit
	}
	if err := rows.Err(); err != nil {
		return core.Budget{}, fmt.Errorf("iterate category budgets: %w", err)
	}

	return b, nil
}

func (r *SQLiteRepository) UpsertBudget(ctx context.Context, b core.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	_, err = dbTx.ExecContext(ctx,
		`INSERT INTO budgets (owner, monthly_cents, updated_at) VALUES (?, ?, strftime('%s', 'now'))
		ON CONFLICT (owner) DO UPDATE SET monthly_cents = excluded.monthly_cents, updated_at = excluded.updated_at`,
		b.Owner, b.Monthly.Cents)
	if err != nil {
		return fmt.Errorf("upsert budget: %w", err)
	}

	// Replace the category set wholesale so removed categories disappear.
	if _, err := dbTx.ExecContext(ctx, "DELETE FROM category_budgets WHERE owner = ?", b.Owner); err != nil {
		return fmt.Errorf("clear category budgets: %w", err)
	}
	for category, limit := range b.Categories {
		_, err := dbTx.ExecContext(ctx,
			"INSERT INTO category_budgets (owner, category, limit_cents) VALUES (?, ?, ?)",
			b.Owner, category, limit.Cents)
		if err != nil {
			return fmt.Errorf("insert category budget: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("commit budget: %w", err)
	}

	return nil
}
