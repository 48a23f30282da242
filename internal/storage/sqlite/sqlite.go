// Package sqlite is the single-file storage backend used for local runs and tests.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"finance-bot/internal/domain"
	"finance-bot/internal/storage"
	"finance-bot/migrations"
)

// timestamps are stored as fixed-width UTC text so they sort lexicographically
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type Storage struct {
	db *sql.DB
}

var _ storage.Store = (*Storage)(nil)

const fileOptions = "_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

// buildDSN appends connection options to a file path, keeping any query the
// path already carries, and creates the parent directory.
func buildDSN(path string) (string, error) {
	if path == ":memory:" {
		return path, nil
	}
	if path == "" || strings.Contains(path, "://") {
		return "", fmt.Errorf("sqlite needs a file path, got %q", path)
	}

	file, query, hasQuery := strings.Cut(strings.TrimPrefix(path, "file:"), "?")
	if err := os.MkdirAll(filepath.Dir(file), 0o750); err != nil {
		return "", fmt.Errorf("create database directory: %w", err)
	}
	if hasQuery && query != "" {
		return path + "&" + fileOptions, nil
	}
	return strings.TrimSuffix(path, "?") + "?" + fileOptions, nil
}

// New opens (or creates) the database at path and applies migrations.
// Use ":memory:" for a throwaway database.
func New(ctx context.Context, path string) (*Storage, error) {
	dsn, err := buildDSN(path)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one connection: writes are serialized and ":memory:" stays a single database
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := migrations.Up(ctx, db, "sqlite"); err != nil {
		db.Close()
		return nil, err
	}

	slog.Debug("sqlite storage ready", "path", path)
	return &Storage{db: db}, nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Storage) Close() {
	if err := s.db.Close(); err != nil {
		slog.Warn("close sqlite", "error", err)
	}
}

// === UserStorage ===

const userColumns = `id, external_id, email, first_name, last_name, username, balance, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u       domain.User
		created string
	)
	if err := row.Scan(&u.ID, &u.ExternalID, &u.Email, &u.FirstName, &u.LastName, &u.Username, &u.Balance, &created); err != nil {
		return nil, err
	}
	t, err := time.Parse(timeLayout, created)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	u.CreatedAt = t
	return &u, nil
}

func (s *Storage) UpsertUser(ctx context.Context, id domain.Identity) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO users (id, external_id, first_name, last_name, username, balance, created_at)
		VALUES (?, ?, ?, ?, ?, '0', ?)
		ON CONFLICT (external_id) DO UPDATE SET
			first_name = COALESCE(NULLIF(excluded.first_name, ''), users.first_name),
			last_name  = COALESCE(NULLIF(excluded.last_name, ''), users.last_name),
			username   = COALESCE(NULLIF(excluded.username, ''), users.username)
		RETURNING `+userColumns,
		uuid.NewString(), id.ExternalID, id.FirstName, id.LastName, id.Username, formatTime(time.Now()))

	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return u, nil
}

func (s *Storage) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.findUser(ctx, "id", userID)
}

func (s *Storage) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.findUser(ctx, "email", email)
}

func (s *Storage) findUser(ctx context.Context, column, value string) (*domain.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+column+` = ?`, value))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user by %s: %w", column, err)
	}
	return u, nil
}

func (s *Storage) SetEmail(ctx context.Context, userID, email string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET email = ? WHERE id = ?`, email, userID)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrEmailTaken
		}
		return fmt.Errorf("set email: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storage.ErrUserNotFound
	}
	return nil
}

// === TransactionStorage ===

func (s *Storage) ApplyTransaction(ctx context.Context, t domain.Transaction) (decimal.Decimal, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var balance decimal.Decimal
	err = tx.QueryRowContext(ctx, `SELECT balance FROM users WHERE id = ?`, t.UserID).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, storage.ErrUserNotFound
		}
		return decimal.Zero, fmt.Errorf("read balance: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, amount, type, description, category, source_message_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, source_message_id) DO NOTHING
	`, t.ID, t.UserID, t.Amount.String(), string(t.Type), t.Description, t.Category, t.SourceMessageID, formatTime(t.CreatedAt))
	if err != nil {
		return decimal.Zero, fmt.Errorf("insert transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return decimal.Zero, storage.ErrDuplicateMessage
	}

	balance = balance.Add(t.Signed())
	if _, err := tx.ExecContext(ctx, `UPDATE users SET balance = ? WHERE id = ?`, balance.String(), t.UserID); err != nil {
		return decimal.Zero, fmt.Errorf("update balance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return decimal.Zero, fmt.Errorf("commit tx: %w", err)
	}
	return balance, nil
}

func (s *Storage) ResetUser(ctx context.Context, userID string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id = ?`, userID).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, storage.ErrUserNotFound
		}
		return false, fmt.Errorf("find user: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE user_id = ?`, userID)
	if err != nil {
		return false, fmt.Errorf("delete transactions: %w", err)
	}
	deleted, _ := res.RowsAffected()

	if _, err := tx.ExecContext(ctx, `UPDATE users SET balance = '0' WHERE id = ?`, userID); err != nil {
		return false, fmt.Errorf("zero balance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit tx: %w", err)
	}
	return deleted > 0, nil
}

func (s *Storage) Summarize(ctx context.Context, userID string, since time.Time) (domain.Summary, error) {
	sum := domain.Summary{Income: decimal.Zero, Expense: decimal.Zero}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return sum, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := tx.QueryRowContext(ctx, `SELECT balance FROM users WHERE id = ?`, userID).Scan(&sum.Balance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sum, storage.ErrUserNotFound
		}
		return sum, fmt.Errorf("read balance: %w", err)
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT amount, type FROM transactions
		WHERE user_id = ? AND created_at >= ?
	`, userID, formatTime(since))
	if err != nil {
		return sum, fmt.Errorf("query window: %w", err)
	}
	defer rows.Close()

	// amounts are TEXT; SQL SUM would go through floating point
	for rows.Next() {
		var (
			amount decimal.Decimal
			typ    string
		)
		if err := rows.Scan(&amount, &typ); err != nil {
			return sum, fmt.Errorf("scan amount: %w", err)
		}
		if domain.TransactionType(typ) == domain.Income {
			sum.Income = sum.Income.Add(amount)
		} else {
			sum.Expense = sum.Expense.Add(amount)
		}
		sum.Count++
	}
	if err := rows.Err(); err != nil {
		return sum, fmt.Errorf("rows error: %w", err)
	}
	return sum, nil
}

func (s *Storage) ListTransactions(ctx context.Context, f storage.TransactionFilter) ([]domain.Transaction, error) {
	query := `SELECT id, user_id, amount, type, description, category, source_message_id, created_at FROM transactions`
	var args []any
	if f.UserID != "" {
		query += ` WHERE user_id = ?`
		args = append(args, f.UserID)
	}
	query += ` ORDER BY created_at DESC, rowid DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	txs := make([]domain.Transaction, 0)
	for rows.Next() {
		var (
			t       domain.Transaction
			typ     string
			created string
		)
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount, &typ, &t.Description, &t.Category, &t.SourceMessageID, &created); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Type = domain.TransactionType(typ)
		if t.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

func (s *Storage) CategoryTotals(ctx context.Context, userID string) ([]domain.CategoryTotal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, type, amount FROM transactions
		WHERE user_id = ?
		ORDER BY category
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("category totals: %w", err)
	}
	defer rows.Close()

	totals := make([]domain.CategoryTotal, 0)
	index := make(map[string]int)
	for rows.Next() {
		var (
			category, typ string
			amount        decimal.Decimal
		)
		if err := rows.Scan(&category, &typ, &amount); err != nil {
			return nil, fmt.Errorf("scan total: %w", err)
		}
		i, ok := index[category]
		if !ok {
			i = len(totals)
			index[category] = i
			totals = append(totals, domain.CategoryTotal{Category: category, Income: decimal.Zero, Expense: decimal.Zero})
		}
		if domain.TransactionType(typ) == domain.Income {
			totals[i].Income = totals[i].Income.Add(amount)
		} else {
			totals[i].Expense = totals[i].Expense.Add(amount)
		}
	}
	return totals, rows.Err()
}

// === CategoryStorage ===

func (s *Storage) SeedCategories(ctx context.Context, cats []domain.Category) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, c := range cats {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO categories (name, type) VALUES (?, ?)
			ON CONFLICT (name, type) DO NOTHING
		`, strings.TrimSpace(c.Name), string(c.Type))
		if err != nil {
			return fmt.Errorf("seed category %q: %w", c.Name, err)
		}
	}
	return tx.Commit()
}

func (s *Storage) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, type FROM categories ORDER BY type, id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	cats := make([]domain.Category, 0)
	for rows.Next() {
		var (
			c   domain.Category
			typ string
		)
		if err := rows.Scan(&c.Name, &typ); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.Type = domain.TransactionType(typ)
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique
}
