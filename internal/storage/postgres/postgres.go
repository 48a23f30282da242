// internal/storage/postgres/postgres.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"finance-bot/internal/domain"
	"finance-bot/internal/storage"
)

const uniqueViolation = "23505"

type Storage struct {
	db *pgxpool.Pool
}

var _ storage.Store = (*Storage)(nil)

func NewStorage(db *pgxpool.Pool) *Storage {
	return &Storage{db: db}
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *Storage) Close() {
	s.db.Close()
}

// === UserStorage ===

const userColumns = `id::text, external_id, email, first_name, last_name, username, balance, created_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.ExternalID, &u.Email, &u.FirstName, &u.LastName, &u.Username, &u.Balance, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Storage) UpsertUser(ctx context.Context, id domain.Identity) (*domain.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, `
		INSERT INTO users (id, external_id, first_name, last_name, username)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (external_id) DO UPDATE SET
			first_name = COALESCE(NULLIF(EXCLUDED.first_name, ''), users.first_name),
			last_name  = COALESCE(NULLIF(EXCLUDED.last_name, ''), users.last_name),
			username   = COALESCE(NULLIF(EXCLUDED.username, ''), users.username)
		RETURNING `+userColumns,
		uuid.NewString(), id.ExternalID, id.FirstName, id.LastName, id.Username))
	if err != nil {
		return nil, fmt.Errorf("create or get user: %w", err)
	}
	return u, nil
}

func (s *Storage) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, nil
	}
	u, err := scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

func (s *Storage) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

func (s *Storage) SetEmail(ctx context.Context, userID, email string) error {
	tag, err := s.db.Exec(ctx, `UPDATE users SET email = $2 WHERE id = $1`, userID, email)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return storage.ErrEmailTaken
		}
		return fmt.Errorf("set email: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrUserNotFound
	}
	return nil
}

// === TransactionStorage ===

// ApplyTransaction moves the balance first: the UPDATE takes the user row
// lock, so concurrent applies for one user queue up here.
func (s *Storage) ApplyTransaction(ctx context.Context, t domain.Transaction) (decimal.Decimal, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var balance decimal.Decimal
	err = tx.QueryRow(ctx, `
		UPDATE users SET balance = balance + $2 WHERE id = $1 RETURNING balance
	`, t.UserID, t.Signed()).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, storage.ErrUserNotFound
		}
		return decimal.Zero, fmt.Errorf("update balance: %w", err)
	}

	tag, err := tx.Exec(ctx, `
		INSERT INTO transactions (id, user_id, amount, type, description, category, source_message_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, source_message_id) DO NOTHING
	`, t.ID, t.UserID, t.Amount, string(t.Type), t.Description, t.Category, t.SourceMessageID, t.CreatedAt)
	if err != nil {
		return decimal.Zero, fmt.Errorf("insert transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// rollback undoes the balance move
		return decimal.Zero, storage.ErrDuplicateMessage
	}

	if err := tx.Commit(ctx); err != nil {
		return decimal.Zero, fmt.Errorf("commit tx: %w", err)
	}

	slog.Debug("transaction applied", "user_id", t.UserID, "transaction_id", t.ID)
	return balance, nil
}

func (s *Storage) ResetUser(ctx context.Context, userID string) (bool, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// lock the user row before purging
	tag, err := tx.Exec(ctx, `UPDATE users SET balance = 0 WHERE id = $1`, userID)
	if err != nil {
		return false, fmt.Errorf("zero balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, storage.ErrUserNotFound
	}

	tag, err = tx.Exec(ctx, `DELETE FROM transactions WHERE user_id = $1`, userID)
	if err != nil {
		return false, fmt.Errorf("delete transactions: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit tx: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Summarize reads the window and the balance from one snapshot.
func (s *Storage) Summarize(ctx context.Context, userID string, since time.Time) (domain.Summary, error) {
	var sum domain.Summary

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return sum, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx, `SELECT balance FROM users WHERE id = $1`, userID).Scan(&sum.Balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return sum, storage.ErrUserNotFound
		}
		return sum, fmt.Errorf("read balance: %w", err)
	}

	err = tx.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0),
			COUNT(*)
		FROM transactions
		WHERE user_id = $1 AND created_at >= $2
	`, userID, since).Scan(&sum.Income, &sum.Expense, &sum.Count)
	if err != nil {
		return sum, fmt.Errorf("aggregate window: %w", err)
	}

	return sum, tx.Commit(ctx)
}

func (s *Storage) ListTransactions(ctx context.Context, f storage.TransactionFilter) ([]domain.Transaction, error) {
	query := `
		SELECT id::text, user_id::text, amount, type, description, category, source_message_id, created_at
		FROM transactions`
	var args []any
	if f.UserID != "" {
		args = append(args, f.UserID)
		query += fmt.Sprintf(" WHERE user_id = $%d", len(args))
	}
	query += " ORDER BY created_at DESC, id"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	txs := make([]domain.Transaction, 0)
	for rows.Next() {
		var (
			t   domain.Transaction
			typ string
		)
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount, &typ, &t.Description, &t.Category, &t.SourceMessageID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Type = domain.TransactionType(typ)
		txs = append(txs, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return txs, nil
}

func (s *Storage) CategoryTotals(ctx context.Context, userID string) ([]domain.CategoryTotal, error) {
	rows, err := s.db.Query(ctx, `
		SELECT
			category,
			COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0)
		FROM transactions
		WHERE user_id = $1
		GROUP BY category
		ORDER BY category
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("category totals: %w", err)
	}
	defer rows.Close()

	totals := make([]domain.CategoryTotal, 0)
	for rows.Next() {
		var ct domain.CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Income, &ct.Expense); err != nil {
			return nil, fmt.Errorf("scan total: %w", err)
		}
		totals = append(totals, ct)
	}
	return totals, rows.Err()
}

// === CategoryStorage ===

func (s *Storage) SeedCategories(ctx context.Context, cats []domain.Category) error {
	batch := &pgx.Batch{}
	for _, c := range cats {
		batch.Queue(`
			INSERT INTO categories (name, type) VALUES ($1, $2)
			ON CONFLICT (name, type) DO NOTHING
		`, c.Name, string(c.Type))
	}

	br := s.db.SendBatch(ctx, batch)
	defer br.Close()

	for _, c := range cats {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("seed category %q: %w", c.Name, err)
		}
	}
	return nil
}

func (s *Storage) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.db.Query(ctx, `SELECT name, type FROM categories ORDER BY type, id`)
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
