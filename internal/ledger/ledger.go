// Package ledger owns per-user balances and transaction history.
//
// Every mutation of one user (apply, reset) runs under that user's lock and
// inside a single storage transaction, so the stored balance always equals
// the signed sum of the stored transactions. Different users never contend.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"finance-bot/internal/domain"
	"finance-bot/internal/storage"
	val "finance-bot/internal/validator"
)

var (
	ErrInvalidEmail     = errors.New("invalid email")
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrUserNotFound     = storage.ErrUserNotFound
	ErrDuplicateMessage = storage.ErrDuplicateMessage
	ErrEmailTaken       = storage.ErrEmailTaken
)

type Ledger struct {
	store storage.Store
	locks *userLocks
	now   func() time.Time
}

func New(store storage.Store) *Ledger {
	return &Ledger{
		store: store,
		locks: newUserLocks(),
		now:   time.Now,
	}
}

// GetOrCreateUser is safe under concurrent first contact: the storage upsert
// is keyed on the unique external id.
func (l *Ledger) GetOrCreateUser(ctx context.Context, id domain.Identity) (*domain.User, error) {
	if strings.TrimSpace(id.ExternalID) == "" {
		return nil, errors.New("empty external id")
	}
	return l.store.UpsertUser(ctx, id)
}

func (l *Ledger) Apply(ctx context.Context, userID string, vt domain.ValidTransaction) (domain.ApplyResult, error) {
	if !vt.Amount.IsPositive() {
		return domain.ApplyResult{}, ErrInvalidAmount
	}
	if !vt.Type.Valid() {
		return domain.ApplyResult{}, fmt.Errorf("unknown transaction type %q", vt.Type)
	}

	tx := domain.Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		Amount:      vt.Amount,
		Type:        vt.Type,
		Description: vt.Description,
		Category:    vt.Category,
		CreatedAt:   l.now().UTC(),
	}
	if vt.SourceMessageID != "" {
		msgID := vt.SourceMessageID
		tx.SourceMessageID = &msgID
	}

	unlock := l.locks.lock(userID)
	defer unlock()

	balance, err := l.store.ApplyTransaction(ctx, tx)
	if err != nil {
		return domain.ApplyResult{}, fmt.Errorf("apply transaction: %w", err)
	}

	slog.Info("💾 transaction recorded",
		"user_id", userID,
		"transaction_id", tx.ID,
		"type", tx.Type,
		"amount", tx.Amount.String(),
		"category", tx.Category,
	)
	return domain.ApplyResult{TransactionID: tx.ID, NewBalance: balance}, nil
}

// Reset removes all of the user's transactions and zeroes the balance.
// It reports whether there was anything to remove.
func (l *Ledger) Reset(ctx context.Context, userID string) (bool, error) {
	unlock := l.locks.lock(userID)
	defer unlock()

	had, err := l.store.ResetUser(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("reset user: %w", err)
	}
	slog.Info("🧹 user data reset", "user_id", userID, "had_data", had)
	return had, nil
}

// BindIdentity attaches an email to the user. The value is trimmed and
// lowercased before storage.
func (l *Ledger) BindIdentity(ctx context.Context, userID, email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := val.Validate.Var(email, "required,loose_email"); err != nil {
		return "", ErrInvalidEmail
	}
	if err := l.store.SetEmail(ctx, userID, email); err != nil {
		return "", fmt.Errorf("bind email: %w", err)
	}
	return email, nil
}

// Summarize aggregates the trailing windowDays ending now.
func (l *Ledger) Summarize(ctx context.Context, userID string, windowDays int) (domain.Summary, error) {
	if windowDays <= 0 {
		windowDays = 30
	}
	since := l.now().Add(-time.Duration(windowDays) * 24 * time.Hour)

	sum, err := l.store.Summarize(ctx, userID, since)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("summarize: %w", err)
	}
	sum.WindowDays = windowDays
	sum.Net = sum.Income.Sub(sum.Expense)
	return sum, nil
}

// Dashboard assembles the read model served to the web frontend.
func (l *Ledger) Dashboard(ctx context.Context, userID string, windowDays, limit int) (*domain.Dashboard, error) {
	user, err := l.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	txs, err := l.Transactions(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	totals, err := l.store.CategoryTotals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("category totals: %w", err)
	}
	sum, err := l.Summarize(ctx, userID, windowDays)
	if err != nil {
		return nil, err
	}

	return &domain.Dashboard{
		User:         *user,
		Balance:      sum.Balance,
		Transactions: txs,
		Categories:   totals,
		Summary:      sum,
	}, nil
}

// Transactions lists most recent first. An empty userID lists every user.
func (l *Ledger) Transactions(ctx context.Context, userID string, limit int) ([]domain.Transaction, error) {
	txs, err := l.store.ListTransactions(ctx, storage.TransactionFilter{UserID: userID, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

func (l *Ledger) UserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return l.store.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

func (l *Ledger) Categories(ctx context.Context) ([]domain.Category, error) {
	return l.store.ListCategories(ctx)
}

// SeedCategories may run while traffic is already flowing.
func (l *Ledger) SeedCategories(ctx context.Context, cats []domain.Category) error {
	if err := l.store.SeedCategories(ctx, cats); err != nil {
		return err
	}
	slog.Info("🌱 categories seeded", "count", len(cats))
	return nil
}
