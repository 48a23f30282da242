// internal/storage/storage.go
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"finance-bot/internal/domain"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrDuplicateMessage = errors.New("message already recorded")
	ErrEmailTaken       = errors.New("email already bound to another user")
)

// TransactionFilter bounds a transaction listing. An empty UserID lists all users.
type TransactionFilter struct {
	UserID string
	Limit  int
}

type UserStorage interface {
	// UpsertUser returns the user for identity.ExternalID, creating it with a
	// zero balance when unseen. Profile fields are refreshed on every call.
	UpsertUser(ctx context.Context, id domain.Identity) (*domain.User, error)
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	SetEmail(ctx context.Context, userID, email string) error
}

type TransactionStorage interface {
	// ApplyTransaction inserts tx and moves the owner's balance by tx.Signed()
	// in one database transaction, returning the new balance.
	ApplyTransaction(ctx context.Context, tx domain.Transaction) (decimal.Decimal, error)
	// ResetUser deletes every transaction of the user and zeroes the balance.
	// It reports whether anything was there to delete.
	ResetUser(ctx context.Context, userID string) (bool, error)
	// Summarize aggregates transactions created at or after since. Net and
	// WindowDays are left to the caller.
	Summarize(ctx context.Context, userID string, since time.Time) (domain.Summary, error)
	ListTransactions(ctx context.Context, f TransactionFilter) ([]domain.Transaction, error)
	CategoryTotals(ctx context.Context, userID string) ([]domain.CategoryTotal, error)
}

type CategoryStorage interface {
	// SeedCategories is an idempotent upsert keyed by (name, type).
	SeedCategories(ctx context.Context, cats []domain.Category) error
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

// Store is everything the ledger and the read API need from persistence.
type Store interface {
	UserStorage
	TransactionStorage
	CategoryStorage
	Ping(ctx context.Context) error
	Close()
}
