package postgres

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance-bot/internal/domain"
	"finance-bot/internal/storage"
)

// newTestStorage needs a disposable database in TEST_DATABASE_URL.
func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	s, err := Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(s.Close)

	_, err = s.db.Exec(ctx, `TRUNCATE transactions, users, categories`)
	require.NoError(t, err)
	return s
}

func TestPostgres_ApplyResetSummarize(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	u, err := s.UpsertUser(ctx, domain.Identity{ExternalID: "pg-1", FirstName: "Ana"})
	require.NoError(t, err)

	msg := "m-1"
	tx := domain.Transaction{
		ID: uuid.NewString(), UserID: u.ID, Amount: decimal.RequireFromString("500"),
		Type: domain.Expense, Description: "rent", Category: "Housing",
		CreatedAt: time.Now().UTC(), SourceMessageID: &msg,
	}
	bal, err := s.ApplyTransaction(ctx, tx)
	require.NoError(t, err)
	assert.True(t, bal.Equal(decimal.NewFromInt(-500)))

	tx.ID = uuid.NewString()
	_, err = s.ApplyTransaction(ctx, tx)
	assert.ErrorIs(t, err, storage.ErrDuplicateMessage)

	sum, err := s.Summarize(ctx, u.ID, time.Now().AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Count)
	assert.True(t, sum.Expense.Equal(decimal.NewFromInt(500)))
	assert.True(t, sum.Balance.Equal(decimal.NewFromInt(-500)))

	had, err := s.ResetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, had)
	had, err = s.ResetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, had)
}

func TestPostgres_ConcurrentApply(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	u, err := s.UpsertUser(ctx, domain.Identity{ExternalID: "pg-2"})
	require.NoError(t, err)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.ApplyTransaction(ctx, domain.Transaction{
				ID: uuid.NewString(), UserID: u.ID, Amount: decimal.NewFromInt(7),
				Type: domain.Income, Description: "tip", Category: domain.FallbackCategory,
				CreatedAt: time.Now().UTC(),
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, stored.Balance.Equal(decimal.NewFromInt(7*n)))

	txs, err := s.ListTransactions(ctx, storage.TransactionFilter{UserID: u.ID})
	require.NoError(t, err)
	assert.Len(t, txs, n)
}

func TestPostgres_SeedCategoriesConcurrently(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.SeedCategories(ctx, domain.DefaultCategories))
		}()
	}
	wg.Wait()

	cats, err := s.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, len(domain.DefaultCategories))
}
