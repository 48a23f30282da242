package ledger

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance-bot/internal/domain"
	"finance-bot/internal/storage/sqlite"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	store, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return New(store)
}

func newUser(t *testing.T, l *Ledger, externalID string) *domain.User {
	t.Helper()
	u, err := l.GetOrCreateUser(context.Background(), domain.Identity{ExternalID: externalID, FirstName: "Test"})
	require.NoError(t, err)
	return u
}

func validTx(amount string, typ domain.TransactionType) domain.ValidTransaction {
	return domain.ValidTransaction{
		Amount:      decimal.RequireFromString(amount),
		Type:        typ,
		Description: "test",
		Category:    domain.FallbackCategory,
	}
}

func assertBalanceMatchesLog(t *testing.T, l *Ledger, userID string) {
	t.Helper()
	ctx := context.Background()

	txs, err := l.Transactions(ctx, userID, 0)
	require.NoError(t, err)
	want := decimal.Zero
	for _, tx := range txs {
		want = want.Add(tx.Signed())
	}

	u, err := l.store.GetUser(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.True(t, want.Equal(u.Balance), "balance %s, log sum %s", u.Balance, want)
}

func TestApply_BalanceMatchesLogAfterEveryApply(t *testing.T) {
	l := newTestLedger(t)
	u := newUser(t, l, "1")
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 50; i++ {
		typ := domain.Income
		if rng.Intn(2) == 0 {
			typ = domain.Expense
		}
		amount := decimal.New(int64(rng.Intn(100000)+1), -2)

		res, err := l.Apply(context.Background(), u.ID, domain.ValidTransaction{
			Amount: amount, Type: typ, Description: "random", Category: domain.FallbackCategory,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, res.TransactionID)

		assertBalanceMatchesLog(t, l, u.ID)
	}
}

func TestApply_RejectsNonPositiveAmount(t *testing.T) {
	l := newTestLedger(t)
	u := newUser(t, l, "1")

	_, err := l.Apply(context.Background(), u.ID, validTx("0", domain.Income))
	assert.ErrorIs(t, err, ErrInvalidAmount)

	txs, err := l.Transactions(context.Background(), u.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestApply_DuplicateMessageIsRejected(t *testing.T) {
	l := newTestLedger(t)
	u := newUser(t, l, "1")

	vt := validTx("15", domain.Expense)
	vt.SourceMessageID = "99"

	_, err := l.Apply(context.Background(), u.ID, vt)
	require.NoError(t, err)
	_, err = l.Apply(context.Background(), u.ID, vt)
	assert.ErrorIs(t, err, ErrDuplicateMessage)

	assertBalanceMatchesLog(t, l, u.ID)
}

func TestReset_TwiceInARow(t *testing.T) {
	l := newTestLedger(t)
	u := newUser(t, l, "1")
	ctx := context.Background()

	for _, a := range []string{"10", "20", "30"} {
		_, err := l.Apply(ctx, u.ID, validTx(a, domain.Income))
		require.NoError(t, err)
	}

	had, err := l.Reset(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, had)

	had, err = l.Reset(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, had)

	txs, err := l.Transactions(ctx, u.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, txs)

	got, err := l.store.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.IsZero())
}

func TestApply_ConcurrentSameUser(t *testing.T) {
	l := newTestLedger(t)
	u := newUser(t, l, "1")

	const n = 40
	amount := decimal.RequireFromString("12.34")

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			vt := domain.ValidTransaction{
				Amount: amount, Type: domain.Income, Description: "tip",
				Category: domain.FallbackCategory, SourceMessageID: strconv.Itoa(i),
			}
			_, err := l.Apply(context.Background(), u.ID, vt)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := l.store.GetUser(context.Background(), u.ID)
	require.NoError(t, err)
	assert.True(t, amount.Mul(decimal.NewFromInt(n)).Equal(got.Balance))

	txs, err := l.Transactions(context.Background(), u.ID, 0)
	require.NoError(t, err)
	assert.Len(t, txs, n)
	assert.Zero(t, l.locks.active())
}

func TestGetOrCreateUser_ConcurrentFirstContact(t *testing.T) {
	l := newTestLedger(t)

	ids := make(chan string, 10)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u, err := l.GetOrCreateUser(context.Background(), domain.Identity{ExternalID: "same"})
			if assert.NoError(t, err) {
				ids <- u.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	first := <-ids
	for id := range ids {
		assert.Equal(t, first, id)
	}
}

func TestBindIdentity(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	a := newUser(t, l, "a")
	b := newUser(t, l, "b")

	email, err := l.BindIdentity(ctx, a.ID, "  Ana@Mail.com ")
	require.NoError(t, err)
	assert.Equal(t, "ana@mail.com", email)

	_, err = l.BindIdentity(ctx, a.ID, "not-an-email")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = l.BindIdentity(ctx, b.ID, "ana@mail.com")
	assert.ErrorIs(t, err, ErrEmailTaken)

	found, err := l.UserByEmail(ctx, "ANA@mail.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, a.ID, found.ID)
	require.NotNil(t, found.Email)
	assert.Equal(t, "ana@mail.com", *found.Email)
}

func TestSummarize_TrailingWindow(t *testing.T) {
	l := newTestLedger(t)
	u := newUser(t, l, "1")
	ctx := context.Background()

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now.AddDate(0, 0, -31) }
	_, err := l.Apply(ctx, u.ID, validTx("999", domain.Income))
	require.NoError(t, err)

	l.now = func() time.Time { return now.AddDate(0, 0, -2) }
	_, err = l.Apply(ctx, u.ID, validTx("1000", domain.Income))
	require.NoError(t, err)
	_, err = l.Apply(ctx, u.ID, validTx("250.50", domain.Expense))
	require.NoError(t, err)

	l.now = func() time.Time { return now }
	sum, err := l.Summarize(ctx, u.ID, 30)
	require.NoError(t, err)

	assert.Equal(t, 30, sum.WindowDays)
	assert.Equal(t, 2, sum.Count)
	assert.Equal(t, "1000", sum.Income.String())
	assert.Equal(t, "250.5", sum.Expense.String())
	assert.Equal(t, "749.5", sum.Net.String())
	assert.Equal(t, "1748.5", sum.Balance.String())
}

func TestDashboard(t *testing.T) {
	l := newTestLedger(t)
	u := newUser(t, l, "1")
	ctx := context.Background()

	rent := validTx("500", domain.Expense)
	rent.Category = "Housing"
	_, err := l.Apply(ctx, u.ID, rent)
	require.NoError(t, err)
	_, err = l.Apply(ctx, u.ID, validTx("2000", domain.Income))
	require.NoError(t, err)

	d, err := l.Dashboard(ctx, u.ID, 30, 1)
	require.NoError(t, err)
	assert.Equal(t, u.ID, d.User.ID)
	assert.Equal(t, "1500", d.Balance.String())
	assert.Len(t, d.Transactions, 1)
	assert.Len(t, d.Categories, 2)
	assert.Equal(t, "1500", d.Summary.Net.String())

	_, err = l.Dashboard(ctx, "00000000-0000-0000-0000-000000000000", 30, 10)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
