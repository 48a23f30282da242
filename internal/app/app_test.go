package app

import (
	"context"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance-bot/internal/config"
	"finance-bot/internal/domain"
)

func testConfig() config.Config {
	return config.Config{
		DBDriver: "sqlite",
		DBConn:   ":memory:",
		Worker:   config.Worker{Count: 2, QueueSize: 4, JobTimeout: time.Second},
		Bot:      config.Bot{Language: "en", CurrencySymbol: "$", SummaryWindowDays: 30, DashboardTxLimit: 100},
	}
}

func TestNew_WiresEndToEnd(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, testConfig())
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.Bot)

	cats, err := a.Ledger.Categories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, len(domain.DefaultCategories))

	require.NoError(t, a.Pool.Start(ctx))
	update := tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 1,
		From:      &tgbotapi.User{ID: 77, FirstName: "Ana"},
		Chat:      &tgbotapi.Chat{ID: 77},
		Text:      "Paid $500 rent",
	}}
	require.NoError(t, a.Gateway.HandleUpdate(ctx, update))
	require.NoError(t, a.Pool.Stop(ctx))

	// without an API key the classifier always fails, so nothing is recorded
	u, err := a.Ledger.GetOrCreateUser(ctx, domain.Identity{ExternalID: "77"})
	require.NoError(t, err)
	assert.Equal(t, "Ana", u.FirstName)
	assert.True(t, u.Balance.IsZero())
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	cfg := testConfig()
	cfg.DBDriver = "mysql"
	_, err := OpenStore(context.Background(), cfg)
	assert.ErrorContains(t, err, "mysql")
}
