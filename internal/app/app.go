// Package app assembles the components shared by the api and bot binaries.
package app

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"finance-bot/internal/classifier"
	"finance-bot/internal/composer"
	"finance-bot/internal/config"
	"finance-bot/internal/domain"
	"finance-bot/internal/ledger"
	"finance-bot/internal/normalizer"
	"finance-bot/internal/pipeline"
	"finance-bot/internal/storage"
	"finance-bot/internal/storage/postgres"
	"finance-bot/internal/storage/sqlite"
	"finance-bot/internal/telegram"
	"finance-bot/internal/worker"
)

type App struct {
	Config   config.Config
	Store    storage.Store
	Ledger   *ledger.Ledger
	Composer *composer.Composer
	Pipeline *pipeline.Pipeline
	Pool     *worker.Pool
	Gateway  *telegram.Gateway
	Sender   *telegram.Sender

	// Bot is nil when no token is configured; replies are then only logged.
	Bot *tgbotapi.BotAPI
}

// OpenStore connects to the configured database and applies migrations.
func OpenStore(ctx context.Context, cfg config.Config) (storage.Store, error) {
	switch cfg.DBDriver {
	case "postgres":
		return postgres.Open(ctx, cfg.DBConn)
	case "sqlite":
		return sqlite.New(ctx, cfg.DBConn)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// New wires storage, classifier, pipeline, worker pool and gateway. The pool
// is not started.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	slog.Info("🗄️ storage ready", "driver", cfg.DBDriver)

	a, err := wire(ctx, cfg, store)
	if err != nil {
		store.Close()
		return nil, err
	}
	return a, nil
}

func wire(ctx context.Context, cfg config.Config, store storage.Store) (*App, error) {
	l := ledger.New(store)
	if err := l.SeedCategories(ctx, domain.DefaultCategories); err != nil {
		return nil, fmt.Errorf("seed categories: %w", err)
	}
	cats, err := l.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}

	cls, err := classifier.New(ctx, cfg.Classifier, cats)
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}

	var (
		bot *tgbotapi.BotAPI
		api telegram.BotAPI
	)
	if cfg.Telegram.Token != "" {
		bot, err = tgbotapi.NewBotAPI(cfg.Telegram.Token)
		if err != nil {
			return nil, fmt.Errorf("telegram bot: %w", err)
		}
		api = bot
		slog.Info("🤖 authorized on telegram", "account", bot.Self.UserName)
	} else {
		slog.Warn("⚠️ TELEGRAM_BOT_TOKEN not set, replies will only be logged")
	}

	comp := composer.New(cfg.Bot.Language, cfg.Bot.CurrencySymbol)
	sender := telegram.NewSender(api)
	p := pipeline.New(cls, l, normalizer.New(cats), comp, sender, cfg.Bot.SummaryWindowDays)
	pool := worker.NewPool(cfg.Worker, p.Process)

	return &App{
		Config:   cfg,
		Store:    store,
		Ledger:   l,
		Composer: comp,
		Pipeline: p,
		Pool:     pool,
		Gateway:  telegram.NewGateway(pool, sender, comp),
		Sender:   sender,
		Bot:      bot,
	}, nil
}

func (a *App) Close() {
	a.Store.Close()
}
