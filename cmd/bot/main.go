// cmd/bot/main.go
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/errgroup"

	"finance-bot/internal/app"
	"finance-bot/internal/config"
	"finance-bot/internal/logger"
)

// Long-polling entrypoint for running without a public URL.
func main() {
	cfg := config.MustLoad()
	logger.Setup(cfg.Env)

	if cfg.Telegram.Token == "" {
		slog.Error("TELEGRAM_BOT_TOKEN not set")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("❌ startup failed", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := run(ctx, a); err != nil {
		slog.Error("❌ bot stopped with error", "error", err)
		os.Exit(1)
	}
	slog.Info("👋 bot stopped")
}

func run(ctx context.Context, a *app.App) error {
	// getUpdates is refused while a webhook is set
	if _, err := a.Bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return err
	}

	if err := a.Pool.Start(ctx); err != nil {
		return err
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := a.Bot.GetUpdatesChan(u)
	slog.Info("🤖 polling for updates", "account", a.Bot.Self.UserName)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.Gateway.Poll(gctx, updates)
	})
	g.Go(func() error {
		<-gctx.Done()
		a.Bot.StopReceivingUpdates()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		if err := a.Pool.Stop(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return nil
	})

	return g.Wait()
}
