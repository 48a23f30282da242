// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"finance-bot/internal/app"
	"finance-bot/internal/auth"
	"finance-bot/internal/config"
	"finance-bot/internal/handler"
	"finance-bot/internal/logger"
	"finance-bot/internal/middleware"
	"finance-bot/internal/telegram"
)

const shutdownTimeout = 20 * time.Second

func main() {
	cfg := config.MustLoad()
	logger.Setup(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("❌ startup failed", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := run(ctx, a); err != nil {
		slog.Error("❌ server stopped with error", "error", err)
		os.Exit(1)
	}
	slog.Info("👋 server stopped")
}

func run(ctx context.Context, a *app.App) error {
	cfg := a.Config

	var webhook *handler.WebhookHandler
	if a.Bot != nil {
		webhook = handler.NewWebhookHandler(a.Gateway, cfg.Telegram.WebhookSecret)
		if cfg.Telegram.WebhookURL != "" {
			if _, err := telegram.RegisterWebhook(a.Bot, cfg.Telegram.WebhookURL, cfg.Telegram.WebhookSecret); err != nil {
				return err
			}
		}
	}

	tokens := auth.NewTokenService(cfg)
	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handler.NewRouter(
		handler.NewDashboardHandler(a.Ledger, cfg.Bot.SummaryWindowDays, cfg.Bot.DashboardTxLimit),
		handler.NewLoginHandler(a.Ledger, auth.NewLoginCodes(cfg.LoginCodeTTL), tokens, a.Sender, a.Composer, cfg.LoginCodeTTL),
		webhook,
		handler.NewHealthHandler(a.Store, a.Bot != nil, cfg.Classifier.APIKey != ""),
		middleware.NewAuthMiddleware(tokens).RequireAuth(),
	)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if err := a.Pool.Start(ctx); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("🚀 server started", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("🛑 shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		// stop intake first, then let queued messages finish
		err := srv.Shutdown(shutdownCtx)
		return errors.Join(err, a.Pool.Stop(shutdownCtx))
	})

	return g.Wait()
}
