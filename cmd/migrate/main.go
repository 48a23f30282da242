// cmd/migrate/main.go
package main

import (
	"context"
	"log/slog"
	"os"

	"finance-bot/internal/app"
	"finance-bot/internal/config"
	"finance-bot/internal/logger"
)

func main() {
	cfg := config.MustLoad()
	logger.Setup(cfg.Env)

	slog.Info("Применяем миграции", "driver", cfg.DBDriver)

	// opening the store applies the embedded migrations
	store, err := app.OpenStore(context.Background(), cfg)
	if err != nil {
		slog.Error("Миграции завершились с ошибкой", "error", err)
		os.Exit(1)
	}
	store.Close()

	slog.Info("✅ Миграции применены")
}
