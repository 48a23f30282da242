package classifier

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"finance-bot/internal/config"
	"finance-bot/internal/domain"
)

// New builds the configured provider. Without an API key it returns a
// classifier that always fails, so the bot still answers commands.
func New(ctx context.Context, cfg config.Classifier, cats []domain.Category) (Classifier, error) {
	if cfg.APIKey == "" {
		slog.Warn("⚠️ classifier API key not set, free-text transactions are disabled")
		return unavailable{}, nil
	}

	switch strings.ToLower(cfg.Provider) {
	case "", "groq", "openai":
		return NewGroq(cfg, cats), nil
	case "gemini":
		g, err := NewGemini(ctx, cfg, cats)
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, fmt.Errorf("unknown classifier provider %q", cfg.Provider)
	}
}
