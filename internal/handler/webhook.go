// internal/handler/webhook.go
package handler

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"finance-bot/internal/telegram"
)

type UpdateHandler interface {
	HandleUpdate(ctx context.Context, u tgbotapi.Update) error
}

type WebhookHandler struct {
	updates UpdateHandler
	secret  string
}

func NewWebhookHandler(updates UpdateHandler, secret string) *WebhookHandler {
	return &WebhookHandler{updates: updates, secret: secret}
}

// Receive godoc
// @Summary Telegram webhook
// @Description Accepts one update. Answers 200 even for payloads it cannot use so Telegram does not redeliver them.
// @Tags telegram
// @Accept json
// @Produce json
// @Success 200 {object} map[string]bool{"ok":true}
// @Failure 401 {object} map[string]string
// @Router /api/telegram/webhook [post]
func (h *WebhookHandler) Receive(c *gin.Context) {
	if h.secret != "" {
		got := c.GetHeader(telegram.SecretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.secret)) != 1 {
			slog.Warn("⚠️ webhook with bad secret", "remote", c.ClientIP())
			c.JSON(http.StatusUnauthorized, gin.H{"error": "bad secret token"})
			return
		}
	}

	var update tgbotapi.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		slog.Warn("⚠️ unparsable update", "error", err)
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	if err := h.updates.HandleUpdate(c.Request.Context(), update); err != nil {
		slog.Error("❌ handle update", "update_id", update.UpdateID, "error", err)
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
