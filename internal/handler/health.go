// internal/handler/health.go
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db                   Pinger
	telegramConfigured   bool
	classifierConfigured bool
}

func NewHealthHandler(db Pinger, telegramConfigured, classifierConfigured bool) *HealthHandler {
	return &HealthHandler{db: db, telegramConfigured: telegramConfigured, classifierConfigured: classifierConfigured}
}

// Health godoc
// @Summary Liveness and dependency status
// @Tags health
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 503 {object} map[string]any
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status, code, db := "ok", http.StatusOK, "ok"
	if err := h.db.Ping(ctx); err != nil {
		slog.Error("health: database ping failed", "error", err)
		status, code, db = "degraded", http.StatusServiceUnavailable, "unreachable"
	}

	c.JSON(code, gin.H{
		"status":                status,
		"database":              db,
		"telegram_configured":   h.telegramConfigured,
		"classifier_configured": h.classifierConfigured,
	})
}
