// internal/handler/dashboard.go
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"finance-bot/internal/domain"
	"finance-bot/internal/ledger"
	"finance-bot/internal/middleware"
)

const (
	defaultTransactionLimit = 50
	maxTransactionLimit     = 500
)

type DashboardService interface {
	Dashboard(ctx context.Context, userID string, windowDays, limit int) (*domain.Dashboard, error)
	Transactions(ctx context.Context, userID string, limit int) ([]domain.Transaction, error)
	Categories(ctx context.Context) ([]domain.Category, error)
}

type DashboardHandler struct {
	svc        DashboardService
	windowDays int
	txLimit    int
}

func NewDashboardHandler(svc DashboardService, windowDays, txLimit int) *DashboardHandler {
	return &DashboardHandler{svc: svc, windowDays: windowDays, txLimit: txLimit}
}

// Dashboard godoc
// @Summary Dashboard for the current user
// @Description Balance, recent transactions, category totals and trailing-window summary
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.Dashboard
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/dashboard [get]
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "user_id missing"})
		return
	}

	dash, err := h.svc.Dashboard(c.Request.Context(), userID, h.windowDays, h.txLimit)
	if errors.Is(err, ledger.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if err != nil {
		slog.Error("Dashboard failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, dash)
}

// Transactions godoc
// @Summary Transactions of the current user
// @Description Most recent first
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param limit query int false "1..500, default 50"
// @Success 200 {array} domain.Transaction
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/transactions [get]
func (h *DashboardHandler) Transactions(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "user_id missing"})
		return
	}

	var q TransactionsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a number"})
		return
	}
	if err := validateStruct(q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	limit := defaultTransactionLimit
	if q.Limit != nil {
		limit = *q.Limit
	}

	txs, err := h.svc.Transactions(c.Request.Context(), userID, limit)
	if err != nil {
		slog.Error("Transactions failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if txs == nil {
		txs = []domain.Transaction{}
	}
	c.JSON(http.StatusOK, txs)
}

// Categories godoc
// @Summary Reference categories
// @Tags dashboard
// @Produce json
// @Success 200 {array} domain.Category
// @Router /api/v1/categories [get]
func (h *DashboardHandler) Categories(c *gin.Context) {
	cats, err := h.svc.Categories(c.Request.Context())
	if err != nil {
		slog.Error("Categories failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, cats)
}

// === DTO ===

type TransactionsQuery struct {
	Limit *int `form:"limit" validate:"omitempty,min=1,max=500"`
}
