// internal/handler/login.go
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"finance-bot/internal/domain"
)

type UserFinder interface {
	UserByEmail(ctx context.Context, email string) (*domain.User, error)
}

type LoginCodeStore interface {
	Issue(userID string) (string, error)
	Verify(userID, code string) error
}

type TokenIssuer interface {
	GenerateToken(userID string) (string, error)
}

type ChatSender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

type LoginTexts interface {
	LoginCode(code string, ttl time.Duration) string
}

// LoginHandler signs users in with a one-time code delivered to the chat that
// bound the email. Knowing the email alone is not enough.
type LoginHandler struct {
	users  UserFinder
	codes  LoginCodeStore
	tokens TokenIssuer
	sender ChatSender
	texts  LoginTexts
	ttl    time.Duration
}

func NewLoginHandler(users UserFinder, codes LoginCodeStore, tokens TokenIssuer, sender ChatSender, texts LoginTexts, ttl time.Duration) *LoginHandler {
	return &LoginHandler{users: users, codes: codes, tokens: tokens, sender: sender, texts: texts, ttl: ttl}
}

// RequestCode godoc
// @Summary Send a dashboard login code
// @Description Sends a one-time code to the chat of the user who bound this email
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Email bound via chat"
// @Success 202 {object} map[string]string{"status":"code_sent"}
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /api/v1/login [post]
func (h *LoginHandler) RequestCode(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, ok := h.findUser(c, req.Email)
	if !ok {
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no user has bound this email"})
		return
	}

	// private chats share the user's id
	chatID, err := strconv.ParseInt(user.ExternalID, 10, 64)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "user has no chat to deliver a code to"})
		return
	}

	code, err := h.codes.Issue(user.ID)
	if err != nil {
		slog.Error("Issue login code failed", "error", err, "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if err := h.sender.SendMessage(c.Request.Context(), chatID, h.texts.LoginCode(code, h.ttl)); err != nil {
		slog.Error("Deliver login code failed", "error", err, "user_id", user.ID)
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not deliver the code"})
		return
	}

	slog.Info("🔐 login code sent", "user_id", user.ID)
	c.JSON(http.StatusAccepted, gin.H{"status": "code_sent"})
}

// VerifyCode godoc
// @Summary Exchange a login code for a dashboard token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body VerifyCodeRequest true "Email and the code received in chat"
// @Success 200 {object} map[string]string{"token":"..."}
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/login/verify [post]
func (h *LoginHandler) VerifyCode(c *gin.Context) {
	var req VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Code = strings.TrimSpace(req.Code)
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, ok := h.findUser(c, req.Email)
	if !ok {
		return
	}
	if user == nil || h.codes.Verify(user.ID, req.Code) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired code"})
		return
	}

	token, err := h.tokens.GenerateToken(user.ID)
	if err != nil {
		slog.Error("GenerateToken failed", "error", err, "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *LoginHandler) findUser(c *gin.Context, email string) (*domain.User, bool) {
	user, err := h.users.UserByEmail(c.Request.Context(), email)
	if err != nil {
		slog.Error("UserByEmail failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return nil, false
	}
	return user, true
}

// === DTO ===

type LoginRequest struct {
	Email string `json:"email" validate:"required,loose_email"`
}

type VerifyCodeRequest struct {
	Email string `json:"email" validate:"required,loose_email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}
