// Package telegram adapts the Telegram Bot API to the message pipeline.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sethvargo/go-retry"
)

const (
	sendRetries = 3
	sendBackoff = 500 * time.Millisecond
)

// BotAPI is the part of *tgbotapi.BotAPI used for outbound messages.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Sender struct {
	api     BotAPI
	backoff time.Duration
}

// NewSender returns a sender that only logs replies when api is nil.
func NewSender(api BotAPI) *Sender {
	return &Sender{api: api, backoff: sendBackoff}
}

// SendMessage delivers text as Markdown. Rate limits, server errors and
// network failures are retried; a message Telegram refuses to parse is resent
// as plain text.
func (s *Sender) SendMessage(ctx context.Context, chatID int64, text string) error {
	if s.api == nil {
		slog.Info("📤 reply (no bot configured)", "chat_id", chatID, "text", text)
		return nil
	}

	err := s.send(ctx, chatID, text, tgbotapi.ModeMarkdown)
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusBadRequest {
		slog.Warn("⚠️ markdown rejected, resending as plain text", "chat_id", chatID, "error", apiErr.Message)
		err = s.send(ctx, chatID, text, "")
	}
	if err != nil {
		return fmt.Errorf("send message to %d: %w", chatID, err)
	}
	return nil
}

func (s *Sender) send(ctx context.Context, chatID int64, text, parseMode string) error {
	b := retry.WithMaxRetries(sendRetries, retry.NewExponential(s.backoff))

	return retry.Do(ctx, b, func(ctx context.Context) error {
		msg := tgbotapi.NewMessage(chatID, text)
		msg.ParseMode = parseMode

		if _, err := s.api.Send(msg); err != nil {
			if transient(err) {
				slog.Debug("🔁 retrying send", "chat_id", chatID, "error", err)
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})
}

// transient reports whether a send failure is worth another attempt.
func transient(err error) bool {
	var apiErr *tgbotapi.Error
	if !errors.As(err, &apiErr) {
		return true
	}
	return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
}
