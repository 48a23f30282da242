package telegram

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"finance-bot/internal/composer"
	"finance-bot/internal/domain"
)

type Submitter interface {
	Submit(ctx context.Context, msg domain.InboundMessage) error
}

type MessageSender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// Gateway answers bot commands itself and queues every other text message
// for the pipeline.
type Gateway struct {
	queue    Submitter
	sender   MessageSender
	composer *composer.Composer
}

func NewGateway(queue Submitter, sender MessageSender, c *composer.Composer) *Gateway {
	return &Gateway{queue: queue, sender: sender, composer: c}
}

func (g *Gateway) HandleUpdate(ctx context.Context, u tgbotapi.Update) error {
	msg, ok := ToInbound(u)
	if !ok {
		return nil
	}

	if u.Message.IsCommand() {
		var reply string
		switch u.Message.Command() {
		case "start":
			reply = g.composer.Welcome(msg.Sender.FirstName)
		case "help":
			reply = g.composer.Help()
		default:
			reply = g.composer.UnknownCommand()
		}
		slog.Info("🤖 command", "chat_id", msg.ChatID, "command", u.Message.Command())
		return g.sender.SendMessage(ctx, msg.ChatID, reply)
	}

	if err := g.queue.Submit(ctx, msg); err != nil {
		return fmt.Errorf("queue message %s: %w", msg.MessageID, err)
	}
	slog.Debug("📥 message queued", "chat_id", msg.ChatID, "message_id", msg.MessageID)
	return nil
}

// Poll feeds long-polled updates to HandleUpdate until ctx is done or the
// channel is closed.
func (g *Gateway) Poll(ctx context.Context, updates tgbotapi.UpdatesChannel) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case u, ok := <-updates:
			if !ok {
				return nil
			}
			if err := g.HandleUpdate(ctx, u); err != nil {
				slog.Error("❌ handle update", "update_id", u.UpdateID, "error", err)
			}
		}
	}
}
