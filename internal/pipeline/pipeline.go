// Package pipeline handles one inbound chat message end to end.
package pipeline

//go:generate mockgen -source=pipeline.go -destination=mock_pipeline_test.go -package=pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"finance-bot/internal/composer"
	"finance-bot/internal/domain"
	"finance-bot/internal/ledger"
	"finance-bot/internal/normalizer"
	"finance-bot/internal/router"
)

// replyTimeout bounds the send of a reply after the job context expired.
const replyTimeout = 10 * time.Second

type Classifier interface {
	Interpret(ctx context.Context, text string) (domain.InterpretationResult, error)
}

type Ledger interface {
	GetOrCreateUser(ctx context.Context, id domain.Identity) (*domain.User, error)
	Apply(ctx context.Context, userID string, vt domain.ValidTransaction) (domain.ApplyResult, error)
	Reset(ctx context.Context, userID string) (bool, error)
	BindIdentity(ctx context.Context, userID, email string) (string, error)
	Summarize(ctx context.Context, userID string, windowDays int) (domain.Summary, error)
}

type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

type Pipeline struct {
	classifier Classifier
	ledger     Ledger
	normalizer *normalizer.Normalizer
	composer   *composer.Composer
	sender     Sender
	windowDays int
}

func New(cls Classifier, l Ledger, n *normalizer.Normalizer, c *composer.Composer, s Sender, windowDays int) *Pipeline {
	return &Pipeline{
		classifier: cls,
		ledger:     l,
		normalizer: n,
		composer:   c,
		sender:     s,
		windowDays: windowDays,
	}
}

// Process handles msg and pushes the reply, if any, to the sender. The reply
// is still delivered when ctx has expired, so a slow classifier ends in a
// fallback text instead of silence.
func (p *Pipeline) Process(ctx context.Context, msg domain.InboundMessage) {
	reply, ok := p.Handle(ctx, msg)
	if !ok {
		return
	}

	sendCtx := ctx
	if ctx.Err() != nil {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(context.WithoutCancel(ctx), replyTimeout)
		defer cancel()
	}
	if err := p.sender.SendMessage(sendCtx, msg.ChatID, reply); err != nil {
		slog.Error("❌ send reply", "chat_id", msg.ChatID, "message_id", msg.MessageID, "error", err)
	}
}

// Handle returns the reply for msg. ok is false when nothing should be sent:
// empty text or a message that was already recorded.
func (p *Pipeline) Handle(ctx context.Context, msg domain.InboundMessage) (reply string, ok bool) {
	cmd := router.Route(msg.Text)
	if cmd.Kind == router.Unrecognized {
		return "", false
	}

	log := slog.With("chat_id", msg.ChatID, "message_id", msg.MessageID, "route", cmd.Kind.String())

	user, err := p.ledger.GetOrCreateUser(ctx, msg.Sender)
	if err != nil {
		log.Error("❌ get or create user", "error", err)
		return p.composer.InternalError(), true
	}
	log = log.With("user_id", user.ID)
	log.Debug("📩 message routed")

	switch cmd.Kind {
	case router.Reset:
		had, err := p.ledger.Reset(ctx, user.ID)
		if err != nil {
			log.Error("❌ reset", "error", err)
			return p.composer.ResetFailed(), true
		}
		return p.composer.ResetDone(had), true

	case router.SummaryRequest:
		sum, err := p.ledger.Summarize(ctx, user.ID, p.windowDays)
		if err != nil {
			log.Error("❌ summarize", "error", err)
			return p.composer.InternalError(), true
		}
		return p.composer.Summary(sum), true

	case router.IdentityBind:
		if !cmd.Valid {
			return p.composer.IdentityInvalid(), true
		}
		email, err := p.ledger.BindIdentity(ctx, user.ID, cmd.Text)
		if err != nil {
			if !errors.Is(err, ledger.ErrInvalidEmail) && !errors.Is(err, ledger.ErrEmailTaken) {
				log.Error("❌ bind email", "error", err)
			}
			return p.composer.Error(err), true
		}
		log.Info("📧 email bound")
		return p.composer.IdentityBound(email), true

	case router.Greeting:
		return p.composer.Greeting(user.DisplayName()), true

	case router.Help:
		return p.composer.Help(), true
	}

	return p.record(ctx, log, user, cmd.Text, sourceKey(msg))
}

// sourceKey identifies a delivery. Message ids are only unique within a chat.
func sourceKey(msg domain.InboundMessage) string {
	return strconv.FormatInt(msg.ChatID, 10) + ":" + msg.MessageID
}

// record runs classification without holding any ledger lock; the per-user
// scope is only taken inside Apply.
func (p *Pipeline) record(ctx context.Context, log *slog.Logger, user *domain.User, text, messageID string) (string, bool) {
	res, err := p.classifier.Interpret(ctx, text)
	if err != nil {
		log.Warn("⚠️ classifier failed", "error", err)
		return p.composer.ClassifierFailure(), true
	}

	vt, err := p.normalizer.Normalize(res, messageID)
	if err != nil {
		log.Info("🤷 no transaction extracted", "reason", err)
		return p.composer.NotATransaction(), true
	}

	applied, err := p.ledger.Apply(ctx, user.ID, vt)
	if err != nil {
		if errors.Is(err, ledger.ErrDuplicateMessage) {
			log.Info("🔁 duplicate delivery ignored")
			return "", false
		}
		log.Error("❌ apply transaction", "error", err)
		return p.composer.InternalError(), true
	}

	return p.composer.Recorded(vt, applied.NewBalance), true
}
