// Package composer renders pipeline outcomes as chat replies.
//
// Replies are Telegram Markdown; any text that came from a user or from the
// classifier is escaped before it is embedded.
package composer

import (
	"errors"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"finance-bot/internal/classifier"
	"finance-bot/internal/domain"
	"finance-bot/internal/ledger"
	"finance-bot/internal/normalizer"
)

var cat = func() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range messages {
		for key, msg := range msgs {
			if err := b.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
	return b
}()

type Composer struct {
	p        *message.Printer
	currency string
}

// New picks the closest supported language for lang ("en", "pt-BR", "pt").
func New(lang, currency string) *Composer {
	tag := language.English
	if base, _ := language.Make(lang).Base(); base.String() == "pt" {
		tag = language.BrazilianPortuguese
	}

	if currency == "" {
		currency = "$"
	}
	return &Composer{
		p:        message.NewPrinter(tag, message.Catalog(cat)),
		currency: currency,
	}
}

func (c *Composer) Money(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + c.currency + " " + d.Abs().StringFixed(2)
	}
	return c.currency + " " + d.StringFixed(2)
}

func (c *Composer) Recorded(vt domain.ValidTransaction, newBalance decimal.Decimal) string {
	key := keyExpenseRecorded
	if vt.Type == domain.Income {
		key = keyIncomeRecorded
	}
	return c.p.Sprintf(key, c.Money(vt.Amount), escape(vt.Description), escape(vt.Category), c.Money(newBalance))
}

func (c *Composer) NotATransaction() string {
	return c.p.Sprintf(keyNotATransaction, c.currency)
}

func (c *Composer) ClassifierFailure() string {
	return c.p.Sprintf(keyClassifierFailure)
}

func (c *Composer) InternalError() string {
	return c.p.Sprintf(keyInternalError)
}

// Error maps a pipeline error to its reply. Unknown errors get the generic
// internal error text; details never reach the user.
func (c *Composer) Error(err error) string {
	switch {
	case errors.Is(err, classifier.ErrClassifierFailure):
		return c.ClassifierFailure()
	case errors.Is(err, normalizer.ErrNotATransaction), errors.Is(err, normalizer.ErrMalformedExtraction):
		return c.NotATransaction()
	case errors.Is(err, ledger.ErrInvalidEmail):
		return c.IdentityInvalid()
	case errors.Is(err, ledger.ErrEmailTaken):
		return c.IdentityTaken()
	default:
		return c.InternalError()
	}
}

func (c *Composer) ResetDone(hadData bool) string {
	if hadData {
		return c.p.Sprintf(keyResetDone, c.Money(decimal.Zero))
	}
	return c.p.Sprintf(keyResetEmpty, c.Money(decimal.Zero))
}

func (c *Composer) ResetFailed() string {
	return c.p.Sprintf(keyResetFailed)
}

func (c *Composer) Summary(s domain.Summary) string {
	if s.Count == 0 {
		return c.p.Sprintf(keySummaryEmpty, s.WindowDays, c.Money(s.Balance))
	}
	return c.p.Sprintf(keySummary, s.WindowDays,
		c.Money(s.Income), c.Money(s.Expense), c.Money(s.Net), s.Count, c.Money(s.Balance))
}

func (c *Composer) IdentityBound(email string) string {
	return c.p.Sprintf(keyEmailBound, escape(email))
}

func (c *Composer) IdentityInvalid() string {
	return c.p.Sprintf(keyEmailInvalid)
}

func (c *Composer) IdentityTaken() string {
	return c.p.Sprintf(keyEmailTaken)
}

func (c *Composer) Welcome(name string) string {
	return c.p.Sprintf(keyWelcome, namePart(name), c.currency)
}

func (c *Composer) Help() string {
	return c.p.Sprintf(keyHelp, c.currency)
}

func (c *Composer) Greeting(name string) string {
	return c.p.Sprintf(keyGreeting, namePart(name), c.currency)
}

func (c *Composer) LoginCode(code string, ttl time.Duration) string {
	return c.p.Sprintf(keyLoginCode, code, int(ttl.Minutes()))
}

func (c *Composer) UnknownCommand() string {
	return c.p.Sprintf(keyUnknownCommand)
}

func namePart(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return ", " + escape(name)
}

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}
