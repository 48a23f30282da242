package telegram

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/text/encoding/charmap"

	"finance-bot/internal/domain"
)

// ToInbound converts a text update. ok is false for anything that is not a
// text message from a user.
func ToInbound(u tgbotapi.Update) (msg domain.InboundMessage, ok bool) {
	m := u.Message
	if m == nil || m.From == nil || m.Chat == nil || m.Text == "" {
		return domain.InboundMessage{}, false
	}

	return domain.InboundMessage{
		Sender: domain.Identity{
			ExternalID: strconv.FormatInt(m.From.ID, 10),
			FirstName:  sanitizeInput(fixEncoding(m.From.FirstName)),
			LastName:   sanitizeInput(fixEncoding(m.From.LastName)),
			Username:   m.From.UserName,
		},
		Text:      sanitizeInput(fixEncoding(m.Text)),
		MessageID: strconv.Itoa(m.MessageID),
		ChatID:    m.Chat.ID,
	}, true
}

// sanitizeInput turns every whitespace run into a single space.
func sanitizeInput(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

func fixEncoding(s string) string {
	if utf8.ValidString(s) {
		return s
	}

	// some clients still send legacy single-byte text
	fixed, err := charmap.Windows1252.NewDecoder().String(s)
	if err == nil && utf8.ValidString(fixed) {
		return fixed
	}

	return strings.ToValidUTF8(s, "")
}
