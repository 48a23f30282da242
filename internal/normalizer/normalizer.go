// Package normalizer turns a classifier answer into a transaction the ledger
// accepts.
package normalizer

import (
	"errors"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"finance-bot/internal/domain"
	val "finance-bot/internal/validator"
)

var (
	ErrNotATransaction     = errors.New("not a transaction")
	ErrMalformedExtraction = errors.New("malformed extraction")
)

const maxDescriptionLen = 200

type Normalizer struct {
	categories *domain.CategorySet
}

func New(cats []domain.Category) *Normalizer {
	return &Normalizer{categories: domain.NewCategorySet(cats)}
}

type candidate struct {
	Amount      decimal.Decimal `validate:"positive_amount"`
	Type        string          `validate:"txtype"`
	Description string          `validate:"required,notblank"`
}

// Normalize rejects non-transactions and malformed answers. An unknown
// category is replaced by the fallback instead of rejecting the transaction.
func (n *Normalizer) Normalize(res domain.InterpretationResult, messageID string) (domain.ValidTransaction, error) {
	if !res.IsTransaction {
		return domain.ValidTransaction{}, ErrNotATransaction
	}

	c := candidate{
		Amount:      res.Amount.Round(2),
		Type:        strings.ToLower(strings.TrimSpace(string(res.Type))),
		Description: sanitize(res.Description),
	}
	if err := val.Validate.Struct(c); err != nil {
		return domain.ValidTransaction{}, errors.Join(ErrMalformedExtraction, err)
	}

	typ := domain.TransactionType(c.Type)
	category, ok := n.categories.Canonical(typ, res.Category)
	if !ok {
		category = domain.FallbackCategory
	}

	return domain.ValidTransaction{
		Amount:          c.Amount,
		Type:            typ,
		Description:     c.Description,
		Category:        category,
		SourceMessageID: messageID,
	}, nil
}

// sanitize collapses whitespace, drops control characters and caps length.
func sanitize(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		if unicode.IsControl(r) || r == unicode.ReplacementChar {
			return -1
		}
		return r
	}, s)
	s = strings.Join(strings.Fields(s), " ")

	if r := []rune(s); len(r) > maxDescriptionLen {
		s = string(r[:maxDescriptionLen])
	}
	return s
}
