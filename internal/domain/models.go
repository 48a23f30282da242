// internal/domain/models.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// Identity is what the messaging gateway knows about a sender.
type Identity struct {
	ExternalID string
	FirstName  string
	LastName   string
	Username   string
}

type User struct {
	ID         string          `json:"id"`
	ExternalID string          `json:"external_id"`
	Email      *string         `json:"email"`
	FirstName  string          `json:"first_name,omitempty"`
	LastName   string          `json:"last_name,omitempty"`
	Username   string          `json:"username,omitempty"`
	Balance    decimal.Decimal `json:"balance"`
	CreatedAt  time.Time       `json:"created_at"`
}

func (u User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.LastName
	}
}

// Transaction is immutable once stored. Amount is always positive, the sign
// lives in Type.
type Transaction struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	Amount          decimal.Decimal `json:"amount"`
	Type            TransactionType `json:"type"`
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	CreatedAt       time.Time       `json:"date"`
	SourceMessageID *string         `json:"source_message_id,omitempty"`
}

// Signed returns the balance delta of the transaction.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == Expense {
		return t.Amount.Neg()
	}
	return t.Amount
}

type Category struct {
	Name string          `json:"name"`
	Type TransactionType `json:"type"`
}

// InterpretationResult is what the classifier extracted from a message.
// Financial fields are only meaningful when IsTransaction is true.
type InterpretationResult struct {
	IsTransaction bool
	Amount        decimal.Decimal
	Type          TransactionType
	Description   string
	Category      string
}

// ValidTransaction passed normalization and can be applied to the ledger.
type ValidTransaction struct {
	Amount          decimal.Decimal
	Type            TransactionType
	Description     string
	Category        string
	SourceMessageID string
}

type ApplyResult struct {
	TransactionID string
	NewBalance    decimal.Decimal
}

type Summary struct {
	WindowDays int             `json:"window_days"`
	Income     decimal.Decimal `json:"income"`
	Expense    decimal.Decimal `json:"expense"`
	Net        decimal.Decimal `json:"net"`
	Count      int             `json:"count"`
	Balance    decimal.Decimal `json:"balance"`
}

type CategoryTotal struct {
	Category string          `json:"category"`
	Income   decimal.Decimal `json:"income"`
	Expense  decimal.Decimal `json:"expense"`
}

type Dashboard struct {
	User         User            `json:"user"`
	Balance      decimal.Decimal `json:"balance"`
	Transactions []Transaction   `json:"transactions"`
	Categories   []CategoryTotal `json:"categories"`
	Summary      Summary         `json:"monthly_summary"`
}

// InboundMessage is one text message delivered by the messaging gateway.
type InboundMessage struct {
	Sender    Identity
	Text      string
	MessageID string
	ChatID    int64
}
