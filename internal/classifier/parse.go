package classifier

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"finance-bot/internal/domain"
)

// payload is the strict answer shape. Pointers tell "missing" from "zero".
type payload struct {
	IsTransaction *bool            `json:"is_transaction"`
	Amount        *decimal.Decimal `json:"amount"`
	Type          *string          `json:"type"`
	Description   *string          `json:"description"`
	Category      *string          `json:"category"`
}

// Parse validates a raw model answer. A transaction answer must carry amount,
// type and description; category may be absent and is left to normalization.
// A non-positive amount downgrades the answer to "not a transaction".
func Parse(raw string) (domain.InterpretationResult, error) {
	obj, ok := extractObject(raw)
	if !ok {
		return domain.InterpretationResult{}, failure("no JSON object in answer")
	}

	var p payload
	if err := json.Unmarshal([]byte(obj), &p); err != nil {
		return domain.InterpretationResult{}, failure("decode answer: %v", err)
	}
	if p.IsTransaction == nil {
		return domain.InterpretationResult{}, failure("is_transaction missing")
	}
	if !*p.IsTransaction {
		return domain.InterpretationResult{IsTransaction: false}, nil
	}

	switch {
	case p.Amount == nil:
		return domain.InterpretationResult{}, failure("amount missing")
	case p.Type == nil:
		return domain.InterpretationResult{}, failure("type missing")
	case p.Description == nil:
		return domain.InterpretationResult{}, failure("description missing")
	}

	if !p.Amount.IsPositive() {
		return domain.InterpretationResult{IsTransaction: false}, nil
	}

	res := domain.InterpretationResult{
		IsTransaction: true,
		Amount:        *p.Amount,
		Type:          domain.TransactionType(strings.ToLower(strings.TrimSpace(*p.Type))),
		Description:   strings.TrimSpace(*p.Description),
	}
	if p.Category != nil {
		res.Category = strings.TrimSpace(*p.Category)
	}
	return res, nil
}

// extractObject drops markdown fences and any prose around the outermost
// JSON object.
func extractObject(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}
