package classifier

import (
	"fmt"
	"strings"

	"finance-bot/internal/domain"
)

// BuildPrompt renders the system instructions, listing the allowed categories
// per transaction type.
func BuildPrompt(cats []domain.Category) string {
	var b strings.Builder

	b.WriteString("You read short chat messages and decide whether they describe a personal financial transaction.\n")
	b.WriteString("Messages can be in any language. Questions, commands, greetings and small talk are NOT transactions.\n\n")

	b.WriteString("Answer with ONLY a JSON object, no markdown, no commentary:\n")
	b.WriteString(`{"is_transaction": true, "amount": 500.00, "type": "expense", "description": "rent", "category": "Housing"}` + "\n")
	b.WriteString(`or {"is_transaction": false}` + "\n\n")

	b.WriteString("Rules:\n")
	b.WriteString("- amount is a positive number without currency symbols; use a dot as decimal separator.\n")
	b.WriteString("- type is \"income\" for money received and \"expense\" for money spent.\n")
	b.WriteString("- description is a short noun phrase in the language of the message.\n")
	fmt.Fprintf(&b, "- expense categories: %s.\n", strings.Join(domain.CategoryNames(cats, domain.Expense), ", "))
	fmt.Fprintf(&b, "- income categories: %s.\n", strings.Join(domain.CategoryNames(cats, domain.Income), ", "))
	fmt.Fprintf(&b, "- when no category fits, use %q.\n", domain.FallbackCategory)

	return b.String()
}
