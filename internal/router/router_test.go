package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoute(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  Kind
	}{
		{"empty", "   ", Unrecognized},
		{"reset", "reset", Reset},
		{"reset uppercase", "RESET", Reset},
		{"reset portuguese", "Zerar registro", Reset},
		{"clear in sentence", "please clear everything", Reset},
		{"summary question", "how much did I spend?", SummaryRequest},
		{"balance", "Balance", SummaryRequest},
		{"summary accent", "Relatório do mês", SummaryRequest},
		{"saldo", "qual meu saldo?", SummaryRequest},
		{"transaction", "Paid $500 rent", FinancialCandidate},
		{"amount blocks reset", "spent 50 to clear the tab", FinancialCandidate},
		{"amount blocks summary", "paid 20 for lunch, how much is left", FinancialCandidate},
		{"money token blocks summary", "balance transfer of $200 to savings", FinancialCandidate},
		{"decimal blocks reset", "clear coat 12,50 at the garage", FinancialCandidate},
		{"summary with day count", "How much did I spend in the last 7 days?", SummaryRequest},
		{"summary with window", "show my 30 day summary", SummaryRequest},
		{"reset with number", "reset my 2 accounts", Reset},
		{"keyword inside word", "bought a clearance jacket", FinancialCandidate},
		{"greeting", "Hello!", Greeting},
		{"greeting portuguese", "Olá", Greeting},
		{"thanks", "thank you", Greeting},
		{"greeting with content", "hi, got paid 3000 today", FinancialCandidate},
		{"help", "help", Help},
		{"ajuda", "Ajuda?", Help},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, Route(tt.input).Kind, "input %q", tt.input)
		})
	}
}

func TestRoute_FinancialCandidateKeepsText(t *testing.T) {
	cmd := Route("  Paid $500 rent  ")
	assert.Equal(t, FinancialCandidate, cmd.Kind)
	assert.Equal(t, "Paid $500 rent", cmd.Text)
}

func TestRoute_IdentityBind(t *testing.T) {
	tests := []struct {
		name  string
		input string
		value string
		valid bool
	}{
		{"valid", "email: ana@mail.com", "ana@mail.com", true},
		{"label case", "EMAIL:Ana@Mail.com", "Ana@Mail.com", true},
		{"hyphenated label", "e-mail: ana@mail.com", "ana@mail.com", true},
		{"missing at", "email: ana.mail.com", "ana.mail.com", false},
		{"missing dot", "email: ana@mail", "ana@mail", false},
		{"empty value", "email:", "", false},
		{"value with reset word", "email: reset@mail.com", "reset@mail.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := Route(tt.input)
			assert.Equal(t, IdentityBind, cmd.Kind)
			assert.Equal(t, tt.value, cmd.Text)
			assert.Equal(t, tt.valid, cmd.Valid)
		})
	}
}

func TestFold(t *testing.T) {
	assert.Equal(t, "relatorio", Fold("Relatório"))
	assert.Equal(t, "ola", Fold("OLÁ"))
}
