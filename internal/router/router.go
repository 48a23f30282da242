// Package router decides whether a message is a reserved command or a
// candidate for financial interpretation.
package router

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	val "finance-bot/internal/validator"
)

type Kind int

const (
	Unrecognized Kind = iota
	FinancialCandidate
	Reset
	SummaryRequest
	IdentityBind
	Greeting
	Help
)

func (k Kind) String() string {
	switch k {
	case FinancialCandidate:
		return "financial_candidate"
	case Reset:
		return "reset"
	case SummaryRequest:
		return "summary_request"
	case IdentityBind:
		return "identity_bind"
	case Greeting:
		return "greeting"
	case Help:
		return "help"
	default:
		return "unrecognized"
	}
}

// Command is the routing decision for one message.
type Command struct {
	Kind Kind
	// Text is the trimmed input for FinancialCandidate, the bound value for IdentityBind.
	Text string
	// Valid is only meaningful for IdentityBind.
	Valid bool
}

var (
	resetWords   = []string{"reset", "clear", "zerar", "limpar", "zerar registro", "limpar dados", "apagar tudo"}
	summaryWords = []string{"summary", "balance", "report", "how much", "statement", "resumo", "saldo", "quanto", "relatorio", "extrato"}
	greetWords   = []string{"hi", "hello", "hey", "thanks", "thank you", "bye", "good morning", "good evening",
		"oi", "ola", "obrigado", "obrigada", "valeu", "tchau", "bom dia", "boa tarde", "boa noite"}
	helpWords = []string{"help", "ajuda", "commands", "comandos"}

	// past-tense verbs that report a transaction, not ask about one
	txVerbs = []string{"spent", "paid", "received", "earned", "bought", "sold", "got",
		"gastei", "paguei", "recebi", "ganhei", "comprei", "vendi"}

	bindLabel = regexp.MustCompile(`^(?i)\s*e-?mail\s*:`)
	digits    = regexp.MustCompile(`\d`)
	// "$500", "R$ 50", "50€", "12.50", "12,50", "40 reais"
	moneyToken = regexp.MustCompile(`[$€£]\s*\d|\d\s*[$€£]|\d[.,]\d{1,2}\b|\d\s*(reais|real|dollars?|bucks|usd|brl|eur|euros?)\b`)
)

// Route classifies text. Identity binding is checked first, then reset, then
// summary, then greetings; everything else is a FinancialCandidate. Reset and
// summary keywords are ignored when the message reports an amount.
func Route(text string) Command {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Command{Kind: Unrecognized}
	}

	if loc := bindLabel.FindStringIndex(trimmed); loc != nil {
		value := strings.TrimSpace(trimmed[loc[1]:])
		return Command{
			Kind:  IdentityBind,
			Text:  value,
			Valid: val.Validate.Var(value, "required,loose_email") == nil,
		}
	}

	folded := Fold(trimmed)
	words := " " + strings.Join(strings.FieldsFunc(folded, isSeparator), " ") + " "
	reported := reportsAmount(folded, words)

	switch {
	case !reported && containsAny(words, resetWords):
		return Command{Kind: Reset}
	case !reported && containsAny(words, summaryWords):
		return Command{Kind: SummaryRequest}
	case equalsAny(words, helpWords):
		return Command{Kind: Help}
	case equalsAny(words, greetWords):
		return Command{Kind: Greeting}
	}

	return Command{Kind: FinancialCandidate, Text: trimmed}
}

// reportsAmount is true when the message states a money amount, either as a
// money token or as a number next to a transaction verb. Numbers alone, like
// "last 7 days", do not count.
func reportsAmount(folded, padded string) bool {
	if moneyToken.MatchString(folded) {
		return true
	}
	return digits.MatchString(folded) && containsAny(padded, txVerbs)
}

// Fold lowercases s and strips accents so "Relatório" matches "relatorio".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC, cases.Fold())
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// containsAny reports whether any keyword appears as whole words in padded.
func containsAny(padded string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(padded, " "+k+" ") {
			return true
		}
	}
	return false
}

func equalsAny(padded string, keywords []string) bool {
	msg := strings.TrimSpace(padded)
	for _, k := range keywords {
		if msg == k {
			return true
		}
	}
	return false
}
