package composer

import "golang.org/x/text/language"

const (
	keyIncomeRecorded    = "income_recorded"
	keyExpenseRecorded   = "expense_recorded"
	keyNotATransaction   = "not_a_transaction"
	keyClassifierFailure = "classifier_failure"
	keyInternalError     = "internal_error"
	keyResetDone         = "reset_done"
	keyResetEmpty        = "reset_empty"
	keyResetFailed       = "reset_failed"
	keySummary           = "summary"
	keySummaryEmpty      = "summary_empty"
	keyEmailBound        = "email_bound"
	keyEmailInvalid      = "email_invalid"
	keyEmailTaken        = "email_taken"
	keyWelcome           = "welcome"
	keyHelp              = "help"
	keyGreeting          = "greeting"
	keyUnknownCommand    = "unknown_command"
	keyLoginCode         = "login_code"
)

var messages = map[language.Tag]map[string]string{
	language.English: {
		keyIncomeRecorded: "💰 *Income recorded!*\n\n" +
			"💵 Amount: %s\n📝 Description: %s\n🏷️ Category: %s\n\n💳 Current balance: %s",
		keyExpenseRecorded: "💸 *Expense recorded!*\n\n" +
			"💵 Amount: %s\n📝 Description: %s\n🏷️ Category: %s\n\n💳 Current balance: %s",
		keyNotATransaction: "🤔 I couldn't find a transaction in that message.\n\n" +
			"Try something like:\n• Paid %[1]s 50 for lunch\n• Received %[1]s 3000 salary\n• Uber %[1]s 25\n\n" +
			"Send *summary* to see your balance.",
		keyClassifierFailure: "😕 Sorry, I couldn't understand that right now. Please try again in a moment.",
		keyInternalError:     "⚠️ Something went wrong on our side. Please try again.",
		keyResetDone:         "🧹 All your transactions were deleted. Your balance is now %s.",
		keyResetEmpty:        "🧹 Nothing to delete, you have no transactions yet. Balance: %s.",
		keyResetFailed:       "⚠️ I couldn't reset your data. Nothing was changed, please try again.",
		keySummary: "📊 *Last %d days*\n\n" +
			"💰 Income: %s\n💸 Expenses: %s\n📈 Net: %s\n🧾 Transactions: %d\n\n💳 Current balance: %s",
		keySummaryEmpty: "📊 No transactions in the last %d days.\n\n💳 Current balance: %s",
		keyEmailBound:   "✅ Email %s linked. Use it to sign in to the dashboard.",
		keyEmailInvalid: "❌ That doesn't look like an email. Send it like this:\nemail: you@example.com",
		keyEmailTaken:   "❌ This email is already linked to another account.",
		keyWelcome: "👋 Hi%s! I'm your personal finance assistant.\n\n" +
			"Just tell me what happened:\n• Paid %[2]s 500 rent\n• Received %[2]s 3000 salary\n\n" +
			"Commands:\n• *summary*: income and expenses of the last days\n• *reset*: delete all your transactions\n" +
			"• *email: you@example.com*: link your email to the dashboard",
		keyHelp: "ℹ️ Describe a transaction in your own words, for example:\n• Paid %[1]s 500 rent\n• Got %[1]s 200 from freelance\n\n" +
			"Commands:\n• *summary*: income and expenses of the last days\n• *reset*: delete all your transactions\n" +
			"• *email: you@example.com*: link your email to the dashboard",
		keyGreeting:       "👋 Hi%s! Tell me about a transaction, for example: Paid %s 50 for lunch.",
		keyUnknownCommand: "🤷 I don't know that command. Send /help to see what I can do.",
		keyLoginCode:      "🔐 Your dashboard login code is *%s*. It expires in %d minutes. Ignore this if you did not ask for it.",
	},
	language.BrazilianPortuguese: {
		keyIncomeRecorded: "💰 *Receita registrada!*\n\n" +
			"💵 Valor: %s\n📝 Descrição: %s\n🏷️ Categoria: %s\n\n💳 Saldo atual: %s",
		keyExpenseRecorded: "💸 *Despesa registrada!*\n\n" +
			"💵 Valor: %s\n📝 Descrição: %s\n🏷️ Categoria: %s\n\n💳 Saldo atual: %s",
		keyNotATransaction: "🤔 Não encontrei uma transação nessa mensagem.\n\n" +
			"Tente algo como:\n• Gastei %[1]s 50 no almoço\n• Recebi %[1]s 3000 de salário\n• Uber %[1]s 25\n\n" +
			"Envie *resumo* para ver seu saldo.",
		keyClassifierFailure: "😕 Desculpe, não consegui entender agora. Tente novamente em instantes.",
		keyInternalError:     "⚠️ Ocorreu um erro interno. Tente novamente.",
		keyResetDone:         "🧹 Todas as suas transações foram apagadas. Seu saldo agora é %s.",
		keyResetEmpty:        "🧹 Nada para apagar, você ainda não tem transações. Saldo: %s.",
		keyResetFailed:       "⚠️ Não consegui zerar seus dados. Nada foi alterado, tente novamente.",
		keySummary: "📊 *Últimos %d dias*\n\n" +
			"💰 Receitas: %s\n💸 Despesas: %s\n📈 Resultado: %s\n🧾 Transações: %d\n\n💳 Saldo atual: %s",
		keySummaryEmpty: "📊 Nenhuma transação nos últimos %d dias.\n\n💳 Saldo atual: %s",
		keyEmailBound:   "✅ Email %s vinculado. Use-o para entrar no painel.",
		keyEmailInvalid: "❌ Isso não parece um email. Envie assim:\nemail: voce@exemplo.com",
		keyEmailTaken:   "❌ Este email já está vinculado a outra conta.",
		keyWelcome: "👋 Olá%s! Sou seu assistente financeiro.\n\n" +
			"É só me contar o que aconteceu:\n• Paguei %[2]s 500 de aluguel\n• Recebi %[2]s 3000 de salário\n\n" +
			"Comandos:\n• *resumo*: receitas e despesas dos últimos dias\n• *zerar*: apagar todas as suas transações\n" +
			"• *email: voce@exemplo.com*: vincular seu email ao painel",
		keyHelp: "ℹ️ Descreva uma transação com suas palavras, por exemplo:\n• Paguei %[1]s 500 de aluguel\n• Recebi %[1]s 200 de freela\n\n" +
			"Comandos:\n• *resumo*: receitas e despesas dos últimos dias\n• *zerar*: apagar todas as suas transações\n" +
			"• *email: voce@exemplo.com*: vincular seu email ao painel",
		keyGreeting:       "👋 Olá%s! Me conte uma transação, por exemplo: Gastei %s 50 no almoço.",
		keyUnknownCommand: "🤷 Não conheço esse comando. Envie /help para ver o que eu faço.",
		keyLoginCode:      "🔐 Seu código de acesso ao painel é *%s*. Ele expira em %d minutos. Ignore se não foi você que pediu.",
	},
}
