package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransaction_Signed(t *testing.T) {
	amount := decimal.RequireFromString("12.50")

	assert.True(t, Transaction{Amount: amount, Type: Income}.Signed().Equal(amount))
	assert.True(t, Transaction{Amount: amount, Type: Expense}.Signed().Equal(amount.Neg()))
}

func TestCategorySet_Canonical(t *testing.T) {
	set := NewCategorySet(DefaultCategories)

	tests := []struct {
		name   string
		typ    TransactionType
		input  string
		want   string
		wantOK bool
	}{
		{"exact", Expense, "Housing", "Housing", true},
		{"case insensitive", Expense, "  housing ", "Housing", true},
		{"wrong type", Income, "Housing", "", false},
		{"fallback in income", Income, "other", FallbackCategory, true},
		{"unknown", Expense, "Rent", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := set.Canonical(tt.typ, tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultCategories_HaveFallbackPerType(t *testing.T) {
	for _, typ := range []TransactionType{Income, Expense} {
		assert.Contains(t, CategoryNames(DefaultCategories, typ), FallbackCategory)
	}
}

func TestUser_DisplayName(t *testing.T) {
	assert.Equal(t, "Ana Souza", User{FirstName: "Ana", LastName: "Souza"}.DisplayName())
	assert.Equal(t, "Ana", User{FirstName: "Ana"}.DisplayName())
	assert.Equal(t, "", User{}.DisplayName())
}
