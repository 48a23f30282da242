package domain

import "strings"

// FallbackCategory exists for both transaction types.
const FallbackCategory = "Other"

// DefaultCategories is the reference set seeded at startup.
var DefaultCategories = []Category{
	{Name: "Food", Type: Expense},
	{Name: "Transport", Type: Expense},
	{Name: "Housing", Type: Expense},
	{Name: "Health", Type: Expense},
	{Name: "Education", Type: Expense},
	{Name: "Entertainment", Type: Expense},
	{Name: "Clothing", Type: Expense},
	{Name: "Technology", Type: Expense},
	{Name: "Taxes", Type: Expense},
	{Name: FallbackCategory, Type: Expense},

	{Name: "Salary", Type: Income},
	{Name: "Freelance", Type: Income},
	{Name: "Investments", Type: Income},
	{Name: "Sales", Type: Income},
	{Name: "Gifts", Type: Income},
	{Name: FallbackCategory, Type: Income},
}

// CategoryNames returns the names of cats that belong to typ, in order.
func CategoryNames(cats []Category, typ TransactionType) []string {
	var names []string
	for _, c := range cats {
		if c.Type == typ {
			names = append(names, c.Name)
		}
	}
	return names
}

// CategorySet answers membership questions case-insensitively.
type CategorySet struct {
	byType map[TransactionType]map[string]string
}

func NewCategorySet(cats []Category) *CategorySet {
	s := &CategorySet{byType: make(map[TransactionType]map[string]string)}
	for _, c := range cats {
		if s.byType[c.Type] == nil {
			s.byType[c.Type] = make(map[string]string)
		}
		s.byType[c.Type][strings.ToLower(strings.TrimSpace(c.Name))] = c.Name
	}
	return s
}

// Canonical returns the stored spelling of name for typ.
func (s *CategorySet) Canonical(typ TransactionType, name string) (string, bool) {
	canonical, ok := s.byType[typ][strings.ToLower(strings.TrimSpace(name))]
	return canonical, ok
}
