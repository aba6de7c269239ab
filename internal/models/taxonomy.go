package models

// Main categories
const (
	CategoryIncome        = "Income"
	CategoryEssential     = "Essential Expenses"
	CategoryDiscretionary = "Discretionary Expenses"
	CategoryDebt          = "Debt Payments"
	CategorySavings       = "Savings & Investment"
	CategoryAssets        = "Assets"
	CategoryLiabilities   = "Liabilities"
)

// ExpenseCategories lists the expense-bearing main categories in lookup priority order
var ExpenseCategories = []string{
	CategoryEssential,
	CategoryDiscretionary,
	CategoryDebt,
	CategorySavings,
}

// MainCategories lists every main category in lookup priority order
var MainCategories = []string{
	CategoryEssential,
	CategoryDiscretionary,
	CategoryDebt,
	CategorySavings,
	CategoryIncome,
	CategoryAssets,
	CategoryLiabilities,
}

// IsMainCategory reports whether name is one of the fixed main categories
func IsMainCategory(name string) bool {
	for _, c := range MainCategories {
		if c == name {
			return true
		}
	}
	return false
}

// Taxonomy maps a main category to its ordered subcategory names
type Taxonomy map[string][]string

// DefaultTaxonomy returns the taxonomy seeded into new documents
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		CategoryIncome:        {"Salary", "Freelance", "Other Income"},
		CategoryEssential:     {"Rent", "Groceries", "Utilities", "Transport", "Insurance"},
		CategoryDiscretionary: {"Restaurants", "Entertainment", "Travel", "Shopping"},
		CategoryDebt:          {},
		CategorySavings:       {"Emergency Fund", "Index Funds"},
		CategoryAssets:        {"Cash", "Investments", "Property"},
		CategoryLiabilities:   {},
	}
}

// Clone returns a deep copy
func (t Taxonomy) Clone() Taxonomy {
	if t == nil {
		return nil
	}
	out := make(Taxonomy, len(t))
	for main, subs := range t {
		out[main] = append([]string{}, subs...)
	}
	return out
}

// Contains reports whether sub is listed under main
func (t Taxonomy) Contains(main, sub string) bool {
	for _, s := range t[main] {
		if s == sub {
			return true
		}
	}
	return false
}

// Subcategories returns every distinct subcategory name across main categories
func (t Taxonomy) Subcategories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, main := range MainCategories {
		for _, s := range t[main] {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}
