package finance

import "github.com/Dan9191/finance-service/internal/models"

// Kind is the accounting class of a subcategory
type Kind string

const (
	KindIncome    Kind = "income"
	KindExpense   Kind = "expense"
	KindAsset     Kind = "asset"
	KindLiability Kind = "liability"
	KindUnknown   Kind = "unknown"
)

// UnknownMainCategory is reported for subcategories missing from the taxonomy
const UnknownMainCategory = "?"

// Classification is where a subcategory lives in the taxonomy
type Classification struct {
	Kind         Kind   `json:"type"`
	MainCategory string `json:"main_category"`
}

func kindOf(mainCategory string) Kind {
	switch mainCategory {
	case models.CategoryIncome:
		return KindIncome
	case models.CategoryAssets:
		return KindAsset
	case models.CategoryLiabilities:
		return KindLiability
	case models.CategoryEssential, models.CategoryDiscretionary, models.CategoryDebt, models.CategorySavings:
		return KindExpense
	}
	return KindUnknown
}

// CategoryIndex is a reverse index over one taxonomy snapshot
type CategoryIndex struct {
	bySub  map[string]Classification
	byMain map[string][]string
}

// NewCategoryIndex indexes tax. A name listed under several main categories
// resolves to the first one in models.MainCategories order.
func NewCategoryIndex(tax models.Taxonomy) CategoryIndex {
	idx := CategoryIndex{
		bySub:  make(map[string]Classification),
		byMain: make(map[string][]string, len(models.MainCategories)),
	}
	for _, main := range models.MainCategories {
		idx.byMain[main] = append([]string{}, tax[main]...)
		for _, sub := range tax[main] {
			if _, ok := idx.bySub[sub]; !ok {
				idx.bySub[sub] = Classification{Kind: kindOf(main), MainCategory: main}
			}
		}
	}
	return idx
}

// Categorize classifies a subcategory; unknown names never fail
func (idx CategoryIndex) Categorize(subcategory string) Classification {
	if c, ok := idx.bySub[subcategory]; ok {
		return c
	}
	return Classification{Kind: KindUnknown, MainCategory: UnknownMainCategory}
}

// Subcategories returns the ordered subcategories of a main category
func (idx CategoryIndex) Subcategories(mainCategory string) []string {
	return idx.byMain[mainCategory]
}

// Categorize classifies subcategory against tax
func Categorize(subcategory string, tax models.Taxonomy) Classification {
	return NewCategoryIndex(tax).Categorize(subcategory)
}
