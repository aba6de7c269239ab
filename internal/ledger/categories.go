package ledger

import (
	"fmt"
	"strings"

	"github.com/Dan9191/finance-service/internal/models"
)

// mutateTaxonomyFrom applies fn to the taxonomy of year and of every later
// year that carries its own snapshot, then normalizes those year records.
// Earlier years are never touched.
func mutateTaxonomyFrom(data *models.FinancialData, year int, fn func(models.Taxonomy)) {
	if data.Year(year) == nil {
		data.EnsureYear(year)
	}
	for _, y := range data.SortedYears() {
		if y < year {
			continue
		}
		rec := data.Years[y]
		if y == year || rec.Categories != nil {
			tax := data.TaxonomyFor(y).Clone()
			fn(tax)
			rec.Categories = tax
		}
	}
	for _, y := range data.SortedYears() {
		if y >= year {
			data.Years[y].Normalize(data.TaxonomyFor(y))
		}
	}
}

func linkedLoan(data *models.FinancialData, main, sub string) bool {
	if main != models.CategoryDebt && main != models.CategoryLiabilities {
		return false
	}
	for _, l := range data.Loans {
		if l.Name == sub {
			return true
		}
	}
	return false
}

// AddSubcategory adds a subcategory to a main category from Year onward
type AddSubcategory struct {
	Year         int    `json:"year"`
	MainCategory string `json:"mainCategory"`
	Subcategory  string `json:"subcategory"`
}

func (c AddSubcategory) Describe() string { return "add subcategory" }

func (c AddSubcategory) Apply(data *models.FinancialData) (*models.FinancialData, error) {
	if err := validYear(c.Year); err != nil {
		return nil, err
	}
	if err := validMainCategory(c.MainCategory); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(c.Subcategory)
	if name == "" {
		return nil, fmt.Errorf("%w: subcategory name is required", ErrInvalidInput)
	}
	if data.TaxonomyFor(c.Year).Contains(c.MainCategory, name) {
		return nil, fmt.Errorf("%w: %q in %s", ErrDuplicateSubcategory, name, c.MainCategory)
	}

	next := data.Clone()
	mutateTaxonomyFrom(next, c.Year, func(tax models.Taxonomy) {
		if !tax.Contains(c.MainCategory, name) {
			tax[c.MainCategory] = append(tax[c.MainCategory], name)
		}
	})
	return next, nil
}

// RenameSubcategory renames a subcategory from Year onward, carrying its
// budget, ledger, one-time and net-worth entries along.
type RenameSubcategory struct {
	Year         int    `json:"year"`
	MainCategory string `json:"mainCategory"`
	From         string `json:"from"`
	To           string `json:"to"`
}

func (c RenameSubcategory) Describe() string { return "rename subcategory" }

func (c RenameSubcategory) Apply(data *models.FinancialData) (*models.FinancialData, error) {
	if err := validYear(c.Year); err != nil {
		return nil, err
	}
	if err := validMainCategory(c.MainCategory); err != nil {
		return nil, err
	}
	to := strings.TrimSpace(c.To)
	if to == "" || to == c.From {
		return nil, fmt.Errorf("%w: new name must differ from the old one", ErrInvalidInput)
	}
	tax := data.TaxonomyFor(c.Year)
	if err := requireSubcategory(tax, c.MainCategory, c.From); err != nil {
		return nil, err
	}
	if tax.Contains(c.MainCategory, to) {
		return nil, fmt.Errorf("%w: %q in %s", ErrDuplicateSubcategory, to, c.MainCategory)
	}
	if linkedLoan(data, c.MainCategory, c.From) {
		return nil, fmt.Errorf("%w: %q", ErrLoanLinkedSubcategory, c.From)
	}

	next := data.Clone()
	mutateTaxonomyFrom(next, c.Year, func(tax models.Taxonomy) {
		for i, s := range tax[c.MainCategory] {
			if s == c.From {
				tax[c.MainCategory][i] = to
			}
		}
	})
	for _, y := range next.SortedYears() {
		if y < c.Year {
			continue
		}
		renameInYear(next.Years[y], c.MainCategory, c.From, to)
		next.Years[y].Normalize(next.TaxonomyFor(y))
	}
	return next, nil
}

func renameInYear(rec *models.YearRecord, main, from, to string) {
	switch main {
	case models.CategoryAssets:
		moveKey(rec.NetWorth.Assets, from, to)
		return
	case models.CategoryLiabilities:
		moveKey(rec.NetWorth.Liabilities, from, to)
		return
	}
	if v, ok := rec.Budget[from]; ok {
		rec.Budget[to] = v
		delete(rec.Budget, from)
	}
	for _, subs := range rec.Monthly {
		if sm, ok := subs[from]; ok {
			subs[to] = sm
			delete(subs, from)
		}
	}
	for month, entries := range rec.OneTime {
		for i := range entries {
			if entries[i].MainCategory == main && entries[i].Subcategory == from {
				entries[i].Subcategory = to
			}
		}
		rec.OneTime[month] = entries
	}
}

func moveKey(m map[string]map[string]float64, from, to string) {
	if v, ok := m[from]; ok {
		m[to] = v
		delete(m, from)
	}
}

// DeleteSubcategory removes a subcategory from Year onward. Earlier years keep
// their entries.
type DeleteSubcategory struct {
	Year         int    `json:"year"`
	MainCategory string `json:"mainCategory"`
	Subcategory  string `json:"subcategory"`
}

func (c DeleteSubcategory) Describe() string { return "delete subcategory" }

func (c DeleteSubcategory) Apply(data *models.FinancialData) (*models.FinancialData, error) {
	if err := validYear(c.Year); err != nil {
		return nil, err
	}
	if err := validMainCategory(c.MainCategory); err != nil {
		return nil, err
	}
	if err := requireSubcategory(data.TaxonomyFor(c.Year), c.MainCategory, c.Subcategory); err != nil {
		return nil, err
	}
	if linkedLoan(data, c.MainCategory, c.Subcategory) {
		return nil, fmt.Errorf("%w: %q", ErrLoanLinkedSubcategory, c.Subcategory)
	}

	next := data.Clone()
	mutateTaxonomyFrom(next, c.Year, func(tax models.Taxonomy) {
		kept := tax[c.MainCategory][:0]
		for _, s := range tax[c.MainCategory] {
			if s != c.Subcategory {
				kept = append(kept, s)
			}
		}
		tax[c.MainCategory] = kept
	})
	for _, y := range next.SortedYears() {
		if y < c.Year {
			continue
		}
		rec := next.Years[y]
		switch c.MainCategory {
		case models.CategoryAssets:
			delete(rec.NetWorth.Assets, c.Subcategory)
			continue
		case models.CategoryLiabilities:
			delete(rec.NetWorth.Liabilities, c.Subcategory)
			continue
		}
		if stillListed(next.TaxonomyFor(y), c.Subcategory) {
			continue
		}
		delete(rec.Budget, c.Subcategory)
		for _, subs := range rec.Monthly {
			delete(subs, c.Subcategory)
		}
	}
	return next, nil
}

// stillListed reports whether sub remains under an income or expense category
func stillListed(tax models.Taxonomy, sub string) bool {
	for _, main := range append([]string{models.CategoryIncome}, models.ExpenseCategories...) {
		if tax.Contains(main, sub) {
			return true
		}
	}
	return false
}
