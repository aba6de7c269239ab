package finance

import (
	"fmt"

	"github.com/Dan9191/finance-service/internal/models"
)

// LoanIndex resolves Debt Payments subcategory names to loans. It is built
// once per computation pass so budget cells do not rescan the loan list.
type LoanIndex struct {
	byName map[string]string
	byID   map[string]models.Loan
	order  []string
}

// NewLoanIndex indexes loans by name. When two loans share a name the first one wins.
func NewLoanIndex(loans []models.Loan) LoanIndex {
	idx := LoanIndex{
		byName: make(map[string]string, len(loans)),
		byID:   make(map[string]models.Loan, len(loans)),
	}
	for _, l := range loans {
		idx.byID[l.ID] = l
		if _, taken := idx.byName[l.Name]; !taken {
			idx.byName[l.Name] = l.ID
			idx.order = append(idx.order, l.ID)
		}
	}
	return idx
}

// Lookup returns the loan linked to a subcategory name
func (idx LoanIndex) Lookup(subcategory string) (models.Loan, bool) {
	id, ok := idx.byName[subcategory]
	if !ok {
		return models.Loan{}, false
	}
	l, ok := idx.byID[id]
	return l, ok
}

// Loans returns, in input order, the loans that own a subcategory name
func (idx LoanIndex) Loans() []models.Loan {
	out := make([]models.Loan, 0, len(idx.order))
	for _, id := range idx.order {
		out = append(out, idx.byID[id])
	}
	return out
}

// Resolver answers "how much is budgeted for this subcategory" for every
// budget view, monthly and annual alike.
type Resolver struct {
	loans LoanIndex
}

// NewResolver builds a resolver over a snapshot of the loan list
func NewResolver(loans []models.Loan) *Resolver {
	return &Resolver{loans: NewLoanIndex(loans)}
}

// Loans exposes the resolver's loan index
func (r *Resolver) Loans() LoanIndex {
	return r.loans
}

// EffectiveBudget returns the monthly budget of a subcategory. Debt Payments
// lines backed by a loan take the loan's installment: for a specific month the
// installment due that month, for Annual the average over the twelve months of
// a loan that spans the whole year and 0 otherwise (partial-year loans are
// budgeted through one-time entries). Every other line uses the manual value.
func (r *Resolver) EffectiveBudget(subcategory, mainCategory string, year, month int, manual map[string]float64) float64 {
	if mainCategory == models.CategoryDebt {
		if loan, ok := r.loans.Lookup(subcategory); ok {
			if month == Annual {
				if !IsFullYear(loan, year) {
					return 0
				}
				var sum float64
				for m := 0; m < 12; m++ {
					sum += Evaluate(loan, year, m).Installment
				}
				return sum / 12
			}
			if st := Evaluate(loan, year, month); st.Active {
				return st.Installment
			}
			return 0
		}
	}
	return manual[subcategory]
}

// PartialYearLoanCharges returns, per month index, the synthetic one-time
// budget entries of loans that are active in year without spanning all of it.
func (r *Resolver) PartialYearLoanCharges(year int) map[int][]models.OneTimeEntry {
	out := make(map[int][]models.OneTimeEntry)
	for _, loan := range r.loans.Loans() {
		if IsFullYear(loan, year) {
			continue
		}
		for m := 0; m < 12; m++ {
			st := Evaluate(loan, year, m)
			if !st.Active {
				continue
			}
			out[m] = append(out[m], models.OneTimeEntry{
				ID:           fmt.Sprintf("loan:%s:%d-%02d", loan.ID, year, m+1),
				MainCategory: models.CategoryDebt,
				Subcategory:  loan.Name,
				Amount:       st.Installment,
				Synthetic:    true,
			})
		}
	}
	return out
}
