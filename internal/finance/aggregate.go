package finance

import (
	"fmt"
	"math"
	"time"

	"github.com/Dan9191/finance-service/internal/models"
)

// MonthTotal sums the amounts of a month's ledger entries
func MonthTotal(transactions []models.Transaction) float64 {
	var total float64
	for _, tx := range transactions {
		total += tx.Amount
	}
	return total
}

// SavingsRate returns (income - expenses) / income, or 0 without income
func SavingsRate(income, expenses float64) float64 {
	return Ratio(income-expenses, income)
}

// Ratio divides part by total, returning 0 instead of NaN or Inf
func Ratio(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	r := part / total
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

// Aggregator rolls ledger entries, manual budgets and loan-derived
// installments up into the figures shown by budget and summary views.
// It reads one snapshot and never modifies it. An Aggregator caches category
// indexes and is not safe for concurrent use.
type Aggregator struct {
	data     *models.FinancialData
	resolver *Resolver
	indexes  map[int]CategoryIndex
}

// NewAggregator builds an aggregator over a document snapshot
func NewAggregator(data *models.FinancialData) *Aggregator {
	if data == nil {
		data = models.NewFinancialData()
	}
	return &Aggregator{
		data:     data,
		resolver: NewResolver(data.Loans),
		indexes:  make(map[int]CategoryIndex),
	}
}

// Index returns the category index in effect for year
func (a *Aggregator) Index(year int) CategoryIndex {
	idx, ok := a.indexes[year]
	if !ok {
		idx = NewCategoryIndex(a.data.TaxonomyFor(year))
		a.indexes[year] = idx
	}
	return idx
}

func (a *Aggregator) manualBudget(year int) map[string]float64 {
	if y := a.data.Year(year); y != nil {
		return y.Budget
	}
	return nil
}

// loanTransaction returns the synthetic ledger entry of the loan behind a
// Debt Payments subcategory for one month.
func (a *Aggregator) loanTransaction(mainCategory, subcategory string, year, month int) (models.Transaction, bool) {
	if mainCategory != models.CategoryDebt {
		return models.Transaction{}, false
	}
	loan, ok := a.resolver.Loans().Lookup(subcategory)
	if !ok {
		return models.Transaction{}, false
	}
	st := Evaluate(loan, year, month)
	if !st.Active {
		return models.Transaction{}, false
	}
	day := loan.StartDate.Day()
	if last := daysIn(year, time.Month(month+1)); day > last {
		day = last
	}
	return models.Transaction{
		ID:        fmt.Sprintf("loan:%s:%d-%02d", loan.ID, year, month+1),
		Amount:    st.Installment,
		Date:      models.NewDate(year, time.Month(month+1), day),
		Synthetic: true,
	}, true
}

// Transactions returns the ledger entries of a subcategory for one month,
// followed by the loan installment when the subcategory is an active loan.
func (a *Aggregator) Transactions(mainCategory, subcategory string, year, month int) []models.Transaction {
	out := append([]models.Transaction{}, a.data.Year(year).Actual(month, subcategory)...)
	if tx, ok := a.loanTransaction(mainCategory, subcategory, year, month); ok {
		out = append(out, tx)
	}
	return out
}

// MonthlyActual returns the amount spent (or earned) in a subcategory for one
// month. A loan installment is added once on top of any manual entries.
func (a *Aggregator) MonthlyActual(mainCategory, subcategory string, year, month int) float64 {
	total := MonthTotal(a.data.Year(year).Actual(month, subcategory))
	if tx, ok := a.loanTransaction(mainCategory, subcategory, year, month); ok {
		total += tx.Amount
	}
	return total
}

// oneTimeActual sums the persisted one-time entries booked to a main category
// in a month, or in the whole year with Annual.
func (a *Aggregator) oneTimeActual(mainCategory string, year, month int) float64 {
	if month == Annual {
		var total float64
		for m := 0; m < 12; m++ {
			total += a.oneTimeActual(mainCategory, year, m)
		}
		return total
	}
	idx := a.Index(year)
	var total float64
	for _, e := range a.data.Year(year).OneTimeEntries(month) {
		main := e.MainCategory
		if main == "" {
			main = idx.Categorize(e.Subcategory).MainCategory
		}
		if main == mainCategory {
			total += e.Amount
		}
	}
	return total
}

// MainCategoryActual returns the actual total of a main category for a month, or for the year with Annual
func (a *Aggregator) MainCategoryActual(mainCategory string, year, month int) float64 {
	if month == Annual {
		var total float64
		for m := 0; m < 12; m++ {
			total += a.MainCategoryActual(mainCategory, year, m)
		}
		return total
	}
	var total float64
	for _, sub := range a.Index(year).Subcategories(mainCategory) {
		total += a.MonthlyActual(mainCategory, sub, year, month)
	}
	return total + a.oneTimeActual(mainCategory, year, month)
}

// MainCategoryBudget returns the budget of a main category for a month. For
// Annual it returns the yearly budget: twelve times the recurring lines plus
// the one-time charges of partial-year loans.
func (a *Aggregator) MainCategoryBudget(mainCategory string, year, month int) float64 {
	manual := a.manualBudget(year)
	var total float64
	for _, sub := range a.Index(year).Subcategories(mainCategory) {
		total += a.resolver.EffectiveBudget(sub, mainCategory, year, month, manual)
	}
	if month != Annual {
		return total
	}
	total *= 12
	for _, entries := range a.resolver.PartialYearLoanCharges(year) {
		for _, e := range entries {
			if e.MainCategory == mainCategory {
				total += e.Amount
			}
		}
	}
	return total
}

// Summary returns income, expenses and savings for a month, or for the year with Annual
func (a *Aggregator) Summary(year, month int) models.PeriodSummary {
	s := models.PeriodSummary{
		Year:     year,
		Month:    models.MonthName(month),
		Expenses: make(map[string]float64, len(models.ExpenseCategories)),
	}
	s.Income = a.MainCategoryActual(models.CategoryIncome, year, month)
	for _, main := range models.ExpenseCategories {
		spent := a.MainCategoryActual(main, year, month)
		s.Expenses[main] = spent
		s.TotalExpenses += spent
		s.Budgeted += a.MainCategoryBudget(main, year, month)
	}
	s.Savings = s.Income - s.TotalExpenses
	s.SavingsRate = SavingsRate(s.Income, s.TotalExpenses)
	s.BudgetUsage = Ratio(s.TotalExpenses, s.Budgeted)
	return s
}

// BudgetView lays out effective budget against actuals for every income and
// expense subcategory, for one month or for the year with Annual.
func (a *Aggregator) BudgetView(year, month int) models.BudgetView {
	view := models.BudgetView{
		Year:    year,
		Month:   models.MonthName(month),
		OneTime: []models.OneTimeEntry{},
	}
	manual := a.manualBudget(year)
	var charges map[int][]models.OneTimeEntry
	diverted := make(map[string]float64)
	if month == Annual {
		charges = a.resolver.PartialYearLoanCharges(year)
		for m := 0; m < 12; m++ {
			for _, e := range charges[m] {
				diverted[e.MainCategory+"/"+e.Subcategory] += e.Amount
			}
			view.OneTime = append(view.OneTime, charges[m]...)
			view.OneTime = append(view.OneTime, a.data.Year(year).OneTimeEntries(m)...)
		}
	} else {
		view.OneTime = append(view.OneTime, a.data.Year(year).OneTimeEntries(month)...)
	}

	mains := append([]string{models.CategoryIncome}, models.ExpenseCategories...)
	for _, main := range mains {
		cat := models.CategoryBudget{MainCategory: main, Lines: []models.BudgetLine{}}
		for _, sub := range a.Index(year).Subcategories(main) {
			line := models.BudgetLine{
				Subcategory: sub,
				Budgeted:    a.resolver.EffectiveBudget(sub, main, year, month, manual),
			}
			if main == models.CategoryDebt {
				if loan, ok := a.resolver.Loans().Lookup(sub); ok {
					line.LoanID = loan.ID
				}
			}
			if month == Annual {
				line.Budgeted *= 12
				line.OneTime = diverted[main+"/"+sub]
				for m := 0; m < 12; m++ {
					line.Actual += a.MonthlyActual(main, sub, year, m)
				}
			} else {
				line.Actual = a.MonthlyActual(main, sub, year, month)
			}
			allowed := line.Budgeted + line.OneTime
			line.Remaining = allowed - line.Actual
			line.OverBudget = main != models.CategoryIncome && line.Actual > allowed
			cat.Lines = append(cat.Lines, line)
			cat.Budgeted += line.Budgeted
			cat.Actual += line.Actual
		}
		for _, entries := range charges {
			for _, e := range entries {
				if e.MainCategory == main {
					cat.Budgeted += e.Amount
				}
			}
		}
		cat.Actual += a.oneTimeActual(main, year, month)
		view.Categories = append(view.Categories, cat)
	}
	return view
}

// NetWorth returns assets minus liabilities for a month. A liability named
// after a loan falls back to the loan's outstanding balance when no value was
// entered for that month.
func (a *Aggregator) NetWorth(year, month int) models.NetWorthSummary {
	monthKey := models.MonthName(month)
	s := models.NetWorthSummary{
		Year:        year,
		Month:       monthKey,
		Assets:      make(map[string]float64),
		Liabilities: make(map[string]float64),
	}
	rec := a.data.Year(year)
	idx := a.Index(year)
	for _, c := range idx.Subcategories(models.CategoryAssets) {
		var v float64
		if rec != nil {
			v = rec.NetWorth.Assets[c][monthKey]
		}
		s.Assets[c] = v
		s.TotalAssets += v
	}
	for _, c := range idx.Subcategories(models.CategoryLiabilities) {
		v, entered := 0.0, false
		if rec != nil {
			v, entered = rec.NetWorth.Liabilities[c][monthKey]
		}
		if !entered {
			if loan, ok := a.resolver.Loans().Lookup(c); ok {
				v = Evaluate(loan, year, month).Balance
			}
		}
		s.Liabilities[c] = v
		s.TotalDebt += v
	}
	s.NetWorth = s.TotalAssets - s.TotalDebt
	return s
}

// DebtBurden returns the loan installments due in a month against that month's income
func (a *Aggregator) DebtBurden(year, month int) models.DebtBurden {
	var b models.DebtBurden
	for _, loan := range a.data.Loans {
		st := Evaluate(loan, year, month)
		if !st.Active {
			continue
		}
		b.MonthlyPayments += st.Installment
		b.OutstandingBalance += st.Balance
	}
	b.BurdenRatio = Ratio(b.MonthlyPayments, a.MainCategoryActual(models.CategoryIncome, year, month))
	return b
}
