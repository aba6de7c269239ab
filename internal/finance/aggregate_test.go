package finance

import (
	"testing"
	"time"

	"github.com/Dan9191/finance-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDocument(t *testing.T) (*models.FinancialData, models.Loan) {
	t.Helper()
	doc := models.NewFinancialData()
	loan := mustLoan(t, "Mortgage", 150000, 3.5, 360, models.NewDate(2020, time.January, 1))
	doc.Loans = append(doc.Loans, loan)

	tax := models.DefaultTaxonomy()
	tax[models.CategoryDebt] = []string{"Mortgage"}
	tax[models.CategoryLiabilities] = []string{"Mortgage"}
	rec := models.NewYearRecord()
	rec.Categories = tax
	rec.Normalize(tax)
	doc.Years[2024] = rec

	rec.Budget["Groceries"] = 400
	rec.Budget["Salary"] = 3000
	rec.Budget["Restaurants"] = 100
	add := func(month, sub string, amount float64) {
		sm := rec.Monthly[month][sub]
		sm.Actual = append(sm.Actual, models.Transaction{ID: sub + month, Amount: amount, Date: models.NewDate(2024, time.January, 10)})
		rec.Monthly[month][sub] = sm
	}
	add("enero", "Groceries", 50)
	add("enero", "Groceries", 25.5)
	add("enero", "Salary", 3000)
	add("enero", "Restaurants", 150)
	add("febrero", "Salary", 3000)
	rec.OneTime["enero"] = append(rec.OneTime["enero"], models.OneTimeEntry{
		ID: "ot1", MainCategory: models.CategoryDiscretionary, Subcategory: "Travel", Amount: 200,
	})
	return doc, loan
}

func TestMonthTotal(t *testing.T) {
	assert.Zero(t, MonthTotal(nil))
	assert.Equal(t, 30.0, MonthTotal([]models.Transaction{{Amount: 10}, {Amount: 20}}))
}

func TestCategorize(t *testing.T) {
	tax := models.DefaultTaxonomy()
	tax[models.CategoryDebt] = []string{"Mortgage"}
	tax[models.CategoryLiabilities] = []string{"Mortgage"}

	tests := []struct {
		sub  string
		want Classification
	}{
		{"Groceries", Classification{KindExpense, models.CategoryEssential}},
		{"Salary", Classification{KindIncome, models.CategoryIncome}},
		{"Cash", Classification{KindAsset, models.CategoryAssets}},
		{"Mortgage", Classification{KindExpense, models.CategoryDebt}},
		{"Index Funds", Classification{KindExpense, models.CategorySavings}},
		{"Nope", Classification{KindUnknown, UnknownMainCategory}},
	}
	for _, tt := range tests {
		t.Run(tt.sub, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.sub, tax))
		})
	}
	assert.Equal(t, Classification{KindUnknown, "?"}, Categorize("x", nil))
}

func TestMonthlyActualInjectsLoanInstallment(t *testing.T) {
	doc, loan := testDocument(t)
	agg := NewAggregator(doc)

	assert.Equal(t, 75.5, agg.MonthlyActual(models.CategoryEssential, "Groceries", 2024, 0))
	assert.InDelta(t, loan.InstallmentAmount, agg.MonthlyActual(models.CategoryDebt, "Mortgage", 2024, 0), 1e-9)
	assert.Zero(t, agg.MonthlyActual(models.CategoryLiabilities, "Mortgage", 2024, 0))
	assert.Zero(t, agg.MonthlyActual(models.CategoryDebt, "Mortgage", 2051, 0))

	txs := agg.Transactions(models.CategoryDebt, "Mortgage", 2024, 4)
	require.Len(t, txs, 1)
	assert.True(t, txs[0].Synthetic)
	assert.Equal(t, "loan:id-Mortgage:2024-05", txs[0].ID)
	assert.Equal(t, models.NewDate(2024, time.May, 1), txs[0].Date)

	// manual entries under a loan name add to the installment
	rec := doc.Years[2024]
	rec.Monthly["mayo"]["Mortgage"] = models.SubcategoryMonth{Actual: []models.Transaction{{ID: "m", Amount: 10}}}
	assert.InDelta(t, loan.InstallmentAmount+10, NewAggregator(doc).MonthlyActual(models.CategoryDebt, "Mortgage", 2024, 4), 1e-9)
}

func TestSummaryMonthAndYear(t *testing.T) {
	doc, loan := testDocument(t)
	agg := NewAggregator(doc)

	jan := agg.Summary(2024, 0)
	assert.Equal(t, "enero", jan.Month)
	assert.Equal(t, 3000.0, jan.Income)
	assert.Equal(t, 75.5, jan.Expenses[models.CategoryEssential])
	assert.Equal(t, 350.0, jan.Expenses[models.CategoryDiscretionary])
	assert.InDelta(t, loan.InstallmentAmount, jan.Expenses[models.CategoryDebt], 1e-9)
	assert.InDelta(t, 75.5+350+loan.InstallmentAmount, jan.TotalExpenses, 1e-9)
	assert.InDelta(t, 3000-jan.TotalExpenses, jan.Savings, 1e-9)
	assert.InDelta(t, jan.Savings/3000, jan.SavingsRate, 1e-12)
	assert.InDelta(t, 400+100+loan.InstallmentAmount, jan.Budgeted, 1e-9)

	year := agg.Summary(2024, Annual)
	assert.Empty(t, year.Month)
	assert.Equal(t, 6000.0, year.Income)
	assert.InDelta(t, 12*loan.InstallmentAmount, year.Expenses[models.CategoryDebt], 1e-6)
	assert.InDelta(t, 12*(400+100+loan.InstallmentAmount), year.Budgeted, 1e-6)
}

func TestSummaryWithoutIncome(t *testing.T) {
	agg := NewAggregator(models.NewFinancialData())
	s := agg.Summary(2030, 5)
	assert.Zero(t, s.Income)
	assert.Zero(t, s.TotalExpenses)
	assert.Zero(t, s.SavingsRate)
	assert.Zero(t, s.BudgetUsage)
	assert.Zero(t, SavingsRate(0, 0))
	assert.Zero(t, Ratio(5, 0))
}

func TestBudgetViewAnnualDivertsPartialLoan(t *testing.T) {
	doc, _ := testDocument(t)
	car := mustLoan(t, "Car Loan", 12000, 6, 12, models.NewDate(2024, time.March, 1))
	doc.Loans = append(doc.Loans, car)
	tax := doc.Years[2024].Categories
	tax[models.CategoryDebt] = append(tax[models.CategoryDebt], "Car Loan")

	agg := NewAggregator(doc)
	view := agg.BudgetView(2024, Annual)

	var debt models.CategoryBudget
	for _, c := range view.Categories {
		if c.MainCategory == models.CategoryDebt {
			debt = c
		}
	}
	require.Len(t, debt.Lines, 2)
	carLine := debt.Lines[1]
	assert.Equal(t, "Car Loan", carLine.Subcategory)
	assert.Equal(t, car.ID, carLine.LoanID)
	assert.Zero(t, carLine.Budgeted)
	assert.InDelta(t, 10*car.InstallmentAmount, carLine.Actual, 1e-6)
	assert.InDelta(t, 10*car.InstallmentAmount, carLine.OneTime, 1e-6)
	assert.InDelta(t, 0, carLine.Remaining, 1e-6)
	assert.False(t, carLine.OverBudget)

	var charged float64
	for _, e := range view.OneTime {
		if e.Subcategory == "Car Loan" {
			charged += e.Amount
		}
	}
	assert.InDelta(t, 10*car.InstallmentAmount, charged, 1e-6)
	assert.InDelta(t, debt.Lines[0].Budgeted+charged, debt.Budgeted, 1e-6)
	assert.InDelta(t, debt.Budgeted, agg.MainCategoryBudget(models.CategoryDebt, 2024, Annual), 1e-6)

	march := agg.BudgetView(2024, 2)
	for _, c := range march.Categories {
		if c.MainCategory == models.CategoryDebt {
			assert.InDelta(t, car.InstallmentAmount, c.Lines[1].Budgeted, 1e-9)
		}
	}
}

func TestBudgetViewMonthLines(t *testing.T) {
	doc, _ := testDocument(t)
	view := NewAggregator(doc).BudgetView(2024, 0)

	assert.Equal(t, "enero", view.Month)
	require.Len(t, view.OneTime, 1)
	for _, c := range view.Categories {
		if c.MainCategory != models.CategoryDiscretionary {
			continue
		}
		assert.Equal(t, 350.0, c.Actual)
		for _, l := range c.Lines {
			if l.Subcategory == "Restaurants" {
				assert.True(t, l.OverBudget)
				assert.Equal(t, -50.0, l.Remaining)
			}
		}
	}
}

func TestNetWorthUsesLoanBalance(t *testing.T) {
	doc, loan := testDocument(t)
	rec := doc.Years[2024]
	rec.NetWorth.Assets["Cash"]["marzo"] = 10000
	rec.NetWorth.Assets["Property"]["marzo"] = 200000

	nw := NewAggregator(doc).NetWorth(2024, 2)
	balance := Evaluate(loan, 2024, 2).Balance
	assert.Equal(t, 210000.0, nw.TotalAssets)
	assert.InDelta(t, balance, nw.Liabilities["Mortgage"], 1e-9)
	assert.InDelta(t, 210000-balance, nw.NetWorth, 1e-6)

	rec.NetWorth.Liabilities["Mortgage"]["marzo"] = 120000
	nw = NewAggregator(doc).NetWorth(2024, 2)
	assert.Equal(t, 120000.0, nw.Liabilities["Mortgage"])
}

func TestDebtBurden(t *testing.T) {
	doc, loan := testDocument(t)
	b := NewAggregator(doc).DebtBurden(2024, 0)
	assert.InDelta(t, loan.InstallmentAmount, b.MonthlyPayments, 1e-9)
	assert.InDelta(t, loan.InstallmentAmount/3000, b.BurdenRatio, 1e-12)
	assert.Greater(t, b.OutstandingBalance, 0.0)
}
