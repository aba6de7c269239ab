package finance

import (
	"testing"
	"time"

	"github.com/Dan9191/finance-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveBudgetPartialYearLoan(t *testing.T) {
	loan := mustLoan(t, "Car Loan", 12000, 6, 12, models.NewDate(2024, time.March, 1))
	r := NewResolver([]models.Loan{loan})

	assert.Zero(t, r.EffectiveBudget("Car Loan", models.CategoryDebt, 2024, Annual, nil))
	for m := 0; m < 12; m++ {
		st := Evaluate(loan, 2024, m)
		assert.Equal(t, m >= 2, st.Active, "month %d", m)
		assert.Equal(t, st.Installment, r.EffectiveBudget("Car Loan", models.CategoryDebt, 2024, m, nil))
	}
}

func TestEffectiveBudgetFullYearLoanAverages(t *testing.T) {
	loan := mustLoan(t, "Mortgage", 150000, 3.5, 360, models.NewDate(2020, time.January, 1))
	r := NewResolver([]models.Loan{loan})

	got := r.EffectiveBudget("Mortgage", models.CategoryDebt, 2024, Annual, map[string]float64{"Mortgage": 1})
	assert.InDelta(t, loan.InstallmentAmount, got, 1e-9)
}

func TestEffectiveBudgetManualFallback(t *testing.T) {
	loan := mustLoan(t, "Mortgage", 150000, 3.5, 360, models.NewDate(2020, time.January, 1))
	r := NewResolver([]models.Loan{loan})
	manual := map[string]float64{"Groceries": 400, "Mortgage": 55}

	assert.Equal(t, 400.0, r.EffectiveBudget("Groceries", models.CategoryEssential, 2024, 3, manual))
	assert.Equal(t, 400.0, r.EffectiveBudget("Groceries", models.CategoryEssential, 2024, Annual, manual))
	assert.Zero(t, r.EffectiveBudget("Unknown", models.CategoryEssential, 2024, 3, manual))
	assert.Zero(t, r.EffectiveBudget("Unknown", models.CategoryEssential, 2024, 3, nil))
	// a loan name outside Debt Payments is a plain manual line
	assert.Equal(t, 55.0, r.EffectiveBudget("Mortgage", models.CategoryLiabilities, 2024, 3, manual))
	// a finished loan budgets nothing
	assert.Zero(t, r.EffectiveBudget("Mortgage", models.CategoryDebt, 2051, 3, manual))
}

func TestEffectiveBudgetIsIdempotent(t *testing.T) {
	loans := []models.Loan{mustLoan(t, "Mortgage", 150000, 3.5, 360, models.NewDate(2020, time.January, 1))}
	manual := map[string]float64{"Groceries": 400}
	r := NewResolver(loans)

	first := r.EffectiveBudget("Mortgage", models.CategoryDebt, 2024, Annual, manual)
	second := NewResolver(loans).EffectiveBudget("Mortgage", models.CategoryDebt, 2024, Annual, manual)
	assert.Equal(t, first, second)
	assert.Equal(t, map[string]float64{"Groceries": 400}, manual)
}

func TestPartialYearLoanCharges(t *testing.T) {
	partial := mustLoan(t, "Car Loan", 12000, 6, 12, models.NewDate(2024, time.March, 1))
	full := mustLoan(t, "Mortgage", 150000, 3.5, 360, models.NewDate(2020, time.January, 1))
	r := NewResolver([]models.Loan{full, partial})

	charges := r.PartialYearLoanCharges(2024)
	require.Len(t, charges, 10)
	for m := 2; m < 12; m++ {
		require.Len(t, charges[m], 1)
		e := charges[m][0]
		assert.Equal(t, "Car Loan", e.Subcategory)
		assert.Equal(t, models.CategoryDebt, e.MainCategory)
		assert.True(t, e.Synthetic)
		assert.Equal(t, Evaluate(partial, 2024, m).Installment, e.Amount)
	}

	next := r.PartialYearLoanCharges(2025)
	assert.Len(t, next, 2)
}

func TestLoanIndexFirstNameWins(t *testing.T) {
	a := models.Loan{ID: "a", Name: "Loan"}
	b := models.Loan{ID: "b", Name: "Loan"}
	idx := NewLoanIndex([]models.Loan{a, b})

	got, ok := idx.Lookup("Loan")
	require.True(t, ok)
	assert.Equal(t, "a", got.ID)
	assert.Len(t, idx.Loans(), 1)
	_, ok = idx.Lookup("Other")
	assert.False(t, ok)
}
