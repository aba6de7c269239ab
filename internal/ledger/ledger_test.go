package ledger

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Dan9191/finance-service/internal/models"
	"github.com/Dan9191/finance-service/internal/trading"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T) *models.FinancialData {
	t.Helper()
	data := models.NewFinancialData()
	data.EnsureYear(2023)
	data.EnsureYear(2024)
	return data
}

func TestAddTransactionDoesNotMutateInput(t *testing.T) {
	data := seed(t)

	next, err := AddTransaction{Year: 2024, Month: 2, MainCategory: models.CategoryEssential, Subcategory: "Groceries", Amount: 82.5}.Apply(data)
	require.NoError(t, err)

	assert.Empty(t, data.Year(2024).Actual(2, "Groceries"))
	txs := next.Year(2024).Actual(2, "Groceries")
	require.Len(t, txs, 1)
	assert.Equal(t, 82.5, txs[0].Amount)
	assert.NotEmpty(t, txs[0].ID)
	assert.Equal(t, models.NewDate(2024, time.March, 1), txs[0].Date)
}

func TestAddTransactionSuggestsSubcategory(t *testing.T) {
	_, err := AddTransaction{Year: 2024, Month: 0, MainCategory: models.CategoryEssential, Subcategory: "Grocerie", Amount: 10}.Apply(seed(t))
	require.ErrorIs(t, err, ErrUnknownSubcategory)
	assert.Contains(t, err.Error(), `did you mean "Groceries"`)

	_, err = AddTransaction{Year: 2024, Month: 0, MainCategory: models.CategoryEssential, Subcategory: "Zzzzzzzzzz", Amount: 10}.Apply(seed(t))
	require.ErrorIs(t, err, ErrUnknownSubcategory)
	assert.NotContains(t, err.Error(), "did you mean")
}

func TestAddTransactionValidation(t *testing.T) {
	tests := []struct {
		name string
		cmd  AddTransaction
	}{
		{"zero amount", AddTransaction{Year: 2024, Month: 0, MainCategory: models.CategoryEssential, Subcategory: "Rent"}},
		{"negative amount", AddTransaction{Year: 2024, Month: 0, MainCategory: models.CategoryEssential, Subcategory: "Rent", Amount: -1}},
		{"bad month", AddTransaction{Year: 2024, Month: 12, MainCategory: models.CategoryEssential, Subcategory: "Rent", Amount: 1}},
		{"bad year", AddTransaction{Year: 24, Month: 0, MainCategory: models.CategoryEssential, Subcategory: "Rent", Amount: 1}},
		{"bad main category", AddTransaction{Year: 2024, Month: 0, MainCategory: "Misc", Subcategory: "Rent", Amount: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.cmd.Apply(seed(t))
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestDeleteTransaction(t *testing.T) {
	data, err := AddTransaction{ID: "tx-1", Year: 2024, Month: 4, MainCategory: models.CategoryEssential, Subcategory: "Rent", Amount: 900}.Apply(seed(t))
	require.NoError(t, err)

	next, err := DeleteTransaction{Year: 2024, Month: 4, Subcategory: "Rent", ID: "tx-1"}.Apply(data)
	require.NoError(t, err)
	assert.Empty(t, next.Year(2024).Actual(4, "Rent"))
	assert.Len(t, data.Year(2024).Actual(4, "Rent"), 1)

	_, err = DeleteTransaction{Year: 2024, Month: 4, Subcategory: "Rent", ID: "tx-1"}.Apply(next)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = DeleteTransaction{Year: 2024, Month: 4, Subcategory: "Car Loan", ID: "loan:abc:2024-05"}.Apply(data)
	assert.ErrorIs(t, err, ErrSyntheticTransaction)
}

func TestSetBudget(t *testing.T) {
	next, err := SetBudget{Year: 2024, Subcategory: "Groceries", Amount: 400}.Apply(seed(t))
	require.NoError(t, err)
	assert.Equal(t, 400.0, next.Year(2024).Budget["Groceries"])
	assert.Equal(t, 400.0, next.Year(2024).Monthly["julio"]["Groceries"].Budgeted)

	_, err = SetBudget{Year: 2024, Subcategory: "Groceries", Amount: -5}.Apply(seed(t))
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = SetBudget{Year: 2024, Subcategory: "Rnt", Amount: 5}.Apply(seed(t))
	assert.ErrorIs(t, err, ErrUnknownSubcategory)
}

func TestOneTimeEntries(t *testing.T) {
	data, err := AddOneTime{ID: "ot-1", Year: 2024, Month: 6, MainCategory: models.CategoryDiscretionary, Subcategory: "Travel", Amount: 1200}.Apply(seed(t))
	require.NoError(t, err)
	require.Len(t, data.Year(2024).OneTimeEntries(6), 1)

	_, err = AddOneTime{ID: "loan:x:2024-07", Year: 2024, Month: 6, MainCategory: models.CategoryDebt, Subcategory: "X", Amount: 1}.Apply(data)
	assert.ErrorIs(t, err, ErrInvalidInput)

	next, err := DeleteOneTime{Year: 2024, Month: 6, ID: "ot-1"}.Apply(data)
	require.NoError(t, err)
	assert.Empty(t, next.Year(2024).OneTimeEntries(6))

	_, err = DeleteOneTime{Year: 2024, Month: 6, ID: "loan:x:2024-07"}.Apply(data)
	assert.ErrorIs(t, err, ErrSyntheticTransaction)
}

func TestSetNetWorth(t *testing.T) {
	next, err := SetNetWorth{Year: 2024, Month: 11, Side: SideAssets, Category: "Cash", Value: 5000}.Apply(seed(t))
	require.NoError(t, err)
	assert.Equal(t, 5000.0, next.Year(2024).NetWorth.Assets["Cash"]["diciembre"])

	_, err = SetNetWorth{Year: 2024, Month: 11, Side: "equity", Category: "Cash", Value: 1}.Apply(seed(t))
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = SetNetWorth{Year: 2024, Month: 11, Side: SideLiabilities, Category: "Cash", Value: 1}.Apply(seed(t))
	assert.ErrorIs(t, err, ErrUnknownSubcategory)
}

func TestAddLoanLinksCategoriesFromStartYear(t *testing.T) {
	data := seed(t)
	next, err := AddLoan{ID: "car", Name: "Car Loan", TotalAmount: 12000, InterestRate: 6, InstallmentsCount: 24, StartDate: models.NewDate(2024, time.March, 1)}.Apply(data)
	require.NoError(t, err)

	require.Len(t, next.Loans, 1)
	assert.InDelta(t, 531.85, next.Loans[0].InstallmentAmount, 0.01)
	assert.Equal(t, models.NewDate(2026, time.February, 1), next.Loans[0].EndDate)

	assert.True(t, next.TaxonomyFor(2024).Contains(models.CategoryDebt, "Car Loan"))
	assert.True(t, next.TaxonomyFor(2025).Contains(models.CategoryLiabilities, "Car Loan"))
	assert.False(t, next.TaxonomyFor(2023).Contains(models.CategoryDebt, "Car Loan"))
	assert.Contains(t, next.Year(2024).Budget, "Car Loan")
	assert.NotContains(t, next.Year(2023).Budget, "Car Loan")
	assert.Empty(t, data.Loans)

	_, err = AddLoan{Name: "Car Loan", TotalAmount: 1000, InterestRate: 1, InstallmentsCount: 10, StartDate: models.NewDate(2025, time.January, 1)}.Apply(next)
	assert.ErrorIs(t, err, ErrDuplicateLoan)
}

func TestAddLoanRejectsBadParameters(t *testing.T) {
	_, err := AddLoan{Name: "Bad", TotalAmount: 1000, InterestRate: 5, InstallmentsCount: 0, StartDate: models.NewDate(2024, time.January, 1)}.Apply(seed(t))
	assert.Error(t, err)
	_, err = AddLoan{Name: "", TotalAmount: 1000, InterestRate: 5, InstallmentsCount: 12, StartDate: models.NewDate(2024, time.January, 1)}.Apply(seed(t))
	assert.Error(t, err)
}

func TestDeleteLoanKeepsCategories(t *testing.T) {
	data, err := AddLoan{ID: "car", Name: "Car Loan", TotalAmount: 12000, InterestRate: 6, InstallmentsCount: 24, StartDate: models.NewDate(2024, time.March, 1)}.Apply(seed(t))
	require.NoError(t, err)

	next, err := DeleteLoan{ID: "car"}.Apply(data)
	require.NoError(t, err)
	assert.Empty(t, next.Loans)
	assert.True(t, next.TaxonomyFor(2024).Contains(models.CategoryDebt, "Car Loan"))

	_, err = DeleteLoan{ID: "car"}.Apply(next)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRenameSubcategoryFromYearOnward(t *testing.T) {
	data, err := Apply(seed(t),
		SetBudget{Year: 2023, Subcategory: "Groceries", Amount: 300},
		SetBudget{Year: 2024, Subcategory: "Groceries", Amount: 350},
		AddTransaction{ID: "t1", Year: 2024, Month: 1, MainCategory: models.CategoryEssential, Subcategory: "Groceries", Amount: 40},
	)
	require.NoError(t, err)

	next, err := RenameSubcategory{Year: 2024, MainCategory: models.CategoryEssential, From: "Groceries", To: "Food"}.Apply(data)
	require.NoError(t, err)

	assert.True(t, next.TaxonomyFor(2023).Contains(models.CategoryEssential, "Groceries"))
	assert.True(t, next.TaxonomyFor(2024).Contains(models.CategoryEssential, "Food"))
	assert.False(t, next.TaxonomyFor(2024).Contains(models.CategoryEssential, "Groceries"))
	assert.Equal(t, 300.0, next.Year(2023).Budget["Groceries"])
	assert.Equal(t, 350.0, next.Year(2024).Budget["Food"])
	assert.NotContains(t, next.Year(2024).Budget, "Groceries")
	require.Len(t, next.Year(2024).Actual(1, "Food"), 1)
	assert.Equal(t, "t1", next.Year(2024).Actual(1, "Food")[0].ID)

	_, err = RenameSubcategory{Year: 2024, MainCategory: models.CategoryEssential, From: "Rent", To: "Utilities"}.Apply(data)
	assert.ErrorIs(t, err, ErrDuplicateSubcategory)
}

func TestLoanLinkedSubcategoryIsProtected(t *testing.T) {
	data, err := AddLoan{ID: "car", Name: "Car Loan", TotalAmount: 12000, InterestRate: 6, InstallmentsCount: 24, StartDate: models.NewDate(2024, time.March, 1)}.Apply(seed(t))
	require.NoError(t, err)

	_, err = RenameSubcategory{Year: 2024, MainCategory: models.CategoryDebt, From: "Car Loan", To: "Auto"}.Apply(data)
	assert.ErrorIs(t, err, ErrLoanLinkedSubcategory)
	_, err = DeleteSubcategory{Year: 2024, MainCategory: models.CategoryLiabilities, Subcategory: "Car Loan"}.Apply(data)
	assert.ErrorIs(t, err, ErrLoanLinkedSubcategory)
}

func TestAddAndDeleteSubcategory(t *testing.T) {
	data, err := AddSubcategory{Year: 2024, MainCategory: models.CategoryDiscretionary, Subcategory: "Hobbies"}.Apply(seed(t))
	require.NoError(t, err)
	assert.True(t, data.TaxonomyFor(2024).Contains(models.CategoryDiscretionary, "Hobbies"))
	assert.False(t, data.TaxonomyFor(2023).Contains(models.CategoryDiscretionary, "Hobbies"))
	assert.Contains(t, data.Year(2024).Monthly["enero"], "Hobbies")

	_, err = AddSubcategory{Year: 2024, MainCategory: models.CategoryDiscretionary, Subcategory: "Hobbies"}.Apply(data)
	assert.ErrorIs(t, err, ErrDuplicateSubcategory)

	next, err := DeleteSubcategory{Year: 2024, MainCategory: models.CategoryDiscretionary, Subcategory: "Hobbies"}.Apply(data)
	require.NoError(t, err)
	assert.False(t, next.TaxonomyFor(2024).Contains(models.CategoryDiscretionary, "Hobbies"))
	assert.NotContains(t, next.Year(2024).Budget, "Hobbies")
	assert.NotContains(t, next.Year(2024).Monthly["enero"], "Hobbies")
}

func TestTrades(t *testing.T) {
	trade := models.Trade{Date: "2024-02-01", Asset: "AAPL", Action: models.ActionBuy, Price: "180.5", Amount: "10"}
	data, err := AddTrade{Trade: trade}.Apply(seed(t))
	require.NoError(t, err)
	require.Len(t, data.Trades, 1)
	id := data.Trades[0].ID
	assert.NotEmpty(t, id)

	bad := trade
	bad.Price = "abc"
	_, err = AddTrade{Trade: bad}.Apply(data)
	assert.ErrorIs(t, err, trading.ErrInvalidTrade)

	next, err := DeleteTrade{ID: id}.Apply(data)
	require.NoError(t, err)
	assert.Empty(t, next.Trades)
	_, err = DeleteTrade{ID: id}.Apply(next)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestApplyIsAllOrNothing(t *testing.T) {
	data := seed(t)
	_, err := Apply(data,
		SetBudget{Year: 2024, Subcategory: "Rent", Amount: 900},
		SetBudget{Year: 2024, Subcategory: "Nope", Amount: 1},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "set budget")
	assert.Zero(t, data.Year(2024).Budget["Rent"])
}

func TestAddLoanDecodesAsCommand(t *testing.T) {
	var cmd AddLoan
	body := `{"name":"Car Loan","totalAmount":12000,"interestRate":6,"installmentsCount":24,"startDate":"2024-03-01"}`
	require.NoError(t, json.Unmarshal([]byte(body), &cmd))
	assert.Equal(t, "Car Loan", cmd.Name)

	var c Command = cmd
	assert.Equal(t, "add loan", c.Describe())

	data, err := Apply(seed(t), c)
	require.NoError(t, err)
	require.Len(t, data.Loans, 1)
	assert.Equal(t, "Car Loan", data.Loans[0].Name)

	_, err = Apply(data, c)
	require.ErrorIs(t, err, ErrDuplicateLoan)
	assert.Contains(t, err.Error(), "add loan: ")
}
