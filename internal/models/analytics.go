package models

// PeriodSummary represents income, expense and savings figures for a month or a year
type PeriodSummary struct {
	Year          int                `json:"year"`
	Month         string             `json:"month,omitempty"` // empty for the whole year
	Income        float64            `json:"income"`
	Expenses      map[string]float64 `json:"expenses"` // by expense-bearing main category
	TotalExpenses float64            `json:"total_expenses"`
	Savings       float64            `json:"savings"`
	SavingsRate   float64            `json:"savings_rate"` // Savings / Income, 0 without income
	Budgeted      float64            `json:"budgeted"`     // expense budget for the period
	BudgetUsage   float64            `json:"budget_usage"` // TotalExpenses / Budgeted, 0 without budget
}

// DebtBurden represents loan burden analytics for one month
type DebtBurden struct {
	MonthlyPayments    float64 `json:"monthly_payments"`
	OutstandingBalance float64 `json:"outstanding_balance"`
	BurdenRatio        float64 `json:"burden_ratio"` // MonthlyPayments / Income
}

// BudgetLine compares effective budget and actual spending for one subcategory
type BudgetLine struct {
	Subcategory string  `json:"subcategory"`
	LoanID      string  `json:"loan_id,omitempty"`
	Budgeted    float64 `json:"budgeted"`
	OneTime     float64 `json:"one_time,omitempty"` // budget carried as one-time entries instead of the recurring line
	Actual      float64 `json:"actual"`
	Remaining   float64 `json:"remaining"`
	OverBudget  bool    `json:"over_budget"`
}

// CategoryBudget groups the budget lines of one main category
type CategoryBudget struct {
	MainCategory string       `json:"main_category"`
	Lines        []BudgetLine `json:"lines"`
	Budgeted     float64      `json:"budgeted"`
	Actual       float64      `json:"actual"`
}

// BudgetView is the budget grid of a month, or of the whole year when Month is empty
type BudgetView struct {
	Year       int              `json:"year"`
	Month      string           `json:"month,omitempty"`
	Categories []CategoryBudget `json:"categories"`
	OneTime    []OneTimeEntry   `json:"one_time"`
}

// NetWorthSummary represents assets against liabilities at the end of a month
type NetWorthSummary struct {
	Year        int                `json:"year"`
	Month       string             `json:"month"`
	Assets      map[string]float64 `json:"assets"`
	Liabilities map[string]float64 `json:"liabilities"`
	TotalAssets float64            `json:"total_assets"`
	TotalDebt   float64            `json:"total_debt"`
	NetWorth    float64            `json:"net_worth"`
}
