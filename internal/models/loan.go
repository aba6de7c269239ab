package models

// Loan is an amortizing loan repaid with constant monthly installments.
// Name doubles as the subcategory name under Debt Payments and Liabilities.
type Loan struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	TotalAmount       float64 `json:"totalAmount"`
	InterestRate      float64 `json:"interestRate"` // annual nominal rate, percent
	InstallmentsCount int     `json:"installmentsCount"`
	InstallmentAmount float64 `json:"installmentAmount"`
	StartDate         Date    `json:"startDate"`
	EndDate           Date    `json:"endDate"`
}
