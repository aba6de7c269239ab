package finance

import (
	"time"

	"github.com/Dan9191/finance-service/internal/models"
)

// LoanStatus is a loan's position in one calendar month
type LoanStatus struct {
	Installment float64 `json:"installment"`
	Balance     float64 `json:"balance"` // outstanding before that month's payment
	Active      bool    `json:"active"`
}

// Evaluate returns the installment due and the outstanding balance of loan in
// the given month (monthIndex 0 = January). Months before the first or after
// the last installment, and structurally invalid loans, are inactive.
func Evaluate(loan models.Loan, year, monthIndex int) LoanStatus {
	if monthIndex < 0 || monthIndex > 11 || loan.StartDate.IsZero() {
		return LoanStatus{}
	}
	diff := monthsBetween(loan.StartDate.Year(), loan.StartDate.MonthIndex(), year, monthIndex)
	if diff < 0 || diff >= loan.InstallmentsCount {
		return LoanStatus{}
	}
	a, err := newAmortizer(loan)
	if err != nil {
		return LoanStatus{}
	}
	var row InstallmentRow
	for a.n <= diff {
		row = a.next()
	}
	return LoanStatus{
		Installment: row.Installment,
		Balance:     row.OpeningBalance,
		Active:      true,
	}
}

// loanEnd returns the stored end date, deriving it for records saved without one
func loanEnd(loan models.Loan) models.Date {
	if !loan.EndDate.IsZero() {
		return loan.EndDate
	}
	return EndDate(loan.StartDate, loan.InstallmentsCount)
}

// IsFullYear reports whether loan runs from at least January 1 through at
// least December 31 of year.
func IsFullYear(loan models.Loan, year int) bool {
	if loan.StartDate.IsZero() || loan.InstallmentsCount <= 0 {
		return false
	}
	jan1 := models.NewDate(year, time.January, 1)
	dec31 := models.NewDate(year, time.December, 31)
	return !loan.StartDate.After(jan1.Time) && !loanEnd(loan).Before(dec31.Time)
}
