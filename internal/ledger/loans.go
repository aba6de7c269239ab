package ledger

import (
	"fmt"

	"github.com/Dan9191/finance-service/internal/finance"
	"github.com/Dan9191/finance-service/internal/models"
	"github.com/google/uuid"
)

// AddLoan creates a loan and links its name into Debt Payments and
// Liabilities from the start year onward.
type AddLoan struct {
	ID                string      `json:"id,omitempty"`
	Name              string      `json:"name"`
	TotalAmount       float64     `json:"totalAmount"`
	InterestRate      float64     `json:"interestRate"`
	InstallmentsCount int         `json:"installmentsCount"`
	StartDate         models.Date `json:"startDate"`
}

func (c AddLoan) Describe() string { return "add loan" }

func (c AddLoan) Apply(data *models.FinancialData) (*models.FinancialData, error) {
	id := c.ID
	if id == "" {
		id = uuid.NewString()
	}
	loan, err := finance.NewLoan(id, c.Name, c.TotalAmount, c.InterestRate, c.InstallmentsCount, c.StartDate)
	if err != nil {
		return nil, err
	}
	if err := validYear(loan.StartDate.Year()); err != nil {
		return nil, err
	}
	for _, l := range data.Loans {
		if l.Name == loan.Name {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateLoan, loan.Name)
		}
		if l.ID == loan.ID {
			return nil, fmt.Errorf("%w: loan id %q already used", ErrInvalidInput, loan.ID)
		}
	}

	next := data.Clone()
	next.Loans = append(next.Loans, loan)
	mutateTaxonomyFrom(next, loan.StartDate.Year(), func(tax models.Taxonomy) {
		for _, main := range []string{models.CategoryDebt, models.CategoryLiabilities} {
			if !tax.Contains(main, loan.Name) {
				tax[main] = append(tax[main], loan.Name)
			}
		}
	})
	return next, nil
}

// DeleteLoan removes the loan record. Subcategories and entries carrying its
// name are left in place so historical actuals survive.
type DeleteLoan struct {
	ID string `json:"id"`
}

func (c DeleteLoan) Describe() string { return "delete loan" }

func (c DeleteLoan) Apply(data *models.FinancialData) (*models.FinancialData, error) {
	for i, l := range data.Loans {
		if l.ID != c.ID {
			continue
		}
		next := data.Clone()
		next.Loans = append(next.Loans[:i], next.Loans[i+1:]...)
		return next, nil
	}
	return nil, fmt.Errorf("%w: loan %s", ErrNotFound, c.ID)
}
