package service

import (
	"context"
	"fmt"

	"github.com/Dan9191/finance-service/internal/finance"
	"github.com/Dan9191/finance-service/internal/models"
)

// Reminder is an installment due in a given month
type Reminder struct {
	Loan    models.Loan
	Status  finance.LoanStatus
	DueDate models.Date
}

// Users returns every registered user
func (s *Service) Users(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// DueInstallments returns the installments of a user's loans falling in a month
func (s *Service) DueInstallments(ctx context.Context, userID int64, year, month int) ([]Reminder, error) {
	data, err := s.repo.GetDocument(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load document of user %d: %w", userID, err)
	}
	var out []Reminder
	for _, loan := range data.Loans {
		st := finance.Evaluate(loan, year, month)
		if !st.Active {
			continue
		}
		offset := (year-loan.StartDate.Year())*12 + month - loan.StartDate.MonthIndex()
		out = append(out, Reminder{
			Loan:    loan,
			Status:  st,
			DueDate: finance.AddMonths(loan.StartDate, offset),
		})
	}
	return out, nil
}
