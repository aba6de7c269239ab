package finance

import (
	"fmt"
	"math"
	"strings"

	"github.com/Dan9191/finance-service/internal/models"
)

const (
	// balanceTolerance is how close to zero a remaining balance must be to be snapped to zero
	balanceTolerance = 0.01
	// MaxTermMonths caps a loan at one hundred years of monthly installments
	MaxTermMonths = 1200
)

// InstallmentRow is one line of a French amortization schedule
type InstallmentRow struct {
	Number              int         `json:"number"`
	Date                models.Date `json:"date"`
	Installment         float64     `json:"installment"`
	Interest            float64     `json:"interest"`
	Principal           float64     `json:"principal"`
	CumulativePrincipal float64     `json:"cumulative_principal"`
	OpeningBalance      float64     `json:"opening_balance"`
	Balance             float64     `json:"balance"`
}

// monthlyRate converts an annual nominal percentage into the periodic monthly rate
func monthlyRate(annualRatePercent float64) float64 {
	return annualRatePercent / 100 / 12
}

// ComputeInstallment returns the constant monthly payment of a French
// (annuity) loan. A zero rate splits the principal evenly.
func ComputeInstallment(principal, annualRatePercent float64, termMonths int) (float64, error) {
	if termMonths <= 0 || principal <= 0 || math.IsNaN(principal) || math.IsInf(principal, 0) {
		return 0, fmt.Errorf("%w: principal %.2f, term %d", ErrInvalidLoanParameters, principal, termMonths)
	}
	if termMonths > MaxTermMonths {
		return 0, fmt.Errorf("%w: term %d exceeds %d months", ErrInvalidLoanParameters, termMonths, MaxTermMonths)
	}
	i := monthlyRate(annualRatePercent)
	if i <= 0 {
		return principal / float64(termMonths), nil
	}
	return principal * i / (1 - math.Pow(1+i, -float64(termMonths))), nil
}

// EndDate returns the date of the last installment of a loan starting at start
func EndDate(start models.Date, installments int) models.Date {
	return AddMonths(start, installments-1)
}

// NewLoan validates the parameters and derives the installment and end date
func NewLoan(id, name string, totalAmount, annualRatePercent float64, installments int, start models.Date) (models.Loan, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Loan{}, fmt.Errorf("%w: name is required", ErrInvalidLoanParameters)
	}
	if start.IsZero() {
		return models.Loan{}, fmt.Errorf("%w: start date is required", ErrInvalidLoanParameters)
	}
	if annualRatePercent < 0 {
		return models.Loan{}, fmt.Errorf("%w: negative interest rate %.2f", ErrInvalidLoanParameters, annualRatePercent)
	}
	installment, err := ComputeInstallment(totalAmount, annualRatePercent, installments)
	if err != nil {
		return models.Loan{}, err
	}
	return models.Loan{
		ID:                id,
		Name:              name,
		TotalAmount:       totalAmount,
		InterestRate:      annualRatePercent,
		InstallmentsCount: installments,
		InstallmentAmount: installment,
		StartDate:         start,
		EndDate:           EndDate(start, installments),
	}, nil
}

// amortizer replays a schedule one installment at a time. BuildSchedule and
// Evaluate both drive it so their figures agree to the bit.
type amortizer struct {
	start       models.Date
	rate        float64
	installment float64
	term        int
	n           int
	balance     float64
	cumulative  float64
}

func newAmortizer(loan models.Loan) (*amortizer, error) {
	if loan.InstallmentsCount > MaxTermMonths {
		return nil, fmt.Errorf("%w: term %d exceeds %d months", ErrInvalidLoanParameters, loan.InstallmentsCount, MaxTermMonths)
	}
	installment := loan.InstallmentAmount
	if installment <= 0 || loan.InstallmentsCount <= 0 || loan.TotalAmount <= 0 {
		computed, err := ComputeInstallment(loan.TotalAmount, loan.InterestRate, loan.InstallmentsCount)
		if err != nil {
			return nil, err
		}
		installment = computed
	}
	return &amortizer{
		start:       loan.StartDate,
		rate:        monthlyRate(loan.InterestRate),
		installment: installment,
		term:        loan.InstallmentsCount,
		balance:     loan.TotalAmount,
	}, nil
}

func (a *amortizer) next() InstallmentRow {
	a.n++
	opening := a.balance
	interest := opening * a.rate
	principal := a.installment - interest
	installment := a.installment
	if a.n == a.term || principal > opening {
		// the last row absorbs rounding
		principal = opening
		installment = principal + interest
	}
	balance := opening - principal
	if balance < balanceTolerance {
		balance = 0
	}
	a.balance = balance
	a.cumulative += principal
	return InstallmentRow{
		Number:              a.n,
		Date:                AddMonths(a.start, a.n-1),
		Installment:         installment,
		Interest:            interest,
		Principal:           principal,
		CumulativePrincipal: a.cumulative,
		OpeningBalance:      opening,
		Balance:             balance,
	}
}

// BuildSchedule returns the full amortization schedule of loan, one row per installment
func BuildSchedule(loan models.Loan) ([]InstallmentRow, error) {
	a, err := newAmortizer(loan)
	if err != nil {
		return nil, err
	}
	rows := make([]InstallmentRow, 0, loan.InstallmentsCount)
	for a.n < a.term {
		rows = append(rows, a.next())
	}
	return rows, nil
}

// TotalInterest sums the interest column of a schedule
func TotalInterest(rows []InstallmentRow) float64 {
	var total float64
	for _, r := range rows {
		total += r.Interest
	}
	return total
}
