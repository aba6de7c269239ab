package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Dan9191/finance-service/internal/finance"
	"github.com/Dan9191/finance-service/internal/ledger"
	"github.com/Dan9191/finance-service/internal/models"
	"github.com/Dan9191/finance-service/internal/trading"
)

// Data returns the authenticated user's whole document
func (s *Service) Data(ctx context.Context) (*models.FinancialData, error) {
	id, err := userID(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.GetDocument(ctx, id)
}

// Apply runs ledger commands against the user's document and saves the
// result as a whole-document replace.
func (s *Service) Apply(ctx context.Context, cmds ...ledger.Command) (*models.FinancialData, error) {
	id, err := userID(ctx)
	if err != nil {
		return nil, err
	}
	next, err := s.repo.UpdateDocument(ctx, id, func(current *models.FinancialData) (*models.FinancialData, error) {
		return ledger.Apply(current, cmds...)
	})
	if err != nil {
		return nil, err
	}

	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Describe()
	}
	s.log.Infof("Applied %s for user %d", strings.Join(names, ", "), id)
	return next, nil
}

func (s *Service) loan(ctx context.Context, loanID string) (models.Loan, error) {
	data, err := s.Data(ctx)
	if err != nil {
		return models.Loan{}, err
	}
	loan, ok := data.LoanByID(loanID)
	if !ok {
		return models.Loan{}, fmt.Errorf("%w: loan %s", ledger.ErrNotFound, loanID)
	}
	return loan, nil
}

// LoanSchedule returns the amortization table of one of the user's loans
func (s *Service) LoanSchedule(ctx context.Context, loanID string) ([]finance.InstallmentRow, error) {
	loan, err := s.loan(ctx, loanID)
	if err != nil {
		return nil, err
	}
	return finance.BuildSchedule(loan)
}

// LoanStatus returns the installment and balance of a loan in one month
func (s *Service) LoanStatus(ctx context.Context, loanID string, year, month int) (finance.LoanStatus, error) {
	if month < 0 || month > 11 {
		return finance.LoanStatus{}, fmt.Errorf("%w: month index %d out of range", ErrInvalidInput, month)
	}
	loan, err := s.loan(ctx, loanID)
	if err != nil {
		return finance.LoanStatus{}, err
	}
	return finance.Evaluate(loan, year, month), nil
}

func (s *Service) aggregator(ctx context.Context) (*finance.Aggregator, error) {
	data, err := s.Data(ctx)
	if err != nil {
		return nil, err
	}
	return finance.NewAggregator(data), nil
}

func validPeriod(month int) error {
	if month != finance.Annual && (month < 0 || month > 11) {
		return fmt.Errorf("%w: month index %d out of range", ErrInvalidInput, month)
	}
	return nil
}

// BudgetView returns the budget grid of a month, or of the year with finance.Annual
func (s *Service) BudgetView(ctx context.Context, year, month int) (models.BudgetView, error) {
	if err := validPeriod(month); err != nil {
		return models.BudgetView{}, err
	}
	agg, err := s.aggregator(ctx)
	if err != nil {
		return models.BudgetView{}, err
	}
	return agg.BudgetView(year, month), nil
}

// Transactions returns the ledger entries of a subcategory in one month,
// including the installment of a linked loan. An empty mainCategory is
// resolved from the year's taxonomy.
func (s *Service) Transactions(ctx context.Context, year, month int, mainCategory, subcategory string) ([]models.Transaction, error) {
	if month < 0 || month > 11 {
		return nil, fmt.Errorf("%w: month index %d out of range", ErrInvalidInput, month)
	}
	if strings.TrimSpace(subcategory) == "" {
		return nil, fmt.Errorf("%w: subcategory is required", ErrInvalidInput)
	}
	agg, err := s.aggregator(ctx)
	if err != nil {
		return nil, err
	}
	if mainCategory == "" {
		mainCategory = agg.Index(year).Categorize(subcategory).MainCategory
	}
	return agg.Transactions(mainCategory, subcategory, year, month), nil
}

// PeriodReport is the summary of a period, with debt burden for single months
type PeriodReport struct {
	Summary    models.PeriodSummary `json:"summary"`
	DebtBurden *models.DebtBurden   `json:"debt_burden,omitempty"`
}

// Summary returns the income and expense summary of a month, or of the year with finance.Annual
func (s *Service) Summary(ctx context.Context, year, month int) (PeriodReport, error) {
	if err := validPeriod(month); err != nil {
		return PeriodReport{}, err
	}
	agg, err := s.aggregator(ctx)
	if err != nil {
		return PeriodReport{}, err
	}
	report := PeriodReport{Summary: agg.Summary(year, month)}
	if month != finance.Annual {
		burden := agg.DebtBurden(year, month)
		report.DebtBurden = &burden
	}
	return report, nil
}

// NetWorth returns assets against liabilities at a month
func (s *Service) NetWorth(ctx context.Context, year, month int) (models.NetWorthSummary, error) {
	if month < 0 || month > 11 {
		return models.NetWorthSummary{}, fmt.Errorf("%w: month index %d out of range", ErrInvalidInput, month)
	}
	agg, err := s.aggregator(ctx)
	if err != nil {
		return models.NetWorthSummary{}, err
	}
	return agg.NetWorth(year, month), nil
}

// TradingReport is the trading summary expressed in one currency
type TradingReport struct {
	Currency string `json:"currency"`
	trading.Summary
	WinRate float64 `json:"win_rate"`
}

// TradingSummary replays the user's trade log. Amounts are recorded in the
// configured base currency and converted when another currency is asked for.
func (s *Service) TradingSummary(ctx context.Context, currency string) (TradingReport, error) {
	data, err := s.Data(ctx)
	if err != nil {
		return TradingReport{}, err
	}
	summary := s.trades.Process(data.Trades)

	base := s.config.BaseCurrency
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = base
	}
	if currency != base {
		rates, err := s.FXRates(ctx)
		if err != nil {
			return TradingReport{}, err
		}
		rate, err := rates.Convert(1, base, currency)
		if err != nil {
			return TradingReport{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		summary = summary.Convert(rate)
	}
	return TradingReport{Currency: currency, Summary: summary, WinRate: summary.WinRate()}, nil
}
