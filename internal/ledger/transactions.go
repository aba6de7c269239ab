package ledger

import (
	"fmt"
	"time"

	"github.com/Dan9191/finance-service/internal/models"
	"github.com/google/uuid"
)

// AddTransaction records a ledger entry under a subcategory for one month
type AddTransaction struct {
	ID           string      `json:"id,omitempty"`
	Year         int         `json:"year"`
	Month        int         `json:"month"`
	MainCategory string      `json:"mainCategory"`
	Subcategory  string      `json:"subcategory"`
	Amount       float64     `json:"amount"`
	Date         models.Date `json:"date"`
}

func (c AddTransaction) Describe() string { return "add transaction" }

func (c AddTransaction) Apply(data *models.FinancialData) (*models.FinancialData, error) {
	if err := validYear(c.Year); err != nil {
		return nil, err
	}
	if err := validMonth(c.Month); err != nil {
		return nil, err
	}
	if err := validAmount(c.Amount, false); err != nil {
		return nil, err
	}
	if err := validMainCategory(c.MainCategory); err != nil {
		return nil, err
	}
	if err := requireSubcategory(data.TaxonomyFor(c.Year), c.MainCategory, c.Subcategory); err != nil {
		return nil, err
	}

	tx := models.Transaction{ID: c.ID, Amount: c.Amount, Date: c.Date}
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if IsSynthetic(tx.ID) {
		return nil, fmt.Errorf("%w: id %q is reserved", ErrInvalidInput, tx.ID)
	}
	if tx.Date.IsZero() {
		tx.Date = models.NewDate(c.Year, time.Month(c.Month+1), 1)
	}

	next := data.Clone()
	rec := next.EnsureYear(c.Year)
	month := models.MonthName(c.Month)
	sm := rec.Monthly[month][c.Subcategory]
	sm.Actual = append(sm.Actual, tx)
	rec.Monthly[month][c.Subcategory] = sm
	return next, nil
}

// DeleteTransaction removes a persisted ledger entry
type DeleteTransaction struct {
	Year        int    `json:"year"`
	Month       int    `json:"month"`
	Subcategory string `json:"subcategory"`
	ID          string `json:"id"`
}

func (c DeleteTransaction) Describe() string { return "delete transaction" }

func (c DeleteTransaction) Apply(data *models.FinancialData) (*models.FinancialData, error) {
	if IsSynthetic(c.ID) {
		return nil, ErrSyntheticTransaction
	}
	if err := validMonth(c.Month); err != nil {
		return nil, err
	}
	if data.Year(c.Year) == nil {
		return nil, fmt.Errorf("%w: transaction %s", ErrNotFound, c.ID)
	}

	next := data.Clone()
	month := models.MonthName(c.Month)
	sm, ok := next.Years[c.Year].Monthly[month][c.Subcategory]
	if !ok {
		return nil, fmt.Errorf("%w: transaction %s", ErrNotFound, c.ID)
	}
	for i, tx := range sm.Actual {
		if tx.ID == c.ID {
			sm.Actual = append(sm.Actual[:i], sm.Actual[i+1:]...)
			next.Years[c.Year].Monthly[month][c.Subcategory] = sm
			return next, nil
		}
	}
	return nil, fmt.Errorf("%w: transaction %s", ErrNotFound, c.ID)
}

// SetBudget sets the manual monthly budget of a subcategory for one year
type SetBudget struct {
	Year        int     `json:"year"`
	Subcategory string  `json:"subcategory"`
	Amount      float64 `json:"amount"`
}

func (c SetBudget) Describe() string { return "set budget" }

func (c SetBudget) Apply(data *models.FinancialData) (*models.FinancialData, error) {
	if err := validYear(c.Year); err != nil {
		return nil, err
	}
	if err := validAmount(c.Amount, true); err != nil {
		return nil, err
	}
	tax := data.TaxonomyFor(c.Year)
	known := false
	for _, sub := range tax.Subcategories() {
		if sub == c.Subcategory {
			known = true
			break
		}
	}
	if !known {
		if s := suggest(c.Subcategory, tax.Subcategories()); s != "" {
			return nil, fmt.Errorf("%w: %q, did you mean %q?", ErrUnknownSubcategory, c.Subcategory, s)
		}
		return nil, fmt.Errorf("%w: %q", ErrUnknownSubcategory, c.Subcategory)
	}

	next := data.Clone()
	rec := next.EnsureYear(c.Year)
	rec.Budget[c.Subcategory] = c.Amount
	for _, m := range models.MonthNames {
		sm := rec.Monthly[m][c.Subcategory]
		sm.Budgeted = c.Amount
		rec.Monthly[m][c.Subcategory] = sm
	}
	return next, nil
}

// AddOneTime books an irregular entry against a month
type AddOneTime struct {
	ID           string  `json:"id,omitempty"`
	Year         int     `json:"year"`
	Month        int     `json:"month"`
	MainCategory string  `json:"mainCategory"`
	Subcategory  string  `json:"subcategory"`
	Amount       float64 `json:"amount"`
}

func (c AddOneTime) Describe() string { return "add one-time entry" }

func (c AddOneTime) Apply(data *models.FinancialData) (*models.FinancialData, error) {
	if err := validYear(c.Year); err != nil {
		return nil, err
	}
	if err := validMonth(c.Month); err != nil {
		return nil, err
	}
	if err := validAmount(c.Amount, false); err != nil {
		return nil, err
	}
	if err := validMainCategory(c.MainCategory); err != nil {
		return nil, err
	}
	if c.Subcategory == "" {
		return nil, fmt.Errorf("%w: subcategory is required", ErrInvalidInput)
	}
	id := c.ID
	if id == "" {
		id = uuid.NewString()
	}
	if IsSynthetic(id) {
		return nil, fmt.Errorf("%w: id %q is reserved", ErrInvalidInput, id)
	}

	next := data.Clone()
	rec := next.EnsureYear(c.Year)
	month := models.MonthName(c.Month)
	rec.OneTime[month] = append(rec.OneTime[month], models.OneTimeEntry{
		ID:           id,
		MainCategory: c.MainCategory,
		Subcategory:  c.Subcategory,
		Amount:       c.Amount,
	})
	return next, nil
}

// DeleteOneTime removes a persisted one-time entry
type DeleteOneTime struct {
	Year  int    `json:"year"`
	Month int    `json:"month"`
	ID    string `json:"id"`
}

func (c DeleteOneTime) Describe() string { return "delete one-time entry" }

func (c DeleteOneTime) Apply(data *models.FinancialData) (*models.FinancialData, error) {
	if IsSynthetic(c.ID) {
		return nil, ErrSyntheticTransaction
	}
	if err := validMonth(c.Month); err != nil {
		return nil, err
	}
	if data.Year(c.Year) == nil {
		return nil, fmt.Errorf("%w: one-time entry %s", ErrNotFound, c.ID)
	}
	next := data.Clone()
	month := models.MonthName(c.Month)
	entries := next.Years[c.Year].OneTime[month]
	for i, e := range entries {
		if e.ID == c.ID {
			next.Years[c.Year].OneTime[month] = append(entries[:i], entries[i+1:]...)
			return next, nil
		}
	}
	return nil, fmt.Errorf("%w: one-time entry %s", ErrNotFound, c.ID)
}

// Net worth sides
const (
	SideAssets      = "assets"
	SideLiabilities = "liabilities"
)

// SetNetWorth records the balance of an asset or liability category at a month
type SetNetWorth struct {
	Year     int     `json:"year"`
	Month    int     `json:"month"`
	Side     string  `json:"side"`
	Category string  `json:"category"`
	Value    float64 `json:"value"`
}

func (c SetNetWorth) Describe() string { return "set net worth" }

func (c SetNetWorth) Apply(data *models.FinancialData) (*models.FinancialData, error) {
	if err := validYear(c.Year); err != nil {
		return nil, err
	}
	if err := validMonth(c.Month); err != nil {
		return nil, err
	}
	if err := validAmount(c.Value, true); err != nil {
		return nil, err
	}
	var main string
	switch c.Side {
	case SideAssets:
		main = models.CategoryAssets
	case SideLiabilities:
		main = models.CategoryLiabilities
	default:
		return nil, fmt.Errorf("%w: side must be %q or %q", ErrInvalidInput, SideAssets, SideLiabilities)
	}
	if err := requireSubcategory(data.TaxonomyFor(c.Year), main, c.Category); err != nil {
		return nil, err
	}

	next := data.Clone()
	rec := next.EnsureYear(c.Year)
	target := rec.NetWorth.Assets
	if c.Side == SideLiabilities {
		target = rec.NetWorth.Liabilities
	}
	if target[c.Category] == nil {
		target[c.Category] = make(map[string]float64)
	}
	target[c.Category][models.MonthName(c.Month)] = c.Value
	return next, nil
}
