package ledger

import (
	"fmt"

	"github.com/Dan9191/finance-service/internal/models"
	"github.com/Dan9191/finance-service/internal/trading"
	"github.com/google/uuid"
)

// AddTrade appends a trade to the log. New trades must be well formed;
// malformed legacy rows are only tolerated when positions are rebuilt.
type AddTrade struct {
	Trade models.Trade `json:"trade"`
}

func (c AddTrade) Describe() string { return "add trade" }

func (c AddTrade) Apply(data *models.FinancialData) (*models.FinancialData, error) {
	if err := trading.Validate(c.Trade); err != nil {
		return nil, err
	}
	t := c.Trade
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	for _, existing := range data.Trades {
		if existing.ID == t.ID {
			return nil, fmt.Errorf("%w: trade id %q already used", ErrInvalidInput, t.ID)
		}
	}
	next := data.Clone()
	next.Trades = append(next.Trades, t)
	return next, nil
}

// DeleteTrade removes a trade from the log
type DeleteTrade struct {
	ID string `json:"id"`
}

func (c DeleteTrade) Describe() string { return "delete trade" }

func (c DeleteTrade) Apply(data *models.FinancialData) (*models.FinancialData, error) {
	for i, t := range data.Trades {
		if t.ID != c.ID {
			continue
		}
		next := data.Clone()
		next.Trades = append(next.Trades[:i], next.Trades[i+1:]...)
		return next, nil
	}
	return nil, fmt.Errorf("%w: trade %s", ErrNotFound, c.ID)
}
