package trading

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Dan9191/finance-service/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ErrInvalidTrade marks a trade record that cannot be processed
var ErrInvalidTrade = errors.New("invalid trade")

// quantities below this are treated as a closed position
const qtyEpsilon = 1e-9

// Position is the running state of one asset
type Position struct {
	Asset       string  `json:"asset"`
	Type        string  `json:"type"`
	TotalQty    float64 `json:"total_qty"`
	TotalCost   float64 `json:"total_cost"`
	AvgPrice    float64 `json:"avg_price"`
	GrossPnL    float64 `json:"gross_pnl"`
	RealizedPnL float64 `json:"realized_pnl"` // net of fees
	Fees        float64 `json:"fees"`
	Trades      int     `json:"trades"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
}

// EquityPoint is the cumulative net PnL after a trade
type EquityPoint struct {
	Date   string  `json:"date"`
	Equity float64 `json:"equity"`
}

// TradeResult is the outcome of one processed trade
type TradeResult struct {
	TradeID   string  `json:"trade_id"`
	Asset     string  `json:"asset"`
	Date      string  `json:"date"`
	Action    string  `json:"action"`
	Position  string  `json:"position"`
	ClosedQty float64 `json:"closed_qty"`
	GrossPnL  float64 `json:"gross_pnl"`
	Fees      float64 `json:"fees"`
	NetPnL    float64 `json:"net_pnl"`
}

// SkippedTrade is a record left out of the aggregates
type SkippedTrade struct {
	TradeID string `json:"trade_id"`
	Reason  string `json:"reason"`
	Err     error  `json:"-"`
}

// Summary is the result of replaying a trade log
type Summary struct {
	PerAsset         map[string]*Position `json:"per_asset"`
	TotalRealizedPnL float64              `json:"total_realized_pnl"`
	TotalGrossPnL    float64              `json:"total_gross_pnl"`
	TotalFees        float64              `json:"total_fees"`
	EquityCurve      []EquityPoint        `json:"equity_curve"`
	Wins             int                  `json:"wins"`
	Losses           int                  `json:"losses"`
	Results          []TradeResult        `json:"results"`
	Skipped          []SkippedTrade       `json:"skipped"`
}

// WinRate returns wins over decided trades, 0 when none closed with a result
func (s Summary) WinRate() float64 {
	if s.Wins+s.Losses == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Wins+s.Losses)
}

// Processor rebuilds positions and realized PnL from a trade log
type Processor struct {
	log *logrus.Logger
}

// NewProcessor creates a processor; a nil logger falls back to the standard logger
func NewProcessor(log *logrus.Logger) *Processor {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Processor{log: log}
}

type parsedTrade struct {
	models.Trade
	date   models.Date
	price  float64
	qty    float64
	fees   float64
	action string
	kind   string
}

func parseNumber(field, value string) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a number", ErrInvalidTrade, field, value)
	}
	return d.InexactFloat64(), nil
}

// Validate reports why a trade record would be skipped, or nil
func Validate(t models.Trade) error {
	_, err := parseTrade(t)
	return err
}

func parseTrade(t models.Trade) (parsedTrade, error) {
	p := parsedTrade{Trade: t}
	p.Asset = strings.TrimSpace(t.Asset)
	if p.Asset == "" {
		return p, fmt.Errorf("%w: asset is empty", ErrInvalidTrade)
	}
	date, err := models.ParseDate(t.Date)
	if err != nil {
		return p, fmt.Errorf("%w: %v", ErrInvalidTrade, err)
	}
	p.date = date

	switch strings.ToUpper(strings.TrimSpace(t.Action)) {
	case models.ActionBuy:
		p.action = models.ActionBuy
	case models.ActionSell:
		p.action = models.ActionSell
	default:
		return p, fmt.Errorf("%w: unknown action %q", ErrInvalidTrade, t.Action)
	}
	switch strings.ToLower(strings.TrimSpace(t.Type)) {
	case "", "long":
		p.kind = models.PositionLong
	case "short":
		p.kind = models.PositionShort
	default:
		return p, fmt.Errorf("%w: unknown position type %q", ErrInvalidTrade, t.Type)
	}

	if p.price, err = parseNumber("price", t.Price.String()); err != nil {
		return p, err
	}
	if p.qty, err = parseNumber("amount", t.Amount.String()); err != nil {
		return p, err
	}
	if strings.TrimSpace(t.Fees.String()) != "" {
		if p.fees, err = parseNumber("fees", t.Fees.String()); err != nil {
			return p, err
		}
	}
	if p.qty <= 0 || p.price < 0 || p.fees < 0 {
		return p, fmt.Errorf("%w: amount must be positive, price and fees non-negative", ErrInvalidTrade)
	}
	return p, nil
}

// Process replays trades in chronological order. Malformed records are
// reported in Summary.Skipped and do not stop the run.
func (p *Processor) Process(trades []models.Trade) Summary {
	s := Summary{
		PerAsset:    make(map[string]*Position),
		EquityCurve: []EquityPoint{},
		Results:     []TradeResult{},
		Skipped:     []SkippedTrade{},
	}

	parsed := make([]parsedTrade, 0, len(trades))
	for _, t := range trades {
		pt, err := parseTrade(t)
		if err != nil {
			p.log.Warnf("Skipping trade %s: %v", t.ID, err)
			s.Skipped = append(s.Skipped, SkippedTrade{TradeID: t.ID, Reason: err.Error(), Err: err})
			continue
		}
		parsed = append(parsed, pt)
	}
	sort.SliceStable(parsed, func(i, j int) bool {
		if !parsed[i].date.Equal(parsed[j].date.Time) {
			return parsed[i].date.Before(parsed[j].date.Time)
		}
		return parsed[i].Timestamp < parsed[j].Timestamp
	})

	for _, t := range parsed {
		pos, ok := s.PerAsset[t.Asset]
		if !ok {
			pos = &Position{Asset: t.Asset, Type: t.kind}
			s.PerAsset[t.Asset] = pos
		}
		if pos.TotalQty == 0 {
			pos.Type = t.kind
		}

		var gross, closed float64
		opens := (pos.Type == models.PositionLong && t.action == models.ActionBuy) ||
			(pos.Type == models.PositionShort && t.action == models.ActionSell)
		if opens {
			pos.TotalQty += t.qty
			pos.TotalCost += t.qty * t.price
			pos.AvgPrice = pos.TotalCost / pos.TotalQty
		} else {
			closed = min(t.qty, pos.TotalQty)
			if pos.Type == models.PositionLong {
				gross = (t.price - pos.AvgPrice) * closed
			} else {
				gross = (pos.AvgPrice - t.price) * closed
			}
			pos.TotalQty -= closed
			if pos.TotalQty < qtyEpsilon {
				pos.TotalQty = 0
			}
			pos.TotalCost = pos.TotalQty * pos.AvgPrice
			if pos.TotalQty == 0 {
				pos.AvgPrice = 0
			}
		}

		net := gross - t.fees
		pos.Trades++
		pos.GrossPnL += gross
		pos.RealizedPnL += net
		pos.Fees += t.fees
		switch {
		case gross > 0:
			pos.Wins++
			s.Wins++
		case gross < 0:
			pos.Losses++
			s.Losses++
		}

		s.TotalGrossPnL += gross
		s.TotalFees += t.fees
		s.TotalRealizedPnL += net
		s.EquityCurve = append(s.EquityCurve, EquityPoint{Date: t.date.String(), Equity: s.TotalRealizedPnL})
		s.Results = append(s.Results, TradeResult{
			TradeID:   t.ID,
			Asset:     t.Asset,
			Date:      t.date.String(),
			Action:    t.action,
			Position:  pos.Type,
			ClosedQty: closed,
			GrossPnL:  gross,
			Fees:      t.fees,
			NetPnL:    net,
		})
	}
	return s
}
