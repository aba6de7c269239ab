package trading

import (
	"io"
	"testing"

	"github.com/Dan9191/finance-service/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietProcessor() *Processor {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewProcessor(log)
}

func trade(id, date, asset, action, typ, price, amount, fees string) models.Trade {
	return models.Trade{ID: id, Date: date, Asset: asset, Action: action, Type: typ, Price: models.NumericText(price), Amount: models.NumericText(amount), Fees: models.NumericText(fees)}
}

func TestProcessLongRoundTrip(t *testing.T) {
	s := quietProcessor().Process([]models.Trade{
		trade("1", "2024-01-02", "AAPL", "BUY", "Long", "100", "10", "0"),
		trade("2", "2024-01-05", "AAPL", "SELL", "Long", "110", "10", "0"),
	})

	require.Empty(t, s.Skipped)
	assert.Equal(t, 100.0, s.TotalGrossPnL)
	assert.Equal(t, 100.0, s.TotalRealizedPnL)
	assert.Equal(t, 1, s.Wins)
	assert.Equal(t, 0, s.Losses)
	assert.Equal(t, 0.0, s.PerAsset["AAPL"].TotalQty)
	require.Len(t, s.EquityCurve, 2)
	assert.Equal(t, EquityPoint{Date: "2024-01-02", Equity: 0}, s.EquityCurve[0])
	assert.Equal(t, EquityPoint{Date: "2024-01-05", Equity: 100}, s.EquityCurve[1])
}

func TestProcessPartialClosePreservesAverage(t *testing.T) {
	s := quietProcessor().Process([]models.Trade{
		trade("1", "2024-01-02", "MSFT", "BUY", "Long", "100", "10", ""),
		trade("2", "2024-01-03", "MSFT", "SELL", "Long", "150", "4", ""),
	})

	pos := s.PerAsset["MSFT"]
	assert.Equal(t, 6.0, pos.TotalQty)
	assert.Equal(t, 100.0, pos.AvgPrice)
	assert.Equal(t, 600.0, pos.TotalCost)
	assert.Equal(t, 200.0, s.Results[1].GrossPnL)
	assert.Equal(t, 4.0, s.Results[1].ClosedQty)
}

func TestProcessWeightedAverageAndFees(t *testing.T) {
	s := quietProcessor().Process([]models.Trade{
		trade("1", "2024-02-01", "BTC", "BUY", "Long", "100", "1", "1"),
		trade("2", "2024-02-02", "BTC", "BUY", "Long", "200", "3", "1"),
		trade("3", "2024-02-03", "BTC", "SELL", "Long", "150", "4", "2"),
	})

	assert.Equal(t, 0.0, s.PerAsset["BTC"].TotalQty)
	// avg = (100 + 600) / 4 = 175
	assert.InDelta(t, -100, s.TotalGrossPnL, 1e-9)
	assert.InDelta(t, 4, s.TotalFees, 1e-9)
	assert.InDelta(t, -104, s.TotalRealizedPnL, 1e-9)
	assert.Equal(t, 1, s.Losses)
	assert.InDelta(t, -1, s.EquityCurve[0].Equity, 1e-9)
	assert.InDelta(t, -2, s.EquityCurve[1].Equity, 1e-9)
	assert.InDelta(t, -104, s.EquityCurve[2].Equity, 1e-9)
}

func TestProcessShort(t *testing.T) {
	s := quietProcessor().Process([]models.Trade{
		trade("1", "2024-03-01", "TSLA", "SELL", "Short", "200", "5", ""),
		trade("2", "2024-03-04", "TSLA", "BUY", "Short", "180", "5", ""),
	})

	assert.Equal(t, 100.0, s.TotalGrossPnL)
	assert.Equal(t, 1, s.Wins)
	assert.Equal(t, 0.0, s.PerAsset["TSLA"].TotalQty)
}

func TestProcessReopensInOppositeDirection(t *testing.T) {
	s := quietProcessor().Process([]models.Trade{
		trade("1", "2024-04-01", "ETH", "BUY", "Long", "10", "2", ""),
		trade("2", "2024-04-02", "ETH", "SELL", "Long", "10", "2", ""),
		trade("3", "2024-04-03", "ETH", "SELL", "Short", "12", "1", ""),
		trade("4", "2024-04-04", "ETH", "BUY", "Short", "15", "1", ""),
	})

	pos := s.PerAsset["ETH"]
	assert.Equal(t, models.PositionShort, pos.Type)
	assert.Equal(t, 0.0, pos.TotalQty)
	assert.Equal(t, -3.0, s.TotalGrossPnL)
	// the break-even close is neither a win nor a loss
	assert.Equal(t, 0, s.Wins)
	assert.Equal(t, 1, s.Losses)
}

func TestProcessOrdersByDateThenTimestamp(t *testing.T) {
	buy := trade("buy", "2024-05-01", "X", "BUY", "Long", "10", "1", "")
	buy.Timestamp = 1
	sell := trade("sell", "2024-05-01", "X", "SELL", "Long", "12", "1", "")
	sell.Timestamp = 2
	early := trade("early", "2024-04-01", "Y", "BUY", "Long", "1", "1", "")

	s := quietProcessor().Process([]models.Trade{sell, buy, early})
	require.Len(t, s.Results, 3)
	assert.Equal(t, "early", s.Results[0].TradeID)
	assert.Equal(t, "buy", s.Results[1].TradeID)
	assert.Equal(t, "sell", s.Results[2].TradeID)
	assert.Equal(t, 2.0, s.TotalGrossPnL)
}

func TestProcessSkipsMalformedTrades(t *testing.T) {
	s := quietProcessor().Process([]models.Trade{
		trade("ok", "2024-01-02", "AAPL", "BUY", "Long", "100", "1", ""),
		trade("no-asset", "2024-01-02", "  ", "BUY", "Long", "100", "1", ""),
		trade("bad-price", "2024-01-02", "AAPL", "BUY", "Long", "abc", "1", ""),
		trade("bad-qty", "2024-01-02", "AAPL", "BUY", "Long", "100", "", ""),
		trade("bad-date", "02/01/2024", "AAPL", "BUY", "Long", "100", "1", ""),
		trade("bad-action", "2024-01-02", "AAPL", "HOLD", "Long", "100", "1", ""),
	})

	require.Len(t, s.Skipped, 5)
	for _, sk := range s.Skipped {
		assert.ErrorIs(t, sk.Err, ErrInvalidTrade)
	}
	require.Len(t, s.Results, 1)
	assert.Equal(t, 1.0, s.PerAsset["AAPL"].TotalQty)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(trade("1", "2024-01-02", "AAPL", "buy", "", "1.5", "2", "0.1")))
	assert.ErrorIs(t, Validate(trade("1", "2024-01-02", "AAPL", "BUY", "Long", "1", "-2", "")), ErrInvalidTrade)
}

func TestWinRate(t *testing.T) {
	assert.Zero(t, Summary{}.WinRate())
	assert.Equal(t, 0.5, Summary{Wins: 1, Losses: 1}.WinRate())
}

func TestSummaryConvert(t *testing.T) {
	s := quietProcessor().Process([]models.Trade{
		trade("1", "2024-01-02", "BTC", "BUY", "Long", "100", "2", "1"),
		trade("2", "2024-01-03", "BTC", "SELL", "Long", "110", "1", "1"),
	})

	c := s.Convert(2)
	assert.InDelta(t, s.TotalRealizedPnL*2, c.TotalRealizedPnL, 1e-9)
	assert.InDelta(t, 200.0, c.PerAsset["BTC"].AvgPrice, 1e-9)
	assert.Equal(t, s.PerAsset["BTC"].TotalQty, c.PerAsset["BTC"].TotalQty)
	assert.InDelta(t, 100.0, s.PerAsset["BTC"].AvgPrice, 1e-9)
	assert.InDelta(t, s.EquityCurve[1].Equity*2, c.EquityCurve[1].Equity, 1e-9)
}
