package trading

// Convert returns a copy of the summary with every money amount multiplied by
// rate. Quantities and counters are unchanged.
func (s Summary) Convert(rate float64) Summary {
	out := s
	out.TotalRealizedPnL *= rate
	out.TotalGrossPnL *= rate
	out.TotalFees *= rate

	out.PerAsset = make(map[string]*Position, len(s.PerAsset))
	for asset, pos := range s.PerAsset {
		cp := *pos
		cp.TotalCost *= rate
		cp.AvgPrice *= rate
		cp.GrossPnL *= rate
		cp.RealizedPnL *= rate
		cp.Fees *= rate
		out.PerAsset[asset] = &cp
	}

	out.EquityCurve = make([]EquityPoint, len(s.EquityCurve))
	for i, p := range s.EquityCurve {
		p.Equity *= rate
		out.EquityCurve[i] = p
	}
	out.Results = make([]TradeResult, len(s.Results))
	for i, r := range s.Results {
		r.GrossPnL *= rate
		r.Fees *= rate
		r.NetPnL *= rate
		out.Results[i] = r
	}
	return out
}
