package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Trade actions
const (
	ActionBuy  = "BUY"
	ActionSell = "SELL"
)

// Position directions
const (
	PositionLong  = "Long"
	PositionShort = "Short"
)

// Trade is a single entry of the trading log. Numeric fields keep the
// user-entered text; they are parsed when positions are rebuilt.
type Trade struct {
	ID        string      `json:"id"`
	Date      string      `json:"date"`
	Asset     string      `json:"asset"`
	Action    string      `json:"action"`
	Type      string      `json:"type"`
	Price     NumericText `json:"price"`
	Amount    NumericText `json:"amount"`
	Fees      NumericText `json:"fees,omitempty"`
	Timestamp int64       `json:"timestamp,omitempty"`
}

// NumericText is a number kept as the text it was entered with. It decodes
// from either a JSON string or a JSON number and always encodes as a string.
type NumericText string

func (n *NumericText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*n = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NumericText(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("numeric field must be a number or a string: %w", err)
	}
	*n = NumericText(num.String())
	return nil
}

func (n NumericText) String() string { return string(n) }
