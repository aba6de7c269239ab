package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// FinancialData is the single document owned by a user. On the wire, year
// records sit under 4-digit keys next to "loans" and "trades"; any other key
// is kept untouched.
type FinancialData struct {
	Years  map[int]*YearRecord
	Loans  []Loan
	Trades []Trade
	Extra  map[string]json.RawMessage
}

// NewFinancialData returns an empty document
func NewFinancialData() *FinancialData {
	return &FinancialData{
		Years:  make(map[int]*YearRecord),
		Loans:  []Loan{},
		Trades: []Trade{},
	}
}

// Year returns the record for year, or nil
func (d *FinancialData) Year(year int) *YearRecord {
	if d == nil || d.Years == nil {
		return nil
	}
	return d.Years[year]
}

// EnsureYear returns the record for year, creating and normalizing it if needed
func (d *FinancialData) EnsureYear(year int) *YearRecord {
	if d.Years == nil {
		d.Years = make(map[int]*YearRecord)
	}
	y, ok := d.Years[year]
	if !ok {
		y = NewYearRecord()
		d.Years[year] = y
	}
	y.Normalize(d.TaxonomyFor(year))
	return y
}

// SortedYears returns the years present in the document in ascending order
func (d *FinancialData) SortedYears() []int {
	years := make([]int, 0, len(d.Years))
	for y := range d.Years {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// TaxonomyFor returns the taxonomy in effect for year: the snapshot of the
// latest year not after it, or the default taxonomy.
func (d *FinancialData) TaxonomyFor(year int) Taxonomy {
	if d != nil {
		best := -1
		for y, rec := range d.Years {
			if y <= year && y > best && rec != nil && rec.Categories != nil {
				best = y
			}
		}
		if best >= 0 {
			return d.Years[best].Categories
		}
	}
	return DefaultTaxonomy()
}

// LoanByID returns the loan with id
func (d *FinancialData) LoanByID(id string) (Loan, bool) {
	for _, l := range d.Loans {
		if l.ID == id {
			return l, true
		}
	}
	return Loan{}, false
}

// Clone returns a deep copy
func (d *FinancialData) Clone() *FinancialData {
	if d == nil {
		return nil
	}
	out := &FinancialData{
		Years:  make(map[int]*YearRecord, len(d.Years)),
		Loans:  append([]Loan{}, d.Loans...),
		Trades: append([]Trade{}, d.Trades...),
	}
	for y, rec := range d.Years {
		out.Years[y] = rec.Clone()
	}
	if d.Extra != nil {
		out.Extra = make(map[string]json.RawMessage, len(d.Extra))
		for k, v := range d.Extra {
			out.Extra[k] = append(json.RawMessage{}, v...)
		}
	}
	return out
}

// MarshalJSON flattens the year records into 4-digit keys
func (d FinancialData) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Years)+len(d.Extra)+2)
	for k, v := range d.Extra {
		out[k] = v
	}
	for y, rec := range d.Years {
		out[fmt.Sprintf("%04d", y)] = rec
	}
	loans := d.Loans
	if loans == nil {
		loans = []Loan{}
	}
	trades := d.Trades
	if trades == nil {
		trades = []Trade{}
	}
	out["loans"] = loans
	out["trades"] = trades
	return json.Marshal(out)
}

// UnmarshalJSON splits year keys from the other document keys
func (d *FinancialData) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode financial data: %w", err)
	}
	parsed := NewFinancialData()
	for key, value := range raw {
		switch {
		case IsYearKey(key):
			year, _ := strconv.Atoi(key)
			rec := &YearRecord{}
			if err := json.Unmarshal(value, rec); err != nil {
				return fmt.Errorf("failed to decode year %s: %w", key, err)
			}
			rec.ensureMaps()
			parsed.Years[year] = rec
		case key == "loans":
			if err := json.Unmarshal(value, &parsed.Loans); err != nil {
				return fmt.Errorf("failed to decode loans: %w", err)
			}
		case key == "trades":
			if err := json.Unmarshal(value, &parsed.Trades); err != nil {
				return fmt.Errorf("failed to decode trades: %w", err)
			}
		default:
			if parsed.Extra == nil {
				parsed.Extra = make(map[string]json.RawMessage)
			}
			parsed.Extra[key] = value
		}
	}
	if parsed.Loans == nil {
		parsed.Loans = []Loan{}
	}
	if parsed.Trades == nil {
		parsed.Trades = []Trade{}
	}
	*d = *parsed
	return nil
}
