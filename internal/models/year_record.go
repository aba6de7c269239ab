package models

// Transaction is a ledger entry stored under a subcategory for one month.
// Synthetic transactions are derived from loans on read and never persisted.
type Transaction struct {
	ID        string  `json:"id"`
	Amount    float64 `json:"amount"`
	Date      Date    `json:"date"`
	Synthetic bool    `json:"synthetic,omitempty"`
}

// SubcategoryMonth holds one subcategory's figures for one month
type SubcategoryMonth struct {
	Budgeted float64       `json:"budgeted"`
	Actual   []Transaction `json:"actual"`
}

// OneTimeEntry is an irregular item booked against a specific month
type OneTimeEntry struct {
	ID           string  `json:"id"`
	MainCategory string  `json:"mainCategory"`
	Subcategory  string  `json:"subcategory"`
	Amount       float64 `json:"amount"`
	Synthetic    bool    `json:"synthetic,omitempty"`
}

// NetWorth holds manually entered balances: category -> month key -> value
type NetWorth struct {
	Assets      map[string]map[string]float64 `json:"assets"`
	Liabilities map[string]map[string]float64 `json:"liabilities"`
}

// YearRecord is everything recorded for one calendar year
type YearRecord struct {
	Budget     map[string]float64                     `json:"budget"`
	Monthly    map[string]map[string]SubcategoryMonth `json:"monthly"`
	NetWorth   NetWorth                               `json:"netWorth"`
	OneTime    map[string][]OneTimeEntry              `json:"oneTime"`
	Categories Taxonomy                               `json:"categories,omitempty"`
}

// NewYearRecord returns an empty record with every month present
func NewYearRecord() *YearRecord {
	y := &YearRecord{}
	y.ensureMaps()
	return y
}

func (y *YearRecord) ensureMaps() {
	if y.Budget == nil {
		y.Budget = make(map[string]float64)
	}
	if y.Monthly == nil {
		y.Monthly = make(map[string]map[string]SubcategoryMonth)
	}
	if y.OneTime == nil {
		y.OneTime = make(map[string][]OneTimeEntry)
	}
	if y.NetWorth.Assets == nil {
		y.NetWorth.Assets = make(map[string]map[string]float64)
	}
	if y.NetWorth.Liabilities == nil {
		y.NetWorth.Liabilities = make(map[string]map[string]float64)
	}
	for _, m := range MonthNames {
		if y.Monthly[m] == nil {
			y.Monthly[m] = make(map[string]SubcategoryMonth)
		}
		if y.OneTime[m] == nil {
			y.OneTime[m] = []OneTimeEntry{}
		}
	}
}

// Normalize creates the zero-valued budget and monthly entries for every
// subcategory of tax that does not have one yet.
func (y *YearRecord) Normalize(tax Taxonomy) {
	y.ensureMaps()
	for _, sub := range tax.Subcategories() {
		if _, ok := y.Budget[sub]; !ok {
			y.Budget[sub] = 0
		}
		for _, m := range MonthNames {
			if _, ok := y.Monthly[m][sub]; !ok {
				y.Monthly[m][sub] = SubcategoryMonth{Actual: []Transaction{}}
			}
		}
	}
	for _, c := range tax[CategoryAssets] {
		if y.NetWorth.Assets[c] == nil {
			y.NetWorth.Assets[c] = make(map[string]float64)
		}
	}
	for _, c := range tax[CategoryLiabilities] {
		if y.NetWorth.Liabilities[c] == nil {
			y.NetWorth.Liabilities[c] = make(map[string]float64)
		}
	}
}

// Actual returns the ledger entries for sub in the given month; nil when absent
func (y *YearRecord) Actual(month int, sub string) []Transaction {
	if y == nil {
		return nil
	}
	return y.Monthly[MonthName(month)][sub].Actual
}

// OneTimeEntries returns the one-time entries of a month; nil when absent
func (y *YearRecord) OneTimeEntries(month int) []OneTimeEntry {
	if y == nil {
		return nil
	}
	return y.OneTime[MonthName(month)]
}

// Clone returns a deep copy
func (y *YearRecord) Clone() *YearRecord {
	if y == nil {
		return nil
	}
	out := &YearRecord{
		Budget:     make(map[string]float64, len(y.Budget)),
		Monthly:    make(map[string]map[string]SubcategoryMonth, len(y.Monthly)),
		OneTime:    make(map[string][]OneTimeEntry, len(y.OneTime)),
		Categories: y.Categories.Clone(),
		NetWorth: NetWorth{
			Assets:      cloneNested(y.NetWorth.Assets),
			Liabilities: cloneNested(y.NetWorth.Liabilities),
		},
	}
	for k, v := range y.Budget {
		out.Budget[k] = v
	}
	for month, subs := range y.Monthly {
		cp := make(map[string]SubcategoryMonth, len(subs))
		for sub, sm := range subs {
			cp[sub] = SubcategoryMonth{
				Budgeted: sm.Budgeted,
				Actual:   append([]Transaction{}, sm.Actual...),
			}
		}
		out.Monthly[month] = cp
	}
	for month, entries := range y.OneTime {
		out.OneTime[month] = append([]OneTimeEntry{}, entries...)
	}
	return out
}

func cloneNested(in map[string]map[string]float64) map[string]map[string]float64 {
	if in == nil {
		return nil
	}
	out := make(map[string]map[string]float64, len(in))
	for k, inner := range in {
		cp := make(map[string]float64, len(inner))
		for m, v := range inner {
			cp[m] = v
		}
		out[k] = cp
	}
	return out
}
