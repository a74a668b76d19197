package contracts

import "sort"

// Line items read by the metric extractor (provider display names)
const (
	ItemNetIncome          = "Net Income"
	ItemTotalAssets        = "Total Assets"
	ItemOperatingCashFlow  = "Operating Cash Flow"
	ItemLongTermDebt       = "Long Term Debt"
	ItemCurrentAssets      = "Current Assets"
	ItemCurrentLiabilities = "Current Liabilities"
	ItemShareIssued        = "Share Issued"
	ItemGrossProfit        = "Gross Profit"
	ItemTotalRevenue       = "Total Revenue"
)

// StatementKind identifies one of the three financial statements
type StatementKind string

const (
	StatementIncome   StatementKind = "income"
	StatementBalance  StatementKind = "balance"
	StatementCashFlow StatementKind = "cashflow"
)

// StatementColumn is one fiscal period of a statement
type StatementColumn struct {
	// Raw tables carry the period end date ("2023-09-30"),
	// normalized tables carry the fiscal year ("2023")
	Label string             `json:"label"`
	Items map[string]float64 `json:"items"`
}

// StatementTable is a statement as ordered columns, most recent first
type StatementTable struct {
	Columns []StatementColumn `json:"columns"`
}

// Len returns the number of columns
func (t StatementTable) Len() int {
	return len(t.Columns)
}

// Labels returns the column labels in order
func (t StatementTable) Labels() []string {
	labels := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		labels[i] = col.Label
	}
	return labels
}

// Value looks up a cell by (column label, line item)
func (t StatementTable) Value(label, item string) Num {
	for _, col := range t.Columns {
		if col.Label != label {
			continue
		}
		v, ok := col.Items[item]
		if !ok {
			return Unknown
		}
		return NumOf(v)
	}
	return Unknown
}

// RawStatements is the provider's statement triple for one ticker
// ⭐ SSOT: Provider → Normalizer 데이터 전달
type RawStatements struct {
	Ticker          string         `json:"ticker"`
	IncomeStatement StatementTable `json:"income_statement"`
	BalanceSheet    StatementTable `json:"balance_sheet"`
	CashFlow        StatementTable `json:"cash_flow"`
}

// Table returns the statement of the given kind
func (r *RawStatements) Table(kind StatementKind) StatementTable {
	switch kind {
	case StatementIncome:
		return r.IncomeStatement
	case StatementBalance:
		return r.BalanceSheet
	default:
		return r.CashFlow
	}
}

// TableFromPeriods pivots period -> item -> value cells into a table
// ordered most recent first. Labels are ISO dates, which sort lexically.
func TableFromPeriods(periods map[string]map[string]float64) StatementTable {
	labels := make([]string, 0, len(periods))
	for label := range periods {
		labels = append(labels, label)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(labels)))

	table := StatementTable{Columns: make([]StatementColumn, 0, len(labels))}
	for _, label := range labels {
		table.Columns = append(table.Columns, StatementColumn{Label: label, Items: periods[label]})
	}
	return table
}

// IsEmpty reports whether the provider returned no columns at all
func (r *RawStatements) IsEmpty() bool {
	return r.IncomeStatement.Len() == 0 && r.BalanceSheet.Len() == 0 && r.CashFlow.Len() == 0
}

// NormalizedFundamentals is the statement triple trimmed to a shared
// contiguous year window ending at the anchor year.
// ⭐ SSOT: Normalizer → Extractor 데이터 전달 (immutable)
type NormalizedFundamentals struct {
	incomeStatement StatementTable
	balanceSheet    StatementTable
	cashFlow        StatementTable
	anchorYear      string
	years           []string
}

// NewNormalizedFundamentals builds the record; callers must pass tables that
// already carry exactly len(years) columns labeled years[i].
func NewNormalizedFundamentals(income, balance, cashflow StatementTable, anchorYear string, years []string) *NormalizedFundamentals {
	return &NormalizedFundamentals{
		incomeStatement: income,
		balanceSheet:    balance,
		cashFlow:        cashflow,
		anchorYear:      anchorYear,
		years:           append([]string(nil), years...),
	}
}

// IncomeStatement returns the normalized income statement
func (f *NormalizedFundamentals) IncomeStatement() StatementTable { return f.incomeStatement }

// BalanceSheet returns the normalized balance sheet
func (f *NormalizedFundamentals) BalanceSheet() StatementTable { return f.balanceSheet }

// CashFlow returns the normalized cash flow statement
func (f *NormalizedFundamentals) CashFlow() StatementTable { return f.cashFlow }

// AnchorYear returns the current-year label
func (f *NormalizedFundamentals) AnchorYear() string { return f.anchorYear }

// YearCount returns the number of retained years (2-4)
func (f *NormalizedFundamentals) YearCount() int { return len(f.years) }

// Years returns the retained year labels, most recent first
func (f *NormalizedFundamentals) Years() []string {
	return append([]string(nil), f.years...)
}

// CurrentYear is the anchor year label (CY)
func (f *NormalizedFundamentals) CurrentYear() string { return f.years[0] }

// PriorYear is the label right before the anchor (PY)
func (f *NormalizedFundamentals) PriorYear() string { return f.years[1] }
