package s2_metrics

import (
	"github.com/wonny/fscore/internal/contracts"
	"github.com/wonny/fscore/pkg/logger"
)

// Extractor pulls the Piotroski inputs out of normalized statements
// ⭐ SSOT: 지표 원천값 추출은 여기서만
//
// A missing line item, division by zero or non-finite value degrades only the
// field that needs it.
type Extractor struct {
	logger *logger.Logger
}

// NewExtractor creates a new metric extractor
func NewExtractor(log *logger.Logger) *Extractor {
	return &Extractor{
		logger: log,
	}
}

// Extract computes all fourteen inputs
func (e *Extractor) Extract(f *contracts.NormalizedFundamentals) contracts.MetricInputs {
	income := f.IncomeStatement()
	balance := f.BalanceSheet()
	cashflow := f.CashFlow()
	cy, py := f.CurrentYear(), f.PriorYear()

	m := contracts.MetricInputs{
		NetIncomeCY:         income.Value(cy, contracts.ItemNetIncome).Trunc(),
		NetIncomePY:         income.Value(py, contracts.ItemNetIncome).Trunc(),
		AverageTotalAssets:  averageTotalAssets(balance, f.Years()),
		OperatingCashFlowCY: cashflow.Value(cy, contracts.ItemOperatingCashFlow).Trunc(),
		LongTermDebtCY:      balance.Value(cy, contracts.ItemLongTermDebt).Trunc(),
		LongTermDebtPY:      balance.Value(py, contracts.ItemLongTermDebt).Trunc(),
		CurrentRatioCY:      currentRatio(balance, cy),
		CurrentRatioPY:      currentRatio(balance, py),
		SharesIssuedCY:      balance.Value(cy, contracts.ItemShareIssued).Trunc(),
		SharesIssuedPY:      balance.Value(py, contracts.ItemShareIssued).Trunc(),
		GrossMarginCY:       grossMargin(income, cy),
		GrossMarginPY:       grossMargin(income, py),
		AssetTurnoverCY:     assetTurnover(income, balance, cy),
		AssetTurnoverPY:     assetTurnover(income, balance, py),
	}

	if e.logger != nil {
		e.logger.WithFields(map[string]interface{}{
			"anchor":       f.AnchorYear(),
			"known_fields": KnownFields(m),
		}).Debug("Extracted metric inputs")
	}

	return m
}

// averageTotalAssets is the mean over every retained year, not just CY/PY
func averageTotalAssets(balance contracts.StatementTable, years []string) contracts.Num {
	values := make([]contracts.Num, len(years))
	for i, year := range years {
		values[i] = balance.Value(year, contracts.ItemTotalAssets)
	}
	return contracts.Mean(values...)
}

func currentRatio(balance contracts.StatementTable, year string) contracts.Num {
	return balance.Value(year, contracts.ItemCurrentAssets).
		Div(balance.Value(year, contracts.ItemCurrentLiabilities))
}

func grossMargin(income contracts.StatementTable, year string) contracts.Num {
	return income.Value(year, contracts.ItemGrossProfit).
		Div(income.Value(year, contracts.ItemTotalRevenue))
}

func assetTurnover(income, balance contracts.StatementTable, year string) contracts.Num {
	return income.Value(year, contracts.ItemTotalRevenue).
		Div(balance.Value(year, contracts.ItemTotalAssets))
}

// KnownFields counts the inputs that could be computed
func KnownFields(m contracts.MetricInputs) int {
	fields := []contracts.Num{
		m.NetIncomeCY, m.NetIncomePY, m.AverageTotalAssets, m.OperatingCashFlowCY,
		m.LongTermDebtCY, m.LongTermDebtPY, m.CurrentRatioCY, m.CurrentRatioPY,
		m.SharesIssuedCY, m.SharesIssuedPY, m.GrossMarginCY, m.GrossMarginPY,
		m.AssetTurnoverCY, m.AssetTurnoverPY,
	}

	count := 0
	for _, f := range fields {
		if f.Valid() {
			count++
		}
	}
	return count
}
