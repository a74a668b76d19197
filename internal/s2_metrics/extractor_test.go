package s2_metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/fscore/internal/contracts"
	"github.com/wonny/fscore/pkg/logger"
)

type columns map[string]map[string]float64

func build(years []string, income, balance, cashflow columns) *contracts.NormalizedFundamentals {
	toTable := func(c columns) contracts.StatementTable {
		t := contracts.StatementTable{}
		for _, y := range years {
			items := c[y]
			if items == nil {
				items = map[string]float64{}
			}
			t.Columns = append(t.Columns, contracts.StatementColumn{Label: y, Items: items})
		}
		return t
	}
	return contracts.NewNormalizedFundamentals(toTable(income), toTable(balance), toTable(cashflow), years[0], years)
}

func completeFundamentals() *contracts.NormalizedFundamentals {
	years := []string{"2023", "2022", "2021", "2020"}
	income := columns{
		"2023": {contracts.ItemNetIncome: 100.7, contracts.ItemGrossProfit: 400, contracts.ItemTotalRevenue: 1000},
		"2022": {contracts.ItemNetIncome: -50, contracts.ItemGrossProfit: 300, contracts.ItemTotalRevenue: 1000},
	}
	balance := columns{
		"2023": {contracts.ItemTotalAssets: 1200, contracts.ItemLongTermDebt: 300, contracts.ItemCurrentAssets: 500,
			contracts.ItemCurrentLiabilities: 250, contracts.ItemShareIssued: 1000},
		"2022": {contracts.ItemTotalAssets: 1000, contracts.ItemLongTermDebt: 400, contracts.ItemCurrentAssets: 400,
			contracts.ItemCurrentLiabilities: 400, contracts.ItemShareIssued: 1000},
		"2021": {contracts.ItemTotalAssets: 900},
		"2020": {contracts.ItemTotalAssets: 900},
	}
	cashflow := columns{
		"2023": {contracts.ItemOperatingCashFlow: 150},
	}
	return build(years, income, balance, cashflow)
}

func value(t *testing.T, n contracts.Num) float64 {
	t.Helper()
	v, ok := n.Get()
	require.True(t, ok, "expected a known value")
	return v
}

func TestExtractor_CompleteData(t *testing.T) {
	m := NewExtractor(logger.NewNop()).Extract(completeFundamentals())

	assert.Equal(t, 100.0, value(t, m.NetIncomeCY), "monetary fields are truncated")
	assert.Equal(t, -50.0, value(t, m.NetIncomePY))
	assert.Equal(t, 1000.0, value(t, m.AverageTotalAssets), "mean over all four years")
	assert.Equal(t, 150.0, value(t, m.OperatingCashFlowCY))
	assert.Equal(t, -100.0, value(t, m.LeverageDelta()))
	assert.Equal(t, 2.0, value(t, m.CurrentRatioCY))
	assert.Equal(t, 1.0, value(t, m.CurrentRatioPY))
	assert.Equal(t, 1000.0, value(t, m.SharesIssuedCY))
	assert.Equal(t, 1000.0, value(t, m.SharesIssuedPY))
	assert.InDelta(t, 0.4, value(t, m.GrossMarginCY), 1e-12)
	assert.InDelta(t, 0.3, value(t, m.GrossMarginPY), 1e-12)
	assert.InDelta(t, 1000.0/1200.0, value(t, m.AssetTurnoverCY), 1e-12)
	assert.InDelta(t, 1.0, value(t, m.AssetTurnoverPY), 1e-12)

	assert.InDelta(t, 0.10, value(t, m.ReturnOnAssetsCY()), 1e-12)
	assert.InDelta(t, -0.05, value(t, m.ReturnOnAssetsPY()), 1e-12)
	assert.Equal(t, 50.0, value(t, m.CashFlowQuality()))
	assert.Equal(t, 14, KnownFields(m))
}

func TestExtractor_MissingFieldIsLocal(t *testing.T) {
	f := completeFundamentals()
	delete(f.BalanceSheet().Columns[1].Items, contracts.ItemCurrentLiabilities)

	m := NewExtractor(logger.NewNop()).Extract(f)

	assert.False(t, m.CurrentRatioPY.Valid())
	assert.True(t, m.CurrentRatioCY.Valid())
	assert.Equal(t, 13, KnownFields(m))
}

func TestExtractor_AverageTotalAssetsNeedsEveryYear(t *testing.T) {
	f := completeFundamentals()
	delete(f.BalanceSheet().Columns[3].Items, contracts.ItemTotalAssets)

	m := NewExtractor(logger.NewNop()).Extract(f)

	assert.False(t, m.AverageTotalAssets.Valid())
	assert.False(t, m.ReturnOnAssetsCY().Valid())
	assert.False(t, m.ReturnOnAssetsPY().Valid())
	// asset turnover uses the yearly total, not the average
	assert.True(t, m.AssetTurnoverCY.Valid())
}

func TestExtractor_DivisionByZero(t *testing.T) {
	f := completeFundamentals()
	f.IncomeStatement().Columns[0].Items[contracts.ItemTotalRevenue] = 0

	m := NewExtractor(logger.NewNop()).Extract(f)

	assert.False(t, m.GrossMarginCY.Valid())
	assert.True(t, m.AssetTurnoverCY.Valid(), "zero revenue over assets is still defined")
	assert.Equal(t, 0.0, value(t, m.AssetTurnoverCY))
	assert.True(t, m.GrossMarginPY.Valid())
}

func TestExtractor_TwoYearWindow(t *testing.T) {
	years := []string{"2024", "2023"}
	f := build(years,
		columns{"2024": {contracts.ItemNetIncome: 10}, "2023": {contracts.ItemNetIncome: 5}},
		columns{"2024": {contracts.ItemTotalAssets: 100}, "2023": {contracts.ItemTotalAssets: 300}},
		columns{},
	)

	m := NewExtractor(logger.NewNop()).Extract(f)

	assert.Equal(t, 200.0, value(t, m.AverageTotalAssets))
	assert.False(t, m.OperatingCashFlowCY.Valid())
	assert.False(t, m.CashFlowQuality().Valid())
}
