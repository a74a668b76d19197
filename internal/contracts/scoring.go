package contracts

import (
	"encoding/json"
	"fmt"
)

// MetricInputs holds the raw values behind the nine Piotroski criteria
// ⭐ SSOT: Extractor → ScoreEngine 데이터 전달
//
// Every field is independently optional.
type MetricInputs struct {
	NetIncomeCY         Num `json:"net_income_cy"`
	NetIncomePY         Num `json:"net_income_py"`
	AverageTotalAssets  Num `json:"average_total_assets"`
	OperatingCashFlowCY Num `json:"operating_cash_flow_cy"`
	LongTermDebtCY      Num `json:"long_term_debt_cy"`
	LongTermDebtPY      Num `json:"long_term_debt_py"`
	CurrentRatioCY      Num `json:"current_ratio_cy"`
	CurrentRatioPY      Num `json:"current_ratio_py"`
	SharesIssuedCY      Num `json:"shares_issued_cy"`
	SharesIssuedPY      Num `json:"shares_issued_py"`
	GrossMarginCY       Num `json:"gross_margin_cy"`
	GrossMarginPY       Num `json:"gross_margin_py"`
	AssetTurnoverCY     Num `json:"asset_turnover_cy"`
	AssetTurnoverPY     Num `json:"asset_turnover_py"`
}

// ReturnOnAssetsCY is net income (CY) over average total assets
func (m MetricInputs) ReturnOnAssetsCY() Num {
	return m.NetIncomeCY.Div(m.AverageTotalAssets)
}

// ReturnOnAssetsPY is net income (PY) over average total assets
func (m MetricInputs) ReturnOnAssetsPY() Num {
	return m.NetIncomePY.Div(m.AverageTotalAssets)
}

// CashFlowQuality is operating cash flow minus net income (CY)
func (m MetricInputs) CashFlowQuality() Num {
	return m.OperatingCashFlowCY.Sub(m.NetIncomeCY)
}

// LeverageDelta is long-term debt CY minus PY
func (m MetricInputs) LeverageDelta() Num {
	return m.LongTermDebtCY.Sub(m.LongTermDebtPY)
}

// Indicator is a tri-state Piotroski criterion value
type Indicator int8

const (
	IndicatorUnknown Indicator = -1
	IndicatorFail    Indicator = 0
	IndicatorPass    Indicator = 1
)

func indicatorOf(pass bool) Indicator {
	if pass {
		return IndicatorPass
	}
	return IndicatorFail
}

// Valid reports whether the indicator has a definite 0/1 value
func (i Indicator) Valid() bool {
	return i == IndicatorPass || i == IndicatorFail
}

// String renders "1", "0" or "n/a"
func (i Indicator) String() string {
	switch i {
	case IndicatorPass:
		return "1"
	case IndicatorFail:
		return "0"
	default:
		return "n/a"
	}
}

// MarshalJSON encodes unknown as null
func (i Indicator) MarshalJSON() ([]byte, error) {
	if !i.Valid() {
		return []byte("null"), nil
	}
	return json.Marshal(int(i))
}

// Indicator names in report order
const (
	NamePositiveNetIncome       = "Positive Net Income"
	NamePositiveROA             = "Positive ROA trend"
	NamePositiveOperCashFlow    = "Positive Operating Cash Flow"
	NameCashFlowQuality         = "Cash Flow Quality"
	NameDecreasingLeverage      = "Decreasing Leverage"
	NameIncreasingCurrentRatio  = "Increasing Current Ratio"
	NameNoDilution              = "No Dilution"
	NameIncreasingGrossMargin   = "Increasing Gross Margin"
	NameIncreasingAssetTurnover = "Increasing Asset Turnover"
)

// IndicatorNames lists the nine criteria in report order
var IndicatorNames = []string{
	NamePositiveNetIncome,
	NamePositiveROA,
	NamePositiveOperCashFlow,
	NameCashFlowQuality,
	NameDecreasingLeverage,
	NameIncreasingCurrentRatio,
	NameNoDilution,
	NameIncreasingGrossMargin,
	NameIncreasingAssetTurnover,
}

// IndicatorSet holds the nine Piotroski criteria
type IndicatorSet struct {
	PositiveNetIncome       Indicator `json:"positive_net_income"`
	PositiveROA             Indicator `json:"positive_roa"`
	PositiveOperCashFlow    Indicator `json:"positive_oper_cash_flow"`
	CashFlowQuality         Indicator `json:"cash_flow_quality"`
	DecreasingLeverage      Indicator `json:"decreasing_leverage"`
	IncreasingCurrentRatio  Indicator `json:"increasing_current_ratio"`
	NoDilution              Indicator `json:"no_dilution"`
	IncreasingGrossMargin   Indicator `json:"increasing_gross_margin"`
	IncreasingAssetTurnover Indicator `json:"increasing_asset_turnover"`
}

// NamedIndicator pairs a criterion name with its value
type NamedIndicator struct {
	Name  string    `json:"name"`
	Value Indicator `json:"value"`
}

// All returns the nine indicators in report order
func (s IndicatorSet) All() []NamedIndicator {
	values := []Indicator{
		s.PositiveNetIncome,
		s.PositiveROA,
		s.PositiveOperCashFlow,
		s.CashFlowQuality,
		s.DecreasingLeverage,
		s.IncreasingCurrentRatio,
		s.NoDilution,
		s.IncreasingGrossMargin,
		s.IncreasingAssetTurnover,
	}

	out := make([]NamedIndicator, len(values))
	for i, v := range values {
		out[i] = NamedIndicator{Name: IndicatorNames[i], Value: v}
	}
	return out
}

// ScoreResult is the reduced F-score over the computable criteria
type ScoreResult struct {
	Positive int `json:"positive"`
	Valid    int `json:"valid"`
}

// Ratio renders the score as "positive/valid"
func (r ScoreResult) Ratio() string {
	return fmt.Sprintf("%d/%d", r.Positive, r.Valid)
}

// Fraction returns positive/valid as a number; unknown when valid is zero
func (r ScoreResult) Fraction() Num {
	return NumOf(float64(r.Positive)).Div(NumOf(float64(r.Valid)))
}

// Insufficient reports whether no criterion could be computed
func (r ScoreResult) Insufficient() bool {
	return r.Valid == 0
}
