package s3_score

import (
	"github.com/wonny/fscore/internal/contracts"
	"github.com/wonny/fscore/pkg/logger"
)

// Engine converts metric inputs into the nine Piotroski indicators
// ⭐ SSOT: F-score 계산은 여기서만
type Engine struct {
	logger *logger.Logger
}

// NewEngine creates a new score engine
func NewEngine(log *logger.Logger) *Engine {
	return &Engine{
		logger: log,
	}
}

var zero = contracts.NumOf(0)

// Score evaluates every criterion whose inputs are known and reduces them
// to positive/valid over the computable subset
func (e *Engine) Score(m contracts.MetricInputs) (contracts.IndicatorSet, contracts.ScoreResult) {
	set := Indicators(m)
	result := Reduce(set)

	if e.logger != nil {
		e.logger.WithFields(map[string]interface{}{
			"positive": result.Positive,
			"valid":    result.Valid,
		}).Debug("Calculated piotroski score")
	}

	return set, result
}

// Indicators evaluates the nine criteria
func Indicators(m contracts.MetricInputs) contracts.IndicatorSet {
	return contracts.IndicatorSet{
		// Profitability
		PositiveNetIncome:    m.NetIncomeCY.GreaterThan(zero),
		PositiveROA:          m.ReturnOnAssetsCY().GreaterThan(m.ReturnOnAssetsPY()),
		PositiveOperCashFlow: m.OperatingCashFlowCY.GreaterThan(zero),
		CashFlowQuality:      m.CashFlowQuality().GreaterThan(zero),

		// Leverage, liquidity, source of funds
		DecreasingLeverage:     m.LeverageDelta().LessThan(zero),
		IncreasingCurrentRatio: m.CurrentRatioCY.GreaterThan(m.CurrentRatioPY),
		NoDilution:             m.SharesIssuedCY.AtMost(m.SharesIssuedPY),

		// Operating efficiency
		IncreasingGrossMargin:   m.GrossMarginCY.GreaterThan(m.GrossMarginPY),
		IncreasingAssetTurnover: m.AssetTurnoverCY.GreaterThan(m.AssetTurnoverPY),
	}
}

// Reduce counts defined and passing indicators
func Reduce(set contracts.IndicatorSet) contracts.ScoreResult {
	var r contracts.ScoreResult
	for _, ind := range set.All() {
		if !ind.Value.Valid() {
			continue
		}
		r.Valid++
		if ind.Value == contracts.IndicatorPass {
			r.Positive++
		}
	}
	return r
}

// MeetsMinimum reports whether a score reaches the ratio threshold.
// A score with no computable criterion never passes.
func MeetsMinimum(r contracts.ScoreResult, min float64) bool {
	if min <= 0 {
		return true
	}
	frac, ok := r.Fraction().Get()
	return ok && frac >= min
}
