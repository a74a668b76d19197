package selection

import (
	"strings"

	"github.com/wonny/fscore/internal/contracts"
	"github.com/wonny/fscore/internal/s3_score"
	"github.com/wonny/fscore/pkg/logger"
)

// Screener implements the undervaluation screen
// ⭐ SSOT: 저평가 판정 로직은 여기서만
type Screener struct {
	config   ScreenerConfig
	averages contracts.IndustryAverages
	logger   *logger.Logger
}

// ScreenerConfig defines screen conditions
type ScreenerConfig struct {
	// MinScore gates the screen on positive/valid (0 disables the gate)
	MinScore float64
}

// NewScreener creates a new screener
func NewScreener(config ScreenerConfig, averages contracts.IndustryAverages, logger *logger.Logger) *Screener {
	return &Screener{
		config:   config,
		averages: averages,
		logger:   logger,
	}
}

// IsUndervalued is true iff 0 < P/B < 1 and trailing P/E is below the
// industry average. Any undefined input yields false.
func IsUndervalued(priceToBook, trailingPE, industryPE contracts.Num) bool {
	ptb, ok := priceToBook.Get()
	if !ok || ptb <= 0 || ptb >= 1 {
		return false
	}
	return trailingPE.LessThan(industryPE) == contracts.IndicatorPass
}

// Eligible reports whether a ticker passes the score gate.
// A nil score means scoring was not requested for this run.
func (s *Screener) Eligible(score *contracts.ScoreResult) bool {
	if s.config.MinScore <= 0 || score == nil {
		return true
	}
	return s3_score.MeetsMinimum(*score, s.config.MinScore)
}

// Evaluate builds the valuation block for a profile
func (s *Screener) Evaluate(profile *contracts.Profile) *contracts.Valuation {
	industryPE := contracts.Unknown
	if s.averages != nil && strings.TrimSpace(profile.Industry) != "" {
		industryPE = s.averages.AveragePE(profile.Industry)
	}

	ptb := profile.PriceToBook()
	v := &contracts.Valuation{
		Industry:    profile.Industry,
		Sector:      profile.Sector,
		Country:     profile.Country,
		Price:       profile.Price,
		BookValue:   profile.BookValue,
		PriceToBook: ptb,
		TrailingPE:  profile.TrailingPE,
		IndustryPE:  industryPE,
		PEG:         profile.PEG,
		Undervalued: IsUndervalued(ptb, profile.TrailingPE, industryPE),
	}

	if s.logger != nil {
		s.logger.WithFields(map[string]interface{}{
			"ticker":      profile.Ticker,
			"industry":    profile.Industry,
			"ptb":         ptb.String(),
			"trailing_pe": profile.TrailingPE.String(),
			"industry_pe": industryPE.String(),
			"undervalued": v.Undervalued,
		}).Debug("Evaluated valuation")
	}

	return v
}
