package selection

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/fscore/internal/contracts"
	"github.com/wonny/fscore/pkg/logger"
)

type staticAverages map[string]float64

func (a staticAverages) AveragePE(industry string) contracts.Num {
	v, ok := a[strings.ToLower(industry)]
	if !ok {
		return contracts.Unknown
	}
	return contracts.NumOf(v)
}

func n(v float64) contracts.Num { return contracts.NumOf(v) }

func TestIsUndervalued(t *testing.T) {
	tests := []struct {
		name       string
		ptb        contracts.Num
		trailing   contracts.Num
		industry   contracts.Num
		undervalue bool
	}{
		{"cheap on both", n(0.8), n(10), n(15), true},
		{"p/b above one", n(1.2), n(10), n(15), false},
		{"p/b exactly one", n(1), n(10), n(15), false},
		{"p/b zero", n(0), n(10), n(15), false},
		{"negative p/b", n(-0.5), n(10), n(15), false},
		{"pe not below industry", n(0.8), n(15), n(15), false},
		{"undefined trailing pe", n(0.8), contracts.Unknown, n(15), false},
		{"undefined industry pe", n(0.8), n(10), contracts.Unknown, false},
		{"undefined p/b", contracts.Unknown, n(10), n(15), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.undervalue, IsUndervalued(tt.ptb, tt.trailing, tt.industry))
		})
	}
}

func TestScreener_Evaluate(t *testing.T) {
	s := NewScreener(ScreenerConfig{}, staticAverages{"banks—regional": 15}, logger.NewNop())

	v := s.Evaluate(&contracts.Profile{
		Ticker:     "ABC",
		Industry:   "Banks—Regional",
		Sector:     "Financial Services",
		Country:    "United States",
		Price:      n(8),
		BookValue:  n(10),
		TrailingPE: n(10),
		PEG:        contracts.Unknown,
	})

	require.NotNil(t, v)
	assert.True(t, v.Undervalued)
	assert.InDelta(t, 0.8, v.PriceToBook.Or(0), 1e-9)
	assert.Equal(t, 15.0, v.IndustryPE.Or(0))
	assert.False(t, v.PEG.Valid())
	assert.Equal(t, "Financial Services", v.Sector)
}

func TestScreener_EvaluateIndustryMiss(t *testing.T) {
	s := NewScreener(ScreenerConfig{}, staticAverages{}, logger.NewNop())

	v := s.Evaluate(&contracts.Profile{Ticker: "XYZ", Industry: "Unknown Industry", Price: n(5), BookValue: n(10), TrailingPE: n(3)})

	assert.False(t, v.IndustryPE.Valid())
	assert.False(t, v.Undervalued)
}

func TestScreener_EvaluateMissingBookValue(t *testing.T) {
	s := NewScreener(ScreenerConfig{}, staticAverages{"software": 30}, logger.NewNop())

	v := s.Evaluate(&contracts.Profile{Ticker: "XYZ", Industry: "Software", Price: n(5), BookValue: n(0), TrailingPE: n(3)})

	assert.False(t, v.PriceToBook.Valid())
	assert.False(t, v.Undervalued)
}

func TestScreener_Eligible(t *testing.T) {
	gated := NewScreener(ScreenerConfig{MinScore: 0.7}, nil, logger.NewNop())
	open := NewScreener(ScreenerConfig{}, nil, logger.NewNop())

	assert.True(t, gated.Eligible(&contracts.ScoreResult{Positive: 7, Valid: 9}))
	assert.False(t, gated.Eligible(&contracts.ScoreResult{Positive: 6, Valid: 9}))
	assert.False(t, gated.Eligible(&contracts.ScoreResult{}))
	assert.True(t, gated.Eligible(nil))
	assert.True(t, open.Eligible(&contracts.ScoreResult{}))
}
