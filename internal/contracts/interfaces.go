package contracts

import "context"

// StatementProvider returns the three statement tables for a ticker
// ⭐ SSOT: 재무제표 조회 인터페이스
type StatementProvider interface {
	GetStatements(ctx context.Context, ticker string) (*RawStatements, error)
}

// ProfileProvider returns quote/profile data for a ticker
// ⭐ SSOT: 종목 프로필 조회 인터페이스
type ProfileProvider interface {
	GetProfile(ctx context.Context, ticker string) (*Profile, error)
}

// IndustryAverages resolves the average trailing P/E of an industry
type IndustryAverages interface {
	AveragePE(industry string) Num
}

// Normalizer trims raw statements into the canonical year window
type Normalizer interface {
	Normalize(raw *RawStatements) (*NormalizedFundamentals, error)
}

// Extractor derives the metric inputs from normalized statements
type Extractor interface {
	Extract(f *NormalizedFundamentals) MetricInputs
}

// Scorer reduces metric inputs to indicators and a score
type Scorer interface {
	Score(m MetricInputs) (IndicatorSet, ScoreResult)
}
