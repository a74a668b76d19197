package contracts

// Profile is the quote/profile data of a ticker; any field may be absent
type Profile struct {
	Ticker     string `json:"ticker"`
	Industry   string `json:"industry"`
	Sector     string `json:"sector"`
	Country    string `json:"country"`
	Price      Num    `json:"price"`
	BookValue  Num    `json:"book_value"` // per share
	TrailingPE Num    `json:"trailing_pe"`
	PEG        Num    `json:"peg"`
}

// PriceToBook is price over book value per share
func (p *Profile) PriceToBook() Num {
	return p.Price.Div(p.BookValue)
}

// TickerStatus is the outcome of one ticker's pipeline run
type TickerStatus string

const (
	StatusScored   TickerStatus = "scored"
	StatusRejected TickerStatus = "rejected"
	StatusNoData   TickerStatus = "no_data"
	// StatusScreened marks a ticker that only went through the valuation screen
	StatusScreened TickerStatus = "screened"
)

// Valuation is the undervaluation screen row of a ticker
type Valuation struct {
	Industry    string `json:"industry"`
	Sector      string `json:"sector"`
	Country     string `json:"country"`
	Price       Num    `json:"price"`
	BookValue   Num    `json:"book_value"`
	PriceToBook Num    `json:"price_to_book"`
	TrailingPE  Num    `json:"trailing_pe"`
	IndustryPE  Num    `json:"industry_pe"`
	PEG         Num    `json:"peg"`
	Undervalued bool   `json:"undervalued"`
}

// TickerReport is everything reported for one processed ticker
// ⭐ SSOT: Pipeline → Reporting 데이터 전달
type TickerReport struct {
	Ticker     string        `json:"ticker"`
	Status     TickerStatus  `json:"status"`
	Reason     string        `json:"reason,omitempty"`
	AnchorYear string        `json:"anchor_year,omitempty"`
	YearCount  int           `json:"year_count,omitempty"`
	Inputs     *MetricInputs `json:"inputs,omitempty"`
	Indicators *IndicatorSet `json:"indicators,omitempty"`
	Score      *ScoreResult  `json:"score,omitempty"`
	Valuation  *Valuation    `json:"valuation,omitempty"`
}

// Scored reports whether the ticker produced a score
func (r *TickerReport) Scored() bool {
	return r.Status == StatusScored && r.Score != nil
}

// ScoreRatio renders the score, or the status for skipped tickers
func (r *TickerReport) ScoreRatio() string {
	if !r.Scored() {
		return string(r.Status)
	}
	return r.Score.Ratio()
}

// RunSummary counts outcomes over one batch
type RunSummary struct {
	Total       int `json:"total"`
	Scored      int `json:"scored"`
	Rejected    int `json:"rejected"`
	NoData      int `json:"no_data"`
	Screened    int `json:"screened"`
	Undervalued int `json:"undervalued"`
}

// Summarize counts outcomes over reports
func Summarize(reports []TickerReport) RunSummary {
	s := RunSummary{Total: len(reports)}
	for _, r := range reports {
		switch r.Status {
		case StatusScored:
			s.Scored++
		case StatusRejected:
			s.Rejected++
		case StatusNoData:
			s.NoData++
		case StatusScreened:
			s.Screened++
		}
		if r.Valuation != nil && r.Valuation.Undervalued {
			s.Undervalued++
		}
	}
	return s
}
