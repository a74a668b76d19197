package runconfig

// Config is a batch run definition
// ⭐ SSOT: 실행 설정 구조는 여기서만 정의
type Config struct {
	// Universe
	Tickers    []string `yaml:"tickers" json:"tickers"`
	TickerFile string   `yaml:"ticker_file" json:"ticker_file"`

	// Supported anchor years (empty = current and prior calendar year)
	AnchorYears []int `yaml:"anchor_years" json:"anchor_years"`

	// Feature flags
	CheckPiotroski   bool `yaml:"check_piotroski" json:"check_piotroski"`
	CheckUndervalued bool `yaml:"check_undervalued" json:"check_undervalued"`

	// Screen gate on positive/valid, 0 disables
	ScreenMinScore float64 `yaml:"screen_min_score" json:"screen_min_score"`

	// Score list CSV path (empty = no file)
	OutputFile string `yaml:"output_file" json:"output_file"`

	// Cron spec for `fscore schedule` and `fscore serve` (5 or 6 fields)
	Schedule string `yaml:"schedule" json:"schedule"`
}

// Default returns the configuration used when no run file is given
func Default() *Config {
	return &Config{
		CheckPiotroski:   true,
		CheckUndervalued: false,
	}
}
