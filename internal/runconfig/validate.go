package runconfig

import "fmt"

// ValidationError 검증 실패
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks all required constraints
func Validate(cfg *Config) error {
	if len(cfg.Tickers) == 0 && cfg.TickerFile == "" {
		return ValidationError{"tickers", "tickers or ticker_file is required"}
	}

	if !cfg.CheckPiotroski && !cfg.CheckUndervalued {
		return ValidationError{"check_piotroski", "at least one of check_piotroski, check_undervalued must be true"}
	}

	for _, y := range cfg.AnchorYears {
		if y < 1900 || y > 9999 {
			return ValidationError{"anchor_years", fmt.Sprintf("invalid year %d", y)}
		}
	}

	if cfg.ScreenMinScore < 0 || cfg.ScreenMinScore > 1 {
		return ValidationError{"screen_min_score", "must be in [0, 1]"}
	}
	if cfg.ScreenMinScore > 0 && !cfg.CheckPiotroski {
		return ValidationError{"screen_min_score", "requires check_piotroski"}
	}

	return nil
}
