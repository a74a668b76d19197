package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/wonny/fscore/internal/contracts"
)

// CSVHeader is the score list header; indicator columns follow report order
func CSVHeader() []string {
	header := []string{"ticker", "status", "anchor_year", "year_count", "score"}
	return append(header, contracts.IndicatorNames...)
}

// WriteCSV writes the score list, one row per ticker.
// Skipped tickers keep their status with empty score columns; unknown
// indicators render as "n/a".
func WriteCSV(w io.Writer, reports []contracts.TickerReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader()); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, r := range reports {
		if err := cw.Write(csvRow(r)); err != nil {
			return fmt.Errorf("failed to write csv row for %s: %w", r.Ticker, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func csvRow(r contracts.TickerReport) []string {
	row := make([]string, 0, 5+len(contracts.IndicatorNames))
	row = append(row, r.Ticker, string(r.Status))

	if !r.Scored() {
		row = append(row, "", "", "")
		for range contracts.IndicatorNames {
			row = append(row, "")
		}
		return row
	}

	row = append(row, r.AnchorYear, strconv.Itoa(r.YearCount), r.Score.Ratio())
	var indicators contracts.IndicatorSet
	if r.Indicators != nil {
		indicators = *r.Indicators
	}
	for _, ind := range indicators.All() {
		row = append(row, ind.Value.String())
	}
	return row
}

// WriteCSVFile writes the score list to path, creating parent directories
func WriteCSVFile(path string, reports []contracts.TickerReport) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return WriteCSV(f, reports)
}
