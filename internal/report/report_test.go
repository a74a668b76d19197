package report

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/fscore/internal/contracts"
)

func sampleReports() []contracts.TickerReport {
	indicators := contracts.IndicatorSet{
		PositiveNetIncome:       contracts.IndicatorPass,
		PositiveROA:             contracts.IndicatorPass,
		PositiveOperCashFlow:    contracts.IndicatorPass,
		CashFlowQuality:         contracts.IndicatorFail,
		DecreasingLeverage:      contracts.IndicatorUnknown,
		IncreasingCurrentRatio:  contracts.IndicatorPass,
		NoDilution:              contracts.IndicatorPass,
		IncreasingGrossMargin:   contracts.IndicatorFail,
		IncreasingAssetTurnover: contracts.IndicatorPass,
	}
	score := contracts.ScoreResult{Positive: 6, Valid: 8}

	return []contracts.TickerReport{
		{
			Ticker:     "AAPL",
			Status:     contracts.StatusScored,
			AnchorYear: "2023",
			YearCount:  4,
			Indicators: &indicators,
			Score:      &score,
			Valuation: &contracts.Valuation{
				Industry:    "Consumer Electronics",
				Price:       contracts.NumOf(80),
				BookValue:   contracts.NumOf(100),
				PriceToBook: contracts.NumOf(0.8),
				TrailingPE:  contracts.NumOf(10),
				IndustryPE:  contracts.NumOf(15),
				Undervalued: true,
			},
		},
		{
			Ticker: "NOPE",
			Status: contracts.StatusNoData,
			Reason: "NOPE: no data",
		},
		{
			Ticker: "ODD",
			Status: contracts.StatusRejected,
			Reason: "anchor year mismatch",
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleReports()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, CSVHeader(), rows[0])
	assert.Equal(t, "Positive Net Income", rows[0][5])
	assert.Len(t, rows[0], 14)

	assert.Equal(t, []string{
		"AAPL", "scored", "2023", "4", "6/8",
		"1", "1", "1", "0", "n/a", "1", "1", "0", "1",
	}, rows[1])

	assert.Equal(t, "NOPE", rows[2][0])
	assert.Equal(t, "no_data", rows[2][1])
	assert.Equal(t, "", rows[2][4])
	assert.Len(t, rows[2], 14)

	assert.Equal(t, "rejected", rows[3][1])
}

func TestWriteCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "scores.csv")
	require.NoError(t, WriteCSVFile(path, sampleReports()[:1]))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "AAPL,scored,2023,4,6/8,"))
}

func TestPrinter_Ticker(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	for _, r := range sampleReports() {
		p.Ticker(r)
	}
	require.NoError(t, p.Err())

	out := buf.String()
	assert.Contains(t, out, "PIOTROSKI SCORE: 6/8")
	assert.Contains(t, out, "Decreasing Leverage")
	assert.Contains(t, out, "n/a")
	assert.Contains(t, out, "✅ Undervalued")
	assert.Contains(t, out, "❌ NOPE [no_data]")
	assert.Contains(t, out, "❌ ODD [rejected] anchor year mismatch")
}

func TestPrinter_TickerInsufficient(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.Ticker(contracts.TickerReport{
		Ticker:     "EMPTY",
		Status:     contracts.StatusScored,
		AnchorYear: "2024",
		YearCount:  2,
		Indicators: &contracts.IndicatorSet{},
		Score:      &contracts.ScoreResult{},
	})

	assert.Contains(t, buf.String(), "PIOTROSKI SCORE: 0/0 (insufficient data)")
}

func TestPrinter_Tables(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.Header(Header{Title: "F-SCORE RUN", RunID: "run-1", ConfigHash: "0123456789abcdef", Tickers: 3, Checks: []string{"piotroski"}})
	p.ScoreTable(sampleReports())
	p.ValuationTable(sampleReports())
	p.Summary(contracts.Summarize(sampleReports()), 1500*time.Millisecond)
	require.NoError(t, p.Err())

	out := buf.String()
	assert.Contains(t, out, "Run ID    : run-1")
	assert.Contains(t, out, "Config    : 0123456789ab")
	assert.Contains(t, out, "TICKER")
	assert.Contains(t, out, "6/8")
	assert.Contains(t, out, "Consumer Electronics")
	assert.Contains(t, out, "0.80")
	assert.Contains(t, out, "Total: 3 | Scored: 1 | Rejected: 1 | No data: 1 | Screened: 0")
	assert.Contains(t, out, "Undervalued: 1")
	assert.Contains(t, out, "Completed in 1.50s")
}

func TestPrinter_ValuationTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.ValuationTable(sampleReports()[1:])
	require.NoError(t, p.Err())
	assert.Contains(t, buf.String(), "no tickers reached the screen")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestPrinter_StickyError(t *testing.T) {
	p := NewPrinter(failingWriter{})
	p.Header(Header{Title: "x"})
	p.Ticker(sampleReports()[0])
	p.ScoreTable(sampleReports())

	require.Error(t, p.Err())
	assert.Equal(t, "closed", p.Err().Error())
}
