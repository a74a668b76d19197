package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/wonny/fscore/internal/contracts"
)

const (
	doubleRule = "═══════════════════════════════════════════════════════════"
	singleRule = "───────────────────────────────────────────────────────────"
)

// Header describes a run at the top of the console report
type Header struct {
	Title      string
	RunID      string
	ConfigHash string
	Tickers    int
	Checks     []string
	StartedAt  time.Time
}

// Printer renders run results for a terminal.
// Write errors are sticky: after the first failure nothing more is
// written and Err reports it.
type Printer struct {
	w   io.Writer
	err error
}

// NewPrinter creates a printer writing to w
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Err returns the first write error
func (p *Printer) Err() error {
	return p.err
}

func (p *Printer) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *Printer) println(s string) {
	p.printf("%s\n", s)
}

// Header prints the run banner
func (p *Printer) Header(h Header) {
	p.println("")
	p.println(doubleRule)
	p.printf("  %s\n", h.Title)
	p.println(singleRule)
	if h.RunID != "" {
		p.printf("  Run ID    : %s\n", h.RunID)
	}
	if h.ConfigHash != "" {
		p.printf("  Config    : %s\n", shortHash(h.ConfigHash))
	}
	p.printf("  Tickers   : %d\n", h.Tickers)
	if len(h.Checks) > 0 {
		p.printf("  Checks    : %s\n", strings.Join(h.Checks, ", "))
	}
	if !h.StartedAt.IsZero() {
		p.printf("  Started   : %s\n", h.StartedAt.Format(time.RFC3339))
	}
	p.println(singleRule)
}

// Ticker prints the detail block of one ticker
func (p *Printer) Ticker(r contracts.TickerReport) {
	p.println("")
	switch r.Status {
	case contracts.StatusNoData, contracts.StatusRejected:
		p.printf("❌ %s [%s] %s\n", r.Ticker, r.Status, r.Reason)
		return
	}

	if r.Scored() {
		p.printf("%s  (anchor %s, %d years)\n", r.Ticker, r.AnchorYear, r.YearCount)
		line := fmt.Sprintf("PIOTROSKI SCORE: %s", r.Score.Ratio())
		if r.Score.Insufficient() {
			line += " (insufficient data)"
		}
		p.printf("  %s\n", line)
		if r.Indicators != nil {
			for _, ind := range r.Indicators.All() {
				p.printf("    %-28s %s\n", ind.Name, ind.Value)
			}
		}
	} else {
		p.printf("%s\n", r.Ticker)
	}

	if v := r.Valuation; v != nil {
		p.printf("  Industry: %s | P/B: %s | P/E: %s vs %s\n",
			orNA(v.Industry), v.PriceToBook.Format(2), v.TrailingPE.Format(2), v.IndustryPE.Format(2))
		if v.Undervalued {
			p.println("  ✅ Undervalued")
		}
	}
}

// ScoreTable prints one row per ticker with its score or skip reason
func (p *Printer) ScoreTable(reports []contracts.TickerReport) {
	if p.err != nil {
		return
	}

	p.println("")
	p.println("PIOTROSKI SCORES")
	p.println(singleRule)

	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TICKER\tSTATUS\tANCHOR\tYEARS\tSCORE\tNOTE")
	for _, r := range reports {
		anchor, years, score, note := "-", "-", "-", r.Reason
		if r.Scored() {
			anchor = r.AnchorYear
			years = fmt.Sprintf("%d", r.YearCount)
			score = r.Score.Ratio()
			if r.Score.Insufficient() {
				note = "insufficient data"
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", r.Ticker, r.Status, anchor, years, score, note)
	}
	p.err = tw.Flush()
}

// ValuationTable prints the screen rows of tickers that got a valuation
func (p *Printer) ValuationTable(reports []contracts.TickerReport) {
	if p.err != nil {
		return
	}

	p.println("")
	p.println("UNDERVALUATION SCREEN")
	p.println(singleRule)

	rows := 0
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TICKER\tINDUSTRY\tSECTOR\tCOUNTRY\tPRICE\tBOOK\tP/B\tP/E\tIND P/E\tPEG\tUNDERVALUED")
	for _, r := range reports {
		v := r.Valuation
		if v == nil {
			continue
		}
		rows++
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Ticker, orNA(v.Industry), orNA(v.Sector), orNA(v.Country),
			v.Price.Format(2), v.BookValue.Format(2), v.PriceToBook.Format(2),
			v.TrailingPE.Format(2), v.IndustryPE.Format(2), v.PEG.Format(2),
			yesNo(v.Undervalued))
	}
	if err := tw.Flush(); err != nil {
		p.err = err
		return
	}

	if rows == 0 {
		p.println("  (no tickers reached the screen)")
	}
}

// Summary prints outcome counts and the run duration
func (p *Printer) Summary(s contracts.RunSummary, duration time.Duration) {
	p.println("")
	p.println(doubleRule)
	p.printf("  Total: %d | Scored: %d | Rejected: %d | No data: %d | Screened: %d\n",
		s.Total, s.Scored, s.Rejected, s.NoData, s.Screened)
	p.printf("  Undervalued: %d\n", s.Undervalued)
	p.println(doubleRule)
	p.printf("✅ Completed in %.2fs\n", duration.Seconds())
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "n/a"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
