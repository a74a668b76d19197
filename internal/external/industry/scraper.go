package industry

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/fscore/internal/contracts"
	"github.com/wonny/fscore/pkg/httputil"
	"github.com/wonny/fscore/pkg/logger"
)

// Scraper reads an HTML table of industry average P/E ratios
// ⭐ SSOT: 업종 평균 PER 수집은 여기서만
type Scraper struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	url        string
}

// NewScraper creates a new industry P/E scraper
func NewScraper(httpClient *httputil.Client, url string, log *logger.Logger) *Scraper {
	return &Scraper{
		httpClient: httpClient,
		logger:     log,
		url:        url,
	}
}

// Fetch downloads and parses the industry table
func (s *Scraper) Fetch(ctx context.Context) (*Table, error) {
	body, err := s.httpClient.GetBody(ctx, s.url)
	if err != nil {
		return nil, fmt.Errorf("fetch industry table: %w", err)
	}

	table, err := Parse(string(body))
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"url":        s.url,
		"industries": table.Len(),
	}).Info("Loaded industry P/E table")

	return table, nil
}

// Table maps normalized industry names to average P/E
type Table struct {
	Averages map[string]float64 `json:"averages"`
}

// NewTable builds a table from display names
func NewTable(averages map[string]float64) *Table {
	t := &Table{Averages: make(map[string]float64, len(averages))}
	for name, pe := range averages {
		t.Averages[normalizeName(name)] = pe
	}
	return t
}

// Len returns the number of industries
func (t *Table) Len() int {
	return len(t.Averages)
}

// AveragePE looks up an industry; a miss is unknown
func (t *Table) AveragePE(industry string) contracts.Num {
	if t == nil {
		return contracts.Unknown
	}
	pe, ok := t.Averages[normalizeName(industry)]
	if !ok {
		return contracts.Unknown
	}
	return contracts.NumOf(pe)
}

// Parse extracts (industry, P/E) rows from the first table whose header
// names both an industry column and a P/E column
func Parse(html string) (*Table, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse industry html: %w", err)
	}

	var table *Table
	doc.Find("table").EachWithBreak(func(_ int, tbl *goquery.Selection) bool {
		nameCol, peCol := headerColumns(tbl)
		if nameCol < 0 || peCol < 0 {
			return true
		}

		averages := make(map[string]float64)
		tbl.Find("tr").Each(func(_ int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() <= nameCol || cells.Length() <= peCol {
				return
			}
			name := strings.TrimSpace(cells.Eq(nameCol).Text())
			pe, ok := parseNumber(cells.Eq(peCol).Text())
			if name == "" || !ok {
				return
			}
			averages[name] = pe
		})

		table = NewTable(averages)
		return false
	})

	if table == nil {
		return nil, fmt.Errorf("no industry P/E table found")
	}
	return table, nil
}

// headerColumns locates the industry and P/E columns by header text
func headerColumns(tbl *goquery.Selection) (nameCol, peCol int) {
	nameCol, peCol = -1, -1
	tbl.Find("tr").First().Find("th, td").Each(func(i int, cell *goquery.Selection) {
		text := strings.ToLower(strings.TrimSpace(cell.Text()))
		switch {
		case nameCol < 0 && strings.Contains(text, "industry"):
			nameCol = i
		case peCol < 0 && (strings.Contains(text, "p/e") || strings.Contains(text, "pe ratio")):
			peCol = i
		}
	})
	return nameCol, peCol
}

// parseNumber accepts "1,234.5" style cells; anything else is skipped
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" || s == "-" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func normalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
