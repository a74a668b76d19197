package s1_normalize

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/fscore/internal/contracts"
	"github.com/wonny/fscore/pkg/logger"
)

const (
	// MinYears is the smallest accepted window (CY + PY)
	MinYears = 2
	// MaxYears is the largest retained window; older columns are dropped
	MaxYears = 4
)

// accepted column date layouts, tried in order
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006",
}

// Normalizer trims a provider's statement triple into the canonical
// 2-4 year window anchored at a supported current year.
// ⭐ SSOT: 재무제표 연도 정규화는 여기서만
type Normalizer struct {
	configured []int
	now        func() time.Time
	logger     *logger.Logger
}

// NewNormalizer creates a normalizer accepting the given anchor years.
// With none given, the anchors follow the clock (see ResolveAnchors) and
// move forward on long-running processes.
func NewNormalizer(anchorYears []int, log *logger.Logger) *Normalizer {
	return &Normalizer{
		configured: append([]int(nil), anchorYears...),
		now:        time.Now,
		logger:     log,
	}
}

// Anchors returns the anchor years accepted right now, newest first
func (n *Normalizer) Anchors() []int {
	return ResolveAnchors(n.configured, n.now())
}

// ResolveAnchors returns the configured anchors, or the current calendar
// year and the prior one when none are configured
func ResolveAnchors(configured []int, now time.Time) []int {
	if len(configured) > 0 {
		out := append([]int(nil), configured...)
		sort.Sort(sort.Reverse(sort.IntSlice(out)))
		return out
	}
	return []int{now.Year(), now.Year() - 1}
}

// Normalize validates the three statements together; either all of them
// fit one shape or the ticker is rejected with a *contracts.ShapeRejection.
func (n *Normalizer) Normalize(raw *contracts.RawStatements) (*contracts.NormalizedFundamentals, error) {
	if raw == nil || raw.IsEmpty() {
		return nil, contracts.Reject(contracts.RejectEmptyStatement, "no statements")
	}

	kinds := []contracts.StatementKind{
		contracts.StatementIncome,
		contracts.StatementBalance,
		contracts.StatementCashFlow,
	}

	// 1~2. 각 재무제표의 최신 연도 (column 0)
	anchorByKind := make([]int, len(kinds))
	for i, kind := range kinds {
		table := raw.Table(kind)
		if table.Len() == 0 {
			return nil, contracts.Reject(contracts.RejectEmptyStatement, "%s has no columns", kind)
		}
		year, err := parseYear(table.Columns[0].Label)
		if err != nil {
			return nil, contracts.Reject(contracts.RejectUnparseableDate, "%s column 0: %v", kind, err)
		}
		anchorByKind[i] = year
	}

	// 3. 세 재무제표의 기준 연도 일치 + 지원 연도 확인
	anchor := anchorByKind[0]
	for _, year := range anchorByKind[1:] {
		if year != anchor {
			return nil, contracts.Reject(contracts.RejectAnchorMismatch,
				"income=%d balance=%d cashflow=%d", anchorByKind[0], anchorByKind[1], anchorByKind[2])
		}
	}
	supported := n.Anchors()
	if !containsYear(supported, anchor) {
		return nil, contracts.Reject(contracts.RejectUnsupportedAnchor, "anchor %d not in %s", anchor, yearList(supported))
	}

	// 4. 공통 연도 수 (2~4)
	yearCount := MaxYears
	for _, kind := range kinds {
		if l := raw.Table(kind).Len(); l < yearCount {
			yearCount = l
		}
	}
	if yearCount < MinYears {
		return nil, contracts.Reject(contracts.RejectInsufficientYears, "%d shared years, need %d", yearCount, MinYears)
	}

	years := make([]string, yearCount)
	for i := range years {
		years[i] = formatYear(anchor - i)
	}

	// 5~6. 초과 연도 제거 후 연도 라벨 부여
	tables := make([]contracts.StatementTable, len(kinds))
	for i, kind := range kinds {
		table, err := relabel(raw.Table(kind), anchor, yearCount)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}
		tables[i] = table
	}

	if n.logger != nil {
		n.logger.WithFields(map[string]interface{}{
			"ticker":     raw.Ticker,
			"anchor":     anchor,
			"year_count": yearCount,
		}).Debug("Normalized statements")
	}

	return contracts.NewNormalizedFundamentals(tables[0], tables[1], tables[2], formatYear(anchor), years), nil
}

// relabel keeps the first count columns and labels them anchor, anchor-1, ...
// Each column's own year must match its label.
func relabel(table contracts.StatementTable, anchor int, count int) (contracts.StatementTable, error) {
	out := contracts.StatementTable{Columns: make([]contracts.StatementColumn, count)}
	for i := 0; i < count; i++ {
		col := table.Columns[i]
		year, err := parseYear(col.Label)
		if err != nil {
			return contracts.StatementTable{}, contracts.Reject(contracts.RejectUnparseableDate, "column %d: %v", i, err)
		}
		if want := anchor - i; year != want {
			return contracts.StatementTable{}, contracts.Reject(contracts.RejectNonContiguousYears,
				"column %d is %d, want %d", i, year, want)
		}

		items := make(map[string]float64, len(col.Items))
		for k, v := range col.Items {
			items[k] = v
		}
		out.Columns[i] = contracts.StatementColumn{Label: formatYear(anchor - i), Items: items}
	}
	return out, nil
}

// parseYear extracts the calendar year from a column date label
func parseYear(label string) (int, error) {
	label = strings.TrimSpace(label)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, label); err == nil {
			return t.Year(), nil
		}
	}
	return 0, fmt.Errorf("unrecognized date label %q", label)
}

func formatYear(year int) string {
	return fmt.Sprintf("%04d", year)
}

func containsYear(years []int, year int) bool {
	for _, y := range years {
		if y == year {
			return true
		}
	}
	return false
}

func yearList(years []int) string {
	parts := make([]string, len(years))
	for i, y := range years {
		parts[i] = strconv.Itoa(y)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
