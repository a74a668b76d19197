package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/wonny/fscore/internal/contracts"
)

// timeseriesYears is how far back the annual series is requested
const timeseriesYears = 6

// lineItem maps a timeseries type to its statement and display name
type lineItem struct {
	kind contracts.StatementKind
	name string
}

var annualItems = map[string]lineItem{
	"annualNetIncome":          {contracts.StatementIncome, contracts.ItemNetIncome},
	"annualGrossProfit":        {contracts.StatementIncome, contracts.ItemGrossProfit},
	"annualTotalRevenue":       {contracts.StatementIncome, contracts.ItemTotalRevenue},
	"annualTotalAssets":        {contracts.StatementBalance, contracts.ItemTotalAssets},
	"annualLongTermDebt":       {contracts.StatementBalance, contracts.ItemLongTermDebt},
	"annualCurrentAssets":      {contracts.StatementBalance, contracts.ItemCurrentAssets},
	"annualCurrentLiabilities": {contracts.StatementBalance, contracts.ItemCurrentLiabilities},
	"annualShareIssued":        {contracts.StatementBalance, contracts.ItemShareIssued},
	"annualOperatingCashFlow":  {contracts.StatementCashFlow, contracts.ItemOperatingCashFlow},
}

// annualTypes returns the requested timeseries types in a stable order
func annualTypes() []string {
	types := make([]string, 0, len(annualItems))
	for t := range annualItems {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// GetStatements fetches the annual income statement, balance sheet and
// cash flow of a ticker as most-recent-first tables
func (c *Client) GetStatements(ctx context.Context, ticker string) (*contracts.RawStatements, error) {
	now := c.now()
	params := url.Values{}
	params.Set("symbol", ticker)
	params.Set("type", strings.Join(annualTypes(), ","))
	params.Set("period1", strconv.FormatInt(now.AddDate(-timeseriesYears, 0, 0).Unix(), 10))
	params.Set("period2", strconv.FormatInt(now.Unix(), 10))

	path := fmt.Sprintf("/ws/fundamentals-timeseries/v1/finance/timeseries/%s", url.PathEscape(ticker))
	body, err := c.fetchBody(ctx, ticker, path, params)
	if err != nil {
		return nil, err
	}

	raw, err := parseTimeseries(ticker, body)
	if err != nil {
		return nil, noData(ticker, err)
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker":   ticker,
		"income":   raw.IncomeStatement.Len(),
		"balance":  raw.BalanceSheet.Len(),
		"cashflow": raw.CashFlow.Len(),
	}).Debug("Fetched statements")

	return raw, nil
}

// parseTimeseries pivots per-item series into per-period columns.
// Each result carries its data under a key named after its own type.
func parseTimeseries(ticker string, body []byte) (*contracts.RawStatements, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid timeseries json")
	}
	doc := gjson.ParseBytes(body)

	if apiErr := doc.Get("timeseries.error"); apiErr.IsObject() {
		return nil, fmt.Errorf("%s %s", apiErr.Get("code").String(), apiErr.Get("description").String())
	}

	results := doc.Get("timeseries.result").Array()
	if len(results) == 0 {
		return nil, fmt.Errorf("empty timeseries result")
	}

	// kind -> period -> item -> value
	cells := map[contracts.StatementKind]map[string]map[string]float64{
		contracts.StatementIncome:   {},
		contracts.StatementBalance:  {},
		contracts.StatementCashFlow: {},
	}

	for _, result := range results {
		seriesType := result.Get("meta.type.0").String()
		item, ok := annualItems[seriesType]
		if !ok {
			continue
		}

		result.Get(seriesType).ForEach(func(_, point gjson.Result) bool {
			if !point.IsObject() {
				return true
			}
			period := point.Get("asOfDate").String()
			value := point.Get("reportedValue.raw")
			if period == "" || value.Type != gjson.Number {
				return true
			}

			items := cells[item.kind][period]
			if items == nil {
				items = make(map[string]float64)
				cells[item.kind][period] = items
			}
			items[item.name] = value.Float()
			return true
		})
	}

	raw := &contracts.RawStatements{
		Ticker:          ticker,
		IncomeStatement: contracts.TableFromPeriods(cells[contracts.StatementIncome]),
		BalanceSheet:    contracts.TableFromPeriods(cells[contracts.StatementBalance]),
		CashFlow:        contracts.TableFromPeriods(cells[contracts.StatementCashFlow]),
	}
	// known symbol without any reported value
	if raw.IsEmpty() {
		return nil, fmt.Errorf("no reported values in %d series", len(results))
	}
	return raw, nil
}
