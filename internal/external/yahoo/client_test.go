package yahoo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/fscore/internal/contracts"
	"github.com/wonny/fscore/pkg/config"
	"github.com/wonny/fscore/pkg/httputil"
	"github.com/wonny/fscore/pkg/logger"
)

const timeseriesBody = `{"timeseries":{"result":[
 {"meta":{"symbol":["AAPL"],"type":["annualNetIncome"]},"timestamp":[1,2],
  "annualNetIncome":[
   {"asOfDate":"2022-09-30","periodType":"12M","reportedValue":{"raw":99803000000,"fmt":"99.80B"}},
   {"asOfDate":"2023-09-30","periodType":"12M","reportedValue":{"raw":96995000000,"fmt":"97.00B"}},
   null]},
 {"meta":{"symbol":["AAPL"],"type":["annualTotalAssets"]},
  "annualTotalAssets":[
   {"asOfDate":"2022-09-30","reportedValue":{"raw":352755000000}},
   {"asOfDate":"2023-09-30","reportedValue":{"raw":352583000000}}]},
 {"meta":{"symbol":["AAPL"],"type":["annualLongTermDebt"]},
  "annualLongTermDebt":[
   {"asOfDate":"2021-09-30","reportedValue":{"raw":109106000000}},
   {"asOfDate":"2023-09-30","reportedValue":{}}]},
 {"meta":{"symbol":["AAPL"],"type":["annualOperatingCashFlow"]},
  "annualOperatingCashFlow":[
   {"asOfDate":"2023-09-30","reportedValue":{"raw":110543000000}}]},
 {"meta":{"symbol":["AAPL"],"type":["annualGrossProfit"]}}
],"error":null}}`

const quoteSummaryBody = `{"quoteSummary":{"result":[{
 "assetProfile":{"industry":"Consumer Electronics","sector":"Technology","country":"United States"},
 "summaryDetail":{"trailingPE":{"raw":29.4,"fmt":"29.40"},"previousClose":{"raw":188.0}},
 "defaultKeyStatistics":{"bookValue":{"raw":4.4},"pegRatio":{}},
 "financialData":{"currentPrice":{"raw":189.5}}
}],"error":null}}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	httpClient := httputil.New(&config.Config{}, logger.NewNop())
	clock := func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	return NewClient(httpClient, server.URL, logger.NewNop()).WithClock(clock)
}

func TestGetStatements(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ws/fundamentals-timeseries/v1/finance/timeseries/AAPL", r.URL.Path)
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		assert.Contains(t, r.URL.Query().Get("type"), "annualShareIssued")
		assert.Equal(t, "1717200000", r.URL.Query().Get("period2"))
		_, _ = w.Write([]byte(timeseriesBody))
	})

	raw, err := client.GetStatements(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", raw.Ticker)
	assert.Equal(t, []string{"2023-09-30", "2022-09-30"}, raw.IncomeStatement.Labels())
	assert.Equal(t, 96995000000.0, raw.IncomeStatement.Value("2023-09-30", contracts.ItemNetIncome).Or(0))

	// missing reported value leaves a hole, not a zero
	assert.Equal(t, []string{"2023-09-30", "2022-09-30", "2021-09-30"}, raw.BalanceSheet.Labels())
	assert.False(t, raw.BalanceSheet.Value("2023-09-30", contracts.ItemLongTermDebt).Valid())
	assert.True(t, raw.BalanceSheet.Value("2021-09-30", contracts.ItemLongTermDebt).Valid())

	assert.Equal(t, []string{"2023-09-30"}, raw.CashFlow.Labels())
}

func TestGetStatements_NoResult(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"timeseries":{"result":[],"error":null}}`))
	})

	_, err := client.GetStatements(context.Background(), "NOPE")
	require.Error(t, err)
	assert.True(t, errors.Is(err, contracts.ErrNoData))
}

func TestGetStatements_NoReportedValues(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"timeseries":{"result":[{"meta":{"symbol":["ZZZZ"],"type":["annualNetIncome"]},"timestamp":null}],"error":null}}`))
	})

	raw, err := client.GetStatements(context.Background(), "ZZZZ")
	require.Error(t, err)
	assert.Nil(t, raw)
	assert.True(t, errors.Is(err, contracts.ErrNoData))
	assert.True(t, strings.HasPrefix(err.Error(), "ZZZZ: no data"))
}

func TestGetStatements_HTTPFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetStatements(context.Background(), "NOPE")
	require.Error(t, err)
	assert.True(t, errors.Is(err, contracts.ErrNoData))
	assert.True(t, strings.HasPrefix(err.Error(), "NOPE: no data"))
}

func TestGetStatements_APIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"timeseries":{"result":null,"error":{"code":"Bad Request","description":"invalid symbol"}}}`))
	})

	_, err := client.GetStatements(context.Background(), "???")
	require.Error(t, err)
	assert.True(t, errors.Is(err, contracts.ErrNoData))
	assert.Contains(t, err.Error(), "invalid symbol")
}

func TestGetProfile(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v10/finance/quoteSummary/AAPL", r.URL.Path)
		assert.Contains(t, r.URL.Query().Get("modules"), "assetProfile")
		_, _ = w.Write([]byte(quoteSummaryBody))
	})

	p, err := client.GetProfile(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, "Consumer Electronics", p.Industry)
	assert.Equal(t, "Technology", p.Sector)
	assert.Equal(t, "United States", p.Country)
	assert.Equal(t, 189.5, p.Price.Or(0))
	assert.Equal(t, 4.4, p.BookValue.Or(0))
	assert.Equal(t, 29.4, p.TrailingPE.Or(0))
	assert.False(t, p.PEG.Valid())
}

func TestGetProfile_PriceFallback(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"quoteSummary":{"result":[{"summaryDetail":{"previousClose":{"raw":12.5}}}],"error":null}}`))
	})

	p, err := client.GetProfile(context.Background(), "XYZ")
	require.NoError(t, err)

	assert.Equal(t, 12.5, p.Price.Or(0))
	assert.Empty(t, p.Industry)
	assert.False(t, p.BookValue.Valid())
	assert.False(t, p.PriceToBook().Valid())
}

func TestGetProfile_NoResult(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"quoteSummary":{"result":[],"error":null}}`))
	})

	_, err := client.GetProfile(context.Background(), "NOPE")
	assert.ErrorIs(t, err, contracts.ErrNoData)
}
