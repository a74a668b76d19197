package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/wonny/fscore/internal/contracts"
)

var profileModules = []string{"assetProfile", "summaryDetail", "defaultKeyStatistics", "financialData"}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []quoteSummaryResult `json:"result"`
		Error  *apiError            `json:"error"`
	} `json:"quoteSummary"`
}

type quoteSummaryResult struct {
	AssetProfile struct {
		Industry string `json:"industry"`
		Sector   string `json:"sector"`
		Country  string `json:"country"`
	} `json:"assetProfile"`
	SummaryDetail struct {
		TrailingPE    *rawValue `json:"trailingPE"`
		PreviousClose *rawValue `json:"previousClose"`
	} `json:"summaryDetail"`
	DefaultKeyStatistics struct {
		BookValue *rawValue `json:"bookValue"`
		PEGRatio  *rawValue `json:"pegRatio"`
	} `json:"defaultKeyStatistics"`
	FinancialData struct {
		CurrentPrice *rawValue `json:"currentPrice"`
	} `json:"financialData"`
}

// GetProfile fetches industry, price and valuation fields of a ticker
func (c *Client) GetProfile(ctx context.Context, ticker string) (*contracts.Profile, error) {
	params := url.Values{}
	params.Set("modules", strings.Join(profileModules, ","))

	var resp quoteSummaryResponse
	path := fmt.Sprintf("/v10/finance/quoteSummary/%s", url.PathEscape(ticker))
	if err := c.fetchJSON(ctx, ticker, path, params, &resp); err != nil {
		return nil, err
	}
	if err := resp.QuoteSummary.Error.asError(); err != nil {
		return nil, noData(ticker, err)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, noData(ticker, nil)
	}

	r := resp.QuoteSummary.Result[0]

	price := r.FinancialData.CurrentPrice.num()
	if !price.Valid() {
		price = r.SummaryDetail.PreviousClose.num()
	}

	profile := &contracts.Profile{
		Ticker:     ticker,
		Industry:   strings.TrimSpace(r.AssetProfile.Industry),
		Sector:     strings.TrimSpace(r.AssetProfile.Sector),
		Country:    strings.TrimSpace(r.AssetProfile.Country),
		Price:      price,
		BookValue:  r.DefaultKeyStatistics.BookValue.num(),
		TrailingPE: r.SummaryDetail.TrailingPE.num(),
		PEG:        r.DefaultKeyStatistics.PEGRatio.num(),
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker":   ticker,
		"industry": profile.Industry,
		"price":    profile.Price.String(),
	}).Debug("Fetched profile")

	return profile, nil
}
