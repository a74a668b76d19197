package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/wonny/fscore/internal/contracts"
	"github.com/wonny/fscore/pkg/httputil"
	"github.com/wonny/fscore/pkg/logger"
)

// Client handles communication with the Yahoo Finance JSON endpoints
// ⭐ SSOT: Yahoo Finance API 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	now        func() time.Time
}

// NewClient creates a new Yahoo Finance client
func NewClient(httpClient *httputil.Client, baseURL string, log *logger.Logger) *Client {
	if baseURL == "" {
		baseURL = "https://query2.finance.yahoo.com"
	}
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    strings.TrimRight(baseURL, "/"),
		now:        time.Now,
	}
}

// WithClock overrides the clock used for the timeseries window
func (c *Client) WithClock(now func() time.Time) *Client {
	c.now = now
	return c
}

func (c *Client) endpoint(path string, params url.Values) string {
	fullURL := fmt.Sprintf("%s%s", c.baseURL, path)
	if len(params) > 0 {
		fullURL = fmt.Sprintf("%s?%s", fullURL, params.Encode())
	}
	return fullURL
}

// fetchJSON fetches and decodes a JSON document; every failure is no-data
func (c *Client) fetchJSON(ctx context.Context, ticker, path string, params url.Values, out interface{}) error {
	if err := c.httpClient.GetJSON(ctx, c.endpoint(path, params), out); err != nil {
		return noData(ticker, err)
	}
	return nil
}

// fetchBody fetches a raw document; every failure is no-data
func (c *Client) fetchBody(ctx context.Context, ticker, path string, params url.Values) ([]byte, error) {
	body, err := c.httpClient.GetBody(ctx, c.endpoint(path, params))
	if err != nil {
		return nil, noData(ticker, err)
	}
	return body, nil
}

func noData(ticker string, err error) error {
	if err == nil {
		return fmt.Errorf("%s: %w", ticker, contracts.ErrNoData)
	}
	return fmt.Errorf("%s: %w: %v", ticker, contracts.ErrNoData, err)
}

// apiError is the error object embedded in Yahoo responses
type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (e *apiError) asError() error {
	if e == nil {
		return nil
	}
	return errors.New(strings.TrimSpace(e.Code + " " + e.Description))
}

// rawValue is Yahoo's {"raw": 1.23, "fmt": "1.23"} number wrapper
type rawValue struct {
	Raw *float64 `json:"raw"`
}

func (v *rawValue) num() contracts.Num {
	if v == nil {
		return contracts.Unknown
	}
	return contracts.NumPtr(v.Raw)
}
