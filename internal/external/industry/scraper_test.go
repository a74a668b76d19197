package industry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/fscore/pkg/config"
	"github.com/wonny/fscore/pkg/httputil"
	"github.com/wonny/fscore/pkg/logger"
)

const industryPage = `<html><body>
<table class="nav"><tr><td>Home</td><td>About</td></tr></table>
<table>
  <thead><tr><th>Industry</th><th>Companies</th><th>Average P/E ratio</th></tr></thead>
  <tbody>
    <tr><td>Consumer Electronics</td><td>12</td><td>28.5</td></tr>
    <tr><td>Banks - Regional</td><td>310</td><td>1,012.0</td></tr>
    <tr><td>  Software   Infrastructure </td><td>90</td><td>35.2</td></tr>
    <tr><td>Shell Companies</td><td>40</td><td>NM</td></tr>
    <tr><td></td><td>1</td><td>10</td></tr>
  </tbody>
</table>
</body></html>`

func TestParse(t *testing.T) {
	table, err := Parse(industryPage)
	require.NoError(t, err)

	assert.Equal(t, 3, table.Len())
	assert.Equal(t, 28.5, table.AveragePE("Consumer Electronics").Or(0))
	assert.Equal(t, 1012.0, table.AveragePE("banks - regional").Or(0))
	assert.Equal(t, 35.2, table.AveragePE("software infrastructure").Or(0))
	assert.False(t, table.AveragePE("Shell Companies").Valid())
	assert.False(t, table.AveragePE("Biotechnology").Valid())
}

func TestParse_NoTable(t *testing.T) {
	_, err := Parse(`<html><body><table><tr><td>x</td></tr></table></body></html>`)
	assert.Error(t, err)
}

func TestTable_NilIsUnknown(t *testing.T) {
	var table *Table
	assert.False(t, table.AveragePE("Software").Valid())
}

func TestScraper_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(industryPage))
	}))
	defer server.Close()

	httpClient := httputil.New(&config.Config{}, logger.NewNop())
	table, err := NewScraper(httpClient, server.URL, logger.NewNop()).Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 28.5, table.AveragePE("CONSUMER ELECTRONICS").Or(0))
}

func TestScraper_FetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	httpClient := httputil.New(&config.Config{}, logger.NewNop())
	_, err := NewScraper(httpClient, server.URL, logger.NewNop()).Fetch(context.Background())
	assert.Error(t, err)
}
