package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/fscore/internal/api/handlers"
	"github.com/wonny/fscore/internal/contracts"
	"github.com/wonny/fscore/internal/pipeline"
	"github.com/wonny/fscore/internal/scheduler"
	"github.com/wonny/fscore/pkg/logger"
)

type fakePipeline struct {
	lastCfg pipeline.RunConfig
	panic   bool
}

func (f *fakePipeline) Process(_ context.Context, ticker string, cfg pipeline.RunConfig) contracts.TickerReport {
	if f.panic {
		panic("boom")
	}
	f.lastCfg = cfg
	switch ticker {
	case "GONE":
		return contracts.TickerReport{Ticker: ticker, Status: contracts.StatusNoData, Reason: "GONE: no data"}
	case "ODD":
		return contracts.TickerReport{Ticker: ticker, Status: contracts.StatusRejected, Reason: contracts.RejectAnchorMismatch}
	}
	score := contracts.ScoreResult{Positive: 7, Valid: 9}
	return contracts.TickerReport{Ticker: ticker, Status: contracts.StatusScored, AnchorYear: "2024", YearCount: 4, Score: &score}
}

func (f *fakePipeline) Run(ctx context.Context, cfg pipeline.RunConfig) (*pipeline.RunResult, error) {
	f.lastCfg = cfg
	reports := make([]contracts.TickerReport, 0, len(cfg.Tickers))
	for _, t := range cfg.Tickers {
		reports = append(reports, f.Process(ctx, t, cfg))
	}
	return &pipeline.RunResult{RunID: "run-1", StartedAt: time.Now(), Reports: reports, Summary: contracts.Summarize(reports)}, nil
}

type fakeJobs struct{}

func (fakeJobs) GetJobStats() map[string]scheduler.JobStats {
	return map[string]scheduler.JobStats{"fscore_batch": {JobName: "fscore_batch", Schedule: "@daily", TotalRuns: 2}}
}

func (fakeJobs) RunJob(name string) (scheduler.JobResult, error) {
	if name != "fscore_batch" {
		return scheduler.JobResult{}, errors.New("job " + name + " not found")
	}
	return scheduler.JobResult{JobName: name, Success: true}, nil
}

func newTestRouter(p *fakePipeline, withJobs bool) http.Handler {
	log := logger.NewNop()
	var jobs *handlers.JobsHandler
	if withJobs {
		jobs = handlers.NewJobsHandler(fakeJobs{}, log)
	}
	return NewRouter(handlers.NewScoreHandler(p, log), jobs, log)
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))
	return rec
}

func TestHealth(t *testing.T) {
	rec := serve(newTestRouter(&fakePipeline{}, false), "GET", "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"service":"fscore"`)
}

func TestMetricsEndpoint(t *testing.T) {
	rec := serve(newTestRouter(&fakePipeline{}, false), "GET", "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fscore_")
}

func TestGetScore(t *testing.T) {
	p := &fakePipeline{}
	rec := serve(newTestRouter(p, false), "GET", "/api/score/aapl", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var report map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "AAPL", report["ticker"])
	assert.Equal(t, "scored", report["status"])
	assert.True(t, p.lastCfg.CheckPiotroski)
	assert.False(t, p.lastCfg.CheckUndervalued)
}

func TestGetScore_StatusCodes(t *testing.T) {
	router := newTestRouter(&fakePipeline{}, false)

	assert.Equal(t, http.StatusNotFound, serve(router, "GET", "/api/score/GONE", "").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, serve(router, "GET", "/api/score/ODD", "").Code)
}

func TestGetScreen(t *testing.T) {
	p := &fakePipeline{}
	router := newTestRouter(p, false)

	serve(router, "GET", "/api/screen/AAPL", "")
	assert.False(t, p.lastCfg.CheckPiotroski)
	assert.True(t, p.lastCfg.CheckUndervalued)

	serve(router, "GET", "/api/screen/AAPL?score=true", "")
	assert.True(t, p.lastCfg.CheckPiotroski)
}

func TestRunBatch(t *testing.T) {
	p := &fakePipeline{}
	rec := serve(newTestRouter(p, false), "POST", "/api/batch",
		`{"tickers":["aapl"," msft","AAPL"],"check_piotroski":true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp handlers.BatchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "run-1", resp.RunID)
	assert.Equal(t, 2, resp.Summary.Total)
	assert.Equal(t, []string{"AAPL", "MSFT"}, p.lastCfg.Tickers)
}

func TestRunBatch_BadRequests(t *testing.T) {
	router := newTestRouter(&fakePipeline{}, false)

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{`},
		{"no tickers", `{"tickers":[],"check_piotroski":true}`},
		{"no checks", `{"tickers":["AAPL"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, serve(router, "POST", "/api/batch", tt.body).Code)
		})
	}
}

func TestJobs(t *testing.T) {
	router := newTestRouter(&fakePipeline{}, true)

	rec := serve(router, "GET", "/api/jobs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fscore_batch")

	assert.Equal(t, http.StatusOK, serve(router, "POST", "/api/jobs/fscore_batch/run", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(router, "POST", "/api/jobs/other/run", "").Code)
}

func TestJobs_NotMountedWithoutScheduler(t *testing.T) {
	rec := serve(newTestRouter(&fakePipeline{}, false), "GET", "/api/jobs", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecoveryMiddleware(t *testing.T) {
	rec := serve(newTestRouter(&fakePipeline{panic: true}, false), "GET", "/api/score/AAPL", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
}
