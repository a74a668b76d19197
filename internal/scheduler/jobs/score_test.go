package jobs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/fscore/internal/contracts"
	"github.com/wonny/fscore/internal/pipeline"
	"github.com/wonny/fscore/pkg/logger"
)

type fakeRunner struct {
	calls []pipeline.RunConfig
	err   error
}

func (f *fakeRunner) Run(_ context.Context, cfg pipeline.RunConfig) (*pipeline.RunResult, error) {
	f.calls = append(f.calls, cfg)
	if f.err != nil {
		return nil, f.err
	}
	reports := []contracts.TickerReport{
		{Ticker: "AAPL", Status: contracts.StatusScored, AnchorYear: "2024", YearCount: 2,
			Indicators: &contracts.IndicatorSet{}, Score: &contracts.ScoreResult{Positive: 0, Valid: 9}},
	}
	return &pipeline.RunResult{RunID: "generated", Reports: reports, Summary: contracts.Summarize(reports)}, nil
}

func TestScoreJob_Run(t *testing.T) {
	runner := &fakeRunner{}
	out := filepath.Join(t.TempDir(), "scores.csv")
	cfg := pipeline.RunConfig{RunID: "fixed", Tickers: []string{"AAPL"}, CheckPiotroski: true}

	job := NewScoreJob(runner, cfg, "0 18 * * 1-5", out, logger.NewNop())
	assert.Equal(t, "fscore_batch", job.Name())
	assert.Equal(t, "0 18 * * 1-5", job.Schedule())
	assert.Nil(t, job.LastResult())

	require.NoError(t, job.Run(context.Background()))

	require.Len(t, runner.calls, 1)
	assert.Equal(t, "", runner.calls[0].RunID)
	assert.Equal(t, []string{"AAPL"}, runner.calls[0].Tickers)

	require.NotNil(t, job.LastResult())
	assert.Equal(t, "generated", job.LastResult().RunID)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "AAPL,scored,2024,2,0/9"))
}

func TestScoreJob_RunError(t *testing.T) {
	runner := &fakeRunner{err: errors.New("boom")}
	job := NewScoreJob(runner, pipeline.RunConfig{CheckPiotroski: true}, "@daily", "", logger.NewNop())

	err := job.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Nil(t, job.LastResult())
}
