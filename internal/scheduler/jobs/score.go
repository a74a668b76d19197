package jobs

import (
	"context"
	"fmt"
	"sync"

	"github.com/wonny/fscore/internal/pipeline"
	"github.com/wonny/fscore/internal/report"
	"github.com/wonny/fscore/pkg/logger"
)

// BatchRunner runs one batch over a ticker list
type BatchRunner interface {
	Run(ctx context.Context, cfg pipeline.RunConfig) (*pipeline.RunResult, error)
}

// ScoreJob re-runs the scoring batch on a schedule
type ScoreJob struct {
	runner     BatchRunner
	cfg        pipeline.RunConfig
	schedule   string
	outputFile string
	logger     *logger.Logger

	mu   sync.RWMutex
	last *pipeline.RunResult
}

// NewScoreJob creates a new batch job. outputFile may be empty.
func NewScoreJob(runner BatchRunner, cfg pipeline.RunConfig, schedule, outputFile string, log *logger.Logger) *ScoreJob {
	return &ScoreJob{
		runner:     runner,
		cfg:        cfg,
		schedule:   schedule,
		outputFile: outputFile,
		logger:     log,
	}
}

// Name returns the job name
func (j *ScoreJob) Name() string {
	return "fscore_batch"
}

// Schedule returns the cron schedule
func (j *ScoreJob) Schedule() string {
	return j.schedule
}

// Run executes one batch and rewrites the score list
func (j *ScoreJob) Run(ctx context.Context) error {
	cfg := j.cfg
	cfg.RunID = "" // fresh id per run

	result, err := j.runner.Run(ctx, cfg)
	if err != nil {
		return fmt.Errorf("batch run failed: %w", err)
	}

	j.mu.Lock()
	j.last = result
	j.mu.Unlock()

	if j.outputFile != "" {
		if err := report.WriteCSVFile(j.outputFile, result.Reports); err != nil {
			return fmt.Errorf("failed to write score list: %w", err)
		}
	}

	j.logger.WithFields(map[string]interface{}{
		"run_id":      result.RunID,
		"scored":      result.Summary.Scored,
		"undervalued": result.Summary.Undervalued,
		"output":      j.outputFile,
	}).Info("Scheduled batch completed")

	return nil
}

// LastResult returns the most recent successful batch, or nil
func (j *ScoreJob) LastResult() *pipeline.RunResult {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.last
}
