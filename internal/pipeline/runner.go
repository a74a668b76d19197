package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/fscore/internal/contracts"
	"github.com/wonny/fscore/internal/metrics"
	"github.com/wonny/fscore/internal/selection"
	"github.com/wonny/fscore/pkg/logger"
)

// Runner drives tickers through fetch → normalize → extract → score → screen
// ⭐ SSOT: 파이프라인 조율은 여기서만
type Runner struct {
	statements contracts.StatementProvider
	profiles   contracts.ProfileProvider
	normalizer contracts.Normalizer
	extractor  contracts.Extractor
	scorer     contracts.Scorer
	screener   *selection.Screener
	logger     *logger.Logger
}

// RunConfig holds configuration for a pipeline run
type RunConfig struct {
	RunID            string // generated when empty
	Tickers          []string
	CheckPiotroski   bool
	CheckUndervalued bool
}

// RunResult holds the results of a complete run, in ticker order
type RunResult struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration
	Reports   []contracts.TickerReport
	Summary   contracts.RunSummary
}

// NewRunner creates a new pipeline runner
func NewRunner(
	statements contracts.StatementProvider,
	profiles contracts.ProfileProvider,
	normalizer contracts.Normalizer,
	extractor contracts.Extractor,
	scorer contracts.Scorer,
	screener *selection.Screener,
	log *logger.Logger,
) *Runner {
	return &Runner{
		statements: statements,
		profiles:   profiles,
		normalizer: normalizer,
		extractor:  extractor,
		scorer:     scorer,
		screener:   screener,
		logger:     log,
	}
}

// Run processes every ticker sequentially. Per-ticker failures become
// report statuses; only context cancellation stops the batch early, in
// which case the partial result is returned with the context error.
func (r *Runner) Run(ctx context.Context, cfg RunConfig) (*RunResult, error) {
	if !cfg.CheckPiotroski && !cfg.CheckUndervalued {
		return nil, fmt.Errorf("nothing to do: both piotroski and undervalued checks are disabled")
	}
	if cfg.RunID == "" {
		cfg.RunID = uuid.NewString()
	}

	result := &RunResult{
		RunID:     cfg.RunID,
		StartedAt: time.Now(),
		Reports:   make([]contracts.TickerReport, 0, len(cfg.Tickers)),
	}

	r.logger.WithFields(map[string]interface{}{
		"run_id":            cfg.RunID,
		"tickers":           len(cfg.Tickers),
		"check_piotroski":   cfg.CheckPiotroski,
		"check_undervalued": cfg.CheckUndervalued,
	}).Info("Starting run")

	var runErr error
	for _, ticker := range cfg.Tickers {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		report, err := r.process(ctx, ticker, cfg)
		if err != nil {
			runErr = err
			break
		}
		result.Reports = append(result.Reports, report)
	}

	result.Duration = time.Since(result.StartedAt)
	metrics.ObserveRun(result.Duration)
	result.Summary = contracts.Summarize(result.Reports)

	r.logger.WithFields(map[string]interface{}{
		"run_id":      cfg.RunID,
		"total":       result.Summary.Total,
		"scored":      result.Summary.Scored,
		"rejected":    result.Summary.Rejected,
		"no_data":     result.Summary.NoData,
		"undervalued": result.Summary.Undervalued,
		"duration":    result.Duration.String(),
	}).Info("Run completed")

	return result, runErr
}

// Process runs one ticker. It never returns an error: failures are
// recorded as the report status.
func (r *Runner) Process(ctx context.Context, ticker string, cfg RunConfig) contracts.TickerReport {
	report, _ := r.process(ctx, ticker, cfg)
	return report
}

// process returns the context error when a fetch was cut short by
// cancellation; that ticker is neither reported nor counted.
func (r *Runner) process(ctx context.Context, ticker string, cfg RunConfig) (contracts.TickerReport, error) {
	report := contracts.TickerReport{Ticker: ticker, Status: contracts.StatusScreened}
	log := r.logger.WithTicker(ticker)

	if cfg.CheckPiotroski {
		if err := r.score(ctx, &report, log); err != nil {
			return report, err
		}
	}

	if cfg.CheckUndervalued {
		if err := r.screen(ctx, &report, cfg, log); err != nil {
			return report, err
		}
	}

	metrics.ObserveTicker(report)
	return report, nil
}

func (r *Runner) score(ctx context.Context, report *contracts.TickerReport, log *logger.Logger) error {
	raw, err := r.statements.GetStatements(ctx, report.Ticker)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		r.skip(report, contracts.StatusNoData, err, log)
		return nil
	}

	fundamentals, err := r.normalizer.Normalize(raw)
	if err != nil {
		var rej *contracts.ShapeRejection
		if errors.As(err, &rej) {
			report.Reason = rej.Reason
		}
		r.skip(report, contracts.StatusRejected, err, log)
		return nil
	}

	inputs := r.extractor.Extract(fundamentals)
	indicators, score := r.scorer.Score(inputs)

	report.Status = contracts.StatusScored
	report.AnchorYear = fundamentals.AnchorYear()
	report.YearCount = fundamentals.YearCount()
	report.Inputs = &inputs
	report.Indicators = &indicators
	report.Score = &score

	log.WithFields(map[string]interface{}{
		"anchor_year": report.AnchorYear,
		"year_count":  report.YearCount,
		"score":       score.Ratio(),
	}).Debug("Scored ticker")

	if score.Insufficient() {
		log.Warn("No indicator computable; score is 0/0")
	}
	return nil
}

func (r *Runner) screen(ctx context.Context, report *contracts.TickerReport, cfg RunConfig, log *logger.Logger) error {
	if cfg.CheckPiotroski {
		score := report.Score
		if score == nil {
			score = &contracts.ScoreResult{}
		}
		if !r.screener.Eligible(score) {
			log.WithField("score", score.Ratio()).Debug("Below screen score gate")
			return nil
		}
	}

	profile, err := r.profiles.GetProfile(ctx, report.Ticker)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if !cfg.CheckPiotroski {
			r.skip(report, contracts.StatusNoData, err, log)
			return nil
		}
		log.WithError(err).Warn("Profile unavailable; no valuation verdict")
		return nil
	}

	report.Valuation = r.screener.Evaluate(profile)
	return nil
}

func (r *Runner) skip(report *contracts.TickerReport, status contracts.TickerStatus, err error, log *logger.Logger) {
	report.Status = status
	if report.Reason == "" {
		report.Reason = err.Error()
	}
	log.WithError(err).WithField("status", string(status)).Warn("Skipped ticker")
}
