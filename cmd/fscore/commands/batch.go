package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/wonny/fscore/internal/pipeline"
	"github.com/wonny/fscore/internal/report"
	"github.com/wonny/fscore/internal/runconfig"
	"github.com/wonny/fscore/internal/universe"
)

// batchOptions are the per-command overrides of a run file
type batchOptions struct {
	title      string
	args       []string
	tickerFile string
	outputFile string
	hash       string
}

// executeBatch resolves tickers, runs the pipeline and prints the report.
// Ctrl+C stops after the current ticker and still prints what was done.
func executeBatch(out io.Writer, run *runconfig.Config, opts batchOptions) error {
	explicit := opts.args
	if len(explicit) == 0 {
		explicit = run.Tickers
	}
	file := opts.tickerFile
	if file == "" && len(opts.args) == 0 {
		file = run.TickerFile
	}

	tickers, err := universe.Resolve(explicit, file)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, run)
	if err != nil {
		return err
	}
	defer a.Close()

	result, runErr := a.runner.Run(ctx, pipelineConfig(run, tickers))
	if result == nil {
		return runErr
	}

	p := report.NewPrinter(out)
	p.Header(report.Header{
		Title:      opts.title,
		RunID:      result.RunID,
		ConfigHash: opts.hash,
		Tickers:    len(tickers),
		Checks:     checks(run),
		StartedAt:  result.StartedAt,
	})
	for _, r := range result.Reports {
		p.Ticker(r)
	}
	if run.CheckPiotroski {
		p.ScoreTable(result.Reports)
	}
	if run.CheckUndervalued {
		p.ValuationTable(result.Reports)
	}
	p.Summary(result.Summary, result.Duration)
	if err := p.Err(); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	outputFile := opts.outputFile
	if outputFile == "" {
		outputFile = run.OutputFile
	}
	if outputFile != "" {
		if err := report.WriteCSVFile(outputFile, result.Reports); err != nil {
			return err
		}
		PrintSuccess(out, fmt.Sprintf("Score list written to %s", outputFile))
	}

	if runErr != nil && errors.Is(runErr, context.Canceled) {
		PrintWarning(out, fmt.Sprintf("Interrupted after %d of %d tickers", len(result.Reports), len(tickers)))
	}
	return runErr
}

func checks(run *runconfig.Config) []string {
	var names []string
	if run.CheckPiotroski {
		names = append(names, "piotroski")
	}
	if run.CheckUndervalued {
		names = append(names, "undervalued")
	}
	if run.ScreenMinScore > 0 {
		names = append(names, fmt.Sprintf("min score %.2f", run.ScreenMinScore))
	}
	return names
}

// summaryLine is the one-line outcome used by logs of background runs
func summaryLine(result *pipeline.RunResult) string {
	s := result.Summary
	return fmt.Sprintf("%d scored, %d rejected, %d no data, %d undervalued", s.Scored, s.Rejected, s.NoData, s.Undervalued)
}
