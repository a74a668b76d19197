package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/fscore/internal/api"
	"github.com/wonny/fscore/internal/api/handlers"
	"github.com/wonny/fscore/internal/universe"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "API 서버 시작",
	Long: `Starts the HTTP API for on-demand scoring.

Endpoints:
  GET  /health                 - Health check
  GET  /metrics                - Prometheus metrics
  GET  /api/score/{ticker}     - Piotroski score of one ticker
  GET  /api/screen/{ticker}    - Undervaluation screen (?score=true to gate)
  POST /api/batch              - Synchronous batch over a ticker list
  GET  /api/jobs               - Scheduled job statistics (with --cron)
  POST /api/jobs/{name}/run    - Trigger a scheduled job (with --cron)

With --cron (or a run file "schedule") the batch of the run file is also
re-run on that schedule.

Example:
  go run ./cmd/fscore serve
  go run ./cmd/fscore serve --port 8080 --config run.yaml --cron "0 18 * * 1-5"`,
	RunE: runServe,
}

var (
	servePort string
	serveCron string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&servePort, "port", "", "API 서버 포트 (default PORT)")
	serveCmd.Flags().StringVar(&serveCron, "cron", "", "cron expression for the background batch")
}

func runServe(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	PrintTitle(out, "API Server")

	run, _, err := loadRunConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// the screen endpoint always needs the industry table
	wiring := *run
	wiring.CheckUndervalued = true

	a, err := newApp(ctx, &wiring)
	if err != nil {
		return err
	}
	defer a.Close()

	if servePort != "" {
		a.cfg.Port = servePort
	}

	var jobsHandler *handlers.JobsHandler
	spec := serveCron
	if spec == "" {
		spec = run.Schedule
	}
	if spec != "" {
		tickers, err := universe.Resolve(run.Tickers, run.TickerFile)
		if err != nil {
			return fmt.Errorf("scheduled batch: %w", err)
		}
		sched, _, err := newBatchScheduler(a, run, tickers, spec, run.OutputFile)
		if err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
		jobsHandler = handlers.NewJobsHandler(sched, a.log)
	}

	router := api.NewRouter(handlers.NewScoreHandler(a.runner, a.log), jobsHandler, a.log)
	server := api.New(a.cfg, a.log, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	PrintSuccess(out, fmt.Sprintf("Server running on http://localhost:%s", a.cfg.Port))
	if spec != "" {
		PrintInfo(out, fmt.Sprintf("Background batch scheduled: %s", spec))
	}
	fmt.Fprintln(out, "\nPress Ctrl+C to stop")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	a.log.Info("Server stopped")
	return nil
}
