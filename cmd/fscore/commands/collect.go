package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/fscore/internal/external/yahoo"
	"github.com/wonny/fscore/internal/s0_data"
	"github.com/wonny/fscore/internal/s0_data/collector"
	"github.com/wonny/fscore/internal/universe"
	"github.com/wonny/fscore/pkg/database"
	"github.com/wonny/fscore/pkg/httputil"
)

// collectCmd represents the collect command
var collectCmd = &cobra.Command{
	Use:   "collect [TICKER...]",
	Short: "재무제표 수집 (Yahoo → PostgreSQL)",
	Long: `Copies annual statements and profiles from Yahoo Finance into
PostgreSQL so that later runs can use STATEMENT_SOURCE=postgres.

The tables are created when missing. Tickers are fetched by a small
worker pool; the Yahoo rate limit still applies across workers.

Example:
  go run ./cmd/fscore collect AAPL MSFT
  go run ./cmd/fscore collect --file tickers.txt --workers 4`,
	RunE: runCollect,
}

var (
	collectFile    string
	collectWorkers int
)

func init() {
	rootCmd.AddCommand(collectCmd)

	collectCmd.Flags().StringVarP(&collectFile, "file", "f", "", "ticker list file")
	collectCmd.Flags().IntVar(&collectWorkers, "workers", 2, "concurrent workers")
}

func runCollect(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	PrintTitle(out, "Statement Collector")

	tickers, err := universe.Resolve(args, collectFile)
	if err != nil {
		return err
	}

	cfg, log, err := loadEnv()
	if err != nil {
		return err
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		return err
	}

	httpClient := httputil.New(cfg, log).WithRateLimit(cfg.Yahoo.RateLimit)
	source := yahoo.NewClient(httpClient, cfg.Yahoo.BaseURL, log)
	col := collector.NewCollector(source, s0_data.NewStatementRepository(db.Pool), log)

	results := col.Collect(ctx, tickers, collector.Config{Workers: collectWorkers})

	failed := 0
	for _, r := range results {
		if r.Error != nil {
			failed++
			PrintError(out, fmt.Sprintf("%s: %v", r.Ticker, r.Error))
			continue
		}
		profile := "no profile"
		if r.HasProfile {
			profile = "profile"
		}
		PrintSuccess(out, fmt.Sprintf("%s: %d cells, %s", r.Ticker, r.CellCount, profile))
	}

	fmt.Fprintln(out)
	PrintKeyValue(out, "Collected", fmt.Sprintf("%d / %d", len(results)-failed, len(results)), 9)
	if failed == len(results) {
		return fmt.Errorf("no ticker collected")
	}
	return nil
}
