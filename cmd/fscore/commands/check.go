package commands

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/fscore/internal/external/industry"
	"github.com/wonny/fscore/internal/external/yahoo"
	"github.com/wonny/fscore/pkg/config"
	"github.com/wonny/fscore/pkg/database"
	"github.com/wonny/fscore/pkg/httputil"
	"github.com/wonny/fscore/pkg/logger"
	"github.com/wonny/fscore/pkg/redis"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "외부 연결 점검",
	Long: `Checks every configured collaborator and reports what works.

이 명령어는:
- config 로드 및 검증
- Redis 연결 (REDIS_ENABLED=true 인 경우)
- PostgreSQL 연결 및 풀 통계 (DATABASE_URL 이 있는 경우)
- Yahoo Finance 재무제표 조회 (--ticker)
- 업종 평균 P/E 테이블 조회

Example:
  go run ./cmd/fscore check
  go run ./cmd/fscore check --ticker MSFT --env production`,
	RunE: runCheck,
}

var checkTicker string

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&checkTicker, "ticker", "AAPL", "ticker used for the provider probe")
}

func runCheck(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	PrintTitle(out, "Connectivity Check")

	fmt.Fprintln(out, "Loading configuration...")
	cfg, log, err := loadEnv()
	if err != nil {
		return err
	}
	PrintSuccess(out, fmt.Sprintf("Config loaded (ENV: %s, source: %s)", cfg.Env, cfg.StatementSource))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	failures := 0
	failures += checkRedis(ctx, out, cfg)
	failures += checkDatabase(ctx, out, cfg)

	httpClient := httputil.New(cfg, log).WithRateLimit(cfg.Yahoo.RateLimit)
	failures += checkYahoo(ctx, out, cfg, httpClient, log)
	failures += checkIndustry(ctx, out, cfg, httpClient, log)

	fmt.Fprintln(out)
	if failures > 0 {
		return fmt.Errorf("%d check(s) failed", failures)
	}
	PrintSuccess(out, "All checks passed!")
	return nil
}

func checkRedis(ctx context.Context, out io.Writer, cfg *config.Config) int {
	fmt.Fprintln(out, "\nRedis...")
	if !cfg.Redis.Enabled {
		PrintInfo(out, "Redis disabled (REDIS_ENABLED=false)")
		return 0
	}

	client, err := redis.New(cfg)
	if err != nil {
		PrintError(out, err.Error())
		return 1
	}
	defer client.Close()

	if err := client.Ping(ctx); err != nil {
		PrintError(out, fmt.Sprintf("Ping failed: %v", err))
		return 1
	}
	PrintSuccess(out, fmt.Sprintf("Redis reachable at %s", cfg.RedisAddr()))
	return 0
}

func checkDatabase(ctx context.Context, out io.Writer, cfg *config.Config) int {
	fmt.Fprintln(out, "\nPostgreSQL...")
	if cfg.Database.URL == "" {
		PrintInfo(out, "DATABASE_URL not set")
		return 0
	}
	PrintKeyValue(out, "URL", maskPassword(cfg.Database.URL), 14)

	db, err := database.New(cfg)
	if err != nil {
		PrintError(out, err.Error())
		return 1
	}
	defer db.Close()

	status, err := db.HealthCheck(ctx)
	if err != nil {
		PrintError(out, fmt.Sprintf("Health check failed: %v", err))
		return 1
	}

	PrintSuccess(out, "Database healthy")
	PrintKeyValue(out, "Response time", status.ResponseTime.String(), 14)
	PrintKeyValue(out, "Connections", fmt.Sprintf("%d total / %d idle / %d max", status.TotalConns, status.IdleConns, status.MaxConns), 14)
	return 0
}

func checkYahoo(ctx context.Context, out io.Writer, cfg *config.Config, httpClient *httputil.Client, log *logger.Logger) int {
	fmt.Fprintf(out, "\nYahoo Finance (%s)...\n", checkTicker)
	client := yahoo.NewClient(httpClient, cfg.Yahoo.BaseURL, log)

	raw, err := client.GetStatements(ctx, checkTicker)
	if err != nil {
		PrintError(out, err.Error())
		return 1
	}
	PrintSuccess(out, fmt.Sprintf("Statements: income %d, balance %d, cash flow %d columns",
		raw.IncomeStatement.Len(), raw.BalanceSheet.Len(), raw.CashFlow.Len()))

	profile, err := client.GetProfile(ctx, checkTicker)
	if err != nil {
		PrintWarning(out, fmt.Sprintf("Profile unavailable: %v", err))
		return 0
	}
	PrintSuccess(out, fmt.Sprintf("Profile: %s, P/B %s, P/E %s",
		profile.Industry, profile.PriceToBook().Format(2), profile.TrailingPE.Format(2)))
	return 0
}

func checkIndustry(ctx context.Context, out io.Writer, cfg *config.Config, httpClient *httputil.Client, log *logger.Logger) int {
	fmt.Fprintln(out, "\nIndustry P/E table...")
	table, err := industry.NewScraper(httpClient, cfg.Industry.URL, log).Fetch(ctx)
	if err != nil {
		PrintError(out, err.Error())
		return 1
	}
	PrintSuccess(out, fmt.Sprintf("%d industries", table.Len()))
	return 0
}

// maskPassword hides the password of a connection URL for display
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.Redacted()
}
