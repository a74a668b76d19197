package commands

import (
	"context"
	"fmt"

	"github.com/wonny/fscore/internal/contracts"
	"github.com/wonny/fscore/internal/external/industry"
	"github.com/wonny/fscore/internal/external/yahoo"
	"github.com/wonny/fscore/internal/pipeline"
	"github.com/wonny/fscore/internal/runconfig"
	"github.com/wonny/fscore/internal/s0_data"
	"github.com/wonny/fscore/internal/s1_normalize"
	"github.com/wonny/fscore/internal/s2_metrics"
	"github.com/wonny/fscore/internal/s3_score"
	"github.com/wonny/fscore/internal/selection"
	"github.com/wonny/fscore/pkg/config"
	"github.com/wonny/fscore/pkg/database"
	"github.com/wonny/fscore/pkg/httputil"
	"github.com/wonny/fscore/pkg/logger"
	"github.com/wonny/fscore/pkg/redis"
)

// app holds the wired collaborators of one command invocation
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	http     *httputil.Client
	cache    *redis.Cache
	db       *database.DB // nil unless postgres is the source
	provider s0_data.Provider
	runner   *pipeline.Runner

	closers []func()
}

// loadEnv loads .env config and the logger
func loadEnv() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, logger.New(cfg), nil
}

// loadRunConfig reads --config, or the defaults when no run file is given
func loadRunConfig() (*runconfig.Config, string, error) {
	if configFile == "" {
		run := runconfig.Default()
		hash, err := runconfig.Hash(run)
		return run, hash, err
	}

	run, _, err := runconfig.Load(configFile)
	if err != nil {
		return nil, "", err
	}
	hash, err := runconfig.Hash(run)
	if err != nil {
		return nil, "", err
	}
	return run, hash, nil
}

// newApp wires providers and the pipeline.
// The industry table is only loaded when the screen is enabled.
func newApp(ctx context.Context, run *runconfig.Config) (*app, error) {
	cfg, log, err := loadEnv()
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log}

	a.http = httputil.New(cfg, log).WithRateLimit(cfg.Yahoo.RateLimit)

	redisClient, err := redis.New(cfg)
	if err != nil {
		// cache is optional: fall back to a disabled client
		log.WithError(err).Warn("Redis unavailable; running without cache")
		disabled := *cfg
		disabled.Redis.Enabled = false
		redisClient, _ = redis.New(&disabled)
	}
	a.closers = append(a.closers, func() { _ = redisClient.Close() })
	a.cache = redis.NewCache(redisClient, logger.AppName)

	source, err := a.newSource()
	if err != nil {
		a.Close()
		return nil, err
	}
	a.provider = s0_data.NewCachedProvider(source, a.cache, cfg.Redis.TTL, log)

	configured := cfg.AnchorYears
	if len(run.AnchorYears) > 0 {
		configured = run.AnchorYears
	}

	var averages contracts.IndustryAverages = industry.NewTable(nil)
	if run.CheckUndervalued {
		scraper := industry.NewScraper(a.http, cfg.Industry.URL, log)
		averages = s0_data.LoadIndustryTable(ctx, scraper, a.cache, log)
	}

	a.runner = pipeline.NewRunner(
		a.provider,
		a.provider,
		s1_normalize.NewNormalizer(configured, log),
		s2_metrics.NewExtractor(log),
		s3_score.NewEngine(log),
		selection.NewScreener(selection.ScreenerConfig{MinScore: run.ScreenMinScore}, averages, log),
		log,
	)

	return a, nil
}

// newSource picks the statement source named by STATEMENT_SOURCE
func (a *app) newSource() (s0_data.Provider, error) {
	switch a.cfg.StatementSource {
	case config.SourcePostgres:
		db, err := database.New(a.cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		a.db = db
		a.closers = append(a.closers, db.Close)
		return s0_data.NewStatementRepository(db.Pool), nil
	default:
		return yahoo.NewClient(a.http, a.cfg.Yahoo.BaseURL, a.log), nil
	}
}

// Close releases connections in reverse order
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// pipelineConfig converts run file flags into a runner config
func pipelineConfig(run *runconfig.Config, tickers []string) pipeline.RunConfig {
	return pipeline.RunConfig{
		Tickers:          tickers,
		CheckPiotroski:   run.CheckPiotroski,
		CheckUndervalued: run.CheckUndervalued,
	}
}
