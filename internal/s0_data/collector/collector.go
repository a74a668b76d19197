package collector

import (
	"context"
	"sync"

	"github.com/wonny/fscore/internal/contracts"
	"github.com/wonny/fscore/internal/s0_data"
	"github.com/wonny/fscore/pkg/logger"
)

// Store persists fetched statements and profiles
type Store interface {
	SaveStatements(ctx context.Context, raw *contracts.RawStatements) (int, error)
	SaveProfile(ctx context.Context, p *contracts.Profile) error
}

// Collector copies provider data into the statement store
// ⭐ SSOT: 재무제표 수집 오케스트레이션은 이 패키지에서만
type Collector struct {
	provider s0_data.Provider
	store    Store
	logger   *logger.Logger
}

// Config holds collector configuration
type Config struct {
	Workers int // Number of concurrent workers
}

// NewCollector creates a new Collector instance
func NewCollector(provider s0_data.Provider, store Store, log *logger.Logger) *Collector {
	return &Collector{
		provider: provider,
		store:    store,
		logger:   log.WithField("module", "collector"),
	}
}

// FetchResult represents the result of collecting one ticker
type FetchResult struct {
	Ticker     string
	CellCount  int
	HasProfile bool
	Error      error
}

type job struct {
	index  int
	ticker string
}

// Collect fetches and stores every ticker; results keep input order
func (c *Collector) Collect(ctx context.Context, tickers []string, cfg Config) []FetchResult {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker_count": len(tickers),
		"workers":      workers,
	}).Info("Starting statement collection")

	results := make([]FetchResult, len(tickers))
	jobs := make(chan job, len(tickers))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for j := range jobs {
				results[j.index] = c.collectOne(ctx, workerID, j.ticker)
			}
		}(i)
	}

	for i, ticker := range tickers {
		jobs <- job{index: i, ticker: ticker}
	}
	close(jobs)
	wg.Wait()

	successCount := 0
	for _, r := range results {
		if r.Error == nil {
			successCount++
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"success": successCount,
		"failed":  len(results) - successCount,
		"total":   len(results),
	}).Info("Statement collection completed")

	return results
}

func (c *Collector) collectOne(ctx context.Context, workerID int, ticker string) FetchResult {
	result := FetchResult{Ticker: ticker}
	log := c.logger.WithFields(map[string]interface{}{
		"worker": workerID,
		"ticker": ticker,
	})

	if err := ctx.Err(); err != nil {
		result.Error = err
		return result
	}

	raw, err := c.provider.GetStatements(ctx, ticker)
	if err != nil {
		log.WithError(err).Warn("Failed to fetch statements")
		result.Error = err
		return result
	}

	count, err := c.store.SaveStatements(ctx, raw)
	result.CellCount = count
	if err != nil {
		log.WithError(err).Error("Failed to save statements")
		result.Error = err
		return result
	}

	// Profile is optional for scoring
	profile, err := c.provider.GetProfile(ctx, ticker)
	if err != nil {
		log.WithError(err).Debug("Profile unavailable")
		return result
	}
	if err := c.store.SaveProfile(ctx, profile); err != nil {
		log.WithError(err).Error("Failed to save profile")
		result.Error = err
		return result
	}
	result.HasProfile = true

	log.WithField("cells", count).Debug("Collected ticker")
	return result
}
