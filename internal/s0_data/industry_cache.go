package s0_data

import (
	"context"

	"github.com/wonny/fscore/internal/external/industry"
	"github.com/wonny/fscore/pkg/logger"
	"github.com/wonny/fscore/pkg/redis"
)

// IndustryFetcher downloads the industry P/E table
type IndustryFetcher interface {
	Fetch(ctx context.Context) (*industry.Table, error)
}

// LoadIndustryTable returns the cached industry table or fetches it.
// A fetch failure yields an empty table so every lookup is unknown.
func LoadIndustryTable(ctx context.Context, fetcher IndustryFetcher, cache *redis.Cache, log *logger.Logger) *industry.Table {
	key := redis.IndustryPEKey()

	var cached industry.Table
	if found, err := cache.Get(ctx, key, &cached); err == nil && found && cached.Len() > 0 {
		return &cached
	}

	table, err := fetcher.Fetch(ctx)
	if err != nil {
		log.WithError(err).Warn("Industry P/E table unavailable; undervaluation verdicts will be unknown")
		return industry.NewTable(nil)
	}

	if err := cache.Set(ctx, key, table, redis.TTLDaily); err != nil {
		log.WithError(err).Warn("Industry table cache write failed")
	}
	return table
}
