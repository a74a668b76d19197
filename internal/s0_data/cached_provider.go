package s0_data

import (
	"context"
	"time"

	"github.com/wonny/fscore/internal/contracts"
	"github.com/wonny/fscore/pkg/logger"
	"github.com/wonny/fscore/pkg/redis"
)

// Provider is the combined statement and profile source
type Provider interface {
	contracts.StatementProvider
	contracts.ProfileProvider
}

// CachedProvider caches provider responses in redis.
// Failures are never cached.
type CachedProvider struct {
	next   Provider
	cache  *redis.Cache
	ttl    time.Duration
	logger *logger.Logger
}

// NewCachedProvider wraps next with a redis cache
func NewCachedProvider(next Provider, cache *redis.Cache, ttl time.Duration, log *logger.Logger) *CachedProvider {
	if ttl <= 0 {
		ttl = redis.TTLLong
	}
	return &CachedProvider{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: log,
	}
}

// GetStatements returns cached statements or fetches them
func (p *CachedProvider) GetStatements(ctx context.Context, ticker string) (*contracts.RawStatements, error) {
	key := redis.StatementsKey(ticker)

	var cached contracts.RawStatements
	if found, err := p.cache.Get(ctx, key, &cached); err != nil {
		p.logger.WithError(err).WithField("key", key).Warn("Statement cache read failed")
	} else if found {
		p.logger.WithField("ticker", ticker).Debug("Statement cache hit")
		return &cached, nil
	}

	raw, err := p.next.GetStatements(ctx, ticker)
	if err != nil {
		return nil, err
	}

	if err := p.cache.Set(ctx, key, raw, p.ttl); err != nil {
		p.logger.WithError(err).WithField("key", key).Warn("Statement cache write failed")
	}
	return raw, nil
}

// GetProfile returns a cached profile or fetches it
func (p *CachedProvider) GetProfile(ctx context.Context, ticker string) (*contracts.Profile, error) {
	key := redis.ProfileKey(ticker)

	var cached contracts.Profile
	if found, err := p.cache.Get(ctx, key, &cached); err != nil {
		p.logger.WithError(err).WithField("key", key).Warn("Profile cache read failed")
	} else if found {
		p.logger.WithField("ticker", ticker).Debug("Profile cache hit")
		return &cached, nil
	}

	profile, err := p.next.GetProfile(ctx, ticker)
	if err != nil {
		return nil, err
	}

	// Quotes move faster than statements
	if err := p.cache.Set(ctx, key, profile, redis.TTLShort); err != nil {
		p.logger.WithError(err).WithField("key", key).Warn("Profile cache write failed")
	}
	return profile, nil
}
