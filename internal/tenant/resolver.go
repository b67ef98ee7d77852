package tenant

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dealerhub/seo-engine/internal/logger"
	"github.com/dealerhub/seo-engine/internal/models"
)

const cacheKeyPrefix = "seo:tenant"

// CacheMetrics records tenant cache lookup outcomes.
type CacheMetrics interface {
	RecordCacheLookup(result string)
}

// Resolver runs the strategy chain and caches hits in Redis. Strategy order
// is precedence order; the first hit wins.
type Resolver struct {
	strategies []Strategy
	cache      *goredis.Client
	ttl        time.Duration
	logger     logger.Logger
	metrics    CacheMetrics
}

// NewResolver creates a resolver over the given strategies. A nil cache
// disables caching.
func NewResolver(strategies []Strategy, cache *goredis.Client, ttl time.Duration, log logger.Logger) *Resolver {
	return &Resolver{
		strategies: strategies,
		cache:      cache,
		ttl:        ttl,
		logger:     log,
	}
}

// SetMetrics enables cache lookup metrics. A nil receiver argument disables
// them again.
func (r *Resolver) SetMetrics(m CacheMetrics) {
	r.metrics = m
}

func cacheKey(strategy, candidate string) string {
	return fmt.Sprintf("%s:%s:%s", cacheKeyPrefix, strategy, candidate)
}

// Resolve returns the tenant the request belongs to, or
// models.ErrTenantNotResolved when no strategy produces a hit. Cache errors
// degrade to a direct lookup, never to a failed resolution.
func (r *Resolver) Resolve(ctx context.Context, req *http.Request) (uuid.UUID, error) {
	for _, strategy := range r.strategies {
		candidate := strategy.Candidate(req)
		if candidate == "" {
			continue
		}

		if id, ok := r.cached(ctx, strategy.Name(), candidate); ok {
			return id, nil
		}

		id, err := strategy.Lookup(ctx, candidate)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrTenantNotResolved) {
				continue
			}
			return uuid.Nil, fmt.Errorf("tenant lookup via %s: %w", strategy.Name(), err)
		}

		r.store(ctx, strategy.Name(), candidate, id)
		r.logger.Debug("tenant resolved",
			logger.String("strategy", strategy.Name()),
			logger.String("tenant_id", id.String()),
		)
		return id, nil
	}

	return uuid.Nil, models.ErrTenantNotResolved
}

// Invalidate drops the cached resolution for one strategy/candidate pair.
// Called when a tenant's domain or slug changes.
func (r *Resolver) Invalidate(ctx context.Context, strategy, candidate string) error {
	if r.cache == nil {
		return nil
	}
	if err := r.cache.Del(ctx, cacheKey(strategy, candidate)).Err(); err != nil {
		return fmt.Errorf("invalidate tenant cache: %w", err)
	}
	return nil
}

// InvalidateAll drops every cached tenant resolution. SCAN keeps this safe on
// a shared Redis database.
func (r *Resolver) InvalidateAll(ctx context.Context) (int, error) {
	if r.cache == nil {
		return 0, nil
	}

	pattern := cacheKeyPrefix + ":*"
	var cursor uint64
	deleted := 0

	for {
		const scanBatchSize = 100
		keys, next, err := r.cache.Scan(ctx, cursor, pattern, scanBatchSize).Result()
		if err != nil {
			return deleted, fmt.Errorf("scan tenant cache keys: %w", err)
		}

		if len(keys) > 0 {
			n, delErr := r.cache.Del(ctx, keys...).Result()
			if delErr != nil {
				return deleted, fmt.Errorf("delete tenant cache keys: %w", delErr)
			}
			deleted += int(n)
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	return deleted, nil
}

func (r *Resolver) cached(ctx context.Context, strategy, candidate string) (uuid.UUID, bool) {
	if r.cache == nil {
		return uuid.Nil, false
	}

	val, err := r.cache.Get(ctx, cacheKey(strategy, candidate)).Result()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			r.logger.Warn("tenant cache read failed",
				logger.String("strategy", strategy),
				logger.Error(err),
			)
		}
		r.recordLookup("miss")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(val)
	if err != nil {
		r.recordLookup("miss")
		return uuid.Nil, false
	}
	r.recordLookup("hit")
	return id, true
}

func (r *Resolver) recordLookup(result string) {
	if r.metrics != nil {
		r.metrics.RecordCacheLookup(result)
	}
}

func (r *Resolver) store(ctx context.Context, strategy, candidate string, id uuid.UUID) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Set(ctx, cacheKey(strategy, candidate), id.String(), r.ttl).Err(); err != nil {
		r.logger.Warn("tenant cache write failed",
			logger.String("strategy", strategy),
			logger.Error(err),
		)
	}
}

// StaticDirectory is an in-memory Directory for tests and single-tenant
// deployments.
type StaticDirectory struct {
	Slugs   map[string]uuid.UUID
	Domains map[string]uuid.UUID
}

// TenantBySlug looks up a slug in the static map.
func (d *StaticDirectory) TenantBySlug(_ context.Context, slug string) (uuid.UUID, error) {
	if id, ok := d.Slugs[slug]; ok {
		return id, nil
	}
	return uuid.Nil, models.ErrNotFound
}

// TenantByDomain looks up a domain in the static map.
func (d *StaticDirectory) TenantByDomain(_ context.Context, domain string) (uuid.UUID, error) {
	if id, ok := d.Domains[domain]; ok {
		return id, nil
	}
	return uuid.Nil, models.ErrNotFound
}
