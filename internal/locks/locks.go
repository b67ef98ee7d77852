// Package locks provides per-(tenant, sitemap type) generation locks backed
// by Redis.
package locks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dealerhub/seo-engine/internal/logger"
	"github.com/dealerhub/seo-engine/internal/models"
)

// Manager acquires generation locks with SetNX. A held lock means another
// worker is already generating that tenant/type pair; callers skip rather
// than wait. The TTL caps how long a crashed worker can block regeneration.
type Manager struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

// NewManager creates a lock manager.
func NewManager(client *redis.Client, ttl time.Duration, log logger.Logger) *Manager {
	return &Manager{
		client: client,
		ttl:    ttl,
		logger: log,
	}
}

func (m *Manager) key(tenantID uuid.UUID, typ models.SitemapType) string {
	return fmt.Sprintf("seo:genlock:%s:%s", tenantID, typ)
}

// Acquire takes the lock for a tenant/type pair. Returns
// models.ErrGenerationLocked when another holder has it.
func (m *Manager) Acquire(ctx context.Context, tenantID uuid.UUID, typ models.SitemapType) error {
	key := m.key(tenantID, typ)

	ok, err := m.client.SetNX(ctx, key, "1", m.ttl).Result()
	if err != nil {
		return fmt.Errorf("acquire lock %s: %w", key, err)
	}
	if !ok {
		m.logger.Debug("generation lock held, skipping",
			logger.String("tenant_id", tenantID.String()),
			logger.String("type", string(typ)),
		)
		return models.ErrGenerationLocked
	}

	m.logger.Debug("generation lock acquired",
		logger.String("tenant_id", tenantID.String()),
		logger.String("type", string(typ)),
		logger.Duration("ttl", m.ttl),
	)
	return nil
}

// Release frees the lock. Releasing a lock that expired or was never held is
// not an error.
func (m *Manager) Release(ctx context.Context, tenantID uuid.UUID, typ models.SitemapType) error {
	key := m.key(tenantID, typ)

	if err := m.client.Del(ctx, key).Err(); err != nil {
		m.logger.Error("release generation lock failed",
			logger.String("redis_key", key),
			logger.Error(err),
		)
		return fmt.Errorf("release lock %s: %w", key, err)
	}
	return nil
}

// IsHeld reports whether the lock for a tenant/type pair is currently held.
// Redis errors are logged and reported as not held so generation is never
// stalled by a cache outage.
func (m *Manager) IsHeld(ctx context.Context, tenantID uuid.UUID, typ models.SitemapType) bool {
	key := m.key(tenantID, typ)

	exists, err := m.client.Exists(ctx, key).Result()
	if err != nil {
		m.logger.Error("check generation lock failed",
			logger.String("redis_key", key),
			logger.Error(err),
		)
		return false
	}
	return exists == 1
}
