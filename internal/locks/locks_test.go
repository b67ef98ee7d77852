package locks_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealerhub/seo-engine/internal/locks"
	"github.com/dealerhub/seo-engine/internal/logger"
	"github.com/dealerhub/seo-engine/internal/models"
)

func newTestManager(t *testing.T, ttl time.Duration) (*locks.Manager, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return locks.NewManager(client, ttl, logger.NewNop()), mr
}

func TestAcquireAndRelease(t *testing.T) {
	mgr, _ := newTestManager(t, time.Minute)
	ctx := context.Background()
	tenantID := uuid.New()

	require.NoError(t, mgr.Acquire(ctx, tenantID, models.SitemapTypeVehicles))
	assert.True(t, mgr.IsHeld(ctx, tenantID, models.SitemapTypeVehicles))

	require.NoError(t, mgr.Release(ctx, tenantID, models.SitemapTypeVehicles))
	assert.False(t, mgr.IsHeld(ctx, tenantID, models.SitemapTypeVehicles))
}

func TestAcquireHeldLock(t *testing.T) {
	mgr, _ := newTestManager(t, time.Minute)
	ctx := context.Background()
	tenantID := uuid.New()

	require.NoError(t, mgr.Acquire(ctx, tenantID, models.SitemapTypeVehicles))

	err := mgr.Acquire(ctx, tenantID, models.SitemapTypeVehicles)
	assert.ErrorIs(t, err, models.ErrGenerationLocked)
}

func TestLocksAreScopedPerTenantAndType(t *testing.T) {
	mgr, _ := newTestManager(t, time.Minute)
	ctx := context.Background()
	tenantA := uuid.New()
	tenantB := uuid.New()

	require.NoError(t, mgr.Acquire(ctx, tenantA, models.SitemapTypeVehicles))

	// Other types and other tenants are unaffected.
	require.NoError(t, mgr.Acquire(ctx, tenantA, models.SitemapTypePages))
	require.NoError(t, mgr.Acquire(ctx, tenantB, models.SitemapTypeVehicles))
}

func TestLockExpiresAfterTTL(t *testing.T) {
	mgr, mr := newTestManager(t, time.Minute)
	ctx := context.Background()
	tenantID := uuid.New()

	require.NoError(t, mgr.Acquire(ctx, tenantID, models.SitemapTypeVehicles))

	mr.FastForward(2 * time.Minute)

	assert.False(t, mgr.IsHeld(ctx, tenantID, models.SitemapTypeVehicles))
	require.NoError(t, mgr.Acquire(ctx, tenantID, models.SitemapTypeVehicles))
}

func TestReleaseWithoutHoldIsNoError(t *testing.T) {
	mgr, _ := newTestManager(t, time.Minute)

	assert.NoError(t, mgr.Release(context.Background(), uuid.New(), models.SitemapTypeVehicles))
}
