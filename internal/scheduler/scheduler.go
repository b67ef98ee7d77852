// Package scheduler decides when sitemap regeneration is due and bootstraps
// default configs for tenants that have content but no schedule yet.
package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dealerhub/seo-engine/internal/logger"
	"github.com/dealerhub/seo-engine/internal/models"
	"github.com/dealerhub/seo-engine/internal/sitemap"
	"github.com/dealerhub/seo-engine/internal/storage"
)

// freqThresholds maps a change frequency onto the minimum age of the last
// generated file before regeneration is due. A month is approximated as 30
// days, a year as 365.
var freqThresholds = map[models.ChangeFreq]time.Duration{
	models.ChangeFreqHourly:  time.Hour,
	models.ChangeFreqDaily:   24 * time.Hour,
	models.ChangeFreqWeekly:  7 * 24 * time.Hour,
	models.ChangeFreqMonthly: 30 * 24 * time.Hour,
	models.ChangeFreqYearly:  365 * 24 * time.Hour,
}

// ConfigStore is the persistence port for sitemap configs.
type ConfigStore interface {
	ListActive(ctx context.Context) ([]models.SitemapConfig, error)
	HasAnyForTenant(ctx context.Context, tenantID uuid.UUID) (bool, error)
	Upsert(ctx context.Context, req *models.SitemapConfigUpsertRequest) (*models.SitemapConfig, error)
}

// TenantSource lists tenants that currently have sitemap-eligible content.
type TenantSource interface {
	TenantsWithSitemapContent(ctx context.Context) ([]uuid.UUID, error)
}

// Scheduler evaluates staleness against the file store and maintains default
// configs.
type Scheduler struct {
	configs ConfigStore
	tenants TenantSource
	store   storage.FileStore
	logger  logger.Logger

	// now is swapped in tests.
	now func() time.Time
}

// New creates a scheduler.
func New(configs ConfigStore, tenants TenantSource, store storage.FileStore, log logger.Logger) *Scheduler {
	return &Scheduler{
		configs: configs,
		tenants: tenants,
		store:   store,
		logger:  log,
		now:     time.Now,
	}
}

// IsDue reports whether the config's sitemap should be regenerated. An
// "always" frequency is always due, "never" never is. Otherwise the last
// generated file's age is compared against the frequency threshold; a missing
// file means generation never happened and is due immediately.
func (s *Scheduler) IsDue(cfg *models.SitemapConfig) bool {
	switch cfg.ChangeFrequency {
	case models.ChangeFreqAlways:
		return true
	case models.ChangeFreqNever:
		return false
	}

	threshold, ok := freqThresholds[cfg.ChangeFrequency]
	if !ok {
		// Unknown frequency, fall back to daily rather than stalling the
		// tenant forever.
		threshold = freqThresholds[models.ChangeFreqDaily]
	}

	marker := sitemap.MarkerPath(cfg.TenantID, cfg.Type)
	modTime, err := s.store.ModTime(marker)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			s.logger.Warn("stat sitemap marker failed",
				logger.String("path", marker),
				logger.Error(err),
			)
		}
		return true
	}

	return s.now().Sub(modTime) >= threshold
}

// DueConfigs returns the active configs whose sitemaps are due for
// regeneration.
func (s *Scheduler) DueConfigs(ctx context.Context) ([]models.SitemapConfig, error) {
	configs, err := s.configs.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	due := make([]models.SitemapConfig, 0, len(configs))
	for i := range configs {
		if s.IsDue(&configs[i]) {
			due = append(due, configs[i])
		}
	}
	return due, nil
}

// EnsureDefaultConfigs creates an hourly vehicles config for every tenant
// that has published content but no sitemap config. New tenants get sitemaps
// without manual setup. Returns the number of configs created.
func (s *Scheduler) EnsureDefaultConfigs(ctx context.Context) (int, error) {
	tenants, err := s.tenants.TenantsWithSitemapContent(ctx)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, tenantID := range tenants {
		has, err := s.configs.HasAnyForTenant(ctx, tenantID)
		if err != nil {
			return created, err
		}
		if has {
			continue
		}

		_, err = s.configs.Upsert(ctx, &models.SitemapConfigUpsertRequest{
			TenantID:        tenantID,
			URL:             sitemap.MarkerPath(tenantID, models.SitemapTypeVehicles),
			Type:            models.SitemapTypeVehicles,
			ChangeFrequency: models.ChangeFreqHourly,
		})
		if err != nil {
			return created, err
		}

		created++
		s.logger.Info("default sitemap config created",
			logger.String("tenant_id", tenantID.String()),
			logger.String("type", string(models.SitemapTypeVehicles)),
		)
	}

	return created, nil
}
