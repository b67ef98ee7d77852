package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dealerhub/seo-engine/internal/models"
)

const sitemapConfigColumns = `id, tenant_id, url, type, is_active, priority,
	change_frequency, config_data, created_at, updated_at`

// SitemapConfigRepository provides database operations for sitemap configs.
type SitemapConfigRepository struct {
	db *sqlx.DB
}

// NewSitemapConfigRepository creates a new sitemap config repository.
func NewSitemapConfigRepository(db *sqlx.DB) *SitemapConfigRepository {
	return &SitemapConfigRepository{db: db}
}

// Upsert inserts or updates a config keyed by (tenant_id, url).
func (r *SitemapConfigRepository) Upsert(ctx context.Context, req *models.SitemapConfigUpsertRequest) (*models.SitemapConfig, error) {
	now := time.Now()
	cfg := &models.SitemapConfig{
		ID:              uuid.New(),
		TenantID:        req.TenantID,
		URL:             req.URL,
		Type:            req.Type,
		IsActive:        true,
		Priority:        0.5,
		ChangeFrequency: models.ChangeFreqDaily,
		ConfigData:      req.ConfigData,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if req.IsActive != nil {
		cfg.IsActive = *req.IsActive
	}
	if req.Priority != nil {
		cfg.Priority = *req.Priority
	}
	if req.ChangeFrequency != "" {
		cfg.ChangeFrequency = req.ChangeFrequency
	}

	query := `
		INSERT INTO sitemap_configs (` + sitemapConfigColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (tenant_id, url) DO UPDATE SET
			type = EXCLUDED.type,
			is_active = EXCLUDED.is_active,
			priority = EXCLUDED.priority,
			change_frequency = EXCLUDED.change_frequency,
			config_data = EXCLUDED.config_data,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + sitemapConfigColumns

	err := r.db.QueryRowxContext(
		ctx, query,
		cfg.ID, cfg.TenantID, cfg.URL, cfg.Type, cfg.IsActive,
		cfg.Priority, cfg.ChangeFrequency, cfg.ConfigData,
		cfg.CreatedAt, cfg.UpdatedAt,
	).StructScan(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert sitemap config: %w", err)
	}

	return cfg, nil
}

// ListActive retrieves every active config across all tenants, for the
// regeneration sweep.
func (r *SitemapConfigRepository) ListActive(ctx context.Context) ([]models.SitemapConfig, error) {
	configs := []models.SitemapConfig{}
	query := `
		SELECT ` + sitemapConfigColumns + `
		FROM sitemap_configs
		WHERE is_active = true
		ORDER BY tenant_id, type
	`

	err := r.db.SelectContext(ctx, &configs, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active sitemap configs: %w", err)
	}

	return configs, nil
}

// ListByTenant retrieves a tenant's configs.
func (r *SitemapConfigRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.SitemapConfig, error) {
	configs := []models.SitemapConfig{}
	query := `
		SELECT ` + sitemapConfigColumns + `
		FROM sitemap_configs
		WHERE tenant_id = $1
		ORDER BY type
	`

	err := r.db.SelectContext(ctx, &configs, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sitemap configs: %w", err)
	}

	return configs, nil
}

// HasAnyForTenant reports whether a tenant has at least one config row.
func (r *SitemapConfigRepository) HasAnyForTenant(ctx context.Context, tenantID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM sitemap_configs WHERE tenant_id = $1)`

	err := r.db.GetContext(ctx, &exists, query, tenantID)
	if err != nil {
		return false, fmt.Errorf("failed to check sitemap configs: %w", err)
	}

	return exists, nil
}

// RobotsConfigRepository provides database operations for robots configs.
type RobotsConfigRepository struct {
	db *sqlx.DB
}

// NewRobotsConfigRepository creates a new robots config repository.
func NewRobotsConfigRepository(db *sqlx.DB) *RobotsConfigRepository {
	return &RobotsConfigRepository{db: db}
}

const robotsConfigColumns = `id, tenant_id, locale, agent_rules, custom_rules,
	host_directive, sitemap_urls, append_index_url, append_per_type_urls,
	notes, last_generated_at, last_generated_by, created_at, updated_at`

// Upsert inserts or updates a config keyed by (tenant_id, locale).
func (r *RobotsConfigRepository) Upsert(ctx context.Context, req *models.RobotsConfigUpsertRequest) (*models.RobotsConfig, error) {
	now := time.Now()
	cfg := &models.RobotsConfig{
		ID:                uuid.New(),
		TenantID:          req.TenantID,
		Locale:            req.Locale,
		AgentRules:        req.AgentRules,
		CustomRules:       req.CustomRules,
		HostDirective:     req.HostDirective,
		SitemapURLs:       req.SitemapURLs,
		AppendIndexURL:    true,
		AppendPerTypeURLs: false,
		Notes:             req.Notes,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if req.AppendIndexURL != nil {
		cfg.AppendIndexURL = *req.AppendIndexURL
	}
	if req.AppendPerTypeURLs != nil {
		cfg.AppendPerTypeURLs = *req.AppendPerTypeURLs
	}

	query := `
		INSERT INTO robots_configs (id, tenant_id, locale, agent_rules,
			custom_rules, host_directive, sitemap_urls, append_index_url,
			append_per_type_urls, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (tenant_id, locale) DO UPDATE SET
			agent_rules = EXCLUDED.agent_rules,
			custom_rules = EXCLUDED.custom_rules,
			host_directive = EXCLUDED.host_directive,
			sitemap_urls = EXCLUDED.sitemap_urls,
			append_index_url = EXCLUDED.append_index_url,
			append_per_type_urls = EXCLUDED.append_per_type_urls,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + robotsConfigColumns

	err := r.db.QueryRowxContext(
		ctx, query,
		cfg.ID, cfg.TenantID, cfg.Locale, cfg.AgentRules, cfg.CustomRules,
		cfg.HostDirective, cfg.SitemapURLs, cfg.AppendIndexURL,
		cfg.AppendPerTypeURLs, cfg.Notes, cfg.CreatedAt, cfg.UpdatedAt,
	).StructScan(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert robots config: %w", err)
	}

	return cfg, nil
}

// Get retrieves the config for (tenant, locale).
func (r *RobotsConfigRepository) Get(ctx context.Context, tenantID uuid.UUID, locale string) (*models.RobotsConfig, error) {
	cfg := &models.RobotsConfig{}
	query := `
		SELECT ` + robotsConfigColumns + `
		FROM robots_configs
		WHERE tenant_id = $1 AND locale = $2
	`

	err := r.db.GetContext(ctx, cfg, query, tenantID, locale)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get robots config: %w", err)
	}

	return cfg, nil
}

// MarkGenerated stamps the last generation time and actor.
func (r *RobotsConfigRepository) MarkGenerated(ctx context.Context, id uuid.UUID, by string) error {
	query := `
		UPDATE robots_configs
		SET last_generated_at = $2, last_generated_by = $3, updated_at = $2
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id, time.Now(), by)
	if err != nil {
		return fmt.Errorf("failed to mark robots config generated: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrNotFound
	}

	return nil
}
