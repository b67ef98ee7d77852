package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dealerhub/seo-engine/internal/models"
)

// StatsRepository computes aggregate counts for the stats endpoints.
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository creates a stats repository.
func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// Overview returns engine-wide counts across all tenants.
func (r *StatsRepository) Overview(ctx context.Context) (*models.EngineStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM seo_url_entries)                                         AS total_entries,
			(SELECT COUNT(*) FROM seo_url_entries WHERE redirect_type <> 'none')           AS redirected_entries,
			(SELECT COUNT(*) FROM seo_url_entries WHERE include_in_sitemap
				AND redirect_type = 'none')                                                AS sitemap_entries,
			(SELECT COUNT(*) FROM seo_url_entries WHERE is_indexable)                      AS indexable_entries,
			(SELECT COUNT(DISTINCT tenant_id) FROM seo_url_entries)                        AS tenants,
			(SELECT COUNT(*) FROM url_redirects WHERE is_active)                           AS active_redirects,
			(SELECT COUNT(*) FROM sitemap_configs WHERE is_active)                         AS active_sitemap_configs,
			(SELECT COUNT(*) FROM robots_configs)                                          AS robots_configs`

	var stats models.EngineStats
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("fetch stats overview: %w", err)
	}

	return &stats, nil
}
