package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/dealerhub/seo-engine/internal/models"
)

const (
	// uniqueViolation is the pq error code for unique constraint violations.
	uniqueViolation = "23505"

	entryColumns = `id, tenant_id, locale, path, type, canonical_url,
		is_indexable, include_in_sitemap, sitemap_priority, sitemap_changefreq,
		lastmod, title, meta_description, og_image, breadcrumbs,
		structured_data_type, structured_data_payload, content_data,
		content_templates, route_params, extra_meta,
		redirect_type, redirect_target, redirect_reason, previous_slug,
		redirect_date, created_at, updated_at`
)

// EntryRepository provides database operations for URL entries.
type EntryRepository struct {
	db *sqlx.DB
}

// NewEntryRepository creates a new entry repository.
func NewEntryRepository(db *sqlx.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

// Ping verifies the database connection.
func (r *EntryRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Upsert inserts or updates an entry keyed by (tenant_id, locale, path) and
// returns the stored row.
func (r *EntryRepository) Upsert(ctx context.Context, entry *models.URLEntry) (*models.URLEntry, error) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	now := time.Now()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now

	query := `
		INSERT INTO seo_url_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28)
		ON CONFLICT (tenant_id, locale, path) DO UPDATE SET
			type = EXCLUDED.type,
			canonical_url = EXCLUDED.canonical_url,
			is_indexable = EXCLUDED.is_indexable,
			include_in_sitemap = EXCLUDED.include_in_sitemap,
			sitemap_priority = EXCLUDED.sitemap_priority,
			sitemap_changefreq = EXCLUDED.sitemap_changefreq,
			lastmod = EXCLUDED.lastmod,
			title = EXCLUDED.title,
			meta_description = EXCLUDED.meta_description,
			og_image = EXCLUDED.og_image,
			breadcrumbs = EXCLUDED.breadcrumbs,
			structured_data_type = EXCLUDED.structured_data_type,
			structured_data_payload = EXCLUDED.structured_data_payload,
			content_data = EXCLUDED.content_data,
			content_templates = EXCLUDED.content_templates,
			route_params = EXCLUDED.route_params,
			extra_meta = EXCLUDED.extra_meta,
			redirect_type = EXCLUDED.redirect_type,
			redirect_target = EXCLUDED.redirect_target,
			redirect_reason = EXCLUDED.redirect_reason,
			previous_slug = EXCLUDED.previous_slug,
			redirect_date = EXCLUDED.redirect_date,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + entryColumns

	stored := &models.URLEntry{}
	err := r.db.QueryRowxContext(
		ctx, query,
		entry.ID, entry.TenantID, entry.Locale, entry.Path, entry.Type,
		entry.CanonicalURL, entry.IsIndexable, entry.IncludeInSitemap,
		entry.SitemapPriority, entry.SitemapChangefreq, entry.LastMod,
		entry.Title, entry.MetaDescription, entry.OGImage, entry.Breadcrumbs,
		entry.StructuredType, entry.StructuredData, entry.ContentData,
		entry.ContentTemplates, entry.RouteParams, entry.ExtraMeta,
		entry.RedirectType, entry.RedirectTarget, entry.RedirectReason,
		entry.PreviousSlug, entry.RedirectDate, entry.CreatedAt, entry.UpdatedAt,
	).StructScan(stored)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert entry: %w", err)
	}

	return stored, nil
}

// GetByPath retrieves the entry for (tenant, locale, path).
func (r *EntryRepository) GetByPath(ctx context.Context, tenantID uuid.UUID, locale, path string) (*models.URLEntry, error) {
	entry := &models.URLEntry{}
	query := `
		SELECT ` + entryColumns + `
		FROM seo_url_entries
		WHERE tenant_id = $1 AND locale = $2 AND path = $3
	`

	err := r.db.GetContext(ctx, entry, query, tenantID, locale, path)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}

	return entry, nil
}

// ListByTenant retrieves entries for a tenant, newest first.
func (r *EntryRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]models.URLEntry, error) {
	entries := []models.URLEntry{}
	query := `
		SELECT ` + entryColumns + `
		FROM seo_url_entries
		WHERE tenant_id = $1
		ORDER BY lastmod DESC
		LIMIT $2 OFFSET $3
	`

	err := r.db.SelectContext(ctx, &entries, query, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	return entries, nil
}

// ListForSitemap retrieves the sitemap-eligible entries of the given types for
// a tenant, ordered by lastmod descending. Eligible means included in the
// sitemap and not redirected. When requireImage is set, entries without an
// og_image are excluded.
func (r *EntryRepository) ListForSitemap(ctx context.Context, tenantID uuid.UUID, types []models.EntryType, requireImage bool) ([]models.URLEntry, error) {
	typeNames := make([]string, 0, len(types))
	for _, t := range types {
		typeNames = append(typeNames, string(t))
	}

	entries := []models.URLEntry{}
	query := `
		SELECT ` + entryColumns + `
		FROM seo_url_entries
		WHERE tenant_id = $1
		  AND type = ANY($2)
		  AND include_in_sitemap = true
		  AND redirect_type = 'none'
	`
	if requireImage {
		query += " AND og_image <> ''"
	}
	query += " ORDER BY lastmod DESC"

	err := r.db.SelectContext(ctx, &entries, query, tenantID, pq.Array(typeNames))
	if err != nil {
		return nil, fmt.Errorf("failed to list sitemap entries: %w", err)
	}

	return entries, nil
}

// RedirectTargetsByPath returns the distinct embedded redirect targets of a
// path across all locales. Used by the redirect-chain walk when no locale is
// in play.
func (r *EntryRepository) RedirectTargetsByPath(ctx context.Context, tenantID uuid.UUID, path string) ([]string, error) {
	targets := []string{}
	query := `
		SELECT DISTINCT redirect_target
		FROM seo_url_entries
		WHERE tenant_id = $1 AND path = $2 AND redirect_type <> 'none'
	`

	err := r.db.SelectContext(ctx, &targets, query, tenantID, path)
	if err != nil {
		return nil, fmt.Errorf("failed to list redirect targets: %w", err)
	}

	return targets, nil
}

// MarkRedirected transitions an entry into the redirected state. The
// indexable and sitemap flags are cleared in the same statement so the
// redirect invariant can never be observed broken.
func (r *EntryRepository) MarkRedirected(ctx context.Context, id uuid.UUID, target, reason string, redirectType models.RedirectType, when time.Time) (*models.URLEntry, error) {
	query := `
		UPDATE seo_url_entries
		SET redirect_type = $2,
			redirect_target = $3,
			redirect_reason = $4,
			previous_slug = path,
			redirect_date = $5,
			is_indexable = false,
			include_in_sitemap = false,
			updated_at = $5
		WHERE id = $1
		RETURNING ` + entryColumns

	entry := &models.URLEntry{}
	err := r.db.QueryRowxContext(ctx, query, id, redirectType, target, reason, when).StructScan(entry)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to mark entry redirected: %w", err)
	}

	return entry, nil
}

// TenantsWithSitemapContent returns the tenants that have at least one
// sitemap-eligible entry.
func (r *EntryRepository) TenantsWithSitemapContent(ctx context.Context) ([]uuid.UUID, error) {
	tenants := []uuid.UUID{}
	query := `
		SELECT DISTINCT tenant_id
		FROM seo_url_entries
		WHERE include_in_sitemap = true AND redirect_type = 'none'
	`

	err := r.db.SelectContext(ctx, &tenants, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants with content: %w", err)
	}

	return tenants, nil
}
