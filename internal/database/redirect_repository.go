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

const redirectColumns = `id, tenant_id, old_path, new_path, status_code,
	is_active, redirected_at, created_at, updated_at`

// RedirectRepository provides database operations for explicit URL redirects.
type RedirectRepository struct {
	db *sqlx.DB
}

// NewRedirectRepository creates a new redirect repository.
func NewRedirectRepository(db *sqlx.DB) *RedirectRepository {
	return &RedirectRepository{db: db}
}

// Create inserts an explicit redirect for (tenant_id, old_path).
func (r *RedirectRepository) Create(ctx context.Context, req *models.RedirectCreateRequest) (*models.URLRedirect, error) {
	now := time.Now()
	redirect := &models.URLRedirect{
		ID:           uuid.New(),
		TenantID:     req.TenantID,
		OldPath:      req.OldPath,
		NewPath:      req.NewPath,
		StatusCode:   301,
		IsActive:     true,
		RedirectedAt: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.StatusCode != nil {
		redirect.StatusCode = *req.StatusCode
	}
	if req.IsActive != nil {
		redirect.IsActive = *req.IsActive
	}

	query := `
		INSERT INTO url_redirects (` + redirectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + redirectColumns

	err := r.db.QueryRowxContext(
		ctx, query,
		redirect.ID, redirect.TenantID, redirect.OldPath, redirect.NewPath,
		redirect.StatusCode, redirect.IsActive, redirect.RedirectedAt,
		redirect.CreatedAt, redirect.UpdatedAt,
	).StructScan(redirect)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, models.ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to create redirect: %w", err)
	}

	return redirect, nil
}

// GetActiveByOldPath retrieves the active explicit redirect for a path.
func (r *RedirectRepository) GetActiveByOldPath(ctx context.Context, tenantID uuid.UUID, oldPath string) (*models.URLRedirect, error) {
	redirect := &models.URLRedirect{}
	query := `
		SELECT ` + redirectColumns + `
		FROM url_redirects
		WHERE tenant_id = $1 AND old_path = $2 AND is_active = true
	`

	err := r.db.GetContext(ctx, redirect, query, tenantID, oldPath)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get redirect: %w", err)
	}

	return redirect, nil
}

// ListByTenant retrieves all redirects for a tenant, newest first.
func (r *RedirectRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.URLRedirect, error) {
	redirects := []models.URLRedirect{}
	query := `
		SELECT ` + redirectColumns + `
		FROM url_redirects
		WHERE tenant_id = $1
		ORDER BY redirected_at DESC
	`

	err := r.db.SelectContext(ctx, &redirects, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list redirects: %w", err)
	}

	return redirects, nil
}

// Deactivate marks a redirect inactive without deleting it; redirect history
// is kept for audit.
func (r *RedirectRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE url_redirects SET is_active = false, updated_at = $2 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("failed to deactivate redirect: %w", err)
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
