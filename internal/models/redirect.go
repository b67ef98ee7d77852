package models

import (
	"time"

	"github.com/google/uuid"
)

// URLRedirect is an explicit operator- or maintenance-issued redirect.
// Identity is (tenant_id, old_path), unique. Explicit redirects always win
// over an entry's embedded redirect sub-state when resolving.
type URLRedirect struct {
	ID           uuid.UUID `json:"id" db:"id"`
	TenantID     uuid.UUID `json:"tenant_id" db:"tenant_id"`
	OldPath      string    `json:"old_path" db:"old_path"`
	NewPath      string    `json:"new_path" db:"new_path"`
	StatusCode   int       `json:"status_code" db:"status_code"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	RedirectedAt time.Time `json:"redirected_at" db:"redirected_at"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// RedirectCreateRequest is the payload for creating an explicit redirect.
type RedirectCreateRequest struct {
	TenantID   uuid.UUID `json:"tenant_id" binding:"required"`
	OldPath    string    `json:"old_path" binding:"required"`
	NewPath    string    `json:"new_path" binding:"required"`
	StatusCode *int      `json:"status_code" binding:"omitempty,oneof=301 302"` // defaults to 301
	IsActive   *bool     `json:"is_active"`                                     // defaults to true
}

// EntryRedirectRequest is the payload for transitioning a URL entry into the
// redirected state (e.g., after a slug change).
type EntryRedirectRequest struct {
	TenantID uuid.UUID    `json:"tenant_id" binding:"required"`
	Locale   string       `json:"locale" binding:"required"`
	Path     string       `json:"path" binding:"required"`
	Target   string       `json:"target" binding:"required"`
	Reason   string       `json:"reason"`
	Type     RedirectType `json:"type" binding:"omitempty,oneof=301 302 canonical"` // defaults to 301
}
