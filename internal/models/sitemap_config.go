package models

import (
	"time"

	"github.com/google/uuid"
)

// SitemapType selects which sitemap artifact a config or generation run
// targets.
type SitemapType string

const (
	SitemapTypeVehicles SitemapType = "vehicles"
	SitemapTypeImages   SitemapType = "images"
	SitemapTypePages    SitemapType = "pages"
	SitemapTypeIndex    SitemapType = "index"
	SitemapTypeAll      SitemapType = "all"
)

// GeneratedSitemapTypes are the types that produce their own files. The index
// is rebuilt as part of every run and "all" is a fan-out selector.
var GeneratedSitemapTypes = []SitemapType{
	SitemapTypeVehicles,
	SitemapTypeImages,
	SitemapTypePages,
}

// Valid reports whether t is a known sitemap type.
func (t SitemapType) Valid() bool {
	switch t {
	case SitemapTypeVehicles, SitemapTypeImages, SitemapTypePages,
		SitemapTypeIndex, SitemapTypeAll:
		return true
	}
	return false
}

// SitemapConfig drives scheduled generation of one sitemap artifact for a
// tenant. Identity is (tenant_id, url), unique.
type SitemapConfig struct {
	ID              uuid.UUID   `json:"id" db:"id"`
	TenantID        uuid.UUID   `json:"tenant_id" db:"tenant_id"`
	URL             string      `json:"url" db:"url"`
	Type            SitemapType `json:"type" db:"type"`
	IsActive        bool        `json:"is_active" db:"is_active"`
	Priority        float64     `json:"priority" db:"priority"`
	ChangeFrequency ChangeFreq  `json:"change_frequency" db:"change_frequency"`
	ConfigData      JSONMap     `json:"config_data" db:"config_data"` // e.g. include_images, max_items
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at" db:"updated_at"`
}

// MaxItems returns the per-file URL limit from config_data, or fallback when
// unset or invalid.
func (c *SitemapConfig) MaxItems(fallback int) int {
	if c.ConfigData == nil {
		return fallback
	}
	switch v := c.ConfigData["max_items"].(type) {
	case float64:
		if v > 0 {
			return int(v)
		}
	case int:
		if v > 0 {
			return v
		}
	}
	return fallback
}

// SitemapConfigUpsertRequest is the payload for creating or updating a
// sitemap config.
type SitemapConfigUpsertRequest struct {
	TenantID        uuid.UUID   `json:"tenant_id" binding:"required"`
	URL             string      `json:"url" binding:"required"`
	Type            SitemapType `json:"type" binding:"required"`
	IsActive        *bool       `json:"is_active"` // defaults to true
	Priority        *float64    `json:"priority" binding:"omitempty,min=0,max=1"`
	ChangeFrequency ChangeFreq  `json:"change_frequency"`
	ConfigData      JSONMap     `json:"config_data"`
}
