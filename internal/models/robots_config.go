package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// AgentRule holds the robots directives for a single user agent.
type AgentRule struct {
	Allow      []string `json:"allow,omitempty"`
	Disallow   []string `json:"disallow,omitempty"`
	CrawlDelay *int     `json:"crawl_delay,omitempty"` // seconds, >= 0
}

// RobotsConfig describes the robots.txt output for a tenant and locale.
// Identity is (tenant_id, locale), unique.
type RobotsConfig struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	TenantID      uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	Locale        string     `json:"locale" db:"locale"`
	AgentRules    AgentRules `json:"agent_rules" db:"agent_rules"`
	CustomRules   string     `json:"custom_rules" db:"custom_rules"` // emitted verbatim
	HostDirective string     `json:"host_directive" db:"host_directive"`

	// Explicit sitemap URLs plus flags to auto-append computed URLs.
	SitemapURLs       pq.StringArray `json:"sitemap_urls" db:"sitemap_urls"`
	AppendIndexURL    bool           `json:"append_index_url" db:"append_index_url"`
	AppendPerTypeURLs bool           `json:"append_per_type_urls" db:"append_per_type_urls"`

	Notes           string     `json:"notes" db:"notes"`
	LastGeneratedAt *time.Time `json:"last_generated_at,omitempty" db:"last_generated_at"`
	LastGeneratedBy string     `json:"last_generated_by" db:"last_generated_by"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// RobotsConfigUpsertRequest is the payload for creating or updating a robots
// config.
type RobotsConfigUpsertRequest struct {
	TenantID          uuid.UUID  `json:"tenant_id" binding:"required"`
	Locale            string     `json:"locale" binding:"required"`
	AgentRules        AgentRules `json:"agent_rules"`
	CustomRules       string     `json:"custom_rules"`
	HostDirective     string     `json:"host_directive"`
	SitemapURLs       []string   `json:"sitemap_urls"`
	AppendIndexURL    *bool      `json:"append_index_url"`
	AppendPerTypeURLs *bool      `json:"append_per_type_urls"`
	Notes             string     `json:"notes"`
}
