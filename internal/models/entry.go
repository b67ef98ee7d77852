// Package models contains the core domain models for the SEO engine.
package models

import (
	"time"

	"github.com/google/uuid"
)

// EntryType classifies what kind of content a URL entry points at.
type EntryType string

const (
	EntryTypeVehicleDetail EntryType = "vehicle_detail"
	EntryTypeCollection    EntryType = "collection"
	EntryTypeBlogPost      EntryType = "blog_post"
	EntryTypeFAQ           EntryType = "faq"
	EntryTypeStatic        EntryType = "static"
)

// PageEntryTypes are the entry types emitted in the page sitemap.
var PageEntryTypes = []EntryType{
	EntryTypeCollection,
	EntryTypeBlogPost,
	EntryTypeFAQ,
	EntryTypeStatic,
}

// RedirectType is the redirect sub-state of a URL entry.
type RedirectType string

const (
	RedirectNone      RedirectType = "none"
	Redirect301       RedirectType = "301"
	Redirect302       RedirectType = "302"
	RedirectCanonical RedirectType = "canonical"
)

// ChangeFreq is a sitemaps.org change frequency hint. It doubles as the
// regeneration cadence for the staleness scheduler.
type ChangeFreq string

const (
	ChangeFreqAlways  ChangeFreq = "always"
	ChangeFreqHourly  ChangeFreq = "hourly"
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
	ChangeFreqYearly  ChangeFreq = "yearly"
	ChangeFreqNever   ChangeFreq = "never"
)

// Valid reports whether f is one of the known change frequencies.
func (f ChangeFreq) Valid() bool {
	switch f {
	case ChangeFreqAlways, ChangeFreqHourly, ChangeFreqDaily,
		ChangeFreqWeekly, ChangeFreqMonthly, ChangeFreqYearly, ChangeFreqNever:
		return true
	}
	return false
}

// URLEntry is the canonical record for a human-facing path. Identity is
// (tenant_id, locale, path), unique.
type URLEntry struct {
	ID                uuid.UUID        `json:"id" db:"id"`
	TenantID          uuid.UUID        `json:"tenant_id" db:"tenant_id"`
	Locale            string           `json:"locale" db:"locale"`
	Path              string           `json:"path" db:"path"`
	Type              EntryType        `json:"type" db:"type"`
	CanonicalURL      string           `json:"canonical_url" db:"canonical_url"`
	IsIndexable       bool             `json:"is_indexable" db:"is_indexable"`
	IncludeInSitemap  bool             `json:"include_in_sitemap" db:"include_in_sitemap"`
	SitemapPriority   float64          `json:"sitemap_priority" db:"sitemap_priority"` // 0.0-1.0
	SitemapChangefreq ChangeFreq       `json:"sitemap_changefreq" db:"sitemap_changefreq"`
	LastMod           time.Time        `json:"lastmod" db:"lastmod"`
	Title             string           `json:"title" db:"title"`
	MetaDescription   string           `json:"meta_description" db:"meta_description"`
	OGImage           string           `json:"og_image" db:"og_image"`
	Breadcrumbs       Breadcrumbs      `json:"breadcrumbs" db:"breadcrumbs"`
	StructuredType    string           `json:"structured_data_type" db:"structured_data_type"`
	StructuredData    JSONMap          `json:"structured_data_payload" db:"structured_data_payload"`
	ContentData       ContentData      `json:"content_data" db:"content_data"`
	ContentTemplates  ContentTemplates `json:"content_templates" db:"content_templates"`
	RouteParams       JSONMap          `json:"route_params" db:"route_params"`
	ExtraMeta         JSONMap          `json:"extra_meta" db:"extra_meta"`

	// Redirect sub-state. A redirected path never serves content again.
	RedirectType   RedirectType `json:"redirect_type" db:"redirect_type"`
	RedirectTarget string       `json:"redirect_target" db:"redirect_target"`
	RedirectReason string       `json:"redirect_reason" db:"redirect_reason"`
	PreviousSlug   string       `json:"previous_slug" db:"previous_slug"`
	RedirectDate   *time.Time   `json:"redirect_date,omitempty" db:"redirect_date"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsRedirected reports whether the entry is in the redirected state.
func (e *URLEntry) IsRedirected() bool {
	return e.RedirectType != "" && e.RedirectType != RedirectNone
}

// EnforceRedirectInvariant clears the indexable and sitemap flags when the
// entry carries a redirect. Redirected paths must never appear in sitemaps or
// be marked indexable; callers apply this rather than rejecting the write.
func (e *URLEntry) EnforceRedirectInvariant() {
	if e.IsRedirected() {
		e.IsIndexable = false
		e.IncludeInSitemap = false
	}
}

// EntryUpsertRequest is the payload for creating or updating a URL entry.
type EntryUpsertRequest struct {
	TenantID          uuid.UUID        `json:"tenant_id" binding:"required"`
	Locale            string           `json:"locale" binding:"required"`
	Path              string           `json:"path" binding:"required"`
	Type              EntryType        `json:"type" binding:"required"`
	CanonicalURL      string           `json:"canonical_url"`
	IsIndexable       *bool            `json:"is_indexable"`       // defaults to true
	IncludeInSitemap  *bool            `json:"include_in_sitemap"` // defaults to true
	SitemapPriority   *float64         `json:"sitemap_priority" binding:"omitempty,min=0,max=1"`
	SitemapChangefreq ChangeFreq       `json:"sitemap_changefreq"`
	Title             string           `json:"title"`
	MetaDescription   string           `json:"meta_description"`
	OGImage           string           `json:"og_image"`
	Breadcrumbs       Breadcrumbs      `json:"breadcrumbs"`
	StructuredType    string           `json:"structured_data_type"`
	StructuredData    JSONMap          `json:"structured_data_payload"`
	ContentData       ContentData      `json:"content_data"`
	ContentTemplates  ContentTemplates `json:"content_templates"`
	RouteParams       JSONMap          `json:"route_params"`
	ExtraMeta         JSONMap          `json:"extra_meta"`
}

// Resolution is the outcome of resolving an inbound path.
type Resolution struct {
	// Entry is the canonical entry when the path serves content, or the
	// redirected source entry when an embedded redirect applies. Nil for
	// explicit operator redirects with no surviving entry.
	Entry *URLEntry `json:"entry,omitempty"`

	// Redirect is set when the caller should issue a redirect.
	Redirect *ResolvedRedirect `json:"redirect,omitempty"`
}

// ResolvedRedirect describes the redirect a resolver decided on.
type ResolvedRedirect struct {
	Target     string `json:"target"`
	StatusCode int    `json:"status_code"`
	// Explicit is true when the redirect came from the operator redirect
	// table rather than an entry's embedded sub-state.
	Explicit bool `json:"explicit"`
}
