package models

// EngineStats is the aggregate view served by the stats overview endpoint.
type EngineStats struct {
	TotalEntries         int64 `json:"total_entries" db:"total_entries"`
	RedirectedEntries    int64 `json:"redirected_entries" db:"redirected_entries"`
	SitemapEntries       int64 `json:"sitemap_entries" db:"sitemap_entries"`
	IndexableEntries     int64 `json:"indexable_entries" db:"indexable_entries"`
	Tenants              int64 `json:"tenants" db:"tenants"`
	ActiveRedirects      int64 `json:"active_redirects" db:"active_redirects"`
	ActiveSitemapConfigs int64 `json:"active_sitemap_configs" db:"active_sitemap_configs"`
	RobotsConfigs        int64 `json:"robots_configs" db:"robots_configs"`
}
