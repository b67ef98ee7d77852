// Package structured assembles schema.org JSON-LD payloads from URL entries.
package structured

import (
	"github.com/dealerhub/seo-engine/internal/models"
)

const schemaContext = "https://schema.org"

// GenerateStructuredData merges the entry's structured-data payload with the
// schema.org context and type. Returns nil when the entry carries no type or
// no payload.
func GenerateStructuredData(entry *models.URLEntry) map[string]any {
	if entry.StructuredType == "" || len(entry.StructuredData) == 0 {
		return nil
	}

	data := make(map[string]any, len(entry.StructuredData)+2)
	data["@context"] = schemaContext
	data["@type"] = entry.StructuredType
	for key, value := range entry.StructuredData {
		data[key] = value
	}

	return data
}

// GenerateBreadcrumbs wraps the entry's breadcrumb trail into a schema.org
// BreadcrumbList with 1-based positions. Returns nil when the entry has no
// breadcrumbs.
func GenerateBreadcrumbs(entry *models.URLEntry) map[string]any {
	if len(entry.Breadcrumbs) == 0 {
		return nil
	}

	items := make([]map[string]any, 0, len(entry.Breadcrumbs))
	for i, crumb := range entry.Breadcrumbs {
		items = append(items, map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     crumb.Name,
			"item":     crumb.Item,
		})
	}

	return map[string]any{
		"@context":        schemaContext,
		"@type":           "BreadcrumbList",
		"itemListElement": items,
	}
}
