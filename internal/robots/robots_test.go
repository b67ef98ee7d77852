package robots_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealerhub/seo-engine/internal/models"
	"github.com/dealerhub/seo-engine/internal/robots"
)

const baseURL = "https://cdn.dealerhub.example"

func intPtr(v int) *int { return &v }

func TestCompileFullConfig(t *testing.T) {
	tenantID := uuid.New()
	cfg := &models.RobotsConfig{
		TenantID:      tenantID,
		Locale:        "pt-BR",
		HostDirective: "dealer.example",
		AgentRules: models.AgentRules{
			"Googlebot": {
				Allow:      []string{"/usados"},
				CrawlDelay: intPtr(2),
			},
			"*": {
				Disallow: []string{"/admin", "/api"},
			},
		},
		CustomRules:    "# managed by dealerhub\nDisallow: /tmp\n",
		SitemapURLs:    []string{"https://dealer.example/legacy-sitemap.xml"},
		AppendIndexURL: true,
	}

	out := robots.Compile(cfg, baseURL)

	want := strings.Join([]string{
		"Host: dealer.example",
		"",
		"User-agent: *",
		"Disallow: /admin",
		"Disallow: /api",
		"",
		"User-agent: Googlebot",
		"Allow: /usados",
		"Crawl-delay: 2",
		"",
		"# managed by dealerhub",
		"Disallow: /tmp",
		"",
		"Sitemap: https://dealer.example/legacy-sitemap.xml",
		fmt.Sprintf("Sitemap: %s/sitemaps/%s/sitemap-index.xml", baseURL, tenantID),
		"",
	}, "\n")
	assert.Equal(t, want, out)
}

func TestCompileWildcardSortsFirst(t *testing.T) {
	cfg := &models.RobotsConfig{
		AgentRules: models.AgentRules{
			"Bingbot":   {Disallow: []string{"/b"}},
			"*":         {Disallow: []string{"/all"}},
			"AdsBot":    {Disallow: []string{"/a"}},
			"Googlebot": {Disallow: []string{"/g"}},
		},
	}

	out := robots.Compile(cfg, baseURL)

	positions := make([]int, 0, 4)
	for _, agent := range []string{"*", "AdsBot", "Bingbot", "Googlebot"} {
		idx := strings.Index(out, "User-agent: "+agent+"\n")
		require.GreaterOrEqual(t, idx, 0, "agent %s missing", agent)
		positions = append(positions, idx)
	}
	assert.IsIncreasing(t, positions)
}

func TestCompilePerTypeSitemapURLs(t *testing.T) {
	tenantID := uuid.New()
	cfg := &models.RobotsConfig{
		TenantID:          tenantID,
		AppendIndexURL:    true,
		AppendPerTypeURLs: true,
	}

	out := robots.Compile(cfg, baseURL)

	for _, name := range []string{
		"sitemap-index.xml",
		"sitemap-vehicles-1.xml",
		"sitemap-images-1.xml",
		"sitemap-pages-1.xml",
	} {
		assert.Contains(t, out, fmt.Sprintf("Sitemap: %s/sitemaps/%s/%s", baseURL, tenantID, name))
	}
}

func TestCompileDeduplicatesSitemapURLs(t *testing.T) {
	tenantID := uuid.New()
	indexURL := fmt.Sprintf("%s/sitemaps/%s/sitemap-index.xml", baseURL, tenantID)
	cfg := &models.RobotsConfig{
		TenantID:       tenantID,
		SitemapURLs:    []string{indexURL},
		AppendIndexURL: true,
	}

	out := robots.Compile(cfg, baseURL)
	assert.Equal(t, 1, strings.Count(out, indexURL))
}

func TestValidateRejectsNegativeCrawlDelay(t *testing.T) {
	cfg := &models.RobotsConfig{
		AgentRules: models.AgentRules{
			"*": {CrawlDelay: intPtr(-1)},
		},
	}

	_, err := robots.Validate(cfg, baseURL)
	assert.ErrorIs(t, err, models.ErrInvalidCrawlDelay)
}

func TestValidateRejectsRelativeSitemapURL(t *testing.T) {
	cfg := &models.RobotsConfig{
		SitemapURLs: []string{"/sitemap.xml"},
	}

	_, err := robots.Validate(cfg, baseURL)
	assert.ErrorIs(t, err, models.ErrInvalidSitemapURL)
}

func TestValidateWarnsWhenNoSitemapEmitted(t *testing.T) {
	cfg := &models.RobotsConfig{
		AgentRules: models.AgentRules{"*": {Disallow: []string{"/admin"}}},
	}

	warnings, err := robots.Validate(cfg, baseURL)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "no sitemap URL")
}

func TestValidateCleanConfig(t *testing.T) {
	cfg := &models.RobotsConfig{
		AgentRules:     models.AgentRules{"*": {CrawlDelay: intPtr(0)}},
		AppendIndexURL: true,
	}

	warnings, err := robots.Validate(cfg, baseURL)
	require.NoError(t, err)
	assert.Empty(t, warnings)
}
