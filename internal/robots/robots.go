// Package robots compiles per-tenant robots.txt directive files.
package robots

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/dealerhub/seo-engine/internal/models"
	"github.com/dealerhub/seo-engine/internal/sitemap"
)

// wildcardAgent sorts ahead of every named agent in the output.
const wildcardAgent = "*"

// Compile renders the robots.txt content for a config. Output order: Host
// line, per-agent blocks, verbatim custom rules, Sitemap lines. The wildcard
// agent block comes first, the rest alphabetically, so output is stable across
// runs.
func Compile(cfg *models.RobotsConfig, baseURL string) string {
	var b strings.Builder

	if cfg.HostDirective != "" {
		fmt.Fprintf(&b, "Host: %s\n\n", cfg.HostDirective)
	}

	for _, agent := range sortedAgents(cfg.AgentRules) {
		rule := cfg.AgentRules[agent]
		fmt.Fprintf(&b, "User-agent: %s\n", agent)
		for _, path := range rule.Allow {
			fmt.Fprintf(&b, "Allow: %s\n", path)
		}
		for _, path := range rule.Disallow {
			fmt.Fprintf(&b, "Disallow: %s\n", path)
		}
		if rule.CrawlDelay != nil {
			fmt.Fprintf(&b, "Crawl-delay: %d\n", *rule.CrawlDelay)
		}
		b.WriteString("\n")
	}

	if custom := strings.TrimRight(cfg.CustomRules, "\n"); custom != "" {
		b.WriteString(custom)
		b.WriteString("\n\n")
	}

	for _, u := range sitemapURLs(cfg, baseURL) {
		fmt.Fprintf(&b, "Sitemap: %s\n", u)
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

// Validate checks a config before it is saved. Returned warnings are
// advisory; the config is still usable. The error is nil unless a directive
// would produce a broken robots.txt.
func Validate(cfg *models.RobotsConfig, baseURL string) ([]string, error) {
	for agent, rule := range cfg.AgentRules {
		if rule.CrawlDelay != nil && *rule.CrawlDelay < 0 {
			return nil, fmt.Errorf("%w: agent %q delay %d",
				models.ErrInvalidCrawlDelay, agent, *rule.CrawlDelay)
		}
	}

	for _, raw := range cfg.SitemapURLs {
		parsed, err := url.Parse(raw)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return nil, fmt.Errorf("%w: %q", models.ErrInvalidSitemapURL, raw)
		}
	}

	var warnings []string
	if len(sitemapURLs(cfg, baseURL)) == 0 {
		warnings = append(warnings, "no sitemap URL will be emitted; crawlers will not discover sitemaps from robots.txt")
	}

	return warnings, nil
}

// sitemapURLs assembles the Sitemap lines: explicit URLs first, then the
// computed index URL and per-type URLs when the corresponding flags are set.
func sitemapURLs(cfg *models.RobotsConfig, baseURL string) []string {
	base := strings.TrimSuffix(baseURL, "/")

	urls := make([]string, 0, len(cfg.SitemapURLs)+len(models.GeneratedSitemapTypes)+1)
	seen := make(map[string]struct{})
	add := func(u string) {
		if _, ok := seen[u]; ok {
			return
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}

	for _, u := range cfg.SitemapURLs {
		add(u)
	}
	if cfg.AppendIndexURL {
		add(base + "/" + sitemap.IndexPath(cfg.TenantID))
	}
	if cfg.AppendPerTypeURLs {
		for _, typ := range models.GeneratedSitemapTypes {
			add(base + "/" + sitemap.MarkerPath(cfg.TenantID, typ))
		}
	}

	return urls
}

// sortedAgents returns the configured agents with the wildcard first.
func sortedAgents(rules models.AgentRules) []string {
	agents := make([]string, 0, len(rules))
	for agent := range rules {
		agents = append(agents, agent)
	}
	sort.Slice(agents, func(i, j int) bool {
		if agents[i] == wildcardAgent {
			return true
		}
		if agents[j] == wildcardAgent {
			return false
		}
		return agents[i] < agents[j]
	})
	return agents
}
