// Package tenant resolves the tenant a request belongs to. Strategies are
// tried in a fixed precedence order and hits are cached in Redis with a short
// TTL.
package tenant

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/dealerhub/seo-engine/internal/models"
)

// Directory maps tenant slugs and custom domains onto tenant IDs. The tenant
// catalog itself lives outside this service.
type Directory interface {
	TenantBySlug(ctx context.Context, slug string) (uuid.UUID, error)
	TenantByDomain(ctx context.Context, domain string) (uuid.UUID, error)
}

// TokenStore maps API tokens onto tenant IDs.
type TokenStore interface {
	TenantByToken(ctx context.Context, token string) (uuid.UUID, error)
}

// Strategy extracts a lookup candidate from a request and resolves it. A
// strategy that does not apply to a request returns an empty candidate.
type Strategy interface {
	Name() string
	Candidate(r *http.Request) string
	Lookup(ctx context.Context, candidate string) (uuid.UUID, error)
}

// SubdomainStrategy resolves {slug}.{baseDomain} hosts through the tenant
// directory.
type SubdomainStrategy struct {
	baseDomain string
	directory  Directory
}

// NewSubdomainStrategy creates a subdomain strategy for baseDomain.
func NewSubdomainStrategy(baseDomain string, directory Directory) *SubdomainStrategy {
	return &SubdomainStrategy{baseDomain: baseDomain, directory: directory}
}

func (s *SubdomainStrategy) Name() string { return "subdomain" }

func (s *SubdomainStrategy) Candidate(r *http.Request) string {
	host := stripPort(r.Host)
	suffix := "." + s.baseDomain
	if !strings.HasSuffix(host, suffix) {
		return ""
	}
	slug := strings.TrimSuffix(host, suffix)
	if slug == "" || strings.Contains(slug, ".") || slug == "www" {
		return ""
	}
	return slug
}

func (s *SubdomainStrategy) Lookup(ctx context.Context, candidate string) (uuid.UUID, error) {
	return s.directory.TenantBySlug(ctx, candidate)
}

// CustomDomainStrategy resolves fully custom dealer domains through the
// tenant directory.
type CustomDomainStrategy struct {
	baseDomain string
	directory  Directory
}

// NewCustomDomainStrategy creates a custom-domain strategy. Hosts under
// baseDomain are left to the subdomain strategy.
func NewCustomDomainStrategy(baseDomain string, directory Directory) *CustomDomainStrategy {
	return &CustomDomainStrategy{baseDomain: baseDomain, directory: directory}
}

func (s *CustomDomainStrategy) Name() string { return "custom_domain" }

func (s *CustomDomainStrategy) Candidate(r *http.Request) string {
	host := stripPort(r.Host)
	if host == "" || host == s.baseDomain || strings.HasSuffix(host, "."+s.baseDomain) {
		return ""
	}
	return host
}

func (s *CustomDomainStrategy) Lookup(ctx context.Context, candidate string) (uuid.UUID, error) {
	return s.directory.TenantByDomain(ctx, candidate)
}

// HeaderStrategy resolves an explicit tenant ID header set by trusted
// upstream services.
type HeaderStrategy struct {
	header string
}

// NewHeaderStrategy creates a header strategy for the given header name.
func NewHeaderStrategy(header string) *HeaderStrategy {
	return &HeaderStrategy{header: header}
}

func (s *HeaderStrategy) Name() string { return "header" }

func (s *HeaderStrategy) Candidate(r *http.Request) string {
	return r.Header.Get(s.header)
}

func (s *HeaderStrategy) Lookup(_ context.Context, candidate string) (uuid.UUID, error) {
	id, err := uuid.Parse(candidate)
	if err != nil {
		return uuid.Nil, models.ErrTenantNotResolved
	}
	return id, nil
}

// OriginStrategy resolves the Origin (or Referer) host through the tenant
// directory. Covers API calls from tenant storefronts where the request host
// is the API's own domain.
type OriginStrategy struct {
	directory Directory
}

// NewOriginStrategy creates an origin strategy.
func NewOriginStrategy(directory Directory) *OriginStrategy {
	return &OriginStrategy{directory: directory}
}

func (s *OriginStrategy) Name() string { return "origin" }

func (s *OriginStrategy) Candidate(r *http.Request) string {
	for _, header := range []string{"Origin", "Referer"} {
		raw := r.Header.Get(header)
		if raw == "" {
			continue
		}
		parsed, err := url.Parse(raw)
		if err != nil || parsed.Host == "" {
			continue
		}
		return stripPort(parsed.Host)
	}
	return ""
}

func (s *OriginStrategy) Lookup(ctx context.Context, candidate string) (uuid.UUID, error) {
	return s.directory.TenantByDomain(ctx, candidate)
}

// TokenStrategy resolves the bearer token of an authenticated request.
type TokenStrategy struct {
	tokens TokenStore
}

// NewTokenStrategy creates a token strategy.
func NewTokenStrategy(tokens TokenStore) *TokenStrategy {
	return &TokenStrategy{tokens: tokens}
}

func (s *TokenStrategy) Name() string { return "token" }

func (s *TokenStrategy) Candidate(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	token := strings.TrimPrefix(auth, "Bearer ")
	if token == auth {
		return ""
	}
	return strings.TrimSpace(token)
}

func (s *TokenStrategy) Lookup(ctx context.Context, candidate string) (uuid.UUID, error) {
	return s.tokens.TenantByToken(ctx, candidate)
}

func stripPort(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}
