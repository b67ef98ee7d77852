package tenant

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/dealerhub/seo-engine/internal/logger"
	"github.com/dealerhub/seo-engine/internal/models"
)

const defaultDirectoryTimeout = 5 * time.Second

// HTTPDirectory resolves slugs and domains against the dealer-management
// service's tenant API.
type HTTPDirectory struct {
	baseURL string
	client  *http.Client
	logger  logger.Logger
}

type tenantResponse struct {
	TenantID uuid.UUID `json:"tenant_id"`
}

// NewHTTPDirectory creates a directory client against baseURL.
func NewHTTPDirectory(baseURL string, timeout time.Duration, log logger.Logger) *HTTPDirectory {
	if timeout <= 0 {
		timeout = defaultDirectoryTimeout
	}
	return &HTTPDirectory{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  log,
	}
}

// TenantBySlug resolves a subdomain slug to a tenant ID.
func (d *HTTPDirectory) TenantBySlug(ctx context.Context, slug string) (uuid.UUID, error) {
	return d.lookup(ctx, "/api/v1/tenants/by-slug", "slug", slug)
}

// TenantByDomain resolves a custom domain to a tenant ID.
func (d *HTTPDirectory) TenantByDomain(ctx context.Context, domain string) (uuid.UUID, error) {
	return d.lookup(ctx, "/api/v1/tenants/by-domain", "domain", domain)
}

func (d *HTTPDirectory) lookup(ctx context.Context, endpoint, param, value string) (uuid.UUID, error) {
	reqURL := fmt.Sprintf("%s%s?%s=%s", d.baseURL, endpoint, param, url.QueryEscape(value))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := d.client.Do(req)
	duration := time.Since(start)
	if err != nil {
		d.logger.Warn("tenant directory request failed",
			logger.String("url", reqURL),
			logger.Duration("duration", duration),
			logger.Error(err),
		)
		return uuid.Nil, fmt.Errorf("tenant lookup: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return uuid.Nil, models.ErrNotFound
	default:
		d.logger.Warn("tenant directory returned non-OK status",
			logger.String("url", reqURL),
			logger.Int("status_code", resp.StatusCode),
			logger.Duration("duration", duration),
		)
		return uuid.Nil, fmt.Errorf("tenant directory returned status %d", resp.StatusCode)
	}

	var body tenantResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return uuid.Nil, fmt.Errorf("decode tenant response: %w", err)
	}
	if body.TenantID == uuid.Nil {
		return uuid.Nil, models.ErrNotFound
	}

	return body.TenantID, nil
}
