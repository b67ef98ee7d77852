// Package registry is the canonical store of per-tenant, per-locale URL
// entries and the resolver that decides between content and redirects.
package registry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dealerhub/seo-engine/internal/logger"
	"github.com/dealerhub/seo-engine/internal/models"
)

// maxChainHops bounds the redirect-chain walk done before creating a new
// redirect. Chains deeper than this are treated as loops.
const maxChainHops = 8

// EntryStore is the persistence port for URL entries.
type EntryStore interface {
	Upsert(ctx context.Context, entry *models.URLEntry) (*models.URLEntry, error)
	GetByPath(ctx context.Context, tenantID uuid.UUID, locale, path string) (*models.URLEntry, error)
	RedirectTargetsByPath(ctx context.Context, tenantID uuid.UUID, path string) ([]string, error)
	MarkRedirected(ctx context.Context, id uuid.UUID, target, reason string, redirectType models.RedirectType, when time.Time) (*models.URLEntry, error)
}

// RedirectStore is the persistence port for explicit operator redirects.
type RedirectStore interface {
	GetActiveByOldPath(ctx context.Context, tenantID uuid.UUID, oldPath string) (*models.URLRedirect, error)
	Create(ctx context.Context, req *models.RedirectCreateRequest) (*models.URLRedirect, error)
}

// Service implements URL resolution, entry upserts, and redirect transitions.
type Service struct {
	entries   EntryStore
	redirects RedirectStore
	logger    logger.Logger

	// now is swapped in tests.
	now func() time.Time
}

// NewService creates a registry service.
func NewService(entries EntryStore, redirects RedirectStore, log logger.Logger) *Service {
	return &Service{
		entries:   entries,
		redirects: redirects,
		logger:    log,
		now:       time.Now,
	}
}

// Resolve decides what an inbound path should serve. An active explicit
// redirect always wins over an entry's embedded redirect: operator intent
// overrides automatic slug-change bookkeeping. With no redirect in play the
// entry is served as canonical content. Returns models.ErrNotFound when
// neither a redirect nor an entry exists.
func (s *Service) Resolve(ctx context.Context, tenantID uuid.UUID, locale, path string) (*models.Resolution, error) {
	explicit, err := s.redirects.GetActiveByOldPath(ctx, tenantID, path)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("lookup explicit redirect: %w", err)
	}
	if explicit != nil {
		return &models.Resolution{
			Redirect: &models.ResolvedRedirect{
				Target:     explicit.NewPath,
				StatusCode: explicit.StatusCode,
				Explicit:   true,
			},
		}, nil
	}

	entry, err := s.entries.GetByPath(ctx, tenantID, locale, path)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("lookup entry: %w", err)
	}

	if entry.IsRedirected() {
		return &models.Resolution{
			Entry: entry,
			Redirect: &models.ResolvedRedirect{
				Target:     entry.RedirectTarget,
				StatusCode: statusForRedirectType(entry.RedirectType),
			},
		}, nil
	}

	return &models.Resolution{Entry: entry}, nil
}

// Upsert creates or updates the entry at (tenant, locale, path) and refreshes
// lastmod. A redirected path stays redirected: the existing redirect
// sub-state is preserved and the indexable/sitemap flags are auto-cleared
// rather than rejecting the write.
func (s *Service) Upsert(ctx context.Context, req *models.EntryUpsertRequest) (*models.URLEntry, error) {
	now := s.now()
	entry := &models.URLEntry{
		TenantID:          req.TenantID,
		Locale:            req.Locale,
		Path:              req.Path,
		Type:              req.Type,
		CanonicalURL:      req.CanonicalURL,
		IsIndexable:       true,
		IncludeInSitemap:  true,
		SitemapPriority:   0.5,
		SitemapChangefreq: models.ChangeFreqWeekly,
		LastMod:           now,
		Title:             req.Title,
		MetaDescription:   req.MetaDescription,
		OGImage:           req.OGImage,
		Breadcrumbs:       req.Breadcrumbs,
		StructuredType:    req.StructuredType,
		StructuredData:    req.StructuredData,
		ContentData:       req.ContentData,
		ContentTemplates:  req.ContentTemplates,
		RouteParams:       req.RouteParams,
		ExtraMeta:         req.ExtraMeta,
		RedirectType:      models.RedirectNone,
	}
	if req.IsIndexable != nil {
		entry.IsIndexable = *req.IsIndexable
	}
	if req.IncludeInSitemap != nil {
		entry.IncludeInSitemap = *req.IncludeInSitemap
	}
	if req.SitemapPriority != nil {
		entry.SitemapPriority = *req.SitemapPriority
	}
	if req.SitemapChangefreq != "" {
		entry.SitemapChangefreq = req.SitemapChangefreq
	}

	existing, err := s.entries.GetByPath(ctx, req.TenantID, req.Locale, req.Path)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("lookup existing entry: %w", err)
	}
	if existing != nil {
		entry.ID = existing.ID
		entry.CreatedAt = existing.CreatedAt
		if existing.IsRedirected() {
			// Redirected is terminal for this path value.
			entry.RedirectType = existing.RedirectType
			entry.RedirectTarget = existing.RedirectTarget
			entry.RedirectReason = existing.RedirectReason
			entry.PreviousSlug = existing.PreviousSlug
			entry.RedirectDate = existing.RedirectDate
		}
	}

	entry.EnforceRedirectInvariant()

	stored, err := s.entries.Upsert(ctx, entry)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("entry upserted",
		logger.String("tenant_id", req.TenantID.String()),
		logger.String("path", req.Path),
		logger.String("type", string(req.Type)),
	)

	return stored, nil
}

// IsStale reports whether the entry's lastmod is older than maxAgeDays.
func (s *Service) IsStale(entry *models.URLEntry, maxAgeDays int) bool {
	age := s.now().Sub(entry.LastMod)
	return age > time.Duration(maxAgeDays)*24*time.Hour
}

// CreateRedirect transitions the entry at req.Path from Active to Redirected
// and ensures an Active entry exists at the target path. The transition
// stamps previous_slug and redirect_date and clears the indexable/sitemap
// flags in the same write. Redirected is terminal: the old path never serves
// content again.
//
// A redirect whose target chain leads back to the source path is refused
// with models.ErrRedirectLoop.
func (s *Service) CreateRedirect(ctx context.Context, req *models.EntryRedirectRequest) (*models.URLEntry, *models.URLEntry, error) {
	source, err := s.entries.GetByPath(ctx, req.TenantID, req.Locale, req.Path)
	if err != nil {
		return nil, nil, err
	}
	if source.IsRedirected() {
		return nil, nil, models.ErrAlreadyRedirected
	}

	redirectType := req.Type
	if redirectType == "" {
		redirectType = models.Redirect301
	}

	if err := s.checkForLoop(ctx, req.TenantID, req.Locale, req.Path, req.Target); err != nil {
		return nil, nil, err
	}

	now := s.now()
	redirected, err := s.entries.MarkRedirected(ctx, source.ID, req.Target, req.Reason, redirectType, now)
	if err != nil {
		return nil, nil, fmt.Errorf("mark entry redirected: %w", err)
	}

	target, err := s.entries.GetByPath(ctx, req.TenantID, req.Locale, req.Target)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, nil, fmt.Errorf("lookup target entry: %w", err)
	}
	if target == nil {
		fresh := cloneForTarget(source, req.Target, now)
		target, err = s.entries.Upsert(ctx, fresh)
		if err != nil {
			return nil, nil, fmt.Errorf("create target entry: %w", err)
		}
	}

	s.logger.Info("redirect created",
		logger.String("tenant_id", req.TenantID.String()),
		logger.String("from", req.Path),
		logger.String("to", req.Target),
		logger.String("type", string(redirectType)),
	)

	return redirected, target, nil
}

// CreateExplicitRedirect records an operator redirect in the redirect table.
// Explicit redirects take precedence over entry-embedded ones at resolution
// time.
func (s *Service) CreateExplicitRedirect(ctx context.Context, req *models.RedirectCreateRequest) (*models.URLRedirect, error) {
	if err := s.checkForLoop(ctx, req.TenantID, "", req.OldPath, req.NewPath); err != nil {
		return nil, err
	}
	return s.redirects.Create(ctx, req)
}

// checkForLoop walks the redirect chains starting at target and fails when
// any of them reaches source within maxChainHops. Both explicit and embedded
// redirects participate; without a locale the embedded redirects of every
// locale are walked, so a mixed explicit-plus-embedded loop is caught on the
// explicit-creation side too.
func (s *Service) checkForLoop(ctx context.Context, tenantID uuid.UUID, locale, source, target string) error {
	walked := map[string]struct{}{target: {}}
	frontier := []string{target}

	for hop := 0; hop < maxChainHops; hop++ {
		if len(frontier) == 0 {
			return nil
		}

		var next []string
		for _, current := range frontier {
			if current == source {
				return models.ErrRedirectLoop
			}

			hops, err := s.nextHops(ctx, tenantID, locale, current)
			if err != nil {
				return err
			}
			for _, h := range hops {
				if _, ok := walked[h]; ok {
					continue
				}
				walked[h] = struct{}{}
				next = append(next, h)
			}
		}
		frontier = next
	}

	if len(frontier) == 0 {
		return nil
	}
	return models.ErrRedirectLoop
}

// nextHops returns the paths current redirects to, or none when it serves
// content (or does not exist). An explicit redirect and embedded redirects on
// the same path are all followed.
func (s *Service) nextHops(ctx context.Context, tenantID uuid.UUID, locale, current string) ([]string, error) {
	var hops []string

	explicit, err := s.redirects.GetActiveByOldPath(ctx, tenantID, current)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("walk redirect chain: %w", err)
	}
	if explicit != nil {
		hops = append(hops, explicit.NewPath)
	}

	if locale != "" {
		entry, err := s.entries.GetByPath(ctx, tenantID, locale, current)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return hops, nil
			}
			return nil, fmt.Errorf("walk redirect chain: %w", err)
		}
		if entry.IsRedirected() {
			hops = append(hops, entry.RedirectTarget)
		}
		return hops, nil
	}

	targets, err := s.entries.RedirectTargetsByPath(ctx, tenantID, current)
	if err != nil {
		return nil, fmt.Errorf("walk redirect chain: %w", err)
	}
	return append(hops, targets...), nil
}

// cloneForTarget builds the fresh Active entry created at the redirect
// target, carrying over the source's display fields.
func cloneForTarget(source *models.URLEntry, targetPath string, now time.Time) *models.URLEntry {
	fresh := *source
	fresh.ID = uuid.Nil // new row
	fresh.Path = targetPath
	fresh.CanonicalURL = rewriteCanonical(source.CanonicalURL, source.Path, targetPath)
	fresh.LastMod = now
	fresh.CreatedAt = now
	fresh.RedirectType = models.RedirectNone
	fresh.RedirectTarget = ""
	fresh.RedirectReason = ""
	fresh.PreviousSlug = ""
	fresh.RedirectDate = nil
	return &fresh
}

// rewriteCanonical swaps the old path for the new one inside the canonical
// URL when possible, otherwise falls back to the new path itself.
func rewriteCanonical(canonical, oldPath, newPath string) string {
	if canonical == "" {
		return newPath
	}
	if idx := strings.LastIndex(canonical, oldPath); idx >= 0 {
		return canonical[:idx] + newPath + canonical[idx+len(oldPath):]
	}
	return newPath
}

// statusForRedirectType maps an embedded redirect type onto the HTTP status a
// resolver should issue. Canonical redirects are treated as permanent.
func statusForRedirectType(t models.RedirectType) int {
	switch t {
	case models.Redirect302:
		return http.StatusFound
	default:
		return http.StatusMovedPermanently
	}
}
