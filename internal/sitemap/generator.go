// Package sitemap generates chunked sitemaps.org XML artifacts per tenant.
package sitemap

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dealerhub/seo-engine/internal/logger"
	"github.com/dealerhub/seo-engine/internal/models"
	"github.com/dealerhub/seo-engine/internal/storage"
)

// DefaultURLLimit is the per-file URL cap when none is configured.
const DefaultURLLimit = 1000

// EntrySource is the registry port the generator reads from.
type EntrySource interface {
	ListForSitemap(ctx context.Context, tenantID uuid.UUID, types []models.EntryType, requireImage bool) ([]models.URLEntry, error)
}

// FileResult describes one produced sitemap file.
type FileResult struct {
	Path     string `json:"path"`
	URLCount int    `json:"url_count"`
}

// Result summarizes a generation run for one tenant.
type Result struct {
	TenantID    uuid.UUID          `json:"tenant_id"`
	Type        models.SitemapType `json:"type"`
	Files       []FileResult       `json:"files"`
	TotalURLs   int                `json:"total_urls"`
	GeneratedAt time.Time          `json:"generated_at"`
	DryRun      bool               `json:"dry_run"`
}

// Options configures a Generator.
type Options struct {
	// BaseURL is the public base for sitemap file URLs, without trailing
	// slash.
	BaseURL string

	// URLLimit is the per-file cap for chunked sitemap types.
	URLLimit int
}

// Generator builds sitemap XML artifacts from registry entries.
type Generator struct {
	entries EntrySource
	store   storage.FileStore
	logger  logger.Logger
	opts    Options

	// now is swapped in tests.
	now func() time.Time
}

// NewGenerator creates a sitemap generator.
func NewGenerator(entries EntrySource, store storage.FileStore, log logger.Logger, opts Options) *Generator {
	if opts.URLLimit <= 0 {
		opts.URLLimit = DefaultURLLimit
	}
	return &Generator{
		entries: entries,
		store:   store,
		logger:  log,
		opts:    opts,
		now:     time.Now,
	}
}

// FilePath returns the store path of a sitemap file for a tenant.
func FilePath(tenantID uuid.UUID, name string) string {
	return fmt.Sprintf("sitemaps/%s/%s", tenantID, name)
}

// IndexPath returns the store path of a tenant's sitemap index.
func IndexPath(tenantID uuid.UUID) string {
	return FilePath(tenantID, "sitemap-index.xml")
}

// MarkerPath returns the store path whose modification time represents the
// last generation of a sitemap type. The first chunk plays that role.
func MarkerPath(tenantID uuid.UUID, typ models.SitemapType) string {
	if typ == models.SitemapTypeIndex {
		return IndexPath(tenantID)
	}
	return FilePath(tenantID, fmt.Sprintf("sitemap-%s-1.xml", typ))
}

// Generate produces the artifacts of the requested type for one tenant.
// limitOverride replaces the configured per-file cap when positive. In dry-run
// mode the full plan is computed and returned but nothing is written.
func (g *Generator) Generate(ctx context.Context, tenantID uuid.UUID, typ models.SitemapType, limitOverride int, dryRun bool) (*Result, error) {
	if !typ.Valid() {
		return nil, fmt.Errorf("unknown sitemap type %q", typ)
	}

	limit := g.opts.URLLimit
	if limitOverride > 0 {
		limit = limitOverride
	}

	generatedAt := g.now()
	result := &Result{
		TenantID:    tenantID,
		Type:        typ,
		GeneratedAt: generatedAt,
		DryRun:      dryRun,
	}

	types := []models.SitemapType{typ}
	if typ == models.SitemapTypeAll {
		types = models.GeneratedSitemapTypes
	}

	regenerated := make([]models.SitemapType, 0, len(types))
	for _, t := range types {
		if t == models.SitemapTypeIndex {
			continue
		}
		files, err := g.generateType(ctx, tenantID, t, limit, generatedAt, dryRun)
		if err != nil {
			return nil, err
		}
		result.Files = append(result.Files, files...)
		regenerated = append(regenerated, t)
	}

	indexFile, err := g.generateIndex(ctx, tenantID, regenerated, result.Files, generatedAt, dryRun)
	if err != nil {
		return nil, err
	}
	result.Files = append(result.Files, *indexFile)

	for _, f := range result.Files {
		result.TotalURLs += f.URLCount
	}

	g.logger.Info("sitemap generation finished",
		logger.String("tenant_id", tenantID.String()),
		logger.String("type", string(typ)),
		logger.Int("files", len(result.Files)),
		logger.Int("urls", result.TotalURLs),
		logger.Bool("dry_run", dryRun),
	)

	return result, nil
}

// generateType builds and writes the files for one concrete sitemap type.
func (g *Generator) generateType(ctx context.Context, tenantID uuid.UUID, typ models.SitemapType, limit int, generatedAt time.Time, dryRun bool) ([]FileResult, error) {
	var (
		entryTypes   []models.EntryType
		requireImage bool
		chunked      bool
	)

	switch typ {
	case models.SitemapTypeVehicles:
		entryTypes = []models.EntryType{models.EntryTypeVehicleDetail}
		chunked = true
	case models.SitemapTypeImages:
		entryTypes = []models.EntryType{models.EntryTypeVehicleDetail}
		requireImage = true
		chunked = true
	case models.SitemapTypePages:
		// Page sitemaps are intentionally not chunked; the original
		// system never split them and consumers rely on the single
		// file name.
		entryTypes = models.PageEntryTypes
	default:
		return nil, fmt.Errorf("unknown sitemap type %q", typ)
	}

	entries, err := g.entries.ListForSitemap(ctx, tenantID, entryTypes, requireImage)
	if err != nil {
		return nil, fmt.Errorf("list entries for %s sitemap: %w", typ, err)
	}
	if len(entries) == 0 {
		return nil, nil
	}

	chunks := [][]models.URLEntry{entries}
	if chunked {
		chunks = chunkEntries(entries, limit)
	}

	files := make([]FileResult, 0, len(chunks))
	for i, chunk := range chunks {
		name := fmt.Sprintf("sitemap-%s-%d.xml", typ, i+1)
		path := FilePath(tenantID, name)

		if !dryRun {
			doc := g.buildURLSet(chunk, typ == models.SitemapTypeImages, generatedAt)
			data, marshalErr := marshalXML(doc)
			if marshalErr != nil {
				return nil, fmt.Errorf("marshal %s: %w", name, marshalErr)
			}
			if writeErr := g.store.Write(path, data); writeErr != nil {
				return nil, fmt.Errorf("write %s: %w", name, writeErr)
			}
		}

		files = append(files, FileResult{Path: path, URLCount: len(chunk)})
	}

	return files, nil
}

// generateIndex writes the sitemap index listing every sitemap file the
// tenant currently has. Its lastmod is the generation timestamp, not each
// file's true max content lastmod.
func (g *Generator) generateIndex(ctx context.Context, tenantID uuid.UUID, regenerated []models.SitemapType, produced []FileResult, generatedAt time.Time, dryRun bool) (*FileResult, error) {
	_ = ctx

	producedSet := make(map[string]struct{}, len(produced))
	for _, f := range produced {
		producedSet[f.Path] = struct{}{}
	}

	stalePrefixes := make([]string, 0, len(regenerated))
	for _, t := range regenerated {
		stalePrefixes = append(stalePrefixes, fmt.Sprintf("sitemap-%s-", t))
	}

	// Previously generated files of other types stay in the index so a
	// single-type run does not drop them. A chunk of a just-regenerated type
	// that this run did not produce is stale: when a tenant's entry count
	// shrinks, the old highest-numbered chunks would otherwise stay on disk
	// and in the index forever.
	var carried []string
	existing, err := g.store.List(fmt.Sprintf("sitemaps/%s/", tenantID))
	if err == nil {
		for _, path := range existing {
			base := path[strings.LastIndex(path, "/")+1:]
			if !strings.HasPrefix(base, "sitemap-") || base == "sitemap-index.xml" {
				continue
			}
			if _, ok := producedSet[path]; ok {
				continue
			}
			if hasAnyPrefix(base, stalePrefixes) {
				if !dryRun {
					if removeErr := g.store.Remove(path); removeErr != nil {
						g.logger.Warn("failed to remove stale sitemap file",
							logger.String("path", path),
							logger.Error(removeErr),
						)
					}
				}
				continue
			}
			carried = append(carried, path)
		}
	}
	sort.Strings(carried)

	items := make([]xmlIndexItem, 0, len(produced)+len(carried))
	for _, f := range produced {
		items = append(items, xmlIndexItem{
			Loc:     g.fileURL(f.Path),
			LastMod: generatedAt.Format(time.RFC3339),
		})
	}
	for _, path := range carried {
		items = append(items, xmlIndexItem{
			Loc:     g.fileURL(path),
			LastMod: generatedAt.Format(time.RFC3339),
		})
	}

	path := IndexPath(tenantID)
	if !dryRun {
		doc := sitemapIndex{XMLNS: sitemapXMLNS, Sitemaps: items}
		data, marshalErr := marshalXML(doc)
		if marshalErr != nil {
			return nil, fmt.Errorf("marshal sitemap index: %w", marshalErr)
		}
		if writeErr := g.store.Write(path, data); writeErr != nil {
			return nil, fmt.Errorf("write sitemap index: %w", writeErr)
		}
	}

	return &FileResult{Path: path, URLCount: len(items)}, nil
}

// buildURLSet renders one chunk of entries into a urlset document.
func (g *Generator) buildURLSet(entries []models.URLEntry, withImages bool, generatedAt time.Time) urlSet {
	doc := urlSet{XMLNS: sitemapXMLNS}
	if withImages {
		doc.XMLNSImage = imageXMLNS
	}

	for i := range entries {
		entry := &entries[i]

		lastMod := entry.LastMod
		if lastMod.IsZero() {
			lastMod = generatedAt
		}

		u := xmlURL{
			Loc:        g.entryLoc(entry),
			LastMod:    lastMod.Format(time.RFC3339),
			ChangeFreq: string(entry.SitemapChangefreq),
			Priority:   strconv.FormatFloat(entry.SitemapPriority, 'f', 1, 64),
		}
		if withImages && entry.OGImage != "" {
			u.Images = []xmlImage{{Loc: entry.OGImage}}
		}

		doc.URLs = append(doc.URLs, u)
	}

	return doc
}

// entryLoc prefers the entry's canonical URL, falling back to base URL plus
// path.
func (g *Generator) entryLoc(entry *models.URLEntry) string {
	if entry.CanonicalURL != "" {
		return entry.CanonicalURL
	}
	return strings.TrimSuffix(g.opts.BaseURL, "/") + entry.Path
}

// fileURL builds the public URL of a stored sitemap file.
func (g *Generator) fileURL(path string) string {
	return strings.TrimSuffix(g.opts.BaseURL, "/") + "/" + path
}

// hasAnyPrefix reports whether name starts with any of the prefixes.
func hasAnyPrefix(name string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// chunkEntries splits entries into batches of at most limit.
func chunkEntries(entries []models.URLEntry, limit int) [][]models.URLEntry {
	if limit <= 0 {
		limit = DefaultURLLimit
	}

	var chunks [][]models.URLEntry
	for start := 0; start < len(entries); start += limit {
		end := start + limit
		if end > len(entries) {
			end = len(entries)
		}
		chunks = append(chunks, entries[start:end])
	}
	return chunks
}
