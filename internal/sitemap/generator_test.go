package sitemap_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealerhub/seo-engine/internal/logger"
	"github.com/dealerhub/seo-engine/internal/models"
	"github.com/dealerhub/seo-engine/internal/sitemap"
	"github.com/dealerhub/seo-engine/internal/storage"
)

type fakeEntrySource struct {
	entries []models.URLEntry
}

func (s *fakeEntrySource) ListForSitemap(_ context.Context, _ uuid.UUID, types []models.EntryType, requireImage bool) ([]models.URLEntry, error) {
	wanted := make(map[models.EntryType]struct{}, len(types))
	for _, t := range types {
		wanted[t] = struct{}{}
	}

	var out []models.URLEntry
	for _, entry := range s.entries {
		if _, ok := wanted[entry.Type]; !ok {
			continue
		}
		if requireImage && entry.OGImage == "" {
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}

func vehicleEntries(tenantID uuid.UUID, count int) []models.URLEntry {
	entries := make([]models.URLEntry, 0, count)
	for i := 0; i < count; i++ {
		entries = append(entries, models.URLEntry{
			TenantID:          tenantID,
			Locale:            "pt-BR",
			Path:              fmt.Sprintf("/usados/vehicle-%d", i),
			Type:              models.EntryTypeVehicleDetail,
			SitemapPriority:   0.8,
			SitemapChangefreq: models.ChangeFreqDaily,
			LastMod:           time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		})
	}
	return entries
}

func newTestGenerator(entries []models.URLEntry) (*sitemap.Generator, *storage.MemStore) {
	store := storage.NewMemStore()
	gen := sitemap.NewGenerator(&fakeEntrySource{entries: entries}, store, logger.NewNop(), sitemap.Options{
		BaseURL:  "https://cdn.dealerhub.example",
		URLLimit: 1000,
	})
	return gen, store
}

func TestGenerateChunksVehicles(t *testing.T) {
	tenantID := uuid.New()
	gen, store := newTestGenerator(vehicleEntries(tenantID, 2500))

	result, err := gen.Generate(context.Background(), tenantID, models.SitemapTypeVehicles, 0, false)
	require.NoError(t, err)

	// 3 vehicle chunks plus the index.
	require.Len(t, result.Files, 4)
	assert.Equal(t, 1000, result.Files[0].URLCount)
	assert.Equal(t, 1000, result.Files[1].URLCount)
	assert.Equal(t, 500, result.Files[2].URLCount)
	assert.Equal(t, sitemap.FilePath(tenantID, "sitemap-vehicles-2.xml"), result.Files[1].Path)
	assert.Equal(t, sitemap.IndexPath(tenantID), result.Files[3].Path)

	data, err := store.Read(sitemap.FilePath(tenantID, "sitemap-vehicles-1.xml"))
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "<urlset")
	assert.Contains(t, content, "https://cdn.dealerhub.example/usados/vehicle-0")
	assert.Contains(t, content, "<changefreq>daily</changefreq>")
	assert.Contains(t, content, "<priority>0.8</priority>")
}

func TestGenerateLimitOverride(t *testing.T) {
	tenantID := uuid.New()
	gen, _ := newTestGenerator(vehicleEntries(tenantID, 250))

	result, err := gen.Generate(context.Background(), tenantID, models.SitemapTypeVehicles, 100, false)
	require.NoError(t, err)

	require.Len(t, result.Files, 4)
	assert.Equal(t, 100, result.Files[0].URLCount)
	assert.Equal(t, 50, result.Files[2].URLCount)
}

func TestGeneratePagesUnchunked(t *testing.T) {
	tenantID := uuid.New()
	entries := make([]models.URLEntry, 0, 1500)
	for i := 0; i < 1500; i++ {
		entries = append(entries, models.URLEntry{
			TenantID: tenantID,
			Path:     fmt.Sprintf("/blog/post-%d", i),
			Type:     models.EntryTypeBlogPost,
		})
	}
	gen, store := newTestGenerator(entries)

	result, err := gen.Generate(context.Background(), tenantID, models.SitemapTypePages, 0, false)
	require.NoError(t, err)

	// Pages always land in a single file regardless of the URL limit.
	require.Len(t, result.Files, 2)
	assert.Equal(t, 1500, result.Files[0].URLCount)
	assert.Equal(t, sitemap.FilePath(tenantID, "sitemap-pages-1.xml"), result.Files[0].Path)

	_, err = store.Read(sitemap.FilePath(tenantID, "sitemap-pages-2.xml"))
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestGenerateImagesFiltersAndEmitsImageTags(t *testing.T) {
	tenantID := uuid.New()
	entries := vehicleEntries(tenantID, 4)
	entries[0].OGImage = "https://cdn.dealerhub.example/img/v0.jpg"
	entries[2].OGImage = "https://cdn.dealerhub.example/img/v2.jpg"
	gen, store := newTestGenerator(entries)

	result, err := gen.Generate(context.Background(), tenantID, models.SitemapTypeImages, 0, false)
	require.NoError(t, err)

	require.Len(t, result.Files, 2)
	assert.Equal(t, 2, result.Files[0].URLCount)

	data, err := store.Read(sitemap.FilePath(tenantID, "sitemap-images-1.xml"))
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "http://www.google.com/schemas/sitemap-image/1.1")
	assert.Contains(t, content, "<image:loc>https://cdn.dealerhub.example/img/v0.jpg</image:loc>")
	assert.NotContains(t, content, "vehicle-1<")
}

func TestGenerateDryRunWritesNothing(t *testing.T) {
	tenantID := uuid.New()
	gen, store := newTestGenerator(vehicleEntries(tenantID, 50))

	result, err := gen.Generate(context.Background(), tenantID, models.SitemapTypeVehicles, 0, true)
	require.NoError(t, err)
	assert.True(t, result.DryRun)
	require.Len(t, result.Files, 2)
	assert.Equal(t, 50, result.Files[0].URLCount)

	paths, err := store.List("")
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestGenerateIndexKeepsOtherTypes(t *testing.T) {
	tenantID := uuid.New()
	gen, store := newTestGenerator(vehicleEntries(tenantID, 10))

	// A pages sitemap from an earlier run must survive a vehicles-only run.
	pagesPath := sitemap.FilePath(tenantID, "sitemap-pages-1.xml")
	require.NoError(t, store.Write(pagesPath, []byte("<urlset/>")))

	_, err := gen.Generate(context.Background(), tenantID, models.SitemapTypeVehicles, 0, false)
	require.NoError(t, err)

	data, err := store.Read(sitemap.IndexPath(tenantID))
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "sitemap-vehicles-1.xml")
	assert.Contains(t, content, "https://cdn.dealerhub.example/"+pagesPath)
	assert.NotContains(t, content, "sitemap-index.xml</loc>")
}

func TestGenerateDropsStaleChunksWhenTenantShrinks(t *testing.T) {
	tenantID := uuid.New()
	source := &fakeEntrySource{entries: vehicleEntries(tenantID, 2500)}
	store := storage.NewMemStore()
	gen := sitemap.NewGenerator(source, store, logger.NewNop(), sitemap.Options{
		BaseURL:  "https://cdn.dealerhub.example",
		URLLimit: 1000,
	})

	_, err := gen.Generate(context.Background(), tenantID, models.SitemapTypeVehicles, 0, false)
	require.NoError(t, err)

	// The tenant shrinks to 1500 entries; the third chunk must not survive
	// the next run, neither on disk nor in the index.
	source.entries = vehicleEntries(tenantID, 1500)

	result, err := gen.Generate(context.Background(), tenantID, models.SitemapTypeVehicles, 0, false)
	require.NoError(t, err)
	require.Len(t, result.Files, 3)

	stalePath := sitemap.FilePath(tenantID, "sitemap-vehicles-3.xml")
	_, err = store.Read(stalePath)
	assert.ErrorIs(t, err, models.ErrNotFound)

	data, err := store.Read(sitemap.IndexPath(tenantID))
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "sitemap-vehicles-2.xml")
	assert.NotContains(t, content, "sitemap-vehicles-3.xml")
}

func TestGenerateShrinkKeepsOtherTypeFiles(t *testing.T) {
	tenantID := uuid.New()
	source := &fakeEntrySource{entries: vehicleEntries(tenantID, 1200)}
	store := storage.NewMemStore()
	gen := sitemap.NewGenerator(source, store, logger.NewNop(), sitemap.Options{
		BaseURL:  "https://cdn.dealerhub.example",
		URLLimit: 1000,
	})

	pagesPath := sitemap.FilePath(tenantID, "sitemap-pages-1.xml")
	require.NoError(t, store.Write(pagesPath, []byte("<urlset/>")))

	_, err := gen.Generate(context.Background(), tenantID, models.SitemapTypeVehicles, 0, false)
	require.NoError(t, err)

	source.entries = vehicleEntries(tenantID, 500)
	_, err = gen.Generate(context.Background(), tenantID, models.SitemapTypeVehicles, 0, false)
	require.NoError(t, err)

	// Only the vehicle chunk is stale; the pages file is untouched.
	_, err = store.Read(pagesPath)
	require.NoError(t, err)
	_, err = store.Read(sitemap.FilePath(tenantID, "sitemap-vehicles-2.xml"))
	assert.ErrorIs(t, err, models.ErrNotFound)

	data, err := store.Read(sitemap.IndexPath(tenantID))
	require.NoError(t, err)
	assert.Contains(t, string(data), "sitemap-pages-1.xml")
	assert.NotContains(t, string(data), "sitemap-vehicles-2.xml")
}

func TestGenerateAllTypes(t *testing.T) {
	tenantID := uuid.New()
	entries := vehicleEntries(tenantID, 5)
	entries[0].OGImage = "https://cdn.dealerhub.example/img/v0.jpg"
	entries = append(entries, models.URLEntry{
		TenantID: tenantID,
		Path:     "/sobre",
		Type:     models.EntryTypeStatic,
	})
	gen, _ := newTestGenerator(entries)

	result, err := gen.Generate(context.Background(), tenantID, models.SitemapTypeAll, 0, false)
	require.NoError(t, err)

	var names []string
	for _, f := range result.Files {
		names = append(names, f.Path[strings.LastIndex(f.Path, "/")+1:])
	}
	assert.Equal(t, []string{
		"sitemap-vehicles-1.xml",
		"sitemap-images-1.xml",
		"sitemap-pages-1.xml",
		"sitemap-index.xml",
	}, names)
}

func TestGenerateEmptyTypeProducesNoChunkFiles(t *testing.T) {
	tenantID := uuid.New()
	gen, store := newTestGenerator(nil)

	result, err := gen.Generate(context.Background(), tenantID, models.SitemapTypeVehicles, 0, false)
	require.NoError(t, err)

	// Only the (empty) index is written.
	require.Len(t, result.Files, 1)
	assert.Equal(t, sitemap.IndexPath(tenantID), result.Files[0].Path)

	paths, err := store.List("")
	require.NoError(t, err)
	assert.Equal(t, []string{sitemap.IndexPath(tenantID)}, paths)
}

func TestGenerateRejectsUnknownType(t *testing.T) {
	gen, _ := newTestGenerator(nil)

	_, err := gen.Generate(context.Background(), uuid.New(), models.SitemapType("bogus"), 0, false)
	assert.Error(t, err)
}

func TestMarkerPath(t *testing.T) {
	tenantID := uuid.New()

	assert.Equal(t,
		fmt.Sprintf("sitemaps/%s/sitemap-vehicles-1.xml", tenantID),
		sitemap.MarkerPath(tenantID, models.SitemapTypeVehicles))
	assert.Equal(t, sitemap.IndexPath(tenantID), sitemap.MarkerPath(tenantID, models.SitemapTypeIndex))
}
