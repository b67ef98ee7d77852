package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealerhub/seo-engine/internal/api"
	"github.com/dealerhub/seo-engine/internal/config"
	"github.com/dealerhub/seo-engine/internal/logger"
	"github.com/dealerhub/seo-engine/internal/robots"
	"github.com/dealerhub/seo-engine/internal/sitemap"
	"github.com/dealerhub/seo-engine/internal/storage"
)

func newFileServer(t *testing.T, store storage.FileStore) http.Handler {
	t.Helper()

	router := api.NewRouter(api.RouterDeps{Store: store}, config.Default(), logger.NewNop())
	return router.SetupRoutes()
}

func TestServeSitemapFile(t *testing.T) {
	tenantID := uuid.New()
	store := storage.NewMemStore()
	require.NoError(t, store.Write(
		sitemap.FilePath(tenantID, "sitemap-vehicles-1.xml"),
		[]byte(`<?xml version="1.0"?><urlset/>`),
	))
	srv := newFileServer(t, store)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/sitemaps/"+tenantID.String()+"/sitemap-vehicles-1.xml", nil)
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/xml")
	assert.Contains(t, rec.Body.String(), "<urlset/>")
}

func TestServeSitemapFileMissing(t *testing.T) {
	srv := newFileServer(t, storage.NewMemStore())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/sitemaps/"+uuid.New().String()+"/sitemap-vehicles-1.xml", nil)
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServeSitemapFileRejectsBadNames(t *testing.T) {
	srv := newFileServer(t, storage.NewMemStore())
	tenantID := uuid.New().String()

	for _, name := range []string{"robots.txt", "sitemap-evil.txt", "notasitemap.xml"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/sitemaps/"+tenantID+"/"+name, nil)
		srv.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "file name %q", name)
	}
}

func TestServeSitemapFileRejectsBadTenant(t *testing.T) {
	srv := newFileServer(t, storage.NewMemStore())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/sitemaps/not-a-uuid/sitemap-vehicles-1.xml", nil)
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServeRobotsFile(t *testing.T) {
	tenantID := uuid.New()
	store := storage.NewMemStore()
	require.NoError(t, store.Write(
		robots.FilePath(tenantID, "pt-BR"),
		[]byte("User-agent: *\nDisallow: /admin\n"),
	))
	srv := newFileServer(t, store)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/robots/"+tenantID.String()+"/pt-BR/robots.txt", nil)
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rec.Body.String(), "Disallow: /admin")
}

func TestServeRobotsFileMissing(t *testing.T) {
	srv := newFileServer(t, storage.NewMemStore())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/robots/"+uuid.New().String()+"/pt-BR/robots.txt", nil)
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
