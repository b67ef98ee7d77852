package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealerhub/seo-engine/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  host: db.internal
  dbname: seo_engine
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8090", cfg.Server.Address)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "./public", cfg.Generator.OutputDir)
	assert.Equal(t, 1000, cfg.Generator.URLLimit)
	assert.Equal(t, 15*time.Minute, cfg.Generator.SweepInterval)
	assert.Equal(t, 10*time.Minute, cfg.Generator.LockTTL)
	assert.Equal(t, "pt-BR", cfg.Generator.DefaultLocale)
	assert.Equal(t, 5*time.Minute, cfg.Tenant.CacheTTL)
	assert.Equal(t, "X-Tenant-ID", cfg.Tenant.Header)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:3001"}, cfg.Server.CORSOrigins)
}

func TestLoadReadsValues(t *testing.T) {
	path := writeConfig(t, `
debug: true
server:
  address: ":9000"
  cors_origins:
    - https://admin.dealerhub.example
database:
  host: db.internal
  dbname: seo_engine
generator:
  base_url: https://cdn.dealerhub.example
  url_limit: 500
  sweep_cron: "0 */2 * * *"
tenant:
  base_domain: dealerhub.example
  directory_url: http://dealer-management:8080
  directory_timeout: 3s
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, ":9000", cfg.Server.Address)
	assert.Equal(t, []string{"https://admin.dealerhub.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "https://cdn.dealerhub.example", cfg.Generator.BaseURL)
	assert.Equal(t, 500, cfg.Generator.URLLimit)
	assert.Equal(t, "0 */2 * * *", cfg.Generator.SweepCron)
	assert.Equal(t, "dealerhub.example", cfg.Tenant.BaseDomain)
	assert.Equal(t, "http://dealer-management:8080", cfg.Tenant.DirectoryURL)
	assert.Equal(t, 3*time.Second, cfg.Tenant.DirectoryTimeout)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SEO_DB_HOST", "env-db")
	t.Setenv("SEO_DB_PASSWORD", "secret")
	t.Setenv("REDIS_ADDR", "env-redis:6379")
	t.Setenv("SEO_URL_LIMIT", "250")
	t.Setenv("SEO_PORT", "9999")
	t.Setenv("APP_DEBUG", "yes")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	path := writeConfig(t, `
database:
  host: db.internal
  dbname: seo_engine
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-db", cfg.Database.Host)
	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, "env-redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 250, cfg.Generator.URLLimit)
	assert.Equal(t, ":9999", cfg.Server.Address)
	assert.True(t, cfg.Debug)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalidURLLimit(t *testing.T) {
	path := writeConfig(t, `
database:
  host: db.internal
  dbname: seo_engine
generator:
  url_limit: -5
`)

	_, err := config.Load(path)
	assert.ErrorContains(t, err, "url_limit")
}

func TestDefaultNeedsNoFile(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 1000, cfg.Generator.URLLimit)
}
