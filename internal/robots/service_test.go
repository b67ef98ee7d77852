package robots_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealerhub/seo-engine/internal/logger"
	"github.com/dealerhub/seo-engine/internal/models"
	"github.com/dealerhub/seo-engine/internal/robots"
	"github.com/dealerhub/seo-engine/internal/storage"
)

type fakeConfigStore struct {
	configs map[string]*models.RobotsConfig
	stamped []uuid.UUID
}

func configKey(tenantID uuid.UUID, locale string) string {
	return tenantID.String() + "|" + locale
}

func (s *fakeConfigStore) Get(_ context.Context, tenantID uuid.UUID, locale string) (*models.RobotsConfig, error) {
	cfg, ok := s.configs[configKey(tenantID, locale)]
	if !ok {
		return nil, models.ErrNotFound
	}
	return cfg, nil
}

func (s *fakeConfigStore) MarkGenerated(_ context.Context, id uuid.UUID, _ string) error {
	s.stamped = append(s.stamped, id)
	return nil
}

func TestServiceGenerate(t *testing.T) {
	tenantID := uuid.New()
	cfg := &models.RobotsConfig{
		ID:       uuid.New(),
		TenantID: tenantID,
		Locale:   "pt-BR",
		AgentRules: models.AgentRules{
			"*": {Disallow: []string{"/admin"}},
		},
		AppendIndexURL: true,
	}
	configs := &fakeConfigStore{configs: map[string]*models.RobotsConfig{
		configKey(tenantID, "pt-BR"): cfg,
	}}
	store := storage.NewMemStore()
	svc := robots.NewService(configs, store, logger.NewNop(), baseURL)

	path, err := svc.Generate(context.Background(), tenantID, "pt-BR", "api")
	require.NoError(t, err)
	assert.Equal(t, robots.FilePath(tenantID, "pt-BR"), path)

	data, err := store.Read(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "Disallow: /admin")
	assert.Contains(t, content, "sitemap-index.xml")

	require.Len(t, configs.stamped, 1)
	assert.Equal(t, cfg.ID, configs.stamped[0])
}

func TestServiceGenerateInvalidConfig(t *testing.T) {
	tenantID := uuid.New()
	configs := &fakeConfigStore{configs: map[string]*models.RobotsConfig{
		configKey(tenantID, "pt-BR"): {
			ID:          uuid.New(),
			TenantID:    tenantID,
			Locale:      "pt-BR",
			SitemapURLs: []string{"not a url"},
		},
	}}
	store := storage.NewMemStore()
	svc := robots.NewService(configs, store, logger.NewNop(), baseURL)

	_, err := svc.Generate(context.Background(), tenantID, "pt-BR", "api")
	assert.ErrorIs(t, err, models.ErrInvalidSitemapURL)

	paths, listErr := store.List("")
	require.NoError(t, listErr)
	assert.Empty(t, paths)
}

func TestServiceGenerateMissingConfig(t *testing.T) {
	svc := robots.NewService(&fakeConfigStore{}, storage.NewMemStore(), logger.NewNop(), baseURL)

	_, err := svc.Generate(context.Background(), uuid.New(), "pt-BR", "api")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestServiceCompileDoesNotWrite(t *testing.T) {
	tenantID := uuid.New()
	configs := &fakeConfigStore{configs: map[string]*models.RobotsConfig{
		configKey(tenantID, "pt-BR"): {
			ID:            uuid.New(),
			TenantID:      tenantID,
			Locale:        "pt-BR",
			HostDirective: "dealer.example",
		},
	}}
	store := storage.NewMemStore()
	svc := robots.NewService(configs, store, logger.NewNop(), baseURL)

	content, err := svc.Compile(context.Background(), tenantID, "pt-BR")
	require.NoError(t, err)
	assert.Contains(t, content, "Host: dealer.example")

	paths, err := store.List("")
	require.NoError(t, err)
	assert.Empty(t, paths)
	assert.Empty(t, configs.stamped)
}
