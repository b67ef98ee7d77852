package robots

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dealerhub/seo-engine/internal/logger"
	"github.com/dealerhub/seo-engine/internal/models"
	"github.com/dealerhub/seo-engine/internal/storage"
)

// ConfigStore is the persistence port for robots configs.
type ConfigStore interface {
	Get(ctx context.Context, tenantID uuid.UUID, locale string) (*models.RobotsConfig, error)
	MarkGenerated(ctx context.Context, id uuid.UUID, by string) error
}

// Service loads a tenant's robots config, compiles it, and writes the
// artifact to the file store.
type Service struct {
	configs ConfigStore
	store   storage.FileStore
	logger  logger.Logger
	baseURL string
}

// NewService creates a robots service.
func NewService(configs ConfigStore, store storage.FileStore, log logger.Logger, baseURL string) *Service {
	return &Service{
		configs: configs,
		store:   store,
		logger:  log,
		baseURL: baseURL,
	}
}

// FilePath returns the store path of a tenant's robots.txt for a locale.
func FilePath(tenantID uuid.UUID, locale string) string {
	return fmt.Sprintf("robots/%s/%s/robots.txt", tenantID, locale)
}

// Compile returns the robots.txt content for a tenant and locale without
// writing anything.
func (s *Service) Compile(ctx context.Context, tenantID uuid.UUID, locale string) (string, error) {
	cfg, err := s.configs.Get(ctx, tenantID, locale)
	if err != nil {
		return "", err
	}
	return Compile(cfg, s.baseURL), nil
}

// Generate compiles and writes the robots.txt artifact, stamping
// last_generated_at/by on the config. Validation warnings are logged, not
// returned.
func (s *Service) Generate(ctx context.Context, tenantID uuid.UUID, locale, by string) (string, error) {
	cfg, err := s.configs.Get(ctx, tenantID, locale)
	if err != nil {
		return "", err
	}

	warnings, err := Validate(cfg, s.baseURL)
	if err != nil {
		return "", err
	}
	for _, w := range warnings {
		s.logger.Warn("robots config warning",
			logger.String("tenant_id", tenantID.String()),
			logger.String("locale", locale),
			logger.String("warning", w),
		)
	}

	content := Compile(cfg, s.baseURL)
	path := FilePath(tenantID, locale)
	if err := s.store.Write(path, []byte(content)); err != nil {
		return "", fmt.Errorf("write robots.txt: %w", err)
	}

	if err := s.configs.MarkGenerated(ctx, cfg.ID, by); err != nil {
		return "", fmt.Errorf("stamp robots config: %w", err)
	}

	s.logger.Info("robots.txt generated",
		logger.String("tenant_id", tenantID.String()),
		logger.String("locale", locale),
		logger.String("path", path),
	)

	return path, nil
}
