// Package worker provides the background sweep that regenerates stale
// sitemaps.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dealerhub/seo-engine/internal/locks"
	"github.com/dealerhub/seo-engine/internal/logger"
	"github.com/dealerhub/seo-engine/internal/metrics"
	"github.com/dealerhub/seo-engine/internal/models"
	"github.com/dealerhub/seo-engine/internal/scheduler"
	"github.com/dealerhub/seo-engine/internal/sitemap"
)

const defaultSweepInterval = 15 * time.Minute

// GenerationWorkerConfig holds configuration options.
type GenerationWorkerConfig struct {
	// SweepCron is a cron expression for the sweep schedule. When empty the
	// worker runs every SweepInterval.
	SweepCron string

	SweepInterval time.Duration
}

// GenerationWorker periodically bootstraps default configs and regenerates
// every sitemap that is due. Failures are isolated per tenant: one tenant's
// generation error never blocks the others.
type GenerationWorker struct {
	sched   *scheduler.Scheduler
	gen     *sitemap.Generator
	locks   *locks.Manager
	metrics *metrics.Metrics
	logger  logger.Logger
	tracer  trace.Tracer

	cron      *cron.Cron
	sweepSpec string

	stopChan chan struct{}
	wg       sync.WaitGroup
	started  bool
	mu       sync.Mutex
}

// NewGenerationWorker creates a generation worker. lockMgr may be nil, in
// which case runs are not guarded against concurrent workers.
func NewGenerationWorker(
	sched *scheduler.Scheduler,
	gen *sitemap.Generator,
	lockMgr *locks.Manager,
	m *metrics.Metrics,
	cfg GenerationWorkerConfig,
	log logger.Logger,
) *GenerationWorker {
	interval := cfg.SweepInterval
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	spec := cfg.SweepCron
	if spec == "" {
		spec = fmt.Sprintf("@every %s", interval)
	}

	return &GenerationWorker{
		sched:     sched,
		gen:       gen,
		locks:     lockMgr,
		metrics:   m,
		logger:    log,
		tracer:    otel.Tracer("generation-worker"),
		sweepSpec: spec,
		stopChan:  make(chan struct{}),
	}
}

// Start schedules the sweep. The first sweep runs immediately.
func (w *GenerationWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return nil
	}
	w.started = true
	w.mu.Unlock()

	w.cron = cron.New()
	_, err := w.cron.AddFunc(w.sweepSpec, func() {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		default:
		}
		w.Sweep(ctx)
	})
	if err != nil {
		return fmt.Errorf("schedule sweep %q: %w", w.sweepSpec, err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.Sweep(ctx)
	}()

	w.cron.Start()
	w.logger.Info("generation worker started",
		logger.String("sweep_schedule", w.sweepSpec),
	)
	return nil
}

// Stop gracefully stops the worker, waiting for a running sweep to finish.
func (w *GenerationWorker) Stop() {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return
	}
	w.started = false
	w.mu.Unlock()

	close(w.stopChan)
	if w.cron != nil {
		<-w.cron.Stop().Done()
	}
	w.wg.Wait()
	w.logger.Info("generation worker stopped")
}

// IsRunning returns whether the worker is currently running.
func (w *GenerationWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.started
}

// Sweep runs one full pass: ensure default configs, then regenerate every
// due sitemap. Also invoked directly by the one-shot CLI path.
func (w *GenerationWorker) Sweep(ctx context.Context) {
	ctx, span := w.tracer.Start(ctx, "generation.sweep")
	defer span.End()

	created, err := w.sched.EnsureDefaultConfigs(ctx)
	if err != nil {
		w.logger.Error("default config bootstrap failed", logger.Error(err))
	} else if created > 0 {
		w.logger.Info("default sitemap configs created", logger.Int("count", created))
	}
	if w.metrics != nil {
		w.metrics.RecordSweep(created)
	}

	due, err := w.sched.DueConfigs(ctx)
	if err != nil {
		w.logger.Error("listing due sitemap configs failed", logger.Error(err))
		return
	}
	if len(due) == 0 {
		return
	}

	w.logger.Debug("processing due sitemap configs", logger.Int("count", len(due)))
	for i := range due {
		w.generateOne(ctx, &due[i])
	}
}

// generateOne regenerates the sitemap for a single config. Errors are logged
// and recorded, never propagated; the sweep continues with the next tenant.
func (w *GenerationWorker) generateOne(ctx context.Context, cfg *models.SitemapConfig) {
	ctx, span := w.tracer.Start(ctx, "generation.run",
		trace.WithAttributes(
			attribute.String("tenant_id", cfg.TenantID.String()),
			attribute.String("sitemap_type", string(cfg.Type)),
		))
	defer span.End()

	if w.locks != nil {
		if err := w.locks.Acquire(ctx, cfg.TenantID, cfg.Type); err != nil {
			if errors.Is(err, models.ErrGenerationLocked) {
				if w.metrics != nil {
					w.metrics.RecordLockedSkip()
				}
				return
			}
			w.logger.Error("acquiring generation lock failed",
				logger.String("tenant_id", cfg.TenantID.String()),
				logger.Error(err),
			)
			return
		}
		defer func() {
			if err := w.locks.Release(ctx, cfg.TenantID, cfg.Type); err != nil {
				w.logger.Warn("releasing generation lock failed", logger.Error(err))
			}
		}()
	}

	if w.metrics != nil {
		w.metrics.GenerationsRunning.Inc()
		defer w.metrics.GenerationsRunning.Dec()
	}

	start := time.Now()
	result, err := w.gen.Generate(ctx, cfg.TenantID, cfg.Type, cfg.MaxItems(0), false)
	elapsed := time.Since(start)

	if err != nil {
		span.RecordError(err)
		if w.metrics != nil {
			w.metrics.RecordGeneration(string(cfg.Type), "failure", elapsed.Seconds(), 0, 0)
		}
		w.logger.Error("sitemap generation failed, tenant skipped",
			logger.String("tenant_id", cfg.TenantID.String()),
			logger.String("type", string(cfg.Type)),
			logger.Error(err),
		)
		return
	}

	if w.metrics != nil {
		w.metrics.RecordGeneration(string(cfg.Type), "success", elapsed.Seconds(), result.TotalURLs, len(result.Files))
	}
}
