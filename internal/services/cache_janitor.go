package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/dishboard/console/internal/upstream"
)

// JanitorConfig controls how often the cache is swept and how long stale
// entries are kept around.
type JanitorConfig struct {
	Interval  time.Duration
	Retention time.Duration
}

// CacheJanitor periodically evicts stale cache entries that no watcher is
// interested in anymore. Fresh entries and entries under active watch are
// never touched.
type CacheJanitor struct {
	cache  *upstream.Cache
	logger *zap.Logger
	cron   *cron.Cron
	cfg    JanitorConfig
}

func NewCacheJanitor(cache *upstream.Cache, logger *zap.Logger, cfg JanitorConfig) *CacheJanitor {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 15 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	j := &CacheJanitor{
		cache:  cache,
		logger: logger,
		cfg:    cfg,
		cron:   cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = j.cron.AddFunc(schedule, j.sweep)

	return j
}

// Start launches the cron scheduler.
func (j *CacheJanitor) Start() {
	if j == nil || j.cron == nil {
		return
	}
	j.cron.Start()
	j.logger.Info("cache janitor started",
		zap.Duration("interval", j.cfg.Interval),
		zap.Duration("retention", j.cfg.Retention))
}

// Stop gracefully stops the scheduler.
func (j *CacheJanitor) Stop(ctx context.Context) {
	if j == nil || j.cron == nil {
		return
	}
	stopCtx := j.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	j.logger.Info("cache janitor stopped")
}

func (j *CacheJanitor) sweep() {
	if j.cache == nil {
		return
	}
	cutoff := time.Now().Add(-j.cfg.Retention)
	if evicted := j.cache.Sweep(cutoff); evicted > 0 {
		j.logger.Debug("swept stale cache entries", zap.Int("evicted", evicted))
	}
}
