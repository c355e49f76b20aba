// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/landing-cms/internal/cache"
)

// Default cron schedules.
const (
	DefaultPruneSchedule = "@daily"
	DefaultStatsSchedule = "@hourly"
)

// pruneTimeout bounds one retention run.
const pruneTimeout = 5 * time.Minute

// Pruner deletes activity log entries older than a retention window.
type Pruner interface {
	Prune(ctx context.Context, retention time.Duration) (int64, error)
}

// Config controls which jobs run and when.
type Config struct {
	// Retention is how long activity entries are kept. Zero disables pruning.
	Retention     time.Duration
	PruneSchedule string
	StatsSchedule string
}

// Scheduler prunes the activity log and reports render cache statistics.
type Scheduler struct {
	cron        *cron.Cron
	pruner      Pruner
	renderCache *cache.RenderCache
	cfg         Config
	logger      *slog.Logger
}

// New creates a new scheduler instance. renderCache may be nil.
func New(pruner Pruner, renderCache *cache.RenderCache, cfg Config, logger *slog.Logger) *Scheduler {
	if cfg.PruneSchedule == "" {
		cfg.PruneSchedule = DefaultPruneSchedule
	}
	if cfg.StatsSchedule == "" {
		cfg.StatsSchedule = DefaultStatsSchedule
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:        cron.New(),
		pruner:      pruner,
		renderCache: renderCache,
		cfg:         cfg,
		logger:      logger,
	}
}

// ValidateSchedule reports whether expr is a standard cron expression or
// descriptor such as @daily.
func ValidateSchedule(expr string) error {
	if _, err := cron.ParseStandard(expr); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", expr, err)
	}
	return nil
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	if s.pruner != nil && s.cfg.Retention > 0 {
		if _, err := s.cron.AddFunc(s.cfg.PruneSchedule, s.runPrune); err != nil {
			return fmt.Errorf("scheduling activity pruning: %w", err)
		}
	}

	if s.renderCache != nil {
		if _, err := s.cron.AddFunc(s.cfg.StatsSchedule, s.LogCacheStats); err != nil {
			return fmt.Errorf("scheduling cache stats: %w", err)
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) runPrune() {
	ctx, cancel := context.WithTimeout(context.Background(), pruneTimeout)
	defer cancel()

	if _, err := s.Prune(ctx); err != nil {
		s.logger.Error("failed to prune activity log", "error", err)
	}
}

// Prune deletes activity entries older than the configured retention.
func (s *Scheduler) Prune(ctx context.Context) (int64, error) {
	if s.pruner == nil || s.cfg.Retention <= 0 {
		return 0, nil
	}

	n, err := s.pruner.Prune(ctx, s.cfg.Retention)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("pruned activity log", "deleted", n, "retention", s.cfg.Retention)
	}
	return n, nil
}

// LogCacheStats logs render cache counters when the backend tracks them.
func (s *Scheduler) LogCacheStats() {
	stats, ok := s.renderCache.Stats()
	if !ok {
		return
	}
	s.logger.Info("render cache stats",
		"hits", stats.Hits,
		"misses", stats.Misses,
		"sets", stats.Sets,
		"items", stats.Items,
		"hit_rate", fmt.Sprintf("%.1f%%", stats.HitRate),
	)
}
