// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/landing-cms/internal/model"
	"github.com/olegiv/landing-cms/internal/store"
	"github.com/olegiv/landing-cms/internal/util"
)

// ActivityEntry describes one activity log record.
type ActivityEntry struct {
	UserID     *int64
	Action     string
	EntityType string
	EntityID   string
	Details    string
	IPAddress  string
}

// ActivityService records and lists activity log entries.
type ActivityService struct {
	queries *store.Queries
	logger  *slog.Logger
	now     func() time.Time
}

// NewActivityService creates a new ActivityService.
func NewActivityService(db *sql.DB, logger *slog.Logger) *ActivityService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ActivityService{queries: store.New(db), logger: logger, now: time.Now}
}

// Record stores e.
func (s *ActivityService) Record(ctx context.Context, e ActivityEntry) error {
	if e.Action == "" {
		return invalid("action is required")
	}
	if e.EntityType == "" {
		e.EntityType = model.EntitySystem
	}

	_, err := s.queries.CreateActivityLog(ctx, store.CreateActivityLogParams{
		UserID:     util.NullInt64FromPtr(e.UserID),
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Details:    e.Details,
		IpAddress:  e.IPAddress,
		CreatedAt:  s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("recording activity: %w", err)
	}
	return nil
}

// List returns recent entries, newest first, optionally for one entity type.
func (s *ActivityService) List(ctx context.Context, entityType string, page, pageSize int) (*model.List[model.ActivityLog], error) {
	page, size := model.NormalizePaging(page, pageSize)

	rows, err := s.queries.ListActivityLogs(ctx, store.ListActivityLogsParams{
		EntityType: entityType,
		Limit:      int64(size),
		Offset:     int64(model.Offset(page, size)),
	})
	if err != nil {
		return nil, fmt.Errorf("listing activity: %w", err)
	}

	total, err := s.queries.CountActivityLogs(ctx, entityType)
	if err != nil {
		return nil, fmt.Errorf("counting activity: %w", err)
	}

	items := make([]model.ActivityLog, 0, len(rows))
	for _, r := range rows {
		items = append(items, activityFromStore(r))
	}
	return &model.List[model.ActivityLog]{Items: items, Total: total, Page: page, PageSize: size}, nil
}

// Prune deletes entries older than retention and returns how many were removed.
func (s *ActivityService) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, nil
	}
	n, err := s.queries.DeleteActivityLogsBefore(ctx, s.now().UTC().Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("pruning activity: %w", err)
	}
	if n > 0 {
		s.logger.Info("activity log pruned", "deleted", n, "retention", retention)
	}
	return n, nil
}
