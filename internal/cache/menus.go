// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/olegiv/landing-cms/internal/model"
)

// DefaultMenuTTL bounds how long a menu tree is served from cache. Any menu
// change invalidates every location sooner.
const DefaultMenuTTL = time.Hour

// MenuCache stores public menu trees keyed by location.
// A nil *MenuCache is valid and caches nothing.
type MenuCache struct {
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
}

// NewMenuCache wraps c. A non-positive ttl uses DefaultMenuTTL.
func NewMenuCache(c Cache, ttl time.Duration, logger *slog.Logger) *MenuCache {
	if ttl <= 0 {
		ttl = DefaultMenuTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MenuCache{cache: c, ttl: ttl, logger: logger}
}

// MenuKey returns the cache key for a menu location.
func MenuKey(location string) string {
	return "menu:" + location
}

// Get returns the cached menu at location. A cached nil means the location
// has no active menu.
func (m *MenuCache) Get(ctx context.Context, location string) (*model.Menu, bool) {
	if m == nil || m.cache == nil {
		return nil, false
	}

	data, err := m.cache.Get(ctx, MenuKey(location))
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			m.logger.Warn("menu cache get failed", "location", location, "error", err)
		}
		return nil, false
	}

	var menu *model.Menu
	if err := json.Unmarshal(data, &menu); err != nil {
		m.logger.Warn("menu cache entry unreadable", "location", location, "error", err)
		return nil, false
	}
	return menu, true
}

// Put stores menu for location. menu may be nil.
func (m *MenuCache) Put(ctx context.Context, location string, menu *model.Menu) {
	if m == nil || m.cache == nil {
		return
	}

	data, err := json.Marshal(menu)
	if err != nil {
		m.logger.Warn("menu cache encode failed", "location", location, "error", err)
		return
	}
	if err := m.cache.Set(ctx, MenuKey(location), data, m.ttl); err != nil {
		m.logger.Warn("menu cache put failed", "location", location, "error", err)
	}
}

// Invalidate drops every cached location. Menus can move between
// locations, so a single change clears them all.
func (m *MenuCache) Invalidate(ctx context.Context) {
	if m == nil || m.cache == nil {
		return
	}

	for _, location := range []string{model.MenuLocationHeader, model.MenuLocationFooter} {
		if err := m.cache.Delete(ctx, MenuKey(location)); err != nil {
			m.logger.Warn("menu cache invalidate failed", "location", location, "error", err)
		}
	}
}
