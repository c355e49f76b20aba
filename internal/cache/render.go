// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// DefaultRenderTTL is how long a rendered page stays cached.
const DefaultRenderTTL = 5 * time.Minute

// RenderCache stores rendered public page HTML keyed by slug.
// A nil *RenderCache is valid and caches nothing.
type RenderCache struct {
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
}

// NewRenderCache wraps c. A non-positive ttl uses DefaultRenderTTL.
func NewRenderCache(c Cache, ttl time.Duration, logger *slog.Logger) *RenderCache {
	if ttl <= 0 {
		ttl = DefaultRenderTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RenderCache{cache: c, ttl: ttl, logger: logger}
}

// RenderKey returns the cache key for a page slug.
func RenderKey(slug string) string {
	return "page:" + slug
}

// TTL returns the entry lifetime.
func (r *RenderCache) TTL() time.Duration {
	if r == nil {
		return 0
	}
	return r.ttl
}

// Get returns the cached HTML for slug. Backend errors are logged and
// reported as a miss.
func (r *RenderCache) Get(ctx context.Context, slug string) (string, bool) {
	if r == nil || r.cache == nil {
		return "", false
	}

	data, err := r.cache.Get(ctx, RenderKey(slug))
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			r.logger.Warn("render cache get failed", "slug", slug, "error", err)
		}
		return "", false
	}
	return string(data), true
}

// Put stores html for slug for the configured TTL.
func (r *RenderCache) Put(ctx context.Context, slug, html string) {
	if r == nil || r.cache == nil {
		return
	}

	if err := r.cache.Set(ctx, RenderKey(slug), []byte(html), r.ttl); err != nil {
		r.logger.Warn("render cache put failed", "slug", slug, "error", err)
	}
}

// Invalidate drops the cached HTML for each slug.
func (r *RenderCache) Invalidate(ctx context.Context, slugs ...string) {
	if r == nil || r.cache == nil {
		return
	}

	for _, slug := range slugs {
		if slug == "" {
			continue
		}
		if err := r.cache.Delete(ctx, RenderKey(slug)); err != nil {
			r.logger.Warn("render cache invalidate failed", "slug", slug, "error", err)
		}
	}
}

// Stats returns backend statistics when the backend tracks them.
func (r *RenderCache) Stats() (Stats, bool) {
	if r == nil || r.cache == nil {
		return Stats{}, false
	}
	sp, ok := r.cache.(StatsProvider)
	if !ok {
		return Stats{}, false
	}
	return sp.Stats(), true
}
