// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRenderCache_PutGetInvalidate(t *testing.T) {
	clock := newFakeClock()
	mem := NewMemoryCache(MemoryCacheOptions{Now: clock.Now})
	defer func() { _ = mem.Close() }()

	rc := NewRenderCache(mem, 0, discardLogger())
	assert.Equal(t, DefaultRenderTTL, rc.TTL())

	ctx := context.Background()
	_, ok := rc.Get(ctx, "my-launch")
	assert.False(t, ok)

	rc.Put(ctx, "my-launch", "<html>v1</html>")
	html, ok := rc.Get(ctx, "my-launch")
	require.True(t, ok)
	assert.Equal(t, "<html>v1</html>", html)

	has, err := mem.Has(ctx, "page:my-launch")
	require.NoError(t, err)
	assert.True(t, has, "entries are keyed page:{slug}")

	rc.Invalidate(ctx, "my-launch", "")
	_, ok = rc.Get(ctx, "my-launch")
	assert.False(t, ok)
}

func TestRenderCache_ExpiresAfterTTL(t *testing.T) {
	clock := newFakeClock()
	mem := NewMemoryCache(MemoryCacheOptions{Now: clock.Now})
	defer func() { _ = mem.Close() }()

	rc := NewRenderCache(mem, 300*time.Second, discardLogger())
	ctx := context.Background()
	rc.Put(ctx, "promo", "<html></html>")

	clock.Advance(299 * time.Second)
	_, ok := rc.Get(ctx, "promo")
	assert.True(t, ok)

	clock.Advance(time.Second)
	_, ok = rc.Get(ctx, "promo")
	assert.False(t, ok)
}

func TestRenderCache_NilIsNoop(t *testing.T) {
	var rc *RenderCache
	ctx := context.Background()

	rc.Put(ctx, "x", "y")
	rc.Invalidate(ctx, "x")
	_, ok := rc.Get(ctx, "x")
	assert.False(t, ok)
	_, ok = rc.Stats()
	assert.False(t, ok)
}

// failingCache returns an error from every operation.
type failingCache struct{}

var errBackend = errors.New("backend down")

func (failingCache) Get(context.Context, string) ([]byte, error)              { return nil, errBackend }
func (failingCache) Set(context.Context, string, []byte, time.Duration) error { return errBackend }
func (failingCache) Delete(context.Context, string) error                     { return errBackend }
func (failingCache) Clear(context.Context) error                              { return errBackend }
func (failingCache) Has(context.Context, string) (bool, error)                { return false, errBackend }
func (failingCache) Close() error                                             { return nil }

func TestRenderCache_BackendErrorsAreMisses(t *testing.T) {
	rc := NewRenderCache(failingCache{}, time.Minute, discardLogger())
	ctx := context.Background()

	rc.Put(ctx, "x", "y")
	_, ok := rc.Get(ctx, "x")
	assert.False(t, ok)
	rc.Invalidate(ctx, "x")
}

func TestRenderCache_Stats(t *testing.T) {
	mem := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute})
	defer func() { _ = mem.Close() }()
	rc := NewRenderCache(mem, time.Minute, discardLogger())

	ctx := context.Background()
	rc.Put(ctx, "a", "1")
	rc.Get(ctx, "a")

	stats, ok := rc.Stats()
	require.True(t, ok)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, 1, stats.Items)
}

func TestNew_FallsBackToMemory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RedisURL = "redis://127.0.0.1:1/0"
	c := New(cfg, discardLogger())
	defer func() { _ = c.Close() }()

	_, isMemory := c.(*MemoryCache)
	assert.True(t, isMemory)
}

func TestNew_Memory(t *testing.T) {
	c := New(DefaultConfig(), discardLogger())
	defer func() { _ = c.Close() }()

	_, isMemory := c.(*MemoryCache)
	assert.True(t, isMemory)
}
