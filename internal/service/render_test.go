// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/landing-cms/internal/cache"
	"github.com/olegiv/landing-cms/internal/model"
	"github.com/olegiv/landing-cms/internal/testutil"
)

type countingSource struct {
	inner PublishedPageSource
	calls atomic.Int32
}

func (s *countingSource) GetPageBySlug(ctx context.Context, slug string) (*model.Page, error) {
	s.calls.Add(1)
	return s.inner.GetPageBySlug(ctx, slug)
}

func TestRender_ActiveSectionsInOrder(t *testing.T) {
	svc := NewRenderService(nil, nil, RenderOptions{}, testutil.TestLoggerSilent())

	page := &model.Page{
		Title: "Launch <Day> & \"More\"",
		Slug:  "launch",
		Sections: []model.Section{
			{OrderNum: 5, IsActive: true, DefaultHTML: "<div id=\"third\">default</div>"},
			{OrderNum: 1, IsActive: true, CustomContent: "<div id=\"first\">custom</div>", DefaultHTML: "<div>ignored</div>"},
			{OrderNum: 2, IsActive: false, CustomContent: "<div id=\"hidden\"></div>"},
			{OrderNum: 3, IsActive: true},
		},
	}

	html, err := svc.Render(page)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, `<meta charset="UTF-8">`)
	assert.Contains(t, html, "<title>Launch &lt;Day&gt; &amp; &#34;More&#34;</title>")
	assert.Contains(t, html, `<meta name="description" content="Launch &lt;Day&gt; &amp; &#34;More&#34;">`)
	assert.Contains(t, html, DefaultStylesheetURL)
	assert.Contains(t, html, DefaultScriptURL)
	assert.NotContains(t, html, "hidden")
	assert.NotContains(t, html, "ignored")

	first := strings.Index(html, `<div id="first">custom</div>`)
	third := strings.Index(html, `<div id="third">default</div>`)
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, third)
	assert.Less(t, first, third)
}

func TestRender_CustomAssets(t *testing.T) {
	svc := NewRenderService(nil, nil, RenderOptions{
		StylesheetURL: "https://static.example.com/site.css",
		ScriptURL:     "https://static.example.com/site.js",
	}, nil)

	html, err := svc.Render(&model.Page{Title: "T"})
	require.NoError(t, err)
	assert.Contains(t, html, `href="https://static.example.com/site.css"`)
	assert.Contains(t, html, `src="https://static.example.com/site.js"`)
	assert.NotContains(t, html, "bootstrap")
}

func TestGetPageBySlug(t *testing.T) {
	f := newPageFixture(t)
	ctx := context.Background()
	p := f.createPage(t, "Public")
	f.addSection(t, p.ID, f.hero.ID, "")
	hidden := f.addSection(t, p.ID, f.features.ID, "")
	_, err := f.pages.UpdateSection(ctx, ownerID, hidden.ID, UpdateSectionInput{IsActive: ptr(false)})
	require.NoError(t, err)

	_, err = f.render.GetPageBySlug(ctx, "public")
	assert.ErrorIs(t, err, ErrNotFound, "drafts are not public")

	_, err = f.pages.Publish(ctx, ownerID, p.ID)
	require.NoError(t, err)

	page, err := f.render.GetPageBySlug(ctx, "public")
	require.NoError(t, err)
	require.Len(t, page.Sections, 1)
	assert.Equal(t, "hero", page.Sections[0].TemplateType)
	assert.Equal(t, f.hero.DefaultHtml, page.Sections[0].DefaultHTML)

	_, err = f.render.GetPageBySlug(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRenderPublicPage_CacheHitSkipsFetch(t *testing.T) {
	f := newPageFixture(t)
	ctx := context.Background()
	p := f.createPage(t, "Cached")
	f.addSection(t, p.ID, f.hero.ID, "")
	_, err := f.pages.Publish(ctx, ownerID, p.ID)
	require.NoError(t, err)

	spy := &countingSource{inner: NewPublishedPages(f.db)}
	svc := NewRenderService(spy, f.cache, RenderOptions{}, testutil.TestLoggerSilent())

	first, err := svc.RenderPublicPage(ctx, "cached")
	require.NoError(t, err)
	second, err := svc.RenderPublicPage(ctx, "cached")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, spy.calls.Load())
}

func TestRenderPublicPage_ExpiresAfterTTL(t *testing.T) {
	f := newPageFixture(t)
	ctx := context.Background()
	p := f.createPage(t, "Expiring")
	f.addSection(t, p.ID, f.hero.ID, "")
	_, err := f.pages.Publish(ctx, ownerID, p.ID)
	require.NoError(t, err)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mem := cache.NewMemoryCache(cache.MemoryCacheOptions{Now: func() time.Time { return now }})
	t.Cleanup(func() { _ = mem.Close() })
	rc := cache.NewRenderCache(mem, 0, testutil.TestLoggerSilent())

	spy := &countingSource{inner: NewPublishedPages(f.db)}
	svc := NewRenderService(spy, rc, RenderOptions{}, testutil.TestLoggerSilent())

	_, err = svc.RenderPublicPage(ctx, "expiring")
	require.NoError(t, err)

	now = now.Add(299 * time.Second)
	_, err = svc.RenderPublicPage(ctx, "expiring")
	require.NoError(t, err)
	assert.EqualValues(t, 1, spy.calls.Load())

	now = now.Add(time.Second)
	_, err = svc.RenderPublicPage(ctx, "expiring")
	require.NoError(t, err)
	assert.EqualValues(t, 2, spy.calls.Load())
}

func TestRenderPublicPage_NoCache(t *testing.T) {
	f := newPageFixture(t)
	ctx := context.Background()

	spy := &countingSource{inner: NewPublishedPages(f.db)}
	svc := NewRenderService(spy, nil, RenderOptions{}, nil)

	_, err := svc.RenderPublicPage(ctx, "nothing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.RenderPublicPage(ctx, "nothing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualValues(t, 2, spy.calls.Load())
}

func TestScenario_MyLaunch(t *testing.T) {
	f := newPageFixture(t)
	ctx := context.Background()

	page := f.createPage(t, "My Launch")
	require.Equal(t, "my-launch", page.Slug)

	sec := f.addSection(t, page.ID, f.hero.ID, "")
	require.Equal(t, 0, sec.OrderNum)

	published, err := f.pages.Publish(ctx, ownerID, page.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PageStatusPublished, published.Status)
	require.NotNil(t, published.PublishedAt)

	html, err := f.render.RenderPublicPage(ctx, "my-launch")
	require.NoError(t, err)
	assert.Contains(t, html, f.hero.DefaultHtml)
	assert.Contains(t, html, "<title>My Launch</title>")

	_, ok := f.cache.Get(ctx, "my-launch")
	require.True(t, ok, "render populates the cache")

	_, err = f.pages.Unpublish(ctx, ownerID, page.ID)
	require.NoError(t, err)

	_, ok = f.cache.Get(ctx, "my-launch")
	assert.False(t, ok, "unpublish invalidates the cached render")

	_, err = f.render.RenderPublicPage(ctx, "my-launch")
	assert.ErrorIs(t, err, ErrNotFound)
}
