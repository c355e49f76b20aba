// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/olegiv/landing-cms/internal/cache"
	"github.com/olegiv/landing-cms/internal/model"
	"github.com/olegiv/landing-cms/internal/notify"
	"github.com/olegiv/landing-cms/internal/store"
	"github.com/olegiv/landing-cms/internal/testutil"
)

const (
	ownerID = int64(1)
	otherID = int64(2)
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []*notify.Event
}

func (n *recordingNotifier) Notify(e *notify.Event) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
	return true
}

func (n *recordingNotifier) all() []*notify.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]*notify.Event(nil), n.events...)
}

// stepClock returns a clock that advances one second per call.
func stepClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

type pageFixture struct {
	db       *sql.DB
	pages    *PageService
	render   *RenderService
	cache    *cache.RenderCache
	notifier *recordingNotifier
	hero     store.BlockTemplate
	features store.BlockTemplate
}

func newPageFixture(t *testing.T) *pageFixture {
	t.Helper()

	db := testutil.TestDB(t)
	logger := testutil.TestLoggerSilent()
	mem := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: cache.DefaultRenderTTL})
	t.Cleanup(func() { _ = mem.Close() })

	rc := cache.NewRenderCache(mem, cache.DefaultRenderTTL, logger)
	n := &recordingNotifier{}

	pages := NewPageService(db, rc, n, logger)
	pages.now = stepClock()

	return &pageFixture{
		db:       db,
		pages:    pages,
		render:   NewRenderService(NewPublishedPages(db), rc, RenderOptions{}, logger),
		cache:    rc,
		notifier: n,
		hero:     testutil.CreateTemplate(t, db, "Hero", "hero", "<section class=\"hero\">Hero default</section>"),
		features: testutil.CreateTemplate(t, db, "Features", "features", "<section class=\"features\">Features default</section>"),
	}
}

func (f *pageFixture) createPage(t *testing.T, title string) *model.Page {
	t.Helper()
	p, err := f.pages.Create(context.Background(), ownerID, CreatePageInput{Title: title})
	require.NoError(t, err)
	return p
}

func (f *pageFixture) addSection(t *testing.T, pageID, templateID int64, content string) *model.Section {
	t.Helper()
	sec, err := f.pages.AddSection(context.Background(), ownerID, pageID, AddSectionInput{
		BlockTemplateID: templateID,
		CustomContent:   &content,
	})
	require.NoError(t, err)
	return sec
}

func ptr[T any](v T) *T { return &v }
