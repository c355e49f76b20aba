// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"slices"

	"github.com/olegiv/landing-cms/internal/cache"
	"github.com/olegiv/landing-cms/internal/model"
	"github.com/olegiv/landing-cms/internal/store"
)

// Default public page assets.
const (
	DefaultStylesheetURL = "https://cdn.jsdelivr.net/npm/bootstrap@5.3.0/dist/css/bootstrap.min.css"
	DefaultScriptURL     = "https://cdn.jsdelivr.net/npm/bootstrap@5.3.0/dist/js/bootstrap.bundle.min.js"
)

// PublishedPageSource loads a published page with its active sections.
type PublishedPageSource interface {
	GetPageBySlug(ctx context.Context, slug string) (*model.Page, error)
}

// PublishedPages reads published pages from the database.
type PublishedPages struct {
	queries *store.Queries
}

// NewPublishedPages creates a PublishedPages over db.
func NewPublishedPages(db store.DBTX) *PublishedPages {
	return &PublishedPages{queries: store.New(db)}
}

// GetPageBySlug returns the published page with its active sections in
// ascending order, joined with their template defaults.
func (p *PublishedPages) GetPageBySlug(ctx context.Context, slug string) (*model.Page, error) {
	row, err := p.queries.GetPublishedPageBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("page not found")
		}
		return nil, fmt.Errorf("getting published page: %w", err)
	}

	sections, err := p.queries.ListActiveSectionsWithTemplate(ctx, row.ID)
	if err != nil {
		return nil, fmt.Errorf("listing active sections: %w", err)
	}

	page := pageFromStore(row)
	page.Sections = sectionsFromRows(sections)
	return page, nil
}

// RenderOptions configures the public page shell.
type RenderOptions struct {
	StylesheetURL string
	ScriptURL     string
}

// RenderService turns published pages into complete HTML documents.
type RenderService struct {
	source PublishedPageSource
	cache  *cache.RenderCache
	opts   RenderOptions
	logger *slog.Logger
}

// NewRenderService creates a RenderService. renderCache may be nil.
func NewRenderService(source PublishedPageSource, renderCache *cache.RenderCache, opts RenderOptions, logger *slog.Logger) *RenderService {
	if opts.StylesheetURL == "" {
		opts.StylesheetURL = DefaultStylesheetURL
	}
	if opts.ScriptURL == "" {
		opts.ScriptURL = DefaultScriptURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RenderService{source: source, cache: renderCache, opts: opts, logger: logger}
}

// GetPageBySlug returns the fully composed published page.
func (s *RenderService) GetPageBySlug(ctx context.Context, slug string) (*model.Page, error) {
	return s.source.GetPageBySlug(ctx, slug)
}

// RenderPublicPage returns the HTML for the published page at slug, from
// the render cache when possible. Concurrent misses each render and store.
func (s *RenderService) RenderPublicPage(ctx context.Context, slug string) (string, error) {
	if html, ok := s.cache.Get(ctx, slug); ok {
		return html, nil
	}

	page, err := s.source.GetPageBySlug(ctx, slug)
	if err != nil {
		return "", err
	}

	html, err := s.Render(page)
	if err != nil {
		return "", err
	}

	s.cache.Put(ctx, slug, html)
	s.logger.Debug("page rendered", "slug", slug, "sections", len(page.Sections))
	return html, nil
}

var pageShell = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <meta name="description" content="{{.Title}}">
    <link rel="stylesheet" href="{{.StylesheetURL}}">
</head>
<body>
{{range .Sections}}{{.}}
{{end}}    <script src="{{.ScriptURL}}"></script>
</body>
</html>
`))

type shellData struct {
	Title         string
	StylesheetURL string
	ScriptURL     string
	Sections      []template.HTML
}

// Render builds the document for page. Only active sections are emitted,
// in ascending order. Section bodies are trusted author HTML and are not
// escaped; the title is.
func (s *RenderService) Render(page *model.Page) (string, error) {
	data := shellData{
		Title:         page.Title,
		StylesheetURL: s.opts.StylesheetURL,
		ScriptURL:     s.opts.ScriptURL,
	}
	for _, sec := range orderedActive(page.Sections) {
		data.Sections = append(data.Sections, template.HTML(sec.Content()))
	}

	var buf bytes.Buffer
	if err := pageShell.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering page %q: %w", page.Slug, err)
	}
	return buf.String(), nil
}

// orderedActive returns the active sections sorted by order number. The
// source query already orders them; this keeps Render correct for any input.
func orderedActive(sections []model.Section) []model.Section {
	active := make([]model.Section, 0, len(sections))
	for _, sec := range sections {
		if sec.IsActive {
			active = append(active, sec)
		}
	}
	slices.SortStableFunc(active, func(a, b model.Section) int {
		return cmp.Compare(a.OrderNum, b.OrderNum)
	})
	return active
}
