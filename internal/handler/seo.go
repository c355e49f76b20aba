// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"

	"github.com/olegiv/landing-cms/internal/seo"
	"github.com/olegiv/landing-cms/internal/store"
)

// sitemapPostLimit caps the number of blog posts listed in sitemap.xml.
const sitemapPostLimit = 1000

// SEOHandler serves sitemap.xml and robots.txt.
type SEOHandler struct {
	queries     *store.Queries
	siteURL     string
	disallowAll bool
	logger      *slog.Logger
}

// NewSEOHandler creates a new SEO handler. An empty siteURL is derived
// from each request. disallowAll blocks all crawlers.
func NewSEOHandler(db *sql.DB, siteURL string, disallowAll bool, logger *slog.Logger) *SEOHandler {
	return &SEOHandler{
		queries:     store.New(db),
		siteURL:     strings.TrimSuffix(siteURL, "/"),
		disallowAll: disallowAll,
		logger:      logger,
	}
}

// Sitemap handles GET /sitemap.xml.
func (h *SEOHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	pageRows, err := h.queries.ListPublishedPageSlugs(ctx)
	if err != nil {
		h.logger.Error("failed to list published pages for sitemap", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	postRows, err := h.queries.ListPublishedPosts(ctx, store.ListPublishedPostsParams{Limit: sitemapPostLimit})
	if err != nil {
		h.logger.Error("failed to list published posts for sitemap", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	pages := make([]seo.Entry, 0, len(pageRows))
	for _, p := range pageRows {
		pages = append(pages, seo.Entry{Slug: p.Slug, UpdatedAt: p.UpdatedAt})
	}
	posts := make([]seo.Entry, 0, len(postRows))
	for _, p := range postRows {
		posts = append(posts, seo.Entry{Slug: p.Slug, UpdatedAt: p.UpdatedAt})
	}

	data, err := seo.GenerateSitemap(h.baseURL(r), pages, posts)
	if err != nil {
		h.logger.Error("failed to build sitemap", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(data)
}

// Robots handles GET /robots.txt.
func (h *SEOHandler) Robots(w http.ResponseWriter, r *http.Request) {
	content := seo.NewRobotsBuilder(seo.RobotsConfig{
		SiteURL:     h.baseURL(r),
		DisallowAll: h.disallowAll,
	}).Build()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(content))
}

func (h *SEOHandler) baseURL(r *http.Request) string {
	if h.siteURL != "" {
		return h.siteURL
	}
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
