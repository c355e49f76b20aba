// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo builds sitemap.xml and robots.txt for the public site.
package seo

import (
	"encoding/xml"
	"strings"
	"time"
)

// XMLNamespace is the sitemap XML namespace.
const XMLNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// ChangeFreq represents the change frequency of a URL.
type ChangeFreq string

// Valid change frequency values.
const (
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
)

// SitemapURL represents a single URL entry in the sitemap.
type SitemapURL struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq `xml:"changefreq,omitempty"`
	Priority   string     `xml:"priority,omitempty"`
}

// Sitemap represents the complete sitemap document.
type Sitemap struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// Entry is a published item: a landing page or a blog post.
type Entry struct {
	Slug      string
	UpdatedAt time.Time
}

// SitemapBuilder collects public URLs and renders them as XML.
type SitemapBuilder struct {
	siteURL string
	urls    []SitemapURL
}

// NewSitemapBuilder creates a builder for siteURL. A trailing slash is
// dropped.
func NewSitemapBuilder(siteURL string) *SitemapBuilder {
	return &SitemapBuilder{
		siteURL: strings.TrimSuffix(siteURL, "/"),
		urls:    make([]SitemapURL, 0),
	}
}

// AddLandingPage adds a published landing page at /view/{slug}.
func (b *SitemapBuilder) AddLandingPage(e Entry) {
	b.add("/view/"+e.Slug, e.UpdatedAt, ChangeFreqWeekly, "0.8")
}

// AddBlogIndex adds the blog index at /blog.
func (b *SitemapBuilder) AddBlogIndex(lastMod time.Time) {
	b.add("/blog", lastMod, ChangeFreqDaily, "0.6")
}

// AddPost adds a published blog post at /blog/{slug}.
func (b *SitemapBuilder) AddPost(e Entry) {
	b.add("/blog/"+e.Slug, e.UpdatedAt, ChangeFreqMonthly, "0.5")
}

func (b *SitemapBuilder) add(path string, lastMod time.Time, freq ChangeFreq, priority string) {
	u := SitemapURL{
		Loc:        b.siteURL + path,
		ChangeFreq: freq,
		Priority:   priority,
	}
	if !lastMod.IsZero() {
		u.LastMod = lastMod.UTC().Format(time.RFC3339)
	}
	b.urls = append(b.urls, u)
}

// Len returns the number of URLs added so far.
func (b *SitemapBuilder) Len() int {
	return len(b.urls)
}

// Build generates the sitemap XML.
func (b *SitemapBuilder) Build() ([]byte, error) {
	sitemap := Sitemap{
		XMLNS: XMLNamespace,
		URLs:  b.urls,
	}

	output := []byte(xml.Header)
	xmlBytes, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}

	return append(output, xmlBytes...), nil
}

// GenerateSitemap renders pages and posts. The blog index is included
// when there is at least one post and takes the newest post's time.
func GenerateSitemap(siteURL string, pages, posts []Entry) ([]byte, error) {
	builder := NewSitemapBuilder(siteURL)
	for _, p := range pages {
		builder.AddLandingPage(p)
	}
	if len(posts) > 0 {
		var newest time.Time
		for _, p := range posts {
			if p.UpdatedAt.After(newest) {
				newest = p.UpdatedAt
			}
		}
		builder.AddBlogIndex(newest)
		for _, p := range posts {
			builder.AddPost(p)
		}
	}
	return builder.Build()
}
