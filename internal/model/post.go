// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Post statuses share the page vocabulary.
const (
	PostStatusDraft     = PageStatusDraft
	PostStatusPublished = PageStatusPublished
)

// Post is a markdown blog post.
type Post struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Content     string     `json:"content"`
	ContentHTML string     `json:"content_html,omitempty"`
	Excerpt     string     `json:"excerpt"`
	Status      string     `json:"status"`
	UserID      int64      `json:"user_id"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Categories  []Category `json:"categories,omitempty"`
	Tags        []Tag      `json:"tags,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsPublished returns true if the post is published.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}
