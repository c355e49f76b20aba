// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models and types used throughout the application.
package model

import "time"

// Page statuses
const (
	PageStatusDraft     = "draft"
	PageStatusPublished = "published"
)

// Page is a landing page composed of ordered sections.
type Page struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Status      string     `json:"status"`
	UserID      int64      `json:"user_id"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Sections    []Section  `json:"sections,omitempty"`
}

// IsPublished returns true if the page is published.
func (p *Page) IsPublished() bool {
	return p.Status == PageStatusPublished
}

// IsDraft returns true if the page is a draft.
func (p *Page) IsDraft() bool {
	return p.Status == PageStatusDraft
}

// Section places one block template on a page at a given position.
type Section struct {
	ID              int64     `json:"id"`
	PageID          int64     `json:"page_id"`
	BlockTemplateID int64     `json:"block_template_id"`
	OrderNum        int       `json:"order_num"`
	IsActive        bool      `json:"is_active"`
	CustomContent   string    `json:"custom_content"`
	TemplateName    string    `json:"template_name,omitempty"`
	TemplateType    string    `json:"template_type,omitempty"`
	DefaultHTML     string    `json:"default_html,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Content returns the custom content when set, else the template default.
func (s *Section) Content() string {
	if s.CustomContent != "" {
		return s.CustomContent
	}
	return s.DefaultHTML
}

// PageSummary is a page row in a listing.
type PageSummary struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Slug         string     `json:"slug"`
	Status       string     `json:"status"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
	SectionCount int64      `json:"section_count"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// PageFilter narrows a page listing.
type PageFilter struct {
	Status        string
	SearchKeyword string
	Page          int
	PageSize      int
}
