// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// BlockTemplate is a reusable content block that sections reference.
type BlockTemplate struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	DefaultHTML string    `json:"default_html"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// TemplateExport is the portable JSON form of a block template.
type TemplateExport struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	DefaultHTML string `json:"default_html"`
	Description string `json:"description"`
}

// TemplateFilter narrows a template listing. SortBy is name, type or created.
type TemplateFilter struct {
	Type     string
	Keyword  string
	SortBy   string
	SortDesc bool
	Page     int
	PageSize int
}
