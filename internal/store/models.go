// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

type ActivityLog struct {
	ID         int64         `json:"id"`
	UserID     sql.NullInt64 `json:"user_id"`
	Action     string        `json:"action"`
	EntityType string        `json:"entity_type"`
	EntityID   string        `json:"entity_id"`
	Details    string        `json:"details"`
	IpAddress  string        `json:"ip_address"`
	CreatedAt  time.Time     `json:"created_at"`
}

type BlockTemplate struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	DefaultHtml string    `json:"default_html"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

type Lead struct {
	ID          int64     `json:"id"`
	PageID      int64     `json:"page_id"`
	FormData    string    `json:"form_data"`
	IpAddress   string    `json:"ip_address"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type Page struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Slug        string       `json:"slug"`
	Status      string       `json:"status"`
	UserID      int64        `json:"user_id"`
	PublishedAt sql.NullTime `json:"published_at"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type PageSection struct {
	ID              int64     `json:"id"`
	PageID          int64     `json:"page_id"`
	BlockTemplateID int64     `json:"block_template_id"`
	OrderNum        int64     `json:"order_num"`
	IsActive        bool      `json:"is_active"`
	CustomContent   string    `json:"custom_content"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type Post struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Slug        string       `json:"slug"`
	Content     string       `json:"content"`
	Excerpt     string       `json:"excerpt"`
	Status      string       `json:"status"`
	UserID      int64        `json:"user_id"`
	PublishedAt sql.NullTime `json:"published_at"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type Form struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	FieldsJson  string    `json:"fields_json"`
	IsActive    bool      `json:"is_active"`
	UserID      int64     `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type FormSubmission struct {
	ID          int64     `json:"id"`
	FormID      int64     `json:"form_id"`
	DataJson    string    `json:"data_json"`
	IpAddress   string    `json:"ip_address"`
	UserAgent   string    `json:"user_agent"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type Menu struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type MenuItem struct {
	ID        int64         `json:"id"`
	MenuID    int64         `json:"menu_id"`
	ParentID  sql.NullInt64 `json:"parent_id"`
	Label     string        `json:"label"`
	Url       string        `json:"url"`
	OrderNum  int64         `json:"order_num"`
	IsActive  bool          `json:"is_active"`
	CreatedAt time.Time     `json:"created_at"`
}

type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type Tag struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}
