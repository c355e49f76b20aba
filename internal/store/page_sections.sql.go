// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const sectionColumns = `id, page_id, block_template_id, order_num, is_active, custom_content, created_at, updated_at`

func scanPageSection(row interface{ Scan(...any) error }) (PageSection, error) {
	var i PageSection
	err := row.Scan(
		&i.ID,
		&i.PageID,
		&i.BlockTemplateID,
		&i.OrderNum,
		&i.IsActive,
		&i.CustomContent,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createPageSection = `-- name: CreatePageSection :one
INSERT INTO page_sections (page_id, block_template_id, order_num, is_active, custom_content, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING ` + sectionColumns

type CreatePageSectionParams struct {
	PageID          int64     `json:"page_id"`
	BlockTemplateID int64     `json:"block_template_id"`
	OrderNum        int64     `json:"order_num"`
	IsActive        bool      `json:"is_active"`
	CustomContent   string    `json:"custom_content"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (q *Queries) CreatePageSection(ctx context.Context, arg CreatePageSectionParams) (PageSection, error) {
	row := q.db.QueryRowContext(ctx, createPageSection,
		arg.PageID,
		arg.BlockTemplateID,
		arg.OrderNum,
		arg.IsActive,
		arg.CustomContent,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanPageSection(row)
}

const getPageSectionForUser = `-- name: GetPageSectionForUser :one
SELECT s.id, s.page_id, s.block_template_id, s.order_num, s.is_active, s.custom_content, s.created_at, s.updated_at,
       p.status AS page_status, p.slug AS page_slug
FROM page_sections s
JOIN pages p ON p.id = s.page_id
WHERE s.id = ? AND p.user_id = ?`

type GetPageSectionForUserParams struct {
	ID     int64 `json:"id"`
	UserID int64 `json:"user_id"`
}

type GetPageSectionForUserRow struct {
	PageSection
	PageStatus string `json:"page_status"`
	PageSlug   string `json:"page_slug"`
}

func (q *Queries) GetPageSectionForUser(ctx context.Context, arg GetPageSectionForUserParams) (GetPageSectionForUserRow, error) {
	row := q.db.QueryRowContext(ctx, getPageSectionForUser, arg.ID, arg.UserID)
	var i GetPageSectionForUserRow
	err := row.Scan(
		&i.ID,
		&i.PageID,
		&i.BlockTemplateID,
		&i.OrderNum,
		&i.IsActive,
		&i.CustomContent,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.PageStatus,
		&i.PageSlug,
	)
	return i, err
}

const updatePageSection = `-- name: UpdatePageSection :one
UPDATE page_sections
SET order_num = ?, is_active = ?, custom_content = ?, updated_at = ?
WHERE id = ?
RETURNING ` + sectionColumns

type UpdatePageSectionParams struct {
	OrderNum      int64     `json:"order_num"`
	IsActive      bool      `json:"is_active"`
	CustomContent string    `json:"custom_content"`
	UpdatedAt     time.Time `json:"updated_at"`
	ID            int64     `json:"id"`
}

func (q *Queries) UpdatePageSection(ctx context.Context, arg UpdatePageSectionParams) (PageSection, error) {
	row := q.db.QueryRowContext(ctx, updatePageSection,
		arg.OrderNum,
		arg.IsActive,
		arg.CustomContent,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanPageSection(row)
}

const updatePageSectionOrder = `-- name: UpdatePageSectionOrder :exec
UPDATE page_sections SET order_num = ?, updated_at = ? WHERE id = ? AND page_id = ?`

type UpdatePageSectionOrderParams struct {
	OrderNum  int64     `json:"order_num"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        int64     `json:"id"`
	PageID    int64     `json:"page_id"`
}

func (q *Queries) UpdatePageSectionOrder(ctx context.Context, arg UpdatePageSectionOrderParams) error {
	_, err := q.db.ExecContext(ctx, updatePageSectionOrder,
		arg.OrderNum,
		arg.UpdatedAt,
		arg.ID,
		arg.PageID,
	)
	return err
}

const deletePageSection = `-- name: DeletePageSection :exec
DELETE FROM page_sections WHERE id = ?`

func (q *Queries) DeletePageSection(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deletePageSection, id)
	return err
}

const countPageSections = `-- name: CountPageSections :one
SELECT COUNT(*) FROM page_sections WHERE page_id = ?`

func (q *Queries) CountPageSections(ctx context.Context, pageID int64) (int64, error) {
	row := q.db.QueryRowContext(ctx, countPageSections, pageID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const getMaxSectionOrder = `-- name: GetMaxSectionOrder :one
SELECT COALESCE(MAX(order_num), -1) FROM page_sections WHERE page_id = ?`

func (q *Queries) GetMaxSectionOrder(ctx context.Context, pageID int64) (int64, error) {
	row := q.db.QueryRowContext(ctx, getMaxSectionOrder, pageID)
	var maxOrder int64
	err := row.Scan(&maxOrder)
	return maxOrder, err
}

const listPageSections = `-- name: ListPageSections :many
SELECT ` + sectionColumns + ` FROM page_sections WHERE page_id = ? ORDER BY order_num ASC, id ASC`

func (q *Queries) ListPageSections(ctx context.Context, pageID int64) ([]PageSection, error) {
	rows, err := q.db.QueryContext(ctx, listPageSections, pageID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []PageSection{}
	for rows.Next() {
		i, err := scanPageSection(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// PageSectionWithTemplateRow is a section joined with its block template.
type PageSectionWithTemplateRow struct {
	PageSection
	TemplateName string `json:"template_name"`
	TemplateType string `json:"template_type"`
	DefaultHtml  string `json:"default_html"`
}

const listPageSectionsWithTemplate = `-- name: ListPageSectionsWithTemplate :many
SELECT s.id, s.page_id, s.block_template_id, s.order_num, s.is_active, s.custom_content, s.created_at, s.updated_at,
       t.name, t.type, t.default_html
FROM page_sections s
JOIN block_templates t ON t.id = s.block_template_id
WHERE s.page_id = ?
ORDER BY s.order_num ASC, s.id ASC`

func (q *Queries) ListPageSectionsWithTemplate(ctx context.Context, pageID int64) ([]PageSectionWithTemplateRow, error) {
	return q.listSectionsWithTemplate(ctx, listPageSectionsWithTemplate, pageID)
}

const listActiveSectionsWithTemplate = `-- name: ListActiveSectionsWithTemplate :many
SELECT s.id, s.page_id, s.block_template_id, s.order_num, s.is_active, s.custom_content, s.created_at, s.updated_at,
       t.name, t.type, t.default_html
FROM page_sections s
JOIN block_templates t ON t.id = s.block_template_id
WHERE s.page_id = ? AND s.is_active = 1
ORDER BY s.order_num ASC, s.id ASC`

func (q *Queries) ListActiveSectionsWithTemplate(ctx context.Context, pageID int64) ([]PageSectionWithTemplateRow, error) {
	return q.listSectionsWithTemplate(ctx, listActiveSectionsWithTemplate, pageID)
}

func (q *Queries) listSectionsWithTemplate(ctx context.Context, query string, pageID int64) ([]PageSectionWithTemplateRow, error) {
	rows, err := q.db.QueryContext(ctx, query, pageID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []PageSectionWithTemplateRow{}
	for rows.Next() {
		var i PageSectionWithTemplateRow
		if err := rows.Scan(
			&i.ID,
			&i.PageID,
			&i.BlockTemplateID,
			&i.OrderNum,
			&i.IsActive,
			&i.CustomContent,
			&i.CreatedAt,
			&i.UpdatedAt,
			&i.TemplateName,
			&i.TemplateType,
			&i.DefaultHtml,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
