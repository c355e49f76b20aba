// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const templateColumns = `id, name, type, default_html, description, is_active, created_at`

func scanBlockTemplate(row interface{ Scan(...any) error }) (BlockTemplate, error) {
	var i BlockTemplate
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Type,
		&i.DefaultHtml,
		&i.Description,
		&i.IsActive,
		&i.CreatedAt,
	)
	return i, err
}

const createBlockTemplate = `-- name: CreateBlockTemplate :one
INSERT INTO block_templates (name, type, default_html, description, is_active, created_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING ` + templateColumns

type CreateBlockTemplateParams struct {
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	DefaultHtml string    `json:"default_html"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func (q *Queries) CreateBlockTemplate(ctx context.Context, arg CreateBlockTemplateParams) (BlockTemplate, error) {
	row := q.db.QueryRowContext(ctx, createBlockTemplate,
		arg.Name,
		arg.Type,
		arg.DefaultHtml,
		arg.Description,
		arg.IsActive,
		arg.CreatedAt,
	)
	return scanBlockTemplate(row)
}

const getBlockTemplate = `-- name: GetBlockTemplate :one
SELECT ` + templateColumns + ` FROM block_templates WHERE id = ?`

func (q *Queries) GetBlockTemplate(ctx context.Context, id int64) (BlockTemplate, error) {
	return scanBlockTemplate(q.db.QueryRowContext(ctx, getBlockTemplate, id))
}

const updateBlockTemplate = `-- name: UpdateBlockTemplate :one
UPDATE block_templates
SET name = ?, type = ?, default_html = ?, description = ?, is_active = ?
WHERE id = ?
RETURNING ` + templateColumns

type UpdateBlockTemplateParams struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	DefaultHtml string `json:"default_html"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
	ID          int64  `json:"id"`
}

func (q *Queries) UpdateBlockTemplate(ctx context.Context, arg UpdateBlockTemplateParams) (BlockTemplate, error) {
	row := q.db.QueryRowContext(ctx, updateBlockTemplate,
		arg.Name,
		arg.Type,
		arg.DefaultHtml,
		arg.Description,
		arg.IsActive,
		arg.ID,
	)
	return scanBlockTemplate(row)
}

const deleteBlockTemplate = `-- name: DeleteBlockTemplate :exec
DELETE FROM block_templates WHERE id = ?`

func (q *Queries) DeleteBlockTemplate(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteBlockTemplate, id)
	return err
}

const countSectionsForTemplate = `-- name: CountSectionsForTemplate :one
SELECT COUNT(*) FROM page_sections WHERE block_template_id = ?`

func (q *Queries) CountSectionsForTemplate(ctx context.Context, blockTemplateID int64) (int64, error) {
	row := q.db.QueryRowContext(ctx, countSectionsForTemplate, blockTemplateID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const templateFilter = `
WHERE (? = '' OR type = ?)
  AND (? = '' OR name LIKE '%' || ? || '%' OR description LIKE '%' || ? || '%')`

// templateSortColumns whitelists the ORDER BY expressions ListBlockTemplates accepts.
var templateSortColumns = map[string]string{
	"name":    "name",
	"type":    "type",
	"created": "created_at",
}

type ListBlockTemplatesParams struct {
	Type     string `json:"type"`
	Search   string `json:"search"`
	SortBy   string `json:"sort_by"`
	SortDesc bool   `json:"sort_desc"`
	Limit    int64  `json:"limit"`
	Offset   int64  `json:"offset"`
}

// ListBlockTemplates returns filtered templates. SortBy is one of name, type
// or created; anything else sorts by creation time.
func (q *Queries) ListBlockTemplates(ctx context.Context, arg ListBlockTemplatesParams) ([]BlockTemplate, error) {
	column, ok := templateSortColumns[arg.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if arg.SortDesc {
		direction = "DESC"
	}
	query := `-- name: ListBlockTemplates :many
SELECT ` + templateColumns + ` FROM block_templates` + templateFilter + `
ORDER BY ` + column + ` ` + direction + `, id ` + direction + `
LIMIT ? OFFSET ?`

	rows, err := q.db.QueryContext(ctx, query,
		arg.Type, arg.Type,
		arg.Search, arg.Search, arg.Search,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []BlockTemplate{}
	for rows.Next() {
		i, err := scanBlockTemplate(rows)
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

const countBlockTemplates = `-- name: CountBlockTemplates :one
SELECT COUNT(*) FROM block_templates` + templateFilter

type CountBlockTemplatesParams struct {
	Type   string `json:"type"`
	Search string `json:"search"`
}

func (q *Queries) CountBlockTemplates(ctx context.Context, arg CountBlockTemplatesParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, countBlockTemplates,
		arg.Type, arg.Type,
		arg.Search, arg.Search, arg.Search,
	)
	var count int64
	err := row.Scan(&count)
	return count, err
}
