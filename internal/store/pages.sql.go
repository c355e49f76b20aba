// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const pageColumns = `id, title, slug, status, user_id, published_at, created_at, updated_at`

func scanPage(row interface{ Scan(...any) error }) (Page, error) {
	var i Page
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Slug,
		&i.Status,
		&i.UserID,
		&i.PublishedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createPage = `-- name: CreatePage :one
INSERT INTO pages (title, slug, status, user_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING ` + pageColumns

type CreatePageParams struct {
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Status    string    `json:"status"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (q *Queries) CreatePage(ctx context.Context, arg CreatePageParams) (Page, error) {
	row := q.db.QueryRowContext(ctx, createPage,
		arg.Title,
		arg.Slug,
		arg.Status,
		arg.UserID,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanPage(row)
}

const getPageByID = `-- name: GetPageByID :one
SELECT ` + pageColumns + ` FROM pages WHERE id = ?`

func (q *Queries) GetPageByID(ctx context.Context, id int64) (Page, error) {
	return scanPage(q.db.QueryRowContext(ctx, getPageByID, id))
}

const getPageForUser = `-- name: GetPageForUser :one
SELECT ` + pageColumns + ` FROM pages WHERE id = ? AND user_id = ?`

type GetPageForUserParams struct {
	ID     int64 `json:"id"`
	UserID int64 `json:"user_id"`
}

func (q *Queries) GetPageForUser(ctx context.Context, arg GetPageForUserParams) (Page, error) {
	return scanPage(q.db.QueryRowContext(ctx, getPageForUser, arg.ID, arg.UserID))
}

const getPublishedPageBySlug = `-- name: GetPublishedPageBySlug :one
SELECT ` + pageColumns + ` FROM pages WHERE slug = ? AND status = 'published'`

func (q *Queries) GetPublishedPageBySlug(ctx context.Context, slug string) (Page, error) {
	return scanPage(q.db.QueryRowContext(ctx, getPublishedPageBySlug, slug))
}

const pageSlugExists = `-- name: PageSlugExists :one
SELECT COUNT(*) FROM pages WHERE slug = ?`

func (q *Queries) PageSlugExists(ctx context.Context, slug string) (int64, error) {
	row := q.db.QueryRowContext(ctx, pageSlugExists, slug)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const pageSlugExistsExcluding = `-- name: PageSlugExistsExcluding :one
SELECT COUNT(*) FROM pages WHERE slug = ? AND id != ?`

type PageSlugExistsExcludingParams struct {
	Slug string `json:"slug"`
	ID   int64  `json:"id"`
}

func (q *Queries) PageSlugExistsExcluding(ctx context.Context, arg PageSlugExistsExcludingParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, pageSlugExistsExcluding, arg.Slug, arg.ID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const updatePageMeta = `-- name: UpdatePageMeta :one
UPDATE pages SET title = ?, slug = ?, updated_at = ?
WHERE id = ?
RETURNING ` + pageColumns

type UpdatePageMetaParams struct {
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        int64     `json:"id"`
}

func (q *Queries) UpdatePageMeta(ctx context.Context, arg UpdatePageMetaParams) (Page, error) {
	row := q.db.QueryRowContext(ctx, updatePageMeta,
		arg.Title,
		arg.Slug,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanPage(row)
}

const touchPage = `-- name: TouchPage :exec
UPDATE pages SET updated_at = ? WHERE id = ?`

type TouchPageParams struct {
	UpdatedAt time.Time `json:"updated_at"`
	ID        int64     `json:"id"`
}

func (q *Queries) TouchPage(ctx context.Context, arg TouchPageParams) error {
	_, err := q.db.ExecContext(ctx, touchPage, arg.UpdatedAt, arg.ID)
	return err
}

const publishPage = `-- name: PublishPage :one
UPDATE pages
SET status = 'published', published_at = COALESCE(published_at, ?), updated_at = ?
WHERE id = ?
RETURNING ` + pageColumns

type PublishPageParams struct {
	PublishedAt sql.NullTime `json:"published_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	ID          int64        `json:"id"`
}

func (q *Queries) PublishPage(ctx context.Context, arg PublishPageParams) (Page, error) {
	row := q.db.QueryRowContext(ctx, publishPage, arg.PublishedAt, arg.UpdatedAt, arg.ID)
	return scanPage(row)
}

const unpublishPage = `-- name: UnpublishPage :one
UPDATE pages SET status = 'draft', updated_at = ?
WHERE id = ?
RETURNING ` + pageColumns

type UnpublishPageParams struct {
	UpdatedAt time.Time `json:"updated_at"`
	ID        int64     `json:"id"`
}

func (q *Queries) UnpublishPage(ctx context.Context, arg UnpublishPageParams) (Page, error) {
	row := q.db.QueryRowContext(ctx, unpublishPage, arg.UpdatedAt, arg.ID)
	return scanPage(row)
}

const deletePage = `-- name: DeletePage :exec
DELETE FROM pages WHERE id = ?`

func (q *Queries) DeletePage(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deletePage, id)
	return err
}

const listPagesForUser = `-- name: ListPagesForUser :many
SELECT p.id, p.title, p.slug, p.status, p.user_id, p.published_at, p.created_at, p.updated_at,
       (SELECT COUNT(*) FROM page_sections s WHERE s.page_id = p.id) AS section_count
FROM pages p
WHERE p.user_id = ?
  AND (? = '' OR p.status = ?)
  AND (? = '' OR p.title LIKE '%' || ? || '%' OR p.slug LIKE '%' || ? || '%')
ORDER BY p.created_at DESC, p.id DESC
LIMIT ? OFFSET ?`

type ListPagesForUserParams struct {
	UserID int64  `json:"user_id"`
	Status string `json:"status"`
	Search string `json:"search"`
	Limit  int64  `json:"limit"`
	Offset int64  `json:"offset"`
}

type ListPagesForUserRow struct {
	Page
	SectionCount int64 `json:"section_count"`
}

func (q *Queries) ListPagesForUser(ctx context.Context, arg ListPagesForUserParams) ([]ListPagesForUserRow, error) {
	rows, err := q.db.QueryContext(ctx, listPagesForUser,
		arg.UserID,
		arg.Status, arg.Status,
		arg.Search, arg.Search, arg.Search,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []ListPagesForUserRow{}
	for rows.Next() {
		var i ListPagesForUserRow
		if err := rows.Scan(
			&i.ID,
			&i.Title,
			&i.Slug,
			&i.Status,
			&i.UserID,
			&i.PublishedAt,
			&i.CreatedAt,
			&i.UpdatedAt,
			&i.SectionCount,
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

const countPagesForUser = `-- name: CountPagesForUser :one
SELECT COUNT(*) FROM pages p
WHERE p.user_id = ?
  AND (? = '' OR p.status = ?)
  AND (? = '' OR p.title LIKE '%' || ? || '%' OR p.slug LIKE '%' || ? || '%')`

type CountPagesForUserParams struct {
	UserID int64  `json:"user_id"`
	Status string `json:"status"`
	Search string `json:"search"`
}

func (q *Queries) CountPagesForUser(ctx context.Context, arg CountPagesForUserParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, countPagesForUser,
		arg.UserID,
		arg.Status, arg.Status,
		arg.Search, arg.Search, arg.Search,
	)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const listPublishedPageSlugs = `-- name: ListPublishedPageSlugs :many
SELECT slug, updated_at FROM pages
WHERE status = 'published'
ORDER BY slug`

type ListPublishedPageSlugsRow struct {
	Slug      string    `json:"slug"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (q *Queries) ListPublishedPageSlugs(ctx context.Context) ([]ListPublishedPageSlugsRow, error) {
	rows, err := q.db.QueryContext(ctx, listPublishedPageSlugs)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []ListPublishedPageSlugsRow
	for rows.Next() {
		var i ListPublishedPageSlugsRow
		if err := rows.Scan(&i.Slug, &i.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
