// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const categoryColumns = `id, name, slug, description, created_at`

func scanCategory(row interface{ Scan(...any) error }) (Category, error) {
	var i Category
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Slug,
		&i.Description,
		&i.CreatedAt,
	)
	return i, err
}

func collectCategories(rows *sql.Rows, err error) ([]Category, error) {
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []Category{}
	for rows.Next() {
		i, err := scanCategory(rows)
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

const createCategory = `-- name: CreateCategory :one
INSERT INTO categories (name, slug, description, created_at)
VALUES (?, ?, ?, ?)
RETURNING ` + categoryColumns

type CreateCategoryParams struct {
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) (Category, error) {
	row := q.db.QueryRowContext(ctx, createCategory, arg.Name, arg.Slug, arg.Description, arg.CreatedAt)
	return scanCategory(row)
}

const getCategory = `-- name: GetCategory :one
SELECT ` + categoryColumns + ` FROM categories WHERE id = ?`

func (q *Queries) GetCategory(ctx context.Context, id int64) (Category, error) {
	return scanCategory(q.db.QueryRowContext(ctx, getCategory, id))
}

const listCategories = `-- name: ListCategories :many
SELECT ` + categoryColumns + ` FROM categories ORDER BY name, id`

func (q *Queries) ListCategories(ctx context.Context) ([]Category, error) {
	return collectCategories(q.db.QueryContext(ctx, listCategories))
}

const updateCategory = `-- name: UpdateCategory :one
UPDATE categories SET name = ?, slug = ?, description = ?
WHERE id = ?
RETURNING ` + categoryColumns

type UpdateCategoryParams struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	ID          int64  `json:"id"`
}

func (q *Queries) UpdateCategory(ctx context.Context, arg UpdateCategoryParams) (Category, error) {
	row := q.db.QueryRowContext(ctx, updateCategory, arg.Name, arg.Slug, arg.Description, arg.ID)
	return scanCategory(row)
}

const deleteCategory = `-- name: DeleteCategory :exec
DELETE FROM categories WHERE id = ?`

func (q *Queries) DeleteCategory(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteCategory, id)
	return err
}

const tagColumns = `id, name, slug, created_at`

func scanTag(row interface{ Scan(...any) error }) (Tag, error) {
	var i Tag
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Slug,
		&i.CreatedAt,
	)
	return i, err
}

func collectTags(rows *sql.Rows, err error) ([]Tag, error) {
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []Tag{}
	for rows.Next() {
		i, err := scanTag(rows)
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

const createTag = `-- name: CreateTag :one
INSERT INTO tags (name, slug, created_at)
VALUES (?, ?, ?)
RETURNING ` + tagColumns

type CreateTagParams struct {
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

func (q *Queries) CreateTag(ctx context.Context, arg CreateTagParams) (Tag, error) {
	return scanTag(q.db.QueryRowContext(ctx, createTag, arg.Name, arg.Slug, arg.CreatedAt))
}

const getTag = `-- name: GetTag :one
SELECT ` + tagColumns + ` FROM tags WHERE id = ?`

func (q *Queries) GetTag(ctx context.Context, id int64) (Tag, error) {
	return scanTag(q.db.QueryRowContext(ctx, getTag, id))
}

const listTags = `-- name: ListTags :many
SELECT ` + tagColumns + ` FROM tags ORDER BY name, id`

func (q *Queries) ListTags(ctx context.Context) ([]Tag, error) {
	return collectTags(q.db.QueryContext(ctx, listTags))
}

const updateTag = `-- name: UpdateTag :one
UPDATE tags SET name = ?, slug = ?
WHERE id = ?
RETURNING ` + tagColumns

type UpdateTagParams struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
	ID   int64  `json:"id"`
}

func (q *Queries) UpdateTag(ctx context.Context, arg UpdateTagParams) (Tag, error) {
	return scanTag(q.db.QueryRowContext(ctx, updateTag, arg.Name, arg.Slug, arg.ID))
}

const deleteTag = `-- name: DeleteTag :exec
DELETE FROM tags WHERE id = ?`

func (q *Queries) DeleteTag(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteTag, id)
	return err
}

const clearPostCategories = `-- name: ClearPostCategories :exec
DELETE FROM post_categories WHERE post_id = ?`

func (q *Queries) ClearPostCategories(ctx context.Context, postID int64) error {
	_, err := q.db.ExecContext(ctx, clearPostCategories, postID)
	return err
}

const addPostCategory = `-- name: AddPostCategory :exec
INSERT INTO post_categories (post_id, category_id) VALUES (?, ?)`

type AddPostCategoryParams struct {
	PostID     int64 `json:"post_id"`
	CategoryID int64 `json:"category_id"`
}

func (q *Queries) AddPostCategory(ctx context.Context, arg AddPostCategoryParams) error {
	_, err := q.db.ExecContext(ctx, addPostCategory, arg.PostID, arg.CategoryID)
	return err
}

const listCategoriesForPost = `-- name: ListCategoriesForPost :many
SELECT c.id, c.name, c.slug, c.description, c.created_at
FROM categories c
JOIN post_categories pc ON pc.category_id = c.id
WHERE pc.post_id = ?
ORDER BY c.name, c.id`

func (q *Queries) ListCategoriesForPost(ctx context.Context, postID int64) ([]Category, error) {
	return collectCategories(q.db.QueryContext(ctx, listCategoriesForPost, postID))
}

const clearPostTags = `-- name: ClearPostTags :exec
DELETE FROM post_tags WHERE post_id = ?`

func (q *Queries) ClearPostTags(ctx context.Context, postID int64) error {
	_, err := q.db.ExecContext(ctx, clearPostTags, postID)
	return err
}

const addPostTag = `-- name: AddPostTag :exec
INSERT INTO post_tags (post_id, tag_id) VALUES (?, ?)`

type AddPostTagParams struct {
	PostID int64 `json:"post_id"`
	TagID  int64 `json:"tag_id"`
}

func (q *Queries) AddPostTag(ctx context.Context, arg AddPostTagParams) error {
	_, err := q.db.ExecContext(ctx, addPostTag, arg.PostID, arg.TagID)
	return err
}

const listTagsForPost = `-- name: ListTagsForPost :many
SELECT t.id, t.name, t.slug, t.created_at
FROM tags t
JOIN post_tags pt ON pt.tag_id = t.id
WHERE pt.post_id = ?
ORDER BY t.name, t.id`

func (q *Queries) ListTagsForPost(ctx context.Context, postID int64) ([]Tag, error) {
	return collectTags(q.db.QueryContext(ctx, listTagsForPost, postID))
}

const listPublishedPostsByCategory = `-- name: ListPublishedPostsByCategory :many
SELECT p.id, p.title, p.slug, p.content, p.excerpt, p.status, p.user_id, p.published_at, p.created_at, p.updated_at
FROM posts p
JOIN post_categories pc ON pc.post_id = p.id
JOIN categories c ON c.id = pc.category_id
WHERE c.slug = ? AND p.status = 'published'
ORDER BY p.published_at DESC, p.id DESC
LIMIT ? OFFSET ?`

type ListPublishedPostsByCategoryParams struct {
	Slug   string `json:"slug"`
	Limit  int64  `json:"limit"`
	Offset int64  `json:"offset"`
}

func (q *Queries) ListPublishedPostsByCategory(ctx context.Context, arg ListPublishedPostsByCategoryParams) ([]Post, error) {
	return collectPosts(q.db.QueryContext(ctx, listPublishedPostsByCategory, arg.Slug, arg.Limit, arg.Offset))
}

const listPublishedPostsByTag = `-- name: ListPublishedPostsByTag :many
SELECT p.id, p.title, p.slug, p.content, p.excerpt, p.status, p.user_id, p.published_at, p.created_at, p.updated_at
FROM posts p
JOIN post_tags pt ON pt.post_id = p.id
JOIN tags t ON t.id = pt.tag_id
WHERE t.slug = ? AND p.status = 'published'
ORDER BY p.published_at DESC, p.id DESC
LIMIT ? OFFSET ?`

type ListPublishedPostsByTagParams struct {
	Slug   string `json:"slug"`
	Limit  int64  `json:"limit"`
	Offset int64  `json:"offset"`
}

func (q *Queries) ListPublishedPostsByTag(ctx context.Context, arg ListPublishedPostsByTagParams) ([]Post, error) {
	return collectPosts(q.db.QueryContext(ctx, listPublishedPostsByTag, arg.Slug, arg.Limit, arg.Offset))
}
