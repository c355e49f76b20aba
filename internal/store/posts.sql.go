// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const postColumns = `id, title, slug, content, excerpt, status, user_id, published_at, created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }) (Post, error) {
	var i Post
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Slug,
		&i.Content,
		&i.Excerpt,
		&i.Status,
		&i.UserID,
		&i.PublishedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func collectPosts(rows *sql.Rows, err error) ([]Post, error) {
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []Post{}
	for rows.Next() {
		i, err := scanPost(rows)
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

const createPost = `-- name: CreatePost :one
INSERT INTO posts (title, slug, content, excerpt, status, user_id, published_at, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + postColumns

type CreatePostParams struct {
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

func (q *Queries) CreatePost(ctx context.Context, arg CreatePostParams) (Post, error) {
	row := q.db.QueryRowContext(ctx, createPost,
		arg.Title,
		arg.Slug,
		arg.Content,
		arg.Excerpt,
		arg.Status,
		arg.UserID,
		arg.PublishedAt,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanPost(row)
}

const getPostForUser = `-- name: GetPostForUser :one
SELECT ` + postColumns + ` FROM posts WHERE id = ? AND user_id = ?`

type GetPostForUserParams struct {
	ID     int64 `json:"id"`
	UserID int64 `json:"user_id"`
}

func (q *Queries) GetPostForUser(ctx context.Context, arg GetPostForUserParams) (Post, error) {
	return scanPost(q.db.QueryRowContext(ctx, getPostForUser, arg.ID, arg.UserID))
}

const getPublishedPostBySlug = `-- name: GetPublishedPostBySlug :one
SELECT ` + postColumns + ` FROM posts WHERE slug = ? AND status = 'published'`

func (q *Queries) GetPublishedPostBySlug(ctx context.Context, slug string) (Post, error) {
	return scanPost(q.db.QueryRowContext(ctx, getPublishedPostBySlug, slug))
}

const postSlugExists = `-- name: PostSlugExists :one
SELECT COUNT(*) FROM posts WHERE slug = ? AND id != ?`

type PostSlugExistsParams struct {
	Slug string `json:"slug"`
	// ExcludeID skips one post; zero checks every post.
	ExcludeID int64 `json:"exclude_id"`
}

func (q *Queries) PostSlugExists(ctx context.Context, arg PostSlugExistsParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, postSlugExists, arg.Slug, arg.ExcludeID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const updatePost = `-- name: UpdatePost :one
UPDATE posts
SET title = ?, slug = ?, content = ?, excerpt = ?, status = ?, published_at = ?, updated_at = ?
WHERE id = ?
RETURNING ` + postColumns

type UpdatePostParams struct {
	Title       string       `json:"title"`
	Slug        string       `json:"slug"`
	Content     string       `json:"content"`
	Excerpt     string       `json:"excerpt"`
	Status      string       `json:"status"`
	PublishedAt sql.NullTime `json:"published_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	ID          int64        `json:"id"`
}

func (q *Queries) UpdatePost(ctx context.Context, arg UpdatePostParams) (Post, error) {
	row := q.db.QueryRowContext(ctx, updatePost,
		arg.Title,
		arg.Slug,
		arg.Content,
		arg.Excerpt,
		arg.Status,
		arg.PublishedAt,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanPost(row)
}

const deletePost = `-- name: DeletePost :exec
DELETE FROM posts WHERE id = ?`

func (q *Queries) DeletePost(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deletePost, id)
	return err
}

const listPostsForUser = `-- name: ListPostsForUser :many
SELECT ` + postColumns + ` FROM posts
WHERE user_id = ? AND (? = '' OR status = ?)
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?`

type ListPostsForUserParams struct {
	UserID int64  `json:"user_id"`
	Status string `json:"status"`
	Limit  int64  `json:"limit"`
	Offset int64  `json:"offset"`
}

func (q *Queries) ListPostsForUser(ctx context.Context, arg ListPostsForUserParams) ([]Post, error) {
	return collectPosts(q.db.QueryContext(ctx, listPostsForUser,
		arg.UserID,
		arg.Status, arg.Status,
		arg.Limit,
		arg.Offset,
	))
}

const countPostsForUser = `-- name: CountPostsForUser :one
SELECT COUNT(*) FROM posts WHERE user_id = ? AND (? = '' OR status = ?)`

type CountPostsForUserParams struct {
	UserID int64  `json:"user_id"`
	Status string `json:"status"`
}

func (q *Queries) CountPostsForUser(ctx context.Context, arg CountPostsForUserParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, countPostsForUser, arg.UserID, arg.Status, arg.Status)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const listPublishedPosts = `-- name: ListPublishedPosts :many
SELECT ` + postColumns + ` FROM posts
WHERE status = 'published'
ORDER BY published_at DESC, id DESC
LIMIT ? OFFSET ?`

type ListPublishedPostsParams struct {
	Limit  int64 `json:"limit"`
	Offset int64 `json:"offset"`
}

func (q *Queries) ListPublishedPosts(ctx context.Context, arg ListPublishedPostsParams) ([]Post, error) {
	return collectPosts(q.db.QueryContext(ctx, listPublishedPosts, arg.Limit, arg.Offset))
}
