// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/olegiv/landing-cms/internal/model"
	"github.com/olegiv/landing-cms/internal/store"
	"github.com/olegiv/landing-cms/internal/util"
)

// PostInput holds the editable fields of a post. An empty Slug is derived
// from the title. An empty Status means draft. On update a nil CategoryIDs
// or TagIDs keeps the current links and an empty list clears them.
type PostInput struct {
	Title       string  `json:"title"`
	Slug        string  `json:"slug"`
	Content     string  `json:"content"`
	Excerpt     string  `json:"excerpt"`
	Status      string  `json:"status"`
	CategoryIDs []int64 `json:"category_ids"`
	TagIDs      []int64 `json:"tag_ids"`
}

var markdownEngine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Typographer,
	),
)

// PostService manages markdown blog posts.
type PostService struct {
	db      *sql.DB
	queries *store.Queries
	policy  *bluemonday.Policy
	logger  *slog.Logger
	now     func() time.Time
}

// NewPostService creates a new PostService.
func NewPostService(db *sql.DB, logger *slog.Logger) *PostService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostService{
		db:      db,
		queries: store.New(db),
		policy:  bluemonday.UGCPolicy(),
		logger:  logger,
		now:     time.Now,
	}
}

// Create adds a post owned by userID.
func (s *PostService) Create(ctx context.Context, userID int64, in PostInput) (*model.Post, error) {
	title, slug, status, err := normalizePostInput(in)
	if err != nil {
		return nil, err
	}
	if err := s.checkSlug(ctx, slug, 0); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	var publishedAt sql.NullTime
	if status == model.PostStatusPublished {
		publishedAt = sql.NullTime{Time: now, Valid: true}
	}

	var p store.Post
	err = store.ExecTx(ctx, s.db, func(q *store.Queries) error {
		var err error
		p, err = q.CreatePost(ctx, store.CreatePostParams{
			Title:       title,
			Slug:        slug,
			Content:     in.Content,
			Excerpt:     strings.TrimSpace(in.Excerpt),
			Status:      status,
			UserID:      userID,
			PublishedAt: publishedAt,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err != nil {
			return err
		}
		return replacePostTerms(ctx, q, p.ID, in.CategoryIDs, in.TagIDs)
	})
	if err != nil {
		if store.IsUniqueViolation(err) {
			return nil, conflict("slug already exists")
		}
		return nil, translateStoreErr(err, "creating post", "post")
	}

	s.logger.Info("post created", "post_id", p.ID, "slug", p.Slug, "user_id", userID)
	return s.withTerms(ctx, p)
}

// Update replaces the editable fields of a post. published_at is stamped
// the first time the post is published and kept afterwards.
func (s *PostService) Update(ctx context.Context, userID, postID int64, in PostInput) (*model.Post, error) {
	existing, err := s.getOwned(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	title, slug, status, err := normalizePostInput(in)
	if err != nil {
		return nil, err
	}
	if err := s.checkSlug(ctx, slug, existing.ID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	publishedAt := existing.PublishedAt
	if status == model.PostStatusPublished && !publishedAt.Valid {
		publishedAt = sql.NullTime{Time: now, Valid: true}
	}

	var p store.Post
	err = store.ExecTx(ctx, s.db, func(q *store.Queries) error {
		var err error
		p, err = q.UpdatePost(ctx, store.UpdatePostParams{
			Title:       title,
			Slug:        slug,
			Content:     in.Content,
			Excerpt:     strings.TrimSpace(in.Excerpt),
			Status:      status,
			PublishedAt: publishedAt,
			UpdatedAt:   now,
			ID:          existing.ID,
		})
		if err != nil {
			return err
		}
		if in.CategoryIDs == nil && in.TagIDs == nil {
			return nil
		}
		cats, tags := in.CategoryIDs, in.TagIDs
		if cats == nil {
			if cats, err = linkedCategoryIDs(ctx, q, p.ID); err != nil {
				return err
			}
		}
		if tags == nil {
			if tags, err = linkedTagIDs(ctx, q, p.ID); err != nil {
				return err
			}
		}
		return replacePostTerms(ctx, q, p.ID, cats, tags)
	})
	if err != nil {
		if store.IsUniqueViolation(err) {
			return nil, conflict("slug already exists")
		}
		return nil, translateStoreErr(err, "updating post", "post")
	}
	return s.withTerms(ctx, p)
}

// Delete removes a post.
func (s *PostService) Delete(ctx context.Context, userID, postID int64) error {
	p, err := s.getOwned(ctx, userID, postID)
	if err != nil {
		return err
	}
	if err := s.queries.DeletePost(ctx, p.ID); err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}
	s.logger.Info("post deleted", "post_id", p.ID, "user_id", userID)
	return nil
}

// Get returns one of the caller's posts with its categories and tags.
func (s *PostService) Get(ctx context.Context, userID, postID int64) (*model.Post, error) {
	p, err := s.getOwned(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	return s.withTerms(ctx, p)
}

// List returns the caller's posts, newest first, optionally by status.
func (s *PostService) List(ctx context.Context, userID int64, status string, page, pageSize int) (*model.List[model.Post], error) {
	switch status {
	case "", model.PostStatusDraft, model.PostStatusPublished:
	default:
		return nil, invalid("invalid status %q", status)
	}

	page, size := model.NormalizePaging(page, pageSize)
	rows, err := s.queries.ListPostsForUser(ctx, store.ListPostsForUserParams{
		UserID: userID,
		Status: status,
		Limit:  int64(size),
		Offset: int64(model.Offset(page, size)),
	})
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}

	total, err := s.queries.CountPostsForUser(ctx, store.CountPostsForUserParams{UserID: userID, Status: status})
	if err != nil {
		return nil, fmt.Errorf("counting posts: %w", err)
	}

	items := make([]model.Post, 0, len(rows))
	for _, r := range rows {
		items = append(items, *postFromStore(r))
	}
	return &model.List[model.Post]{Items: items, Total: total, Page: page, PageSize: size}, nil
}

// ListPublished returns published posts for the public blog index.
func (s *PostService) ListPublished(ctx context.Context, page, pageSize int) ([]model.Post, error) {
	page, size := model.NormalizePaging(page, pageSize)
	rows, err := s.queries.ListPublishedPosts(ctx, store.ListPublishedPostsParams{
		Limit:  int64(size),
		Offset: int64(model.Offset(page, size)),
	})
	if err != nil {
		return nil, fmt.Errorf("listing published posts: %w", err)
	}

	return postsFromStore(rows), nil
}

// GetPublishedBySlug returns a published post with its markdown rendered
// to sanitized HTML.
func (s *PostService) GetPublishedBySlug(ctx context.Context, slug string) (*model.Post, error) {
	row, err := s.queries.GetPublishedPostBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("post not found")
		}
		return nil, fmt.Errorf("getting published post: %w", err)
	}

	html, err := s.RenderMarkdown(row.Content)
	if err != nil {
		return nil, err
	}

	p, err := s.withTerms(ctx, row)
	if err != nil {
		return nil, err
	}
	p.ContentHTML = html
	return p, nil
}

// ListPublishedByCategory returns published posts filed under the category
// with the given slug.
func (s *PostService) ListPublishedByCategory(ctx context.Context, slug string, page, pageSize int) ([]model.Post, error) {
	page, size := model.NormalizePaging(page, pageSize)
	rows, err := s.queries.ListPublishedPostsByCategory(ctx, store.ListPublishedPostsByCategoryParams{
		Slug:   slug,
		Limit:  int64(size),
		Offset: int64(model.Offset(page, size)),
	})
	if err != nil {
		return nil, fmt.Errorf("listing posts by category: %w", err)
	}
	return postsFromStore(rows), nil
}

// ListPublishedByTag returns published posts carrying the tag with the
// given slug.
func (s *PostService) ListPublishedByTag(ctx context.Context, slug string, page, pageSize int) ([]model.Post, error) {
	page, size := model.NormalizePaging(page, pageSize)
	rows, err := s.queries.ListPublishedPostsByTag(ctx, store.ListPublishedPostsByTagParams{
		Slug:   slug,
		Limit:  int64(size),
		Offset: int64(model.Offset(page, size)),
	})
	if err != nil {
		return nil, fmt.Errorf("listing posts by tag: %w", err)
	}
	return postsFromStore(rows), nil
}

// RenderMarkdown converts markdown to HTML safe for public display.
func (s *PostService) RenderMarkdown(content string) (string, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return s.policy.Sanitize(buf.String()), nil
}

func (s *PostService) withTerms(ctx context.Context, row store.Post) (*model.Post, error) {
	p := postFromStore(row)
	if err := loadPostTerms(ctx, s.queries, p); err != nil {
		return nil, err
	}
	return p, nil
}

func postsFromStore(rows []store.Post) []model.Post {
	items := make([]model.Post, 0, len(rows))
	for _, r := range rows {
		items = append(items, *postFromStore(r))
	}
	return items
}

func linkedCategoryIDs(ctx context.Context, q *store.Queries, postID int64) ([]int64, error) {
	cats, err := q.ListCategoriesForPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(cats))
	for _, c := range cats {
		ids = append(ids, c.ID)
	}
	return ids, nil
}

func linkedTagIDs(ctx context.Context, q *store.Queries, postID int64) ([]int64, error) {
	tags, err := q.ListTagsForPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(tags))
	for _, t := range tags {
		ids = append(ids, t.ID)
	}
	return ids, nil
}

func (s *PostService) getOwned(ctx context.Context, userID, postID int64) (store.Post, error) {
	p, err := s.queries.GetPostForUser(ctx, store.GetPostForUserParams{ID: postID, UserID: userID})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Post{}, notFound("post not found")
		}
		return store.Post{}, fmt.Errorf("getting post: %w", err)
	}
	return p, nil
}

func (s *PostService) checkSlug(ctx context.Context, slug string, excludeID int64) error {
	n, err := s.queries.PostSlugExists(ctx, store.PostSlugExistsParams{Slug: slug, ExcludeID: excludeID})
	if err != nil {
		return fmt.Errorf("checking slug: %w", err)
	}
	if n > 0 {
		return conflict("slug already exists")
	}
	return nil
}

func normalizePostInput(in PostInput) (title, slug, status string, err error) {
	title = strings.TrimSpace(in.Title)
	if title == "" {
		return "", "", "", invalid("title is required")
	}

	slug = strings.TrimSpace(in.Slug)
	if slug == "" {
		slug = util.GenerateSlug(title)
	} else if !util.IsValidSlug(slug) {
		return "", "", "", invalid("slug %q must contain only lowercase letters, digits and hyphens", slug)
	}
	if slug == "" {
		return "", "", "", invalid("title must contain letters or digits")
	}

	status = in.Status
	switch status {
	case "":
		status = model.PostStatusDraft
	case model.PostStatusDraft, model.PostStatusPublished:
	default:
		return "", "", "", invalid("invalid status %q", in.Status)
	}
	return title, slug, status, nil
}
