// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/landing-cms/internal/model"
	"github.com/olegiv/landing-cms/internal/store"
	"github.com/olegiv/landing-cms/internal/util"
)

// TermInput holds the editable fields of a category or tag. An empty Slug
// is derived from the name. Tags ignore Description.
type TermInput struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// TaxonomyService manages the post categories and tags shared by all authors.
type TaxonomyService struct {
	queries *store.Queries
	logger  *slog.Logger
	now     func() time.Time
}

// NewTaxonomyService creates a new TaxonomyService.
func NewTaxonomyService(db *sql.DB, logger *slog.Logger) *TaxonomyService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaxonomyService{
		queries: store.New(db),
		logger:  logger,
		now:     time.Now,
	}
}

// ListCategories returns every category ordered by name.
func (s *TaxonomyService) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := s.queries.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	out := make([]model.Category, 0, len(rows))
	for _, r := range rows {
		out = append(out, categoryFromStore(r))
	}
	return out, nil
}

// GetCategory returns one category.
func (s *TaxonomyService) GetCategory(ctx context.Context, id int64) (*model.Category, error) {
	c, err := s.queries.GetCategory(ctx, id)
	if err != nil {
		return nil, translateStoreErr(err, "getting category", "category")
	}
	out := categoryFromStore(c)
	return &out, nil
}

// CreateCategory adds a category. A taken slug is a conflict.
func (s *TaxonomyService) CreateCategory(ctx context.Context, in TermInput) (*model.Category, error) {
	name, slug, err := normalizeTerm(in)
	if err != nil {
		return nil, err
	}
	c, err := s.queries.CreateCategory(ctx, store.CreateCategoryParams{
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   s.now().UTC(),
	})
	if err != nil {
		return nil, termStoreErr(err, "creating category", "category")
	}
	s.logger.Info("category created", "category_id", c.ID, "slug", c.Slug)
	out := categoryFromStore(c)
	return &out, nil
}

// UpdateCategory replaces a category's name, slug and description.
func (s *TaxonomyService) UpdateCategory(ctx context.Context, id int64, in TermInput) (*model.Category, error) {
	name, slug, err := normalizeTerm(in)
	if err != nil {
		return nil, err
	}
	c, err := s.queries.UpdateCategory(ctx, store.UpdateCategoryParams{
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(in.Description),
		ID:          id,
	})
	if err != nil {
		return nil, termStoreErr(err, "updating category", "category")
	}
	out := categoryFromStore(c)
	return &out, nil
}

// DeleteCategory removes a category and detaches it from its posts.
func (s *TaxonomyService) DeleteCategory(ctx context.Context, id int64) error {
	if _, err := s.GetCategory(ctx, id); err != nil {
		return err
	}
	if err := s.queries.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}
	s.logger.Info("category deleted", "category_id", id)
	return nil
}

// ListTags returns every tag ordered by name.
func (s *TaxonomyService) ListTags(ctx context.Context) ([]model.Tag, error) {
	rows, err := s.queries.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	out := make([]model.Tag, 0, len(rows))
	for _, r := range rows {
		out = append(out, tagFromStore(r))
	}
	return out, nil
}

// GetTag returns one tag.
func (s *TaxonomyService) GetTag(ctx context.Context, id int64) (*model.Tag, error) {
	t, err := s.queries.GetTag(ctx, id)
	if err != nil {
		return nil, translateStoreErr(err, "getting tag", "tag")
	}
	out := tagFromStore(t)
	return &out, nil
}

// CreateTag adds a tag. A taken slug is a conflict.
func (s *TaxonomyService) CreateTag(ctx context.Context, in TermInput) (*model.Tag, error) {
	name, slug, err := normalizeTerm(in)
	if err != nil {
		return nil, err
	}
	t, err := s.queries.CreateTag(ctx, store.CreateTagParams{
		Name:      name,
		Slug:      slug,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return nil, termStoreErr(err, "creating tag", "tag")
	}
	out := tagFromStore(t)
	return &out, nil
}

// UpdateTag replaces a tag's name and slug.
func (s *TaxonomyService) UpdateTag(ctx context.Context, id int64, in TermInput) (*model.Tag, error) {
	name, slug, err := normalizeTerm(in)
	if err != nil {
		return nil, err
	}
	t, err := s.queries.UpdateTag(ctx, store.UpdateTagParams{Name: name, Slug: slug, ID: id})
	if err != nil {
		return nil, termStoreErr(err, "updating tag", "tag")
	}
	out := tagFromStore(t)
	return &out, nil
}

// DeleteTag removes a tag and detaches it from its posts.
func (s *TaxonomyService) DeleteTag(ctx context.Context, id int64) error {
	if _, err := s.GetTag(ctx, id); err != nil {
		return err
	}
	if err := s.queries.DeleteTag(ctx, id); err != nil {
		return fmt.Errorf("deleting tag: %w", err)
	}
	return nil
}

func normalizeTerm(in TermInput) (string, string, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return "", "", invalid("name is required")
	}
	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		slug = util.GenerateSlug(name)
	} else if !util.IsValidSlug(slug) {
		return "", "", invalid("slug %q must contain only lowercase letters, digits and hyphens", slug)
	}
	if slug == "" {
		return "", "", invalid("name must contain letters or digits")
	}
	return name, slug, nil
}

func termStoreErr(err error, op, entity string) error {
	if store.IsUniqueViolation(err) {
		return conflict("%s slug already exists", entity)
	}
	return translateStoreErr(err, op, entity)
}

// replacePostTerms swaps the post's categories and tags for the given ids
// inside q's transaction. Unknown ids are rejected.
func replacePostTerms(ctx context.Context, q *store.Queries, postID int64, categoryIDs, tagIDs []int64) error {
	if err := q.ClearPostCategories(ctx, postID); err != nil {
		return err
	}
	for _, id := range dedupeIDs(categoryIDs) {
		if _, err := q.GetCategory(ctx, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return invalid("category %d does not exist", id)
			}
			return err
		}
		if err := q.AddPostCategory(ctx, store.AddPostCategoryParams{PostID: postID, CategoryID: id}); err != nil {
			return err
		}
	}

	if err := q.ClearPostTags(ctx, postID); err != nil {
		return err
	}
	for _, id := range dedupeIDs(tagIDs) {
		if _, err := q.GetTag(ctx, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return invalid("tag %d does not exist", id)
			}
			return err
		}
		if err := q.AddPostTag(ctx, store.AddPostTagParams{PostID: postID, TagID: id}); err != nil {
			return err
		}
	}
	return nil
}

func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// loadPostTerms fills p's categories and tags.
func loadPostTerms(ctx context.Context, q *store.Queries, p *model.Post) error {
	cats, err := q.ListCategoriesForPost(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("listing post categories: %w", err)
	}
	tags, err := q.ListTagsForPost(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("listing post tags: %w", err)
	}

	p.Categories = make([]model.Category, 0, len(cats))
	for _, c := range cats {
		p.Categories = append(p.Categories, categoryFromStore(c))
	}
	p.Tags = make([]model.Tag, 0, len(tags))
	for _, t := range tags {
		p.Tags = append(p.Tags, tagFromStore(t))
	}
	return nil
}
