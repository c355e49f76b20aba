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

	"github.com/olegiv/landing-cms/internal/cache"
	"github.com/olegiv/landing-cms/internal/model"
	"github.com/olegiv/landing-cms/internal/notify"
	"github.com/olegiv/landing-cms/internal/store"
	"github.com/olegiv/landing-cms/internal/util"
)

// fallbackSlug is used when a title yields an empty slug.
const fallbackSlug = "page"

// Notifier accepts events without waiting for delivery.
type Notifier interface {
	Notify(event *notify.Event) bool
}

// CreatePageInput holds the fields for a new page.
type CreatePageInput struct {
	Title string `json:"title"`
}

// UpdatePageInput is a partial page update. Nil fields are left unchanged.
type UpdatePageInput struct {
	Title  *string `json:"title"`
	Status *string `json:"status"`
}

// PageService owns the page lifecycle: draft pages are edited, published
// pages are frozen until unpublished.
type PageService struct {
	db          *sql.DB
	queries     *store.Queries
	renderCache *cache.RenderCache
	notifier    Notifier
	logger      *slog.Logger
	now         func() time.Time
}

// NewPageService creates a new PageService. renderCache and notifier may be nil.
func NewPageService(db *sql.DB, renderCache *cache.RenderCache, notifier Notifier, logger *slog.Logger) *PageService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PageService{
		db:          db,
		queries:     store.New(db),
		renderCache: renderCache,
		notifier:    notifier,
		logger:      logger,
		now:         time.Now,
	}
}

// Create adds a draft page owned by userID with a slug derived from the title.
func (s *PageService) Create(ctx context.Context, userID int64, in CreatePageInput) (*model.Page, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, invalid("title is required")
	}

	slug, err := s.uniqueSlug(ctx, util.GenerateSlug(title), 0)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	p, err := s.queries.CreatePage(ctx, store.CreatePageParams{
		Title:     title,
		Slug:      slug,
		Status:    model.PageStatusDraft,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		if store.IsUniqueViolation(err) {
			return nil, conflict("slug %q already exists", slug)
		}
		return nil, fmt.Errorf("creating page: %w", err)
	}

	s.logger.Info("page created", "page_id", p.ID, "slug", p.Slug, "user_id", userID)
	return pageFromStore(p), nil
}

// Update changes the title or status of a draft page. A title change
// regenerates the slug. Setting status to published runs Publish.
func (s *PageService) Update(ctx context.Context, userID, pageID int64, in UpdatePageInput) (*model.Page, error) {
	p, err := s.getOwned(ctx, userID, pageID)
	if err != nil {
		return nil, err
	}

	if in.Status != nil {
		switch *in.Status {
		case model.PageStatusDraft, model.PageStatusPublished:
		default:
			return nil, invalid("invalid status %q", *in.Status)
		}
	}

	if err := requireDraft(p.Status); err != nil {
		return nil, err
	}

	// Publish preconditions are checked before the rename so a rejected
	// publish leaves the page untouched.
	publish := in.Status != nil && *in.Status == model.PageStatusPublished
	if publish {
		if err := s.requireSections(ctx, p.ID); err != nil {
			return nil, err
		}
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title != "" && title != p.Title {
			oldSlug := p.Slug
			slug, err := s.uniqueSlug(ctx, util.GenerateSlug(title), p.ID)
			if err != nil {
				return nil, err
			}

			p, err = s.queries.UpdatePageMeta(ctx, store.UpdatePageMetaParams{
				Title:     title,
				Slug:      slug,
				UpdatedAt: s.now().UTC(),
				ID:        p.ID,
			})
			if err != nil {
				if store.IsUniqueViolation(err) {
					return nil, conflict("slug %q already exists", slug)
				}
				return nil, translateStoreErr(err, "updating page", "page")
			}
			if oldSlug != p.Slug {
				s.renderCache.Invalidate(ctx, oldSlug)
			}
		}
	}

	if publish {
		return s.Publish(ctx, userID, pageID)
	}

	return pageFromStore(p), nil
}

// Publish makes a draft page publicly visible. The page needs at least one
// section, active or not. published_at is stamped only on the first publish.
func (s *PageService) Publish(ctx context.Context, userID, pageID int64) (*model.Page, error) {
	p, err := s.getOwned(ctx, userID, pageID)
	if err != nil {
		return nil, err
	}
	if p.Status == model.PageStatusPublished {
		return nil, conflict("page is already published")
	}

	if err := s.requireSections(ctx, p.ID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	p, err = s.queries.PublishPage(ctx, store.PublishPageParams{
		PublishedAt: sql.NullTime{Time: now, Valid: true},
		UpdatedAt:   now,
		ID:          p.ID,
	})
	if err != nil {
		return nil, translateStoreErr(err, "publishing page", "page")
	}

	s.renderCache.Invalidate(ctx, p.Slug)

	page := pageFromStore(p)
	s.logger.Info("page published", "page_id", page.ID, "slug", page.Slug, "user_id", userID)
	s.notify(notify.NewEvent(notify.EventPagePublished, notify.PageEventData{
		ID:          page.ID,
		Title:       page.Title,
		Slug:        page.Slug,
		UserID:      page.UserID,
		PublishedAt: page.PublishedAt,
	}))

	return page, nil
}

// Unpublish returns a published page to draft. published_at is kept.
func (s *PageService) Unpublish(ctx context.Context, userID, pageID int64) (*model.Page, error) {
	p, err := s.getOwned(ctx, userID, pageID)
	if err != nil {
		return nil, err
	}
	if p.Status != model.PageStatusPublished {
		return nil, conflict("page is not published")
	}

	p, err = s.queries.UnpublishPage(ctx, store.UnpublishPageParams{
		UpdatedAt: s.now().UTC(),
		ID:        p.ID,
	})
	if err != nil {
		return nil, translateStoreErr(err, "unpublishing page", "page")
	}

	s.renderCache.Invalidate(ctx, p.Slug)
	s.logger.Info("page unpublished", "page_id", p.ID, "slug", p.Slug, "user_id", userID)
	return pageFromStore(p), nil
}

// Clone copies a page and all of its sections into a new draft page.
func (s *PageService) Clone(ctx context.Context, userID, pageID int64) (*model.Page, error) {
	src, err := s.getOwned(ctx, userID, pageID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	var cloneID int64
	err = store.ExecTx(ctx, s.db, func(q *store.Queries) error {
		created, err := q.CreatePage(ctx, store.CreatePageParams{
			Title:     src.Title + " (Copy)",
			Slug:      src.Slug + "-copy-" + util.RandomToken(8),
			Status:    model.PageStatusDraft,
			UserID:    userID,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return err
		}

		sections, err := q.ListPageSections(ctx, src.ID)
		if err != nil {
			return err
		}
		for _, sec := range sections {
			if _, err := q.CreatePageSection(ctx, store.CreatePageSectionParams{
				PageID:          created.ID,
				BlockTemplateID: sec.BlockTemplateID,
				OrderNum:        sec.OrderNum,
				IsActive:        sec.IsActive,
				CustomContent:   sec.CustomContent,
				CreatedAt:       now,
				UpdatedAt:       now,
			}); err != nil {
				return err
			}
		}

		cloneID = created.ID
		return nil
	})
	if err != nil {
		return nil, translateStoreErr(err, "cloning page", "page")
	}

	s.logger.Info("page cloned", "source_id", src.ID, "page_id", cloneID, "user_id", userID)
	return s.Get(ctx, userID, cloneID)
}

// Delete removes a page that has no sections.
func (s *PageService) Delete(ctx context.Context, userID, pageID int64) error {
	p, err := s.getOwned(ctx, userID, pageID)
	if err != nil {
		return err
	}

	count, err := s.queries.CountPageSections(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("counting sections: %w", err)
	}
	if count > 0 {
		return conflict("cannot delete page with %d sections, remove them first", count)
	}

	if err := s.queries.DeletePage(ctx, p.ID); err != nil {
		return translateStoreErr(err, "deleting page", "page")
	}

	s.renderCache.Invalidate(ctx, p.Slug)
	s.logger.Info("page deleted", "page_id", p.ID, "slug", p.Slug, "user_id", userID)
	return nil
}

// Get returns a page with all of its sections in render order.
func (s *PageService) Get(ctx context.Context, userID, pageID int64) (*model.Page, error) {
	p, err := s.getOwned(ctx, userID, pageID)
	if err != nil {
		return nil, err
	}

	sections, err := s.sections(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	page := pageFromStore(p)
	page.Sections = sections
	return page, nil
}

// List returns the caller's pages, newest first.
func (s *PageService) List(ctx context.Context, userID int64, filter model.PageFilter) (*model.List[model.PageSummary], error) {
	switch filter.Status {
	case "", model.PageStatusDraft, model.PageStatusPublished:
	default:
		return nil, invalid("invalid status %q", filter.Status)
	}

	page, size := model.NormalizePaging(filter.Page, filter.PageSize)
	search := strings.TrimSpace(filter.SearchKeyword)

	rows, err := s.queries.ListPagesForUser(ctx, store.ListPagesForUserParams{
		UserID: userID,
		Status: filter.Status,
		Search: search,
		Limit:  int64(size),
		Offset: int64(model.Offset(page, size)),
	})
	if err != nil {
		return nil, fmt.Errorf("listing pages: %w", err)
	}

	total, err := s.queries.CountPagesForUser(ctx, store.CountPagesForUserParams{
		UserID: userID,
		Status: filter.Status,
		Search: search,
	})
	if err != nil {
		return nil, fmt.Errorf("counting pages: %w", err)
	}

	items := make([]model.PageSummary, 0, len(rows))
	for _, r := range rows {
		items = append(items, model.PageSummary{
			ID:           r.ID,
			Title:        r.Title,
			Slug:         r.Slug,
			Status:       r.Status,
			PublishedAt:  util.TimePtr(r.PublishedAt),
			SectionCount: r.SectionCount,
			CreatedAt:    r.CreatedAt,
			UpdatedAt:    r.UpdatedAt,
		})
	}

	return &model.List[model.PageSummary]{Items: items, Total: total, Page: page, PageSize: size}, nil
}

func (s *PageService) getOwned(ctx context.Context, userID, pageID int64) (store.Page, error) {
	p, err := s.queries.GetPageForUser(ctx, store.GetPageForUserParams{ID: pageID, UserID: userID})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Page{}, notFound("page not found")
		}
		return store.Page{}, fmt.Errorf("getting page: %w", err)
	}
	return p, nil
}

func (s *PageService) sections(ctx context.Context, pageID int64) ([]model.Section, error) {
	rows, err := s.queries.ListPageSectionsWithTemplate(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("listing sections: %w", err)
	}
	return sectionsFromRows(rows), nil
}

// uniqueSlug returns base, or base with a random suffix when another page
// already uses it. The suffixed slug is not checked again.
func (s *PageService) uniqueSlug(ctx context.Context, base string, excludeID int64) (string, error) {
	if base == "" {
		base = fallbackSlug
	}

	var (
		n   int64
		err error
	)
	if excludeID > 0 {
		n, err = s.queries.PageSlugExistsExcluding(ctx, store.PageSlugExistsExcludingParams{Slug: base, ID: excludeID})
	} else {
		n, err = s.queries.PageSlugExists(ctx, base)
	}
	if err != nil {
		return "", fmt.Errorf("checking slug: %w", err)
	}

	if n > 0 {
		return util.WithSuffix(base), nil
	}
	return base, nil
}

func (s *PageService) touch(ctx context.Context, q *store.Queries, pageID int64) error {
	if err := q.TouchPage(ctx, store.TouchPageParams{UpdatedAt: s.now().UTC(), ID: pageID}); err != nil {
		return fmt.Errorf("touching page: %w", err)
	}
	return nil
}

// requireSections rejects publishing a page that has no sections.
func (s *PageService) requireSections(ctx context.Context, pageID int64) error {
	count, err := s.queries.CountPageSections(ctx, pageID)
	if err != nil {
		return fmt.Errorf("counting sections: %w", err)
	}
	if count == 0 {
		return conflict("cannot publish page without sections")
	}
	return nil
}

// notify hands event to the notifier. A typed nil such as a nil
// *notify.Dispatcher is accepted: Dispatcher.Notify drops events on a nil
// receiver.
func (s *PageService) notify(event *notify.Event) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(event)
}

func requireDraft(status string) error {
	if status != model.PageStatusDraft {
		return conflict("cannot edit published page, unpublish first")
	}
	return nil
}
