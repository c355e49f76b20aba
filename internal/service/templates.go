// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/landing-cms/internal/model"
	"github.com/olegiv/landing-cms/internal/store"
)

// CreateTemplateInput holds the fields for a new block template.
type CreateTemplateInput struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	DefaultHTML string `json:"default_html"`
	Description string `json:"description"`
}

// UpdateTemplateInput is a partial template update. Nil fields are left unchanged.
type UpdateTemplateInput struct {
	Name        *string `json:"name"`
	Type        *string `json:"type"`
	DefaultHTML *string `json:"default_html"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

var templateSorts = map[string]bool{"": true, "name": true, "type": true, "created": true}

// TemplateService manages the block template catalog.
type TemplateService struct {
	db      *sql.DB
	queries *store.Queries
	logger  *slog.Logger
	now     func() time.Time
}

// NewTemplateService creates a new TemplateService.
func NewTemplateService(db *sql.DB, logger *slog.Logger) *TemplateService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TemplateService{db: db, queries: store.New(db), logger: logger, now: time.Now}
}

// Create adds an active block template.
func (s *TemplateService) Create(ctx context.Context, in CreateTemplateInput) (*model.BlockTemplate, error) {
	name := strings.TrimSpace(in.Name)
	typ := strings.TrimSpace(in.Type)
	if name == "" {
		return nil, invalid("name is required")
	}
	if typ == "" {
		return nil, invalid("type is required")
	}

	t, err := s.queries.CreateBlockTemplate(ctx, store.CreateBlockTemplateParams{
		Name:        name,
		Type:        typ,
		DefaultHtml: in.DefaultHTML,
		Description: in.Description,
		IsActive:    true,
		CreatedAt:   s.now().UTC(),
	})
	if err != nil {
		return nil, translateStoreErr(err, "creating block template", "block template")
	}

	s.logger.Info("block template created", "template_id", t.ID, "type", t.Type)
	return templateFromStore(t), nil
}

// Get returns a block template by id.
func (s *TemplateService) Get(ctx context.Context, id int64) (*model.BlockTemplate, error) {
	t, err := s.queries.GetBlockTemplate(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("block template not found")
		}
		return nil, fmt.Errorf("getting block template: %w", err)
	}
	return templateFromStore(t), nil
}

// Update applies a partial update. Blank name or type values are ignored.
func (s *TemplateService) Update(ctx context.Context, id int64, in UpdateTemplateInput) (*model.BlockTemplate, error) {
	t, err := s.queries.GetBlockTemplate(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("block template not found")
		}
		return nil, fmt.Errorf("getting block template: %w", err)
	}

	params := store.UpdateBlockTemplateParams{
		Name:        t.Name,
		Type:        t.Type,
		DefaultHtml: t.DefaultHtml,
		Description: t.Description,
		IsActive:    t.IsActive,
		ID:          t.ID,
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		params.Name = strings.TrimSpace(*in.Name)
	}
	if in.Type != nil && strings.TrimSpace(*in.Type) != "" {
		params.Type = strings.TrimSpace(*in.Type)
	}
	if in.DefaultHTML != nil {
		params.DefaultHtml = *in.DefaultHTML
	}
	if in.Description != nil {
		params.Description = *in.Description
	}
	if in.IsActive != nil {
		params.IsActive = *in.IsActive
	}

	t, err = s.queries.UpdateBlockTemplate(ctx, params)
	if err != nil {
		return nil, translateStoreErr(err, "updating block template", "block template")
	}
	return templateFromStore(t), nil
}

// Delete removes a block template that no section references.
func (s *TemplateService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	count, err := s.queries.CountSectionsForTemplate(ctx, id)
	if err != nil {
		return fmt.Errorf("counting template usage: %w", err)
	}
	if count > 0 {
		return conflict("block template is used by %d sections", count)
	}

	if err := s.queries.DeleteBlockTemplate(ctx, id); err != nil {
		return translateStoreErr(err, "deleting block template", "block template")
	}

	s.logger.Info("block template deleted", "template_id", id)
	return nil
}

// List returns templates matching filter.
func (s *TemplateService) List(ctx context.Context, filter model.TemplateFilter) (*model.List[model.BlockTemplate], error) {
	if !templateSorts[filter.SortBy] {
		return nil, invalid("invalid sort field %q", filter.SortBy)
	}

	page, size := model.NormalizePaging(filter.Page, filter.PageSize)
	typ := strings.TrimSpace(filter.Type)
	keyword := strings.TrimSpace(filter.Keyword)

	rows, err := s.queries.ListBlockTemplates(ctx, store.ListBlockTemplatesParams{
		Type:     typ,
		Search:   keyword,
		SortBy:   filter.SortBy,
		SortDesc: filter.SortDesc,
		Limit:    int64(size),
		Offset:   int64(model.Offset(page, size)),
	})
	if err != nil {
		return nil, fmt.Errorf("listing block templates: %w", err)
	}

	total, err := s.queries.CountBlockTemplates(ctx, store.CountBlockTemplatesParams{Type: typ, Search: keyword})
	if err != nil {
		return nil, fmt.Errorf("counting block templates: %w", err)
	}

	items := make([]model.BlockTemplate, 0, len(rows))
	for _, r := range rows {
		items = append(items, *templateFromStore(r))
	}
	return &model.List[model.BlockTemplate]{Items: items, Total: total, Page: page, PageSize: size}, nil
}

// Export returns every template as indented JSON.
func (s *TemplateService) Export(ctx context.Context) ([]byte, error) {
	var out []model.TemplateExport
	for page := 1; ; page++ {
		list, err := s.List(ctx, model.TemplateFilter{SortBy: "name", Page: page, PageSize: model.MaxPageSize})
		if err != nil {
			return nil, err
		}
		for _, t := range list.Items {
			out = append(out, model.TemplateExport{
				Name:        t.Name,
				Type:        t.Type,
				DefaultHTML: t.DefaultHTML,
				Description: t.Description,
			})
		}
		if page >= list.TotalPages() {
			break
		}
	}
	if out == nil {
		out = []model.TemplateExport{}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding templates: %w", err)
	}
	return data, nil
}

// Import creates a template for every entry in a JSON array produced by
// Export. All entries are inserted in one transaction.
func (s *TemplateService) Import(ctx context.Context, data []byte) (int, error) {
	var entries []model.TemplateExport
	if err := json.Unmarshal(data, &entries); err != nil {
		return 0, invalid("Invalid JSON format")
	}

	for i, e := range entries {
		if strings.TrimSpace(e.Name) == "" || strings.TrimSpace(e.Type) == "" {
			return 0, invalid("template %d: name and type are required", i)
		}
	}

	now := s.now().UTC()
	err := store.ExecTx(ctx, s.db, func(q *store.Queries) error {
		for _, e := range entries {
			if _, err := q.CreateBlockTemplate(ctx, store.CreateBlockTemplateParams{
				Name:        strings.TrimSpace(e.Name),
				Type:        strings.TrimSpace(e.Type),
				DefaultHtml: e.DefaultHTML,
				Description: e.Description,
				IsActive:    true,
				CreatedAt:   now,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, translateStoreErr(err, "importing block templates", "block template")
	}

	s.logger.Info("block templates imported", "count", len(entries))
	return len(entries), nil
}
