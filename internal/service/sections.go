// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/olegiv/landing-cms/internal/model"
	"github.com/olegiv/landing-cms/internal/store"
)

// AddSectionInput places a block template on a page. A nil OrderNum
// appends after the current last section.
type AddSectionInput struct {
	BlockTemplateID int64   `json:"block_template_id"`
	OrderNum        *int    `json:"order_num"`
	CustomContent   *string `json:"custom_content"`
}

// UpdateSectionInput is a partial section update. Nil fields are left unchanged.
type UpdateSectionInput struct {
	OrderNum      *int    `json:"order_num"`
	IsActive      *bool   `json:"is_active"`
	CustomContent *string `json:"custom_content"`
}

// SectionOrder moves one section to a new position.
type SectionOrder struct {
	SectionID int64 `json:"section_id"`
	OrderNum  int   `json:"order_num"`
}

// AddSection appends a section to a draft page.
func (s *PageService) AddSection(ctx context.Context, userID, pageID int64, in AddSectionInput) (*model.Section, error) {
	p, err := s.getOwned(ctx, userID, pageID)
	if err != nil {
		return nil, err
	}
	if err := requireDraft(p.Status); err != nil {
		return nil, err
	}

	tmpl, err := s.queries.GetBlockTemplate(ctx, in.BlockTemplateID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("block template not found")
		}
		return nil, fmt.Errorf("getting block template: %w", err)
	}

	var order int64
	if in.OrderNum != nil {
		order = normalizeOrder(*in.OrderNum)
	} else {
		maxOrder, err := s.queries.GetMaxSectionOrder(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("getting max section order: %w", err)
		}
		order = maxOrder + 1
	}

	content := ""
	if in.CustomContent != nil {
		content = *in.CustomContent
	}

	now := s.now().UTC()
	sec, err := s.queries.CreatePageSection(ctx, store.CreatePageSectionParams{
		PageID:          p.ID,
		BlockTemplateID: tmpl.ID,
		OrderNum:        order,
		IsActive:        true,
		CustomContent:   content,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		if store.IsUniqueViolation(err) {
			return nil, conflict("order position %d is already taken on this page", order)
		}
		return nil, translateStoreErr(err, "adding section", "section")
	}
	if err := s.touch(ctx, s.queries, p.ID); err != nil {
		return nil, err
	}

	section := sectionFromStore(sec)
	section.TemplateName = tmpl.Name
	section.TemplateType = tmpl.Type
	section.DefaultHTML = tmpl.DefaultHtml

	s.logger.Info("section added", "page_id", p.ID, "section_id", sec.ID, "order_num", order)
	return &section, nil
}

// UpdateSection changes the position, visibility or content of a section on
// a draft page. Concurrent updates are last-writer-wins.
func (s *PageService) UpdateSection(ctx context.Context, userID, sectionID int64, in UpdateSectionInput) (*model.Section, error) {
	row, err := s.getOwnedSection(ctx, userID, sectionID)
	if err != nil {
		return nil, err
	}
	if err := requireDraft(row.PageStatus); err != nil {
		return nil, err
	}

	params := store.UpdatePageSectionParams{
		OrderNum:      row.OrderNum,
		IsActive:      row.IsActive,
		CustomContent: row.CustomContent,
		UpdatedAt:     s.now().UTC(),
		ID:            row.ID,
	}
	if in.OrderNum != nil {
		params.OrderNum = normalizeOrder(*in.OrderNum)
	}
	if in.IsActive != nil {
		params.IsActive = *in.IsActive
	}
	if in.CustomContent != nil {
		params.CustomContent = *in.CustomContent
	}

	sec, err := s.queries.UpdatePageSection(ctx, params)
	if err != nil {
		if store.IsUniqueViolation(err) {
			return nil, conflict("order position %d is already taken on this page", params.OrderNum)
		}
		return nil, translateStoreErr(err, "updating section", "section")
	}
	if err := s.touch(ctx, s.queries, row.PageID); err != nil {
		return nil, err
	}

	section := sectionFromStore(sec)
	return &section, nil
}

// DeleteSection removes a section from a draft page.
func (s *PageService) DeleteSection(ctx context.Context, userID, sectionID int64) error {
	row, err := s.getOwnedSection(ctx, userID, sectionID)
	if err != nil {
		return err
	}
	if err := requireDraft(row.PageStatus); err != nil {
		return err
	}

	if err := s.queries.DeletePageSection(ctx, row.ID); err != nil {
		return translateStoreErr(err, "deleting section", "section")
	}
	if err := s.touch(ctx, s.queries, row.PageID); err != nil {
		return err
	}

	s.logger.Info("section deleted", "page_id", row.PageID, "section_id", row.ID)
	return nil
}

// ReorderSections moves several sections of a draft page in one transaction.
// Sections that do not belong to the page are skipped. Two entries may not
// target the same position. Positions are first parked at negative values
// so swaps never trip the per-page unique order index.
func (s *PageService) ReorderSections(ctx context.Context, userID, pageID int64, orders []SectionOrder) ([]model.Section, error) {
	p, err := s.getOwned(ctx, userID, pageID)
	if err != nil {
		return nil, err
	}
	if err := requireDraft(p.Status); err != nil {
		return nil, err
	}

	seenSection := make(map[int64]struct{}, len(orders))
	seenOrder := make(map[int64]int64, len(orders))
	for _, o := range orders {
		if _, dup := seenSection[o.SectionID]; dup {
			return nil, invalid("section %d listed more than once", o.SectionID)
		}
		seenSection[o.SectionID] = struct{}{}

		n := normalizeOrder(o.OrderNum)
		if other, dup := seenOrder[n]; dup {
			return nil, invalid("sections %d and %d both target order %d", other, o.SectionID, n)
		}
		seenOrder[n] = o.SectionID
	}

	err = store.ExecTx(ctx, s.db, func(q *store.Queries) error {
		existing, err := q.ListPageSections(ctx, p.ID)
		if err != nil {
			return err
		}
		known := make(map[int64]struct{}, len(existing))
		for _, sec := range existing {
			known[sec.ID] = struct{}{}
		}

		moves := make([]SectionOrder, 0, len(orders))
		for _, o := range orders {
			if _, ok := known[o.SectionID]; ok {
				moves = append(moves, o)
			}
		}
		if len(moves) == 0 {
			return nil
		}

		now := s.now().UTC()
		for i, m := range moves {
			if err := q.UpdatePageSectionOrder(ctx, store.UpdatePageSectionOrderParams{
				OrderNum:  -int64(i + 1),
				UpdatedAt: now,
				ID:        m.SectionID,
				PageID:    p.ID,
			}); err != nil {
				return err
			}
		}
		for _, m := range moves {
			if err := q.UpdatePageSectionOrder(ctx, store.UpdatePageSectionOrderParams{
				OrderNum:  normalizeOrder(m.OrderNum),
				UpdatedAt: now,
				ID:        m.SectionID,
				PageID:    p.ID,
			}); err != nil {
				return err
			}
		}
		return s.touch(ctx, q, p.ID)
	})
	if err != nil {
		if store.IsUniqueViolation(err) {
			return nil, conflict("reorder collides with a section that was not moved")
		}
		return nil, translateStoreErr(err, "reordering sections", "section")
	}

	return s.sections(ctx, p.ID)
}

func (s *PageService) getOwnedSection(ctx context.Context, userID, sectionID int64) (store.GetPageSectionForUserRow, error) {
	row, err := s.queries.GetPageSectionForUser(ctx, store.GetPageSectionForUserParams{ID: sectionID, UserID: userID})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return row, notFound("section not found")
		}
		return row, fmt.Errorf("getting section: %w", err)
	}
	return row, nil
}

// normalizeOrder clamps negative positions to 0.
func normalizeOrder(n int) int64 {
	if n < 0 {
		return 0
	}
	return int64(n)
}
