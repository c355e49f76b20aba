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
	"time"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"github.com/olegiv/landing-cms/internal/model"
	"github.com/olegiv/landing-cms/internal/notify"
	"github.com/olegiv/landing-cms/internal/store"
	"github.com/olegiv/landing-cms/internal/util"
)

// Lead form limits.
const (
	MaxLeadFields     = 50
	MaxLeadFieldKey   = 100
	MaxLeadFieldValue = 5000
)

// LeadService captures form submissions from published pages.
type LeadService struct {
	queries  *store.Queries
	policy   *bluemonday.Policy
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
}

// NewLeadService creates a new LeadService. notifier may be nil.
func NewLeadService(db *sql.DB, notifier Notifier, logger *slog.Logger) *LeadService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LeadService{
		queries:  store.New(db),
		policy:   bluemonday.StrictPolicy(),
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// SubmitLead stores a visitor submission for the published page at slug.
// Markup is stripped from every key and value; plain text is kept as typed.
func (s *LeadService) SubmitLead(ctx context.Context, slug string, formData map[string]string, ip string) (*model.Lead, error) {
	page, err := s.queries.GetPublishedPageBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("page not found")
		}
		return nil, fmt.Errorf("getting published page: %w", err)
	}

	if len(formData) == 0 {
		return nil, invalid("form data is required")
	}
	if len(formData) > MaxLeadFields {
		return nil, invalid("too many fields (max %d)", MaxLeadFields)
	}

	clean := make(map[string]string, len(formData))
	for k, v := range formData {
		key := plainText(s.policy, k)
		if key == "" {
			continue
		}
		if utf8.RuneCountInString(key) > MaxLeadFieldKey {
			return nil, invalid("field name %q is too long", truncateRunes(key, MaxLeadFieldKey))
		}
		if utf8.RuneCountInString(v) > MaxLeadFieldValue {
			return nil, invalid("field %q is too long (max %d characters)", key, MaxLeadFieldValue)
		}
		clean[key] = plainText(s.policy, v)
	}
	if len(clean) == 0 {
		return nil, invalid("form data is required")
	}

	encoded, err := json.Marshal(clean)
	if err != nil {
		return nil, fmt.Errorf("encoding form data: %w", err)
	}

	row, err := s.queries.CreateLead(ctx, store.CreateLeadParams{
		PageID:      page.ID,
		FormData:    string(encoded),
		IpAddress:   ip,
		SubmittedAt: s.now().UTC(),
	})
	if err != nil {
		return nil, translateStoreErr(err, "creating lead", "lead")
	}

	lead := model.Lead{
		ID:          row.ID,
		PageID:      row.PageID,
		PageTitle:   page.Title,
		PageSlug:    page.Slug,
		FormData:    clean,
		IPAddress:   row.IpAddress,
		SubmittedAt: row.SubmittedAt,
	}

	s.logger.Info("lead submitted", "lead_id", lead.ID, "page_id", page.ID)
	if s.notifier != nil {
		s.notifier.Notify(notify.NewEvent(notify.EventLeadSubmitted, notify.LeadEventData{
			LeadID:      lead.ID,
			PageID:      page.ID,
			PageTitle:   page.Title,
			PageSlug:    page.Slug,
			OwnerID:     page.UserID,
			Data:        clean,
			SubmittedAt: lead.SubmittedAt,
		}))
	}

	return &lead, nil
}

// List returns leads on the caller's pages, newest first.
func (s *LeadService) List(ctx context.Context, userID int64, filter model.LeadFilter) (*model.List[model.Lead], error) {
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, invalid("date range end is before its start")
	}

	page, size := model.NormalizePaging(filter.Page, filter.PageSize)
	from := util.NullTimeFromPtr(filter.From)
	to := util.NullTimeFromPtr(filter.To)

	rows, err := s.queries.ListLeadsForUser(ctx, store.ListLeadsForUserParams{
		UserID: userID,
		PageID: filter.PageID,
		From:   from,
		To:     to,
		Limit:  int64(size),
		Offset: int64(model.Offset(page, size)),
	})
	if err != nil {
		return nil, fmt.Errorf("listing leads: %w", err)
	}

	total, err := s.queries.CountLeadsForUser(ctx, store.CountLeadsForUserParams{
		UserID: userID,
		PageID: filter.PageID,
		From:   from,
		To:     to,
	})
	if err != nil {
		return nil, fmt.Errorf("counting leads: %w", err)
	}

	items := make([]model.Lead, 0, len(rows))
	for _, r := range rows {
		items = append(items, leadFromStore(r))
	}
	return &model.List[model.Lead]{Items: items, Total: total, Page: page, PageSize: size}, nil
}

// Get returns one lead on the caller's pages.
func (s *LeadService) Get(ctx context.Context, userID, leadID int64) (*model.Lead, error) {
	row, err := s.queries.GetLeadForUser(ctx, store.GetLeadForUserParams{ID: leadID, UserID: userID})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("lead not found")
		}
		return nil, fmt.Errorf("getting lead: %w", err)
	}
	lead := leadFromStore(row)
	return &lead, nil
}

// Delete removes one lead on the caller's pages.
func (s *LeadService) Delete(ctx context.Context, userID, leadID int64) error {
	if _, err := s.Get(ctx, userID, leadID); err != nil {
		return err
	}
	if err := s.queries.DeleteLead(ctx, leadID); err != nil {
		return fmt.Errorf("deleting lead: %w", err)
	}
	s.logger.Info("lead deleted", "lead_id", leadID, "user_id", userID)
	return nil
}
