// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"encoding/json"

	"github.com/olegiv/landing-cms/internal/model"
	"github.com/olegiv/landing-cms/internal/store"
	"github.com/olegiv/landing-cms/internal/util"
)

func pageFromStore(p store.Page) *model.Page {
	return &model.Page{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Status:      p.Status,
		UserID:      p.UserID,
		PublishedAt: util.TimePtr(p.PublishedAt),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func sectionFromStore(s store.PageSection) model.Section {
	return model.Section{
		ID:              s.ID,
		PageID:          s.PageID,
		BlockTemplateID: s.BlockTemplateID,
		OrderNum:        int(s.OrderNum),
		IsActive:        s.IsActive,
		CustomContent:   s.CustomContent,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func sectionsFromRows(rows []store.PageSectionWithTemplateRow) []model.Section {
	sections := make([]model.Section, 0, len(rows))
	for _, r := range rows {
		s := sectionFromStore(r.PageSection)
		s.TemplateName = r.TemplateName
		s.TemplateType = r.TemplateType
		s.DefaultHTML = r.DefaultHtml
		sections = append(sections, s)
	}
	return sections
}

func templateFromStore(t store.BlockTemplate) *model.BlockTemplate {
	return &model.BlockTemplate{
		ID:          t.ID,
		Name:        t.Name,
		Type:        t.Type,
		DefaultHTML: t.DefaultHtml,
		Description: t.Description,
		IsActive:    t.IsActive,
		CreatedAt:   t.CreatedAt,
	}
}

func leadFromStore(r store.LeadWithPageRow) model.Lead {
	data := map[string]string{}
	// Rows written by SubmitLead are always valid JSON objects.
	_ = json.Unmarshal([]byte(r.FormData), &data)
	return model.Lead{
		ID:          r.ID,
		PageID:      r.PageID,
		PageTitle:   r.PageTitle,
		PageSlug:    r.PageSlug,
		FormData:    data,
		IPAddress:   r.IpAddress,
		SubmittedAt: r.SubmittedAt,
	}
}

func postFromStore(p store.Post) *model.Post {
	return &model.Post{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Content:     p.Content,
		Excerpt:     p.Excerpt,
		Status:      p.Status,
		UserID:      p.UserID,
		PublishedAt: util.TimePtr(p.PublishedAt),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func activityFromStore(a store.ActivityLog) model.ActivityLog {
	return model.ActivityLog{
		ID:         a.ID,
		UserID:     util.Int64Ptr(a.UserID),
		Action:     a.Action,
		EntityType: a.EntityType,
		EntityID:   a.EntityID,
		Details:    a.Details,
		IPAddress:  a.IpAddress,
		CreatedAt:  a.CreatedAt,
	}
}

func formFromStore(f store.Form, submissions int64) *model.Form {
	fields := []model.FormField{}
	// fields_json is written only after validation.
	_ = json.Unmarshal([]byte(f.FieldsJson), &fields)
	return &model.Form{
		ID:              f.ID,
		Name:            f.Name,
		Description:     f.Description,
		Fields:          fields,
		IsActive:        f.IsActive,
		UserID:          f.UserID,
		SubmissionCount: submissions,
		CreatedAt:       f.CreatedAt,
		UpdatedAt:       f.UpdatedAt,
	}
}

func submissionFromStore(s store.FormSubmission, formName string) model.FormSubmission {
	data := map[string]string{}
	_ = json.Unmarshal([]byte(s.DataJson), &data)
	return model.FormSubmission{
		ID:          s.ID,
		FormID:      s.FormID,
		FormName:    formName,
		Data:        data,
		IPAddress:   s.IpAddress,
		UserAgent:   s.UserAgent,
		SubmittedAt: s.SubmittedAt,
	}
}

func menuFromStore(m store.Menu) *model.Menu {
	return &model.Menu{
		ID:        m.ID,
		Name:      m.Name,
		Location:  m.Location,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func menuItemFromStore(i store.MenuItem) model.MenuItem {
	return model.MenuItem{
		ID:        i.ID,
		MenuID:    i.MenuID,
		ParentID:  util.Int64Ptr(i.ParentID),
		Label:     i.Label,
		URL:       i.Url,
		OrderNum:  int(i.OrderNum),
		IsActive:  i.IsActive,
		CreatedAt: i.CreatedAt,
	}
}

func categoryFromStore(c store.Category) model.Category {
	return model.Category{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
	}
}

func tagFromStore(t store.Tag) model.Tag {
	return model.Tag{
		ID:        t.ID,
		Name:      t.Name,
		Slug:      t.Slug,
		CreatedAt: t.CreatedAt,
	}
}
