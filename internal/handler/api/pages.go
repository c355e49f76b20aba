// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"

	"github.com/olegiv/landing-cms/internal/model"
	"github.com/olegiv/landing-cms/internal/service"
)

// ReorderSectionsRequest is the body of PUT /pages/{id}/sections/reorder.
type ReorderSectionsRequest struct {
	Sections []service.SectionOrder `json:"sections"`
}

// ListPages handles GET /pages?status=&search=&page=&per_page=.
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	page, perPage := paging(r)
	list, err := h.pages.List(r.Context(), userID, model.PageFilter{
		Status:        r.URL.Query().Get("status"),
		SearchKeyword: r.URL.Query().Get("search"),
		Page:          page,
		PageSize:      perPage,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, list.Items, listMeta(list))
}

// CreatePage handles POST /pages.
func (h *Handler) CreatePage(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req service.CreatePageInput
	if !decodeJSON(w, r, &req) {
		return
	}

	page, err := h.pages.Create(r.Context(), userID, req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteCreated(w, page)
}

// GetPage handles GET /pages/{id}.
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	h.pageAction(w, r, h.pages.Get)
}

// UpdatePage handles PUT /pages/{id}.
func (h *Handler) UpdatePage(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := requireID(w, r, "page")
	if !ok {
		return
	}

	var req service.UpdatePageInput
	if !decodeJSON(w, r, &req) {
		return
	}

	page, err := h.pages.Update(r.Context(), userID, id, req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, page, nil)
}

// DeletePage handles DELETE /pages/{id}.
func (h *Handler) DeletePage(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := requireID(w, r, "page")
	if !ok {
		return
	}

	if err := h.pages.Delete(r.Context(), userID, id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PublishPage handles POST /pages/{id}/publish.
func (h *Handler) PublishPage(w http.ResponseWriter, r *http.Request) {
	h.pageAction(w, r, h.pages.Publish)
}

// UnpublishPage handles POST /pages/{id}/unpublish.
func (h *Handler) UnpublishPage(w http.ResponseWriter, r *http.Request) {
	h.pageAction(w, r, h.pages.Unpublish)
}

// ClonePage handles POST /pages/{id}/clone.
func (h *Handler) ClonePage(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := requireID(w, r, "page")
	if !ok {
		return
	}

	page, err := h.pages.Clone(r.Context(), userID, id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteCreated(w, page)
}

// pageAction runs a body-less page operation and writes the resulting page.
func (h *Handler) pageAction(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, userID, pageID int64) (*model.Page, error)) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := requireID(w, r, "page")
	if !ok {
		return
	}

	page, err := op(r.Context(), userID, id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, page, nil)
}

// AddSection handles POST /pages/{id}/sections.
func (h *Handler) AddSection(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	pageID, ok := requireID(w, r, "page")
	if !ok {
		return
	}

	var req service.AddSectionInput
	if !decodeJSON(w, r, &req) {
		return
	}

	section, err := h.pages.AddSection(r.Context(), userID, pageID, req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteCreated(w, section)
}

// ReorderSections handles PUT /pages/{id}/sections/reorder.
func (h *Handler) ReorderSections(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	pageID, ok := requireID(w, r, "page")
	if !ok {
		return
	}

	var req ReorderSectionsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sections, err := h.pages.ReorderSections(r.Context(), userID, pageID, req.Sections)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, sections, nil)
}

// UpdateSection handles PUT /sections/{id}.
func (h *Handler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := requireID(w, r, "section")
	if !ok {
		return
	}

	var req service.UpdateSectionInput
	if !decodeJSON(w, r, &req) {
		return
	}

	section, err := h.pages.UpdateSection(r.Context(), userID, id, req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, section, nil)
}

// DeleteSection handles DELETE /sections/{id}.
func (h *Handler) DeleteSection(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := requireID(w, r, "section")
	if !ok {
		return
	}

	if err := h.pages.DeleteSection(r.Context(), userID, id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
