// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/olegiv/landing-cms/internal/model"
	"github.com/olegiv/landing-cms/internal/service"
)

// ImportResponse reports how many templates an import created.
type ImportResponse struct {
	Imported int `json:"imported"`
}

// ListTemplates handles GET /templates?type=&search=&sort=&order=&page=&per_page=.
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, perPage := paging(r)

	list, err := h.templates.List(r.Context(), model.TemplateFilter{
		Type:     q.Get("type"),
		Keyword:  q.Get("search"),
		SortBy:   q.Get("sort"),
		SortDesc: strings.EqualFold(q.Get("order"), "desc"),
		Page:     page,
		PageSize: perPage,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, list.Items, listMeta(list))
}

// CreateTemplate handles POST /templates.
func (h *Handler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req service.CreateTemplateInput
	if !decodeJSON(w, r, &req) {
		return
	}

	tmpl, err := h.templates.Create(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteCreated(w, tmpl)
}

// GetTemplate handles GET /templates/{id}.
func (h *Handler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "template")
	if !ok {
		return
	}

	tmpl, err := h.templates.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, tmpl, nil)
}

// UpdateTemplate handles PUT /templates/{id}.
func (h *Handler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "template")
	if !ok {
		return
	}

	var req service.UpdateTemplateInput
	if !decodeJSON(w, r, &req) {
		return
	}

	tmpl, err := h.templates.Update(r.Context(), id, req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, tmpl, nil)
}

// DeleteTemplate handles DELETE /templates/{id}.
func (h *Handler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "template")
	if !ok {
		return
	}

	if err := h.templates.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportTemplates handles GET /templates/export as a JSON file download.
func (h *Handler) ExportTemplates(w http.ResponseWriter, r *http.Request) {
	data, err := h.templates.Export(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="block-templates.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// ImportTemplates handles POST /templates/import. The body is the JSON
// array produced by ExportTemplates.
func (h *Handler) ImportTemplates(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, http.StatusRequestEntityTooLarge, "too_large", "Import file is too large", nil)
			return
		}
		WriteBadRequest(w, "Failed to read request body", nil)
		return
	}

	n, err := h.templates.Import(r.Context(), data)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteCreated(w, ImportResponse{Imported: n})
}
