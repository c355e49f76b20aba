// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/landing-cms/internal/service"
)

// ListCategories handles GET /categories.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.taxonomy.ListCategories(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, cats, nil)
}

// CreateCategory handles POST /categories.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req service.TermInput
	if !decodeJSON(w, r, &req) {
		return
	}

	cat, err := h.taxonomy.CreateCategory(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteCreated(w, cat)
}

// UpdateCategory handles PUT /categories/{id}.
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "category")
	if !ok {
		return
	}

	var req service.TermInput
	if !decodeJSON(w, r, &req) {
		return
	}

	cat, err := h.taxonomy.UpdateCategory(r.Context(), id, req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, cat, nil)
}

// DeleteCategory handles DELETE /categories/{id}.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "category")
	if !ok {
		return
	}

	if err := h.taxonomy.DeleteCategory(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListTags handles GET /tags.
func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.taxonomy.ListTags(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, tags, nil)
}

// CreateTag handles POST /tags.
func (h *Handler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req service.TermInput
	if !decodeJSON(w, r, &req) {
		return
	}

	tag, err := h.taxonomy.CreateTag(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteCreated(w, tag)
}

// UpdateTag handles PUT /tags/{id}.
func (h *Handler) UpdateTag(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "tag")
	if !ok {
		return
	}

	var req service.TermInput
	if !decodeJSON(w, r, &req) {
		return
	}

	tag, err := h.taxonomy.UpdateTag(r.Context(), id, req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, tag, nil)
}

// DeleteTag handles DELETE /tags/{id}.
func (h *Handler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "tag")
	if !ok {
		return
	}

	if err := h.taxonomy.DeleteTag(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
