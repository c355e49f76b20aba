// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/landing-cms/internal/service"
)

// ListPosts handles GET /posts?status=&page=&per_page=.
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	page, perPage := paging(r)
	list, err := h.posts.List(r.Context(), userID, r.URL.Query().Get("status"), page, perPage)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, list.Items, listMeta(list))
}

// CreatePost handles POST /posts.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req service.PostInput
	if !decodeJSON(w, r, &req) {
		return
	}

	post, err := h.posts.Create(r.Context(), userID, req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteCreated(w, post)
}

// GetPost handles GET /posts/{id}.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := requireID(w, r, "post")
	if !ok {
		return
	}

	post, err := h.posts.Get(r.Context(), userID, id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, post, nil)
}

// UpdatePost handles PUT /posts/{id}. The body replaces every field.
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := requireID(w, r, "post")
	if !ok {
		return
	}

	var req service.PostInput
	if !decodeJSON(w, r, &req) {
		return
	}

	post, err := h.posts.Update(r.Context(), userID, id, req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, post, nil)
}

// DeletePost handles DELETE /posts/{id}.
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := requireID(w, r, "post")
	if !ok {
		return
	}

	if err := h.posts.Delete(r.Context(), userID, id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
