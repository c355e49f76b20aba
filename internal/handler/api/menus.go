// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/landing-cms/internal/service"
)

// ReorderMenuItemsRequest lists a menu's item ids in their new order.
type ReorderMenuItemsRequest struct {
	ItemIDs []int64 `json:"item_ids"`
}

// ListMenus handles GET /menus.
func (h *Handler) ListMenus(w http.ResponseWriter, r *http.Request) {
	menus, err := h.menus.List(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, menus, nil)
}

// CreateMenu handles POST /menus.
func (h *Handler) CreateMenu(w http.ResponseWriter, r *http.Request) {
	var req service.MenuInput
	if !decodeJSON(w, r, &req) {
		return
	}

	menu, err := h.menus.Create(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteCreated(w, menu)
}

// GetMenu handles GET /menus/{id}.
func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "menu")
	if !ok {
		return
	}

	menu, err := h.menus.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, menu, nil)
}

// UpdateMenu handles PUT /menus/{id}.
func (h *Handler) UpdateMenu(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "menu")
	if !ok {
		return
	}

	var req service.MenuInput
	if !decodeJSON(w, r, &req) {
		return
	}

	menu, err := h.menus.Update(r.Context(), id, req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, menu, nil)
}

// DeleteMenu handles DELETE /menus/{id}.
func (h *Handler) DeleteMenu(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "menu")
	if !ok {
		return
	}

	if err := h.menus.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateMenuItem handles POST /menus/{id}/items.
func (h *Handler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	menuID, ok := requireID(w, r, "menu")
	if !ok {
		return
	}

	var req service.MenuItemInput
	if !decodeJSON(w, r, &req) {
		return
	}

	item, err := h.menus.CreateItem(r.Context(), menuID, req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteCreated(w, item)
}

// ReorderMenuItems handles PUT /menus/{id}/items/reorder.
func (h *Handler) ReorderMenuItems(w http.ResponseWriter, r *http.Request) {
	menuID, ok := requireID(w, r, "menu")
	if !ok {
		return
	}

	var req ReorderMenuItemsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	menu, err := h.menus.ReorderItems(r.Context(), menuID, req.ItemIDs)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, menu, nil)
}

// UpdateMenuItem handles PUT /menus/items/{id}.
func (h *Handler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "menu item")
	if !ok {
		return
	}

	var req service.MenuItemInput
	if !decodeJSON(w, r, &req) {
		return
	}

	item, err := h.menus.UpdateItem(r.Context(), id, req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, item, nil)
}

// DeleteMenuItem handles DELETE /menus/items/{id}.
func (h *Handler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "menu item")
	if !ok {
		return
	}

	if err := h.menus.DeleteItem(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
