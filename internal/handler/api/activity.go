// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import "net/http"

// ListActivity handles GET /activity?entity_type=&page=&per_page=.
func (h *Handler) ListActivity(w http.ResponseWriter, r *http.Request) {
	page, perPage := paging(r)
	list, err := h.activity.List(r.Context(), r.URL.Query().Get("entity_type"), page, perPage)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, list.Items, listMeta(list))
}
