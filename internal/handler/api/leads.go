// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/olegiv/landing-cms/internal/model"
)

// dateLayout is the day-only form accepted for lead date filters.
const dateLayout = "2006-01-02"

// parseDateParam accepts RFC 3339 or YYYY-MM-DD. A day-only "to" bound
// covers the whole day.
func parseDateParam(raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

// ListLeads handles GET /leads?page_id=&from=&to=&page=&per_page=.
func (h *Handler) ListLeads(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter := model.LeadFilter{}
	filter.Page, filter.PageSize = paging(r)

	if raw := q.Get("page_id"); raw != "" {
		pageID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || pageID <= 0 {
			WriteBadRequest(w, "Invalid page_id", nil)
			return
		}
		filter.PageID = pageID
	}

	var err error
	if filter.From, err = parseDateParam(q.Get("from"), false); err != nil {
		WriteBadRequest(w, "Invalid from date", map[string]string{"from": "use YYYY-MM-DD or RFC 3339"})
		return
	}
	if filter.To, err = parseDateParam(q.Get("to"), true); err != nil {
		WriteBadRequest(w, "Invalid to date", map[string]string{"to": "use YYYY-MM-DD or RFC 3339"})
		return
	}

	list, err := h.leads.List(r.Context(), userID, filter)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, list.Items, listMeta(list))
}

// GetLead handles GET /leads/{id}.
func (h *Handler) GetLead(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := requireID(w, r, "lead")
	if !ok {
		return
	}

	lead, err := h.leads.Get(r.Context(), userID, id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, lead, nil)
}

// DeleteLead handles DELETE /leads/{id}.
func (h *Handler) DeleteLead(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := requireID(w, r, "lead")
	if !ok {
		return
	}

	if err := h.leads.Delete(r.Context(), userID, id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
