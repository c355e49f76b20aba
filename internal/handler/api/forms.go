// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/olegiv/landing-cms/internal/service"
	"github.com/olegiv/landing-cms/internal/util"
)

// ListForms handles GET /forms?page=&per_page=.
func (h *Handler) ListForms(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	page, perPage := paging(r)
	list, err := h.forms.List(r.Context(), userID, page, perPage)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, list.Items, listMeta(list))
}

// CreateForm handles POST /forms.
func (h *Handler) CreateForm(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req service.FormInput
	if !decodeJSON(w, r, &req) {
		return
	}

	form, err := h.forms.Create(r.Context(), userID, req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteCreated(w, form)
}

// GetForm handles GET /forms/{id}.
func (h *Handler) GetForm(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := requireID(w, r, "form")
	if !ok {
		return
	}

	form, err := h.forms.Get(r.Context(), userID, id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, form, nil)
}

// UpdateForm handles PUT /forms/{id}. The body replaces every field.
func (h *Handler) UpdateForm(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := requireID(w, r, "form")
	if !ok {
		return
	}

	var req service.FormInput
	if !decodeJSON(w, r, &req) {
		return
	}

	form, err := h.forms.Update(r.Context(), userID, id, req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, form, nil)
}

// DeleteForm handles DELETE /forms/{id}.
func (h *Handler) DeleteForm(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := requireID(w, r, "form")
	if !ok {
		return
	}

	if err := h.forms.Delete(r.Context(), userID, id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListFormSubmissions handles GET /forms/{id}/submissions?page=&per_page=.
func (h *Handler) ListFormSubmissions(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := requireID(w, r, "form")
	if !ok {
		return
	}

	page, perPage := paging(r)
	list, err := h.forms.ListSubmissions(r.Context(), userID, id, page, perPage)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	WriteSuccess(w, list.Items, listMeta(list))
}

// ExportFormSubmissions handles GET /forms/{id}/export as a CSV download.
func (h *Handler) ExportFormSubmissions(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := requireID(w, r, "form")
	if !ok {
		return
	}

	var buf bytes.Buffer
	form, err := h.forms.ExportCSV(r.Context(), userID, id, &buf)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	name := util.GenerateSlug(form.Name)
	if name == "" {
		name = "form"
	}
	filename := fmt.Sprintf("%s-submissions-%s.csv", name, time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// DeleteFormSubmission handles DELETE /forms/submissions/{id}.
func (h *Handler) DeleteFormSubmission(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := requireID(w, r, "submission")
	if !ok {
		return
	}

	if err := h.forms.DeleteSubmission(r.Context(), userID, id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
