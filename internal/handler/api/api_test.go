// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/landing-cms/internal/cache"
	"github.com/olegiv/landing-cms/internal/middleware"
	"github.com/olegiv/landing-cms/internal/model"
	"github.com/olegiv/landing-cms/internal/service"
	"github.com/olegiv/landing-cms/internal/store"
	"github.com/olegiv/landing-cms/internal/testutil"
)

const (
	ownerID = 1
	otherID = 2
)

type apiFixture struct {
	router http.Handler
	hero   store.BlockTemplate
	forms  *service.FormService
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	db := testutil.TestDB(t)
	logger := testutil.TestLoggerSilent()
	mem := cache.NewMemoryCache(cache.MemoryCacheOptions{})
	t.Cleanup(func() { _ = mem.Close() })
	rc := cache.NewRenderCache(mem, 0, logger)

	forms := service.NewFormService(db, nil, logger)
	h := NewHandler(Services{
		Pages:     service.NewPageService(db, rc, nil, logger),
		Templates: service.NewTemplateService(db, logger),
		Leads:     service.NewLeadService(db, nil, logger),
		Posts:     service.NewPostService(db, logger),
		Taxonomy:  service.NewTaxonomyService(db, logger),
		Forms:     forms,
		Menus:     service.NewMenuService(db, nil, logger),
		Activity:  service.NewActivityService(db, logger),
	}, rc, "v1.2.3", logger)

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Identity)
		r.Use(middleware.RequireUser)
		h.Routes(r)
	})

	return &apiFixture{
		router: r,
		hero:   testutil.CreateTemplate(t, db, "Hero", "hero", "<section>Hero</section>"),
		forms:  forms,
	}
}

func (f *apiFixture) do(t *testing.T, userID int64, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	if userID > 0 {
		req.Header.Set(middleware.UserIDHeader, strconv.FormatInt(userID, 10))
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var resp struct {
		Data T     `json:"data"`
		Meta *Meta `json:"meta"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp), rec.Body.String())
	return resp.Data
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorDetail {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Error
}

func TestAPI_RequiresUser(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, 0, http.MethodGet, "/pages", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPI_PageLifecycle(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, ownerID, http.MethodPost, "/pages", map[string]string{"title": "My Launch"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	page := decodeData[model.Page](t, rec)
	assert.Equal(t, "my-launch", page.Slug)
	assert.Equal(t, model.PageStatusDraft, page.Status)
	pagePath := "/pages/" + strconv.FormatInt(page.ID, 10)

	rec = f.do(t, ownerID, http.MethodPost, pagePath+"/publish", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "cannot publish page without sections", decodeError(t, rec).Message)

	rec = f.do(t, ownerID, http.MethodPost, pagePath+"/sections", map[string]any{
		"block_template_id": f.hero.ID,
		"custom_content":    "<h1>Hi</h1>",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	section := decodeData[model.Section](t, rec)
	assert.Equal(t, 0, section.OrderNum)

	rec = f.do(t, ownerID, http.MethodPost, pagePath+"/publish", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, model.PageStatusPublished, decodeData[model.Page](t, rec).Status)

	rec = f.do(t, ownerID, http.MethodPut, pagePath, map[string]string{"title": "Renamed"})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "cannot edit published page, unpublish first", decodeError(t, rec).Message)

	rec = f.do(t, ownerID, http.MethodPost, pagePath+"/unpublish", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, ownerID, http.MethodDelete, pagePath, nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(t, ownerID, http.MethodDelete, "/sections/"+strconv.FormatInt(section.ID, 10), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, ownerID, http.MethodDelete, pagePath, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, ownerID, http.MethodGet, pagePath, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_OtherUsersPageIsNotFound(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, ownerID, http.MethodPost, "/pages", map[string]string{"title": "Private"})
	require.Equal(t, http.StatusCreated, rec.Code)
	page := decodeData[model.Page](t, rec)

	rec = f.do(t, otherID, http.MethodGet, "/pages/"+strconv.FormatInt(page.ID, 10), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeError(t, rec).Code)
}

func TestAPI_BadRequests(t *testing.T) {
	f := newAPIFixture(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"invalid id", http.MethodGet, "/pages/abc", nil, http.StatusBadRequest},
		{"zero id", http.MethodGet, "/pages/0", nil, http.StatusBadRequest},
		{"malformed json", http.MethodPost, "/pages", "{", http.StatusBadRequest},
		{"empty title", http.MethodPost, "/pages", map[string]string{"title": ""}, http.StatusUnprocessableEntity},
		{"bad status filter", http.MethodGet, "/pages?status=archived", nil, http.StatusUnprocessableEntity},
		{"bad lead date", http.MethodGet, "/leads?from=yesterday", nil, http.StatusBadRequest},
		{"bad lead page id", http.MethodGet, "/leads?page_id=x", nil, http.StatusBadRequest},
		{"missing template", http.MethodGet, "/templates/999", nil, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, ownerID, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestAPI_ReorderSections(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, ownerID, http.MethodPost, "/pages", map[string]string{"title": "Ordered"})
	require.Equal(t, http.StatusCreated, rec.Code)
	pagePath := "/pages/" + strconv.FormatInt(decodeData[model.Page](t, rec).ID, 10)

	var ids []int64
	for range 2 {
		rec = f.do(t, ownerID, http.MethodPost, pagePath+"/sections", map[string]any{"block_template_id": f.hero.ID})
		require.Equal(t, http.StatusCreated, rec.Code)
		ids = append(ids, decodeData[model.Section](t, rec).ID)
	}

	rec = f.do(t, ownerID, http.MethodPut, pagePath+"/sections/reorder", ReorderSectionsRequest{
		Sections: []service.SectionOrder{
			{SectionID: ids[0], OrderNum: 1},
			{SectionID: ids[1], OrderNum: 0},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	sections := decodeData[[]model.Section](t, rec)
	require.Len(t, sections, 2)
	assert.Equal(t, ids[1], sections[0].ID)
	assert.Equal(t, ids[0], sections[1].ID)

	rec = f.do(t, ownerID, http.MethodPut, pagePath+"/sections/reorder", ReorderSectionsRequest{
		Sections: []service.SectionOrder{
			{SectionID: ids[0], OrderNum: 5},
			{SectionID: ids[1], OrderNum: 5},
		},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAPI_TemplatesExportImport(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, ownerID, http.MethodPost, "/templates/import", "not json")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Invalid JSON format", decodeError(t, rec).Message)

	rec = f.do(t, ownerID, http.MethodPost, "/templates/import",
		`[{"name":"CTA","type":"cta","default_html":"<a>Go</a>"},{"name":"Footer","type":"footer"}]`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 2, decodeData[ImportResponse](t, rec).Imported)

	rec = f.do(t, ownerID, http.MethodGet, "/templates/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "block-templates.json")
	var exported []model.TemplateExport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &exported))
	require.Len(t, exported, 3)
	assert.Equal(t, "CTA", exported[0].Name)

	rec = f.do(t, ownerID, http.MethodGet, "/templates?type=cta", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeData[[]model.BlockTemplate](t, rec), 1)
}

func TestAPI_DeleteReferencedTemplate(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, ownerID, http.MethodPost, "/pages", map[string]string{"title": "Uses hero"})
	require.Equal(t, http.StatusCreated, rec.Code)
	pagePath := "/pages/" + strconv.FormatInt(decodeData[model.Page](t, rec).ID, 10)
	rec = f.do(t, ownerID, http.MethodPost, pagePath+"/sections", map[string]any{"block_template_id": f.hero.ID})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, ownerID, http.MethodDelete, "/templates/"+strconv.FormatInt(f.hero.ID, 10), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAPI_Posts(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, ownerID, http.MethodPost, "/posts", service.PostInput{Title: "Hello World", Content: "# Hi"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	post := decodeData[model.Post](t, rec)
	assert.Equal(t, "hello-world", post.Slug)

	rec = f.do(t, ownerID, http.MethodPost, "/posts", service.PostInput{Title: "Hello World"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(t, ownerID, http.MethodGet, "/posts?status=draft", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeData[[]model.Post](t, rec), 1)
}

func TestAPI_Status(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, ownerID, http.MethodGet, "/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	status := decodeData[StatusResponse](t, rec)
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "v1.2.3", status.Version)
	assert.NotNil(t, status.Cache)
}

func TestAPI_ListMeta(t *testing.T) {
	f := newAPIFixture(t)

	for _, title := range []string{"One", "Two", "Three"} {
		rec := f.do(t, ownerID, http.MethodPost, "/pages", map[string]string{"title": title})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := f.do(t, ownerID, http.MethodGet, "/pages?per_page=2&page=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data []model.PageSummary `json:"data"`
		Meta Meta                `json:"meta"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, Meta{Total: 3, Page: 2, PerPage: 2, Pages: 2}, resp.Meta)
}

func TestParseDateParam(t *testing.T) {
	got, err := parseDateParam("", false)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = parseDateParam("2026-03-01", false)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *got)

	got, err = parseDateParam("2026-03-01", true)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 23, 59, 59, 999999999, time.UTC), *got)

	got, err = parseDateParam("2026-03-01T10:00:00+02:00", true)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC), *got)

	_, err = parseDateParam("03/01/2026", false)
	assert.Error(t, err)
}
