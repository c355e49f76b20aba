// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/landing-cms/internal/cache"
	"github.com/olegiv/landing-cms/internal/model"
	"github.com/olegiv/landing-cms/internal/service"
	"github.com/olegiv/landing-cms/internal/testutil"
)

const ownerID = 1

type frontendFixture struct {
	router http.Handler
	pages  *service.PageService
	leads  *service.LeadService
	posts  *service.PostService
	forms  *service.FormService
	menus  *service.MenuService
	terms  *service.TaxonomyService
}

func newFrontendFixture(t *testing.T) *frontendFixture {
	t.Helper()

	db := testutil.TestDB(t)
	logger := testutil.TestLoggerSilent()
	mem := cache.NewMemoryCache(cache.MemoryCacheOptions{})
	t.Cleanup(func() { _ = mem.Close() })
	rc := cache.NewRenderCache(mem, 0, logger)

	f := &frontendFixture{
		pages: service.NewPageService(db, rc, nil, logger),
		leads: service.NewLeadService(db, nil, logger),
		posts: service.NewPostService(db, logger),
		forms: service.NewFormService(db, nil, logger),
		menus: service.NewMenuService(db, nil, logger),
		terms: service.NewTaxonomyService(db, logger),
	}
	h := NewFrontendHandler(
		service.NewRenderService(service.NewPublishedPages(db), rc, service.RenderOptions{}, logger),
		f.leads, f.posts, f.forms, f.menus, logger,
	)

	r := chi.NewRouter()
	r.Get("/view/{slug}", h.Page)
	r.Post("/view/{slug}/leads", h.SubmitLead)
	r.Post("/forms/{id}/submit", h.SubmitForm)
	r.Get("/menus/{location}", h.Menu)
	r.Get("/blog", h.BlogIndex)
	r.Get("/blog/category/{slug}", h.BlogCategory)
	r.Get("/blog/tag/{slug}", h.BlogTag)
	r.Get("/blog/{slug}", h.BlogPost)
	f.router = r

	hero := testutil.CreateTemplate(t, db, "Hero", "hero", `<section class="hero">Default hero</section>`)
	ctx := context.Background()
	p, err := f.pages.Create(ctx, ownerID, service.CreatePageInput{Title: "Spring Sale"})
	require.NoError(t, err)
	_, err = f.pages.AddSection(ctx, ownerID, p.ID, service.AddSectionInput{BlockTemplateID: hero.ID})
	require.NoError(t, err)
	_, err = f.pages.Publish(ctx, ownerID, p.ID)
	require.NoError(t, err)

	_, err = f.pages.Create(ctx, ownerID, service.CreatePageInput{Title: "Hidden Draft"})
	require.NoError(t, err)

	return f
}

func (f *frontendFixture) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestFrontend_Page(t *testing.T) {
	f := newFrontendFixture(t)

	rec := f.serve(httptest.NewRequest(http.MethodGet, "/view/spring-sale", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "<title>Spring Sale</title>")
	assert.Contains(t, body, `<section class="hero">Default hero</section>`)
}

func TestFrontend_PageNotFound(t *testing.T) {
	f := newFrontendFixture(t)

	for _, slug := range []string{"missing", "hidden-draft"} {
		rec := f.serve(httptest.NewRequest(http.MethodGet, "/view/"+slug, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, slug)
	}
}

func TestFrontend_SubmitLeadJSON(t *testing.T) {
	f := newFrontendFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/view/spring-sale/leads",
		strings.NewReader(`{"email":"ann@example.com","seats":3,"subscribe":true}`))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.RemoteAddr = "203.0.113.7:4000"
	rec := f.serve(req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	leads, err := f.leads.List(context.Background(), ownerID, model.LeadFilter{})
	require.NoError(t, err)
	require.Len(t, leads.Items, 1)
	lead := leads.Items[0]
	assert.Equal(t, "ann@example.com", lead.FormData["email"])
	assert.Equal(t, "3", lead.FormData["seats"])
	assert.Equal(t, "true", lead.FormData["subscribe"])
	assert.Equal(t, "203.0.113.7", lead.IPAddress)
}

func TestFrontend_SubmitLeadForm(t *testing.T) {
	f := newFrontendFixture(t)

	form := url.Values{"name": {"Bob"}, "email": {"bob@example.com"}}
	req := httptest.NewRequest(http.MethodPost, "/view/spring-sale/leads", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := f.serve(req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/view/spring-sale?submitted=1", rec.Header().Get("Location"))
}

func TestFrontend_SubmitLeadErrors(t *testing.T) {
	f := newFrontendFixture(t)

	tests := []struct {
		name        string
		slug        string
		contentType string
		body        string
		want        int
	}{
		{"draft page", "hidden-draft", "application/json", `{"email":"a@b.c"}`, http.StatusNotFound},
		{"empty json", "spring-sale", "application/json", `{}`, http.StatusUnprocessableEntity},
		{"malformed json", "spring-sale", "application/json", `{"email":`, http.StatusBadRequest},
		{"nested json", "spring-sale", "application/json", `{"address":{"city":"Oslo"}}`, http.StatusBadRequest},
		{"empty form", "spring-sale", "application/x-www-form-urlencoded", ``, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/view/"+tt.slug+"/leads", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			rec := f.serve(req)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestFrontend_SubmitLeadJSONErrorEnvelope(t *testing.T) {
	f := newFrontendFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/view/missing/leads", strings.NewReader(`{"email":"a@b.c"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := f.serve(req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "not_found", body.Error.Code)
	assert.Equal(t, "page not found", body.Error.Message)
}

func TestFrontend_Blog(t *testing.T) {
	f := newFrontendFixture(t)
	ctx := context.Background()

	_, err := f.posts.Create(ctx, ownerID, service.PostInput{
		Title:   "Launch Notes",
		Content: "## What's new\n\n**Faster** pages\n\n<script>alert(1)</script>\n",
		Excerpt: "Everything that shipped",
		Status:  model.PostStatusPublished,
	})
	require.NoError(t, err)
	_, err = f.posts.Create(ctx, ownerID, service.PostInput{Title: "Unfinished", Status: model.PostStatusDraft})
	require.NoError(t, err)

	rec := f.serve(httptest.NewRequest(http.MethodGet, "/blog", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<a href="/blog/launch-notes">Launch Notes</a>`)
	assert.NotContains(t, rec.Body.String(), "Unfinished")

	rec = f.serve(httptest.NewRequest(http.MethodGet, "/blog/launch-notes", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<strong>Faster</strong>")
	assert.NotContains(t, body, "<script>")

	rec = f.serve(httptest.NewRequest(http.MethodGet, "/blog/unfinished", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func (f *frontendFixture) createForm(t *testing.T) *model.Form {
	t.Helper()
	form, err := f.forms.Create(context.Background(), ownerID, service.FormInput{
		Name: "Contact",
		Fields: []model.FormField{
			{Name: "name", Label: "Name", Type: model.FieldTypeText, Required: true},
			{Name: "email", Label: "Email", Type: model.FieldTypeEmail, Required: true},
		},
	})
	require.NoError(t, err)
	return form
}

func (f *frontendFixture) submissionCount(t *testing.T, formID int64) int64 {
	t.Helper()
	form, err := f.forms.Get(context.Background(), ownerID, formID)
	require.NoError(t, err)
	return form.SubmissionCount
}

func TestFrontend_SubmitFormJSON(t *testing.T) {
	f := newFrontendFixture(t)
	form := f.createForm(t)
	path := fmt.Sprintf("/forms/%d/submit", form.ID)

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"name":"Ann","email":"ann@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := f.serve(req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var body struct {
		Data struct {
			ID   int64  `json:"id"`
			Form string `json:"form"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.NotZero(t, body.Data.ID)
	assert.Equal(t, "Contact", body.Data.Form)
	assert.Equal(t, int64(1), f.submissionCount(t, form.ID))
}

func TestFrontend_SubmitFormFieldErrors(t *testing.T) {
	f := newFrontendFixture(t)
	form := f.createForm(t)
	path := fmt.Sprintf("/forms/%d/submit", form.ID)

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"email":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := f.serve(req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body struct {
		Error struct {
			Code    string            `json:"code"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "validation_error", body.Error.Code)
	assert.Equal(t, map[string]string{
		"name":  "Name is required",
		"email": "Please enter a valid email address",
	}, body.Error.Details)

	values := url.Values{"email": {"nope"}}
	req = httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = f.serve(req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "email: Please enter a valid email address")
	assert.Contains(t, rec.Body.String(), "name: Name is required")
}

func TestFrontend_SubmitFormHTML(t *testing.T) {
	f := newFrontendFixture(t)
	form := f.createForm(t)

	values := url.Values{"name": {"Bob"}, "email": {"bob@example.com"}}
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/forms/%d/submit", form.ID), strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := f.serve(req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Your submission to Contact has been received.")
	assert.Equal(t, int64(1), f.submissionCount(t, form.ID))
}

func TestFrontend_SubmitFormHoneypot(t *testing.T) {
	f := newFrontendFixture(t)
	form := f.createForm(t)

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/forms/%d/submit", form.ID),
		strings.NewReader(`{"name":"Bot","email":"bot@example.com","_website":"http://spam.example"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := f.serve(req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int64(0), f.submissionCount(t, form.ID))
}

func TestFrontend_SubmitFormNotFound(t *testing.T) {
	f := newFrontendFixture(t)
	form := f.createForm(t)
	_, err := f.forms.Update(context.Background(), ownerID, form.ID, service.FormInput{
		Name:     form.Name,
		Fields:   form.Fields,
		IsActive: new(bool),
	})
	require.NoError(t, err)

	for _, path := range []string{
		fmt.Sprintf("/forms/%d/submit", form.ID),
		"/forms/9999/submit",
		"/forms/abc/submit",
	} {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"name":"Ann","email":"ann@example.com"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := f.serve(req)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestFrontend_Menu(t *testing.T) {
	f := newFrontendFixture(t)
	ctx := context.Background()

	rec := f.serve(httptest.NewRequest(http.MethodGet, "/menus/header", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	m, err := f.menus.Create(ctx, service.MenuInput{Name: "Main", Location: "header"})
	require.NoError(t, err)
	product, err := f.menus.CreateItem(ctx, m.ID, service.MenuItemInput{Label: "Product", URL: "/product"})
	require.NoError(t, err)
	_, err = f.menus.CreateItem(ctx, m.ID, service.MenuItemInput{ParentID: &product.ID, Label: "Pricing", URL: "/pricing"})
	require.NoError(t, err)

	rec = f.serve(httptest.NewRequest(http.MethodGet, "/menus/header", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data model.Menu `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Data.Items, 1)
	assert.Equal(t, "Product", body.Data.Items[0].Label)
	require.Len(t, body.Data.Items[0].Children, 1)
	assert.Equal(t, "/pricing", body.Data.Items[0].Children[0].URL)
}

func TestFrontend_BlogByTerm(t *testing.T) {
	f := newFrontendFixture(t)
	ctx := context.Background()

	news, err := f.terms.CreateCategory(ctx, service.TermInput{Name: "News"})
	require.NoError(t, err)
	golang, err := f.terms.CreateTag(ctx, service.TermInput{Name: "Go"})
	require.NoError(t, err)

	_, err = f.posts.Create(ctx, ownerID, service.PostInput{
		Title:       "Launch Notes",
		Status:      model.PostStatusPublished,
		CategoryIDs: []int64{news.ID},
		TagIDs:      []int64{golang.ID},
	})
	require.NoError(t, err)
	_, err = f.posts.Create(ctx, ownerID, service.PostInput{Title: "Other", Status: model.PostStatusPublished})
	require.NoError(t, err)

	rec := f.serve(httptest.NewRequest(http.MethodGet, "/blog/category/news", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<h1>Category: news</h1>")
	assert.Contains(t, body, `<a href="/blog/launch-notes">Launch Notes</a>`)
	assert.NotContains(t, body, "Other")

	rec = f.serve(httptest.NewRequest(http.MethodGet, "/blog/tag/go", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Launch Notes")

	rec = f.serve(httptest.NewRequest(http.MethodGet, "/blog/launch-notes", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body = rec.Body.String()
	assert.Contains(t, body, `<a href="/blog/category/news">News</a>`)
	assert.Contains(t, body, `<a href="/blog/tag/go">Go</a>`)
}

func TestDecodeLeadJSON_Null(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"note":null,"n":1.5}`))
	got, err := decodeLeadJSON(req)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"note": "", "n": "1.5"}, got)
}
