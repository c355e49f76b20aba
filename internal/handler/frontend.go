// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides the public HTTP handlers: rendered landing pages,
// lead and form capture, menus, the blog and health checks.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/landing-cms/internal/handler/api"
	"github.com/olegiv/landing-cms/internal/middleware"
	"github.com/olegiv/landing-cms/internal/model"
	"github.com/olegiv/landing-cms/internal/service"
)

// maxLeadBodyBytes bounds lead submissions.
const maxLeadBodyBytes = 64 << 10

var blogTemplates = template.Must(template.New("blog").Parse(`
{{define "index"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Heading}}</title>
</head>
<body>
<main>
<h1>{{.Heading}}</h1>
{{range .Posts}}<article>
<h2><a href="/blog/{{.Slug}}">{{.Title}}</a></h2>
{{with .PublishedAt}}<time datetime="{{.Format "2006-01-02"}}">{{.Format "January 2, 2006"}}</time>{{end}}
{{with .Excerpt}}<p>{{.}}</p>{{end}}
</article>
{{else}}<p>No posts yet.</p>
{{end}}{{if .NextPage}}<a href="{{.BasePath}}?page={{.NextPage}}">Older posts</a>{{end}}
</main>
</body>
</html>
{{end}}
{{define "post"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Post.Title}}</title>
{{with .Post.Excerpt}}<meta name="description" content="{{.}}">{{end}}
</head>
<body>
<article>
<h1>{{.Post.Title}}</h1>
{{with .Post.PublishedAt}}<time datetime="{{.Format "2006-01-02"}}">{{.Format "January 2, 2006"}}</time>{{end}}
{{.Body}}
{{with .Post.Categories}}<p>Filed under {{range $i, $c := .}}{{if $i}}, {{end}}<a href="/blog/category/{{$c.Slug}}">{{$c.Name}}</a>{{end}}</p>{{end}}
{{with .Post.Tags}}<p>Tags: {{range $i, $t := .}}{{if $i}}, {{end}}<a href="/blog/tag/{{$t.Slug}}">{{$t.Name}}</a>{{end}}</p>{{end}}
</article>
<a href="/blog">All posts</a>
</body>
</html>
{{end}}
{{define "form_thanks"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.}}</title>
</head>
<body>
<main>
<h1>Thank you!</h1>
<p>Your submission to {{.}} has been received.</p>
</main>
</body>
</html>
{{end}}`))

// FrontendHandler serves published content to visitors.
type FrontendHandler struct {
	render *service.RenderService
	leads  *service.LeadService
	posts  *service.PostService
	forms  *service.FormService
	menus  *service.MenuService
	logger *slog.Logger
}

// NewFrontendHandler creates a new frontend handler.
func NewFrontendHandler(render *service.RenderService, leads *service.LeadService, posts *service.PostService, forms *service.FormService, menus *service.MenuService, logger *slog.Logger) *FrontendHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &FrontendHandler{render: render, leads: leads, posts: posts, forms: forms, menus: menus, logger: logger}
}

// Page handles GET /view/{slug}.
func (h *FrontendHandler) Page(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	html, err := h.render.RenderPublicPage(r.Context(), slug)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeHTML(w, html)
}

// SubmitLead handles POST /view/{slug}/leads. JSON bodies get a JSON reply;
// form posts are redirected back to the page.
func (h *FrontendHandler) SubmitLead(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	r.Body = http.MaxBytesReader(w, r.Body, maxLeadBodyBytes)
	asJSON := isJSON(r)

	var formData map[string]string
	var err error
	if asJSON {
		formData, err = decodeLeadJSON(r)
	} else {
		formData, err = decodeLeadForm(r)
	}
	if err != nil {
		if asJSON {
			api.WriteBadRequest(w, "Invalid form submission", nil)
		} else {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
		}
		return
	}

	lead, err := h.leads.SubmitLead(r.Context(), slug, formData, middleware.ClientIP(r))
	if err != nil {
		if asJSON {
			h.writeJSONError(w, r, err)
		} else {
			h.writeError(w, r, err)
		}
		return
	}

	if asJSON {
		api.WriteCreated(w, map[string]any{
			"id":           lead.ID,
			"submitted_at": lead.SubmittedAt,
		})
		return
	}
	http.Redirect(w, r, "/view/"+url.PathEscape(slug)+"?submitted=1", http.StatusSeeOther)
}

// SubmitForm handles POST /forms/{id}/submit. A filled honeypot field is
// answered as a success without storing anything.
func (h *FrontendHandler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxLeadBodyBytes)
	asJSON := isJSON(r)

	formID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || formID <= 0 {
		http.Error(w, "Form not found", http.StatusNotFound)
		return
	}

	var data map[string]string
	if asJSON {
		data, err = decodeLeadJSON(r)
	} else {
		data, err = decodeLeadForm(r)
	}
	if err != nil {
		if asJSON {
			api.WriteBadRequest(w, "Invalid form submission", nil)
		} else {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
		}
		return
	}

	if data[service.HoneypotField] != "" {
		h.logger.Info("honeypot triggered", "form_id", formID, "ip", middleware.ClientIP(r))
		form, err := h.forms.GetActive(r.Context(), formID)
		if err != nil {
			h.writeSubmitError(w, r, asJSON, err)
			return
		}
		h.formAccepted(w, r, asJSON, form.Name, 0)
		return
	}

	sub, err := h.forms.Submit(r.Context(), formID, data, middleware.ClientIP(r), r.UserAgent())
	if err != nil {
		h.writeSubmitError(w, r, asJSON, err)
		return
	}
	h.formAccepted(w, r, asJSON, sub.FormName, sub.ID)
}

func (h *FrontendHandler) formAccepted(w http.ResponseWriter, r *http.Request, asJSON bool, formName string, submissionID int64) {
	if asJSON {
		api.WriteCreated(w, map[string]any{"id": submissionID, "form": formName})
		return
	}
	h.execute(w, r, "form_thanks", formName)
}

func (h *FrontendHandler) writeSubmitError(w http.ResponseWriter, r *http.Request, asJSON bool, err error) {
	if asJSON {
		h.writeJSONError(w, r, err)
		return
	}
	h.writeError(w, r, err)
}

// Menu handles GET /menus/{location} with the active menu as a JSON tree.
func (h *FrontendHandler) Menu(w http.ResponseWriter, r *http.Request) {
	menu, err := h.menus.GetByLocation(r.Context(), chi.URLParam(r, "location"))
	if err != nil {
		h.writeJSONError(w, r, err)
		return
	}
	api.WriteSuccess(w, menu, nil)
}

// BlogIndex handles GET /blog?page=.
func (h *FrontendHandler) BlogIndex(w http.ResponseWriter, r *http.Request) {
	h.blogList(w, r, "Blog", "/blog", h.posts.ListPublished)
}

// BlogCategory handles GET /blog/category/{slug}?page=.
func (h *FrontendHandler) BlogCategory(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	h.blogList(w, r, "Category: "+slug, "/blog/category/"+url.PathEscape(slug),
		func(ctx context.Context, page, size int) ([]model.Post, error) {
			return h.posts.ListPublishedByCategory(ctx, slug, page, size)
		})
}

// BlogTag handles GET /blog/tag/{slug}?page=.
func (h *FrontendHandler) BlogTag(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	h.blogList(w, r, "Tag: "+slug, "/blog/tag/"+url.PathEscape(slug),
		func(ctx context.Context, page, size int) ([]model.Post, error) {
			return h.posts.ListPublishedByTag(ctx, slug, page, size)
		})
}

func (h *FrontendHandler) blogList(w http.ResponseWriter, r *http.Request, heading, basePath string, list func(ctx context.Context, page, size int) ([]model.Post, error)) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	page, size := model.NormalizePaging(page, model.DefaultPageSize)

	posts, err := list(r.Context(), page, size)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	data := struct {
		Heading  string
		BasePath string
		Posts    []model.Post
		NextPage int
	}{Heading: heading, BasePath: basePath, Posts: posts}
	if len(posts) == size {
		data.NextPage = page + 1
	}
	h.execute(w, r, "index", data)
}

// BlogPost handles GET /blog/{slug}.
func (h *FrontendHandler) BlogPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.GetPublishedBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.execute(w, r, "post", struct {
		Post *model.Post
		Body template.HTML
	}{
		Post: post,
		// ContentHTML is sanitized by PostService.
		Body: template.HTML(post.ContentHTML),
	})
}

func (h *FrontendHandler) execute(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := blogTemplates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("failed to render template", "template", name, "path", r.URL.Path, "error", err)
	}
}

// writeError writes a plain-text error for HTML routes.
func (h *FrontendHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var svcErr *service.Error
	switch {
	case errors.Is(err, service.ErrNotFound):
		http.Error(w, "Page not found", http.StatusNotFound)
	case errors.Is(err, service.ErrValidation) && errors.As(err, &svcErr):
		http.Error(w, validationText(svcErr), http.StatusUnprocessableEntity)
	default:
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *FrontendHandler) writeJSONError(w http.ResponseWriter, r *http.Request, err error) {
	var svcErr *service.Error
	message := ""
	var details map[string]string
	if errors.As(err, &svcErr) {
		message = svcErr.Message
		details = svcErr.Fields
	}
	switch {
	case errors.Is(err, service.ErrNotFound):
		api.WriteNotFound(w, message)
	case errors.Is(err, service.ErrValidation):
		api.WriteError(w, http.StatusUnprocessableEntity, "validation_error", message, details)
	default:
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		api.WriteInternalError(w, "Internal server error")
	}
}

// validationText joins a validation message with its per-field messages.
func validationText(e *service.Error) string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(e.Message)
	for _, name := range names {
		b.WriteString("\n" + name + ": " + e.Fields[name])
	}
	return b.String()
}

func writeHTML(w http.ResponseWriter, html string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// decodeLeadJSON reads a flat JSON object. Non-string scalars keep their
// JSON text; nested values are rejected.
func decodeLeadJSON(r *http.Request) (map[string]string, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return nil, err
	}

	out := make(map[string]string, len(raw))
	for k, v := range raw {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			out[k] = s
			continue
		}
		var scalar any
		if err := json.Unmarshal(v, &scalar); err != nil {
			return nil, err
		}
		switch scalar.(type) {
		case map[string]any, []any:
			return nil, errors.New("nested values are not supported")
		case nil:
			out[k] = ""
		default:
			out[k] = string(v)
		}
	}
	return out, nil
}

// decodeLeadForm reads an urlencoded or multipart form, keeping the first
// value of each field.
func decodeLeadForm(r *http.Request) (map[string]string, error) {
	if err := r.ParseMultipartForm(maxLeadBodyBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, err
	}

	out := make(map[string]string, len(r.PostForm))
	for k, values := range r.PostForm {
		if len(values) > 0 {
			out[k] = values[0]
		}
	}
	return out, nil
}
