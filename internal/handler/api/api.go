// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the JSON REST API for authors.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/landing-cms/internal/cache"
	"github.com/olegiv/landing-cms/internal/middleware"
	"github.com/olegiv/landing-cms/internal/model"
	"github.com/olegiv/landing-cms/internal/service"
)

// maxBodyBytes bounds JSON request bodies, template imports included.
const maxBodyBytes = 4 << 20

// Services bundles the services the API exposes.
type Services struct {
	Pages     *service.PageService
	Templates *service.TemplateService
	Leads     *service.LeadService
	Posts     *service.PostService
	Taxonomy  *service.TaxonomyService
	Forms     *service.FormService
	Menus     *service.MenuService
	Activity  *service.ActivityService
}

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	pages       *service.PageService
	templates   *service.TemplateService
	leads       *service.LeadService
	posts       *service.PostService
	taxonomy    *service.TaxonomyService
	forms       *service.FormService
	menus       *service.MenuService
	activity    *service.ActivityService
	renderCache *cache.RenderCache
	version     string
	logger      *slog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(svc Services, renderCache *cache.RenderCache, version string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		pages:       svc.Pages,
		templates:   svc.Templates,
		leads:       svc.Leads,
		posts:       svc.Posts,
		taxonomy:    svc.Taxonomy,
		forms:       svc.Forms,
		menus:       svc.Menus,
		activity:    svc.Activity,
		renderCache: renderCache,
		version:     version,
		logger:      logger,
	}
}

// Routes registers every API route on r. Callers mount it under /api/v1
// behind middleware.Identity and middleware.RequireUser.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/status", h.Status)

	r.Route("/pages", func(r chi.Router) {
		r.Get("/", h.ListPages)
		r.Post("/", h.CreatePage)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetPage)
			r.Put("/", h.UpdatePage)
			r.Delete("/", h.DeletePage)
			r.Post("/publish", h.PublishPage)
			r.Post("/unpublish", h.UnpublishPage)
			r.Post("/clone", h.ClonePage)
			r.Post("/sections", h.AddSection)
			r.Put("/sections/reorder", h.ReorderSections)
		})
	})

	r.Route("/sections/{id}", func(r chi.Router) {
		r.Put("/", h.UpdateSection)
		r.Delete("/", h.DeleteSection)
	})

	r.Route("/templates", func(r chi.Router) {
		r.Get("/", h.ListTemplates)
		r.Post("/", h.CreateTemplate)
		r.Get("/export", h.ExportTemplates)
		r.Post("/import", h.ImportTemplates)
		r.Get("/{id}", h.GetTemplate)
		r.Put("/{id}", h.UpdateTemplate)
		r.Delete("/{id}", h.DeleteTemplate)
	})

	r.Route("/leads", func(r chi.Router) {
		r.Get("/", h.ListLeads)
		r.Get("/{id}", h.GetLead)
		r.Delete("/{id}", h.DeleteLead)
	})

	r.Route("/posts", func(r chi.Router) {
		r.Get("/", h.ListPosts)
		r.Post("/", h.CreatePost)
		r.Get("/{id}", h.GetPost)
		r.Put("/{id}", h.UpdatePost)
		r.Delete("/{id}", h.DeletePost)
	})

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.ListCategories)
		r.Post("/", h.CreateCategory)
		r.Put("/{id}", h.UpdateCategory)
		r.Delete("/{id}", h.DeleteCategory)
	})

	r.Route("/tags", func(r chi.Router) {
		r.Get("/", h.ListTags)
		r.Post("/", h.CreateTag)
		r.Put("/{id}", h.UpdateTag)
		r.Delete("/{id}", h.DeleteTag)
	})

	r.Route("/forms", func(r chi.Router) {
		r.Get("/", h.ListForms)
		r.Post("/", h.CreateForm)
		r.Delete("/submissions/{id}", h.DeleteFormSubmission)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetForm)
			r.Put("/", h.UpdateForm)
			r.Delete("/", h.DeleteForm)
			r.Get("/submissions", h.ListFormSubmissions)
			r.Get("/export", h.ExportFormSubmissions)
		})
	})

	r.Route("/menus", func(r chi.Router) {
		r.Get("/", h.ListMenus)
		r.Post("/", h.CreateMenu)
		r.Route("/items/{id}", func(r chi.Router) {
			r.Put("/", h.UpdateMenuItem)
			r.Delete("/", h.DeleteMenuItem)
		})
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetMenu)
			r.Put("/", h.UpdateMenu)
			r.Delete("/", h.DeleteMenu)
			r.Post("/items", h.CreateMenuItem)
			r.Put("/items/reorder", h.ReorderMenuItems)
		})
	})

	r.Get("/activity", h.ListActivity)
}

// Response is the standard API response wrapper.
type Response struct {
	Data any   `json:"data,omitempty"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta contains pagination metadata.
type Meta struct {
	Total   int64 `json:"total"`
	Page    int   `json:"page,omitempty"`
	PerPage int   `json:"per_page,omitempty"`
	Pages   int   `json:"pages"`
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any, meta *Meta) {
	WriteJSON(w, http.StatusOK, Response{Data: data, Meta: meta})
}

// WriteCreated writes a 201 Created JSON response.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Data: data})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message, details)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "not_found", message, nil)
}

// WriteUnauthorized writes a 401 Unauthorized response.
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, "unauthorized", message, nil)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, "internal_error", message, nil)
}

// writeServiceError maps a service error onto its HTTP status. Errors of
// unknown kind are logged and hidden behind a generic 500.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var svcErr *service.Error
	message := ""
	var details map[string]string
	if errors.As(err, &svcErr) {
		message = svcErr.Message
		details = svcErr.Fields
	}

	switch {
	case errors.Is(err, service.ErrNotFound):
		WriteNotFound(w, message)
	case errors.Is(err, service.ErrConflict):
		WriteError(w, http.StatusConflict, "conflict", message, nil)
	case errors.Is(err, service.ErrValidation):
		WriteError(w, http.StatusUnprocessableEntity, "validation_error", message, details)
	default:
		h.logger.Error("api request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		WriteInternalError(w, "Internal server error")
	}
}

// decodeJSON decodes the request body into dst, writing 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return false
	}
	return true
}

// requireUser returns the caller's id, writing 401 when it is missing.
func requireUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := middleware.UserID(r.Context())
	if !ok {
		WriteUnauthorized(w, "Not authenticated")
		return 0, false
	}
	return id, true
}

// requireID parses the {id} URL parameter, writing 400 when it is invalid.
func requireID(w http.ResponseWriter, r *http.Request, entityName string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		WriteBadRequest(w, "Invalid "+entityName+" ID", nil)
		return 0, false
	}
	return id, true
}

// paging reads the page and per_page query parameters. Bad or missing
// values fall back to the defaults applied by model.NormalizePaging.
func paging(r *http.Request) (int, int) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	return page, perPage
}

// listMeta builds pagination metadata for l.
func listMeta[T any](l *model.List[T]) *Meta {
	return &Meta{
		Total:   l.Total,
		Page:    l.Page,
		PerPage: l.PageSize,
		Pages:   l.TotalPages(),
	}
}

// StatusResponse contains API status information.
type StatusResponse struct {
	Status  string       `json:"status"`
	Version string       `json:"version"`
	Cache   *cache.Stats `json:"cache,omitempty"`
}

// Status returns the API status and render cache statistics.
func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	resp := StatusResponse{Status: "ok", Version: h.version}
	if stats, ok := h.renderCache.Stats(); ok {
		resp.Cache = &stats
	}
	WriteSuccess(w, resp, nil)
}
