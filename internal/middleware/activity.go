// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/landing-cms/internal/model"
	"github.com/olegiv/landing-cms/internal/service"
)

// ActivityRecorder stores activity log entries.
type ActivityRecorder interface {
	Record(ctx context.Context, e service.ActivityEntry) error
}

// resourceEntities maps API path segments to activity entity types.
var resourceEntities = map[string]string{
	"pages":       model.EntityPage,
	"sections":    model.EntitySection,
	"templates":   model.EntityTemplate,
	"leads":       model.EntityLead,
	"posts":       model.EntityPost,
	"categories":  model.EntityCategory,
	"tags":        model.EntityTag,
	"forms":       model.EntityForm,
	"submissions": model.EntityFormSubmission,
	"menus":       model.EntityMenu,
	"items":       model.EntityMenuItem,
}

// Activity records every mutating request as "METHOD path" once the handler
// has finished. Reads are not recorded. Recording failures are logged only.
func Activity(recorder ActivityRecorder, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			entityType, entityID := entityFromPath(r.URL.Path)
			entry := service.ActivityEntry{
				Action:     r.Method + " " + r.URL.Path,
				EntityType: entityType,
				EntityID:   entityID,
				Details:    "status " + strconv.Itoa(status),
				IPAddress:  ClientIP(r),
			}
			if id, ok := UserID(r.Context()); ok {
				entry.UserID = &id
			}

			if err := recorder.Record(context.WithoutCancel(r.Context()), entry); err != nil {
				logger.Error("failed to record activity", "action", entry.Action, "error", err)
			}
		})
	}
}

// entityFromPath picks the innermost known resource in path and the numeric
// id that follows it, e.g. /api/v1/pages/3/sections -> (section, "").
func entityFromPath(path string) (string, string) {
	entityType, entityID := model.EntitySystem, ""
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i, part := range parts {
		entity, ok := resourceEntities[part]
		if !ok {
			continue
		}
		entityType, entityID = entity, ""
		if i+1 < len(parts) {
			if _, err := strconv.ParseInt(parts[i+1], 10, 64); err == nil {
				entityID = parts[i+1]
			}
		}
	}
	return entityType, entityID
}
