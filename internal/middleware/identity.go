// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
)

// UserIDHeader carries the authenticated user id set by the upstream auth proxy.
const UserIDHeader = "X-User-ID"

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyUserID holds the caller's user id.
const ContextKeyUserID ContextKey = "user_id"

// Identity reads the user id from UserIDHeader into the request context.
// Requests without a valid positive id pass through anonymously.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get(UserIDHeader))
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}

		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), id)))
	})
}

// RequireUser rejects requests that carry no user id with 401.
// Use it after Identity.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserID(r.Context()); !ok {
			WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid "+UserIDHeader+" header", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithUserID returns a copy of ctx carrying id.
func WithUserID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, ContextKeyUserID, id)
}

// UserID returns the caller's user id from ctx.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ContextKeyUserID).(int64)
	return id, ok
}
