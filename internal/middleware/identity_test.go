// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIdentity(t *testing.T) {
	tests := []struct {
		name   string
		header string
		wantID int64
		wantOK bool
	}{
		{name: "valid id", header: "42", wantID: 42, wantOK: true},
		{name: "surrounding spaces", header: " 7 ", wantID: 7, wantOK: true},
		{name: "missing header", header: "", wantOK: false},
		{name: "not a number", header: "abc", wantOK: false},
		{name: "zero", header: "0", wantOK: false},
		{name: "negative", header: "-3", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotID int64
			var gotOK bool
			handler := Identity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotID, gotOK = UserID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/pages", nil)
			if tt.header != "" {
				req.Header.Set(UserIDHeader, tt.header)
			}
			handler.ServeHTTP(httptest.NewRecorder(), req)

			if gotOK != tt.wantOK || gotID != tt.wantID {
				t.Errorf("UserID() = (%d, %v), want (%d, %v)", gotID, gotOK, tt.wantID, tt.wantOK)
			}
		})
	}
}

func TestRequireUser(t *testing.T) {
	handler := RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("anonymous", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
		var body APIError
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Error.Code != "unauthorized" {
			t.Errorf("code = %q, want unauthorized", body.Error.Code)
		}
	})

	t.Run("authenticated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithUserID(context.Background(), 5))
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
		}
	})
}
