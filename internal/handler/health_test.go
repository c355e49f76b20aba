// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/landing-cms/internal/middleware"
	"github.com/olegiv/landing-cms/internal/testutil"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func TestHealth_Anonymous(t *testing.T) {
	h := NewHealthHandler(testutil.TestDB(t), nil, "v1.0.0")

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, map[string]any{"status": "healthy"}, body)
}

func TestHealth_IdentifiedCallerGetsChecks(t *testing.T) {
	h := NewHealthHandler(testutil.TestDB(t), fakePinger{}, "v1.0.0")

	req := httptest.NewRequest(http.MethodGet, "/health?verbose=true", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), 1))
	rec := httptest.NewRecorder()
	h.Health(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var status HealthStatus
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
	assert.Equal(t, "v1.0.0", status.Version)
	assert.Equal(t, "healthy", status.Checks["database"].Status)
	assert.Equal(t, "healthy", status.Checks["cache"].Status)
	require.NotNil(t, status.System)
	assert.NotEmpty(t, status.System.GoVersion)
}

func TestHealth_CacheDownIsDegraded(t *testing.T) {
	h := NewHealthHandler(testutil.TestDB(t), fakePinger{err: errors.New("connection refused")}, "v1.0.0")

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	// Readiness depends on the database only.
	rec = httptest.NewRecorder()
	h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealth_DatabaseDown(t *testing.T) {
	db := testutil.TestDB(t)
	h := NewHealthHandler(db, nil, "v1.0.0")
	require.NoError(t, db.Close())

	rec := httptest.NewRecorder()
	h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealth_Liveness(t *testing.T) {
	h := NewHealthHandler(nil, nil, "")

	rec := httptest.NewRecorder()
	h.Liveness(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"alive"}`, rec.Body.String())
}
