// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/landing-cms/internal/model"
)

func TestAPI_Taxonomy(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, ownerID, http.MethodPost, "/categories", map[string]string{"name": "News"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	news := decodeData[model.Category](t, rec)
	assert.Equal(t, "news", news.Slug)

	rec = f.do(t, ownerID, http.MethodPost, "/categories", map[string]string{"name": "NEWS"})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "category slug already exists", decodeError(t, rec).Message)

	rec = f.do(t, ownerID, http.MethodPost, "/tags", map[string]string{"name": "Go"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	golang := decodeData[model.Tag](t, rec)

	rec = f.do(t, ownerID, http.MethodPost, "/posts", map[string]any{
		"title":        "Tagged",
		"category_ids": []int64{news.ID},
		"tag_ids":      []int64{golang.ID},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	post := decodeData[model.Post](t, rec)
	require.Len(t, post.Categories, 1)
	assert.Equal(t, "News", post.Categories[0].Name)
	require.Len(t, post.Tags, 1)
	assert.Equal(t, "Go", post.Tags[0].Name)

	rec = f.do(t, ownerID, http.MethodPost, "/posts", map[string]any{"title": "Bad", "tag_ids": []int64{999}})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "tag 999 does not exist", decodeError(t, rec).Message)

	rec = f.do(t, ownerID, http.MethodPut, fmt.Sprintf("/categories/%d", news.ID), map[string]string{"name": "Updates", "slug": "updates"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "updates", decodeData[model.Category](t, rec).Slug)

	rec = f.do(t, ownerID, http.MethodGet, "/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeData[[]model.Category](t, rec), 1)

	rec = f.do(t, ownerID, http.MethodDelete, fmt.Sprintf("/tags/%d", golang.ID), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, ownerID, http.MethodGet, fmt.Sprintf("/posts/%d", post.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeData[model.Post](t, rec).Tags)

	rec = f.do(t, ownerID, http.MethodGet, "/tags", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeData[[]model.Tag](t, rec))
}
