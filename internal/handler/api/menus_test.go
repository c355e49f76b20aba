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

func TestAPI_MenuItemsReorder(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, ownerID, http.MethodPost, "/menus", map[string]string{"name": "Main", "location": "header"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	menu := decodeData[model.Menu](t, rec)
	menuPath := fmt.Sprintf("/menus/%d", menu.ID)

	var ids []int64
	for _, label := range []string{"Home", "Pricing", "Blog"} {
		rec = f.do(t, ownerID, http.MethodPost, menuPath+"/items", map[string]string{"label": label, "url": "/" + label})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		ids = append(ids, decodeData[model.MenuItem](t, rec).ID)
	}

	rec = f.do(t, ownerID, http.MethodPost, menuPath+"/items", map[string]string{"label": "XSS", "url": "javascript:alert(1)"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = f.do(t, ownerID, http.MethodPut, menuPath+"/items/reorder", map[string]any{"item_ids": []int64{ids[2], ids[0], ids[1]}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decodeData[model.Menu](t, rec)
	require.Len(t, got.Items, 3)
	assert.Equal(t, "Blog", got.Items[0].Label)
	assert.Equal(t, "Home", got.Items[1].Label)
	assert.Equal(t, "Pricing", got.Items[2].Label)

	rec = f.do(t, ownerID, http.MethodPut, menuPath+"/items/reorder", map[string]any{"item_ids": []int64{ids[0], ids[0]}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = f.do(t, ownerID, http.MethodPut, fmt.Sprintf("/menus/items/%d", ids[1]), map[string]any{
		"label":     "Start",
		"url":       "/",
		"parent_id": ids[2],
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	item := decodeData[model.MenuItem](t, rec)
	require.NotNil(t, item.ParentID)
	assert.Equal(t, ids[2], *item.ParentID)

	rec = f.do(t, ownerID, http.MethodDelete, fmt.Sprintf("/menus/items/%d", ids[2]), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, ownerID, http.MethodGet, menuPath, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got = decodeData[model.Menu](t, rec)
	require.Len(t, got.Items, 1, "deleting an item removes its children")
	assert.Equal(t, "Home", got.Items[0].Label)

	rec = f.do(t, ownerID, http.MethodDelete, menuPath, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = f.do(t, ownerID, http.MethodGet, menuPath, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_MenuValidation(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, ownerID, http.MethodPost, "/menus", map[string]string{"name": "Side", "location": "sidebar"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = f.do(t, ownerID, http.MethodPut, "/menus/abc/items/reorder", map[string]any{"item_ids": []int64{1}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, ownerID, http.MethodPost, "/menus/9999/items", map[string]string{"label": "Home", "url": "/"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
