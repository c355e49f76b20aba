// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/landing-cms/internal/model"
	"github.com/olegiv/landing-cms/internal/testutil"
)

func newTemplateService(t *testing.T) *TemplateService {
	t.Helper()
	svc := NewTemplateService(testutil.TestDB(t), testutil.TestLoggerSilent())
	svc.now = stepClock()
	return svc
}

func TestTemplateService_CRUD(t *testing.T) {
	svc := newTemplateService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateTemplateInput{Name: "", Type: "hero"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Create(ctx, CreateTemplateInput{Name: "Hero", Type: " "})
	assert.ErrorIs(t, err, ErrValidation)

	created, err := svc.Create(ctx, CreateTemplateInput{Name: " Hero ", Type: "hero", DefaultHTML: "<h1>Hi</h1>", Description: "Top"})
	require.NoError(t, err)
	assert.Equal(t, "Hero", created.Name)
	assert.True(t, created.IsActive)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "<h1>Hi</h1>", got.DefaultHTML)

	updated, err := svc.Update(ctx, created.ID, UpdateTemplateInput{
		Name:     ptr(""),
		IsActive: ptr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, "Hero", updated.Name, "blank name is ignored")
	assert.False(t, updated.IsActive)
	assert.Equal(t, "Top", updated.Description)

	updated, err = svc.Update(ctx, created.ID, UpdateTemplateInput{DefaultHTML: ptr("<h2>New</h2>")})
	require.NoError(t, err)
	assert.Equal(t, "<h2>New</h2>", updated.DefaultHTML)

	_, err = svc.Update(ctx, 9999, UpdateTemplateInput{})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), ErrNotFound)
}

func TestTemplateService_DeleteReferenced(t *testing.T) {
	f := newPageFixture(t)
	ctx := context.Background()
	svc := NewTemplateService(f.db, testutil.TestLoggerSilent())

	p := f.createPage(t, "Uses Hero")
	sec := f.addSection(t, p.ID, f.hero.ID, "")

	assert.ErrorIs(t, svc.Delete(ctx, f.hero.ID), ErrConflict)

	require.NoError(t, f.pages.DeleteSection(ctx, ownerID, sec.ID))
	require.NoError(t, svc.Delete(ctx, f.hero.ID))
}

func TestTemplateService_List(t *testing.T) {
	svc := newTemplateService(t)
	ctx := context.Background()

	for _, in := range []CreateTemplateInput{
		{Name: "Charlie Hero", Type: "hero"},
		{Name: "Alpha Gallery", Type: "gallery", Description: "photos"},
		{Name: "Bravo Hero", Type: "hero"},
	} {
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	byName, err := svc.List(ctx, model.TemplateFilter{SortBy: "name"})
	require.NoError(t, err)
	require.Len(t, byName.Items, 3)
	assert.Equal(t, "Alpha Gallery", byName.Items[0].Name)
	assert.Equal(t, "Charlie Hero", byName.Items[2].Name)

	newest, err := svc.List(ctx, model.TemplateFilter{SortBy: "created", SortDesc: true})
	require.NoError(t, err)
	assert.Equal(t, "Bravo Hero", newest.Items[0].Name)

	heroes, err := svc.List(ctx, model.TemplateFilter{Type: "hero"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, heroes.Total)

	photos, err := svc.List(ctx, model.TemplateFilter{Keyword: "photos"})
	require.NoError(t, err)
	require.Len(t, photos.Items, 1)
	assert.Equal(t, "gallery", photos.Items[0].Type)

	paged, err := svc.List(ctx, model.TemplateFilter{SortBy: "name", Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, paged.Total)
	require.Len(t, paged.Items, 1)
	assert.Equal(t, "Charlie Hero", paged.Items[0].Name)

	_, err = svc.List(ctx, model.TemplateFilter{SortBy: "name; DROP TABLE block_templates"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestTemplateService_ExportImport(t *testing.T) {
	src := newTemplateService(t)
	ctx := context.Background()

	_, err := src.Create(ctx, CreateTemplateInput{Name: "Hero", Type: "hero", DefaultHTML: "<h1>x</h1>", Description: "d"})
	require.NoError(t, err)
	_, err = src.Create(ctx, CreateTemplateInput{Name: "Footer", Type: "footer"})
	require.NoError(t, err)

	data, err := src.Export(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  {", "export is indented")

	var exported []model.TemplateExport
	require.NoError(t, json.Unmarshal(data, &exported))
	require.Len(t, exported, 2)
	assert.Equal(t, "Footer", exported[0].Name)
	assert.Equal(t, model.TemplateExport{Name: "Hero", Type: "hero", DefaultHTML: "<h1>x</h1>", Description: "d"}, exported[1])

	dst := newTemplateService(t)
	n, err := dst.Import(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	list, err := dst.List(ctx, model.TemplateFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, list.Total)
}

func TestTemplateService_ImportInvalid(t *testing.T) {
	svc := newTemplateService(t)
	ctx := context.Background()

	_, err := svc.Import(ctx, []byte("{not json"))
	require.ErrorIs(t, err, ErrValidation)
	assert.EqualError(t, err, "Invalid JSON format")

	_, err = svc.Import(ctx, []byte(`[{"name":"ok","type":"hero"},{"name":"","type":"hero"}]`))
	assert.ErrorIs(t, err, ErrValidation)

	list, err := svc.List(ctx, model.TemplateFilter{})
	require.NoError(t, err)
	assert.Zero(t, list.Total, "nothing is imported when an entry is invalid")
}

func TestTemplateService_ExportEmpty(t *testing.T) {
	svc := newTemplateService(t)

	data, err := svc.Export(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}
