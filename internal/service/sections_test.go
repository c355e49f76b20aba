// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/landing-cms/internal/model"
)

func orderOf(sections []model.Section) map[int64]int {
	m := make(map[int64]int, len(sections))
	for _, s := range sections {
		m[s.ID] = s.OrderNum
	}
	return m
}

func TestAddSection_Ordering(t *testing.T) {
	f := newPageFixture(t)
	ctx := context.Background()
	p := f.createPage(t, "Ordering")

	first := f.addSection(t, p.ID, f.hero.ID, "")
	assert.Equal(t, 0, first.OrderNum)
	assert.True(t, first.IsActive)
	assert.Equal(t, "Hero", first.TemplateName)

	explicit, err := f.pages.AddSection(ctx, ownerID, p.ID, AddSectionInput{BlockTemplateID: f.features.ID, OrderNum: ptr(10)})
	require.NoError(t, err)
	assert.Equal(t, 10, explicit.OrderNum)

	next := f.addSection(t, p.ID, f.hero.ID, "")
	assert.Equal(t, 11, next.OrderNum)

	negative, err := f.pages.AddSection(ctx, ownerID, p.ID, AddSectionInput{BlockTemplateID: f.hero.ID, OrderNum: ptr(-4)})
	require.ErrorIs(t, err, ErrConflict, "negative order clamps to 0, which is taken")
	assert.Nil(t, negative)

	_, err = f.pages.AddSection(ctx, ownerID, p.ID, AddSectionInput{BlockTemplateID: f.hero.ID, OrderNum: ptr(10)})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestAddSection_NotFound(t *testing.T) {
	f := newPageFixture(t)
	ctx := context.Background()
	p := f.createPage(t, "Missing")

	_, err := f.pages.AddSection(ctx, ownerID, p.ID, AddSectionInput{BlockTemplateID: 9999})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.pages.AddSection(ctx, otherID, p.ID, AddSectionInput{BlockTemplateID: f.hero.ID})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateSection(t *testing.T) {
	f := newPageFixture(t)
	ctx := context.Background()
	p := f.createPage(t, "Update")
	sec := f.addSection(t, p.ID, f.hero.ID, "<p>one</p>")

	updated, err := f.pages.UpdateSection(ctx, ownerID, sec.ID, UpdateSectionInput{IsActive: ptr(false)})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "<p>one</p>", updated.CustomContent, "unset fields are kept")
	assert.Equal(t, 0, updated.OrderNum)

	updated, err = f.pages.UpdateSection(ctx, ownerID, sec.ID, UpdateSectionInput{OrderNum: ptr(-1), CustomContent: ptr("")})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.OrderNum)
	assert.Empty(t, updated.CustomContent)
	assert.False(t, updated.IsActive)

	_, err = f.pages.UpdateSection(ctx, otherID, sec.ID, UpdateSectionInput{IsActive: ptr(true)})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, f.pages.DeleteSection(ctx, otherID, sec.ID), ErrNotFound)
	assert.ErrorIs(t, f.pages.DeleteSection(ctx, ownerID, 9999), ErrNotFound)
}

func TestReorderSections_Swap(t *testing.T) {
	f := newPageFixture(t)
	ctx := context.Background()
	p := f.createPage(t, "Swap")
	a := f.addSection(t, p.ID, f.hero.ID, "a")
	b := f.addSection(t, p.ID, f.features.ID, "b")
	c := f.addSection(t, p.ID, f.hero.ID, "c")

	sections, err := f.pages.ReorderSections(ctx, ownerID, p.ID, []SectionOrder{
		{SectionID: a.ID, OrderNum: 2},
		{SectionID: c.ID, OrderNum: 0},
	})
	require.NoError(t, err)

	require.Len(t, sections, 3)
	assert.Equal(t, []int64{c.ID, b.ID, a.ID}, []int64{sections[0].ID, sections[1].ID, sections[2].ID})
	assert.Equal(t, map[int64]int{a.ID: 2, b.ID: 1, c.ID: 0}, orderOf(sections))
}

func TestReorderSections_SkipsUnknownIDs(t *testing.T) {
	f := newPageFixture(t)
	ctx := context.Background()
	p := f.createPage(t, "Skip")
	other := f.createPage(t, "Elsewhere")
	a := f.addSection(t, p.ID, f.hero.ID, "")
	foreign := f.addSection(t, other.ID, f.hero.ID, "")

	sections, err := f.pages.ReorderSections(ctx, ownerID, p.ID, []SectionOrder{
		{SectionID: a.ID, OrderNum: 4},
		{SectionID: foreign.ID, OrderNum: 9},
		{SectionID: 424242, OrderNum: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{a.ID: 4}, orderOf(sections))

	elsewhere, err := f.pages.Get(ctx, ownerID, other.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, elsewhere.Sections[0].OrderNum)
}

func TestReorderSections_RejectsDuplicates(t *testing.T) {
	f := newPageFixture(t)
	ctx := context.Background()
	p := f.createPage(t, "Dupes")
	a := f.addSection(t, p.ID, f.hero.ID, "")
	b := f.addSection(t, p.ID, f.features.ID, "")

	_, err := f.pages.ReorderSections(ctx, ownerID, p.ID, []SectionOrder{
		{SectionID: a.ID, OrderNum: 5},
		{SectionID: b.ID, OrderNum: 5},
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.pages.ReorderSections(ctx, ownerID, p.ID, []SectionOrder{
		{SectionID: a.ID, OrderNum: 0},
		{SectionID: b.ID, OrderNum: -3},
	})
	assert.ErrorIs(t, err, ErrValidation, "negative orders normalize before the duplicate check")

	_, err = f.pages.ReorderSections(ctx, ownerID, p.ID, []SectionOrder{
		{SectionID: a.ID, OrderNum: 3},
		{SectionID: a.ID, OrderNum: 4},
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestReorderSections_AllOrNothing(t *testing.T) {
	f := newPageFixture(t)
	ctx := context.Background()
	p := f.createPage(t, "Atomic")
	a := f.addSection(t, p.ID, f.hero.ID, "")
	b := f.addSection(t, p.ID, f.features.ID, "")
	c := f.addSection(t, p.ID, f.hero.ID, "")

	// c keeps order 2, so moving b onto it fails after a has already moved.
	_, err := f.pages.ReorderSections(ctx, ownerID, p.ID, []SectionOrder{
		{SectionID: a.ID, OrderNum: 7},
		{SectionID: b.ID, OrderNum: 2},
	})
	require.ErrorIs(t, err, ErrConflict)

	page, err := f.pages.Get(ctx, ownerID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{a.ID: 0, b.ID: 1, c.ID: 2}, orderOf(page.Sections))
}
