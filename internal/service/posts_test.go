// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/landing-cms/internal/model"
	"github.com/olegiv/landing-cms/internal/testutil"
)

func newPostService(t *testing.T) *PostService {
	t.Helper()
	svc := NewPostService(testutil.TestDB(t), testutil.TestLoggerSilent())
	svc.now = stepClock()
	return svc
}

func TestPostService_Create(t *testing.T) {
	svc := newPostService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, ownerID, PostInput{Title: "Hello World", Content: "# Hi"})
	require.NoError(t, err)
	assert.Equal(t, "hello-world", p.Slug)
	assert.Equal(t, model.PostStatusDraft, p.Status)
	assert.Nil(t, p.PublishedAt)

	_, err = svc.Create(ctx, ownerID, PostInput{Title: "Hello, World!"})
	require.ErrorIs(t, err, ErrConflict)
	assert.EqualError(t, err, "slug already exists")

	explicit, err := svc.Create(ctx, ownerID, PostInput{Title: "Hello World", Slug: "hello-again", Status: model.PostStatusPublished})
	require.NoError(t, err)
	assert.Equal(t, "hello-again", explicit.Slug)
	assert.NotNil(t, explicit.PublishedAt)

	tests := []struct {
		name string
		in   PostInput
	}{
		{"empty title", PostInput{Title: " "}},
		{"bad slug", PostInput{Title: "x", Slug: "Bad Slug"}},
		{"no slug chars", PostInput{Title: "???"}},
		{"bad status", PostInput{Title: "x", Status: "archived"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, ownerID, tt.in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestPostService_UpdateStampsPublishedOnce(t *testing.T) {
	svc := newPostService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, ownerID, PostInput{Title: "Draft"})
	require.NoError(t, err)

	published, err := svc.Update(ctx, ownerID, p.ID, PostInput{Title: "Draft", Status: model.PostStatusPublished})
	require.NoError(t, err)
	require.NotNil(t, published.PublishedAt)

	draft, err := svc.Update(ctx, ownerID, p.ID, PostInput{Title: "Draft", Status: model.PostStatusDraft})
	require.NoError(t, err)
	require.NotNil(t, draft.PublishedAt)

	again, err := svc.Update(ctx, ownerID, p.ID, PostInput{Title: "Draft", Status: model.PostStatusPublished})
	require.NoError(t, err)
	assert.True(t, published.PublishedAt.Equal(*again.PublishedAt))

	_, err = svc.Create(ctx, ownerID, PostInput{Title: "Taken"})
	require.NoError(t, err)
	_, err = svc.Update(ctx, ownerID, p.ID, PostInput{Title: "Taken"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.Update(ctx, otherID, p.ID, PostInput{Title: "Mine"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostService_GetPublishedBySlug(t *testing.T) {
	svc := newPostService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, ownerID, PostInput{
		Title:   "Launch Notes",
		Content: "## Shipped\n\nSome **bold** text.\n\n<script>alert(1)</script>",
		Status:  model.PostStatusPublished,
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, ownerID, PostInput{Title: "Secret"})
	require.NoError(t, err)

	p, err := svc.GetPublishedBySlug(ctx, "launch-notes")
	require.NoError(t, err)
	assert.Contains(t, p.ContentHTML, "<h2")
	assert.Contains(t, p.ContentHTML, "<strong>bold</strong>")
	assert.NotContains(t, p.ContentHTML, "<script>")

	_, err = svc.GetPublishedBySlug(ctx, "secret")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostService_ListAndDelete(t *testing.T) {
	svc := newPostService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, ownerID, PostInput{Title: "One", Status: model.PostStatusPublished})
	require.NoError(t, err)
	_, err = svc.Create(ctx, ownerID, PostInput{Title: "Two"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, otherID, PostInput{Title: "Three", Status: model.PostStatusPublished})
	require.NoError(t, err)

	mine, err := svc.List(ctx, ownerID, "", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, mine.Total)
	assert.Equal(t, "two", mine.Items[0].Slug)

	published, err := svc.List(ctx, ownerID, model.PostStatusPublished, 0, 0)
	require.NoError(t, err)
	require.Len(t, published.Items, 1)
	assert.Equal(t, first.ID, published.Items[0].ID)

	_, err = svc.List(ctx, ownerID, "bogus", 1, 10)
	assert.ErrorIs(t, err, ErrValidation)

	public, err := svc.ListPublished(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, public, 2)

	assert.ErrorIs(t, svc.Delete(ctx, otherID, first.ID), ErrNotFound)
	require.NoError(t, svc.Delete(ctx, ownerID, first.ID))
	_, err = svc.Get(ctx, ownerID, first.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
