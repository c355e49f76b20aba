// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const createLead = `-- name: CreateLead :one
INSERT INTO leads (page_id, form_data, ip_address, submitted_at)
VALUES (?, ?, ?, ?)
RETURNING id, page_id, form_data, ip_address, submitted_at`

type CreateLeadParams struct {
	PageID      int64     `json:"page_id"`
	FormData    string    `json:"form_data"`
	IpAddress   string    `json:"ip_address"`
	SubmittedAt time.Time `json:"submitted_at"`
}

func (q *Queries) CreateLead(ctx context.Context, arg CreateLeadParams) (Lead, error) {
	row := q.db.QueryRowContext(ctx, createLead,
		arg.PageID,
		arg.FormData,
		arg.IpAddress,
		arg.SubmittedAt,
	)
	var i Lead
	err := row.Scan(
		&i.ID,
		&i.PageID,
		&i.FormData,
		&i.IpAddress,
		&i.SubmittedAt,
	)
	return i, err
}

// LeadWithPageRow is a lead joined with the page it was submitted on.
type LeadWithPageRow struct {
	Lead
	PageTitle string `json:"page_title"`
	PageSlug  string `json:"page_slug"`
}

func scanLeadWithPage(row interface{ Scan(...any) error }) (LeadWithPageRow, error) {
	var i LeadWithPageRow
	err := row.Scan(
		&i.ID,
		&i.PageID,
		&i.FormData,
		&i.IpAddress,
		&i.SubmittedAt,
		&i.PageTitle,
		&i.PageSlug,
	)
	return i, err
}

const getLeadForUser = `-- name: GetLeadForUser :one
SELECT l.id, l.page_id, l.form_data, l.ip_address, l.submitted_at, p.title, p.slug
FROM leads l
JOIN pages p ON p.id = l.page_id
WHERE l.id = ? AND p.user_id = ?`

type GetLeadForUserParams struct {
	ID     int64 `json:"id"`
	UserID int64 `json:"user_id"`
}

func (q *Queries) GetLeadForUser(ctx context.Context, arg GetLeadForUserParams) (LeadWithPageRow, error) {
	return scanLeadWithPage(q.db.QueryRowContext(ctx, getLeadForUser, arg.ID, arg.UserID))
}

const deleteLead = `-- name: DeleteLead :exec
DELETE FROM leads WHERE id = ?`

func (q *Queries) DeleteLead(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteLead, id)
	return err
}

const leadFilter = `
WHERE p.user_id = ?
  AND (? = 0 OR l.page_id = ?)
  AND (? IS NULL OR l.submitted_at >= ?)
  AND (? IS NULL OR l.submitted_at <= ?)`

const listLeadsForUser = `-- name: ListLeadsForUser :many
SELECT l.id, l.page_id, l.form_data, l.ip_address, l.submitted_at, p.title, p.slug
FROM leads l
JOIN pages p ON p.id = l.page_id` + leadFilter + `
ORDER BY l.submitted_at DESC, l.id DESC
LIMIT ? OFFSET ?`

type ListLeadsForUserParams struct {
	UserID int64        `json:"user_id"`
	PageID int64        `json:"page_id"`
	From   sql.NullTime `json:"from"`
	To     sql.NullTime `json:"to"`
	Limit  int64        `json:"limit"`
	Offset int64        `json:"offset"`
}

func (q *Queries) ListLeadsForUser(ctx context.Context, arg ListLeadsForUserParams) ([]LeadWithPageRow, error) {
	rows, err := q.db.QueryContext(ctx, listLeadsForUser,
		arg.UserID,
		arg.PageID, arg.PageID,
		arg.From, arg.From,
		arg.To, arg.To,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []LeadWithPageRow{}
	for rows.Next() {
		i, err := scanLeadWithPage(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countLeadsForUser = `-- name: CountLeadsForUser :one
SELECT COUNT(*)
FROM leads l
JOIN pages p ON p.id = l.page_id` + leadFilter

type CountLeadsForUserParams struct {
	UserID int64        `json:"user_id"`
	PageID int64        `json:"page_id"`
	From   sql.NullTime `json:"from"`
	To     sql.NullTime `json:"to"`
}

func (q *Queries) CountLeadsForUser(ctx context.Context, arg CountLeadsForUserParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, countLeadsForUser,
		arg.UserID,
		arg.PageID, arg.PageID,
		arg.From, arg.From,
		arg.To, arg.To,
	)
	var count int64
	err := row.Scan(&count)
	return count, err
}
