// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const formColumns = `id, name, description, fields_json, is_active, user_id, created_at, updated_at`

// formColumnsF is formColumns qualified for queries that alias forms as f.
const formColumnsF = `f.id, f.name, f.description, f.fields_json, f.is_active, f.user_id, f.created_at, f.updated_at`

// FormWithCountRow is a form with the number of submissions it has received.
type FormWithCountRow struct {
	Form
	SubmissionCount int64 `json:"submission_count"`
}

func scanForm(row interface{ Scan(...any) error }, extra ...any) (Form, error) {
	var i Form
	dest := append([]any{
		&i.ID,
		&i.Name,
		&i.Description,
		&i.FieldsJson,
		&i.IsActive,
		&i.UserID,
		&i.CreatedAt,
		&i.UpdatedAt,
	}, extra...)
	err := row.Scan(dest...)
	return i, err
}

func scanFormWithCount(row interface{ Scan(...any) error }) (FormWithCountRow, error) {
	var count int64
	f, err := scanForm(row, &count)
	return FormWithCountRow{Form: f, SubmissionCount: count}, err
}

const createForm = `-- name: CreateForm :one
INSERT INTO forms (name, description, fields_json, is_active, user_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING ` + formColumns

type CreateFormParams struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	FieldsJson  string    `json:"fields_json"`
	IsActive    bool      `json:"is_active"`
	UserID      int64     `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (q *Queries) CreateForm(ctx context.Context, arg CreateFormParams) (Form, error) {
	row := q.db.QueryRowContext(ctx, createForm,
		arg.Name,
		arg.Description,
		arg.FieldsJson,
		arg.IsActive,
		arg.UserID,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanForm(row)
}

const getFormForUser = `-- name: GetFormForUser :one
SELECT ` + formColumnsF + `,
    (SELECT COUNT(*) FROM form_submissions s WHERE s.form_id = f.id)
FROM forms f
WHERE f.id = ? AND f.user_id = ?`

type GetFormForUserParams struct {
	ID     int64 `json:"id"`
	UserID int64 `json:"user_id"`
}

func (q *Queries) GetFormForUser(ctx context.Context, arg GetFormForUserParams) (FormWithCountRow, error) {
	return scanFormWithCount(q.db.QueryRowContext(ctx, getFormForUser, arg.ID, arg.UserID))
}

const getActiveForm = `-- name: GetActiveForm :one
SELECT ` + formColumns + ` FROM forms WHERE id = ? AND is_active = 1`

func (q *Queries) GetActiveForm(ctx context.Context, id int64) (Form, error) {
	return scanForm(q.db.QueryRowContext(ctx, getActiveForm, id))
}

const updateForm = `-- name: UpdateForm :one
UPDATE forms
SET name = ?, description = ?, fields_json = ?, is_active = ?, updated_at = ?
WHERE id = ?
RETURNING ` + formColumns

type UpdateFormParams struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	FieldsJson  string    `json:"fields_json"`
	IsActive    bool      `json:"is_active"`
	UpdatedAt   time.Time `json:"updated_at"`
	ID          int64     `json:"id"`
}

func (q *Queries) UpdateForm(ctx context.Context, arg UpdateFormParams) (Form, error) {
	row := q.db.QueryRowContext(ctx, updateForm,
		arg.Name,
		arg.Description,
		arg.FieldsJson,
		arg.IsActive,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanForm(row)
}

const deleteForm = `-- name: DeleteForm :exec
DELETE FROM forms WHERE id = ?`

func (q *Queries) DeleteForm(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteForm, id)
	return err
}

const listFormsForUser = `-- name: ListFormsForUser :many
SELECT ` + formColumnsF + `,
    (SELECT COUNT(*) FROM form_submissions s WHERE s.form_id = f.id)
FROM forms f
WHERE f.user_id = ?
ORDER BY f.created_at DESC, f.id DESC
LIMIT ? OFFSET ?`

type ListFormsForUserParams struct {
	UserID int64 `json:"user_id"`
	Limit  int64 `json:"limit"`
	Offset int64 `json:"offset"`
}

func (q *Queries) ListFormsForUser(ctx context.Context, arg ListFormsForUserParams) ([]FormWithCountRow, error) {
	rows, err := q.db.QueryContext(ctx, listFormsForUser, arg.UserID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []FormWithCountRow{}
	for rows.Next() {
		i, err := scanFormWithCount(rows)
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

const countFormsForUser = `-- name: CountFormsForUser :one
SELECT COUNT(*) FROM forms WHERE user_id = ?`

func (q *Queries) CountFormsForUser(ctx context.Context, userID int64) (int64, error) {
	row := q.db.QueryRowContext(ctx, countFormsForUser, userID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const submissionColumns = `id, form_id, data_json, ip_address, user_agent, submitted_at`

func scanFormSubmission(row interface{ Scan(...any) error }) (FormSubmission, error) {
	var i FormSubmission
	err := row.Scan(
		&i.ID,
		&i.FormID,
		&i.DataJson,
		&i.IpAddress,
		&i.UserAgent,
		&i.SubmittedAt,
	)
	return i, err
}

func collectFormSubmissions(rows *sql.Rows, err error) ([]FormSubmission, error) {
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []FormSubmission{}
	for rows.Next() {
		i, err := scanFormSubmission(rows)
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

const createFormSubmission = `-- name: CreateFormSubmission :one
INSERT INTO form_submissions (form_id, data_json, ip_address, user_agent, submitted_at)
VALUES (?, ?, ?, ?, ?)
RETURNING ` + submissionColumns

type CreateFormSubmissionParams struct {
	FormID      int64     `json:"form_id"`
	DataJson    string    `json:"data_json"`
	IpAddress   string    `json:"ip_address"`
	UserAgent   string    `json:"user_agent"`
	SubmittedAt time.Time `json:"submitted_at"`
}

func (q *Queries) CreateFormSubmission(ctx context.Context, arg CreateFormSubmissionParams) (FormSubmission, error) {
	row := q.db.QueryRowContext(ctx, createFormSubmission,
		arg.FormID,
		arg.DataJson,
		arg.IpAddress,
		arg.UserAgent,
		arg.SubmittedAt,
	)
	return scanFormSubmission(row)
}

const listFormSubmissions = `-- name: ListFormSubmissions :many
SELECT ` + submissionColumns + ` FROM form_submissions
WHERE form_id = ?
ORDER BY submitted_at DESC, id DESC
LIMIT ? OFFSET ?`

type ListFormSubmissionsParams struct {
	FormID int64 `json:"form_id"`
	Limit  int64 `json:"limit"`
	Offset int64 `json:"offset"`
}

func (q *Queries) ListFormSubmissions(ctx context.Context, arg ListFormSubmissionsParams) ([]FormSubmission, error) {
	return collectFormSubmissions(q.db.QueryContext(ctx, listFormSubmissions, arg.FormID, arg.Limit, arg.Offset))
}

const listAllFormSubmissions = `-- name: ListAllFormSubmissions :many
SELECT ` + submissionColumns + ` FROM form_submissions
WHERE form_id = ?
ORDER BY submitted_at DESC, id DESC`

func (q *Queries) ListAllFormSubmissions(ctx context.Context, formID int64) ([]FormSubmission, error) {
	return collectFormSubmissions(q.db.QueryContext(ctx, listAllFormSubmissions, formID))
}

const countFormSubmissions = `-- name: CountFormSubmissions :one
SELECT COUNT(*) FROM form_submissions WHERE form_id = ?`

func (q *Queries) CountFormSubmissions(ctx context.Context, formID int64) (int64, error) {
	row := q.db.QueryRowContext(ctx, countFormSubmissions, formID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const getFormSubmissionForUser = `-- name: GetFormSubmissionForUser :one
SELECT s.id, s.form_id, s.data_json, s.ip_address, s.user_agent, s.submitted_at
FROM form_submissions s
JOIN forms f ON f.id = s.form_id
WHERE s.id = ? AND f.user_id = ?`

type GetFormSubmissionForUserParams struct {
	ID     int64 `json:"id"`
	UserID int64 `json:"user_id"`
}

func (q *Queries) GetFormSubmissionForUser(ctx context.Context, arg GetFormSubmissionForUserParams) (FormSubmission, error) {
	return scanFormSubmission(q.db.QueryRowContext(ctx, getFormSubmissionForUser, arg.ID, arg.UserID))
}

const deleteFormSubmission = `-- name: DeleteFormSubmission :exec
DELETE FROM form_submissions WHERE id = ?`

func (q *Queries) DeleteFormSubmission(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteFormSubmission, id)
	return err
}
