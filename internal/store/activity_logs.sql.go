// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const createActivityLog = `-- name: CreateActivityLog :one
INSERT INTO activity_logs (user_id, action, entity_type, entity_id, details, ip_address, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING id, user_id, action, entity_type, entity_id, details, ip_address, created_at`

type CreateActivityLogParams struct {
	UserID     sql.NullInt64 `json:"user_id"`
	Action     string        `json:"action"`
	EntityType string        `json:"entity_type"`
	EntityID   string        `json:"entity_id"`
	Details    string        `json:"details"`
	IpAddress  string        `json:"ip_address"`
	CreatedAt  time.Time     `json:"created_at"`
}

func scanActivityLog(row interface{ Scan(...any) error }) (ActivityLog, error) {
	var i ActivityLog
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Action,
		&i.EntityType,
		&i.EntityID,
		&i.Details,
		&i.IpAddress,
		&i.CreatedAt,
	)
	return i, err
}

func (q *Queries) CreateActivityLog(ctx context.Context, arg CreateActivityLogParams) (ActivityLog, error) {
	row := q.db.QueryRowContext(ctx, createActivityLog,
		arg.UserID,
		arg.Action,
		arg.EntityType,
		arg.EntityID,
		arg.Details,
		arg.IpAddress,
		arg.CreatedAt,
	)
	return scanActivityLog(row)
}

const listActivityLogs = `-- name: ListActivityLogs :many
SELECT id, user_id, action, entity_type, entity_id, details, ip_address, created_at
FROM activity_logs
WHERE (? = '' OR entity_type = ?)
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?`

type ListActivityLogsParams struct {
	EntityType string `json:"entity_type"`
	Limit      int64  `json:"limit"`
	Offset     int64  `json:"offset"`
}

func (q *Queries) ListActivityLogs(ctx context.Context, arg ListActivityLogsParams) ([]ActivityLog, error) {
	rows, err := q.db.QueryContext(ctx, listActivityLogs,
		arg.EntityType, arg.EntityType,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []ActivityLog{}
	for rows.Next() {
		i, err := scanActivityLog(rows)
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

const countActivityLogs = `-- name: CountActivityLogs :one
SELECT COUNT(*) FROM activity_logs WHERE (? = '' OR entity_type = ?)`

func (q *Queries) CountActivityLogs(ctx context.Context, entityType string) (int64, error) {
	row := q.db.QueryRowContext(ctx, countActivityLogs, entityType, entityType)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const deleteActivityLogsBefore = `-- name: DeleteActivityLogsBefore :execrows
DELETE FROM activity_logs WHERE created_at < ?`

func (q *Queries) DeleteActivityLogsBefore(ctx context.Context, before time.Time) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteActivityLogsBefore, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
