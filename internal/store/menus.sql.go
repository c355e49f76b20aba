// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const menuColumns = `id, name, location, is_active, created_at, updated_at`

func scanMenu(row interface{ Scan(...any) error }) (Menu, error) {
	var i Menu
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Location,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createMenu = `-- name: CreateMenu :one
INSERT INTO menus (name, location, is_active, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
RETURNING ` + menuColumns

type CreateMenuParams struct {
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (q *Queries) CreateMenu(ctx context.Context, arg CreateMenuParams) (Menu, error) {
	row := q.db.QueryRowContext(ctx, createMenu,
		arg.Name,
		arg.Location,
		arg.IsActive,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanMenu(row)
}

const getMenu = `-- name: GetMenu :one
SELECT ` + menuColumns + ` FROM menus WHERE id = ?`

func (q *Queries) GetMenu(ctx context.Context, id int64) (Menu, error) {
	return scanMenu(q.db.QueryRowContext(ctx, getMenu, id))
}

const getActiveMenuByLocation = `-- name: GetActiveMenuByLocation :one
SELECT ` + menuColumns + ` FROM menus
WHERE location = ? AND is_active = 1
ORDER BY id
LIMIT 1`

func (q *Queries) GetActiveMenuByLocation(ctx context.Context, location string) (Menu, error) {
	return scanMenu(q.db.QueryRowContext(ctx, getActiveMenuByLocation, location))
}

const listMenus = `-- name: ListMenus :many
SELECT ` + menuColumns + ` FROM menus ORDER BY name, id`

func (q *Queries) ListMenus(ctx context.Context) ([]Menu, error) {
	rows, err := q.db.QueryContext(ctx, listMenus)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []Menu{}
	for rows.Next() {
		i, err := scanMenu(rows)
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

const updateMenu = `-- name: UpdateMenu :one
UPDATE menus
SET name = ?, location = ?, is_active = ?, updated_at = ?
WHERE id = ?
RETURNING ` + menuColumns

type UpdateMenuParams struct {
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	IsActive  bool      `json:"is_active"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        int64     `json:"id"`
}

func (q *Queries) UpdateMenu(ctx context.Context, arg UpdateMenuParams) (Menu, error) {
	row := q.db.QueryRowContext(ctx, updateMenu,
		arg.Name,
		arg.Location,
		arg.IsActive,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanMenu(row)
}

const deleteMenu = `-- name: DeleteMenu :exec
DELETE FROM menus WHERE id = ?`

func (q *Queries) DeleteMenu(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteMenu, id)
	return err
}

const menuItemColumns = `id, menu_id, parent_id, label, url, order_num, is_active, created_at`

func scanMenuItem(row interface{ Scan(...any) error }) (MenuItem, error) {
	var i MenuItem
	err := row.Scan(
		&i.ID,
		&i.MenuID,
		&i.ParentID,
		&i.Label,
		&i.Url,
		&i.OrderNum,
		&i.IsActive,
		&i.CreatedAt,
	)
	return i, err
}

const createMenuItem = `-- name: CreateMenuItem :one
INSERT INTO menu_items (menu_id, parent_id, label, url, order_num, is_active, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING ` + menuItemColumns

type CreateMenuItemParams struct {
	MenuID    int64         `json:"menu_id"`
	ParentID  sql.NullInt64 `json:"parent_id"`
	Label     string        `json:"label"`
	Url       string        `json:"url"`
	OrderNum  int64         `json:"order_num"`
	IsActive  bool          `json:"is_active"`
	CreatedAt time.Time     `json:"created_at"`
}

func (q *Queries) CreateMenuItem(ctx context.Context, arg CreateMenuItemParams) (MenuItem, error) {
	row := q.db.QueryRowContext(ctx, createMenuItem,
		arg.MenuID,
		arg.ParentID,
		arg.Label,
		arg.Url,
		arg.OrderNum,
		arg.IsActive,
		arg.CreatedAt,
	)
	return scanMenuItem(row)
}

const getMenuItem = `-- name: GetMenuItem :one
SELECT ` + menuItemColumns + ` FROM menu_items WHERE id = ?`

func (q *Queries) GetMenuItem(ctx context.Context, id int64) (MenuItem, error) {
	return scanMenuItem(q.db.QueryRowContext(ctx, getMenuItem, id))
}

const listMenuItems = `-- name: ListMenuItems :many
SELECT ` + menuItemColumns + ` FROM menu_items
WHERE menu_id = ?
ORDER BY order_num, id`

func (q *Queries) ListMenuItems(ctx context.Context, menuID int64) ([]MenuItem, error) {
	rows, err := q.db.QueryContext(ctx, listMenuItems, menuID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []MenuItem{}
	for rows.Next() {
		i, err := scanMenuItem(rows)
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

const nextMenuItemOrder = `-- name: NextMenuItemOrder :one
SELECT COALESCE(MAX(order_num) + 1, 0) FROM menu_items WHERE menu_id = ?`

func (q *Queries) NextMenuItemOrder(ctx context.Context, menuID int64) (int64, error) {
	row := q.db.QueryRowContext(ctx, nextMenuItemOrder, menuID)
	var next int64
	err := row.Scan(&next)
	return next, err
}

const updateMenuItem = `-- name: UpdateMenuItem :one
UPDATE menu_items
SET parent_id = ?, label = ?, url = ?, is_active = ?
WHERE id = ?
RETURNING ` + menuItemColumns

type UpdateMenuItemParams struct {
	ParentID sql.NullInt64 `json:"parent_id"`
	Label    string        `json:"label"`
	Url      string        `json:"url"`
	IsActive bool          `json:"is_active"`
	ID       int64         `json:"id"`
}

func (q *Queries) UpdateMenuItem(ctx context.Context, arg UpdateMenuItemParams) (MenuItem, error) {
	row := q.db.QueryRowContext(ctx, updateMenuItem,
		arg.ParentID,
		arg.Label,
		arg.Url,
		arg.IsActive,
		arg.ID,
	)
	return scanMenuItem(row)
}

const setMenuItemOrder = `-- name: SetMenuItemOrder :exec
UPDATE menu_items SET order_num = ? WHERE id = ? AND menu_id = ?`

type SetMenuItemOrderParams struct {
	OrderNum int64 `json:"order_num"`
	ID       int64 `json:"id"`
	MenuID   int64 `json:"menu_id"`
}

func (q *Queries) SetMenuItemOrder(ctx context.Context, arg SetMenuItemOrderParams) error {
	_, err := q.db.ExecContext(ctx, setMenuItemOrder, arg.OrderNum, arg.ID, arg.MenuID)
	return err
}

const deleteMenuItem = `-- name: DeleteMenuItem :exec
DELETE FROM menu_items WHERE id = ?`

func (q *Queries) DeleteMenuItem(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteMenuItem, id)
	return err
}
