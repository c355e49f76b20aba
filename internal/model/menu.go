// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Menu locations
const (
	MenuLocationHeader = "header"
	MenuLocationFooter = "footer"
)

// IsValidMenuLocation checks if location is a known menu slot.
func IsValidMenuLocation(location string) bool {
	return location == MenuLocationHeader || location == MenuLocationFooter
}

// Menu is a named navigation menu shown at one location of the public site.
type Menu struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Location  string     `json:"location"`
	IsActive  bool       `json:"is_active"`
	Items     []MenuItem `json:"items,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// MenuItem is one link of a menu. Children is filled only in tree views.
type MenuItem struct {
	ID        int64      `json:"id"`
	MenuID    int64      `json:"menu_id"`
	ParentID  *int64     `json:"parent_id,omitempty"`
	Label     string     `json:"label"`
	URL       string     `json:"url"`
	OrderNum  int        `json:"order_num"`
	IsActive  bool       `json:"is_active"`
	Children  []MenuItem `json:"children,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
