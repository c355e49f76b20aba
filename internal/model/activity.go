// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// ActivityLog records a mutating request or a warning raised by the server.
type ActivityLog struct {
	ID         int64     `json:"id"`
	UserID     *int64    `json:"user_id,omitempty"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Details    string    `json:"details"`
	IPAddress  string    `json:"ip_address"`
	CreatedAt  time.Time `json:"created_at"`
}

// Entity types recorded in the activity log.
const (
	EntityPage           = "page"
	EntitySection        = "section"
	EntityTemplate       = "template"
	EntityLead           = "lead"
	EntityPost           = "post"
	EntityCategory       = "category"
	EntityTag            = "tag"
	EntityForm           = "form"
	EntityFormSubmission = "form_submission"
	EntityMenu           = "menu"
	EntityMenuItem       = "menu_item"
	EntitySystem         = "system"
)
