// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Lead is a visitor form submission captured on a published page.
type Lead struct {
	ID          int64             `json:"id"`
	PageID      int64             `json:"page_id"`
	PageTitle   string            `json:"page_title,omitempty"`
	PageSlug    string            `json:"page_slug,omitempty"`
	FormData    map[string]string `json:"form_data"`
	IPAddress   string            `json:"ip_address"`
	SubmittedAt time.Time         `json:"submitted_at"`
}

// LeadFilter narrows a lead listing.
type LeadFilter struct {
	PageID   int64
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}
