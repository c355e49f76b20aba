// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package notify delivers best-effort notifications (page published, lead
// or form submitted) to outbound sinks without blocking the caller.
package notify

import (
	"time"
)

// Event types
const (
	EventPagePublished = "page.published"
	EventLeadSubmitted = "lead.submitted"
	EventFormSubmitted = "form.submitted"
)

// Event is a notification handed to the dispatcher.
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// NewEvent creates a new event stamped with the current UTC time.
func NewEvent(eventType string, data any) *Event {
	return &Event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// PageEventData contains data for page events.
type PageEventData struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	UserID      int64      `json:"user_id"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// LeadEventData contains data for lead submission events.
type LeadEventData struct {
	LeadID      int64             `json:"lead_id"`
	PageID      int64             `json:"page_id"`
	PageTitle   string            `json:"page_title"`
	PageSlug    string            `json:"page_slug"`
	OwnerID     int64             `json:"owner_id"`
	Data        map[string]string `json:"data"`
	SubmittedAt time.Time         `json:"submitted_at"`
}

// FormEventData contains data for form submission events.
type FormEventData struct {
	SubmissionID int64             `json:"submission_id"`
	FormID       int64             `json:"form_id"`
	FormName     string            `json:"form_name"`
	OwnerID      int64             `json:"owner_id"`
	Data         map[string]string `json:"data"`
	SubmittedAt  time.Time         `json:"submitted_at"`
}
