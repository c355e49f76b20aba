// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"slices"
	"time"
)

// Form field type constants
const (
	FieldTypeText     = "text"
	FieldTypeEmail    = "email"
	FieldTypeTextarea = "textarea"
	FieldTypeNumber   = "number"
	FieldTypeSelect   = "select"
	FieldTypeRadio    = "radio"
	FieldTypeCheckbox = "checkbox"
	FieldTypeDate     = "date"
)

// ValidFieldTypes returns all valid form field types.
func ValidFieldTypes() []string {
	return []string{
		FieldTypeText,
		FieldTypeEmail,
		FieldTypeTextarea,
		FieldTypeNumber,
		FieldTypeSelect,
		FieldTypeRadio,
		FieldTypeCheckbox,
		FieldTypeDate,
	}
}

// IsValidFieldType checks if a field type is valid.
func IsValidFieldType(fieldType string) bool {
	return slices.Contains(ValidFieldTypes(), fieldType)
}

// FieldHasOptions reports whether values of fieldType must be one of the
// field's options.
func FieldHasOptions(fieldType string) bool {
	return fieldType == FieldTypeSelect || fieldType == FieldTypeRadio
}

// FormField describes one input of a form.
type FormField struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"`
}

// Form is a standalone form with its own submissions, independent of pages.
type Form struct {
	ID              int64       `json:"id"`
	Name            string      `json:"name"`
	Description     string      `json:"description"`
	Fields          []FormField `json:"fields"`
	IsActive        bool        `json:"is_active"`
	UserID          int64       `json:"user_id"`
	SubmissionCount int64       `json:"submission_count"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// FormSubmission is one visitor's answers to a form.
type FormSubmission struct {
	ID          int64             `json:"id"`
	FormID      int64             `json:"form_id"`
	FormName    string            `json:"form_name,omitempty"`
	Data        map[string]string `json:"data"`
	IPAddress   string            `json:"ip_address"`
	UserAgent   string            `json:"user_agent"`
	SubmittedAt time.Time         `json:"submitted_at"`
}
