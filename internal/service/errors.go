// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service implements page composition and publication, the block
// template catalog, lead capture, posts and the activity log.
package service

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/olegiv/landing-cms/internal/store"
)

// Error kinds. Callers match them with errors.Is.
var (
	// ErrNotFound means the entity does not exist or is not owned by the caller.
	ErrNotFound = errors.New("not found")
	// ErrConflict means the entity exists but the operation is not allowed in its state.
	ErrConflict = errors.New("conflict")
	// ErrValidation means the input was rejected.
	ErrValidation = errors.New("validation failed")
)

// Error carries a user-facing message and one of the error kinds.
// Fields, when set, maps input names to per-field messages.
type Error struct {
	Kind    error
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func notFound(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func conflict(format string, args ...any) error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

func invalid(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func invalidFields(message string, fields map[string]string) error {
	return &Error{Kind: ErrValidation, Message: message, Fields: fields}
}

// translateStoreErr maps missing rows and constraint failures onto the
// service error kinds. Other errors are wrapped with op.
func translateStoreErr(err error, op, entity string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return notFound("%s not found", entity)
	case store.IsUniqueViolation(err):
		return conflict("%s conflicts with an existing record", entity)
	case store.IsForeignKeyViolation(err):
		return conflict("%s is referenced by other records", entity)
	}

	var svcErr *Error
	if errors.As(err, &svcErr) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}
