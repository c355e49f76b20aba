// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a slog handler that mirrors warnings and errors
// into the activity log.
package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/olegiv/landing-cms/internal/model"
	"github.com/olegiv/landing-cms/internal/service"
)

// EntityTypeKey is the log attribute that sets the activity entity type.
const EntityTypeKey = "entity_type"

// Recorder stores activity log entries.
type Recorder interface {
	Record(ctx context.Context, e service.ActivityEntry) error
}

// ActivityLogHandler is a slog.Handler that wraps another handler and also
// writes records at or above its level to the activity log.
type ActivityLogHandler struct {
	inner    slog.Handler
	recorder Recorder
	level    slog.Level
	attrs    []slog.Attr
	group    string
}

// NewActivityLogHandler wraps inner, mirroring WARN and above to recorder.
func NewActivityLogHandler(inner slog.Handler, recorder Recorder) *ActivityLogHandler {
	return NewActivityLogHandlerWithLevel(inner, recorder, slog.LevelWarn)
}

// NewActivityLogHandlerWithLevel creates a handler with a custom minimum level.
func NewActivityLogHandlerWithLevel(inner slog.Handler, recorder Recorder, level slog.Level) *ActivityLogHandler {
	return &ActivityLogHandler{inner: inner, recorder: recorder, level: level}
}

// Enabled implements slog.Handler.
func (h *ActivityLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *ActivityLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}

	if r.Level >= h.level && h.recorder != nil {
		h.mirror(ctx, r)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *ActivityLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.inner = h.inner.WithAttrs(attrs)
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), h.qualify(attrs)...)
	return &clone
}

// WithGroup implements slog.Handler.
func (h *ActivityLogHandler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.inner = h.inner.WithGroup(name)
	if name != "" {
		if clone.group != "" {
			clone.group += "." + name
		} else {
			clone.group = name
		}
	}
	return &clone
}

func (h *ActivityLogHandler) qualify(attrs []slog.Attr) []slog.Attr {
	if h.group == "" {
		return attrs
	}
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = slog.Attr{Key: h.group + "." + a.Key, Value: a.Value}
	}
	return out
}

// mirror writes r to the activity log. It runs detached from the caller's
// cancellation so entries survive a finished request. Failures are dropped:
// logging them here would recurse.
func (h *ActivityLogHandler) mirror(ctx context.Context, r slog.Record) {
	attrs := append([]slog.Attr(nil), h.attrs...)
	var own []slog.Attr
	r.Attrs(func(a slog.Attr) bool {
		own = append(own, a)
		return true
	})
	attrs = append(attrs, h.qualify(own)...)

	entityType := ""
	details := map[string]string{"level": r.Level.String()}
	for _, a := range attrs {
		if a.Key == EntityTypeKey {
			entityType = a.Value.String()
			continue
		}
		details[a.Key] = a.Value.String()
	}
	if entityType == "" {
		entityType = inferEntityType(r.Message)
	}

	data, err := json.Marshal(details)
	if err != nil {
		data = []byte("{}")
	}

	_ = h.recorder.Record(context.WithoutCancel(ctx), service.ActivityEntry{
		Action:     r.Message,
		EntityType: entityType,
		Details:    string(data),
	})
}

// inferEntityType guesses the entity from keywords in the log message.
func inferEntityType(msg string) string {
	msg = strings.ToLower(msg)
	switch {
	case strings.Contains(msg, "section"):
		return model.EntitySection
	case strings.Contains(msg, "page"):
		return model.EntityPage
	case strings.Contains(msg, "template"):
		return model.EntityTemplate
	case strings.Contains(msg, "lead"):
		return model.EntityLead
	case strings.Contains(msg, "post"):
		return model.EntityPost
	default:
		return model.EntitySystem
	}
}
