// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package notify

import (
	"context"
	"log/slog"
)

// LogSink writes every event to a logger. It is the fallback when no
// outbound sink is configured.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a log sink.
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

// Name implements Sink.
func (s *LogSink) Name() string { return "log" }

// Send implements Sink.
func (s *LogSink) Send(ctx context.Context, event *Event) error {
	s.logger.InfoContext(ctx, "notification",
		"event_type", event.Type,
		"timestamp", event.Timestamp,
		"data", event.Data)
	return nil
}
