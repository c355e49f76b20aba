// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"
)

// DefaultTelegramAPI is the Bot API base URL.
const DefaultTelegramAPI = "https://api.telegram.org"

// TelegramSinkOptions configures a TelegramSink.
type TelegramSinkOptions struct {
	Token  string
	ChatID string
	// APIBase overrides DefaultTelegramAPI.
	APIBase string
	// PublicBaseURL is used to build page links in messages.
	PublicBaseURL string
	Client        *http.Client
}

// TelegramSink sends a formatted message to one chat through the Bot API.
type TelegramSink struct {
	token   string
	chatID  string
	apiBase string
	baseURL string
	client  *http.Client
}

// NewTelegramSink creates a Telegram sink.
func NewTelegramSink(opts TelegramSinkOptions) *TelegramSink {
	if opts.APIBase == "" {
		opts.APIBase = DefaultTelegramAPI
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: 15 * time.Second}
	}
	return &TelegramSink{
		token:   opts.Token,
		chatID:  opts.ChatID,
		apiBase: strings.TrimRight(opts.APIBase, "/"),
		baseURL: strings.TrimRight(opts.PublicBaseURL, "/"),
		client:  opts.Client,
	}
}

// Name implements Sink.
func (s *TelegramSink) Name() string { return "telegram" }

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Send implements Sink. Events without a message format are ignored.
func (s *TelegramSink) Send(ctx context.Context, event *Event) error {
	text := s.FormatMessage(event)
	if text == "" {
		return nil
	}

	body, err := json.Marshal(telegramMessage{ChatID: s.chatID, Text: text, ParseMode: "HTML"})
	if err != nil {
		return fmt.Errorf("marshaling telegram message: %w", err)
	}

	url := s.apiBase + "/bot" + s.token + "/sendMessage"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		// The request URL carries the bot token; keep it out of logs.
		return fmt.Errorf("sending telegram message: %w", redactToken(err, s.token))
	}
	defer func() { _ = resp.Body.Close() }()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, MaxResponseLen))
	var tr telegramResponse
	_ = json.Unmarshal(raw, &tr)
	if resp.StatusCode != http.StatusOK || !tr.OK {
		return fmt.Errorf("telegram API returned HTTP %d: %s", resp.StatusCode, tr.Description)
	}
	return nil
}

// FormatMessage renders event as Telegram HTML. User-supplied values are escaped.
func (s *TelegramSink) FormatMessage(event *Event) string {
	ts := event.Timestamp.UTC().Format("2006-01-02 15:04:05")

	switch data := event.Data.(type) {
	case PageEventData:
		var b strings.Builder
		b.WriteString("✅ <b>Page Published Successfully!</b>\n\n")
		fmt.Fprintf(&b, "📄 Page: %s\n", html.EscapeString(data.Title))
		fmt.Fprintf(&b, "🔗 URL: %s\n", html.EscapeString(s.pageURL(data.Slug)))
		fmt.Fprintf(&b, "🕐 Published: %s UTC\n\n", ts)
		b.WriteString("Your landing page is now live!")
		return b.String()

	case LeadEventData:
		var b strings.Builder
		b.WriteString("🎯 <b>New Lead Received!</b>\n\n")
		fmt.Fprintf(&b, "📄 Page: %s\n", html.EscapeString(data.PageTitle))
		fmt.Fprintf(&b, "🕐 Time: %s UTC\n\n", ts)
		writeFields(&b, data.Data)
		b.WriteString("\nFollow up with this lead as soon as possible!")
		return b.String()

	case FormEventData:
		var b strings.Builder
		b.WriteString("📝 <b>New Form Submission!</b>\n\n")
		fmt.Fprintf(&b, "📋 Form: %s\n", html.EscapeString(data.FormName))
		fmt.Fprintf(&b, "🕐 Time: %s UTC\n\n", ts)
		writeFields(&b, data.Data)
		return b.String()
	}
	return ""
}

// writeFields lists submitted values sorted by field name.
func writeFields(b *strings.Builder, fields map[string]string) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b.WriteString("<b>Form Data:</b>\n")
	for _, k := range keys {
		fmt.Fprintf(b, "• <b>%s:</b> %s\n", html.EscapeString(k), html.EscapeString(fields[k]))
	}
}

func (s *TelegramSink) pageURL(slug string) string {
	return s.baseURL + "/view/" + slug
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }

func redactToken(err error, token string) error {
	if token == "" {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(err.Error(), token, "<redacted>"), err: err}
}
