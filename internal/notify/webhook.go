// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package notify

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/olegiv/landing-cms/internal/util"
)

// Webhook headers and limits
const (
	SignatureHeader = "X-Webhook-Signature"
	EventHeader     = "X-Webhook-Event"
	UserAgent       = "LandingCMS/1.0"
	MaxResponseLen  = 10 * 1024
)

// WebhookSinkOptions configures a WebhookSink.
type WebhookSinkOptions struct {
	URL    string
	Secret string

	// MaxAttempts bounds delivery attempts per event (default 3).
	MaxAttempts int
	// InitialBackoff doubles after each failed attempt up to MaxBackoff.
	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	// Client overrides the HTTP client. The default refuses private addresses.
	Client *http.Client
}

// WebhookSink POSTs each event as signed JSON to a single URL.
type WebhookSink struct {
	url            string
	secret         string
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	client         *http.Client
}

// NewWebhookSink creates a webhook sink.
func NewWebhookSink(opts WebhookSinkOptions) *WebhookSink {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.InitialBackoff <= 0 {
		opts.InitialBackoff = time.Second
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = 30 * time.Second
	}
	if opts.Client == nil {
		opts.Client = safeHTTPClient()
	}

	return &WebhookSink{
		url:            opts.URL,
		secret:         opts.Secret,
		maxAttempts:    opts.MaxAttempts,
		initialBackoff: opts.InitialBackoff,
		maxBackoff:     opts.MaxBackoff,
		client:         opts.Client,
	}
}

func safeHTTPClient() *http.Client {
	dialer := &net.Dialer{Timeout: 10 * time.Second}
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			DialContext:         util.SSRFSafeDialContext(dialer),
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 5,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// Name implements Sink.
func (s *WebhookSink) Name() string { return "webhook" }

// deliveryResult is the outcome of one HTTP attempt.
type deliveryResult struct {
	statusCode  int
	err         error
	shouldRetry bool
}

// Send implements Sink. It retries network errors, 5xx, 408 and 429
// responses with exponential backoff until MaxAttempts is reached.
func (s *WebhookSink) Send(ctx context.Context, event *Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}

	var last deliveryResult
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		last = s.attempt(ctx, event.Type, payload)
		if last.err == nil {
			return nil
		}
		if !last.shouldRetry || attempt == s.maxAttempts {
			break
		}

		timer := time.NewTimer(s.backoff(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("webhook delivery cancelled after %d attempts: %w", attempt, ctx.Err())
		case <-timer.C:
		}
	}
	return fmt.Errorf("webhook delivery failed: %w", last.err)
}

func (s *WebhookSink) attempt(ctx context.Context, eventType string, payload []byte) deliveryResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return deliveryResult{err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set(EventHeader, eventType)
	if s.secret != "" {
		req.Header.Set(SignatureHeader, GenerateSignature(payload, s.secret))
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return deliveryResult{err: fmt.Errorf("request failed: %w", err), shouldRetry: true}
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, MaxResponseLen))

	code := resp.StatusCode
	switch {
	case code >= 200 && code < 300:
		return deliveryResult{statusCode: code}
	case code >= 400 && code < 500:
		return deliveryResult{
			statusCode:  code,
			err:         fmt.Errorf("HTTP %d: %s", code, http.StatusText(code)),
			shouldRetry: code == http.StatusRequestTimeout || code == http.StatusTooManyRequests,
		}
	default:
		return deliveryResult{
			statusCode:  code,
			err:         fmt.Errorf("HTTP %d: %s", code, http.StatusText(code)),
			shouldRetry: true,
		}
	}
}

// backoff returns the wait after the given failed attempt (1-based).
func (s *WebhookSink) backoff(attempt int) time.Duration {
	d := s.initialBackoff
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= s.maxBackoff {
			return s.maxBackoff
		}
	}
	return d
}

// GenerateSignature generates an HMAC-SHA256 signature for the payload.
func GenerateSignature(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature verifies an HMAC-SHA256 signature.
func VerifySignature(payload []byte, signature, secret string) bool {
	expected := GenerateSignature(payload, secret)
	return hmac.Equal([]byte(signature), []byte(expected))
}
