// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"context"
	"net"
	"net/netip"
	"strings"
	"testing"
)

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		name    string
		ip      string
		private bool
	}{
		{"loopback", "127.0.0.1", true},
		{"10.x.x.x", "10.0.0.1", true},
		{"172.16.x.x", "172.16.0.1", true},
		{"172.31.x.x", "172.31.255.255", true},
		{"192.168.x.x", "192.168.1.1", true},
		{"link-local", "169.254.1.1", true},
		{"this network", "0.0.0.0", true},
		{"CGNAT", "100.64.0.1", true},
		{"documentation 203", "203.0.113.1", true},
		{"multicast", "224.0.0.1", true},
		{"v4-mapped loopback", "::ffff:127.0.0.1", true},

		{"public cloudflare", "1.1.1.1", false},
		{"public google", "8.8.8.8", false},
		{"172.15.x.x public", "172.15.255.255", false},
		{"172.32.x.x public", "172.32.0.1", false},

		{"ipv6 loopback", "::1", true},
		{"ipv6 link-local", "fe80::1", true},
		{"ipv6 unique-local", "fd00::1", true},
		{"ipv6 public", "2606:4700::1111", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, err := netip.ParseAddr(tt.ip)
			if err != nil {
				t.Fatalf("failed to parse IP %q: %v", tt.ip, err)
			}
			if got := IsPrivateIP(addr); got != tt.private {
				t.Errorf("IsPrivateIP(%s) = %v, want %v", tt.ip, got, tt.private)
			}
		})
	}
}

func TestIsPrivateIP_Invalid(t *testing.T) {
	if !IsPrivateIP(netip.Addr{}) {
		t.Error("IsPrivateIP(zero Addr) should return true (deny by default)")
	}
}

func TestValidateOutboundURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr string
	}{
		{name: "valid https", url: "https://hooks.example.com/landing"},
		{name: "valid http with port", url: "http://hooks.example.com:8080/in"},
		{name: "ftp scheme", url: "ftp://example.com/x", wantErr: "http or https"},
		{name: "no host", url: "https:///path", wantErr: "hostname"},
		{name: "localhost", url: "http://localhost:9000/hook", wantErr: "localhost"},
		{name: "localhost subdomain", url: "http://api.localhost/hook", wantErr: "localhost"},
		{name: "private literal", url: "http://192.168.0.10/hook", wantErr: "private"},
		{name: "ipv6 loopback literal", url: "http://[::1]/hook", wantErr: "private"},
		{name: "too long", url: "https://example.com/" + strings.Repeat("a", MaxOutboundURLLength), wantErr: "maximum length"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutboundURL(tt.url)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ValidateOutboundURL(%q) = %v, want nil", tt.url, err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ValidateOutboundURL(%q) = %v, want error containing %q", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestSSRFSafeDialContext_BlocksLoopback(t *testing.T) {
	dial := SSRFSafeDialContext(&net.Dialer{})
	conn, err := dial(context.Background(), "tcp", "127.0.0.1:80")
	if err == nil {
		_ = conn.Close()
		t.Fatal("expected loopback dial to be blocked")
	}
	if !strings.Contains(err.Error(), "blocked") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSSRFSafeDialContext_BadAddress(t *testing.T) {
	dial := SSRFSafeDialContext(&net.Dialer{})
	if _, err := dial(context.Background(), "tcp", "no-port"); err == nil {
		t.Error("expected error for address without port")
	}
}
