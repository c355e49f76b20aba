// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"net/url"
	"strings"
)

// MaxOutboundURLLength is the maximum allowed length for a notification URL.
const MaxOutboundURLLength = 2048

// reservedPrefixes are loopback, private, link-local and documentation ranges.
var reservedPrefixes = []netip.Prefix{
	netip.MustParsePrefix("0.0.0.0/8"),
	netip.MustParsePrefix("10.0.0.0/8"),
	netip.MustParsePrefix("100.64.0.0/10"),
	netip.MustParsePrefix("127.0.0.0/8"),
	netip.MustParsePrefix("169.254.0.0/16"),
	netip.MustParsePrefix("172.16.0.0/12"),
	netip.MustParsePrefix("192.0.0.0/24"),
	netip.MustParsePrefix("192.0.2.0/24"),
	netip.MustParsePrefix("192.168.0.0/16"),
	netip.MustParsePrefix("198.18.0.0/15"),
	netip.MustParsePrefix("198.51.100.0/24"),
	netip.MustParsePrefix("203.0.113.0/24"),
	netip.MustParsePrefix("224.0.0.0/4"),
	netip.MustParsePrefix("240.0.0.0/4"),
	netip.MustParsePrefix("::/128"),
	netip.MustParsePrefix("::1/128"),
	netip.MustParsePrefix("fc00::/7"),
	netip.MustParsePrefix("fe80::/10"),
}

// IsPrivateIP reports whether addr is in a private or reserved range.
// Invalid addresses count as private.
func IsPrivateIP(addr netip.Addr) bool {
	if !addr.IsValid() {
		return true
	}
	addr = addr.Unmap()
	for _, p := range reservedPrefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// ValidateOutboundURL checks that rawURL is an absolute http(s) URL that
// does not name localhost or a literal private address. Hostnames are not
// resolved here; SSRFSafeDialContext guards the actual connection.
func ValidateOutboundURL(rawURL string) error {
	if len(rawURL) > MaxOutboundURLLength {
		return fmt.Errorf("URL exceeds maximum length of %d characters", MaxOutboundURLLength)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL must use http or https scheme")
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return fmt.Errorf("URL must have a hostname")
	}
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return fmt.Errorf("localhost URLs are not allowed")
	}
	if addr, err := netip.ParseAddr(host); err == nil && IsPrivateIP(addr) {
		return fmt.Errorf("private or reserved IP addresses are not allowed")
	}
	return nil
}

// SSRFSafeDialContext returns a DialContext function that refuses to connect
// to private or reserved addresses. The resolved address is dialed directly
// so a second DNS answer cannot swap it.
func SSRFSafeDialContext(dialer *net.Dialer) func(ctx context.Context, network, addr string) (net.Conn, error) {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid address %q: %w", addr, err)
		}

		ips, err := net.DefaultResolver.LookupNetIP(ctx, "ip", host)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %q: %w", host, err)
		}
		for _, ip := range ips {
			if IsPrivateIP(ip) {
				return nil, fmt.Errorf("connection to private IP %s (resolved from %q) is blocked", ip, host)
			}
		}

		err = fmt.Errorf("no addresses for %q", host)
		for _, ip := range ips {
			conn, dialErr := dialer.DialContext(ctx, network, net.JoinHostPort(ip.Unmap().String(), port))
			if dialErr == nil {
				return conn, nil
			}
			err = dialErr
		}
		return nil, fmt.Errorf("failed to connect to %q: %w", host, err)
	}
}
