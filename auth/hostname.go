// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package auth

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// Hostname is a host, with an optional port, in the form used to look up
// credentials. Values are produced by [ForComparison] or [HostnameOf] so
// that two spellings of the same host compare equal.
type Hostname string

// ForComparison returns the comparison form of the given host: lowercase,
// IDNA-encoded and without a default port for https.
//
// Hosts that are not valid DNS names, such as "my_service", are lowercased
// rather than rejected. IP literals are kept as given.
func ForComparison(given string) (Hostname, error) {
	host, port := given, ""
	if h, p, err := net.SplitHostPort(given); err == nil {
		host, port = h, p
	}
	host = strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
	if host == "" {
		return "", fmt.Errorf("empty hostname")
	}

	if net.ParseIP(host) == nil {
		ascii, err := idna.Lookup.ToASCII(host)
		if err != nil {
			if !isASCII(host) {
				return "", fmt.Errorf("invalid hostname %q: %w", given, err)
			}
			ascii = strings.ToLower(host)
		}
		host = ascii
	}

	if port == "" || port == "443" {
		if strings.Contains(host, ":") {
			return Hostname("[" + host + "]"), nil
		}
		return Hostname(host), nil
	}
	return Hostname(net.JoinHostPort(host, port)), nil
}

// HostnameOf returns the comparison form of the host that u refers to.
func HostnameOf(u *url.URL) (Hostname, error) {
	if u == nil || u.Host == "" {
		return "", fmt.Errorf("URL has no host")
	}
	return ForComparison(u.Host)
}

// ForDisplay returns the host in its Unicode form, for messages.
func (h Hostname) ForDisplay() string {
	host, port := string(h), ""
	if hh, p, err := net.SplitHostPort(string(h)); err == nil {
		host, port = hh, p
	}
	if display, err := idna.Display.ToUnicode(host); err == nil {
		host = display
	}
	if port != "" {
		return net.JoinHostPort(host, port)
	}
	return host
}

func (h Hostname) String() string {
	return string(h)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
