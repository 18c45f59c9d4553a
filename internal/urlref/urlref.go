// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

// Package urlref parses path-shaped URL references (a path with an optional
// query and fragment) and reassembles them, which is the common ground of
// the route and query hydrators.
//
// A reference is always resolved against a neutral placeholder base, so a
// leading "//" or a "name:" prefix is never taken as an authority or a
// scheme: every reference handled here is a path.
package urlref

import (
	"net/url"
	"strings"
)

var placeholderBase = &url.URL{Scheme: "http", Host: "placehold.er", Path: "/"}

// Parse splits ref into path, query and fragment and resolves the path
// against the placeholder base, so that the result always has an absolute
// path with dot segments removed.
//
// The query and fragment are kept as written, except that bytes which are
// never valid in a query are percent-encoded.
func Parse(ref string) (*url.URL, error) {
	u, err := Reference(ref)
	if err != nil {
		return nil, err
	}
	return placeholderBase.ResolveReference(u), nil
}

// Reference is like [Parse] but leaves the path unresolved, for callers
// that resolve it against a base URL of their own.
func Reference(ref string) (*url.URL, error) {
	rest, fragment, hasFragment := strings.Cut(ref, "#")
	rest, query, _ := strings.Cut(rest, "?")

	u := &url.URL{RawQuery: escapeQuery(query)}
	if err := SetEscapedPath(u, rest); err != nil {
		return nil, err
	}
	if hasFragment {
		u.RawFragment = fragment
		if unescaped, err := url.PathUnescape(fragment); err == nil {
			u.Fragment = unescaped
		} else {
			u.Fragment = fragment
		}
	}
	return u, nil
}

// Relative returns the path, query and fragment of u as a single string,
// with everything before the path (scheme, userinfo, host) left out.
func Relative(u *url.URL) string {
	var b strings.Builder
	p := u.EscapedPath()
	if p == "" {
		p = "/"
	}
	b.WriteString(p)
	if u.RawQuery != "" {
		b.WriteByte('?')
		b.WriteString(u.RawQuery)
	}
	if u.Fragment != "" || u.RawFragment != "" {
		b.WriteByte('#')
		b.WriteString(u.EscapedFragment())
	}
	return b.String()
}

// Root returns the scheme, userinfo and host of u, which is everything that
// [Relative] leaves out.
func Root(u *url.URL) string {
	var b strings.Builder
	b.WriteString(u.Scheme)
	b.WriteString("://")
	if u.User != nil {
		b.WriteString(u.User.String())
		b.WriteByte('@')
	}
	b.WriteString(u.Host)
	return b.String()
}

// SetEscapedPath replaces the path of u with the given percent-encoded
// path. Literal "?" and "#" are encoded so that they stay part of the path,
// and a "%" that does not start an escape sequence is encoded as "%25".
func SetEscapedPath(u *url.URL, escaped string) error {
	escaped = escapeStrayPercent(pathSeparatorEscaper.Replace(escaped))
	p, err := url.PathUnescape(escaped)
	if err != nil {
		return err
	}
	u.Path = p
	u.RawPath = escaped
	return nil
}

var pathSeparatorEscaper = strings.NewReplacer("?", "%3F", "#", "%23")

func escapeStrayPercent(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i := 0; i < len(s); i++ {
		b.WriteByte(s[i])
		if s[i] == '%' && (i+2 >= len(s) || !isHex(s[i+1]) || !isHex(s[i+2])) {
			b.WriteString("25")
		}
	}
	return b.String()
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

// EscapeComponent percent-encodes s for use as a single path segment or
// query value. Spaces become "%20".
func EscapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func escapeQuery(q string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder
	for i := 0; i < len(q); i++ {
		c := q[i]
		if c <= ' ' || c == '"' || c == '<' || c == '>' || c >= 0x7f {
			if b.Len() == 0 {
				b.Grow(len(q) + 8)
				b.WriteString(q[:i])
			}
			b.WriteByte('%')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&0x0f])
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(c)
		}
	}
	if b.Len() == 0 {
		return q
	}
	return b.String()
}
