// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package search

import (
	"net/url"
	"strings"
)

// Entry is a single key/value pair in a [Query].
type Entry struct {
	Key   string
	Value string
}

// Query is an ordered list of query string entries. Unlike [url.Values] it
// remembers the position of every entry, so that replacing the value of an
// existing key keeps it where it was.
//
// The zero value is an empty query ready to use.
type Query struct {
	entries []Entry
}

// ParseQuery decodes a raw query string (without the leading "?") using form
// decoding: "+" is a space, and percent escapes that are not valid are kept
// as written rather than causing an error.
func ParseQuery(raw string) Query {
	var q Query
	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}
		k, v, _ := strings.Cut(part, "=")
		q.entries = append(q.entries, Entry{
			Key:   decodeComponent(k),
			Value: decodeComponent(v),
		})
	}
	return q
}

// Len returns the number of entries, counting repeated keys separately.
func (q *Query) Len() int {
	return len(q.entries)
}

// Get returns the value of the first entry with the given key.
func (q *Query) Get(key string) (string, bool) {
	for _, e := range q.entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

// Has reports whether at least one entry has the given key.
func (q *Query) Has(key string) bool {
	_, ok := q.Get(key)
	return ok
}

// Set gives key the single value v. The first existing entry for key is
// updated in place and any later ones are removed; if there is no entry
// then one is appended.
func (q *Query) Set(key, v string) {
	found := false
	kept := q.entries[:0]
	for _, e := range q.entries {
		if e.Key == key {
			if found {
				continue
			}
			e.Value = v
			found = true
		}
		kept = append(kept, e)
	}
	q.entries = kept
	if !found {
		q.entries = append(q.entries, Entry{Key: key, Value: v})
	}
}

// Append adds a new entry without touching existing ones.
func (q *Query) Append(key, v string) {
	q.entries = append(q.entries, Entry{Key: key, Value: v})
}

// Del removes every entry with the given key.
func (q *Query) Del(key string) {
	kept := q.entries[:0]
	for _, e := range q.entries {
		if e.Key != key {
			kept = append(kept, e)
		}
	}
	q.entries = kept
}

// Keys returns the distinct keys in order of first appearance.
func (q *Query) Keys() []string {
	var ret []string
	seen := map[string]struct{}{}
	for _, e := range q.entries {
		if _, ok := seen[e.Key]; ok {
			continue
		}
		seen[e.Key] = struct{}{}
		ret = append(ret, e.Key)
	}
	return ret
}

// Entries returns a copy of the entries in order.
func (q *Query) Entries() []Entry {
	if len(q.entries) == 0 {
		return nil
	}
	ret := make([]Entry, len(q.entries))
	copy(ret, q.entries)
	return ret
}

// Encode serializes the entries in order, form-encoding keys and values.
func (q *Query) Encode() string {
	var b strings.Builder
	for i, e := range q.entries {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(e.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(e.Value))
	}
	return b.String()
}

func decodeComponent(s string) string {
	s = strings.ReplaceAll(s, "+", " ")
	if !strings.Contains(s, "%") {
		return s
	}
	if decoded, err := url.PathUnescape(s); err == nil {
		return decoded
	}

	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			b = append(b, unhex(s[i+1])<<4|unhex(s[i+2]))
			i += 2
			continue
		}
		b = append(b, s[i])
	}
	return string(b)
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
