// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package compose

import (
	"net/url"

	"github.com/opentofu/routeurl"
	"github.com/opentofu/routeurl/internal/urlref"
	"github.com/opentofu/routeurl/search"
)

// Config is the hydration applied once when a [URL] is constructed.
type Config struct {
	// Pathname is the route template. If empty, the path of the URL being
	// constructed is used as the template.
	Pathname string

	RouteParams  any
	SearchParams any
	Options      []Option
}

// URL is a [url.URL] whose initial value may be produced by [Compose].
//
// Hydration happens only in [NewURL]. Afterwards a URL is an ordinary
// mutable value: assigning to Path, Host, RawQuery and the other fields is
// a plain edit, and [URL.String] reflects the current fields without
// applying the original template or parameters again.
type URL struct {
	url.URL

	config   *Config
	hydrated bool
}

// NewURL parses input, resolving it against base if base is not empty,
// and then, if cfg is not nil, composes the result with the given template
// and parameters using the parsed URL as the base.
//
// Without a base, input must be an absolute URL. A relative input is
// treated as a path with optional query and fragment, so it may begin with
// a placeholder such as ":id".
func NewURL(input, base string, cfg *Config) (*URL, error) {
	parsed, err := parseInput(input, base)
	if err != nil {
		return nil, err
	}

	ret := &URL{URL: *parsed}
	if cfg == nil {
		return ret, nil
	}

	captured := *cfg
	ret.config = &captured

	pathname := captured.Pathname
	if pathname == "" {
		pathname = ret.EscapedPath()
	}
	composed, err := Compose(Input{
		BaseURL:      &ret.URL,
		Pathname:     pathname,
		RouteParams:  captured.RouteParams,
		SearchParams: captured.SearchParams,
	}, captured.Options...)
	if err != nil {
		return nil, err
	}

	ret.URL = *composed
	ret.hydrated = true
	return ret, nil
}

func parseInput(input, base string) (*url.URL, error) {
	if base == "" {
		return ParseBase(input)
	}
	if u, err := url.Parse(input); err == nil && u.Scheme != "" {
		return ParseBase(input)
	}

	b, err := ParseBase(base)
	if err != nil {
		return nil, err
	}
	ref, err := urlref.Reference(input)
	if err != nil {
		return nil, routeurl.NewBaseURLInvalid(input, err)
	}
	return b.ResolveReference(ref), nil
}

// String reassembles the URL from its current fields.
func (u *URL) String() string {
	return u.URL.String()
}

// Hydrated reports whether construction composed the URL from a [Config].
func (u *URL) Hydrated() bool {
	return u.hydrated
}

// Config returns a copy of the configuration given to [NewURL], and false if
// there was none.
func (u *URL) Config() (Config, bool) {
	if u.config == nil {
		return Config{}, false
	}
	return *u.config, true
}

// SearchParams returns the entries of the current query in order. Changes
// to the result do not affect u; use [URL.SetSearchParams] to store them.
func (u *URL) SearchParams() search.Query {
	return search.ParseQuery(u.RawQuery)
}

// SetSearchParams replaces the query with the given entries.
func (u *URL) SetSearchParams(q search.Query) {
	u.RawQuery = q.Encode()
}

// SetSearchParam gives key the single value v, keeping the position of its
// first existing entry.
func (u *URL) SetSearchParam(key, v string) {
	q := u.SearchParams()
	q.Set(key, v)
	u.SetSearchParams(q)
}

// DeleteSearchParam removes every query entry with the given key.
func (u *URL) DeleteSearchParam(key string) {
	q := u.SearchParams()
	q.Del(key)
	u.SetSearchParams(q)
}
