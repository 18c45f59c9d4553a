// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

// Package compose builds absolute URLs from a base URL, a route template with
// its parameters, and a bag of query parameters.
//
// The base URL contributes the scheme, userinfo and host, plus any query and
// fragment it already has. Its path is replaced by the hydrated template.
// Query parameters are then merged into the base URL's query, replacing
// existing entries with the same key.
package compose

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"

	"github.com/opentofu/routeurl"
	"github.com/opentofu/routeurl/internal/urlref"
	"github.com/opentofu/routeurl/route"
	"github.com/opentofu/routeurl/search"
)

// Input describes the URL to compose.
type Input struct {
	// BaseURL must be an absolute URL, given as a string, a *url.URL, a
	// url.URL, a *URL or any other fmt.Stringer.
	BaseURL any

	// Pathname is the route template. It defaults to "/".
	Pathname string

	// RouteParams and SearchParams are parameter bags, as accepted by
	// [routeurl.ParamsOf]. Both default to empty.
	RouteParams  any
	SearchParams any
}

var defaultPorts = map[string]string{
	"ftp":   "21",
	"http":  "80",
	"https": "443",
	"ws":    "80",
	"wss":   "443",
}

// Compose hydrates in.Pathname with in.RouteParams, uses the result as the
// path of in.BaseURL, and then merges in.SearchParams into its query.
//
// The only error specific to this function is [routeurl.ErrBaseURLInvalid];
// other errors come from validating the parameter bags.
func Compose(in Input, opts ...Option) (*url.URL, error) {
	base, err := ParseBase(in.BaseURL)
	if err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt.applyOption(&o)
	}

	pathname := in.Pathname
	if pathname == "" {
		pathname = "/"
	}
	routeParams := in.RouteParams
	if routeParams == nil {
		routeParams = routeurl.Params{}
	}

	hydratedPath, err := route.Hydrate(pathname, routeParams, route.AllowNull(o.allowRouteParamNulls))
	if err != nil {
		return nil, err
	}
	if err := urlref.SetEscapedPath(base, hydratedPath); err != nil {
		return nil, routeurl.NewInvalidParameterType("pathname", "URL path", err)
	}

	hydrated, err := search.Hydrate(urlref.Relative(base), in.SearchParams, search.AllowNull(o.allowSearchParamNulls))
	if err != nil {
		return nil, err
	}

	root := urlref.Root(base)
	ret, err := url.Parse(root + hydrated)
	if err != nil {
		return nil, routeurl.NewBaseURLInvalid(root, err)
	}
	return ret, nil
}

// ParseBase validates that base is an absolute, hierarchical URL and returns
// it parsed, with its host converted to the IDNA lookup form and any default
// port for its scheme removed.
func ParseBase(base any) (*url.URL, error) {
	var raw string
	switch b := base.(type) {
	case string:
		raw = b
	case *URL:
		if b == nil {
			return nil, routeurl.NewBaseURLInvalid("<nil>", nil)
		}
		raw = b.String()
	case *url.URL:
		if b == nil {
			return nil, routeurl.NewBaseURLInvalid("<nil>", nil)
		}
		raw = b.String()
	case url.URL:
		raw = b.String()
	case fmt.Stringer:
		raw = b.String()
	default:
		return nil, routeurl.NewBaseURLInvalid(fmt.Sprint(base), fmt.Errorf("unsupported type %T", base))
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, routeurl.NewBaseURLInvalid(raw, err)
	}
	if u.Scheme == "" || u.Opaque != "" {
		return nil, routeurl.NewBaseURLInvalid(raw, nil)
	}
	if u.Host == "" && u.Scheme != "file" {
		return nil, routeurl.NewBaseURLInvalid(raw, errors.New("missing host"))
	}

	host, err := normalizeHost(u)
	if err != nil {
		return nil, routeurl.NewBaseURLInvalid(raw, err)
	}
	u.Host = host
	return u, nil
}

func normalizeHost(u *url.URL) (string, error) {
	port := u.Port()
	if port != "" && port == defaultPorts[u.Scheme] {
		port = ""
	}

	// IP literals are kept as written.
	if strings.HasPrefix(u.Host, "[") {
		if port == "" {
			return strings.TrimSuffix(u.Host, ":"+u.Port()), nil
		}
		return u.Host, nil
	}

	hostname := u.Hostname()
	if hostname != "" {
		ascii, err := idna.Lookup.ToASCII(hostname)
		switch {
		case err == nil:
			hostname = ascii
		case isASCII(hostname):
			// Names such as "my_service" are fine for HTTP even though
			// they are not valid DNS labels.
			hostname = strings.ToLower(hostname)
		default:
			return "", err
		}
	}

	if port == "" {
		return hostname, nil
	}
	return net.JoinHostPort(hostname, port), nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
