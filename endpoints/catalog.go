// Copyright (c) The OpenTofu Authors
// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package endpoints

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	version "github.com/hashicorp/go-version"
	"gopkg.in/yaml.v3"

	"github.com/opentofu/routeurl/compose"
	"github.com/opentofu/routeurl/internal/urlref"
)

// Catalog is a set of service base URLs published by a host, keyed by
// service identifiers of the form "name.vN".
type Catalog struct {
	docURL   *url.URL
	hostname string
	services map[string]any
}

// ErrServiceNotProvided is returned when the service is not provided.
type ErrServiceNotProvided struct {
	hostname string
	service  string
}

// Error returns a customized error message.
func (e *ErrServiceNotProvided) Error() string {
	if e.hostname == "" {
		return fmt.Sprintf("host does not provide a %s service", e.service)
	}
	return fmt.Sprintf("host %s does not provide a %s service", e.hostname, e.service)
}

// ErrVersionNotSupported is returned when the service is provided, but not
// in the requested version.
type ErrVersionNotSupported struct {
	hostname    string
	service     string
	version     uint64
	constraints string
}

// Error returns a customized error message.
func (e *ErrVersionNotSupported) Error() string {
	want := fmt.Sprintf("version %d", e.version)
	if e.constraints != "" {
		want = fmt.Sprintf("a version matching %q", e.constraints)
	}
	if e.hostname == "" {
		return fmt.Sprintf("host does not support %s %s", e.service, want)
	}
	return fmt.Sprintf("host %s does not support %s %s", e.hostname, e.service, want)
}

// NewCatalog returns a catalog of the given services. Relative service URLs
// are resolved against docURL, which may be nil if all of them are
// absolute.
func NewCatalog(docURL *url.URL, services map[string]any) *Catalog {
	if services == nil {
		services = map[string]any{}
	}
	ret := &Catalog{docURL: docURL, services: services}
	if docURL != nil {
		ret.hostname = docURL.Hostname()
	}
	return ret
}

// ParseDocument decodes a services document, which is a single YAML or
// JSON object mapping service identifiers to URLs. An empty document is an
// empty catalog.
func ParseDocument(docURL *url.URL, data []byte) (*Catalog, error) {
	var services map[string]any
	if err := yaml.Unmarshal(data, &services); err != nil {
		return nil, fmt.Errorf("failed to decode services document as an object: %w", err)
	}
	return NewCatalog(docURL, services), nil
}

// Services returns the identifiers of all services in the catalog, sorted.
func (c *Catalog) Services() []string {
	if c == nil {
		return nil
	}
	ret := make([]string, 0, len(c.services))
	for id := range c.services {
		ret = append(ret, id)
	}
	sort.Strings(ret)
	return ret
}

// ServiceURL returns the URL associated with the given service identifier,
// which should be of the form "servicename.vN".
//
// A non-nil result is always an absolute URL with a scheme of either HTTPS
// or HTTP.
func (c *Catalog) ServiceURL(id string) (*url.URL, error) {
	svcName, major, err := parseServiceID(id)
	if err != nil {
		return nil, err
	}

	if c == nil || len(c.services) == 0 {
		return nil, &ErrServiceNotProvided{service: svcName}
	}

	urlStr, ok := c.services[id].(string)
	if !ok {
		// Another version of the same service means only the version is
		// missing.
		for serviceID := range c.services {
			if strings.HasPrefix(serviceID, svcName+".") {
				return nil, &ErrVersionNotSupported{
					hostname: c.hostname,
					service:  svcName,
					version:  major,
				}
			}
		}
		return nil, &ErrServiceNotProvided{hostname: c.hostname, service: svcName}
	}

	u, err := c.parseURL(urlStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service URL: %v", err)
	}
	return u, nil
}

// Latest returns the identifier of the highest version of the named
// service whose major version satisfies the given go-version constraint
// string, such as ">= 1, < 3". An empty constraint string accepts any
// version.
func (c *Catalog) Latest(name, constraints string) (string, error) {
	var want version.Constraints
	if constraints != "" {
		var err error
		want, err = version.NewConstraint(constraints)
		if err != nil {
			return "", fmt.Errorf("invalid version constraints: %w", err)
		}
	}

	var (
		bestID      string
		bestVersion *version.Version
		found       bool
	)
	for _, id := range c.Services() {
		svcName, major, err := parseServiceID(id)
		if err != nil || svcName != name {
			continue
		}
		found = true
		v, err := version.NewVersion(strconv.FormatUint(major, 10))
		if err != nil {
			continue
		}
		if want != nil && !want.Check(v) {
			continue
		}
		if bestVersion == nil || v.GreaterThan(bestVersion) {
			bestID, bestVersion = id, v
		}
	}

	if bestVersion != nil {
		return bestID, nil
	}
	var hostname string
	if c != nil {
		hostname = c.hostname
	}
	if found {
		return "", &ErrVersionNotSupported{hostname: hostname, service: name, constraints: constraints}
	}
	return "", &ErrServiceNotProvided{hostname: hostname, service: name}
}

// Compose composes a URL against the base URL of the given service. The
// BaseURL of in is ignored.
//
// An empty Pathname uses the path of the service URL as the template. A
// Pathname that does not begin with "/" is taken relative to the service
// URL, so "users/:id" under "https://api.example.com/v2/" yields a path
// under "/v2/".
func (c *Catalog) Compose(id string, in compose.Input, opts ...compose.Option) (*url.URL, error) {
	svc, err := c.ServiceURL(id)
	if err != nil {
		return nil, err
	}

	switch {
	case in.Pathname == "":
		in.Pathname = svc.EscapedPath()
	case !strings.HasPrefix(in.Pathname, "/"):
		ref, err := urlref.Reference(in.Pathname)
		if err != nil {
			return nil, fmt.Errorf("invalid pathname for service %s: %w", id, err)
		}
		in.Pathname = svc.ResolveReference(&url.URL{Path: ref.Path, RawPath: ref.RawPath}).EscapedPath()
	}
	in.BaseURL = svc
	return compose.Compose(in, opts...)
}

func (c *Catalog) parseURL(urlStr string) (*url.URL, error) {
	u, err := url.Parse(urlStr)
	if err != nil {
		return nil, err
	}

	// Make relative URLs absolute using our document URL.
	if !u.IsAbs() {
		if c.docURL == nil {
			return nil, fmt.Errorf("relative URL %s without a document URL", urlStr)
		}
		u = c.docURL.ResolveReference(u)
	}

	if u.Scheme != "https" && u.Scheme != "http" {
		return nil, fmt.Errorf("unsupported scheme %s", u.Scheme)
	}
	if u.User != nil {
		return nil, fmt.Errorf("embedded username/password information is not permitted")
	}

	// Fragment part is irrelevant, since we're not a browser.
	u.Fragment = ""
	u.RawFragment = ""

	return u, nil
}

func parseServiceID(id string) (string, uint64, error) {
	name, ver, ok := strings.Cut(id, ".")
	if !ok {
		return "", 0, fmt.Errorf("invalid service ID format (i.e. service.vN): %s", id)
	}

	if !strings.HasPrefix(ver, "v") {
		return "", 0, fmt.Errorf("invalid service version: must be \"v\" followed by an integer major version number")
	}
	major, err := strconv.ParseUint(ver[1:], 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid service version: %v", err)
	}

	return name, major, nil
}
