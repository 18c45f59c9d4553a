// Copyright (c) The OpenTofu Authors
// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package endpoints loads the base URLs of versioned services from a
// services document and composes request URLs against them.
//
// A services document is a JSON or YAML object whose keys are service identifiers
// of the form "name.vN" and whose values are absolute URLs or URLs relative
// to the document itself:
//
//	{
//	  "users.v1": "/api/v1/",
//	  "users.v2": "https://users.example.com/v2/"
//	}
package endpoints

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"sync"
	"time"

	cleanhttp "github.com/hashicorp/go-cleanhttp"

	"github.com/opentofu/routeurl/auth"
)

const (
	// Arbitrary-but-small number to prevent runaway redirect loops. This
	// is used only when the caller doesn't provide their own HTTP client.
	maxRedirects = 3

	// Arbitrary-but-small time limit to prevent hangs while fetching. This
	// is used only when the caller doesn't provide their own HTTP client.
	fetchTimeout = 11 * time.Second

	// 1MB - to prevent abusive services from using loads of our memory.
	maxDocBytes = 1 * 1024 * 1024

	acceptDocument = "application/json, application/yaml;q=0.9"
)

// documentMediaTypes are the Content-Type values accepted for a services
// document. All of them are decoded by [ParseDocument].
var documentMediaTypes = map[string]bool{
	"application/json":   true,
	"application/yaml":   true,
	"application/x-yaml": true,
	"text/yaml":          true,
}

// Resolver fetches services documents and caches the resulting catalogs
// by document URL to avoid repeated requests for the same information.
type Resolver struct {
	// must lock "mu" while interacting with this map
	cache map[string]*Catalog
	mu    sync.Mutex

	credsSrc   auth.CredentialsSource
	httpClient *http.Client
}

// ErrFetchNetworkRequest represents the error that occurs when a services
// document could not be requested because of a network problem.
type ErrFetchNetworkRequest struct {
	err error
}

func (e ErrFetchNetworkRequest) Error() string {
	return fmt.Sprintf("failed to request services document: %s", e.err)
}

// Unwrap returns another [error] value representing the underlying problem.
func (e ErrFetchNetworkRequest) Unwrap() error {
	return e.err
}

// New returns a new resolver initialized with the given options.
//
// Use [WithHTTPClient] to specify an HTTP client to use when fetching
// documents. If no client is provided then a pooled client from
// go-cleanhttp is used with a short timeout and redirect limit.
//
// Use [WithCredentials] to specify an [auth.CredentialsSource] that can
// provide credentials for the document host. If none is provided then all
// requests are made anonymously. Documents served over plain HTTP are
// always requested anonymously.
func New(opts ...Option) *Resolver {
	ret := &Resolver{
		cache: make(map[string]*Catalog),
	}
	for _, opt := range opts {
		opt.applyOption(ret)
	}

	if ret.httpClient == nil {
		ret.httpClient = defaultHTTPClient()
	}
	return ret
}

func defaultHTTPClient() *http.Client {
	client := cleanhttp.DefaultPooledClient()
	client.Timeout = fetchTimeout
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) > maxRedirects {
			return errors.New("too many redirects")
		}
		return nil
	}
	return client
}

// Fetch is a shortcut for creating a [Resolver] with the given options and
// fetching a single document with it.
func Fetch(ctx context.Context, docURL *url.URL, opts ...Option) (*Catalog, error) {
	return New(opts...).Fetch(ctx, docURL)
}

// Force provides a pre-defined set of services for a given document URL,
// which prevents the receiver from requesting that document. Relative
// service URLs are resolved against docURL as if the services had been
// fetched from it.
func (r *Resolver) Force(docURL *url.URL, services map[string]any) {
	r.mu.Lock()
	r.cache[docURL.String()] = NewCatalog(docURL, services)
	r.mu.Unlock()
}

// Fetch returns the catalog published at docURL, requesting it only if
// there is no cached result for the same URL.
//
// A 404 response produces a non-nil but empty catalog, so that callers
// report "host does not provide a ... service" regardless of whether the
// whole document or only one service is missing.
func (r *Resolver) Fetch(ctx context.Context, docURL *url.URL) (*Catalog, error) {
	if docURL == nil || !docURL.IsAbs() || docURL.Host == "" {
		return nil, fmt.Errorf("services document URL must be absolute")
	}
	key := docURL.String()
	trace := traceFromContext(ctx)

	r.mu.Lock()
	if catalog, cached := r.cache[key]; cached {
		r.mu.Unlock()
		trace.fetchCached(ctx, docURL)
		return catalog, nil
	}
	r.mu.Unlock()

	ctx = trace.fetchStart(ctx, docURL)
	catalog, err := r.fetch(ctx, docURL)
	if err != nil {
		trace.fetchFailure(ctx, docURL, err)
		return nil, err
	}
	trace.fetchSuccess(ctx, docURL)

	r.mu.Lock()
	r.cache[key] = catalog
	r.mu.Unlock()
	return catalog, nil
}

// ServiceURL is a convenience wrapper for fetching a document and then
// looking up a particular service in the result.
func (r *Resolver) ServiceURL(ctx context.Context, docURL *url.URL, serviceID string) (*url.URL, error) {
	catalog, err := r.Fetch(ctx, docURL)
	if err != nil {
		return nil, err
	}
	return catalog.ServiceURL(serviceID)
}

// fetch must be called without r.mu locked. Concurrent fetches of the same
// document are allowed and the last one to finish is cached.
func (r *Resolver) fetch(ctx context.Context, docURL *url.URL) (*Catalog, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, docURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("invalid services document request: %w", err)
	}
	req.Header.Set("Accept", acceptDocument)

	if r.credsSrc != nil && docURL.Scheme == "https" {
		if host, err := auth.HostnameOf(docURL); err == nil {
			// Failing to obtain credentials means an anonymous request.
			if creds, err := r.credsSrc.ForHost(ctx, host); err == nil && creds != nil {
				creds.PrepareRequest(req)
			}
		}
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, ErrFetchNetworkRequest{err}
	}
	defer resp.Body.Close()

	// Use the URL from resp.Request in case the client followed any
	// redirects.
	finalURL := resp.Request.URL

	if resp.StatusCode == http.StatusNotFound {
		return NewCatalog(finalURL, nil), nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to request services document: %s", resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, fmt.Errorf("services document has a malformed Content-Type %q", contentType)
	}
	if !documentMediaTypes[mediaType] {
		return nil, fmt.Errorf("services document has an unsupported Content-Type %q", mediaType)
	}

	// This doesn't catch chunked encoding, because ContentLength is -1 in that case.
	if resp.ContentLength > maxDocBytes {
		return nil, fmt.Errorf(
			"services document is too large (got %d bytes; limit %d)",
			resp.ContentLength, maxDocBytes,
		)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocBytes))
	if err != nil {
		return nil, fmt.Errorf("error reading services document body: %v", err)
	}
	return ParseDocument(finalURL, body)
}

// Forget invalidates any cached catalog for the given document URL.
func (r *Resolver) Forget(docURL *url.URL) {
	r.mu.Lock()
	delete(r.cache, docURL.String())
	r.mu.Unlock()
}

// ForgetAll is like Forget, but for all of the cached documents.
func (r *Resolver) ForgetAll() {
	r.mu.Lock()
	r.cache = make(map[string]*Catalog)
	r.mu.Unlock()
}
