// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

// Package client builds HTTP requests whose URLs are composed from a route
// template and parameter bags, attaching credentials for the composed host.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	cleanhttp "github.com/hashicorp/go-cleanhttp"

	"github.com/opentofu/routeurl/auth"
	"github.com/opentofu/routeurl/compose"
)

const (
	// Used only when the caller doesn't provide their own HTTP client.
	maxRedirects   = 3
	requestTimeout = 11 * time.Second
)

// Client composes request URLs and sends requests.
type Client struct {
	httpClient  *http.Client
	credsSrc    auth.CredentialsSource
	logger      *slog.Logger
	baseURL     any
	composeOpts []compose.Option
}

// New returns a client initialized with the given options.
//
// Without [WithHTTPClient], requests use a pooled client from go-cleanhttp
// with a short timeout and redirect limit. Without [WithCredentials], all
// requests are anonymous. Without [WithLogger], nothing is logged.
func New(opts ...Option) *Client {
	ret := &Client{}
	for _, opt := range opts {
		opt.applyOption(ret)
	}

	if ret.httpClient == nil {
		ret.httpClient = cleanhttp.DefaultPooledClient()
		ret.httpClient.Timeout = requestTimeout
		ret.httpClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) > maxRedirects {
				return errors.New("too many redirects")
			}
			return nil
		}
	}
	if ret.credsSrc == nil {
		ret.credsSrc = auth.NoCredentials
	}
	if ret.logger == nil {
		ret.logger = slog.New(slog.DiscardHandler)
	}
	return ret
}

// NewRequest composes the URL described by in and returns a request for it,
// with credentials applied for the composed host if any are available.
// Credentials are applied only to https URLs.
//
// If in has no BaseURL, the one given with [WithBaseURL] is used. Errors
// from composition are returned unchanged, so they can be classified with
// [github.com/opentofu/routeurl.ErrorCode].
func (c *Client) NewRequest(ctx context.Context, method string, in compose.Input, body io.Reader) (*http.Request, error) {
	if in.BaseURL == nil {
		in.BaseURL = c.baseURL
	}

	u, err := compose.Compose(in, c.composeOpts...)
	if err != nil {
		c.logger.DebugContext(ctx, "client.url.invalid", "pathname", in.Pathname, "error", err)
		return nil, err
	}
	traceFromContext(ctx).urlComposed(ctx, u)
	c.logger.DebugContext(ctx, "client.url.composed", "url", u.Redacted())

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	// Credentials are keyed by host alone, so they are only ever sent over
	// a connection that protects them.
	if u.Scheme != "https" {
		return req, nil
	}
	host, err := auth.HostnameOf(u)
	if err != nil {
		return nil, fmt.Errorf("invalid request host: %w", err)
	}
	creds, err := c.credsSrc.ForHost(ctx, host)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain credentials for %s: %w", host.ForDisplay(), err)
	}
	if creds != nil {
		creds.PrepareRequest(req)
		c.logger.DebugContext(ctx, "client.credentials.applied", "host", host.ForDisplay())
	}
	return req, nil
}

// Do sends the request. A non-nil error is returned only for transport
// failures; any response status counts as success.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	trace := traceFromContext(req.Context())
	ctx := trace.requestStart(req.Context(), req)
	req = req.WithContext(ctx)

	c.logger.DebugContext(ctx, "client.request.start", "method", req.Method, "url", req.URL.Redacted())
	resp, err := c.httpClient.Do(req)
	if err != nil {
		trace.requestFailure(ctx, req, err)
		c.logger.WarnContext(ctx, "client.request.failure", "method", req.Method, "url", req.URL.Redacted(), "error", err)
		return nil, err
	}
	trace.requestSuccess(ctx, req, resp)
	c.logger.DebugContext(ctx, "client.request.success", "method", req.Method, "url", req.URL.Redacted(), "status", resp.StatusCode)
	return resp, nil
}

// Get is a shortcut for [Client.NewRequest] with method GET and no body
// followed by [Client.Do].
func (c *Client) Get(ctx context.Context, in compose.Input) (*http.Response, error) {
	req, err := c.NewRequest(ctx, http.MethodGet, in, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}
