// Copyright (c) The OpenTofu Authors
// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package auth

import (
	"net/http"
	"sync"

	"github.com/zclconf/go-cty/cty"
	"golang.org/x/oauth2"
)

// HostCredentialsToken is a HostCredentials implementation that represents a
// single "bearer token", to be sent to the server via an Authorization header
// with the auth type set to "Bearer".
type HostCredentialsToken string

var _ HostCredentials = HostCredentialsToken("")
var _ NewHostCredentials = HostCredentialsToken("")

// PrepareRequest alters the given HTTP request by setting its Authorization
// header to the string "Bearer " followed by the encapsulated authentication
// token.
func (tc HostCredentialsToken) PrepareRequest(req *http.Request) {
	if req.Header == nil {
		req.Header = http.Header{}
	}
	req.Header.Set("Authorization", "Bearer "+string(tc))
}

// Token returns the authentication token.
func (tc HostCredentialsToken) Token() string {
	return string(tc)
}

// ToStore returns a credentials object with a single attribute "token" whose
// value is the token string. This implements [NewHostCredentials].
func (tc HostCredentialsToken) ToStore() cty.Value {
	return cty.ObjectVal(map[string]cty.Value{
		"token": cty.StringVal(string(tc)),
	})
}

// OAuth2Credentials returns a [HostCredentials] that asks ts for a token
// each time a request is prepared, so that refreshing is left to the token
// source.
//
// If ts fails, the request is left without credentials and the failure is
// available from [OAuth2HostCredentials.Err].
func OAuth2Credentials(ts oauth2.TokenSource) *OAuth2HostCredentials {
	return &OAuth2HostCredentials{source: oauth2.ReuseTokenSource(nil, ts)}
}

// OAuth2HostCredentials is the result of [OAuth2Credentials].
type OAuth2HostCredentials struct {
	source oauth2.TokenSource

	mu      sync.Mutex
	lastErr error
}

var _ HostCredentials = (*OAuth2HostCredentials)(nil)

// PrepareRequest implements [HostCredentials].
func (c *OAuth2HostCredentials) PrepareRequest(req *http.Request) {
	tok, err := c.source.Token()
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
	if err != nil {
		return
	}
	if req.Header == nil {
		req.Header = http.Header{}
	}
	tok.SetAuthHeader(req)
}

// Err returns the error from the most recent token request, if any.
func (c *OAuth2HostCredentials) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}
