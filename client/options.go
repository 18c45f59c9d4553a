// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package client

import (
	"log/slog"
	"net/http"

	"github.com/opentofu/routeurl/auth"
	"github.com/opentofu/routeurl/compose"
)

type Option interface {
	applyOption(c *Client)
}

type option func(c *Client)

func (o option) applyOption(c *Client) {
	o(c)
}

func WithHTTPClient(client *http.Client) Option {
	return option(func(c *Client) {
		c.httpClient = client
	})
}

func WithCredentials(creds auth.CredentialsSource) Option {
	return option(func(c *Client) {
		c.credsSrc = creds
	})
}

// WithLogger sets the logger for request events. Events are logged at
// debug level, except transport failures which are warnings.
func WithLogger(logger *slog.Logger) Option {
	return option(func(c *Client) {
		c.logger = logger
	})
}

// WithBaseURL sets the base URL used when a [compose.Input] has none. It
// accepts the same values as [compose.Input.BaseURL].
func WithBaseURL(base any) Option {
	return option(func(c *Client) {
		c.baseURL = base
	})
}

// WithComposeOptions sets the options used for every composed URL.
func WithComposeOptions(opts ...compose.Option) Option {
	return option(func(c *Client) {
		c.composeOpts = append(c.composeOpts, opts...)
	})
}
