// Copyright (c) The OpenTofu Authors
// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package endpoints

import (
	"net/http"

	"github.com/opentofu/routeurl/auth"
)

type Option interface {
	applyOption(r *Resolver)
}

type option func(r *Resolver)

func (o option) applyOption(r *Resolver) {
	o(r)
}

func WithHTTPClient(client *http.Client) Option {
	return option(func(r *Resolver) {
		r.httpClient = client
	})
}

func WithCredentials(creds auth.CredentialsSource) Option {
	return option(func(r *Resolver) {
		r.credsSrc = creds
	})
}
