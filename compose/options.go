// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package compose

type options struct {
	allowRouteParamNulls  bool
	allowSearchParamNulls bool
}

type Option interface {
	applyOption(o *options)
}

type option func(o *options)

func (f option) applyOption(o *options) {
	f(o)
}

// WithRouteParamNulls controls whether null route parameters are
// substituted as "null" rather than left as placeholders.
func WithRouteParamNulls(allow bool) Option {
	return option(func(o *options) {
		o.allowRouteParamNulls = allow
	})
}

// WithSearchParamNulls controls whether null query parameters are written
// as "null" rather than skipped.
func WithSearchParamNulls(allow bool) Option {
	return option(func(o *options) {
		o.allowSearchParamNulls = allow
	})
}
