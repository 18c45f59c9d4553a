// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package route

type options struct {
	allowNull bool
}

type Option interface {
	applyOption(o *options)
}

type option func(o *options)

func (f option) applyOption(o *options) {
	f(o)
}

// AllowNull controls whether null bag entries are substituted as the text
// "null". By default they are treated as absent.
func AllowNull(allow bool) Option {
	return option(func(o *options) {
		o.allowNull = allow
	})
}
