// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package search

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

// AllowNull controls whether null values, and null elements of sequences,
// are written as the text "null". By default they are skipped.
func AllowNull(allow bool) Option {
	return option(func(o *options) {
		o.allowNull = allow
	})
}
