// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

// Package routeurl contains the types shared by the URL hydration packages:
// parameter bags, the value model for the entries in those bags, and the
// errors returned when a caller passes arguments of the wrong shape.
//
// The hydration itself lives in the subpackages:
//
//   - [github.com/opentofu/routeurl/route] substitutes ":name" placeholders
//     in a path template.
//   - [github.com/opentofu/routeurl/search] writes parameter bags into a
//     query string.
//   - [github.com/opentofu/routeurl/compose] combines both against a base URL.
//
// A parameter bag is any key/value mapping: a [Params] value when the order
// of entries matters, a Go map with string keys (applied in sorted key order),
// or a cty object or map value. Entry values are scalars, nil for null,
// [Undefined] for entries that should be treated as absent, or (in query bags
// only) sequences of those.
package routeurl
