// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

// Package search writes a parameter bag into the query string of a relative
// URL, merging with any query the URL already has.
package search

import (
	"strings"

	"github.com/opentofu/routeurl"
	"github.com/opentofu/routeurl/internal/urlref"
)

// Separator joins the elements of a sequence value into one query value.
const Separator = ","

// Hydrate writes each entry of params into the query string of route and
// returns the resulting relative URL. An empty route means "/", and a nil
// params is an empty bag.
//
// Each written key replaces every existing entry for that key, keeping the
// position of the first. Keys not in params keep their value and position.
// The fragment of route is kept.
//
// Entry values are handled as follows:
//   - [routeurl.Undefined] is skipped.
//   - null is written as "null" if [AllowNull] is set and skipped otherwise.
//   - sequences drop undefined elements, and null elements unless nulls are
//     allowed, then are written once with the remaining elements joined by
//     [Separator]. A sequence left with no elements is skipped.
//   - scalars are written in their string form.
//
// If no key is written then the query of route is returned as it was
// given; otherwise the whole query is re-encoded.
func Hydrate(route string, params any, opts ...Option) (string, error) {
	if route == "" {
		route = "/"
	}
	var bag routeurl.Params
	if params != nil {
		var err error
		bag, err = routeurl.ParamsOf("params", params)
		if err != nil {
			return "", err
		}
	}

	var o options
	for _, opt := range opts {
		opt.applyOption(&o)
	}

	u, err := urlref.Parse(route)
	if err != nil {
		return "", routeurl.NewInvalidParameterType("route", "URL reference", err)
	}

	q := ParseQuery(u.RawQuery)
	written := false
	for _, param := range bag {
		text, ok, err := serialize(param, o.allowNull)
		if err != nil {
			return "", err
		}
		if !ok {
			continue
		}
		q.Set(param.Key, text)
		written = true
	}
	if written {
		u.RawQuery = q.Encode()
	}

	return urlref.Relative(u), nil
}

func serialize(param routeurl.Param, allowNull bool) (string, bool, error) {
	v := routeurl.Inspect(param.Value)
	switch v.Kind {
	case routeurl.KindUndefined:
		return "", false, nil
	case routeurl.KindNull:
		return v.Text, allowNull, nil
	case routeurl.KindScalar:
		return v.Text, true, nil
	case routeurl.KindSequence:
		texts := make([]string, 0, len(v.Elems))
		for _, elem := range v.Elems {
			switch elem.Kind {
			case routeurl.KindUndefined:
				continue
			case routeurl.KindNull:
				if !allowNull {
					continue
				}
			case routeurl.KindScalar:
			default:
				return "", false, &routeurl.ErrInvalidParameterType{
					Name:     "params." + param.Key,
					Expected: "sequence of scalars",
				}
			}
			texts = append(texts, elem.Text)
		}
		if len(texts) == 0 {
			return "", false, nil
		}
		return strings.Join(texts, Separator), true, nil
	default:
		return "", false, &routeurl.ErrInvalidParameterType{
			Name:     "params." + param.Key,
			Expected: "scalar or sequence of scalars",
		}
	}
}
