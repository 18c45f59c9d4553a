// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

// Package route substitutes ":name" placeholders in a path template with
// values from a parameter bag.
//
// A placeholder name runs up to the next "/", "?" or "#". Only the path part
// of a template is hydrated: a literal query string or fragment in the
// template is returned as written, even if it contains text that looks like
// a placeholder.
package route

import (
	"sort"
	"strings"

	"github.com/opentofu/routeurl"
	"github.com/opentofu/routeurl/internal/urlref"
)

// Prefix introduces a placeholder in a route template.
const Prefix = ":"

// Hydrate replaces every ":name" token in the path of template with the
// value of the bag entry with key "name", percent-encoded as a single path
// segment, and returns the resulting relative URL.
//
// Entries whose value is [routeurl.Undefined] are ignored, as are null
// entries unless [AllowNull] is set, in which case they render as "null".
// Placeholders without a usable entry are left in the output verbatim.
//
// Tokens are replaced longest name first so that a name which is a prefix of
// another (such as "id" and "id2") never consumes part of the longer token.
// That holds only when both are supplied: with "id" alone, "/:id2" becomes
// "/12" for id 1.
func Hydrate(template string, params any, opts ...Option) (string, error) {
	if template == "" {
		return "", &routeurl.ErrRequiredParameterMissing{Name: "pathname"}
	}
	bag, err := routeurl.ParamsOf("params", params)
	if err != nil {
		return "", err
	}

	var o options
	for _, opt := range opts {
		opt.applyOption(&o)
	}

	u, err := urlref.Parse(template)
	if err != nil {
		return "", routeurl.NewInvalidParameterType("pathname", "URL path", err)
	}

	entries, err := substitutions(bag, o.allowNull)
	if err != nil {
		return "", err
	}

	hydrated := u.EscapedPath()
	for _, e := range entries {
		hydrated = strings.ReplaceAll(hydrated, Prefix+e.name, e.value)
	}

	ret, err := urlref.Parse(hydrated)
	if err != nil {
		return "", routeurl.NewInvalidParameterType("pathname", "URL path", err)
	}
	ret.RawQuery = u.RawQuery
	ret.Fragment = u.Fragment
	ret.RawFragment = u.RawFragment

	return urlref.Relative(ret), nil
}

type substitution struct {
	name  string
	value string
}

func substitutions(bag routeurl.Params, allowNull bool) ([]substitution, error) {
	ret := make([]substitution, 0, len(bag))
	for _, param := range bag {
		v := routeurl.Inspect(param.Value)
		switch v.Kind {
		case routeurl.KindUndefined:
			continue
		case routeurl.KindNull:
			if !allowNull {
				continue
			}
		case routeurl.KindScalar:
		default:
			return nil, &routeurl.ErrInvalidParameterType{
				Name:     "params." + param.Key,
				Expected: "scalar",
			}
		}
		ret = append(ret, substitution{
			name:  param.Key,
			value: urlref.EscapeComponent(v.Text),
		})
	}

	sort.SliceStable(ret, func(i, j int) bool {
		return len(ret[i].name) > len(ret[j].name)
	})
	return ret, nil
}

// Placeholders returns the distinct placeholder names in the path of
// template, in order of first appearance. A lone ":" is not a placeholder.
//
// This is the runtime counterpart of deriving required keys from a
// template, for callers that want to check a bag before hydrating.
func Placeholders(template string) []string {
	u, err := urlref.Parse(template)
	if err != nil {
		return nil
	}

	var ret []string
	seen := map[string]struct{}{}
	for _, segment := range strings.Split(u.EscapedPath(), "/") {
		name, ok := strings.CutPrefix(segment, Prefix)
		if !ok || name == "" {
			continue
		}
		if _, exists := seen[name]; exists {
			continue
		}
		seen[name] = struct{}{}
		ret = append(ret, name)
	}
	return ret
}

// Missing returns the placeholder names in template that have no usable
// entry in params, applying the same null and undefined rules as [Hydrate].
func Missing(template string, params any, opts ...Option) ([]string, error) {
	bag, err := routeurl.ParamsOf("params", params)
	if err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt.applyOption(&o)
	}

	var ret []string
	for _, name := range Placeholders(template) {
		value, ok := bag.Get(name)
		if !ok {
			ret = append(ret, name)
			continue
		}
		switch routeurl.Inspect(value).Kind {
		case routeurl.KindUndefined:
			ret = append(ret, name)
		case routeurl.KindNull:
			if !o.allowNull {
				ret = append(ret, name)
			}
		}
	}
	return ret, nil
}
