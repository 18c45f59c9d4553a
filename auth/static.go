// Copyright (c) The OpenTofu Authors
// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package auth

import (
	"context"

	"github.com/zclconf/go-cty/cty"
)

// StaticCredentialsSource returns a [CredentialsSource] that looks up any
// requested credentials directly in the provided map.
//
// Keys are converted to their comparison form, so "Example.COM:443" and
// "example.com" name the same host. The caller should not modify the given
// map after passing it to this function.
func StaticCredentialsSource(creds map[Hostname]HostCredentials) CredentialsSource {
	ret := make(staticCredentialsSource, len(creds))
	for host, c := range creds {
		ret[storeKey(host)] = c
	}
	return ret
}

// StaticCredentialsSourceFromMaps is like [StaticCredentialsSource] but
// takes the raw credentials objects for each host, such as those decoded
// from a configuration file, and converts each with
// [HostCredentialsFromMap]. Hosts whose object has no recognized
// credentials are left out.
func StaticCredentialsSourceFromMaps(creds map[Hostname]map[string]any) CredentialsSource {
	converted := make(map[Hostname]HostCredentials, len(creds))
	for host, m := range creds {
		if c := HostCredentialsFromMap(m); c != nil {
			converted[host] = c
		}
	}
	return StaticCredentialsSource(converted)
}

type staticCredentialsSource map[Hostname]HostCredentials

// ForHost implements [CredentialsSource].
func (s staticCredentialsSource) ForHost(_ context.Context, host Hostname) (HostCredentials, error) {
	if s == nil {
		return nil, nil
	}
	return s[host], nil
}

// HostCredentialsFromMap converts a credentials object into a
// [HostCredentials], or returns nil if the object does not contain a
// non-empty "token" string.
func HostCredentialsFromMap(m map[string]any) HostCredentials {
	token, ok := m["token"].(string)
	if !ok || token == "" {
		return nil
	}
	return HostCredentialsToken(token)
}

// HostCredentialsFromObject is like [HostCredentialsFromMap] but takes a
// value in the form produced by [NewHostCredentials.ToStore].
func HostCredentialsFromObject(obj cty.Value) HostCredentials {
	obj, _ = obj.UnmarkDeep()
	if obj.IsNull() || !obj.IsKnown() || !obj.Type().IsObjectType() {
		return nil
	}
	if !obj.Type().HasAttribute("token") {
		return nil
	}
	token := obj.GetAttr("token")
	if token.IsNull() || !token.IsKnown() || token.Type() != cty.String {
		return nil
	}
	return HostCredentialsFromMap(map[string]any{"token": token.AsString()})
}
