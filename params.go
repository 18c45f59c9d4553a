// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package routeurl

import (
	"reflect"
	"sort"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Param is a single entry in a parameter bag.
type Param struct {
	Key   string
	Value any
}

// Params is a parameter bag whose entries are applied in the order given.
//
// If the same key appears more than once then the entries collapse into one
// at the position of the first, carrying the value of the last.
type Params []Param

// Get returns the value for the given key and whether the key is present.
func (p Params) Get(key string) (any, bool) {
	var (
		ret   any
		found bool
	)
	for _, param := range p {
		if param.Key == key {
			ret, found = param.Value, true
		}
	}
	return ret, found
}

// Keys returns the keys of the receiver in order, without duplicates.
func (p Params) Keys() []string {
	compact := p.compact()
	ret := make([]string, len(compact))
	for i, param := range compact {
		ret[i] = param.Key
	}
	return ret
}

func (p Params) compact() Params {
	index := make(map[string]int, len(p))
	ret := make(Params, 0, len(p))
	for _, param := range p {
		if i, exists := index[param.Key]; exists {
			ret[i].Value = param.Value
			continue
		}
		index[param.Key] = len(ret)
		ret = append(ret, param)
	}
	return ret
}

// ParamsOf checks that bag is a key/value mapping and returns its entries
// in the order they should be applied. The name is used to identify the
// argument in the returned error.
//
// Accepted shapes are [Params], []Param, any map whose key kind is string
// (entries in sorted key order, which includes [net/url.Values]), and a
// non-null, known cty value of an object or map type. Everything else,
// including a nil bag, fails with [ErrInvalidParameterType].
func ParamsOf(name string, bag any) (Params, error) {
	switch b := bag.(type) {
	case Params:
		return b.compact(), nil
	case []Param:
		return Params(b).compact(), nil
	case cty.Value:
		return paramsFromCty(name, b)
	case nil:
		return nil, &ErrInvalidParameterType{Name: name, Expected: "object"}
	}

	rv := reflect.ValueOf(bag)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, &ErrInvalidParameterType{Name: name, Expected: "object"}
	}

	ret := make(Params, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		ret = append(ret, Param{
			Key:   iter.Key().String(),
			Value: iter.Value().Interface(),
		})
	}
	sort.Slice(ret, func(i, j int) bool {
		return ret[i].Key < ret[j].Key
	})
	return ret, nil
}

// ParamsFromJSON decodes a JSON object into a parameter bag. Keys are
// returned in sorted order. JSON null becomes null, and nested arrays
// become sequences.
func ParamsFromJSON(name string, data []byte) (Params, error) {
	ty, err := ctyjson.ImpliedType(data)
	if err != nil {
		return nil, NewInvalidParameterType(name, "JSON object", err)
	}
	v, err := ctyjson.Unmarshal(data, ty)
	if err != nil {
		return nil, NewInvalidParameterType(name, "JSON object", err)
	}
	return paramsFromCty(name, v)
}

func paramsFromCty(name string, v cty.Value) (Params, error) {
	v, _ = v.UnmarkDeep()
	ty := v.Type()
	if !(ty.IsObjectType() || ty.IsMapType()) || !v.IsKnown() || v.IsNull() {
		return nil, &ErrInvalidParameterType{Name: name, Expected: "object"}
	}

	ret := Params{}
	for it := v.ElementIterator(); it.Next(); {
		k, ev := it.Element()
		ret = append(ret, Param{Key: k.AsString(), Value: ev})
	}
	return ret, nil
}
