// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package routeurl

import (
	"encoding/json"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Undefined marks a bag entry as absent. Hydration skips such entries
// regardless of how nulls are treated.
var Undefined = undefined{}

type undefined struct{}

// Kind classifies a bag entry value.
type Kind int

const (
	// KindInvalid is a value that is not supported in parameter bags,
	// such as a struct or a map.
	KindInvalid Kind = iota
	KindUndefined
	KindNull
	KindScalar
	KindSequence
)

// NullText is the string form of a null value when nulls are allowed.
const NullText = "null"

// Value is the result of inspecting a bag entry.
type Value struct {
	Kind Kind

	// Text is the string form for KindScalar and KindNull values.
	Text string

	// Elems holds the elements of a KindSequence value.
	Elems []Value
}

// Inspect classifies v and computes its string form.
//
// nil and nil pointers are null. Booleans, numbers of any Go numeric kind,
// strings, *big.Int, *big.Float, json.Number and []byte are scalars, as are
// named types built on those kinds. Other slices and arrays are sequences.
// Non-nil pointers are followed. cty values are inspected by their type:
// unknown values are undefined, null values are null, primitive values are
// scalars, and lists, sets and tuples are sequences.
func Inspect(v any) Value {
	switch t := v.(type) {
	case nil:
		return Value{Kind: KindNull, Text: NullText}
	case undefined:
		return Value{Kind: KindUndefined}
	case string:
		return scalar(t)
	case bool:
		return scalar(strconv.FormatBool(t))
	case []byte:
		return scalar(string(t))
	case json.Number:
		return scalar(t.String())
	case *big.Int:
		if t == nil {
			return Value{Kind: KindNull, Text: NullText}
		}
		return scalar(t.String())
	case *big.Float:
		if t == nil {
			return Value{Kind: KindNull, Text: NullText}
		}
		return scalar(formatBigFloat(t))
	case cty.Value:
		return inspectCty(t)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return Value{Kind: KindNull, Text: NullText}
		}
		return Inspect(rv.Elem().Interface())
	case reflect.Bool:
		return scalar(strconv.FormatBool(rv.Bool()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return scalar(strconv.FormatInt(rv.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return scalar(strconv.FormatUint(rv.Uint(), 10))
	case reflect.Float32:
		return scalar(formatFloat(rv.Float(), 32))
	case reflect.Float64:
		return scalar(formatFloat(rv.Float(), 64))
	case reflect.String:
		return scalar(rv.String())
	case reflect.Slice, reflect.Array:
		elems := make([]Value, rv.Len())
		for i := range elems {
			elems[i] = Inspect(rv.Index(i).Interface())
		}
		return Value{Kind: KindSequence, Elems: elems}
	default:
		return Value{Kind: KindInvalid}
	}
}

func scalar(s string) Value {
	return Value{Kind: KindScalar, Text: s}
}

func inspectCty(v cty.Value) Value {
	v, _ = v.UnmarkDeep()
	if !v.IsKnown() {
		return Value{Kind: KindUndefined}
	}
	if v.IsNull() {
		return Value{Kind: KindNull, Text: NullText}
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return scalar(v.AsString())
	case ty == cty.Bool:
		return scalar(strconv.FormatBool(v.True()))
	case ty == cty.Number:
		return scalar(formatBigFloat(v.AsBigFloat()))
	case ty.IsListType() || ty.IsSetType() || ty.IsTupleType():
		var elems []Value
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			elems = append(elems, inspectCty(ev))
		}
		return Value{Kind: KindSequence, Elems: elems}
	default:
		return Value{Kind: KindInvalid}
	}
}

var bigExponentThreshold = big.NewFloat(1e21)

func formatBigFloat(f *big.Float) string {
	if f.IsInf() {
		if f.Sign() < 0 {
			return "-Infinity"
		}
		return "Infinity"
	}
	if f.IsInt() && new(big.Float).Abs(f).Cmp(bigExponentThreshold) < 0 {
		i, _ := f.Int(nil)
		return i.String()
	}
	v, _ := f.Float64()
	return formatFloat(v, 64)
}

var exponentTrimmer = strings.NewReplacer("e-0", "e-", "e+0", "e+")

// formatFloat renders f in its shortest round-trip form, switching to
// exponent notation outside [1e-6, 1e21).
func formatFloat(f float64, bitSize int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	if abs := math.Abs(f); abs < 1e-6 || abs >= 1e21 {
		return exponentTrimmer.Replace(strconv.FormatFloat(f, 'g', -1, bitSize))
	}
	return strconv.FormatFloat(f, 'f', -1, bitSize)
}
