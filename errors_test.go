// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package routeurl

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorMessages(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		err      error
		wantMsg  string
		wantCode string
	}{
		{
			&ErrRequiredParameterMissing{Name: "pathname"},
			`required parameter "pathname" is missing`,
			CodeRequiredParameterMissing,
		},
		{
			&ErrInvalidParameterType{Name: "params", Expected: "object"},
			`invalid parameter type for "params": expected object`,
			CodeInvalidParameterType,
		},
		{
			NewInvalidParameterType("params", "JSON object", cause),
			`invalid parameter type for "params": expected JSON object: boom`,
			CodeInvalidParameterType,
		},
		{
			NewBaseURLInvalid("/relative", nil),
			`base URL "/relative" is invalid: must be an absolute URL`,
			CodeBaseURLInvalid,
		},
		{
			NewBaseURLInvalid("http://[::1", cause),
			`base URL "http://[::1" is invalid: boom`,
			CodeBaseURLInvalid,
		},
	}

	for _, test := range tests {
		t.Run(test.wantCode, func(t *testing.T) {
			if got := test.err.Error(); got != test.wantMsg {
				t.Errorf("wrong message\ngot:  %s\nwant: %s", got, test.wantMsg)
			}
			wrapped := fmt.Errorf("composing: %w", test.err)
			if got := ErrorCode(wrapped); got != test.wantCode {
				t.Errorf("wrong code\ngot:  %s\nwant: %s", got, test.wantCode)
			}
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	if !errors.Is(NewInvalidParameterType("x", "y", cause), cause) {
		t.Error("invalid parameter type error does not unwrap to its cause")
	}
	if !errors.Is(NewBaseURLInvalid("x", cause), cause) {
		t.Error("base URL error does not unwrap to its cause")
	}
	if got := ErrorCode(cause); got != "" {
		t.Errorf("unrelated error has code %q", got)
	}
	if got := ErrorCode(nil); got != "" {
		t.Errorf("nil error has code %q", got)
	}
}
