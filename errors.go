// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package routeurl

import (
	"errors"
	"fmt"
)

// Error codes reported by the Code method of each error type in this
// package, for callers that want to classify failures without type
// assertions.
const (
	CodeRequiredParameterMissing = "REQUIRED_PARAMETER_MISSING"
	CodeInvalidParameterType     = "INVALID_PARAMETER_TYPE"
	CodeBaseURLInvalid           = "BASE_URL_INVALID"
)

// ErrRequiredParameterMissing is returned when a mandatory string argument,
// such as a route template, is absent or empty.
type ErrRequiredParameterMissing struct {
	Name string
}

// Error returns a customized error message.
func (e *ErrRequiredParameterMissing) Error() string {
	return fmt.Sprintf("required parameter %q is missing", e.Name)
}

// Code returns [CodeRequiredParameterMissing].
func (e *ErrRequiredParameterMissing) Code() string {
	return CodeRequiredParameterMissing
}

// ErrInvalidParameterType is returned when an argument does not have the
// shape the operation expects, such as a parameter bag that is not a
// key/value mapping.
type ErrInvalidParameterType struct {
	Name     string
	Expected string

	err error
}

// Error returns a customized error message.
func (e *ErrInvalidParameterType) Error() string {
	msg := fmt.Sprintf("invalid parameter type for %q: expected %s", e.Name, e.Expected)
	if e.err != nil {
		msg += ": " + e.err.Error()
	}
	return msg
}

// Code returns [CodeInvalidParameterType].
func (e *ErrInvalidParameterType) Code() string {
	return CodeInvalidParameterType
}

// Unwrap returns the underlying problem, if any.
func (e *ErrInvalidParameterType) Unwrap() error {
	return e.err
}

// NewInvalidParameterType returns an [ErrInvalidParameterType] that wraps
// the given cause, which may be nil.
func NewInvalidParameterType(name, expected string, cause error) *ErrInvalidParameterType {
	return &ErrInvalidParameterType{Name: name, Expected: expected, err: cause}
}

// ErrBaseURLInvalid is returned when a base URL cannot be parsed as an
// absolute hierarchical URL.
type ErrBaseURLInvalid struct {
	BaseURL string

	err error
}

// Error returns a customized error message.
func (e *ErrBaseURLInvalid) Error() string {
	if e.err == nil {
		return fmt.Sprintf("base URL %q is invalid: must be an absolute URL", e.BaseURL)
	}
	return fmt.Sprintf("base URL %q is invalid: %s", e.BaseURL, e.err)
}

// Code returns [CodeBaseURLInvalid].
func (e *ErrBaseURLInvalid) Code() string {
	return CodeBaseURLInvalid
}

// Unwrap returns the underlying problem, if any.
func (e *ErrBaseURLInvalid) Unwrap() error {
	return e.err
}

// NewBaseURLInvalid returns an [ErrBaseURLInvalid] for the given raw base
// URL, wrapping the given cause, which may be nil.
func NewBaseURLInvalid(baseURL string, cause error) *ErrBaseURLInvalid {
	return &ErrBaseURLInvalid{BaseURL: baseURL, err: cause}
}

// ErrorCode returns the code of the first error in err's chain that was
// produced by this package, or an empty string if there is none.
func ErrorCode(err error) string {
	var coded interface{ Code() string }
	if errors.As(err, &coded) {
		return coded.Code()
	}
	return ""
}
