// Copyright (c) The OpenTofu Authors
// SPDX-License-Identifier: MPL-2.0

package client

import (
	"context"
	"net/http"
	"net/url"
)

// Trace allows a caller of [Client.NewRequest] and [Client.Do] to be
// notified about URL composition and request progress, in case they want
// to generate log messages, telemetry traces, or similar.
//
// Use [ContextWithTrace] to derive a [context.Context] containing an
// instance of this type. Any of the function-typed fields may be left as
// nil, in which case the corresponding event is skipped.
type Trace struct {
	// URLComposed is called by NewRequest once the request URL is known.
	URLComposed func(ctx context.Context, u *url.URL)

	// RequestStart is called when a request is about to be sent. The
	// returned context is used for the request and then passed to either
	// RequestSuccess or RequestFailure.
	RequestStart func(ctx context.Context, req *http.Request) context.Context

	RequestSuccess func(ctx context.Context, req *http.Request, resp *http.Response)
	RequestFailure func(ctx context.Context, req *http.Request, err error)
}

func ContextWithTrace(parent context.Context, trace *Trace) context.Context {
	return context.WithValue(parent, traceKey, trace)
}

func (t *Trace) urlComposed(ctx context.Context, u *url.URL) {
	if t.URLComposed == nil {
		return
	}
	t.URLComposed(ctx, u)
}

func (t *Trace) requestStart(ctx context.Context, req *http.Request) context.Context {
	if t.RequestStart == nil {
		return ctx
	}
	return t.RequestStart(ctx, req)
}

func (t *Trace) requestSuccess(ctx context.Context, req *http.Request, resp *http.Response) {
	if t.RequestSuccess == nil {
		return
	}
	t.RequestSuccess(ctx, req, resp)
}

func (t *Trace) requestFailure(ctx context.Context, req *http.Request, err error) {
	if t.RequestFailure == nil {
		return
	}
	t.RequestFailure(ctx, req, err)
}

func traceFromContext(ctx context.Context) *Trace {
	trace, ok := ctx.Value(traceKey).(*Trace)
	if !ok {
		trace = noTrace
	}
	return trace
}

type traceKeyType string

const traceKey = traceKeyType("")

var noTrace = &Trace{}
