// Copyright (c) The OpenTofu Authors
// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package endpoints

import (
	"context"
	"net/url"
)

// Trace allows a caller of [Resolver.Fetch] to be notified about
// potentially-interesting events while loading services documents.
//
// Use [ContextWithTrace] to derive a [context.Context] containing an
// instance of this type, and use that context when calling
// [Resolver.Fetch] or one of its shortcut variants.
//
// Any of the function-typed fields may be left as nil, in which case the
// corresponding event is skipped.
type Trace struct {
	// FetchStart is called when a document request is about to begin. The
	// returned context is used for the request and then passed to either
	// FetchSuccess or FetchFailure.
	FetchStart func(ctx context.Context, docURL *url.URL) context.Context

	FetchSuccess func(ctx context.Context, docURL *url.URL)
	FetchFailure func(ctx context.Context, docURL *url.URL, err error)

	// FetchCached is called instead of the other callbacks when a document
	// is served from the cache of previous results.
	FetchCached func(ctx context.Context, docURL *url.URL)
}

func ContextWithTrace(parent context.Context, trace *Trace) context.Context {
	return context.WithValue(parent, traceKey, trace)
}

func (t *Trace) fetchStart(ctx context.Context, docURL *url.URL) context.Context {
	if t.FetchStart == nil {
		return ctx
	}
	return t.FetchStart(ctx, docURL)
}

func (t *Trace) fetchSuccess(ctx context.Context, docURL *url.URL) {
	if t.FetchSuccess == nil {
		return
	}
	t.FetchSuccess(ctx, docURL)
}

func (t *Trace) fetchFailure(ctx context.Context, docURL *url.URL, err error) {
	if t.FetchFailure == nil {
		return
	}
	t.FetchFailure(ctx, docURL, err)
}

func (t *Trace) fetchCached(ctx context.Context, docURL *url.URL) {
	if t.FetchCached == nil {
		return
	}
	t.FetchCached(ctx, docURL)
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
