// Copyright 2025-2026 Patrick J. Scruggs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package httplog

import (
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// WithTracePropagation makes AddLogging insert a stage in front of the
// terminal stage that writes the correlation scope's trace context into the
// outbound headers. A nil propagator means the global one at request time.
func WithTracePropagation(p propagation.TextMapPropagator) Option {
	return func(cfg *config) {
		cfg.propagate = true
		cfg.propagator = p
	}
}

// PropagationTransport wraps next (http.DefaultTransport when nil) and
// injects the trace context of req.Context() with p. Requests that carry no
// valid span context, or that already carry a traceparent header, pass
// through untouched. Injection happens on a clone so the caller's request is
// never modified.
func PropagationTransport(next http.RoundTripper, p propagation.TextMapPropagator) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &propagationTransport{next: next, propagator: p}
}

type propagationTransport struct {
	next       http.RoundTripper
	propagator propagation.TextMapPropagator
}

// RoundTrip implements http.RoundTripper.
func (t *propagationTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return t.next.RoundTrip(req)
	}
	ctx := req.Context()
	if !trace.SpanContextFromContext(ctx).IsValid() || req.Header.Get("traceparent") != "" {
		return t.next.RoundTrip(req)
	}

	p := t.propagator
	if p == nil {
		p = otel.GetTextMapPropagator()
	}
	out := req.Clone(ctx)
	if out.Header == nil {
		out.Header = make(http.Header)
	}
	p.Inject(ctx, propagation.HeaderCarrier(out.Header))
	return t.next.RoundTrip(out)
}

func propagationStage(cfg *config) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return PropagationTransport(next, cfg.propagator)
	}
}
