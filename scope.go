// Copyright 2026 Patrick J. Scruggs
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
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ScopeGroupKey is the attribute group holding correlation scope fields.
const ScopeGroupKey = "http.scope"

// ScopeKey is what a correlation scope is opened for.
type ScopeKey struct {
	Method string
	URI    string
}

// ScopeHandle is an open correlation scope.
type ScopeHandle interface {
	// LogAttrs returns the attributes attached to every event logged
	// inside the scope.
	LogAttrs() []slog.Attr
	// Release closes the scope. The scope stage calls it exactly once.
	Release()
}

// Scoper opens correlation scopes. The returned context is used for the
// whole downstream call tree.
type Scoper interface {
	BeginScope(ctx context.Context, key ScopeKey) (context.Context, ScopeHandle)
}

// CorrelationScope is the ScopeHandle produced by TraceScoper.
type CorrelationScope struct {
	id   string
	key  ScopeKey
	span trace.Span

	once sync.Once
}

// ID returns the random identifier assigned to the scope.
func (s *CorrelationScope) ID() string { return s.id }

// Key returns the method and URI the scope was opened for.
func (s *CorrelationScope) Key() ScopeKey { return s.key }

// SpanContext returns the span context of the scope's span. It is invalid
// when no tracer provider is recording.
func (s *CorrelationScope) SpanContext() trace.SpanContext {
	if s.span == nil {
		return trace.SpanContext{}
	}
	return s.span.SpanContext()
}

// LogAttrs implements ScopeHandle.
func (s *CorrelationScope) LogAttrs() []slog.Attr {
	fields := []slog.Attr{
		slog.String("id", s.id),
		slog.String("method", s.key.Method),
		slog.String("uri", s.key.URI),
	}
	if sc := s.SpanContext(); sc.IsValid() {
		fields = append(fields,
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
			slog.Bool("trace_sampled", sc.IsSampled()),
		)
	}
	return []slog.Attr{{Key: ScopeGroupKey, Value: slog.GroupValue(fields...)}}
}

// Release ends the scope's span. Calls after the first are no-ops.
func (s *CorrelationScope) Release() {
	s.once.Do(func() {
		if s.span != nil {
			s.span.End()
		}
	})
}

// TraceScoper opens one OpenTelemetry client span per scope. The zero value
// uses the global tracer provider.
type TraceScoper struct {
	TracerProvider trace.TracerProvider
}

// BeginScope implements Scoper.
func (s TraceScoper) BeginScope(ctx context.Context, key ScopeKey) (context.Context, ScopeHandle) {
	tp := s.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	ctx, span := tp.Tracer(instrumentationName, trace.WithInstrumentationVersion(Version)).Start(
		ctx,
		"HTTP "+key.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", key.Method),
			attribute.String("url.full", key.URI),
		),
	)
	return ctx, &CorrelationScope{
		id:   uuid.NewString(),
		key:  key,
		span: span,
	}
}
