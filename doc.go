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

// Package httplog instruments outbound HTTP clients with [log/slog] events.
// It provides two [net/http.RoundTripper] stages that log around a request
// without changing it:
//
//   - [ScopeTransport] is the outermost stage. It opens a correlation scope
//     for the request, logs "RequestPipelineStart" and, on success,
//     "RequestPipelineEnd", timing everything downstream (retries,
//     authentication, service discovery and so on).
//   - [TerminalTransport] is the innermost stage, directly in front of the
//     network transport. It logs "RequestStart" and "RequestEnd" around the
//     actual send and tags its events with the enclosing scope.
//
// End events switch to a warning "too slow" variant once the elapsed time
// reaches [LoggingOptions.SlowRequestLoggingThreshold]. A failed request logs
// a start event and no end event, so a missing end marks requests that
// errored, were cancelled, or never returned.
//
// Header and content detail events are opt in through [LoggingOptions] and
// are additionally gated by the logger's Enabled check at
// [LoggingOptions.DetailLevel]. Body formatting is lazy: content is read only
// when a handler resolves the attribute, only for textual media types, and
// at most once.
//
// # Pipelines
//
// [Registry] assembles named client pipelines from [Builder] configuration.
// [AddLogging] installs the scope stage first and the terminal stage last,
// regardless of the stages configured in between:
//
//	reg := httplog.NewRegistry()
//	reg.AddClient("payments", func(b *httplog.Builder) {
//	    b.AdditionalStages = append(b.AdditionalStages, retryStage)
//	})
//	if err := httplog.AddLogging(ctx, reg, httplog.WithResponseBody(true)); err != nil {
//	    return err
//	}
//	client := reg.Client("payments")
//
// Loggers are named "httplog.{client}.LogicalHandler" for the scope stage and
// "httplog.{client}.ClientHandler" for the terminal stage.
//
// [WithOTelInstrumentation] and [WithTracePropagation] add otelhttp spans and
// trace header injection in front of the terminal stage. [WithMetrics]
// exports pipeline durations and slow completions to Prometheus.
//
// # Configuration
//
// Options resolve from [DefaultLoggingOptions], then the HTTPLOG_*
// environment variables (HTTPLOG_LOG_REQUEST_HEADER,
// HTTPLOG_LOG_REQUEST_BODY, HTTPLOG_LOG_RESPONSE_HEADER,
// HTTPLOG_LOG_RESPONSE_BODY, HTTPLOG_SLOW_REQUEST_THRESHOLD_MS and
// HTTPLOG_DETAIL_LEVEL), then functional options, then [WithConfigure]
// callbacks.
package httplog
