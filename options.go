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
	"context"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// DefaultSlowRequestThreshold is the elapsed time at which end events switch
// to the warning "too slow" variant.
const DefaultSlowRequestThreshold = 2000 * time.Millisecond

// LoggingOptions selects the optional detail events and the slow request
// threshold. A pipeline reads it but never writes it after assembly.
type LoggingOptions struct {
	LogRequestHeader  bool
	LogRequestBody    bool
	LogResponseHeader bool
	LogResponseBody   bool

	// SlowRequestLoggingThreshold is compared against elapsed time: below it
	// the end event is informational, at or above it a warning.
	SlowRequestLoggingThreshold time.Duration

	// DetailLevel is the severity of header and content events and the
	// level whose Enabled check gates them.
	DetailLevel slog.Level
}

// DefaultLoggingOptions returns options with every detail event disabled,
// a 2s slow threshold and Debug detail events.
func DefaultLoggingOptions() LoggingOptions {
	return LoggingOptions{
		SlowRequestLoggingThreshold: DefaultSlowRequestThreshold,
		DetailLevel:                 slog.LevelDebug,
	}
}

// ConfigureFunc adjusts LoggingOptions before first use. ctx is the context
// the pipeline is assembled in.
type ConfigureFunc func(ctx context.Context, opts *LoggingOptions)

// LoggerFactory returns the logger for a named pipeline phase, for example
// "httplog.payments.LogicalHandler".
type LoggerFactory func(name string) *slog.Logger

// DefaultLoggerFactory derives named loggers from slog.Default().
func DefaultLoggerFactory(name string) *slog.Logger {
	return slog.Default().With(slog.String("logger", name))
}

// Option configures the logging stages and AddLogging.
type Option func(*config)

type config struct {
	options       LoggingOptions
	configure     []ConfigureFunc
	logger        *slog.Logger
	loggerFactory LoggerFactory
	scoper        Scoper
	clock         Clock

	tracerProvider trace.TracerProvider
	otelEnabled    bool
	otelOptions    []otelhttp.Option
	propagate      bool
	propagator     propagation.TextMapPropagator
	registerer     prometheus.Registerer
	metrics        *metrics

	clientName string
}

// defaultConfig returns the baseline configuration before environment
// variables and functional options are applied.
func defaultConfig() *config {
	return &config{
		options:       DefaultLoggingOptions(),
		loggerFactory: DefaultLoggerFactory,
	}
}

// applyOptions layers environment variables and then opts on top of
// defaultConfig.
func applyOptions(opts []Option) *config {
	cfg := defaultConfig()
	cfg.options = loadLoggingOptionsFromEnv(cfg.options)
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// resolve runs the configure callbacks once and returns the final snapshot.
func (c *config) resolve(ctx context.Context) LoggingOptions {
	if ctx == nil {
		ctx = context.Background()
	}
	for _, fn := range c.configure {
		fn(ctx, &c.options)
	}
	c.configure = nil
	if c.options.SlowRequestLoggingThreshold < 0 {
		c.options.SlowRequestLoggingThreshold = 0
	}
	return c.options
}

// NewLoggingOptions resolves defaults, environment variables, opts and any
// configure callbacks into a snapshot.
func NewLoggingOptions(ctx context.Context, opts ...Option) LoggingOptions {
	return applyOptions(opts).resolve(ctx)
}

// loadLoggingOptionsFromEnv overlays HTTPLOG_* environment variables on base.
// Invalid values are ignored so functional options can supply overrides
// without additional error handling.
func loadLoggingOptionsFromEnv(base LoggingOptions) LoggingOptions {
	opts := base

	boolVars := []struct {
		name string
		dst  *bool
	}{
		{"HTTPLOG_LOG_REQUEST_HEADER", &opts.LogRequestHeader},
		{"HTTPLOG_LOG_REQUEST_BODY", &opts.LogRequestBody},
		{"HTTPLOG_LOG_RESPONSE_HEADER", &opts.LogResponseHeader},
		{"HTTPLOG_LOG_RESPONSE_BODY", &opts.LogResponseBody},
	}
	for _, v := range boolVars {
		if raw, ok := os.LookupEnv(v.name); ok {
			if parsed, err := strconv.ParseBool(strings.TrimSpace(raw)); err == nil {
				*v.dst = parsed
			}
		}
	}

	if raw, ok := os.LookupEnv("HTTPLOG_SLOW_REQUEST_THRESHOLD_MS"); ok {
		if ms, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64); err == nil && ms >= 0 {
			opts.SlowRequestLoggingThreshold = time.Duration(ms) * time.Millisecond
		}
	}
	if raw, ok := os.LookupEnv("HTTPLOG_DETAIL_LEVEL"); ok {
		if lvl, err := ParseLevel(raw); err == nil {
			opts.DetailLevel = lvl.Level()
		}
	}

	return opts
}

// WithLoggingOptions replaces the whole options snapshot.
func WithLoggingOptions(opts LoggingOptions) Option {
	return func(cfg *config) {
		cfg.options = opts
	}
}

// WithRequestHeaders toggles the request header detail event.
func WithRequestHeaders(enabled bool) Option {
	return func(cfg *config) {
		cfg.options.LogRequestHeader = enabled
	}
}

// WithRequestBody toggles the request content detail event.
func WithRequestBody(enabled bool) Option {
	return func(cfg *config) {
		cfg.options.LogRequestBody = enabled
	}
}

// WithResponseHeaders toggles the response header detail event.
func WithResponseHeaders(enabled bool) Option {
	return func(cfg *config) {
		cfg.options.LogResponseHeader = enabled
	}
}

// WithResponseBody toggles the response content detail event.
func WithResponseBody(enabled bool) Option {
	return func(cfg *config) {
		cfg.options.LogResponseBody = enabled
	}
}

// WithSlowRequestThreshold sets the slow request threshold. Negative values
// are clamped to zero, which flags every request as slow.
func WithSlowRequestThreshold(d time.Duration) Option {
	if d < 0 {
		d = 0
	}
	return func(cfg *config) {
		cfg.options.SlowRequestLoggingThreshold = d
	}
}

// WithDetailLevel sets the severity used for header and content events.
// A nil level restores Debug.
func WithDetailLevel(level slog.Leveler) Option {
	return func(cfg *config) {
		if level == nil {
			cfg.options.DetailLevel = slog.LevelDebug
			return
		}
		cfg.options.DetailLevel = level.Level()
	}
}

// WithConfigure registers a callback that mutates the options after every
// other source has been applied.
func WithConfigure(fn ConfigureFunc) Option {
	return func(cfg *config) {
		if fn != nil {
			cfg.configure = append(cfg.configure, fn)
		}
	}
}

// WithLogger sets the logger used by a stage built with ScopeTransport or
// TerminalTransport. AddLogging ignores it in favour of the LoggerFactory.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithLoggerFactory sets how named pipeline loggers are created.
func WithLoggerFactory(factory LoggerFactory) Option {
	return func(cfg *config) {
		if factory == nil {
			factory = DefaultLoggerFactory
		}
		cfg.loggerFactory = factory
	}
}

// WithScoper replaces the correlation scope implementation. The default is
// a TraceScoper on the configured tracer provider.
func WithScoper(scoper Scoper) Option {
	return func(cfg *config) {
		cfg.scoper = scoper
	}
}

// WithTracerProvider sets the tracer provider used by the default
// TraceScoper and by WithOTelInstrumentation. When omitted, the global
// provider is used.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(cfg *config) {
		cfg.tracerProvider = tp
	}
}

// WithClock injects the clock used for elapsed time measurement.
func WithClock(clock Clock) Option {
	return func(cfg *config) {
		cfg.clock = clock
	}
}

// WithOTelInstrumentation makes AddLogging insert an otelhttp transport
// between the scope stage and the terminal stage.
func WithOTelInstrumentation(opts ...otelhttp.Option) Option {
	return func(cfg *config) {
		cfg.otelEnabled = true
		cfg.otelOptions = append(cfg.otelOptions, opts...)
	}
}

// WithMetrics registers pipeline duration and slow request collectors on reg.
// A nil reg disables metrics.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(cfg *config) {
		cfg.registerer = reg
	}
}

// WithClientName sets the pipeline name reported by stages built directly
// with ScopeTransport or TerminalTransport.
func WithClientName(name string) Option {
	return func(cfg *config) {
		cfg.clientName = name
	}
}

// ensureMetrics registers the collectors once when a registerer is set.
func (c *config) ensureMetrics() error {
	if c.metrics != nil || c.registerer == nil {
		return nil
	}
	m, err := newMetrics(c.registerer)
	if err != nil {
		return err
	}
	c.metrics = m
	return nil
}

// effectiveScoper returns the configured Scoper or a TraceScoper.
func (c *config) effectiveScoper() Scoper {
	if c.scoper != nil {
		return c.scoper
	}
	return TraceScoper{TracerProvider: c.tracerProvider}
}
