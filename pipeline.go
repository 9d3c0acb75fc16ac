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
	"net/http"
	"slices"
	"sync"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Middleware wraps the next stage of a pipeline.
type Middleware func(next http.RoundTripper) http.RoundTripper

// Builder describes one named client pipeline while it is being configured.
type Builder struct {
	// Name is the client name. It feeds logger identities and metric labels.
	Name string
	// Primary is the network transport. nil means http.DefaultTransport.
	Primary http.RoundTripper
	// AdditionalStages run in order: index 0 is outermost, the last entry
	// sits directly in front of Primary.
	AdditionalStages []Middleware
}

// Build chains the additional stages around Primary.
func (b *Builder) Build() http.RoundTripper {
	rt := b.Primary
	if rt == nil {
		rt = http.DefaultTransport
	}
	for i := len(b.AdditionalStages) - 1; i >= 0; i-- {
		if mw := b.AdditionalStages[i]; mw != nil {
			rt = mw(rt)
		}
	}
	return rt
}

// BuilderFilter decorates builder configuration. A filter normally calls next
// first and then adjusts the stages next produced.
type BuilderFilter func(next func(*Builder)) func(*Builder)

// LoggingFilter installs the scope stage as the first additional stage and
// the terminal stage as the last one, around whatever stages the rest of the
// configuration adds.
func LoggingFilter(options LoggingOptions, factory LoggerFactory) BuilderFilter {
	cfg := defaultConfig()
	cfg.options = options
	if factory != nil {
		cfg.loggerFactory = factory
	}
	return loggingFilter(cfg)
}

func loggingFilter(cfg *config) BuilderFilter {
	options := cfg.resolve(context.Background())

	return func(next func(*Builder)) func(*Builder) {
		return func(b *Builder) {
			next(b)

			outer := *cfg
			outer.options = options
			outer.clientName = b.Name
			outer.logger = cfg.loggerFactory(loggerName(b.Name, LogicalHandlerSuffix))

			inner := outer
			inner.logger = cfg.loggerFactory(loggerName(b.Name, ClientHandlerSuffix))

			stages := make([]Middleware, 0, len(b.AdditionalStages)+4)
			stages = append(stages, func(next http.RoundTripper) http.RoundTripper {
				return ScopeTransport(next, withConfig(&outer))
			})
			stages = append(stages, b.AdditionalStages...)
			if cfg.propagate {
				stages = append(stages, propagationStage(cfg))
			}
			if cfg.otelEnabled {
				stages = append(stages, otelStage(cfg))
			}
			stages = append(stages, func(next http.RoundTripper) http.RoundTripper {
				return TerminalTransport(next, withConfig(&inner))
			})
			b.AdditionalStages = stages
		}
	}
}

// withConfig copies a fully built config into the stage's config, replacing
// whatever the environment contributed.
func withConfig(src *config) Option {
	return func(cfg *config) {
		*cfg = *src
		cfg.configure = nil
	}
}

// otelStage wraps the terminal stage in otelhttp so its spans nest inside the
// correlation scope span.
func otelStage(cfg *config) Middleware {
	var opts []otelhttp.Option
	if cfg.tracerProvider != nil {
		opts = append(opts, otelhttp.WithTracerProvider(cfg.tracerProvider))
	}
	opts = append(opts, cfg.otelOptions...)
	return func(next http.RoundTripper) http.RoundTripper {
		return otelhttp.NewTransport(next, opts...)
	}
}

// Registry builds transports for named clients, applying its filters to every
// client configuration.
type Registry struct {
	mu      sync.Mutex
	clients map[string][]func(*Builder)
	filters []BuilderFilter
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{clients: make(map[string][]func(*Builder))}
}

// AddClient appends configuration for the named client. It may be called
// several times for the same name.
func (r *Registry) AddClient(name string, configure ...func(*Builder)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.clients == nil {
		r.clients = make(map[string][]func(*Builder))
	}
	for _, fn := range configure {
		if fn != nil {
			r.clients[name] = append(r.clients[name], fn)
		}
	}
	if _, ok := r.clients[name]; !ok {
		r.clients[name] = nil
	}
}

// AddFilter appends f. Filters registered first wrap those registered later.
func (r *Registry) AddFilter(f BuilderFilter) {
	if f == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filters = append(r.filters, f)
}

// RemoveFilters drops every registered filter.
func (r *Registry) RemoveFilters() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filters = nil
}

// Transport builds the pipeline of the named client. Unknown names build a
// pipeline from the filters alone.
func (r *Registry) Transport(name string) http.RoundTripper {
	r.mu.Lock()
	configure := slices.Clone(r.clients[name])
	filters := slices.Clone(r.filters)
	r.mu.Unlock()

	apply := func(b *Builder) {
		for _, fn := range configure {
			fn(b)
		}
	}
	for i := len(filters) - 1; i >= 0; i-- {
		apply = filters[i](apply)
	}

	b := &Builder{Name: name}
	apply(b)
	return b.Build()
}

// Client returns an *http.Client using Transport(name).
func (r *Registry) Client(name string) *http.Client {
	return &http.Client{Transport: r.Transport(name)}
}

// AddLogging replaces every filter on r with the logging filter. Options are
// resolved once, in ctx, from defaults, HTTPLOG_* environment variables, opts
// and finally WithConfigure callbacks.
func AddLogging(ctx context.Context, r *Registry, opts ...Option) error {
	cfg := applyOptions(opts)
	cfg.resolve(ctx)
	if err := cfg.ensureMetrics(); err != nil {
		return err
	}

	r.RemoveFilters()
	r.AddFilter(loggingFilter(cfg))
	return nil
}
