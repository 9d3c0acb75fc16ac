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
	"fmt"
	"net/http"
)

// Logger name suffixes distinguishing the two pipeline phases.
const (
	LogicalHandlerSuffix = "LogicalHandler"
	ClientHandlerSuffix  = "ClientHandler"
)

// TerminalTransport returns the innermost logging stage. It belongs directly
// in front of the network transport next (http.DefaultTransport when nil),
// after retries, authentication and service discovery have run.
func TerminalTransport(next http.RoundTripper, opts ...Option) http.RoundTripper {
	cfg := applyOptions(opts)
	return &terminalTransport{stage: newStage(stageTerminal, next, cfg, ClientHandlerSuffix)}
}

type terminalTransport struct {
	stage *stage
}

// RoundTrip logs the start event, sends req through the wrapped transport and
// logs the end event on success. Transport errors are returned untouched and
// produce no end event.
func (t *terminalTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, fmt.Errorf("terminal round trip: nil request: %w", ErrInvalidArgument)
	}

	s := t.stage
	sw := s.startTimer()
	ctx := req.Context()

	logger := s.logger
	if scope, ok := ScopeFromContext(ctx); ok {
		logger = loggerWithAttrs(logger, scope.LogAttrs())
	}
	if s.options.LogRequestBody && req.GetBody == nil && req.Body != nil && req.Body != http.NoBody {
		// Reading the body replaces it, so do that on a shallow copy and
		// leave the caller's request as it was.
		req = req.WithContext(ctx)
	}

	s.logStart(ctx, logger, req)

	resp, err := s.next.RoundTrip(req)
	if err != nil {
		return resp, err
	}

	elapsed := sw.Elapsed()
	if slow := s.logEnd(ctx, logger, resp, elapsed); slow {
		s.metrics.observeSlow(s.client, s.kind)
	}
	return resp, nil
}

// ScopeTransport returns the outermost logging stage. It opens a correlation
// scope for each request and logs around everything next does, including any
// TerminalTransport further down.
func ScopeTransport(next http.RoundTripper, opts ...Option) http.RoundTripper {
	cfg := applyOptions(opts)
	return &scopeTransport{
		stage:  newStage(stageScope, next, cfg, LogicalHandlerSuffix),
		scoper: cfg.effectiveScoper(),
	}
}

type scopeTransport struct {
	stage  *stage
	scoper Scoper
}

// RoundTrip opens the correlation scope, logs the pipeline start event, runs
// the downstream chain and logs the pipeline end event on success. The scope
// is released on every exit path.
func (t *scopeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, fmt.Errorf("scope round trip: nil request: %w", ErrInvalidArgument)
	}

	s := t.stage
	sw := s.startTimer()

	ctx, scope := t.scoper.BeginScope(req.Context(), ScopeKey{Method: req.Method, URI: requestURI(req)})
	defer scope.Release()

	logger := loggerWithAttrs(s.logger, scope.LogAttrs())
	ctx = ContextWithScope(ctx, scope)
	ctx = ContextWithLogger(ctx, logger)
	req = req.WithContext(ctx)

	s.logStart(ctx, logger, req)

	resp, err := s.next.RoundTrip(req)
	if err != nil {
		return resp, err
	}

	elapsed := sw.Elapsed()
	slow := s.logEnd(ctx, logger, resp, elapsed)
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	s.metrics.observePipeline(s.client, req.Method, status, elapsed)
	if slow {
		s.metrics.observeSlow(s.client, s.kind)
	}
	return resp, nil
}
