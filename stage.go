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
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pjscruggs/httplog/internal/contentlog"
	"github.com/pjscruggs/httplog/internal/stopwatch"
)

// ErrInvalidArgument is returned by both stages when RoundTrip receives a
// nil request.
var ErrInvalidArgument = errors.New("httplog: invalid argument")

// Clock supplies the current time for elapsed time measurement.
type Clock = stopwatch.Clock

const (
	stageScope    = "scope"
	stageTerminal = "terminal"
)

// stage holds what both logging stages share: the options snapshot, the
// event table and the timing source.
type stage struct {
	kind     string
	next     http.RoundTripper
	logger   *slog.Logger
	options  LoggingOptions
	events   EventSet
	messages messages
	clock    Clock
	metrics  *metrics
	client   string
}

func newStage(kind string, next http.RoundTripper, cfg *config, loggerSuffix string) *stage {
	if next == nil {
		next = http.DefaultTransport
	}
	logger := cfg.logger
	if logger == nil {
		logger = cfg.loggerFactory(loggerName(cfg.clientName, loggerSuffix))
	}
	if err := cfg.ensureMetrics(); err != nil {
		logger.Warn("httplog metrics disabled", slog.Any("error", err))
	}
	s := &stage{
		kind:    kind,
		next:    next,
		logger:  logger,
		options: cfg.resolve(context.Background()),
		clock:   cfg.clock,
		metrics: cfg.metrics,
		client:  clientLabel(cfg.clientName),
	}
	if kind == stageScope {
		s.events, s.messages = ScopeEvents, scopeMessages
	} else {
		s.events, s.messages = TerminalEvents, terminalMessages
	}
	return s
}

func (s *stage) startTimer() stopwatch.Stopwatch {
	return stopwatch.Start(s.clock)
}

// logStart emits the start event and the enabled request detail events.
func (s *stage) logStart(ctx context.Context, logger *slog.Logger, req *http.Request) {
	uri := requestURI(req)
	logger.LogAttrs(ctx, slog.LevelInfo,
		fmt.Sprintf(s.messages.start, req.Method, uri),
		s.events.Start.Attr(),
		slog.String(MethodKey, req.Method),
		slog.String(URIKey, uri),
	)

	if !s.options.LogRequestHeader && !s.options.LogRequestBody {
		return
	}
	level := s.options.DetailLevel
	if !logger.Enabled(ctx, level) {
		return
	}
	if s.options.LogRequestHeader {
		logger.LogAttrs(ctx, level, "HTTP request headers",
			s.events.RequestHeader.Attr(),
			slog.Any(HeadersKey, contentlog.NewHeadersValue(contentlog.KindRequest, req.Header)),
		)
	}
	if s.options.LogRequestBody {
		logger.LogAttrs(ctx, level, "HTTP request content",
			s.events.RequestContent.Attr(),
			slog.Any(ContentKey, contentlog.NewValue(contentlog.KindRequest, requestContent(req))),
		)
	}
}

// logEnd emits the end event, choosing the slow variant when elapsed has
// reached the threshold, followed by the enabled response detail events.
// It reports whether the slow variant was used.
func (s *stage) logEnd(ctx context.Context, logger *slog.Logger, resp *http.Response, elapsed time.Duration) bool {
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	ms := stopwatch.Milliseconds(elapsed)
	formatted := strconv.FormatFloat(ms, 'f', -1, 64)

	slow := elapsed >= s.options.SlowRequestLoggingThreshold
	level, template := slog.LevelInfo, s.messages.end
	if slow {
		level, template = slog.LevelWarn, s.messages.endSlow
	}
	logger.LogAttrs(ctx, level,
		fmt.Sprintf(template, formatted, status),
		s.events.End.Attr(),
		slog.Float64(ElapsedKey, ms),
		slog.Int(StatusCodeKey, status),
	)

	if resp == nil || (!s.options.LogResponseHeader && !s.options.LogResponseBody) {
		return slow
	}
	detail := s.options.DetailLevel
	if !logger.Enabled(ctx, detail) {
		return slow
	}
	if s.options.LogResponseHeader {
		logger.LogAttrs(ctx, detail, "HTTP response headers",
			s.events.ResponseHeader.Attr(),
			slog.Any(HeadersKey, contentlog.NewHeadersValue(contentlog.KindResponse, resp.Header)),
		)
	}
	if s.options.LogResponseBody {
		logger.LogAttrs(ctx, detail, "HTTP response content",
			s.events.ResponseContent.Attr(),
			slog.Any(ContentKey, contentlog.NewValue(contentlog.KindResponse, responseContent(resp))),
		)
	}
	return slow
}

// requestURI renders the request target for log fields.
func requestURI(req *http.Request) string {
	if req == nil || req.URL == nil {
		return ""
	}
	return req.URL.String()
}

// loggerName builds the logger identity of a pipeline phase.
func loggerName(client, suffix string) string {
	return "httplog." + clientLabel(client) + "." + suffix
}

func clientLabel(client string) string {
	if strings.TrimSpace(client) == "" {
		return "Default"
	}
	return client
}

// loggerWithAttrs returns base extended with attrs, or base unchanged when
// there is nothing to add.
func loggerWithAttrs(base *slog.Logger, attrs []slog.Attr) *slog.Logger {
	if len(attrs) == 0 {
		return base
	}
	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}
	return base.With(args...)
}
