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
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pjscruggs/httplog/internal/logtest"
)

// fakeClock is a manually advanced Clock shared by every stage in a test.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// stubRoundTripper plays the network transport.
type stubRoundTripper struct {
	mu    sync.Mutex
	reqs  []*http.Request
	delay time.Duration
	clock *fakeClock
	fn    func(*http.Request) (*http.Response, error)
}

func (s *stubRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	s.mu.Lock()
	s.reqs = append(s.reqs, req)
	s.mu.Unlock()

	if s.clock != nil {
		s.clock.Advance(s.delay)
	}
	if s.fn != nil {
		return s.fn(req)
	}
	return jsonResponse(req, http.StatusOK, `{"ok":true}`), nil
}

func (s *stubRoundTripper) lastRequest() *http.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.reqs) == 0 {
		return nil
	}
	return s.reqs[len(s.reqs)-1]
}

func jsonResponse(req *http.Request, status int, body string) *http.Response {
	header := http.Header{}
	header.Set("Content-Type", "application/json; charset=utf-8")
	return &http.Response{
		StatusCode:    status,
		Header:        header,
		Body:          io.NopCloser(strings.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}
}

// trackedBody counts reads and closes of a response body.
type trackedBody struct {
	r      io.Reader
	reads  atomic.Int32
	closed atomic.Int32
}

func newTrackedBody(s string) *trackedBody {
	return &trackedBody{r: strings.NewReader(s)}
}

func (b *trackedBody) Read(p []byte) (int, error) {
	b.reads.Add(1)
	return b.r.Read(p)
}

func (b *trackedBody) Close() error {
	b.closed.Add(1)
	return nil
}

// recordingScoper counts scope lifecycles.
type recordingScoper struct {
	begins   atomic.Int32
	releases atomic.Int32
	lastKey  atomic.Value
}

type recordingHandle struct {
	scoper *recordingScoper
	key    ScopeKey
}

func (h *recordingHandle) LogAttrs() []slog.Attr {
	return []slog.Attr{slog.Group(ScopeGroupKey, slog.String("id", "scope-1"), slog.String("uri", h.key.URI))}
}

func (h *recordingHandle) Release() {
	h.scoper.releases.Add(1)
}

func (s *recordingScoper) BeginScope(ctx context.Context, key ScopeKey) (context.Context, ScopeHandle) {
	s.begins.Add(1)
	s.lastKey.Store(key)
	return ctx, &recordingHandle{scoper: s, key: key}
}

// newRecorder returns a recorder at level and a logger factory writing to it.
func newRecorder(level slog.Leveler) (*logtest.Recorder, LoggerFactory) {
	rec := logtest.New(level)
	return rec, func(name string) *slog.Logger {
		return slog.New(rec).With(slog.String("logger", name))
	}
}

func newRequest(method, target string, body io.Reader) *http.Request {
	req, err := http.NewRequestWithContext(context.Background(), method, target, body)
	if err != nil {
		panic(err)
	}
	return req
}
