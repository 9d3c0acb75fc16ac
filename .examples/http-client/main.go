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

// Command http-client builds a logged client pipeline with a retry stage in the
// middle and runs it against a local test server that fails once.
//
// This example is both documentation, and a test for `httplog`.
package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"

	"github.com/pjscruggs/httplog"
)

// retryOnce repeats a request that failed with 503.
func retryOnce(next http.RoundTripper) http.RoundTripper {
	return roundTripFunc(func(req *http.Request) (*http.Response, error) {
		resp, err := next.RoundTrip(req)
		if err != nil || resp.StatusCode != http.StatusServiceUnavailable {
			return resp, err
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		httplog.Logger(req.Context()).Info("retrying after 503")
		return next.RoundTrip(req)
	})
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func newServer() *httptest.Server {
	var calls atomic.Int32
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, "hello")
	}))
}

func newRegistry(handler slog.Handler) (*httplog.Registry, error) {
	logger := slog.New(handler)
	reg := httplog.NewRegistry()
	reg.AddClient("greeter", func(b *httplog.Builder) {
		b.AdditionalStages = append(b.AdditionalStages, retryOnce)
	})
	err := httplog.AddLogging(context.Background(), reg,
		httplog.WithLoggerFactory(func(name string) *slog.Logger { return logger.With("logger", name) }),
		httplog.WithResponseBody(true),
	)
	return reg, err
}

func main() {
	server := newServer()
	defer server.Close()

	reg, err := newRegistry(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	if err != nil {
		log.Fatalf("configure logging: %v", err)
	}

	resp, err := reg.Client("greeter").Get(server.URL)
	if err != nil {
		log.Fatalf("client request: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	log.Printf("response %s: %s", resp.Status, body)
}
