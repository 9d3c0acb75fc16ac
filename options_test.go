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
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// TestDefaultLoggingOptions documents the baseline snapshot.
func TestDefaultLoggingOptions(t *testing.T) {
	t.Parallel()

	want := LoggingOptions{
		SlowRequestLoggingThreshold: 2000 * time.Millisecond,
		DetailLevel:                 slog.LevelDebug,
	}
	if diff := cmp.Diff(want, DefaultLoggingOptions()); diff != "" {
		t.Fatalf("DefaultLoggingOptions() mismatch (-want +got):\n%s", diff)
	}
}

// TestLoadLoggingOptionsFromEnv reads every HTTPLOG_* variable.
func TestLoadLoggingOptionsFromEnv(t *testing.T) {
	t.Setenv("HTTPLOG_LOG_REQUEST_HEADER", "true")
	t.Setenv("HTTPLOG_LOG_REQUEST_BODY", "1")
	t.Setenv("HTTPLOG_LOG_RESPONSE_HEADER", " TRUE ")
	t.Setenv("HTTPLOG_LOG_RESPONSE_BODY", "t")
	t.Setenv("HTTPLOG_SLOW_REQUEST_THRESHOLD_MS", "750")
	t.Setenv("HTTPLOG_DETAIL_LEVEL", "info")

	want := LoggingOptions{
		LogRequestHeader:            true,
		LogRequestBody:              true,
		LogResponseHeader:           true,
		LogResponseBody:             true,
		SlowRequestLoggingThreshold: 750 * time.Millisecond,
		DetailLevel:                 slog.LevelInfo,
	}
	if diff := cmp.Diff(want, NewLoggingOptions(context.Background())); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

// TestLoadLoggingOptionsFromEnvIgnoresInvalid keeps defaults for values that
// do not parse.
func TestLoadLoggingOptionsFromEnvIgnoresInvalid(t *testing.T) {
	t.Setenv("HTTPLOG_LOG_REQUEST_HEADER", "sometimes")
	t.Setenv("HTTPLOG_SLOW_REQUEST_THRESHOLD_MS", "-5")
	t.Setenv("HTTPLOG_DETAIL_LEVEL", "loud")

	if diff := cmp.Diff(DefaultLoggingOptions(), NewLoggingOptions(context.Background())); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}

	t.Setenv("HTTPLOG_SLOW_REQUEST_THRESHOLD_MS", "2s")
	if got := NewLoggingOptions(context.Background()).SlowRequestLoggingThreshold; got != DefaultSlowRequestThreshold {
		t.Fatalf("threshold = %v, want %v", got, DefaultSlowRequestThreshold)
	}
}

// TestOptionsOverrideEnv applies functional options after the environment.
func TestOptionsOverrideEnv(t *testing.T) {
	t.Setenv("HTTPLOG_LOG_RESPONSE_BODY", "true")
	t.Setenv("HTTPLOG_SLOW_REQUEST_THRESHOLD_MS", "10")

	got := NewLoggingOptions(context.Background(),
		WithResponseBody(false),
		WithSlowRequestThreshold(time.Second),
		WithDetailLevel(LevelTrace),
	)
	want := LoggingOptions{
		SlowRequestLoggingThreshold: time.Second,
		DetailLevel:                 slog.Level(LevelTrace),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

// TestConfigureRunsLast lets callbacks see and override every other source.
func TestConfigureRunsLast(t *testing.T) {
	t.Parallel()

	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, 42*time.Millisecond)

	var seen LoggingOptions
	got := NewLoggingOptions(ctx,
		WithConfigure(func(ctx context.Context, opts *LoggingOptions) {
			seen = *opts
			opts.SlowRequestLoggingThreshold = ctx.Value(ctxKey{}).(time.Duration)
		}),
		WithRequestHeaders(true),
		WithConfigure(nil),
	)

	if !seen.LogRequestHeader {
		t.Fatalf("callback ran before WithRequestHeaders was applied")
	}
	if got.SlowRequestLoggingThreshold != 42*time.Millisecond {
		t.Fatalf("threshold = %v, want 42ms", got.SlowRequestLoggingThreshold)
	}
}

// TestNegativeThresholdClamped treats negative thresholds as zero.
func TestNegativeThresholdClamped(t *testing.T) {
	t.Parallel()

	if got := NewLoggingOptions(context.Background(), WithSlowRequestThreshold(-time.Second)).SlowRequestLoggingThreshold; got != 0 {
		t.Fatalf("WithSlowRequestThreshold(-1s) = %v, want 0", got)
	}

	got := NewLoggingOptions(context.Background(), WithConfigure(func(_ context.Context, opts *LoggingOptions) {
		opts.SlowRequestLoggingThreshold = -time.Minute
	}))
	if got.SlowRequestLoggingThreshold != 0 {
		t.Fatalf("configured -1m = %v, want 0", got.SlowRequestLoggingThreshold)
	}

	opts := DefaultLoggingOptions()
	opts.SlowRequestLoggingThreshold = -time.Millisecond
	if got := NewLoggingOptions(context.Background(), WithLoggingOptions(opts)); got.SlowRequestLoggingThreshold != 0 {
		t.Fatalf("WithLoggingOptions threshold = %v, want 0", got.SlowRequestLoggingThreshold)
	}
}

// TestWithDetailLevelNil restores Debug.
func TestWithDetailLevelNil(t *testing.T) {
	t.Parallel()

	got := NewLoggingOptions(context.Background(), WithDetailLevel(slog.LevelWarn), WithDetailLevel(nil))
	if got.DetailLevel != slog.LevelDebug {
		t.Fatalf("DetailLevel = %v, want DEBUG", got.DetailLevel)
	}
}

// TestLoggerNames covers the phase naming rules.
func TestLoggerNames(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		client, suffix, want string
	}{
		{"payments", LogicalHandlerSuffix, "httplog.payments.LogicalHandler"},
		{"payments", ClientHandlerSuffix, "httplog.payments.ClientHandler"},
		{"", ClientHandlerSuffix, "httplog.Default.ClientHandler"},
	} {
		if got := loggerName(tc.client, tc.suffix); got != tc.want {
			t.Errorf("loggerName(%q, %q) = %q, want %q", tc.client, tc.suffix, got, tc.want)
		}
	}
}
