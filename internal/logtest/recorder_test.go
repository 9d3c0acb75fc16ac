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

package logtest

import (
	"context"
	"log/slog"
	"testing"
)

// TestRecorderFlattensGroups verifies groups and logger attrs become dotted keys.
func TestRecorderFlattensGroups(t *testing.T) {
	t.Parallel()

	rec := New(slog.LevelDebug)
	logger := slog.New(rec).With(slog.Group("http.scope", slog.String("id", "abc")))

	logger.Info("hello",
		slog.Group("event", slog.Int("id", 100), slog.String("name", "RequestStart")),
		slog.Float64("http.elapsed_ms", 1.5),
	)

	entries := rec.Entries()
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	e := entries[0]
	if got := e.String("http.scope.id"); got != "abc" {
		t.Fatalf("http.scope.id = %q, want abc", got)
	}
	if got := e.Int("event.id"); got != 100 {
		t.Fatalf("event.id = %d, want 100", got)
	}
	if got := e.EventName(); got != "RequestStart" {
		t.Fatalf("event.name = %q, want RequestStart", got)
	}
	if got := e.Float("http.elapsed_ms"); got != 1.5 {
		t.Fatalf("http.elapsed_ms = %v, want 1.5", got)
	}
}

func TestRecorderGate(t *testing.T) {
	t.Parallel()

	rec := New(slog.LevelInfo)
	if rec.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatalf("debug enabled on info recorder")
	}
	slog.New(rec).Debug("dropped")
	if got := len(rec.Entries()); got != 0 {
		t.Fatalf("len(entries) = %d, want 0", got)
	}
}
