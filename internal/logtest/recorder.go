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

// Package logtest provides an in-memory slog.Handler for asserting on the
// records emitted by httplog stages.
package logtest

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
)

// Entry is one handled record with attributes flattened to dotted keys and
// fully resolved.
type Entry struct {
	Level   slog.Level
	Message string
	Attrs   map[string]slog.Value
}

// String returns the string form of the attribute at key, or "".
func (e Entry) String(key string) string {
	v, ok := e.Attrs[key]
	if !ok {
		return ""
	}
	return v.String()
}

// Int returns the integer attribute at key, or -1 when it is missing.
func (e Entry) Int(key string) int64 {
	v, ok := e.Attrs[key]
	if !ok || v.Kind() != slog.KindInt64 {
		return -1
	}
	return v.Int64()
}

// Float returns the float attribute at key, or -1 when it is missing.
func (e Entry) Float(key string) float64 {
	v, ok := e.Attrs[key]
	if !ok || v.Kind() != slog.KindFloat64 {
		return -1
	}
	return v.Float64()
}

// EventName is shorthand for the event.name attribute.
func (e Entry) EventName() string { return e.String("event.name") }

type store struct {
	mu      sync.Mutex
	entries []Entry
}

// Recorder is a slog.Handler that keeps every record it handles.
type Recorder struct {
	level  slog.Leveler
	store  *store
	attrs  []slog.Attr
	groups []string
}

// New returns a Recorder that handles records at or above level.
func New(level slog.Leveler) *Recorder {
	if level == nil {
		level = slog.LevelInfo
	}
	return &Recorder{level: level, store: &store{}}
}

// Enabled implements slog.Handler.
func (r *Recorder) Enabled(_ context.Context, level slog.Level) bool {
	return level >= r.level.Level()
}

// Handle implements slog.Handler.
func (r *Recorder) Handle(_ context.Context, rec slog.Record) error {
	entry := Entry{
		Level:   rec.Level,
		Message: rec.Message,
		Attrs:   make(map[string]slog.Value),
	}
	prefix := strings.Join(r.groups, ".")
	for _, a := range r.attrs {
		flatten(entry.Attrs, "", a)
	}
	rec.Attrs(func(a slog.Attr) bool {
		flatten(entry.Attrs, prefix, a)
		return true
	})

	r.store.mu.Lock()
	r.store.entries = append(r.store.entries, entry)
	r.store.mu.Unlock()
	return nil
}

// WithAttrs implements slog.Handler.
func (r *Recorder) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *r
	prefix := strings.Join(r.groups, ".")
	clone.attrs = slices.Clone(r.attrs)
	for _, a := range attrs {
		if prefix != "" {
			a = slog.Attr{Key: prefix + "." + a.Key, Value: a.Value}
		}
		clone.attrs = append(clone.attrs, a)
	}
	return &clone
}

// WithGroup implements slog.Handler.
func (r *Recorder) WithGroup(name string) slog.Handler {
	if name == "" {
		return r
	}
	clone := *r
	clone.groups = append(slices.Clone(r.groups), name)
	return &clone
}

// Entries returns a snapshot of all handled records in order.
func (r *Recorder) Entries() []Entry {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return slices.Clone(r.store.entries)
}

// Events returns the event.name of every handled record in order.
func (r *Recorder) Events() []string {
	entries := r.Entries()
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.EventName())
	}
	return names
}

func flatten(dst map[string]slog.Value, prefix string, a slog.Attr) {
	v := a.Value.Resolve()
	key := a.Key
	if prefix != "" && key != "" {
		key = prefix + "." + key
	} else if key == "" {
		key = prefix
	}
	if v.Kind() == slog.KindGroup {
		for _, ga := range v.Group() {
			flatten(dst, key, ga)
		}
		return
	}
	if a.Key == "" {
		return
	}
	dst[key] = v
}
