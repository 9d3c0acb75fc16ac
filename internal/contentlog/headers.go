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

package contentlog

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"sync"
)

// HeadersValue lazily formats a header map, one "Name: v1, v2" line per
// header in canonical name order.
type HeadersValue struct {
	kind   Kind
	header http.Header

	once      sync.Once
	formatted string
}

// NewHeadersValue wraps header for logging. The map is not copied; callers
// must not mutate it before the value is resolved.
func NewHeadersValue(kind Kind, header http.Header) *HeadersValue {
	return &HeadersValue{kind: kind, header: header}
}

// String formats the headers on first use.
func (v *HeadersValue) String() string {
	v.once.Do(v.format)
	return v.formatted
}

// LogValue implements slog.LogValuer.
func (v *HeadersValue) LogValue() slog.Value {
	return slog.StringValue(v.String())
}

func (v *HeadersValue) format() {
	var b strings.Builder
	b.WriteString(v.kind.String())
	b.WriteString(" Headers:\n")

	names := make([]string, 0, len(v.header))
	for name := range v.header {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(strings.Join(v.header[name], ", "))
		b.WriteByte('\n')
	}
	v.formatted = b.String()
}
