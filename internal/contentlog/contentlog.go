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

// Package contentlog renders HTTP bodies and headers for log records. Values
// implement [slog.LogValuer]; nothing is read or formatted until a handler
// resolves the attribute, and the result is kept for later resolutions.
package contentlog

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Kind tags a value as belonging to the request or the response.
type Kind int

const (
	// KindRequest marks outbound request data.
	KindRequest Kind = iota
	// KindResponse marks inbound response data.
	KindResponse
)

// String returns "Request" or "Response".
func (k Kind) String() string {
	if k == KindResponse {
		return "Response"
	}
	return "Request"
}

// Body is the body-bearing content of a request or response.
type Body interface {
	// ContentType returns the media type of the content, or "" when none
	// was declared.
	ContentType() string
	// ReadAll returns the full content. It must leave the content readable
	// for every other consumer.
	ReadAll() ([]byte, error)
}

// supportedMediaTypes are matched by case-sensitive substring.
var supportedMediaTypes = []string{
	"text/",
	"application/json",
	"application/xml",
	"application/x-www-form-urlencoded",
}

// Supported reports whether content of mediaType is rendered as text.
func Supported(mediaType string) bool {
	if mediaType == "" {
		return false
	}
	for _, candidate := range supportedMediaTypes {
		if strings.Contains(mediaType, candidate) {
			return true
		}
	}
	return false
}

// Value lazily formats a Body.
type Value struct {
	kind Kind
	body Body

	once      sync.Once
	formatted string
}

// NewValue wraps body for logging. A nil body formats as empty content.
func NewValue(kind Kind, body Body) *Value {
	return &Value{kind: kind, body: body}
}

// String formats the content on first use and returns the cached text
// afterwards.
func (v *Value) String() string {
	v.once.Do(v.format)
	return v.formatted
}

// LogValue implements slog.LogValuer.
func (v *Value) LogValue() slog.Value {
	return slog.StringValue(v.String())
}

func (v *Value) format() {
	var b strings.Builder
	b.WriteString(v.kind.String())
	b.WriteString(" Content:\n")

	if v.body != nil {
		mediaType := v.body.ContentType()
		if Supported(mediaType) {
			data, err := v.body.ReadAll()
			b.Write(data)
			if err != nil {
				if len(data) > 0 {
					b.WriteByte('\n')
				}
				fmt.Fprintf(&b, "!ERROR reading content: %v", err)
			}
		} else {
			fmt.Fprintf(&b, "Content-Type (%s) is not supported for logging.", mediaType)
		}
	}

	b.WriteByte('\n')
	v.formatted = b.String()
}
