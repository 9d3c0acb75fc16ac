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

import "log/slog"

// EventID identifies an event. IDs are scoped to a stage: both stages use
// 100-105 and are told apart by Name and by logger.
type EventID struct {
	ID   int
	Name string
}

// Attr returns the event attribute group, rendered as event.id and
// event.name.
func (e EventID) Attr() slog.Attr {
	return slog.Group("event", slog.Int("id", e.ID), slog.String("name", e.Name))
}

// EventSet lists the events of one stage.
type EventSet struct {
	Start           EventID
	End             EventID
	RequestHeader   EventID
	ResponseHeader  EventID
	RequestContent  EventID
	ResponseContent EventID
}

// TerminalEvents are emitted by TerminalTransport.
var TerminalEvents = EventSet{
	Start:           EventID{100, "RequestStart"},
	End:             EventID{101, "RequestEnd"},
	RequestHeader:   EventID{102, "RequestHeader"},
	ResponseHeader:  EventID{103, "ResponseHeader"},
	RequestContent:  EventID{104, "RequestContent"},
	ResponseContent: EventID{105, "ResponseContent"},
}

// ScopeEvents are emitted by ScopeTransport.
var ScopeEvents = EventSet{
	Start:           EventID{100, "RequestPipelineStart"},
	End:             EventID{101, "RequestPipelineEnd"},
	RequestHeader:   EventID{102, "RequestPipelineRequestHeader"},
	ResponseHeader:  EventID{103, "RequestPipelineResponseHeader"},
	RequestContent:  EventID{104, "RequestPipelineContent"},
	ResponseContent: EventID{105, "ResponsePipelineContent"},
}

// messages holds the printf templates of one stage, in the order
// (method, uri) for start and (elapsed ms, status) for the end variants.
type messages struct {
	start   string
	end     string
	endSlow string
}

var terminalMessages = messages{
	start:   "Sending HTTP request %s %s",
	end:     "Received HTTP response after %sms - %d",
	endSlow: "Received HTTP response too slow, elapsed: %sms - %d",
}

var scopeMessages = messages{
	start:   "Start processing HTTP request %s %s",
	end:     "End processing HTTP request after %sms - %d",
	endSlow: "End processing HTTP request too slow, elapsed: %sms - %d",
}

// Keys of the structured fields carried by start and end events.
const (
	MethodKey     = "http.method"
	URIKey        = "http.uri"
	ElapsedKey    = "http.elapsed_ms"
	StatusCodeKey = "http.status_code"
	HeadersKey    = "http.headers"
	ContentKey    = "http.content"
)
