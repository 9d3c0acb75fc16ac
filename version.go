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

// Version is the current version of the httplog library.
// It can be overridden at build time via -ldflags.
var Version = "v0.1.0-alpha"

// instrumentationName identifies httplog to OpenTelemetry tracer providers.
const instrumentationName = "github.com/pjscruggs/httplog"

// GetVersion returns the current library version string.
func GetVersion() string { return Version }
