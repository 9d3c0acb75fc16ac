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

// Package stopwatch measures elapsed time for a single stage invocation.
package stopwatch

import "time"

// Clock supplies the current time. Readings from time.Now carry a monotonic
// component, so subtracting two of them is immune to wall clock changes.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System is the Clock backed by time.Now.
var System Clock = systemClock{}

// Stopwatch is a value type holding the reference point captured by Start.
// The zero Stopwatch reports zero elapsed time.
type Stopwatch struct {
	clock Clock
	start time.Time
}

// StartNew starts a Stopwatch on the system clock.
func StartNew() Stopwatch {
	return Start(nil)
}

// Start captures the current reading of clock. A nil clock selects System.
func Start(clock Clock) Stopwatch {
	if clock == nil {
		clock = System
	}
	return Stopwatch{clock: clock, start: clock.Now()}
}

// Elapsed returns the duration since Start. It may be called any number of
// times and never blocks.
func (s Stopwatch) Elapsed() time.Duration {
	if s.clock == nil {
		return 0
	}
	return s.clock.Now().Sub(s.start)
}

// Milliseconds converts d to fractional milliseconds.
func Milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
