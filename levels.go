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
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Level represents the severity of an httplog event. It extends slog.Level
// with a Trace level below Debug and keeps the same integer representation,
// so it can be passed anywhere a slog.Leveler is accepted.
type Level slog.Level

const (
	// LevelTrace is the most verbose level, below Debug.
	LevelTrace Level = -8

	// LevelDebug is the default gate for header and content detail events.
	LevelDebug Level = Level(slog.LevelDebug) // -4

	// LevelInfo is used for start and end events.
	LevelInfo Level = Level(slog.LevelInfo) // 0

	// LevelWarn is used for end events that crossed the slow threshold.
	LevelWarn Level = Level(slog.LevelWarn) // 4

	// LevelError is not emitted by the stages but is accepted as a detail gate.
	LevelError Level = Level(slog.LevelError) // 8
)

// String returns the canonical name of the level. Levels between the defined
// constants render as the nearest lower name plus the offset, e.g.
// "DEBUG+1".
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "TRACE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	}

	var baseLevel Level
	var baseName string

	switch {
	case l < LevelTrace:
		return slog.Level(l).String()
	case l < LevelDebug:
		baseLevel, baseName = LevelTrace, "TRACE"
	case l < LevelInfo:
		baseLevel, baseName = LevelDebug, "DEBUG"
	case l < LevelWarn:
		baseLevel, baseName = LevelInfo, "INFO"
	case l < LevelError:
		baseLevel, baseName = LevelWarn, "WARN"
	default:
		baseLevel, baseName = LevelError, "ERROR"
	}

	return fmt.Sprintf("%s+%d", baseName, int(l-baseLevel))
}

// Level returns the underlying slog.Level value, satisfying slog.Leveler.
func (l Level) Level() slog.Level {
	return slog.Level(l)
}

// ParseLevel converts a level name (TRACE, DEBUG, INFO, WARN/WARNING, ERROR,
// case insensitive) or an integer into a Level.
func ParseLevel(raw string) (Level, error) {
	raw = strings.TrimSpace(strings.ToUpper(raw))
	switch raw {
	case "":
		return 0, strconv.ErrSyntax
	case "TRACE":
		return LevelTrace, nil
	case "DEBUG":
		return LevelDebug, nil
	case "INFO":
		return LevelInfo, nil
	case "WARN", "WARNING":
		return LevelWarn, nil
	case "ERROR":
		return LevelError, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse level %q: %w", raw, strconv.ErrSyntax)
	}
	return Level(n), nil
}
