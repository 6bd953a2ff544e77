// Copyright 2026 The NCZarr-Go Authors.
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

// Package nclog wraps go.uber.org/zap behind the small surface the
// engine actually needs, so that a dataset opened with its logging
// flag (spec.md §3) off never pays for structured-logging allocation:
// a Logger with the flag unset is a valid nil-receiver no-op, not a
// discard sink wrapping a real zap core.
package nclog

import (
	"go.uber.org/zap"
)

// Logger is a thin facade over a *zap.SugaredLogger. The zero value
// (and a nil *Logger) is a safe no-op, so callers that construct a
// dataset with Flags.Logging false never build a zap core at all.
type Logger struct {
	s *zap.SugaredLogger
}

// New builds a Logger backed by a production zap configuration when
// enabled is true, or a no-op Logger otherwise.
func New(enabled bool) (*Logger, error) {
	if !enabled {
		return &Logger{}, nil
	}
	z, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return &Logger{s: z.Sugar()}, nil
}

// Debugf logs a formatted message at debug level. A no-op Logger drops
// it.
func (l *Logger) Debugf(template string, args ...interface{}) {
	if l == nil || l.s == nil {
		return
	}
	l.s.Debugf(template, args...)
}

// Warnf logs a formatted message at warn level for a recoverable but
// surfaced condition. A no-op Logger drops it.
func (l *Logger) Warnf(template string, args ...interface{}) {
	if l == nil || l.s == nil {
		return
	}
	l.s.Warnf(template, args...)
}

// Errorf logs an error the caller is about to return, for operators
// who want the failure visible in logs without parsing returned error
// chains.
func (l *Logger) Errorf(template string, args ...interface{}) {
	if l == nil || l.s == nil {
		return
	}
	l.s.Errorf(template, args...)
}

// Sync flushes any buffered log entries; callers invoke it from
// Dataset.Close.
func (l *Logger) Sync() error {
	if l == nil || l.s == nil {
		return nil
	}
	return l.s.Sync()
}
