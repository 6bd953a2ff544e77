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

package nclog

import "testing"

func TestDisabledLoggerIsNoOp(t *testing.T) {
	l, err := New(false)
	if err != nil {
		t.Fatalf("New(false): %v", err)
	}
	l.Debugf("ignored %d", 1)
	l.Warnf("ignored %d", 2)
	l.Errorf("ignored %d", 3)
	if err := l.Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}
}

func TestNilLoggerIsNoOp(t *testing.T) {
	var l *Logger
	l.Debugf("ignored")
	if err := l.Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}
}

func TestEnabledLoggerBuilds(t *testing.T) {
	l, err := New(true)
	if err != nil {
		t.Fatalf("New(true): %v", err)
	}
	if l.s == nil {
		t.Fatal("expected a real zap core when enabled")
	}
}
