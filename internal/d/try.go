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

// Package d provides invariant-checking helpers used throughout the engine
// in place of ad-hoc error returns for conditions that indicate a
// programmer error rather than a recoverable runtime failure.
package d

import "fmt"

// PanicIfTrue panics with msgAndArgs if cond is true.
func PanicIfTrue(cond bool, msgAndArgs ...interface{}) {
	if cond {
		panic(format(msgAndArgs))
	}
}

// PanicIfFalse panics with msgAndArgs if cond is false.
func PanicIfFalse(cond bool, msgAndArgs ...interface{}) {
	if !cond {
		panic(format(msgAndArgs))
	}
}

// PanicIfError panics if err is non-nil, returning nothing useful to the
// caller since control never returns on the error path.
func PanicIfError(err error) {
	if err != nil {
		panic(err)
	}
}

// PanicIfNotType panics unless v's concrete type matches one of types.
func PanicIfNotType(v interface{}, types ...interface{}) interface{} {
	if !causeInTypes(v, types...) {
		panic(fmt.Sprintf("unexpected type %T", v))
	}
	return v
}

func causeInTypes(v interface{}, types ...interface{}) bool {
	for _, t := range types {
		if fmt.Sprintf("%T", v) == fmt.Sprintf("%T", t) {
			return true
		}
	}
	return false
}

func format(msgAndArgs []interface{}) string {
	if len(msgAndArgs) == 0 {
		return "invariant violated"
	}
	if s, ok := msgAndArgs[0].(string); ok {
		return fmt.Sprintf(s, msgAndArgs[1:]...)
	}
	return fmt.Sprint(msgAndArgs...)
}

type wrappedError struct {
	msg   string
	cause error
}

func (w wrappedError) Error() string { return w.msg }
func (w wrappedError) Cause() error  { return w.cause }
func (w wrappedError) Unwrap() error { return w.cause }

// Wrap attaches a stack-free cause chain to err, matching the shape the
// engine's own Error type expects from Cause(). Wrapping nil returns nil;
// wrapping an already-wrapped error is a no-op.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	if we, ok := err.(wrappedError); ok {
		return we
	}
	return wrappedError{msg: err.Error(), cause: err}
}

// Unwrap returns the innermost cause of err, or err itself if it carries
// no cause.
func Unwrap(err error) error {
	for {
		we, ok := err.(wrappedError)
		if !ok {
			return err
		}
		err = we.cause
	}
}
