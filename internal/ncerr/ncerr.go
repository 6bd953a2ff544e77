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

// Package ncerr defines the error taxonomy shared by every layer of the
// engine (spec.md §7). Every fallible operation returns one of these kinds,
// or nil; nothing in this module panics across a package boundary except
// for programmer-error invariants checked via internal/d.
package ncerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind enumerates the recognized error categories.
type Kind int

const (
	// Internal marks a condition that should be unreachable.
	Internal Kind = iota
	// NotZarr marks metadata that is absent or fails to parse as Zarr/NCZarr.
	NotZarr
	// EmptyObject marks a map key that does not exist.
	EmptyObject
	// BadType marks an invalid or unsupported atomic/dtype value.
	BadType
	// BadName marks a name that fails identifier validation.
	BadName
	// BadDim marks a dangling or mismatched dimension reference.
	BadDim
	// NameInUse marks a name collision within a namespace.
	NameInUse
	// Permission marks a write attempt against a read-only dataset.
	Permission
	// NotInDefine marks an operation only legal while a dataset is still
	// accepting metadata changes (classic-mode define semantics).
	NotInDefine
	// Filter marks a codec failure: bad codec JSON, or a missing plugin
	// encountered in strict/data-access context.
	Filter
	// Range marks a numeric value that overflows its target nctype.
	Range
	// StrictNC3 marks a type/operation the classic model rejects.
	StrictNC3
	// LateFill marks an attempt to set a fill value after data was written.
	LateFill
	// NoSuchObject marks FQN resolution failure.
	NoSuchObject
)

func (k Kind) String() string {
	switch k {
	case NotZarr:
		return "NotZarr"
	case EmptyObject:
		return "EmptyObject"
	case BadType:
		return "BadType"
	case BadName:
		return "BadName"
	case BadDim:
		return "BadDim"
	case NameInUse:
		return "NameInUse"
	case Permission:
		return "Permission"
	case NotInDefine:
		return "NotInDefine"
	case Filter:
		return "Filter"
	case Range:
		return "Range"
	case StrictNC3:
		return "StrictNC3"
	case LateFill:
		return "LateFill"
	case NoSuchObject:
		return "NoSuchObject"
	default:
		return "Internal"
	}
}

// Error is the concrete error type returned by every public operation in
// this module that can fail for a domain reason (as opposed to a Go
// programmer-error panic).
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.cause }

// New builds an *Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error of the given kind that carries cause as its
// underlying reason, adding a stack via pkg/errors when cause does not
// already carry one.
func Wrap(kind Kind, cause error, format string, args ...interface{}) *Error {
	if cause == nil {
		return New(kind, format, args...)
	}
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), cause: errors.WithStack(cause)}
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}

// KindOf returns the Kind of err, or Internal if err is not an *Error.
func KindOf(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return Internal
}
