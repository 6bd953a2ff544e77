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

// Package ncmap defines the key-value Map abstraction every persistent
// byte in the engine travels over (spec.md §4.A), and the concrete
// backends that implement it: an in-process map for tests, a local
// filesystem map, and cloud/HTTP maps for remote object stores. Keys are
// POSIX-like '/'-separated paths.
package ncmap

import (
	"context"

	"github.com/nczarr-go/nczarr/internal/ncerr"
)

// Map is the uniform key-value store every format codec reads and
// writes metadata and chunk bytes through.
type Map interface {
	// Exists reports whether key is present.
	Exists(ctx context.Context, key string) (bool, error)
	// Len returns the byte length of key's value. Returns an
	// ncerr.EmptyObject error if key is absent.
	Len(ctx context.Context, key string) (uint64, error)
	// Read returns count bytes of key's value starting at offset.
	// Returns an ncerr.EmptyObject error if key is absent.
	Read(ctx context.Context, key string, offset, count uint64) ([]byte, error)
	// Write stores data under key, replacing any existing value.
	Write(ctx context.Context, key string, data []byte) error
	// List returns the immediate names under prefix. Implementations
	// that cannot list return an ncerr.Error with a backend-specific
	// "cannot list" kind; see CantList.
	List(ctx context.Context, prefix string) ([]string, error)
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Truncate removes every key at or below rootURL, used when
	// recreating a dataset in place.
	Truncate(ctx context.Context, rootURL string) error
	// Close releases backend resources. If del is true, the entire
	// dataset rooted at this map is also removed (mirrors Truncate).
	Close(ctx context.Context, del bool) error
}

// Listable lets callers probe whether a backend supports List without
// attempting (and logging) a failing call. Unlistable backends also
// implement it: HTTPMap reports false and fails List with CantList.
type Listable interface {
	CanList() bool
}

// CantList, CantWrite, CantRemove are the specific error kinds an
// unlistable/read-only backend reports for operations it cannot perform,
// per spec.md §6.
var (
	CantList   = ncerr.New(ncerr.Internal, "map: backend cannot list")
	CantWrite  = ncerr.New(ncerr.Permission, "map: backend cannot write")
	CantRemove = ncerr.New(ncerr.Permission, "map: backend cannot remove")
)

// Empty reports whether err signals an absent key (spec.md §4.A's
// EMPTY), the condition higher layers may upgrade to NotZarr.
func Empty(err error) bool {
	return ncerr.Is(err, ncerr.EmptyObject)
}
