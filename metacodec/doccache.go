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

package metacodec

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/nczarr-go/nczarr/ncmap"
	"github.com/nczarr-go/nczarr/nczjson"
)

// docCacheSize bounds the number of parsed metadata documents a DocCache
// keeps resident. A dataset's group/array/attrs documents are small and
// few relative to its chunk data, so this is generous rather than tuned.
const docCacheSize = 256

// DocCache memoizes parsed metadata documents by map key, so that a
// codec reading the same group's or array's document more than once
// while opening a dataset (spec.md §4.I's per-variable ReadArray then
// ReadAttrs both landing on V3's single zarr.json, for instance) pays
// for the map read and JSON parse only the first time. A nil *DocCache
// is a valid, uncached passthrough, so a codec value's zero DocCache
// field still works.
type DocCache struct {
	docs *lru.Cache[string, *nczjson.Value]
}

// NewDocCache returns a DocCache ready for one codec instance's use.
func NewDocCache() *DocCache {
	c, _ := lru.New[string, *nczjson.Value](docCacheSize)
	return &DocCache{docs: c}
}

// ReadDoc behaves like the package-level ReadDoc, consulting dc first
// and populating it on a miss. Every returned value is a clone, so a
// caller mutating its own copy (WriteAttrs's read-modify-write, for
// instance) never corrupts what other callers see from the cache.
func (dc *DocCache) ReadDoc(ctx context.Context, m ncmap.Map, key string) (*nczjson.Value, error) {
	if dc == nil {
		return ReadDoc(ctx, m, key)
	}
	if v, ok := dc.docs.Get(key); ok {
		return v.Clone(), nil
	}
	v, err := ReadDoc(ctx, m, key)
	if err != nil {
		return nil, err
	}
	dc.docs.Add(key, v.Clone())
	return v, nil
}

// WriteDoc behaves like the package-level WriteDoc, additionally
// refreshing dc's entry for key so a subsequent ReadDoc sees the write
// without round-tripping through the map.
func (dc *DocCache) WriteDoc(ctx context.Context, m ncmap.Map, key string, v *nczjson.Value) error {
	if err := WriteDoc(ctx, m, key, v); err != nil {
		return err
	}
	if dc != nil {
		dc.docs.Add(key, v.Clone())
	}
	return nil
}
