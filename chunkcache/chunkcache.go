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

// Package chunkcache implements the per-variable chunk cache of spec.md
// §4.F: chunks are keyed by their multi-dimensional index, held in an LRU
// with a byte budget, and built at most once concurrently per key via a
// singleflight coordinator.
package chunkcache

import (
	"context"
	"encoding/binary"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/nczarr-go/nczarr/internal/cacheindex"
	"github.com/nczarr-go/nczarr/internal/d"
)

// Key identifies one chunk by its owning variable and multi-dimensional
// chunk index.
type Key struct {
	VarID uint64
	Index []uint64
}

// bytes serializes k into a stable byte form for hashing; stability
// across the life of a dataset is all spec.md §4.L requires.
func (k Key) bytes() []byte {
	buf := make([]byte, 8+8*len(k.Index))
	binary.LittleEndian.PutUint64(buf[0:8], k.VarID)
	for i, idx := range k.Index {
		binary.LittleEndian.PutUint64(buf[8+8*i:16+8*i], idx)
	}
	return buf
}

func (k Key) hash() uint64 { return cacheindex.HashKey(k.bytes()) }

func (k Key) sfKey() string { return string(k.bytes()) }

// entry is the value held in the cacheindex node for one chunk.
type entry struct {
	key   Key
	buf   []byte
	dirty bool
}

// asEntry recovers the *entry behind a cacheindex node. Every value ever
// placed in c.idx is constructed by this package as *entry; a mismatch
// here means the index holds something this package never put there, a
// programmer error rather than a condition callers can recover from.
func asEntry(v interface{}) *entry {
	e, ok := v.(*entry)
	d.PanicIfFalse(ok, "chunkcache: index node holds %T, not *entry", v)
	return e
}

// BuildFunc produces the bytes for a missing chunk (map read + filter
// decode, or fill-chunk synthesis). Returning an error fails the Get
// call that triggered the build as well as every caller that joined it
// via singleflight.
type BuildFunc func(ctx context.Context, key Key) ([]byte, error)

// FlushFunc persists a dirty chunk's bytes (filter encode + map write)
// when it is evicted.
type FlushFunc func(ctx context.Context, key Key, buf []byte) error

// Cache is a byte-budgeted, LRU-evicted, single-flighted chunk cache.
type Cache struct {
	idx    *cacheindex.Index
	budget int64

	mu    sync.Mutex // guards used/dirty; cacheindex guards its own structure
	used  int64
	dirty map[uint64]Key
	sfg   singleflight.Group
	build BuildFunc
	flush FlushFunc
}

// New returns a Cache with the given byte budget, build, and flush
// callbacks.
func New(budgetBytes int64, build BuildFunc, flush FlushFunc) *Cache {
	return &Cache{idx: cacheindex.New(), budget: budgetBytes, build: build, flush: flush, dirty: make(map[uint64]Key)}
}

// Lookup performs a read-only probe: a hit promotes to MRU and returns
// the buffer; a miss returns ok=false without triggering a build (use
// Get for that).
func (c *Cache) Lookup(key Key) (buf []byte, ok bool) {
	h := key.hash()
	v, found := c.idx.Get(h)
	if !found {
		return nil, false
	}
	c.idx.Touch(h)
	return asEntry(v).buf, true
}

// Touch promotes key to MRU without returning its value.
func (c *Cache) Touch(key Key) { c.idx.Touch(key.hash()) }

// Insert writes buf into the cache under key, marking it dirty if the
// caller just produced it via a write path. Evicts LRU entries, flushing
// dirty ones, until the cache is back under budget.
func (c *Cache) Insert(ctx context.Context, key Key, buf []byte, dirty bool) error {
	h := key.hash()
	if old, ok := c.idx.Get(h); ok {
		c.mu.Lock()
		c.used -= int64(len(asEntry(old).buf))
		c.mu.Unlock()
	}
	c.idx.Put(h, &entry{key: key, buf: buf, dirty: dirty})
	c.mu.Lock()
	c.used += int64(len(buf))
	if dirty {
		c.dirty[h] = key
	} else {
		delete(c.dirty, h)
	}
	c.mu.Unlock()
	return c.evictUntilUnderBudget(ctx)
}

// Remove evicts key without flushing, returning its buffer if present.
// Callers that need the dirty bytes persisted should Flush explicitly
// first.
func (c *Cache) Remove(key Key) ([]byte, bool) {
	v, ok := c.idx.Remove(key.hash())
	if !ok {
		return nil, false
	}
	e := asEntry(v)
	c.mu.Lock()
	c.used -= int64(len(e.buf))
	delete(c.dirty, key.hash())
	c.mu.Unlock()
	return e.buf, true
}

// First returns the MRU chunk's key, for diagnostics/tests.
func (c *Cache) First() (Key, bool) {
	v, ok := c.idx.First()
	if !ok {
		return Key{}, false
	}
	return asEntry(v).key, true
}

// Last returns the LRU chunk's key (next to be evicted).
func (c *Cache) Last() (Key, bool) {
	v, ok := c.idx.Last()
	if !ok {
		return Key{}, false
	}
	return asEntry(v).key, true
}

// Get returns the cached bytes for key, building them via BuildFunc on a
// miss. Concurrent Get calls for the same key share one build (spec.md
// §4.F's at-most-one-in-flight guarantee), implemented with
// golang.org/x/sync/singleflight rather than a hand-rolled condvar-per-key
// map, per SPEC_FULL.md §3.
func (c *Cache) Get(ctx context.Context, key Key) ([]byte, error) {
	if buf, ok := c.Lookup(key); ok {
		return buf, nil
	}
	v, err, _ := c.sfg.Do(key.sfKey(), func() (interface{}, error) {
		if buf, ok := c.Lookup(key); ok {
			return buf, nil
		}
		buf, err := c.build(ctx, key)
		if err != nil {
			return nil, err
		}
		if err := c.Insert(ctx, key, buf, false); err != nil {
			return nil, err
		}
		return buf, nil
	})
	if err != nil {
		return nil, err
	}
	buf, ok := v.([]byte)
	d.PanicIfFalse(ok, "chunkcache: singleflight returned %T, not []byte", v)
	return buf, nil
}

func (c *Cache) evictUntilUnderBudget(ctx context.Context) error {
	for {
		c.mu.Lock()
		over := c.used > c.budget
		c.mu.Unlock()
		if !over {
			return nil
		}
		hash, v, ok := c.idx.PopLast()
		if !ok {
			return nil
		}
		e := asEntry(v)
		c.mu.Lock()
		c.used -= int64(len(e.buf))
		c.mu.Unlock()
		if e.dirty && c.flush != nil {
			if err := c.flush(ctx, e.key, e.buf); err != nil {
				// Put it back so the data is not silently lost; the
				// caller observes the flush error and may retry.
				c.idx.Put(hash, e)
				c.mu.Lock()
				c.used += int64(len(e.buf))
				c.mu.Unlock()
				return err
			}
		}
		c.mu.Lock()
		delete(c.dirty, hash)
		c.mu.Unlock()
	}
}

// Flush forces every dirty entry through FlushFunc without evicting
// clean entries; used at dataset close (spec.md §3: "close must flush
// all dirty groups/vars").
func (c *Cache) Flush(ctx context.Context) error {
	c.mu.Lock()
	hashes := make([]uint64, 0, len(c.dirty))
	for h := range c.dirty {
		hashes = append(hashes, h)
	}
	c.mu.Unlock()

	for _, h := range hashes {
		v, ok := c.idx.Get(h)
		if !ok {
			continue
		}
		e := asEntry(v)
		if !e.dirty {
			continue
		}
		if c.flush != nil {
			if err := c.flush(ctx, e.key, e.buf); err != nil {
				return err
			}
		}
		c.idx.Modify(h, func(val interface{}) interface{} {
			ent := asEntry(val)
			ent.dirty = false
			return ent
		})
		c.mu.Lock()
		delete(c.dirty, h)
		c.mu.Unlock()
	}
	return nil
}
