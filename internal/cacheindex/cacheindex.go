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

// Package cacheindex implements the generic hashed-key LRU used by the
// chunk cache and by the object tree's FQN lookup cache (spec.md §4.L): a
// 64-bit hash of an arbitrary byte key maps to a node, and nodes are
// additionally linked in an intrusive MRU/LRU list. A single read-write
// lock guards both structures; reads (lookup, peek) acquire it shared,
// any operation that relinks the list acquires it exclusive.
package cacheindex

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// HashKey returns the stable 64-bit hash of key used throughout this
// package's API. Stable across the life of a dataset, per spec.md §4.L.
func HashKey(key []byte) uint64 {
	return xxhash.Sum64(key)
}

type node struct {
	hash  uint64
	value interface{}
	prev  *node
	next  *node
}

// Index is a generic hashed LRU: hash(key) -> value, with MRU/LRU
// traversal. Implementation uses a Go map keyed by the 64-bit hash (an
// open-addressing/extensible-hashing scheme is implementation freedom
// per spec.md §4.L; a Go map is the idiomatic choice here) plus an
// arena-free intrusive doubly linked list, per spec.md §9's "stable
// arena indices, nodes reference buffers by value" guidance realized as
// pointer-stable heap nodes (Go's GC makes an explicit arena unnecessary;
// what matters is that eviction transfers the node's value without
// copying through an intermediate pointer chain the caller doesn't own).
type Index struct {
	mu    sync.RWMutex
	nodes map[uint64]*node
	mru   *node // most-recently-used, list head
	lru   *node // least-recently-used, list tail
}

// New returns an empty Index.
func New() *Index {
	return &Index{nodes: make(map[uint64]*node)}
}

// Len reports the number of entries currently held.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.nodes)
}

// Get performs a read-locked hash probe; a miss returns immediately
// without touching LRU order (callers that want MRU promotion on a hit
// call Touch explicitly, keeping "read" and "structural mutation" calls
// distinct per spec.md §5's shared-resource policy).
func (idx *Index) Get(hash uint64) (interface{}, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	n, ok := idx.nodes[hash]
	if !ok {
		return nil, false
	}
	return n.value, true
}

// Put inserts or replaces the value for hash under a write lock, pushing
// it to the MRU position.
func (idx *Index) Put(hash uint64, value interface{}) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if n, ok := idx.nodes[hash]; ok {
		n.value = value
		idx.unlink(n)
		idx.pushFront(n)
		return
	}
	n := &node{hash: hash, value: value}
	idx.nodes[hash] = n
	idx.pushFront(n)
}

// Remove deletes hash from the index and LRU list under a write lock,
// returning the removed value if present.
func (idx *Index) Remove(hash uint64) (interface{}, bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	n, ok := idx.nodes[hash]
	if !ok {
		return nil, false
	}
	idx.unlink(n)
	delete(idx.nodes, hash)
	return n.value, true
}

// Touch promotes hash to MRU under a write lock. No-op if hash is absent.
func (idx *Index) Touch(hash uint64) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	n, ok := idx.nodes[hash]
	if !ok {
		return
	}
	idx.unlink(n)
	idx.pushFront(n)
}

// Modify looks up hash, applies fn to its current value (fn may return a
// replacement value), and writes the result back, all under a single
// exclusive lock acquisition (spec.md §5: "modify-in-place must upgrade
// to exclusive before mutating"). Returns false if hash is absent.
func (idx *Index) Modify(hash uint64, fn func(interface{}) interface{}) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	n, ok := idx.nodes[hash]
	if !ok {
		return false
	}
	n.value = fn(n.value)
	return true
}

// First returns the MRU value (most recently accessed), with ok=false if
// the index is empty. Read-locked.
func (idx *Index) First() (interface{}, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.mru == nil {
		return nil, false
	}
	return idx.mru.value, true
}

// Last returns the LRU value (least recently accessed, next to be
// evicted), with ok=false if the index is empty. Read-locked.
func (idx *Index) Last() (interface{}, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.lru == nil {
		return nil, false
	}
	return idx.lru.value, true
}

// PopLast removes and returns the current LRU entry's hash and value
// under a write lock; used by eviction.
func (idx *Index) PopLast() (hash uint64, value interface{}, ok bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.lru == nil {
		return 0, nil, false
	}
	n := idx.lru
	idx.unlink(n)
	delete(idx.nodes, n.hash)
	return n.hash, n.value, true
}

// unlink and pushFront assume the caller already holds idx.mu for writing.

func (idx *Index) unlink(n *node) {
	if n.prev != nil {
		n.prev.next = n.next
	} else if idx.mru == n {
		idx.mru = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else if idx.lru == n {
		idx.lru = n.prev
	}
	n.prev, n.next = nil, nil
}

func (idx *Index) pushFront(n *node) {
	n.prev = nil
	n.next = idx.mru
	if idx.mru != nil {
		idx.mru.prev = n
	}
	idx.mru = n
	if idx.lru == nil {
		idx.lru = n
	}
}
