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

package cacheindex

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetAndPut(t *testing.T) {
	assert := assert.New(t)

	idx := New()
	idx.Put(HashKey([]byte("a")), "contentsA")
	idx.Put(HashKey([]byte("b")), "contentsB")

	v, ok := idx.Get(HashKey([]byte("a")))
	assert.True(ok)
	assert.Equal("contentsA", v)

	v, ok = idx.Get(HashKey([]byte("b")))
	assert.True(ok)
	assert.Equal("contentsB", v)
}

func TestPutDropsLRUUnderExternalEviction(t *testing.T) {
	// cacheindex itself does not impose a capacity; eviction policy lives
	// in chunkcache. Here we only check PopLast returns strict LRU order.
	assert := assert.New(t)

	idx := New()
	keys := []string{"db1", "db2", "db3", "db4", "db5"}
	for _, k := range keys {
		idx.Put(HashKey([]byte(k)), k)
	}

	for _, want := range keys {
		_, v, ok := idx.PopLast()
		assert.True(ok)
		assert.Equal(want, v)
	}
	_, _, ok := idx.PopLast()
	assert.False(ok)
}

func TestTouchPromotesToMRU(t *testing.T) {
	assert := assert.New(t)

	idx := New()
	idx.Put(HashKey([]byte("A")), "A")
	idx.Put(HashKey([]byte("B")), "B")
	idx.Put(HashKey([]byte("C")), "C")

	// LRU order right now (oldest first): A, B, C
	idx.Touch(HashKey([]byte("A")))
	// Now LRU order should be: B, C, A
	_, v, _ := idx.PopLast()
	assert.Equal("B", v)
	_, v, _ = idx.PopLast()
	assert.Equal("C", v)
	_, v, _ = idx.PopLast()
	assert.Equal("A", v)
}

func TestEvictionOrderingScenario(t *testing.T) {
	// Mirrors spec.md §8 scenario 6: access order A B A C with budget 2.
	assert := assert.New(t)

	idx := New()
	access := func(k string) {
		h := HashKey([]byte(k))
		if _, ok := idx.Get(h); ok {
			idx.Touch(h)
			return
		}
		idx.Put(h, k)
		if idx.Len() > 2 {
			idx.PopLast()
		}
	}

	access("A")
	access("B")
	access("A")
	access("C")

	_, ok := idx.Get(HashKey([]byte("B")))
	assert.False(ok, "B should have been evicted")
	_, ok = idx.Get(HashKey([]byte("A")))
	assert.True(ok)
	_, ok = idx.Get(HashKey([]byte("C")))
	assert.True(ok)
}

func TestRemove(t *testing.T) {
	assert := assert.New(t)

	idx := New()
	idx.Put(HashKey([]byte("x")), 1)
	v, ok := idx.Remove(HashKey([]byte("x")))
	assert.True(ok)
	assert.Equal(1, v)

	_, ok = idx.Get(HashKey([]byte("x")))
	assert.False(ok)
}

func TestModifyUpgradesToExclusive(t *testing.T) {
	assert := assert.New(t)

	idx := New()
	idx.Put(HashKey([]byte("n")), 1)
	ok := idx.Modify(HashKey([]byte("n")), func(v interface{}) interface{} {
		return v.(int) + 41
	})
	assert.True(ok)
	v, _ := idx.Get(HashKey([]byte("n")))
	assert.Equal(42, v)

	ok = idx.Modify(HashKey([]byte("missing")), func(v interface{}) interface{} { return v })
	assert.False(ok)
}

func TestConcurrentReadsDoNotRace(t *testing.T) {
	idx := New()
	for i := 0; i < 100; i++ {
		idx.Put(uint64(i), i)
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				idx.Get(uint64(j))
			}
		}()
	}
	wg.Wait()
}

func TestFirstLast(t *testing.T) {
	assert := assert.New(t)

	idx := New()
	_, ok := idx.First()
	assert.False(ok)

	idx.Put(HashKey([]byte("a")), "a")
	idx.Put(HashKey([]byte("b")), "b")

	first, ok := idx.First()
	assert.True(ok)
	assert.Equal("b", first)

	last, ok := idx.Last()
	assert.True(ok)
	assert.Equal("a", last)
}
