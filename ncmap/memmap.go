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

package ncmap

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/nczarr-go/nczarr/internal/ncerr"
)

// MemMap is an in-process Map, grounded on the teacher's MemoryStorage
// test double (store/chunks/test_utils.go's TestStorage). Callers get
// an isolated instance from NewMemMap; ncspec keeps a name-keyed
// registry of these (see ncspec/backends.go's openMemMap) so that a
// mem:// URL behaves like a durable store across repeated opens within
// one process.
type MemMap struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemMap returns an empty in-memory Map.
func NewMemMap() *MemMap {
	return &MemMap{data: make(map[string][]byte)}
}

func (m *MemMap) Exists(_ context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[key]
	return ok, nil
}

func (m *MemMap) Len(_ context.Context, key string) (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return 0, ncerr.New(ncerr.EmptyObject, "key %q not found", key)
	}
	return uint64(len(v)), nil
}

func (m *MemMap) Read(_ context.Context, key string, offset, count uint64) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ncerr.New(ncerr.EmptyObject, "key %q not found", key)
	}
	if offset > uint64(len(v)) {
		return nil, ncerr.New(ncerr.Internal, "read offset %d past end of %q (len %d)", offset, key, len(v))
	}
	end := offset + count
	if end > uint64(len(v)) {
		end = uint64(len(v))
	}
	out := make([]byte, end-offset)
	copy(out, v[offset:end])
	return out, nil
}

func (m *MemMap) Write(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	m.data[key] = cp
	return nil
}

func (m *MemMap) List(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	prefix = strings.TrimSuffix(prefix, "/") + "/"
	seen := map[string]bool{}
	var out []string
	for k := range m.data {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		rest := k[len(prefix):]
		if i := strings.Index(rest, "/"); i >= 0 {
			rest = rest[:i]
		}
		if rest == "" || seen[rest] {
			continue
		}
		seen[rest] = true
		out = append(out, rest)
	}
	sort.Strings(out)
	return out, nil
}

func (m *MemMap) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MemMap) Truncate(_ context.Context, rootURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := strings.TrimSuffix(rootURL, "/") + "/"
	for k := range m.data {
		if strings.HasPrefix(k, prefix) || k == rootURL {
			delete(m.data, k)
		}
	}
	return nil
}

func (m *MemMap) Close(ctx context.Context, del bool) error {
	if del {
		m.mu.Lock()
		m.data = make(map[string][]byte)
		m.mu.Unlock()
	}
	return nil
}

func (m *MemMap) CanList() bool { return true }
