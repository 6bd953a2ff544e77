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

// Package codec implements the process-wide codec plugin registry
// (spec.md §4.D): a lookup from codec/filter id to a Plugin able to
// translate between HDF5-style binary filter parameters and Zarr JSON
// codec configuration. The registry is a lazily-initialized singleton per
// spec.md §9's "global mutable state becomes an explicit Initialize/
// Finalize lifecycle object" guidance, so tests can reset it between
// cases instead of relying on process-lifetime global state.
package codec

import (
	"sync"

	"github.com/nczarr-go/nczarr/nczjson"
)

// Plugin translates one codec/filter between its HDF5 binary-parameter
// form and its Zarr JSON form.
type Plugin interface {
	// ID is the codec/filter identifier ("bytes", "snappy", "zstd", ...).
	ID() string
	// HDF5ToCodec builds the codec JSON configuration from HDF5 visible
	// parameters.
	HDF5ToCodec(visibleParams []uint32) (*nczjson.Value, error)
	// CodecToHDF5 is the inverse: recover HDF5 id/visible params from a
	// codec JSON configuration.
	CodecToHDF5(codecJSON *nczjson.Value) (visibleParams []uint32, err error)
}

// Registry is a concurrency-safe codec id -> Plugin lookup table.
type Registry struct {
	mu      sync.RWMutex
	plugins map[string]Plugin
}

// NewRegistry returns an empty registry. Production code obtains the
// process-wide instance via Default(); tests that need isolation
// construct their own with NewRegistry.
func NewRegistry() *Registry {
	return &Registry{plugins: make(map[string]Plugin)}
}

// Register installs plugin under its own ID, replacing any existing
// plugin with the same ID.
func (r *Registry) Register(p Plugin) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plugins[p.ID()] = p
}

// Lookup returns the plugin for id, or ok=false if none is registered.
func (r *Registry) Lookup(id string) (Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.plugins[id]
	return p, ok
}

// Unregister removes id from the registry, if present.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.plugins, id)
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the process-wide registry, initializing it with the
// built-in plugins (bytes, snappy, zstd) on first use.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultReg = NewRegistry()
		Initialize(defaultReg)
	})
	return defaultReg
}

// Initialize installs the built-in plugins into r. Called automatically
// for the process-wide registry by Default, and explicitly by tests that
// construct their own Registry and want the standard plugin set.
func Initialize(r *Registry) {
	r.Register(BytesPlugin{})
	r.Register(SnappyPlugin{})
	r.Register(ZstdPlugin{})
}

// Finalize clears r. Mirrors the teacher's explicit-lifecycle guidance;
// mostly useful in tests that want to assert no plugins leak between
// cases.
func Finalize(r *Registry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plugins = make(map[string]Plugin)
}
