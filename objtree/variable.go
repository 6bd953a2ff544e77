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

package objtree

import (
	"github.com/nczarr-go/nczarr/chunkcache"
	"github.com/nczarr-go/nczarr/filter"
	"github.com/nczarr-go/nczarr/internal/ncerr"
	"github.com/nczarr-go/nczarr/nctype"
	"github.com/nczarr-go/nczarr/nczjson"
)

// StorageKind names a variable's storage layout; chunked is the only
// kind ever persisted (spec section 3).
type StorageKind int

const (
	StorageChunked StorageKind = iota
)

// QuantizeMode is the lossy bit-reduction scheme applied to a
// variable's values before encoding, if any.
type QuantizeMode int

const (
	QuantizeNone QuantizeMode = iota
	QuantizeBitGroom
	QuantizeGranularBR
	QuantizeBitRound
)

// FillPolicy is either "no fill" or a single typed fill value.
type FillPolicy struct {
	NoFill bool
	Value  *nczjson.Value
}

// Variable is a named chunked array (spec section 3's Variable
// entity). Dimension references are held by numeric id and resolved
// lazily through ResolveDimension, so Variable never holds a direct
// pointer to a Dimension.
type Variable struct {
	id    uint64
	name  string
	owner *Group

	Type    nctype.Type
	Rank    int
	Shape   []uint64
	Chunks  []uint64
	DimIDs  []uint64
	DimFQNs []string
	Sep     byte
	Endian  nctype.Endian
	Storage StorageKind

	Filters   filter.Chain
	Fill      FillPolicy
	MaxStrlen int

	Quantize    QuantizeMode
	QuantizeNSD int

	Cache *chunkcache.Cache

	atts   []*Attribute
	attIdx map[string]*Attribute

	cachedFillChunk []byte
}

// CachedFillChunk returns the lazily-materialized canonical fill
// chunk, or nil if it has never been built or was invalidated.
func (v *Variable) CachedFillChunk() []byte { return v.cachedFillChunk }

// SetCachedFillChunk stores a freshly-built canonical fill chunk.
func (v *Variable) SetCachedFillChunk(buf []byte) { v.cachedFillChunk = buf }

// InvalidateFillChunk drops the cached fill chunk, forcing the next
// read of an unwritten chunk to resynthesize it. Called whenever
// _FillValue changes.
func (v *Variable) InvalidateFillChunk() { v.cachedFillChunk = nil }

func (v *Variable) ObjectID() uint64     { return v.id }
func (v *Variable) ObjectName() string   { return v.name }
func (v *Variable) ObjectSort() Sort     { return SortVar }
func (v *Variable) ObjectParent() *Group { return v.owner }

// Name returns the variable's simple name.
func (v *Variable) Name() string { return v.name }

// Owner returns the group the variable is defined in.
func (v *Variable) Owner() *Group { return v.owner }

// ResolveDimension resolves the i'th dimension reference by walking
// from the owning group upward through its ancestors, since a
// variable may reference a dimension declared in a parent group.
func (v *Variable) ResolveDimension(i int) (*Dimension, error) {
	if i < 0 || i >= len(v.DimIDs) {
		return nil, ncerr.New(ncerr.Internal, "variable %q: dimension index %d out of range", v.name, i)
	}
	id := v.DimIDs[i]
	for g := v.owner; g != nil; g = g.parent {
		if d, ok := g.DimensionByID(id); ok {
			return d, nil
		}
	}
	return nil, ncerr.New(ncerr.BadDim, "variable %q: dimension id %d no longer exists", v.name, id)
}

// SetChunks sets the variable's chunk shape, which must have the same
// rank as its shape (except for scalars, where both are internally
// [1]).
func (v *Variable) SetChunks(chunks []uint64) error {
	if v.Rank == 0 {
		if len(chunks) != 1 || chunks[0] != 1 {
			return ncerr.New(ncerr.Internal, "scalar variable %q: chunks must be [1]", v.name)
		}
		v.Chunks = chunks
		return nil
	}
	if len(chunks) != v.Rank {
		return ncerr.New(ncerr.Internal, "variable %q: chunk rank %d != variable rank %d", v.name, len(chunks), v.Rank)
	}
	for i, c := range chunks {
		if c < 1 {
			return ncerr.New(ncerr.Internal, "variable %q: chunk dimension %d must be >= 1, got %d", v.name, i, c)
		}
	}
	v.Chunks = chunks
	return nil
}

// ChunkSize returns the number of elements in one chunk, the product
// of the chunk shape.
func (v *Variable) ChunkSize() uint64 {
	n := uint64(1)
	for _, c := range v.Chunks {
		n *= c
	}
	return n
}

// Attributes returns the ordered list of attributes on this variable.
func (v *Variable) Attributes() []*Attribute { return v.atts }

// AddAttribute attaches an attribute to this variable.
func (v *Variable) AddAttribute(a *Attribute) error {
	if v.attIdx == nil {
		v.attIdx = make(map[string]*Attribute)
	}
	if _, exists := v.attIdx[a.Name]; exists {
		return ncerr.New(ncerr.NameInUse, "attribute %q already exists on variable %q", a.Name, v.name)
	}
	a.container = v
	v.atts = append(v.atts, a)
	v.attIdx[a.Name] = a
	return nil
}

// Attribute looks up an attribute attached to this variable by name.
func (v *Variable) Attribute(name string) (*Attribute, bool) {
	a, ok := v.attIdx[name]
	return a, ok
}

// Suppressed reports whether the variable's data is currently
// inaccessible: an empty shape, or a filter chain the variable's own
// type can't support (an incomplete non-pseudo filter, or a
// variable-width type such as String/JSON carrying any non-bytes
// filter) (spec section 8's boundary behaviors and the filter chain's
// suppression rule).
func (v *Variable) Suppressed() bool {
	if len(v.Shape) == 0 && v.Rank > 0 {
		return true
	}
	return v.Filters.Suppressed(v.Type.IsFixedSize())
}
