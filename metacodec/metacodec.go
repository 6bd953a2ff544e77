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

// Package metacodec defines the shared FormatCodec interface that the
// zarrv2 and zarrv3 packages each implement, and that the dispatcher
// (spec.md §4.I) holds as a single boxed interface value rather than a
// C-style function-pointer dispatch table (spec.md §9).
package metacodec

import (
	"context"

	"github.com/nczarr-go/nczarr/codec"
	"github.com/nczarr-go/nczarr/filter"
	"github.com/nczarr-go/nczarr/ncmap"
	"github.com/nczarr-go/nczarr/nczjson"
	"github.com/nczarr-go/nczarr/objtree"
)

// AttrContainer is implemented by both *objtree.Group and
// *objtree.Variable, the two polymorphic attribute-holder slots
// spec.md §9 calls out for replacing a tagged void* with a proper
// interface.
type AttrContainer interface {
	Attributes() []*objtree.Attribute
	AddAttribute(a *objtree.Attribute) error
}

// FormatCodec is the set of operations a Zarr format version must
// provide so the dispatcher can read and write metadata without
// knowing which version it is talking to (spec.md §4.I): create/open
// collapse into ReadGroup/WriteGroup at the root; read_meta/write_meta
// split into the Group/Array pairs below; read_attrs/write_attrs are
// format-specific because V2 and V3 spell attribute-type side tables
// differently; build_chunkkey and the hdf2codec/codec2hdf pair are
// exposed directly since V2 and V3 key and frame filters differently.
type FormatCodec interface {
	// WriteGroup serializes g's own metadata document (not its
	// children, which the caller walks separately).
	WriteGroup(ctx context.Context, m ncmap.Map, g *objtree.Group) error
	// ReadGroup populates g's dimension side table from its on-disk
	// metadata document and reports the names of child groups and
	// variables the caller should recurse into; it does not itself
	// create or open those children.
	ReadGroup(ctx context.Context, m ncmap.Map, g *objtree.Group) (childGroups, childVars []string, err error)

	// ResolveArrayDims determines the dimension FQNs an about-to-be-opened
	// array named name (a child of g) should be constructed with, reading
	// just enough of the array's metadata document to do so. It is the
	// dimension-resolution step spec.md §4.H describes for V3
	// (`_nczarr_array.dimensions` FQNs, falling back to `dimension_names`
	// walked against the group hierarchy, creating or synthesizing a
	// dimension when none matches); V2 mirrors it from `_nczarr_array.
	// dimrefs`, with the same shape-driven synthesis as a purezarr
	// fallback. It may create dimensions in g or an ancestor as a side
	// effect. Callers pass the returned FQNs to Group.AddVariable before
	// calling ReadArray.
	ResolveArrayDims(ctx context.Context, m ncmap.Map, g *objtree.Group, name string) (dimRefs []string, err error)

	// WriteArray serializes v's array metadata document.
	WriteArray(ctx context.Context, m ncmap.Map, v *objtree.Variable) error
	// ReadArray populates v's shape/chunks/type/filter fields from its
	// on-disk array metadata document.
	ReadArray(ctx context.Context, m ncmap.Map, v *objtree.Variable) error

	// WriteAttrs serializes container's attributes into its format's
	// attribute document (V2: `.zattrs` + `_nczarr_attrs.types`; V3:
	// the `attributes` object embedded in `zarr.json` plus
	// `_nczarr_attrs.attribute_types`).
	WriteAttrs(ctx context.Context, m ncmap.Map, path string, container AttrContainer) error
	// ReadAttrs is the inverse of WriteAttrs.
	ReadAttrs(ctx context.Context, m ncmap.Map, path string, container AttrContainer) error

	// BuildChunkKey builds the on-disk key for one chunk of v, relative
	// to v's own key prefix (spec.md §3's chunk key formula).
	BuildChunkKey(v *objtree.Variable, index []uint64) string

	// HDF2Codec renders one filter chain entry to this format's codec
	// JSON spelling.
	HDF2Codec(f filter.Filter) *nczjson.Value
	// Codec2HDF is the inverse of HDF2Codec, looking the codec up in
	// reg to recover (or fail to recover, leaving it INCOMPLETE) its
	// HDF5-side parameters.
	Codec2HDF(reg *codec.Registry, codecJSON *nczjson.Value) filter.Filter
}
