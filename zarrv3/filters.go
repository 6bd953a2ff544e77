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

package zarrv3

import (
	"github.com/nczarr-go/nczarr/codec"
	"github.com/nczarr-go/nczarr/filter"
	"github.com/nczarr-go/nczarr/iohelp"
	"github.com/nczarr-go/nczarr/nczjson"
	"github.com/nczarr-go/nczarr/objtree"
)

// HDF2Codec renders f to V3's on-disk codec entry shape, which is
// already the internal `{"name":..., "configuration":{...}}` spelling
// every plugin produces, unlike V2's `{"id":...}` rewrite (spec.md
// §4.H).
func (c *Codec) HDF2Codec(f filter.Filter) *nczjson.Value {
	v := f.ToCodecJSON()
	if v == nil {
		return nczjson.NewNull()
	}
	return v
}

// Codec2HDF is the inverse of HDF2Codec: V3 codec JSON entries need no
// reshaping before filter.FromCodecJSON.
func (c *Codec) Codec2HDF(reg *codec.Registry, codecJSON *nczjson.Value) filter.Filter {
	return filter.FromCodecJSON(reg, codecJSON)
}

// BuildChunkKey builds the V3 chunk key for v's chunk at index: the
// `c` prefix followed by index components joined on v's own
// dimension separator.
func (c *Codec) BuildChunkKey(v *objtree.Variable, index []uint64) string {
	return iohelp.BuildChunkKey(v.Rank, index, v.Sep, true)
}
