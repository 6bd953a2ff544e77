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

package zarrv2

import (
	"github.com/nczarr-go/nczarr/codec"
	"github.com/nczarr-go/nczarr/filter"
	"github.com/nczarr-go/nczarr/iohelp"
	"github.com/nczarr-go/nczarr/nczjson"
	"github.com/nczarr-go/nczarr/objtree"
)

// HDF2Codec renders f to V2's on-disk compressor/filter dict shape:
// `{"id": <name>, <configuration keys flattened in>}`, the inverse of
// the internal `{"name":..., "configuration":{...}}` shape every
// plugin produces (spec.md §4.G).
func (c *Codec) HDF2Codec(f filter.Filter) *nczjson.Value {
	internal := f.ToCodecJSON()
	if internal == nil {
		return nczjson.NewNull()
	}

	out := nczjson.NewDict()
	if nameVal, ok := internal.Get("name"); ok {
		out.Set("id", nameVal)
	} else if idVal, ok := internal.Get("id"); ok {
		out.Set("id", idVal)
	}
	if cfg, ok := internal.Get("configuration"); ok && cfg.Kind == nczjson.KindDict {
		for _, e := range cfg.Dict {
			out.Set(e.Key, e.Value)
		}
	}
	return out
}

// Codec2HDF is the inverse of HDF2Codec: it rewrites a V2
// `{"id":..., ...}` dict into the internal `{"name":...,
// "configuration":{...}}` shape before handing it to
// filter.FromCodecJSON.
func (c *Codec) Codec2HDF(reg *codec.Registry, codecJSON *nczjson.Value) filter.Filter {
	internal := nczjson.NewDict()
	cfg := nczjson.NewDict()
	for _, e := range codecJSON.Dict {
		if e.Key == "id" {
			internal.Set("name", e.Value)
			continue
		}
		cfg.Set(e.Key, e.Value)
	}
	internal.Set("configuration", cfg)
	return filter.FromCodecJSON(reg, internal)
}

// BuildChunkKey builds the V2 chunk key for v's chunk at index, using
// v's own dimension separator rather than the dataset-wide default.
func (c *Codec) BuildChunkKey(v *objtree.Variable, index []uint64) string {
	return iohelp.BuildChunkKey(v.Rank, index, v.Sep, false)
}
