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

// Package zarrv3 implements the Zarr V3 metadata codec (spec.md §4.H):
// a single `zarr.json` document per group and per array, plus the
// `_nczarr_*` extension keys NCZarr needs on top of plain Zarr V3 to
// recover netCDF semantics (dimension FQNs, attribute types, the
// whole-hierarchy superblock tree on the root).
package zarrv3

import (
	"strings"

	"github.com/nczarr-go/nczarr/codec"
	"github.com/nczarr-go/nczarr/metacodec"
)

// ZarrFormat is the `zarr_format` integer this codec emits and expects.
const ZarrFormat = 3

const zarrJSONFile = "zarr.json"

// Codec implements metacodec.FormatCodec for Zarr V3.
type Codec struct {
	Reg  *codec.Registry
	docs *metacodec.DocCache
}

// New returns a V3 Codec using the process-wide codec registry.
func New() *Codec {
	return &Codec{Reg: codec.Default(), docs: metacodec.NewDocCache()}
}

func joinKey(parts ...string) string {
	var b strings.Builder
	first := true
	for _, p := range parts {
		p = strings.Trim(p, "/")
		if p == "" {
			continue
		}
		if !first {
			b.WriteByte('/')
		}
		b.WriteString(p)
		first = false
	}
	return b.String()
}
