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

// Package iohelp holds the low-level glue shared by the V2 and V3
// metadata codecs: chunk key construction, endianness conversion,
// canonical fill-chunk synthesis, and a string-aware bulk data copy.
package iohelp

import (
	"strconv"
	"strings"
)

// BuildChunkKey constructs the map key for chunk index K of a
// variable with the given rank and dimension separator, per spec
// section 3's Chunk key entity:
//
//	V2: join(sep, [str(K[0]),...,str(K[r-1])])
//	V3: "c" + sep + join(sep, [str(K[0]),...,str(K[r-1])])
//
// and the scalar special cases "0" (V2) / "c" (V3).
func BuildChunkKey(rank int, index []uint64, sep byte, v3 bool) string {
	if rank == 0 {
		if v3 {
			return "c"
		}
		return "0"
	}
	parts := make([]string, len(index))
	for i, k := range index {
		parts[i] = strconv.FormatUint(k, 10)
	}
	joined := strings.Join(parts, string(sep))
	if v3 {
		return "c" + string(sep) + joined
	}
	return joined
}
