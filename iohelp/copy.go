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

package iohelp

import (
	"github.com/nczarr-go/nczarr/internal/ncerr"
	"github.com/nczarr-go/nczarr/nctype"
)

// CopyData copies n elements of type t from src to dst, both byte
// buffers of on-disk element layout. Fixed-width atomic types copy a
// flat n*size(t) byte range; string elements are variable-length, so
// each is copied individually using the per-element length tables
// srcLens/dstLens (srcLens supplies source lengths; matching dstLens
// entries are overwritten with the copied length, since a string
// destination may need to grow).
func CopyData(t nctype.Type, n int, src, dst []byte, srcLens, dstLens []int) (int, error) {
	if t != nctype.String {
		size := t.Size()
		if size <= 0 {
			return 0, ncerr.New(ncerr.Internal, "copydata: type %v has no fixed element size", t)
		}
		total := n * size
		if len(src) < total || len(dst) < total {
			return 0, ncerr.New(ncerr.Internal, "copydata: buffer too small for %d elements of %v", n, t)
		}
		copy(dst[:total], src[:total])
		return total, nil
	}

	if len(srcLens) < n || len(dstLens) < n {
		return 0, ncerr.New(ncerr.Internal, "copydata: string element length tables shorter than n")
	}
	srcOff, dstOff := 0, 0
	for i := 0; i < n; i++ {
		l := srcLens[i]
		if srcOff+l > len(src) || dstOff+l > len(dst) {
			return dstOff, ncerr.New(ncerr.Internal, "copydata: string element %d overruns buffer", i)
		}
		copy(dst[dstOff:dstOff+l], src[srcOff:srcOff+l])
		dstLens[i] = l
		srcOff += l
		dstOff += l
	}
	return dstOff, nil
}
