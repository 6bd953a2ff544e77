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

package nczarr

import (
	"context"

	"github.com/nczarr-go/nczarr/chunkcache"
	"github.com/nczarr-go/nczarr/internal/ncerr"
	"github.com/nczarr-go/nczarr/nctype"
	"github.com/nczarr-go/nczarr/objtree"
)

// GetChunk returns the decoded bytes of one chunk of v, building (or
// synthesizing a fill chunk for) it on a cache miss.
func (ds *Dataset) GetChunk(ctx context.Context, v *objtree.Variable, index []uint64) ([]byte, error) {
	if v.Suppressed() {
		return nil, ncerr.New(ncerr.Filter, "variable %q: data access suppressed", v.Name())
	}
	return v.Cache.Get(ctx, chunkcache.Key{VarID: v.ObjectID(), Index: index})
}

// PutChunk stores buf as one chunk of v, marking it dirty so it is
// flushed (filter-encoded and written to the map) on eviction or Close.
func (ds *Dataset) PutChunk(ctx context.Context, v *objtree.Variable, index []uint64, buf []byte) error {
	if v.Suppressed() {
		return ncerr.New(ncerr.Filter, "variable %q: data access suppressed", v.Name())
	}
	v.InvalidateFillChunk()
	return v.Cache.Insert(ctx, chunkcache.Key{VarID: v.ObjectID(), Index: index}, buf, true)
}

// elementSize returns the on-disk width in bytes of one element of t, or
// 0 for a variable-width type (GetAll/PutAll require a fixed element
// width; callers with string data use GetChunk/PutChunk directly
// against the chunk grid instead).
func elementSize(t nctype.Type) int {
	switch t {
	case nctype.Byte, nctype.UByte, nctype.Char:
		return 1
	case nctype.Short, nctype.UShort:
		return 2
	case nctype.Int, nctype.UInt, nctype.Float:
		return 4
	case nctype.Int64, nctype.UInt64, nctype.Double:
		return 8
	default:
		return 0
	}
}

func ceilDiv(a, b uint64) uint64 {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}

// chunkGridDims returns, for each dimension, the number of chunks it
// takes to cover v's shape.
func chunkGridDims(v *objtree.Variable) []uint64 {
	dims := make([]uint64, v.Rank)
	for i := range dims {
		dims[i] = ceilDiv(v.Shape[i], v.Chunks[i])
	}
	return dims
}

// nextGridIndex advances idx to the next point in the mixed-radix space
// bounded by dims (row-major, last dimension fastest), reporting false
// once every point has been visited.
func nextGridIndex(idx, dims []uint64) bool {
	for i := len(idx) - 1; i >= 0; i-- {
		idx[i]++
		if idx[i] < dims[i] {
			return true
		}
		idx[i] = 0
	}
	return false
}

// strides returns the row-major element strides for a box of the given
// per-dimension extents.
func strides(extents []uint64) []uint64 {
	out := make([]uint64, len(extents))
	acc := uint64(1)
	for i := len(extents) - 1; i >= 0; i-- {
		out[i] = acc
		acc *= extents[i]
	}
	return out
}

// GetAll reads every chunk covering v's current shape and assembles
// them into one densely packed, row-major buffer. It supports every
// fixed-width atomic type; variable-width nctype.String data must be
// read chunk by chunk via GetChunk.
func (ds *Dataset) GetAll(ctx context.Context, v *objtree.Variable) ([]byte, error) {
	elemSize := elementSize(v.Type)
	if elemSize == 0 {
		return nil, ncerr.New(ncerr.Internal, "variable %q: GetAll does not support variable-width types", v.Name())
	}
	total := uint64(1)
	for _, n := range v.Shape {
		total *= n
	}
	out := make([]byte, total*uint64(elemSize))
	if v.Rank == 0 {
		buf, err := ds.GetChunk(ctx, v, nil)
		if err != nil {
			return nil, err
		}
		copy(out, buf)
		return out, nil
	}

	outStrides := strides(v.Shape)
	gridDims := chunkGridDims(v)
	chunkIdx := make([]uint64, v.Rank)
	for {
		buf, err := ds.GetChunk(ctx, v, append([]uint64(nil), chunkIdx...))
		if err != nil {
			return nil, err
		}
		start := make([]uint64, v.Rank)
		extent := make([]uint64, v.Rank)
		for i := range start {
			start[i] = chunkIdx[i] * v.Chunks[i]
			end := start[i] + v.Chunks[i]
			if end > v.Shape[i] {
				end = v.Shape[i]
			}
			extent[i] = end - start[i]
		}
		copyBox(out, buf, outStrides, strides(v.Chunks), start, zeros(v.Rank), extent, elemSize)

		if !nextGridIndex(chunkIdx, gridDims) {
			break
		}
	}
	return out, nil
}

// PutAll splits data (one densely packed, row-major buffer covering
// v's current shape) into chunks and writes each one via PutChunk.
func (ds *Dataset) PutAll(ctx context.Context, v *objtree.Variable, data []byte) error {
	elemSize := elementSize(v.Type)
	if elemSize == 0 {
		return ncerr.New(ncerr.Internal, "variable %q: PutAll does not support variable-width types", v.Name())
	}
	total := uint64(1)
	for _, n := range v.Shape {
		total *= n
	}
	if uint64(len(data)) != total*uint64(elemSize) {
		return ncerr.New(ncerr.Internal, "variable %q: PutAll expects %d bytes, got %d", v.Name(), total*uint64(elemSize), len(data))
	}
	if v.Rank == 0 {
		return ds.PutChunk(ctx, v, nil, append([]byte(nil), data...))
	}

	inStrides := strides(v.Shape)
	gridDims := chunkGridDims(v)
	chunkIdx := make([]uint64, v.Rank)
	for {
		chunkBuf, err := ds.fillChunk(v)
		if err != nil {
			return err
		}
		chunkBuf = append([]byte(nil), chunkBuf...)

		start := make([]uint64, v.Rank)
		extent := make([]uint64, v.Rank)
		for i := range start {
			start[i] = chunkIdx[i] * v.Chunks[i]
			end := start[i] + v.Chunks[i]
			if end > v.Shape[i] {
				end = v.Shape[i]
			}
			extent[i] = end - start[i]
		}
		copyBox(chunkBuf, data, strides(v.Chunks), inStrides, zeros(v.Rank), start, extent, elemSize)
		if err := ds.PutChunk(ctx, v, append([]uint64(nil), chunkIdx...), chunkBuf); err != nil {
			return err
		}

		if !nextGridIndex(chunkIdx, gridDims) {
			break
		}
	}
	return nil
}

// zeros returns an all-zero index of the given rank, the "no offset"
// start for whichever side of a copyBox call is chunk-local.
func zeros(rank int) []uint64 { return make([]uint64, rank) }

// copyBox copies the sub-region described by extent (a per-dimension
// element count) from src, offset by srcStart, into dst, offset by
// dstStart — one of the two starts is always the zero vector (the
// chunk-local side), the other locates the region within the full
// variable shape (GetAll's dst, or PutAll's src). The innermost
// dimension is copied as one contiguous run; outer dimensions are
// walked via a mixed-radix counter so the function works for any rank.
func copyBox(dst, src []byte, dstStrides, srcStrides, dstStart, srcStart, extent []uint64, elemSize int) {
	rank := len(extent)
	if rank == 0 {
		copy(dst, src[:elemSize])
		return
	}
	runLen := extent[rank-1]
	outer := append([]uint64(nil), extent[:rank-1]...)
	local := make([]uint64, rank-1)
	for {
		dstOff := dstStart[rank-1] * dstStrides[rank-1]
		srcOff := srcStart[rank-1] * srcStrides[rank-1]
		for i := 0; i < rank-1; i++ {
			dstOff += (dstStart[i] + local[i]) * dstStrides[i]
			srcOff += (srcStart[i] + local[i]) * srcStrides[i]
		}
		n := runLen * uint64(elemSize)
		copy(dst[dstOff*uint64(elemSize):dstOff*uint64(elemSize)+n], src[srcOff*uint64(elemSize):srcOff*uint64(elemSize)+n])

		if len(outer) == 0 {
			return
		}
		if !nextGridIndex(local, outer) {
			return
		}
	}
}
