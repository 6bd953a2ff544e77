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
	"github.com/nczarr-go/nczarr/iohelp"
	"github.com/nczarr-go/nczarr/objtree"
)

// wireCache attaches a chunk cache to v, backed by the dataset's map
// through the active format codec's chunk-key formula and v's own
// filter chain (spec.md §4.F).
func (ds *Dataset) wireCache(v *objtree.Variable) {
	v.Cache = chunkcache.New(ds.cacheBudget, ds.buildChunk(v), ds.flushChunk(v))
}

func (ds *Dataset) chunkMapKey(v *objtree.Variable, index []uint64) string {
	return joinKey(v.Owner().Path(), v.Name(), ds.codec.BuildChunkKey(v, index))
}

// buildChunk reads one chunk's bytes from the map and runs them back
// through v's filter chain, or synthesizes the canonical fill chunk
// when the chunk has never been written (spec.md §4.F: "a missing
// chunk reads as the fill value").
func (ds *Dataset) buildChunk(v *objtree.Variable) chunkcache.BuildFunc {
	return func(ctx context.Context, key chunkcache.Key) ([]byte, error) {
		mapKey := ds.chunkMapKey(v, key.Index)
		exists, err := ds.m.Exists(ctx, mapKey)
		if err != nil {
			return nil, err
		}
		if !exists {
			return ds.fillChunk(v)
		}
		raw, err := readAll(ctx, ds.m, mapKey)
		if err != nil {
			return nil, err
		}
		decoded, err := v.Filters.Decode(raw)
		if err != nil {
			return nil, err
		}
		// Chunk bytes on disk carry the variable's declared endian; the
		// cache hands callers host-native bytes, so swap in place here
		// rather than at every GetChunk/GetAll call site.
		if v.Type.IsFixedSize() {
			if err := iohelp.MaybeSwap(decoded, v.Type.Size(), iohelp.ResolveEndian(v.Endian)); err != nil {
				return nil, err
			}
		}
		return decoded, nil
	}
}

// flushChunk runs a dirty chunk's bytes forward through v's filter
// chain and writes the result to the map.
func (ds *Dataset) flushChunk(v *objtree.Variable) chunkcache.FlushFunc {
	return func(ctx context.Context, key chunkcache.Key, buf []byte) error {
		onDisk := buf
		// buf is the cache's live host-native copy (it survives a
		// non-evicting Flush), so swap a scratch copy rather than buf
		// itself.
		if v.Type.IsFixedSize() {
			onDisk = make([]byte, len(buf))
			copy(onDisk, buf)
			if err := iohelp.MaybeSwap(onDisk, v.Type.Size(), iohelp.ResolveEndian(v.Endian)); err != nil {
				return err
			}
		}
		encoded, err := v.Filters.Encode(onDisk)
		if err != nil {
			return err
		}
		return ds.m.Write(ctx, ds.chunkMapKey(v, key.Index), encoded)
	}
}

// fillChunk returns v's canonical fill chunk, building and caching it
// on the variable the first time it is needed.
func (ds *Dataset) fillChunk(v *objtree.Variable) ([]byte, error) {
	if buf := v.CachedFillChunk(); buf != nil {
		return buf, nil
	}
	endian := iohelp.ResolveEndian(v.Endian)
	var explicit []byte
	if !v.Fill.NoFill && v.Fill.Value != nil {
		var err error
		explicit, err = iohelp.EncodeValue(nil, v.Type, endian, v.MaxStrlen, v.Fill.Value)
		if err != nil {
			return nil, err
		}
	}
	buf, err := iohelp.BuildFillChunk(v.Type, endian, v.MaxStrlen, int(v.ChunkSize()), explicit)
	if err != nil {
		return nil, err
	}
	v.SetCachedFillChunk(buf)
	return buf, nil
}
