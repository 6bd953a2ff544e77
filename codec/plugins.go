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

package codec

import (
	"fmt"

	"github.com/dolthub/gozstd"
	"github.com/golang/snappy"

	"github.com/nczarr-go/nczarr/nczjson"
)

// BytesPlugin implements the V3 mandatory pseudo-filter (spec.md §4.E):
// it carries numeric endianness and performs no transformation of the
// chunk bytes themselves. It is synthesized on write and consumed on
// read rather than exposed through `_Codecs`/`_Filters`.
type BytesPlugin struct{}

func (BytesPlugin) ID() string { return "bytes" }

func (BytesPlugin) HDF5ToCodec(visibleParams []uint32) (*nczjson.Value, error) {
	endian := "little"
	if len(visibleParams) > 0 && visibleParams[0] == 1 {
		endian = "big"
	}
	v := nczjson.NewDict()
	v.Set("name", nczjson.NewString("bytes"))
	cfg := nczjson.NewDict()
	cfg.Set("endian", nczjson.NewString(endian))
	v.Set("configuration", cfg)
	return v, nil
}

func (BytesPlugin) CodecToHDF5(codecJSON *nczjson.Value) ([]uint32, error) {
	cfg, ok := codecJSON.Get("configuration")
	if !ok {
		return nil, fmt.Errorf("codec: bytes codec missing configuration")
	}
	endian, ok := cfg.Get("endian")
	if !ok {
		return nil, fmt.Errorf("codec: bytes codec missing endian")
	}
	s, err := endian.AsString()
	if err != nil {
		return nil, err
	}
	switch s {
	case "little":
		return []uint32{0}, nil
	case "big":
		return []uint32{1}, nil
	default:
		return nil, fmt.Errorf("codec: invalid endian %q", s)
	}
}

// SnappyPlugin wires github.com/golang/snappy as a real, working codec
// (spec.md's "out of scope: concrete compressor implementations" excludes
// requiring us to implement a compressor, but does not forbid wiring one
// up to exercise the filter pipeline end-to-end).
type SnappyPlugin struct{}

func (SnappyPlugin) ID() string { return "snappy" }

func (SnappyPlugin) HDF5ToCodec([]uint32) (*nczjson.Value, error) {
	v := nczjson.NewDict()
	v.Set("name", nczjson.NewString("snappy"))
	v.Set("configuration", nczjson.NewDict())
	return v, nil
}

func (SnappyPlugin) CodecToHDF5(*nczjson.Value) ([]uint32, error) {
	return nil, nil
}

// Encode compresses data with snappy.
func (SnappyPlugin) Encode(data []byte) ([]byte, error) {
	return snappy.Encode(nil, data), nil
}

// Decode decompresses snappy-compressed data.
func (SnappyPlugin) Decode(data []byte) ([]byte, error) {
	return snappy.Decode(nil, data)
}

// ZstdPlugin wires github.com/dolthub/gozstd as a second real codec, used
// by round-trip tests and by the "present" counterpart of spec.md
// scenario 4 (missing codec).
type ZstdPlugin struct{}

func (ZstdPlugin) ID() string { return "zstd" }

func (ZstdPlugin) HDF5ToCodec(visibleParams []uint32) (*nczjson.Value, error) {
	level := 3
	if len(visibleParams) > 0 {
		level = int(visibleParams[0])
	}
	v := nczjson.NewDict()
	v.Set("name", nczjson.NewString("zstd"))
	cfg := nczjson.NewDict()
	cfg.Set("level", nczjson.NewInt(int64(level)))
	v.Set("configuration", cfg)
	return v, nil
}

func (ZstdPlugin) CodecToHDF5(codecJSON *nczjson.Value) ([]uint32, error) {
	cfg, ok := codecJSON.Get("configuration")
	if !ok {
		return []uint32{3}, nil
	}
	lvl, ok := cfg.Get("level")
	if !ok {
		return []uint32{3}, nil
	}
	i, err := lvl.AsInt()
	if err != nil {
		return nil, err
	}
	return []uint32{uint32(i)}, nil
}

// DefaultLevel is used by Encode; EncodeLevel exposes an explicit level
// for callers (and tests) that need one other than the default.
const DefaultLevel = 3

// Encode compresses data with zstd at DefaultLevel, satisfying the same
// Encode(data) ([]byte, error) shape as SnappyPlugin so both can be
// driven uniformly by the filter chain.
func (z ZstdPlugin) Encode(data []byte) ([]byte, error) {
	return z.EncodeLevel(data, DefaultLevel), nil
}

// EncodeLevel compresses data with zstd at the given level.
func (ZstdPlugin) EncodeLevel(data []byte, level int) []byte {
	return gozstd.CompressLevel(nil, data, level)
}

// Decode decompresses zstd-compressed data.
func (ZstdPlugin) Decode(data []byte) ([]byte, error) {
	return gozstd.Decompress(nil, data)
}
