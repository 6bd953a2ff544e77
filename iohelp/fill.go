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
	"encoding/binary"
	"math"

	"github.com/nczarr-go/nczarr/internal/ncerr"
	"github.com/nczarr-go/nczarr/nctype"
	"github.com/nczarr-go/nczarr/nczjson"
)

// Canonical classic-netCDF default fill values, used when a variable
// declares no_fill=false but has no explicit _FillValue.
const (
	fillByte    int8    = -127
	fillChar    byte    = 0
	fillShort   int16   = -32767
	fillInt     int32   = -2147483647
	fillFloat   float32 = 9.9692099683868690e+36
	fillDouble  float64 = 9.9692099683868690e+36
	fillUByte   uint8   = 255
	fillUShort  uint16  = 65535
	fillUInt    uint32  = 4294967295
	fillInt64   int64   = -9223372036854775806
	fillUInt64  uint64  = 18446744073709551614
)

func byteOrder(e nctype.Endian) binary.ByteOrder {
	if e == nctype.Big {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// EncodeElement appends the on-disk encoding of one scalar fill value
// of type t to buf, at endian (which must already be resolved to
// little/big for numeric types). strlen fixes the encoded width for
// String; Char always encodes as one byte.
func EncodeElement(buf []byte, t nctype.Type, endian nctype.Endian, strlen int) ([]byte, error) {
	bo := byteOrder(endian)
	switch t {
	case nctype.Byte:
		return append(buf, byte(fillByte)), nil
	case nctype.UByte:
		return append(buf, fillUByte), nil
	case nctype.Char:
		return append(buf, fillChar), nil
	case nctype.Short:
		var b [2]byte
		bo.PutUint16(b[:], uint16(fillShort))
		return append(buf, b[:]...), nil
	case nctype.UShort:
		var b [2]byte
		bo.PutUint16(b[:], fillUShort)
		return append(buf, b[:]...), nil
	case nctype.Int:
		var b [4]byte
		bo.PutUint32(b[:], uint32(fillInt))
		return append(buf, b[:]...), nil
	case nctype.UInt:
		var b [4]byte
		bo.PutUint32(b[:], fillUInt)
		return append(buf, b[:]...), nil
	case nctype.Int64:
		var b [8]byte
		bo.PutUint64(b[:], uint64(fillInt64))
		return append(buf, b[:]...), nil
	case nctype.UInt64:
		var b [8]byte
		bo.PutUint64(b[:], fillUInt64)
		return append(buf, b[:]...), nil
	case nctype.Float:
		var b [4]byte
		bo.PutUint32(b[:], math.Float32bits(fillFloat))
		return append(buf, b[:]...), nil
	case nctype.Double:
		var b [8]byte
		bo.PutUint64(b[:], math.Float64bits(fillDouble))
		return append(buf, b[:]...), nil
	case nctype.String:
		if strlen <= 0 {
			return nil, ncerr.New(ncerr.Internal, "fill: string type requires a positive max length")
		}
		return append(buf, make([]byte, strlen)...), nil
	default:
		return nil, ncerr.New(ncerr.Internal, "fill: unsupported type %v", t)
	}
}

// EncodeValue appends the on-disk encoding of one scalar, already-typed
// JSON value v (as stored in a Variable's FillPolicy) to buf. Unlike
// EncodeElement, the value comes from the metadata document rather
// than a type's classic-netCDF default.
func EncodeValue(buf []byte, t nctype.Type, endian nctype.Endian, strlen int, v *nczjson.Value) ([]byte, error) {
	bo := byteOrder(endian)
	switch t {
	case nctype.Char:
		s, err := v.AsString()
		if err != nil {
			return nil, err
		}
		if s == "" {
			return append(buf, fillChar), nil
		}
		return append(buf, s[0]), nil
	case nctype.String:
		s, err := v.AsString()
		if err != nil {
			return nil, err
		}
		if strlen <= 0 {
			return nil, ncerr.New(ncerr.Internal, "fill: string type requires a positive max length")
		}
		out := make([]byte, strlen)
		copy(out, s)
		return append(buf, out...), nil
	case nctype.Float, nctype.Double:
		f, err := v.AsFloat()
		if err != nil {
			return nil, err
		}
		if t == nctype.Float {
			var b [4]byte
			bo.PutUint32(b[:], math.Float32bits(float32(f)))
			return append(buf, b[:]...), nil
		}
		var b [8]byte
		bo.PutUint64(b[:], math.Float64bits(f))
		return append(buf, b[:]...), nil
	default:
		n, err := v.AsInt()
		if err != nil {
			return nil, err
		}
		switch t {
		case nctype.Byte, nctype.UByte:
			return append(buf, byte(n)), nil
		case nctype.Short, nctype.UShort:
			var b [2]byte
			bo.PutUint16(b[:], uint16(n))
			return append(buf, b[:]...), nil
		case nctype.Int, nctype.UInt:
			var b [4]byte
			bo.PutUint32(b[:], uint32(n))
			return append(buf, b[:]...), nil
		case nctype.Int64, nctype.UInt64:
			var b [8]byte
			bo.PutUint64(b[:], uint64(n))
			return append(buf, b[:]...), nil
		default:
			return nil, ncerr.New(ncerr.Internal, "fill: unsupported type %v", t)
		}
	}
}

// BuildFillChunk synthesizes the canonical fill chunk for a variable:
// elemCount copies of explicitValue (already-encoded scalar bytes), or
// of t's classic-netCDF default if explicitValue is nil.
func BuildFillChunk(t nctype.Type, endian nctype.Endian, strlen int, elemCount int, explicitValue []byte) ([]byte, error) {
	var elem []byte
	if explicitValue != nil {
		elem = explicitValue
	} else {
		var err error
		elem, err = EncodeElement(nil, t, endian, strlen)
		if err != nil {
			return nil, err
		}
	}
	out := make([]byte, 0, len(elem)*elemCount)
	for i := 0; i < elemCount; i++ {
		out = append(out, elem...)
	}
	return out, nil
}
