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

package attr

import (
	"math"

	"github.com/nczarr-go/nczarr/internal/ncerr"
	"github.com/nczarr-go/nczarr/nctype"
	"github.com/nczarr-go/nczarr/nczjson"
)

// Buffer is the in-memory, typed form an attribute's JSON value is
// converted to before it is encoded into the metadata document.
// Exactly one of the slices is populated, selected by Type.
type Buffer struct {
	Type    nctype.Type
	Ints    []int64
	UInts   []uint64
	Doubles []float64
	Chars   []byte
	Strings []string
}

// Len returns the attribute's declared length (element count; for
// NC_CHAR this is the byte count).
func (b *Buffer) Len() int {
	switch b.Type {
	case nctype.Char:
		return len(b.Chars)
	case nctype.String:
		return len(b.Strings)
	case nctype.Double:
		return len(b.Doubles)
	case nctype.Int, nctype.Short, nctype.Byte:
		return len(b.Ints)
	case nctype.UInt, nctype.UShort, nctype.UByte, nctype.Int64, nctype.UInt64:
		return len(b.Ints) + len(b.UInts)
	default:
		return 0
	}
}

// ToBuffer converts v to an in-memory Buffer of type t, range-checking
// every numeric element and concatenating NC_CHAR values from either a
// single string or an array of strings of any length (spec section
// 4.J: "For NC_CHAR, the JSON value must be either a string or an
// array of strings, concatenated into bytes").
func ToBuffer(t nctype.Type, v *nczjson.Value) (*Buffer, error) {
	switch t {
	case nctype.Char:
		return charBuffer(v)
	case nctype.String:
		return stringBuffer(v)
	case nctype.Double:
		return doubleBuffer(v)
	case nctype.JSON:
		return jsonBuffer(v)
	default:
		return intBuffer(t, v)
	}
}

func elements(v *nczjson.Value) []*nczjson.Value {
	if v.Kind == nczjson.KindArray {
		return v.Array
	}
	return []*nczjson.Value{v}
}

func charBuffer(v *nczjson.Value) (*Buffer, error) {
	var out []byte
	for _, e := range elements(v) {
		if e.Kind != nczjson.KindString {
			return nil, ncerr.New(ncerr.BadType, "NC_CHAR attribute element is not a string")
		}
		out = append(out, e.Str...)
	}
	return &Buffer{Type: nctype.Char, Chars: out}, nil
}

func stringBuffer(v *nczjson.Value) (*Buffer, error) {
	var out []string
	for _, e := range elements(v) {
		if e.Kind != nczjson.KindString {
			return nil, ncerr.New(ncerr.BadType, "NC_STRING attribute element is not a string")
		}
		out = append(out, e.Str)
	}
	return &Buffer{Type: nctype.String, Strings: out}, nil
}

func doubleBuffer(v *nczjson.Value) (*Buffer, error) {
	var out []float64
	for _, e := range elements(v) {
		switch e.Kind {
		case nczjson.KindDouble:
			out = append(out, e.Double)
		case nczjson.KindInt:
			out = append(out, float64(e.Int))
		default:
			return nil, ncerr.New(ncerr.BadType, "NC_DOUBLE attribute element is not numeric")
		}
	}
	return &Buffer{Type: nctype.Double, Doubles: out}, nil
}

func jsonBuffer(v *nczjson.Value) (*Buffer, error) {
	text := nczjson.Unparse(v)
	return &Buffer{Type: nctype.JSON, Chars: []byte(text)}, nil
}

func intBuffer(t nctype.Type, v *nczjson.Value) (*Buffer, error) {
	buf := &Buffer{Type: t}
	for _, e := range elements(v) {
		var n int64
		switch e.Kind {
		case nczjson.KindInt:
			n = e.Int
		case nczjson.KindBool:
			if e.Bool {
				n = 1
			}
		default:
			return nil, ncerr.New(ncerr.BadType, "attribute element of kind %v is not integral", e.Kind)
		}
		if err := RangeCheck(t, n); err != nil {
			return nil, err
		}
		if signedType(t) {
			buf.Ints = append(buf.Ints, n)
		} else {
			buf.UInts = append(buf.UInts, uint64(n))
		}
	}
	return buf, nil
}

func signedType(t nctype.Type) bool {
	switch t {
	case nctype.Byte, nctype.Short, nctype.Int, nctype.Int64:
		return true
	default:
		return false
	}
}

// RangeCheck reports whether n fits in nctype t's representable
// range, the numeric range-checking spec section 4.J requires before
// an attribute value is stored.
func RangeCheck(t nctype.Type, n int64) error {
	lo, hi, ok := rangeOf(t)
	if !ok {
		return nil
	}
	if n < lo || n > hi {
		return ncerr.New(ncerr.Range, "value %d out of range for %v", n, t)
	}
	return nil
}

func rangeOf(t nctype.Type) (lo, hi int64, ok bool) {
	switch t {
	case nctype.Byte:
		return math.MinInt8, math.MaxInt8, true
	case nctype.UByte:
		return 0, math.MaxUint8, true
	case nctype.Short:
		return math.MinInt16, math.MaxInt16, true
	case nctype.UShort:
		return 0, math.MaxUint16, true
	case nctype.Int:
		return math.MinInt32, math.MaxInt32, true
	case nctype.UInt:
		return 0, math.MaxUint32, true
	case nctype.Int64:
		return math.MinInt64, math.MaxInt64, true
	case nctype.UInt64:
		return 0, math.MaxInt64, true
	default:
		return 0, 0, false
	}
}
