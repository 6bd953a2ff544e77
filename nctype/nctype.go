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

// Package nctype projects netCDF atomic types onto Zarr dtype strings for
// both format versions, and back (spec.md §4.C). V2 dtype strings follow
// NumPy's `<endian><kind><bytes>` grammar (e.g. "<i4", ">f8", "|S5");
// V3 uses canonical Zarr names ("int8", "float64", "r40", ...) plus an
// out-of-band alias tag for the three cases where Zarr's type space is
// coarser than netCDF's.
package nctype

import (
	"fmt"
	"strconv"
	"strings"
)

// Type is one atomic netCDF type, plus the three NCZarr pseudo-types.
type Type int

const (
	Byte Type = iota
	UByte
	Short
	UShort
	Int
	UInt
	Int64
	UInt64
	Float
	Double
	Char   // NC_CHAR
	String // NC_STRING
	JSON   // NCZarr JSON convention
)

func (t Type) String() string {
	switch t {
	case Byte:
		return "byte"
	case UByte:
		return "ubyte"
	case Short:
		return "short"
	case UShort:
		return "ushort"
	case Int:
		return "int"
	case UInt:
		return "uint"
	case Int64:
		return "int64"
	case UInt64:
		return "uint64"
	case Float:
		return "float"
	case Double:
		return "double"
	case Char:
		return "char"
	case String:
		return "string"
	case JSON:
		return "json"
	default:
		return "unknown"
	}
}

// Endian selects numeric byte order.
type Endian int

const (
	Native Endian = iota
	Little
	Big
)

func (e Endian) byteChar() byte {
	switch e {
	case Little:
		return '<'
	case Big:
		return '>'
	default:
		return '='
	}
}

type numericDesc struct {
	kind  byte
	bytes int
}

var numericTable = map[Type]numericDesc{
	Byte:    {'i', 1},
	UByte:   {'u', 1},
	Short:   {'i', 2},
	UShort:  {'u', 2},
	Int:     {'i', 4},
	UInt:    {'u', 4},
	Int64:   {'i', 8},
	UInt64:  {'u', 8},
	Float:   {'f', 4},
	Double:  {'f', 8},
}

// IsNumeric reports whether t is one of the fixed-width numeric atomics.
func (t Type) IsNumeric() bool {
	_, ok := numericTable[t]
	return ok
}

// Size returns the element size in bytes for numeric types, and for
// Char (always 1). String/JSON have no fixed size outside fixed-length
// encoding, so Size returns 0 for them.
func (t Type) Size() int {
	if d, ok := numericTable[t]; ok {
		return d.bytes
	}
	if t == Char {
		return 1
	}
	return 0
}

// IsFixedSize reports whether t has a constant on-disk element width
// (every numeric type and Char). String and JSON are variable-width:
// each value's encoded length depends on its content, not its type.
func (t Type) IsFixedSize() bool { return t.Size() > 0 }

// V2DType renders t as a Zarr V2 dtype string. maxstrlen is only
// consulted for String (fixed-length "|S<n>" encoding); 0 means
// variable-length is not representable in V2 and is an error.
func V2DType(t Type, endian Endian, maxstrlen int) (string, error) {
	switch t {
	case Char:
		return ">S1", nil
	case String:
		if maxstrlen <= 0 {
			return "", fmt.Errorf("nctype: V2 string dtype requires a positive max_strlen")
		}
		return fmt.Sprintf("|S%d", maxstrlen), nil
	case JSON:
		return "|J0", nil
	}
	d, ok := numericTable[t]
	if !ok {
		return "", fmt.Errorf("nctype: unsupported type %v for V2 dtype", t)
	}
	return fmt.Sprintf("%c%c%d", endian.byteChar(), d.kind, d.bytes), nil
}

// V2TypeOf is the inverse of V2DType. Per spec.md §4.C's reverse-mapping
// rule, an ambiguous dtype with no caller-supplied alias resolves to the
// atomic numeric type, never the char/string/json form — but ">S1"/"|Sn"
// /"|J0" are themselves unambiguous dtype spellings and always decode to
// Char/String/JSON respectively.
func V2TypeOf(dtype string) (t Type, endian Endian, maxstrlen int, err error) {
	if dtype == "" {
		return 0, 0, 0, fmt.Errorf("nctype: empty V2 dtype")
	}
	if dtype == ">S1" {
		return Char, Big, 0, nil
	}
	if strings.HasPrefix(dtype, "|S") {
		n, err := strconv.Atoi(dtype[2:])
		if err != nil {
			return 0, 0, 0, fmt.Errorf("nctype: invalid fixed-string dtype %q: %w", dtype, err)
		}
		return String, Native, n, nil
	}
	if dtype == "|J0" {
		return JSON, Native, 0, nil
	}
	if len(dtype) < 3 {
		return 0, 0, 0, fmt.Errorf("nctype: invalid V2 dtype %q", dtype)
	}
	var e Endian
	switch dtype[0] {
	case '<':
		e = Little
	case '>':
		e = Big
	case '=', '|':
		e = Native
	default:
		return 0, 0, 0, fmt.Errorf("nctype: invalid endian prefix in dtype %q", dtype)
	}
	kind := dtype[1]
	nbytes, err := strconv.Atoi(dtype[2:])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("nctype: invalid byte width in dtype %q: %w", dtype, err)
	}
	for nctype, d := range numericTable {
		if d.kind == kind && d.bytes == nbytes {
			return nctype, e, 0, nil
		}
	}
	return 0, 0, 0, fmt.Errorf("nctype: unrecognized V2 dtype %q", dtype)
}

// TypeAlias disambiguates a V3 Zarr canonical name when it is used to
// carry one of the three NCZarr pseudo-types.
type TypeAlias int

const (
	NoAlias TypeAlias = iota
	AliasChar
	AliasString
	AliasJSON
)

// V3DataType renders t as a Zarr V3 canonical type name, plus the alias
// tag (if any) that must be recorded in `_nczarr_array.type_alias`.
func V3DataType(t Type, bits int) (name string, alias TypeAlias, err error) {
	switch t {
	case Char:
		return "uint8", AliasChar, nil
	case JSON:
		return "uint8", AliasJSON, nil
	case String:
		if bits <= 0 {
			return "", NoAlias, fmt.Errorf("nctype: V3 string type requires a positive bit width")
		}
		return fmt.Sprintf("r%d", bits), AliasString, nil
	}
	d, ok := numericTable[t]
	if !ok {
		return "", NoAlias, fmt.Errorf("nctype: unsupported type %v for V3 data_type", t)
	}
	kindName := map[byte]string{'i': "int", 'u': "uint", 'f': "float"}[d.kind]
	return fmt.Sprintf("%s%d", kindName, d.bytes*8), NoAlias, nil
}

// V3TypeOf is the inverse of V3DataType. When alias is NoAlias and the
// Zarr name is itself ambiguous (it never is for int/uint/float — only
// alias-carrying uint8/rN spellings are ambiguous), the atomic numeric
// type wins per spec.md §4.C.
func V3TypeOf(name string, alias TypeAlias) (Type, error) {
	switch alias {
	case AliasChar:
		if name != "uint8" {
			return 0, fmt.Errorf("nctype: alias char requires data_type uint8, got %q", name)
		}
		return Char, nil
	case AliasJSON:
		if name != "uint8" {
			return 0, fmt.Errorf("nctype: alias json requires data_type uint8, got %q", name)
		}
		return JSON, nil
	case AliasString:
		if !strings.HasPrefix(name, "r") {
			return 0, fmt.Errorf("nctype: alias string requires data_type rN, got %q", name)
		}
		return String, nil
	}
	switch name {
	case "int8":
		return Byte, nil
	case "uint8":
		return UByte, nil
	case "int16":
		return Short, nil
	case "uint16":
		return UShort, nil
	case "int32":
		return Int, nil
	case "uint32":
		return UInt, nil
	case "int64":
		return Int64, nil
	case "uint64":
		return UInt64, nil
	case "float32":
		return Float, nil
	case "float64":
		return Double, nil
	}
	if strings.HasPrefix(name, "r") {
		return String, nil
	}
	return 0, fmt.Errorf("nctype: unrecognized V3 data_type %q", name)
}
